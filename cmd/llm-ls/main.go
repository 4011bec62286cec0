// llm-ls is the language-server backend that builds completion prompts
// from an editor's open buffers, dispatches them to a configured
// inference backend, and records accept/reject telemetry, per spec.md.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/llm-ls/llm-ls/internal/backend"
	"github.com/llm-ls/llm-ls/internal/config"
	"github.com/llm-ls/llm-ls/internal/logger"
	"github.com/llm-ls/llm-ls/internal/lsp"
	"github.com/llm-ls/llm-ls/internal/retriever"
	"github.com/llm-ls/llm-ls/internal/tokenizer"
)

// releaseVersion is stamped at build time via -ldflags "-X main.releaseVersion=...".
var releaseVersion = "dev"

var (
	cacheDirFlag = flag.String("cache-dir", "", "directory for config.yaml, llm-ls.log and the vector store (default: OS user cache dir)/llm-ls")
	version      = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("llm-ls %s\n", releaseVersion)
		os.Exit(0)
	}

	dir, err := resolveCacheDir(*cacheDirFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve cache directory: %v\n", err)
		os.Exit(1)
	}

	// Logs go to <cache_dir>/llm-ls.log, never stdout/stderr: llm-ls
	// talks LSP JSON-RPC over stdio and must not interleave log lines
	// with protocol traffic.
	closeLog, err := logger.Initialize(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log := logger.Get()

	backend.SetVersion(releaseVersion)

	cfg, err := config.Load(dir)
	if err != nil {
		log.Errorw("load config", "error", err)
		os.Exit(1)
	}

	store, err := retriever.Open(filepath.Join(dir, "vectors.db"))
	if err != nil {
		log.Errorw("open vector store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokenizers := tokenizer.NewCache(tokenizer.LoadTiktokenByModel)

	server := lsp.NewServer(log, cfg, store, tokenizers)

	log.Infow("starting llm-ls", "version", releaseVersion, "cache_dir", dir)
	if err := server.RunStdio(); err != nil {
		log.Errorw("server exited", "error", err)
		os.Exit(1)
	}
}

func resolveCacheDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "llm-ls"), nil
}
