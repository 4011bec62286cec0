package retriever

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/llm-ls/llm-ls/internal/errkind"
	"github.com/llm-ls/llm-ls/internal/gitignore"
)

// maxWindowBytes rejects any window whose joined text exceeds this size,
// to avoid pathological tokenization/embedding latency (spec.md §4.4).
const maxWindowBytes = 1024

// defaultConcurrency bounds embedding calls in flight at once (spec.md §5).
const defaultConcurrency = 8

// extensionWhitelist is the fixed set of source-code extensions the
// indexer accepts, per spec.md §6. Matching is case-insensitive and
// extension-less names (Dockerfile) are matched on the whole file name.
var extensionWhitelist = buildExtensionWhitelist(strings.Fields(
	"ada adb ads c h cpp hpp cc cxx hxx cs css scss sass less java js jsx ts tsx " +
		"php phtml html xml json yaml yml ini toml cfg conf sh bash zsh ps1 psm1 " +
		"bat cmd py rb swift pl pm t r rs go kt kts sql md markdown txt lua ex exs " +
		"erl scala sc ml mli zig clj cljs cljc cljx cr Dockerfile fs fsi fsx hs lhs " +
		"groovy jsonnet jl nim rkt scm tf nix vue svelte lisp lsp el elc eln",
))

func buildExtensionWhitelist(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}

func acceptedByExtension(path string) bool {
	base := filepath.Base(path)
	if extensionWhitelist[strings.ToLower(base)] {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	return extensionWhitelist[strings.ToLower(ext)]
}

// ProgressFunc is called once per indexed file, after all of its windows
// have been appended, so the caller can forward an LSP work-done
// notification.
type ProgressFunc func(fileURL string)

// IndexConfig parameterizes one Index run.
type IndexConfig struct {
	WindowSize  int // lines per window
	WindowStep  int // stride in lines between window starts
	Concurrency int // max in-flight embedding calls; 0 uses defaultConcurrency
}

func (c IndexConfig) withDefaults() IndexConfig {
	if c.WindowSize <= 0 {
		c.WindowSize = 60
	}
	if c.WindowStep <= 0 {
		c.WindowStep = c.WindowSize / 2
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	return c
}

// Index walks workspaceRoot, gitignore-aware, and indexes every accepted
// file into collection: sliding fixed-size line windows, deduped on
// (file_url, start_line, end_line), embedded via model and mean-pooled,
// per spec.md §4.4 steps 1-6. gitignoreContent is the workspace root
// .gitignore's content, or "" if none exists.
func Index(ctx context.Context, store *Store, collection, workspaceRoot, gitignoreContent string, model Model, cfg IndexConfig, progress ProgressFunc) error {
	cfg = cfg.withDefaults()
	matcher := gitignore.NewMatcher(workspaceRoot, gitignoreContent)
	sem := semaphore.NewWeighted(int64(cfg.Concurrency))

	return filepath.WalkDir(workspaceRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == workspaceRoot {
			return nil
		}
		if d.IsDir() {
			if matcher.Match(path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Match(path, false) || !acceptedByExtension(path) {
			return nil
		}

		if err := indexFile(ctx, store, collection, path, model, cfg, sem); err != nil {
			return err
		}
		if progress != nil {
			progress(path)
		}
		return nil
	})
}

func indexFile(ctx context.Context, store *Store, collection, path string, model Model, cfg IndexConfig, sem *semaphore.Weighted) (err error) {
	lines, err := readLines(path)
	if err != nil {
		return errkind.Wrap(errkind.IO, err, "read file for indexing")
	}
	if isEmptyOrWhitespace(lines) {
		return nil
	}

	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex
	recordErr := func(e error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = e
		}
	}
	defer func() {
		wg.Wait()
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			err = firstErr
		}
	}()

	for start := 0; start < len(lines); start += cfg.WindowStep {
		end := start + cfg.WindowSize
		if end > len(lines) {
			end = len(lines)
		}
		start, end := start, end

		content := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(content) == "" || len(content) > maxWindowBytes {
			if end == len(lines) {
				break
			}
			continue
		}

		already, err := store.HasWindow(collection, path, start+1, end)
		if err != nil {
			return err
		}
		if already {
			if end == len(lines) {
				break
			}
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			return errkind.Wrap(errkind.IO, err, "acquire embedding semaphore")
		}
		wg.Add(1)
		go func(startLine, endLine int, text string) {
			defer wg.Done()
			defer sem.Release(1)

			vector, err := Embed(model, text)
			if err != nil {
				recordErr(err)
				return
			}
			row := Row{
				ID:        uuid.NewString(),
				FileURL:   path,
				StartLine: startLine,
				EndLine:   endLine,
				Content:   text,
				Vector:    vector,
				Metadata:  map[string]string{"file_url": path},
			}
			if err := store.AppendRow(collection, row); err != nil && !errkind.Is(err, errkind.CollectionUniqueViolation) {
				recordErr(err)
			}
		}(start+1, end, content)

		if end == len(lines) {
			break
		}
	}

	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func isEmptyOrWhitespace(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
