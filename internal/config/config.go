// Package config loads llm-ls's on-disk configuration file, per
// spec.md §6: a YAML file at <cache_dir>/config.yaml holding
// {ignored_paths: [string]}, created with defaults on first run and
// overlaid by LLM_LS_-prefixed environment variables (env wins).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// DefaultIgnoredPaths are written into a fresh config.yaml on first run.
var DefaultIgnoredPaths = []string{".git/", ".idea/", ".DS_Store/"}

// Config is the config.yaml shape.
type Config struct {
	IgnoredPaths []string `yaml:"ignored_paths"`
}

func defaultConfig() Config {
	return Config{IgnoredPaths: append([]string(nil), DefaultIgnoredPaths...)}
}

// Load reads <cacheDir>/config.yaml, creating it with defaults if it
// doesn't exist yet, then overlays any LLM_LS_-prefixed environment
// variables on top.
func Load(cacheDir string) (Config, error) {
	path := filepath.Join(cacheDir, "config.yaml")

	cfg, err := readOrCreate(path)
	if err != nil {
		return Config{}, err
	}
	applyEnvOverlay(&cfg)
	return cfg, nil
}

func readOrCreate(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultConfig()
		if writeErr := write(path, cfg); writeErr != nil {
			return Config{}, writeErr
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, errkind.Wrap(errkind.IO, err, "read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errkind.Wrap(errkind.SerdeJSON, err, "parse config.yaml")
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errkind.Wrap(errkind.IO, err, "create config directory")
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errkind.Wrap(errkind.SerdeJSON, err, "marshal default config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errkind.Wrap(errkind.IO, err, "write config file")
	}
	return nil
}

// envPrefix is the environment variable prefix spec.md §6 names.
// LLM_LS_IGNORED_PATHS, comma-separated, overrides ignored_paths.
const envPrefix = "LLM_LS_"

func applyEnvOverlay(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "IGNORED_PATHS"); ok {
		var paths []string
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				paths = append(paths, p)
			}
		}
		cfg.IgnoredPaths = paths
	}
}
