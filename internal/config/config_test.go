package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultsOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultIgnoredPaths, cfg.IgnoredPaths)

	_, statErr := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, statErr)
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ignored_paths:\n  - vendor/\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/"}, cfg.IgnoredPaths)
}

func TestLoadEnvOverlayWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ignored_paths:\n  - vendor/\n"), 0o644))
	t.Setenv("LLM_LS_IGNORED_PATHS", "node_modules/, dist/")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/", "dist/"}, cfg.IgnoredPaths)
}
