package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(envLevel, "")
	assert.Equal(t, zapcore.WarnLevel, levelFromEnv())

	t.Setenv(envLevel, "debug")
	assert.Equal(t, zapcore.DebugLevel, levelFromEnv())

	t.Setenv(envLevel, "info")
	assert.Equal(t, zapcore.InfoLevel, levelFromEnv())

	t.Setenv(envLevel, "error")
	assert.Equal(t, zapcore.ErrorLevel, levelFromEnv())

	t.Setenv(envLevel, "nonsense")
	assert.Equal(t, zapcore.WarnLevel, levelFromEnv())
}

func TestInitializeWritesJSONLinesFile(t *testing.T) {
	dir := t.TempDir()

	closeFn, err := Initialize(dir)
	require.NoError(t, err)
	defer closeFn()

	Get().Warnw("something happened", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "llm-ls.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"message\":\"something happened\"")
	assert.Contains(t, string(data), "\"key\":\"value\"")
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	// The package var starts out as zap.NewNop().Sugar(); this checks that
	// such a logger can be called without panicking. It does not call Get.
	l := zap.NewNop().Sugar()
	assert.NotPanics(t, func() { l.Infow("ignored") })
}
