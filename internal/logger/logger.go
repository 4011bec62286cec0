// Package logger configures the process-wide structured logger.
//
// Every subsystem logs through the *zap.SugaredLogger returned by
// Initialize; there is no per-package logger construction. Output is JSON
// lines written to <cache_dir>/llm-ls.log, matching the on-disk log format
// required by the cache directory layout.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envLevel = "LLM_LOG_LEVEL"

var log *zap.SugaredLogger = zap.NewNop().Sugar()

// Get returns the process-wide logger. Safe to call before Initialize; it
// returns a no-op logger until Initialize has run.
func Get() *zap.SugaredLogger {
	return log
}

// Initialize opens <cacheDir>/llm-ls.log and installs it as the
// process-wide logger, returning a close function the caller must run
// before exit to flush buffered entries. The level is read once from
// LLM_LOG_LEVEL (debug, info, warn, error), defaulting to warn.
func Initialize(cacheDir string) (func() error, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.Join(cacheDir, "llm-ls.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "level"
	encoderConfig.MessageKey = "message"

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	writer := zapcore.AddSync(file)
	core := zapcore.NewCore(encoder, writer, levelFromEnv())

	log = zap.New(core, zap.AddCaller()).Sugar()

	return func() error {
		_ = log.Sync()
		return file.Close()
	}, nil
}

func levelFromEnv() zapcore.Level {
	switch os.Getenv(envLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
