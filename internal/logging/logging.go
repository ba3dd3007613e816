// Package logging builds the application's zap logger. Logs go to a
// rotating file because the terminal UI owns stdout.
package logging

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a JSON logger writing to path, and a function that flushes
// and closes it. An empty path yields a no-op logger. Debug entries are
// kept only when verbose is set.
func New(path string, verbose bool) (*zap.Logger, func(), error) {
	if path == "" {
		return zap.NewNop(), func() {}, nil
	}

	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.AddSync(sink),
		cfg.Level,
	)
	logger := zap.New(core, zap.AddCaller())

	closeFn := func() {
		_ = logger.Sync()
		_ = sink.Close()
	}
	return logger, closeFn, nil
}

// VerboseFromEnv reports whether ACUITY_DEBUG asks for debug logging.
func VerboseFromEnv() bool {
	v, err := strconv.ParseBool(os.Getenv("ACUITY_DEBUG"))
	return err == nil && v
}
