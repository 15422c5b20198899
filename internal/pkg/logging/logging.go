// Package logging provides the shared structured logger.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fixlocal/fixlocal/internal/pkg/env"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Setup initializes the global logger from LOG_LEVEL / LOG_FORMAT.
func Setup() {
	once.Do(func() {
		level, err := zapcore.ParseLevel(env.GetEnv("LOG_LEVEL", "info"))
		if err != nil {
			level = zapcore.InfoLevel
		}

		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if env.GetEnv("LOG_FORMAT", "json") == "console" {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}

		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
		if env.IsDev() {
			logger = zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
		} else {
			logger = zap.New(core, zap.AddCaller())
		}
	})
}

// Logger returns the global logger, initializing it on first use.
func Logger() *zap.Logger {
	if logger == nil {
		Setup()
	}
	return logger
}

// Module returns a logger tagged with a module name, mirroring the
// per-endpoint loggers used throughout the codebase.
func Module(name string) *zap.Logger {
	return Logger().With(zap.String("module", name))
}

// Sync flushes buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
