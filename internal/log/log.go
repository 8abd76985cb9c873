package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// Logger returns the process-wide zap logger, building it on first use.
// The level comes from the LOG_LEVEL environment variable (default info).
func Logger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if lvl, err := zapcore.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			// building the default production config only fails on a bad
			// output path, which we don't set; fall back to a no-op logger
			logger = zap.NewNop()
		}
	})
	return logger
}
