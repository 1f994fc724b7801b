package docquiz

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	logger = newLogger(false)
)

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetVerbose switches the package logger between production and debug output
func SetVerbose(verbose bool) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = newLogger(verbose)
}

// SetLogger replaces the package logger, e.g. with zap.NewNop().Sugar() in tests
func SetLogger(l *zap.SugaredLogger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

// Logger returns the package logger
func Logger() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// VerboseLog logs at debug level, which is only emitted when verbose mode is enabled
func VerboseLog(format string, v ...interface{}) {
	Logger().Debugf(format, v...)
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	_ = Logger().Sync()
}
