package runtime

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the runtime package's logger instance. It is a no-op
// logger by default; SetLogger lets an embedder (the CLI, a test) redirect
// it to a real zap.Logger.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the runtime package's logger. Call before starting
// any JVM activity; the logger is read without synchronization afterward.
func SetLogger(l *zap.Logger) {
	logger = l
}
