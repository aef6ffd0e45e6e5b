package workspace

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger used by workspaces created without
// WithLogger. It is a no-op logger unless SetLogger was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger installs the package logger. A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
