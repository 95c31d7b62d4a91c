// Package logger holds the process-wide logger used by renderers and the
// protocol layer, where no request context is available.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

const name = "spool"

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.L().Named(name))
}

// L returns the current logger. It is never nil.
func L() *zap.Logger {
	return logger.Load()
}

// Set replaces the process-wide logger. A nil logger installs a no-op one.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named(name))
}
