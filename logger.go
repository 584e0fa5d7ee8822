package docrender

import (
	"log/slog"
	"sync/atomic"
)

// loggerPtr stores the package logger. Accessed atomically so SetLogger
// can race with renders in flight.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger used by renderers created without WithLogger.
// By default docrender produces no log output. Pass nil to silence it again.
//
// Log levels used:
//   - [slog.LevelDebug]: asset cache hits and fetch sizes
//   - [slog.LevelInfo]: render start/finish, winning tier
//   - [slog.LevelWarn]: failed asset fetches, failed tiers
//   - [slog.LevelError]: every tier failed
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
