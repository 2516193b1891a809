package canvas

import (
	"log/slog"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() { defaultLogger.Store(slog.New(slog.DiscardHandler)) }

// SetLogger sets the logger shared by Canvas and the surface packages,
// used when no WithLogger option is given. A nil logger discards everything,
// which is the default.
//
// Render statistics are logged at debug level; surfaces warn
// when they approximate a command, such as a non rectangular clip.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	defaultLogger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return defaultLogger.Load() }
