package canvas

import "log/slog"

// Option configures a Canvas during creation.
//
// Example:
//
//	c := canvas.New(surface, canvas.WithLogger(slog.Default()))
type Option func(*options)

type options struct {
	logger  *slog.Logger
	initial GraphicsState
}

func defaultOptions() options {
	return options{
		logger:  nil, // falls back to the package logger
		initial: DefaultState,
	}
}

// WithLogger sets the logger used by this Canvas only,
// instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithInitialState declares the state of a surface whose defaults
// differ from DefaultState, so that the first style changes are
// compared against the right values.
func WithInitialState(s GraphicsState) Option {
	return func(o *options) {
		o.initial = s
	}
}
