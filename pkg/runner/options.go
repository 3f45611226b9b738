package runner

import "log/slog"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom text handler.
func WithInputHandler(handler *TextHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID resumes an existing conversation instead of starting one.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}
