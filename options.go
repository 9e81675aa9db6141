package ar

import "log/slog"

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for debug output. By default nothing
// is logged.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithFatalHandler sets the function invoked when Build fails. The
// handler must not return: the default one reports the error to
// standard error and exits the process, and a substitute (a test
// handler, say) should panic instead. If the handler does return,
// Build panics with the error.
func WithFatalHandler(fn func(error)) Option {
	return func(b *Builder) {
		b.fatal = fn
	}
}
