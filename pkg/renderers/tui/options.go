package tui

import (
	"io"

	"go.uber.org/zap"
)

// Theme captures optional message prefixes the runner applies when printing
// notices.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where rendered screens are written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithRenderer overrides the markdown renderer used for screens.
func WithRenderer(renderer *Renderer) Option {
	return func(r *Runner) {
		if renderer != nil {
			r.renderer = renderer
		}
	}
}

// WithSubmitter delivers the finished assessment as a lead. Without one the
// runner only scores.
func WithSubmitter(s Submitter) Option {
	return func(r *Runner) {
		r.submitter = s
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}
