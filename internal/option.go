package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	command   string
	logOutput io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithCommand selects what Run does: index, normalize, serve or mcp.
func WithCommand(command string) Option {
	return func(a *application) {
		a.command = command
	}
}

// WithLogOutput redirects the JSON logger.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
