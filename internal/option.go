package internal

// Option configures the folio entrypoints (Run, RunSync, RunMCP)
// before the pipeline is built.
type Option func(*application)

// application collects the settings resolved from options. Today that
// is only the configuration; the indirection keeps the entrypoint
// signatures stable as settings grow.
type application struct {
	config *Config
}

// WithConfig supplies the loaded configuration. Every entrypoint
// requires it.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
