package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	secrets *Secrets
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSecrets sets the environment-sourced credentials.
func WithSecrets(s *Secrets) Option {
	return func(a *application) {
		a.secrets = s
	}
}
