// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// the default `.env` file in the working directory is loaded once per process,
// then the environment is parsed into a Go struct using field tags.
//
// # Usage
//
//	type Config struct {
//		URI          string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/prodigypm"`
//		DatabaseName string `env:"MONGODB_DB_NAME" envDefault:"prodigypm"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Components that must start with some configuration, however wrong, use
// LoadOrDefault, which falls back to the `envDefault` values instead of failing.
// MustLoad panics and suits configuration without which the process cannot run.
//
// # Error Handling
//
// Parse failures are joined with ErrParsingConfig; a nil target returns
// ErrNilPointer. Use errors.Is to check for them.
package config
