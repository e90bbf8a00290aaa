package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// loadDotenv loads the .env file from the working directory once per process.
// A missing file is not an error; real environment variables take precedence.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load parses environment variables into the provided configuration struct
// using `env` and `envDefault` field tags. The process environment is read on
// every call.
//
// Example:
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//		Env  string `env:"APP_ENV" envDefault:"development"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadOrDefault parses T from the environment and never fails. If any variable
// cannot be parsed, the result holds only the `envDefault` values.
func LoadOrDefault[T any]() T {
	var v T
	if err := Load(&v); err == nil {
		return v
	}
	return Defaults[T]()
}

// Defaults returns T populated from `envDefault` tags only, ignoring the environment.
func Defaults[T any]() T {
	var v T
	_ = env.ParseWithOptions(&v, env.Options{Environment: map[string]string{}})
	return v
}
