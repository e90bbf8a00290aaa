package mongo

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/prodigypm/pkg/config"
)

// Fixed pool and timeout settings. They are not read from the environment.
const (
	DefaultURI                    = "mongodb://localhost:27017/prodigypm"
	DefaultDatabaseName           = "prodigypm"
	DefaultMaxPoolSize            = 10
	DefaultMinPoolSize            = 2
	DefaultMaxIdleTime            = 30 * time.Second
	DefaultServerSelectionTimeout = 5 * time.Second
	DefaultSocketTimeout          = 45 * time.Second

	DefaultMaxRetries = 5
	DefaultBaseDelay  = time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// EnvConfig holds the values that can be overridden through the environment.
type EnvConfig struct {
	URI          string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/prodigypm"` // URI is the store endpoint.
	DatabaseName string `env:"MONGODB_DB_NAME" envDefault:"prodigypm"`                       // DatabaseName is the logical database used by the application.
}

// ConnectionConfig is the resolved, immutable connection configuration.
type ConnectionConfig struct {
	URI                    string
	DatabaseName           string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxIdleTime            time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	RetryWrites            bool
	RetryReads             bool
}

// Resolve builds the connection configuration from the process environment.
// It never fails: unset, empty or unparsable values fall back to the defaults.
func Resolve() ConnectionConfig {
	env := config.LoadOrDefault[EnvConfig]()
	return NewConnectionConfig(env)
}

// NewConnectionConfig combines env overrides with the fixed pool settings.
func NewConnectionConfig(env EnvConfig) ConnectionConfig {
	if env.URI == "" {
		env.URI = DefaultURI
	}
	if env.DatabaseName == "" {
		env.DatabaseName = DefaultDatabaseName
	}
	return ConnectionConfig{
		URI:                    env.URI,
		DatabaseName:           env.DatabaseName,
		MaxPoolSize:            DefaultMaxPoolSize,
		MinPoolSize:            DefaultMinPoolSize,
		MaxIdleTime:            DefaultMaxIdleTime,
		ServerSelectionTimeout: DefaultServerSelectionTimeout,
		SocketTimeout:          DefaultSocketTimeout,
		RetryWrites:            true,
		RetryReads:             true,
	}
}

// ClientOptions translates the configuration into driver options.
// The driver has no per-socket timeout, so SocketTimeout bounds every
// operation through the client-level timeout instead.
func (c ConnectionConfig) ClientOptions(monitor *event.ServerMonitor) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(c.URI).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxIdleTime).
		SetServerSelectionTimeout(c.ServerSelectionTimeout).
		SetConnectTimeout(c.ServerSelectionTimeout).
		SetTimeout(c.SocketTimeout).
		SetRetryWrites(c.RetryWrites).
		SetRetryReads(c.RetryReads)
	if monitor != nil {
		opts.SetServerMonitor(monitor)
	}
	return opts
}

// RetryPolicy bounds the connect loop.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy returns 5 attempts with delays growing from 1s up to 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
	}
}

// Validate reports whether the policy can drive the connect loop.
func (p RetryPolicy) Validate() error {
	switch {
	case p.MaxRetries < 1:
		return errors.Join(ErrInvalidRetryPolicy, errors.New("max retries must be at least 1"))
	case p.BaseDelay < 0:
		return errors.Join(ErrInvalidRetryPolicy, errors.New("base delay must not be negative"))
	case p.BaseDelay > p.MaxDelay:
		return errors.Join(ErrInvalidRetryPolicy, errors.New("base delay must not exceed max delay"))
	}
	return nil
}
