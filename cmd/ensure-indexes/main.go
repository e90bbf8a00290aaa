// Command ensure-indexes connects to mongo, creates the application indexes
// and exits. It exits with status 1 if connecting or any index creation fails.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/prodigypm/pkg/config"
	"github.com/dmitrymomot/prodigypm/pkg/environment"
	"github.com/dmitrymomot/prodigypm/pkg/logger"
	"github.com/dmitrymomot/prodigypm/pkg/mongo"
)

const component = "ensure-indexes"

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"prodigypm"`
}

// resultProvisioner keeps the outcome of the provisioning run that Connect
// triggers, since Connect itself only logs it.
type resultProvisioner struct {
	*mongo.Provisioner
	ran bool
	err error
}

func (p *resultProvisioner) Provision(ctx context.Context, c mongo.IndexCreator) error {
	p.ran = true
	p.err = p.Provisioner.Provision(ctx, c)
	return p.err
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(environment.Parse(cfg.Env), cfg.Name+"-"+component))
	os.Exit(run(context.Background(), log))
}

// run returns the process exit code. opts are applied after the defaults.
func run(ctx context.Context, log *slog.Logger, opts ...mongo.Option) int {
	start := time.Now()
	prov := &resultProvisioner{Provisioner: mongo.NewProvisioner(log, mongo.DefaultIndexes()...)}
	db := mongo.New(mongo.Resolve(), append([]mongo.Option{
		mongo.WithLogger(log),
		mongo.WithProvisioner(prov),
	}, opts...)...)

	log.InfoContext(ctx, "Ensuring indexes",
		logger.Component(component),
		logger.Database(db.Config().DatabaseName),
		logger.MaxAttempts(db.RetryPolicy().MaxRetries),
	)
	if err := db.Connect(ctx); err != nil {
		return 1
	}

	code := 0
	if !prov.ran || prov.err != nil {
		code = 1
	} else {
		log.InfoContext(ctx, "Indexes ensured",
			logger.Component(component),
			logger.Attempt(db.Attempts()),
			logger.Duration(time.Since(start)),
		)
	}

	if err := db.Disconnect(ctx); err != nil {
		code = 1
	}
	return code
}
