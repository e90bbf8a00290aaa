// Command server runs the HTTP API backed by the shared mongo connection.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/prodigypm/pkg/config"
	"github.com/dmitrymomot/prodigypm/pkg/environment"
	"github.com/dmitrymomot/prodigypm/pkg/httpserver"
	"github.com/dmitrymomot/prodigypm/pkg/logger"
	"github.com/dmitrymomot/prodigypm/pkg/mongo"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"prodigypm"`
	HTTP httpserver.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(environment.Parse(cfg.Env), cfg.Name),
		logger.WithContextExtractors(requestIDExtractor),
	)
	logger.SetAsDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := mongo.NewMetrics(reg)
	if err != nil {
		log.Error("Failed to register metrics", logger.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()
	db := mongo.New(mongo.Resolve(), mongo.WithLogger(log), mongo.WithMetrics(metrics))
	if err := db.Connect(ctx); err != nil {
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, mongo.Healthcheck(db)))
	r.Get("/health/db", httpserver.StatusHandler(func() (mongo.Status, bool) {
		st := db.Status()
		return st, st.IsConnected
	}))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	hook, err := mongo.RegisterShutdownHook(db,
		mongo.WithShutdownLogger(log),
		mongo.WithShutdownFunc(srv.Shutdown),
	)
	if err != nil {
		log.Error("Failed to register shutdown hook", logger.Error(err))
		_ = db.Disconnect(ctx)
		os.Exit(1)
	}

	if err := srv.Run(ctx, r); err != nil {
		log.Error("HTTP server failed", logger.Error(err))
		hook.Stop()
		_ = db.Disconnect(ctx)
		os.Exit(1)
	}
	hook.Wait()
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}
