// Package httpserver runs the process's HTTP endpoint with graceful shutdown
// and provides health-check handlers.
//
// Settings come from Config (HTTP_ADDR, HTTP_*_TIMEOUT), normally loaded with
// pkg/config; zero fields fall back to their envDefault values. Run listens on
// Config.Addr, Serve takes a listener that is already open. Both block until the
// context ends or Shutdown is called, then drain in-flight requests within
// Config.ShutdownTimeout.
//
// The server does not watch OS signals. The entry point registers Shutdown with
// the store's shutdown hook so HTTP traffic stops before the database closes:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	hook, _ := mongo.RegisterShutdownHook(db, mongo.WithShutdownFunc(srv.Shutdown))
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.HealthCheckHandler(log))
//	r.Get("/health/ready", httpserver.HealthCheckHandler(log, mongo.Healthcheck(db)))
//	r.Get("/health/db", httpserver.StatusHandler(func() (mongo.Status, bool) {
//		st := db.Status()
//		return st, st.IsConnected
//	}))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("HTTP server failed", logger.Error(err))
//	}
//	hook.Wait()
//
// Run and Serve join start failures with ErrStart (and ErrAlreadyRunning for a
// second concurrent call); Shutdown joins drain failures with ErrShutdown.
package httpserver
