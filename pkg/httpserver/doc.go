// Package httpserver runs the localemux HTTP surface with context driven
// graceful shutdown, configurable timeouts and health-check handlers.
//
// Run blocks until its context is canceled (main wires that to SIGINT and
// SIGTERM through signal.NotifyContext) and then shuts the server down with
// the configured deadline. Ready and Addr let callers wait for the listener,
// which is handy with WithListener and port 0 in tests.
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.HealthCheckHandler(log))
//	r.Get("/ready", httpserver.HealthCheckHandler(log, httpserver.Check{
//		Name: "redis",
//		Func: redis.Healthcheck(client),
//	}))
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors
// with ErrShutdown; use errors.Is to tell them apart.
package httpserver
