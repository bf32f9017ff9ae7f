// Command localemux serves locale aware endpoints whose locale resolvers are
// dispatched by request path and installed from plugin manifests at runtime.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/localemux/pkg/config"
	"github.com/dmitrymomot/localemux/pkg/i18n"
	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/requestid"
)

const serviceName = "localemux"

func main() {
	var cfg appConfig
	config.MustLoad(&cfg, config.WithEnvFiles(".env"), config.WithOptionalEnvFiles())

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), i18n.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize", logger.Error(err))
		os.Exit(1)
	}

	if err := a.run(ctx); err != nil {
		log.Error("service stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("service stopped")
}
