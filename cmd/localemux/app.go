package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/localemux/pkg/cookie"
	"github.com/dmitrymomot/localemux/pkg/dispatch"
	"github.com/dmitrymomot/localemux/pkg/httpserver"
	"github.com/dmitrymomot/localemux/pkg/i18n"
	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/plugin"
	"github.com/dmitrymomot/localemux/pkg/plugin/manifest"
	"github.com/dmitrymomot/localemux/pkg/redis"
	"github.com/dmitrymomot/localemux/pkg/requestid"
	"github.com/dmitrymomot/localemux/pkg/validation"
)

type app struct {
	log       *slog.Logger
	registry  *dispatch.Registry[i18n.Resolver]
	plugins   *plugin.Manager
	watcher   *manifest.Watcher
	validator *validation.Handler
	server    *httpserver.Server
	metrics   *prometheus.Registry
	redis     *goredis.Client
	checks    []httpserver.Check
	supported []language.Tag
}

func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (*app, error) {
	supported, def, err := cfg.locales()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.conflictPolicy()
	if err != nil {
		return nil, err
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, fmt.Errorf("cookie manager: %w", err)
	}

	cookieOpts := []i18n.CookieOption{
		i18n.WithSupportedLocales(supported...),
		i18n.WithDefaultLocale(def),
	}
	if cookies.CanSign() {
		cookieOpts = append(cookieOpts, i18n.WithSignedCookie())
	}
	fallback, err := i18n.NewCookieResolver(cookies, cookieOpts...)
	if err != nil {
		return nil, fmt.Errorf("default resolver: %w", err)
	}

	a := &app{
		log:       log,
		metrics:   prometheus.NewRegistry(),
		supported: supported,
	}
	a.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	observer, err := dispatch.NewPrometheusObserver(a.metrics, serviceName)
	if err != nil {
		return nil, err
	}
	a.registry, err = dispatch.New[i18n.Resolver](fallback,
		dispatch.WithConflictPolicy(policy),
		dispatch.WithLogger(log),
		dispatch.WithObserver(observer),
	)
	if err != nil {
		return nil, err
	}

	deps := i18n.Deps{Cookies: cookies, Logger: log}
	if cfg.Redis.Enabled() {
		a.redis, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		deps.Preferences = redis.NewPreferenceStoreFromConfig(a.redis, cfg.Redis)
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Func: redis.Healthcheck(a.redis)})
	}

	a.validator, err = validation.New()
	if err != nil {
		return nil, err
	}

	a.plugins = plugin.NewManager(plugin.WithLogger(log))
	a.plugins.Observe(dispatch.NewLifecycle(a.registry, log))
	if cfg.PluginDir != "" {
		a.watcher = manifest.NewWatcher(cfg.PluginDir, a.plugins, resolverFactory(deps), manifest.WithLogger(log))
	}
	a.server = httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	return a, nil
}

// resolverFactory decodes manifest components into resolvers.
func resolverFactory(deps i18n.Deps) manifest.Factory {
	return func(node *yaml.Node) (any, error) {
		var cfg i18n.ResolverConfig
		if err := node.Decode(&cfg); err != nil {
			return nil, err
		}
		return i18n.NewResolver(cfg, deps)
	}
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(a.log))
	r.Get("/ready", httpserver.HealthCheckHandler(a.log, a.checks...))
	r.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	r.Get("/resolvers", a.listResolvers)

	r.Group(func(r chi.Router) {
		r.Use(i18n.Middleware(a.registry,
			i18n.WithOverrideLocales(a.supported...),
			i18n.WithMiddlewareLogger(a.log),
		))
		r.Get("/weather", a.weather)
		r.Get("/locale", a.weather)
		r.Get("/{prefix}/weather", a.weather)
		r.Post("/subscriptions", a.subscribe)
	})
	return r
}

// run serves HTTP and watches plugin manifests until ctx is canceled or either fails.
// Plugins are stopped afterwards, so their resolvers leave the registry.
func (a *app) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if a.watcher != nil {
		g.Go(func() error { return a.watcher.Run(ctx) })
	}
	g.Go(func() error { return a.server.Run(ctx, a.router()) })

	err := g.Wait()

	stopCtx := context.WithoutCancel(ctx)
	if stopErr := a.plugins.StopAll(stopCtx); stopErr != nil {
		a.log.WarnContext(stopCtx, "stop plugins", logger.Error(stopErr))
	}
	if a.redis != nil {
		err = errors.Join(err, a.redis.Close())
	}
	return err
}
