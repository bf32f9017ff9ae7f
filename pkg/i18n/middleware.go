package i18n

import (
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/logger"
)

// Dispatcher selects the resolver for a request path. *dispatch.Registry[Resolver]
// implements it.
type Dispatcher interface {
	Dispatch(path string) Resolver
	Default() Resolver
}

// DefaultQueryParam is the query parameter that overrides the resolved locale.
const DefaultQueryParam = "locale"

type middlewareOptions struct {
	queryParam string
	supported  []language.Tag
	logger     *slog.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareOptions)

// WithQueryParam sets the override parameter name. Empty disables the override.
func WithQueryParam(name string) MiddlewareOption {
	return func(o *middlewareOptions) { o.queryParam = name }
}

// WithOverrideLocales restricts query overrides to the closest supported tag. Overrides
// matching none of them are ignored.
func WithOverrideLocales(tags ...language.Tag) MiddlewareOption {
	return func(o *middlewareOptions) { o.supported = tags }
}

func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(o *middlewareOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Middleware resolves the request locale through d and stores it in the request context.
//
// A valid query override is persisted through the dispatched resolver before next runs,
// so the response carries e.g. the updated cookie. A failed Persist is logged; the
// override still applies to the current request.
func Middleware(d Dispatcher, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := &middlewareOptions{
		queryParam: DefaultQueryParam,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger.With(logger.Component("i18n"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolver := d.Dispatch(r.URL.EscapedPath())

			tag := o.override(r)
			if tag != language.Und {
				if err := resolver.Persist(w, r, tag); err != nil {
					log.WarnContext(r.Context(), "persist locale override",
						logger.Pattern(resolver.Pattern()),
						logger.Locale(tag),
						logger.Error(err),
					)
				}
			} else {
				tag = resolver.Resolve(r)
			}

			if tag == language.Und {
				tag = d.Default().Resolve(r)
			}
			if tag == language.Und {
				tag = DefaultLanguage
			}

			w.Header().Set("Content-Language", tag.String())
			ctx := SetLocale(r.Context(), tag)

			log.DebugContext(ctx, "locale resolved",
				logger.Path(r.URL.Path),
				logger.Pattern(resolver.Pattern()),
				logger.Locale(tag),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (o *middlewareOptions) override(r *http.Request) language.Tag {
	if o.queryParam == "" {
		return language.Und
	}
	tag, err := ParseLocale(r.URL.Query().Get(o.queryParam))
	if err != nil {
		return language.Und
	}
	return narrow(tag, o.supported)
}
