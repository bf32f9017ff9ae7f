// Package i18n resolves the locale of an HTTP request and carries it in the request
// context.
//
// A Resolver serves one route pattern. It reads a locale from the request (Resolve) and
// can store an explicitly chosen locale for later requests (Persist). Resolvers are kept
// in a dispatch.Registry, which picks the best resolver per path; Middleware runs that
// selection for every request:
//
//	cookies, _ := cookie.New(nil, cookie.WithMaxAge(365*24*60*60))
//	fallback, _ := i18n.NewCookieResolver(cookies)
//	registry, _ := dispatch.New[i18n.Resolver](fallback)
//	_ = registry.Register(i18n.NewFixedResolver(i18n.NewRoute("/weather/**", 0), language.English))
//
//	r := chi.NewRouter()
//	r.Use(i18n.Middleware(registry))
//
// Handlers read the locale with GetLocale:
//
//	tag := i18n.GetLocale(r.Context())
//
// # Resolution order
//
// A valid `locale` query parameter wins and is persisted through the selected resolver
// before the handler runs. Otherwise the selected resolver decides; when it can't tell
// (language.Und) the registry default is asked, and DefaultLanguage is the last resort.
// The result is set as the Content-Language response header.
//
// # Resolvers
//
//   - CookieResolver: locale cookie, then Accept-Language, then a default tag.
//   - FixedResolver: always the same tag.
//   - HeaderResolver: a request header such as "Language".
//   - PreferenceResolver: a per-user preference from a PreferenceStore (Redis).
//
// NewResolver builds any of them from a ResolverConfig, which is how plugin manifests
// declare resolvers.
package i18n
