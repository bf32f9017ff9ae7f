package i18n

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/localemux/pkg/cookie"
)

// Resolver kinds understood by NewResolver.
const (
	KindCookie     = "cookie"
	KindFixed      = "fixed"
	KindHeader     = "header"
	KindPreference = "preference"
)

// ResolverConfig declares a resolver, e.g. as a plugin manifest component:
//
//	kind: fixed
//	pattern: /locale
//	locale: en-US
type ResolverConfig struct {
	Kind      string   `yaml:"kind"`
	Pattern   string   `yaml:"pattern"`
	Priority  int      `yaml:"priority"`
	Locale    string   `yaml:"locale"`    // fixed: the tag; cookie: the default tag
	Header    string   `yaml:"header"`    // header: locale header; preference: user id header
	Cookie    string   `yaml:"cookie"`    // cookie: cookie name
	Signed    bool     `yaml:"signed"`    // cookie: HMAC signed cookie
	Supported []string `yaml:"supported"` // narrows resolved tags
}

// Deps are the shared services resolvers are built on.
type Deps struct {
	Cookies     *cookie.Manager
	Preferences PreferenceStore
	Logger      *slog.Logger
}

// NewResolver builds the resolver cfg describes.
func NewResolver(cfg ResolverConfig, deps Deps) (Resolver, error) {
	supported, err := ParseLocales(cfg.Supported)
	if err != nil {
		return nil, fmt.Errorf("supported locales: %w", err)
	}
	route := NewRoute(cfg.Pattern, cfg.Priority)

	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case KindFixed:
		tag, err := ParseLocale(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, cfg.Locale)
		}
		return NewFixedResolver(route, tag), nil

	case KindHeader:
		return NewHeaderResolver(route, cfg.Header, supported...), nil

	case KindCookie:
		opts := []CookieOption{
			WithCookieRoute(route),
			WithCookieName(cfg.Cookie),
			WithSupportedLocales(supported...),
		}
		if cfg.Locale != "" {
			tag, err := ParseLocale(cfg.Locale)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", err, cfg.Locale)
			}
			opts = append(opts, WithDefaultLocale(tag))
		}
		if cfg.Signed {
			opts = append(opts, WithSignedCookie())
		}
		return NewCookieResolver(deps.Cookies, opts...)

	case KindPreference:
		if deps.Preferences == nil {
			return nil, ErrPreferenceStoreRequired
		}
		return NewPreferenceResolver(route, deps.Preferences,
			WithUserHeader(cfg.Header),
			WithPreferenceLocales(supported...),
			WithPreferenceLogger(deps.Logger),
		)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResolverKind, cfg.Kind)
	}
}
