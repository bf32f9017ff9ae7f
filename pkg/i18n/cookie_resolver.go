package i18n

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/cookie"
)

// DefaultCookieName is the cookie CookieResolver uses when none is configured.
const DefaultCookieName = "locale"

// CookieResolver reads the locale cookie, then Accept-Language, then falls back to a
// default tag. It is the usual registry default and serves "/**".
type CookieResolver struct {
	Route
	cookies   *cookie.Manager
	name      string
	signed    bool
	supported []language.Tag
	fallback  language.Tag
}

// CookieOption configures a CookieResolver.
type CookieOption func(*CookieResolver)

func WithCookieName(name string) CookieOption {
	return func(c *CookieResolver) {
		if name != "" {
			c.name = name
		}
	}
}

// WithSignedCookie stores the cookie HMAC signed. The cookie manager needs a secret.
func WithSignedCookie() CookieOption {
	return func(c *CookieResolver) { c.signed = true }
}

// WithSupportedLocales narrows cookie and header values to the closest supported tag.
func WithSupportedLocales(tags ...language.Tag) CookieOption {
	return func(c *CookieResolver) { c.supported = tags }
}

// WithDefaultLocale sets the tag returned when neither cookie nor header decide.
func WithDefaultLocale(tag language.Tag) CookieOption {
	return func(c *CookieResolver) { c.fallback = tag }
}

func WithCookieRoute(route Route) CookieOption {
	return func(c *CookieResolver) { c.Route = route }
}

// NewCookieResolver creates a CookieResolver on top of cookies.
func NewCookieResolver(cookies *cookie.Manager, opts ...CookieOption) (*CookieResolver, error) {
	if cookies == nil {
		return nil, ErrCookieManagerRequired
	}

	c := &CookieResolver{
		Route:    NewRoute("/**", 0),
		cookies:  cookies,
		name:     DefaultCookieName,
		fallback: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.signed && !cookies.CanSign() {
		return nil, cookie.ErrNoSecret
	}
	return c, nil
}

func (c *CookieResolver) Resolve(r *http.Request) language.Tag {
	if tag := c.fromCookie(r); tag != language.Und {
		return tag
	}
	return ParseAcceptLanguage(r.Header.Get("Accept-Language"), c.supported, c.fallback)
}

// Persist writes the cookie, or deletes it for language.Und.
func (c *CookieResolver) Persist(w http.ResponseWriter, _ *http.Request, tag language.Tag) error {
	if tag == language.Und {
		c.cookies.Delete(w, c.name)
		return nil
	}
	if c.signed {
		return c.cookies.SetSigned(w, c.name, tag.String())
	}
	return c.cookies.Set(w, c.name, tag.String())
}

func (c *CookieResolver) fromCookie(r *http.Request) language.Tag {
	var (
		value string
		err   error
	)
	if c.signed {
		value, err = c.cookies.GetSigned(r, c.name)
	} else {
		value, err = c.cookies.Get(r, c.name)
	}
	if err != nil {
		return language.Und
	}

	tag, err := ParseLocale(value)
	if err != nil {
		return language.Und
	}
	return narrow(tag, c.supported)
}
