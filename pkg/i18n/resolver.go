package i18n

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/dispatch"
)

// Resolver determines the locale of requests matching its route pattern.
type Resolver interface {
	dispatch.Handler

	// Resolve returns the request locale, or language.Und when it can't tell.
	Resolve(r *http.Request) language.Tag
	// Persist remembers tag for later requests. language.Und clears what was stored.
	Persist(w http.ResponseWriter, r *http.Request, tag language.Tag) error
}

// Route is the pattern and priority a resolver is registered under. Embed it to
// implement dispatch.Handler.
type Route struct {
	pattern  string
	priority int
}

// NewRoute returns a Route. Priority only orders overlapping `**` patterns; higher wins.
func NewRoute(pattern string, priority int) Route {
	return Route{pattern: pattern, priority: priority}
}

func (r Route) Pattern() string { return r.pattern }
func (r Route) Priority() int   { return r.priority }

// FixedResolver always resolves to the same locale.
type FixedResolver struct {
	Route
	tag language.Tag
}

func NewFixedResolver(route Route, tag language.Tag) *FixedResolver {
	return &FixedResolver{Route: route, tag: tag}
}

func (f *FixedResolver) Resolve(*http.Request) language.Tag { return f.tag }

// Persist is a no-op; the locale is fixed.
func (f *FixedResolver) Persist(http.ResponseWriter, *http.Request, language.Tag) error {
	return nil
}

// HeaderResolver reads the locale from a request header.
type HeaderResolver struct {
	Route
	header    string
	supported []language.Tag
}

// DefaultLocaleHeader is the header HeaderResolver reads when none is configured.
const DefaultLocaleHeader = "Language"

// NewHeaderResolver reads header (DefaultLocaleHeader when empty). With supported tags
// the value is narrowed to the closest of them.
func NewHeaderResolver(route Route, header string, supported ...language.Tag) *HeaderResolver {
	if header == "" {
		header = DefaultLocaleHeader
	}
	return &HeaderResolver{Route: route, header: header, supported: supported}
}

func (h *HeaderResolver) Resolve(r *http.Request) language.Tag {
	tag, err := ParseLocale(r.Header.Get(h.header))
	if err != nil {
		return language.Und
	}
	return narrow(tag, h.supported)
}

// Persist is a no-op; the client sends the header on every request.
func (h *HeaderResolver) Persist(http.ResponseWriter, *http.Request, language.Tag) error {
	return nil
}
