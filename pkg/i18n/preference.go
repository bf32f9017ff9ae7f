package i18n

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/logger"
)

// DefaultUserHeader carries the user id PreferenceResolver looks preferences up by.
const DefaultUserHeader = "X-User-ID"

// PreferenceStore keeps one locale per user.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, locale string) error
	Delete(ctx context.Context, userID string) error
}

// PreferenceResolver resolves the locale a user stored earlier. Requests without a
// user id resolve to language.Und.
type PreferenceResolver struct {
	Route
	store     PreferenceStore
	header    string
	supported []language.Tag
	logger    *slog.Logger
}

// PreferenceOption configures a PreferenceResolver.
type PreferenceOption func(*PreferenceResolver)

func WithUserHeader(header string) PreferenceOption {
	return func(p *PreferenceResolver) {
		if header != "" {
			p.header = header
		}
	}
}

func WithPreferenceLocales(tags ...language.Tag) PreferenceOption {
	return func(p *PreferenceResolver) { p.supported = tags }
}

func WithPreferenceLogger(l *slog.Logger) PreferenceOption {
	return func(p *PreferenceResolver) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPreferenceResolver(route Route, store PreferenceStore, opts ...PreferenceOption) (*PreferenceResolver, error) {
	if store == nil {
		return nil, ErrPreferenceStoreRequired
	}

	p := &PreferenceResolver{
		Route:  route,
		store:  store,
		header: DefaultUserHeader,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("i18n.preference"))
	return p, nil
}

// Resolve looks up the stored preference. Store failures are logged and resolve to
// language.Und so the request falls through to the default resolver.
func (p *PreferenceResolver) Resolve(r *http.Request) language.Tag {
	userID := r.Header.Get(p.header)
	if userID == "" {
		return language.Und
	}

	value, err := p.store.Get(r.Context(), userID)
	if err != nil {
		p.logger.WarnContext(r.Context(), "load locale preference", logger.Error(err))
		return language.Und
	}
	if value == "" {
		return language.Und
	}

	tag, err := ParseLocale(value)
	if err != nil {
		return language.Und
	}
	return narrow(tag, p.supported)
}

// Persist stores tag for the requesting user, or deletes the preference for
// language.Und. Anonymous requests are ignored.
func (p *PreferenceResolver) Persist(_ http.ResponseWriter, r *http.Request, tag language.Tag) error {
	userID := r.Header.Get(p.header)
	if userID == "" {
		return nil
	}
	if tag == language.Und {
		return p.store.Delete(r.Context(), userID)
	}
	return p.store.Set(r.Context(), userID, tag.String())
}
