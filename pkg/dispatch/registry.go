package dispatch

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/pathpattern"
)

// Entry describes one registered pattern.
type Entry struct {
	Pattern  string           `json:"pattern"`
	Tier     pathpattern.Tier `json:"tier"`
	Priority int              `json:"priority"`
}

// Registry selects one handler per request path among the registered handlers.
// Create it with New; the zero value is not usable.
type Registry[H Handler] struct {
	exact    *exactTable[H]
	segments *segmentTree[H]
	wildcard *wildcardList[H]
	fallback H

	policy   ConflictPolicy
	logger   *slog.Logger
	observer Observer
}

// New creates a registry that returns fallback when no pattern matches.
// It returns ErrNoDefault when fallback is nil.
func New[H Handler](fallback H, opts ...Option) (*Registry[H], error) {
	if isNil(fallback) {
		return nil, ErrNoDefault
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Registry[H]{
		exact:    &exactTable[H]{},
		segments: newSegmentTree[H](),
		wildcard: newWildcardList[H](),
		fallback: fallback,
		policy:   o.policy,
		logger:   o.logger.With(logger.Component("dispatch")),
		observer: o.observer,
	}, nil
}

// Register adds h under its declared pattern.
//
// If the pattern already has a handler, ErrDuplicateRegistration is returned. With
// ConflictReplace (the default) h has replaced the previous handler when that error is
// returned; with ConflictReject the previous handler stays. Invalid patterns return
// pathpattern.ErrInvalidPattern and change nothing.
func (r *Registry[H]) Register(h H) error {
	if isNil(h) {
		return ErrNilHandler
	}

	p, err := pathpattern.Compile(h.Pattern())
	if err != nil {
		return err
	}

	replace := r.policy == ConflictReplace

	var loaded bool
	switch p.Tier() {
	case pathpattern.TierWildcard:
		_, loaded = r.wildcard.put(p, h, replace)
	case pathpattern.TierSegment:
		_, loaded = r.segments.register(p.Segments(), h, replace)
	default:
		_, loaded = r.exact.put(p.String(), h, replace)
	}

	if loaded {
		r.logger.Warn("pattern already registered",
			logger.Pattern(p.String()),
			logger.Tier(p.Tier().String()),
			slog.String("policy", r.policy.String()),
		)
		return fmt.Errorf("%w: pattern %s", ErrDuplicateRegistration, p)
	}

	r.observer.Registered(p.Tier(), 1)
	r.logger.Debug("handler registered",
		logger.Pattern(p.String()),
		logger.Tier(p.Tier().String()),
		slog.Int("priority", h.Priority()),
	)
	return nil
}

// Unregister removes the handler registered under h's pattern. Removing a pattern that
// is not registered is a no-op.
func (r *Registry[H]) Unregister(h H) error {
	if isNil(h) {
		return ErrNilHandler
	}

	p, err := pathpattern.Compile(h.Pattern())
	if err != nil {
		return err
	}

	var removed bool
	switch p.Tier() {
	case pathpattern.TierWildcard:
		removed = r.wildcard.remove(p.String())
	case pathpattern.TierSegment:
		removed = r.segments.unregister(p.Segments())
	default:
		removed = r.exact.remove(p.String())
	}

	if removed {
		r.observer.Registered(p.Tier(), -1)
		r.logger.Debug("handler unregistered",
			logger.Pattern(p.String()),
			logger.Tier(p.Tier().String()),
		)
	}
	return nil
}

// Match looks path up in the exact, segment and wildcard tiers, in that order. The path
// is percent-decoded and normalized first. ok is false when no pattern matches.
func (r *Registry[H]) Match(path string) (h H, tier pathpattern.Tier, ok bool) {
	clean := pathpattern.CleanPath(path)

	if h, ok = r.exact.get(clean); ok {
		return h, pathpattern.TierExact, true
	}
	if h, ok = r.segments.search(pathpattern.Split(clean)); ok {
		return h, pathpattern.TierSegment, true
	}
	if h, ok = r.wildcard.matchFirst(clean); ok {
		return h, pathpattern.TierWildcard, true
	}
	return h, pathpattern.TierExact, false
}

// Dispatch returns the best handler for path, or the default handler.
func (r *Registry[H]) Dispatch(path string) H {
	h, tier, ok := r.Match(path)
	r.observer.Dispatched(tier, ok)
	if !ok {
		return r.fallback
	}
	return h
}

// Default returns the handler used when nothing matches.
func (r *Registry[H]) Default() H {
	return r.fallback
}

// Entries returns the registered patterns ordered by tier, then pattern.
func (r *Registry[H]) Entries() []Entry {
	var entries []Entry

	r.exact.each(func(pattern string, h H) {
		entries = append(entries, Entry{Pattern: pattern, Tier: pathpattern.TierExact, Priority: h.Priority()})
	})
	r.segments.each(func(pattern string, h H) {
		entries = append(entries, Entry{Pattern: pattern, Tier: pathpattern.TierSegment, Priority: h.Priority()})
	})
	for _, e := range r.wildcard.list() {
		entries = append(entries, Entry{Pattern: e.pattern.String(), Tier: pathpattern.TierWildcard, Priority: e.priority})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
			return c
		}
		return cmp.Compare(a.Pattern, b.Pattern)
	})
	return entries
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
