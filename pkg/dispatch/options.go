package dispatch

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/pathpattern"
)

// Handler is anything that can be registered: it declares the route pattern it serves
// and a priority used to order overlapping `**` patterns.
type Handler interface {
	Pattern() string
	Priority() int
}

// ConflictPolicy decides what happens when a pattern is registered twice.
type ConflictPolicy uint8

const (
	// ConflictReplace installs the new handler and reports ErrDuplicateRegistration.
	ConflictReplace ConflictPolicy = iota
	// ConflictReject keeps the existing handler and reports ErrDuplicateRegistration.
	ConflictReject
)

func (p ConflictPolicy) String() string {
	if p == ConflictReject {
		return "reject"
	}
	return "replace"
}

// ParseConflictPolicy maps "replace" and "reject" (case-insensitive) to a policy. Any
// other value returns ErrUnknownConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return ConflictReplace, nil
	case "reject":
		return ConflictReject, nil
	default:
		return ConflictReplace, fmt.Errorf("%w: %q", ErrUnknownConflictPolicy, s)
	}
}

// Observer receives registry events, e.g. for metrics.
type Observer interface {
	// Registered is called with +1 after a pattern gets a handler and -1 after removal.
	Registered(tier pathpattern.Tier, delta int)
	// Dispatched is called for every Dispatch. matched is false when the default was used.
	Dispatched(tier pathpattern.Tier, matched bool)
}

type noopObserver struct{}

func (noopObserver) Registered(pathpattern.Tier, int)  {}
func (noopObserver) Dispatched(pathpattern.Tier, bool) {}

type options struct {
	policy   ConflictPolicy
	logger   *slog.Logger
	observer Observer
}

// Option configures a Registry.
type Option func(*options)

// WithConflictPolicy sets how duplicate patterns are handled. Default is ConflictReplace.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger used for registration events. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets an Observer. Nil is ignored.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func defaultOptions() *options {
	return &options{
		policy:   ConflictReplace,
		logger:   logger.Discard(),
		observer: noopObserver{},
	}
}
