package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/localemux/pkg/logger"
	"github.com/dmitrymomot/localemux/pkg/plugin"
)

// Lifecycle keeps a Registry in sync with plugin start and stop events. Components of
// a started plugin that implement H are registered; they are unregistered again when
// the plugin stops. Other components are ignored.
type Lifecycle[H Handler] struct {
	registry *Registry[H]
	logger   *slog.Logger

	mu        sync.Mutex
	installed map[string][]H
}

// NewLifecycle creates a Lifecycle for registry. Pass it to plugin.Manager.Observe.
func NewLifecycle[H Handler](registry *Registry[H], l *slog.Logger) *Lifecycle[H] {
	if l == nil {
		l = logger.Discard()
	}
	return &Lifecycle[H]{
		registry:  registry,
		logger:    l.With(logger.Component("dispatch.lifecycle")),
		installed: make(map[string][]H),
	}
}

// OnPluginStarted registers every H component of p. Registration errors don't stop the
// remaining components; they are logged and joined into the returned error.
func (l *Lifecycle[H]) OnPluginStarted(ctx context.Context, p plugin.Plugin) error {
	var (
		installed []H
		errs      []error
	)

	for _, c := range p.Components() {
		h, ok := c.(H)
		if !ok {
			continue
		}

		err := l.registry.Register(h)
		switch {
		case err == nil:
			installed = append(installed, h)
		case errors.Is(err, ErrDuplicateRegistration):
			if l.registry.policy == ConflictReplace {
				installed = append(installed, h)
			}
			fallthrough
		default:
			l.logger.WarnContext(ctx, "register plugin handler",
				logger.Plugin(p.Name()),
				logger.Pattern(h.Pattern()),
				logger.Error(err),
			)
			errs = append(errs, err)
		}
	}

	l.mu.Lock()
	l.installed[p.Name()] = append(l.installed[p.Name()], installed...)
	l.mu.Unlock()

	return errors.Join(errs...)
}

// OnPluginStopping unregisters the handlers installed for p. Unknown plugins are a no-op.
func (l *Lifecycle[H]) OnPluginStopping(ctx context.Context, p plugin.Plugin) error {
	l.mu.Lock()
	installed, ok := l.installed[p.Name()]
	delete(l.installed, p.Name())
	l.mu.Unlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, h := range installed {
		if err := l.registry.Unregister(h); err != nil {
			l.logger.WarnContext(ctx, "unregister plugin handler",
				logger.Plugin(p.Name()),
				logger.Pattern(h.Pattern()),
				logger.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
