package plugin

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/localemux/pkg/logger"
)

type instance struct {
	plugin    Plugin
	runID     uuid.UUID
	startedAt time.Time
}

// Manager starts and stops plugins and notifies observers.
type Manager struct {
	mu       sync.Mutex
	running  map[string]*instance
	started  []StartedObserver
	stopping []StoppingObserver
	logger   *slog.Logger
	now      func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger. Nil is ignored.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager without observers.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		running: make(map[string]*instance),
		logger:  logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("plugin"))
	return m
}

// Observe registers observers. Each value must implement StartedObserver,
// StoppingObserver or both; anything else panics since it is a wiring mistake.
func (m *Manager) Observe(observers ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range observers {
		var matched bool
		if so, ok := o.(StartedObserver); ok {
			m.started = append(m.started, so)
			matched = true
		}
		if so, ok := o.(StoppingObserver); ok {
			m.stopping = append(m.stopping, so)
			matched = true
		}
		if !matched {
			panic(fmt.Sprintf("plugin: %T observes neither start nor stop", o))
		}
	}
}

// Start marks p as running and notifies the started observers. A running plugin with
// the same name is stopped first. Observer errors are joined and returned; the plugin
// stays running regardless, so it can be stopped later.
func (m *Manager) Start(ctx context.Context, p Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}
	name := p.Name()
	if name == "" {
		return ErrPluginNameRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if prev, ok := m.running[name]; ok {
		errs = append(errs, m.stopLocked(ctx, prev))
	}

	inst := &instance{plugin: p, runID: uuid.New(), startedAt: m.now()}
	m.running[name] = inst

	for _, o := range m.started {
		if err := o.OnPluginStarted(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	m.logger.InfoContext(ctx, "plugin started",
		logger.Plugin(name),
		logger.RunID(inst.runID.String()),
		slog.Int("components", len(p.Components())),
		logger.Error(err),
	)
	if err != nil {
		return fmt.Errorf("start plugin %s: %w", name, err)
	}
	return nil
}

// Stop notifies the stopping observers and forgets the plugin. Unknown names are a no-op.
func (m *Manager) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.running[name]
	if !ok {
		return nil
	}
	if err := m.stopLocked(ctx, inst); err != nil {
		return fmt.Errorf("stop plugin %s: %w", name, err)
	}
	return nil
}

// StopAll stops every running plugin, most recently started first.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	instances := make([]*instance, 0, len(m.running))
	for _, inst := range m.running {
		instances = append(instances, inst)
	}
	slices.SortFunc(instances, func(a, b *instance) int {
		return b.startedAt.Compare(a.startedAt)
	})

	var errs []error
	for _, inst := range instances {
		errs = append(errs, m.stopLocked(ctx, inst))
	}
	return errors.Join(errs...)
}

// Running returns the names of running plugins in lexical order.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.running))
	for name := range m.running {
		names = append(names, name)
	}
	slices.SortFunc(names, cmp.Compare[string])
	return names
}

// stopLocked must be called with mu held. Observers run in reverse registration order.
func (m *Manager) stopLocked(ctx context.Context, inst *instance) error {
	var errs []error
	for i := len(m.stopping) - 1; i >= 0; i-- {
		if err := m.stopping[i].OnPluginStopping(ctx, inst.plugin); err != nil {
			errs = append(errs, err)
		}
	}
	delete(m.running, inst.plugin.Name())

	err := errors.Join(errs...)
	m.logger.InfoContext(ctx, "plugin stopped",
		logger.Plugin(inst.plugin.Name()),
		logger.RunID(inst.runID.String()),
		logger.Duration(m.now().Sub(inst.startedAt)),
		logger.Error(err),
	)
	return err
}
