package plugin

import "context"

// Plugin is a named set of components.
type Plugin interface {
	Name() string
	Components() []any
}

// StartedObserver is notified after a plugin started.
type StartedObserver interface {
	OnPluginStarted(ctx context.Context, p Plugin) error
}

// StoppingObserver is notified before a plugin stops.
type StoppingObserver interface {
	OnPluginStopping(ctx context.Context, p Plugin) error
}

type staticPlugin struct {
	name       string
	components []any
}

// Static returns a plugin with a fixed component list.
func Static(name string, components ...any) Plugin {
	return &staticPlugin{name: name, components: components}
}

func (p *staticPlugin) Name() string { return p.name }

func (p *staticPlugin) Components() []any {
	return append([]any(nil), p.components...)
}
