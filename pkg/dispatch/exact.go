package dispatch

import "sync"

// exactTable maps literal patterns to handlers.
type exactTable[H Handler] struct {
	entries sync.Map // string -> H
}

func (t *exactTable[H]) put(pattern string, h H, replace bool) (H, bool) {
	var (
		prev   any
		loaded bool
	)
	if replace {
		prev, loaded = t.entries.Swap(pattern, h)
	} else {
		prev, loaded = t.entries.LoadOrStore(pattern, h)
	}
	if !loaded {
		var zero H
		return zero, false
	}
	return prev.(H), true
}

func (t *exactTable[H]) remove(pattern string) bool {
	_, loaded := t.entries.LoadAndDelete(pattern)
	return loaded
}

func (t *exactTable[H]) get(path string) (H, bool) {
	v, ok := t.entries.Load(path)
	if !ok {
		var zero H
		return zero, false
	}
	return v.(H), true
}

func (t *exactTable[H]) each(fn func(pattern string, h H)) {
	t.entries.Range(func(k, v any) bool {
		fn(k.(string), v.(H))
		return true
	})
}
