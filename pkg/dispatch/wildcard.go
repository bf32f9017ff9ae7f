package dispatch

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/localemux/pkg/pathpattern"
)

type wildcardEntry[H Handler] struct {
	pattern  pathpattern.Pattern
	handler  H
	priority int
}

// wildcardList stores `**` patterns. Writers rebuild an ordered snapshot under mu and
// publish it atomically; readers only load the snapshot.
type wildcardList[H Handler] struct {
	mu       sync.Mutex
	entries  map[string]wildcardEntry[H]
	snapshot atomic.Pointer[[]wildcardEntry[H]]
}

func newWildcardList[H Handler]() *wildcardList[H] {
	l := &wildcardList[H]{entries: make(map[string]wildcardEntry[H])}
	l.snapshot.Store(&[]wildcardEntry[H]{})
	return l
}

func (l *wildcardList[H]) put(p pathpattern.Pattern, h H, replace bool) (H, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, loaded := l.entries[p.String()]
	if loaded && !replace {
		return prev.handler, true
	}
	l.entries[p.String()] = wildcardEntry[H]{pattern: p, handler: h, priority: h.Priority()}
	l.publish()
	return prev.handler, loaded
}

func (l *wildcardList[H]) remove(pattern string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[pattern]; !ok {
		return false
	}
	delete(l.entries, pattern)
	l.publish()
	return true
}

func (l *wildcardList[H]) matchFirst(path string) (H, bool) {
	for _, e := range *l.snapshot.Load() {
		if e.pattern.Matches(path) {
			return e.handler, true
		}
	}
	var zero H
	return zero, false
}

func (l *wildcardList[H]) list() []wildcardEntry[H] {
	return *l.snapshot.Load()
}

// publish must be called with mu held.
func (l *wildcardList[H]) publish() {
	ordered := make([]wildcardEntry[H], 0, len(l.entries))
	for _, e := range l.entries {
		ordered = append(ordered, e)
	}
	slices.SortFunc(ordered, compareWildcard[H])
	l.snapshot.Store(&ordered)
}

// compareWildcard orders by priority (high first), then literal prefix length, then
// segment count (both longest first), then pattern text.
func compareWildcard[H Handler](a, b wildcardEntry[H]) int {
	if c := cmp.Compare(b.priority, a.priority); c != 0 {
		return c
	}
	al, as := a.pattern.Specificity()
	bl, bs := b.pattern.Specificity()
	if c := cmp.Compare(bl, al); c != 0 {
		return c
	}
	if c := cmp.Compare(bs, as); c != 0 {
		return c
	}
	return strings.Compare(a.pattern.String(), b.pattern.String())
}
