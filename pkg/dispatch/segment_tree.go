package dispatch

import (
	"strings"
	"sync"

	"github.com/dmitrymomot/localemux/pkg/pathpattern"
)

// segmentNode is one path segment. Literal children are keyed by segment; `*` lives in
// its own child so a literal can always be tried first.
type segmentNode[H Handler] struct {
	literal  map[string]*segmentNode[H]
	wildcard *segmentNode[H]
	handler  H
	bound    bool
}

// segmentTree stores patterns containing `*`. Empty nodes left behind by unregister are
// not pruned; the number of patterns is bounded by the registered plugins.
type segmentTree[H Handler] struct {
	mu   sync.RWMutex
	root *segmentNode[H]
}

func newSegmentTree[H Handler]() *segmentTree[H] {
	return &segmentTree[H]{root: &segmentNode[H]{}}
}

func (t *segmentTree[H]) register(segments []string, h H, replace bool) (H, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, seg := range segments {
		n = n.child(seg)
	}

	prev, loaded := n.handler, n.bound
	if loaded && !replace {
		return prev, true
	}
	n.handler, n.bound = h, true
	return prev, loaded
}

func (t *segmentTree[H]) unregister(segments []string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root.lookup(segments)
	if n == nil || !n.bound {
		return false
	}
	var zero H
	n.handler, n.bound = zero, false
	return true
}

func (t *segmentTree[H]) search(segments []string) (H, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n := t.root.match(segments); n != nil {
		return n.handler, true
	}
	var zero H
	return zero, false
}

func (t *segmentTree[H]) each(fn func(pattern string, h H)) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	t.root.walk(nil, fn)
}

// child returns the child for seg, creating it when missing.
func (n *segmentNode[H]) child(seg string) *segmentNode[H] {
	if seg == pathpattern.SingleWildcard {
		if n.wildcard == nil {
			n.wildcard = &segmentNode[H]{}
		}
		return n.wildcard
	}
	if n.literal == nil {
		n.literal = make(map[string]*segmentNode[H])
	}
	c, ok := n.literal[seg]
	if !ok {
		c = &segmentNode[H]{}
		n.literal[seg] = c
	}
	return c
}

// lookup follows pattern segments structurally, without matching semantics.
func (n *segmentNode[H]) lookup(segments []string) *segmentNode[H] {
	for _, seg := range segments {
		if seg == pathpattern.SingleWildcard {
			n = n.wildcard
		} else {
			n = n.literal[seg]
		}
		if n == nil {
			return nil
		}
	}
	return n
}

// match finds the bound node for a request path. The literal branch is explored before
// the `*` branch, so a literal pattern wins whenever both could match.
func (n *segmentNode[H]) match(segments []string) *segmentNode[H] {
	if len(segments) == 0 {
		if n.bound {
			return n
		}
		return nil
	}
	if c, ok := n.literal[segments[0]]; ok {
		if found := c.match(segments[1:]); found != nil {
			return found
		}
	}
	if n.wildcard != nil {
		return n.wildcard.match(segments[1:])
	}
	return nil
}

func (n *segmentNode[H]) walk(prefix []string, fn func(pattern string, h H)) {
	if n.bound {
		fn(pathpattern.Separator+strings.Join(prefix, pathpattern.Separator), n.handler)
	}
	for seg, c := range n.literal {
		c.walk(append(prefix[:len(prefix):len(prefix)], seg), fn)
	}
	if n.wildcard != nil {
		n.wildcard.walk(append(prefix[:len(prefix):len(prefix)], pathpattern.SingleWildcard), fn)
	}
}
