package dispatch_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localemux/pkg/dispatch"
	"github.com/dmitrymomot/localemux/pkg/pathpattern"
)

type route struct {
	name     string
	pattern  string
	priority int
}

func (r *route) Pattern() string { return r.pattern }
func (r *route) Priority() int   { return r.priority }

func newRoute(name, pattern string) *route {
	return &route{name: name, pattern: pattern}
}

func newRegistry(t *testing.T, opts ...dispatch.Option) *dispatch.Registry[*route] {
	t.Helper()
	r, err := dispatch.New(newRoute("default", ""), opts...)
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil default", func(t *testing.T) {
		t.Parallel()
		r, err := dispatch.New[*route](nil)
		require.ErrorIs(t, err, dispatch.ErrNoDefault)
		assert.Nil(t, r)
	})

	t.Run("empty registry dispatches default", func(t *testing.T) {
		t.Parallel()
		r := newRegistry(t)
		assert.Equal(t, "default", r.Dispatch("/anything").name)
		assert.Equal(t, "default", r.Dispatch("").name)
		assert.Empty(t, r.Entries())
	})
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("A", "/api/v1/users")))
	require.NoError(t, r.Register(newRoute("B", "/api/v1/*")))
	require.NoError(t, r.Register(newRoute("C", "/api/**")))

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/users", "A"},
		{"/api/v1/users/", "A"},
		{"api/v1/users", "A"},
		{"/api/v1/orders", "B"},
		{"/api/v1/users/42", "C"},
		{"/api/v2/anything", "C"},
		{"/api", "C"},
		{"/other", "default"},
		{"/", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.Dispatch(tt.path).name)
		})
	}
}

func TestRegistry_Match(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("exact", "/a/b")))
	require.NoError(t, r.Register(newRoute("segment", "/a/*")))
	require.NoError(t, r.Register(newRoute("wildcard", "/a/**")))

	h, tier, ok := r.Match("/a/b")
	require.True(t, ok)
	assert.Equal(t, "exact", h.name)
	assert.Equal(t, pathpattern.TierExact, tier)

	h, tier, ok = r.Match("/a/c")
	require.True(t, ok)
	assert.Equal(t, "segment", h.name)
	assert.Equal(t, pathpattern.TierSegment, tier)

	h, tier, ok = r.Match("/a/c/d")
	require.True(t, ok)
	assert.Equal(t, "wildcard", h.name)
	assert.Equal(t, pathpattern.TierWildcard, tier)

	h, _, ok = r.Match("/b")
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestRegistry_PercentDecoding(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("space", "/hello world")))
	require.NoError(t, r.Register(newRoute("docs", "/docs/*")))

	assert.Equal(t, "space", r.Dispatch("/hello%20world").name)
	assert.Equal(t, "docs", r.Dispatch("/docs/%61bc").name)
	assert.Equal(t, "default", r.Dispatch("/docs/a%2Fb").name, "decoded slash splits the segment")
	assert.Equal(t, "default", r.Dispatch("/hello%zzworld").name)
}

func TestRegistry_DotSegments(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("users", "/users")))

	assert.Equal(t, "users", r.Dispatch("/admin/../users").name)
	assert.Equal(t, "users", r.Dispatch("/./users/.").name)
	assert.Equal(t, "users", r.Dispatch("//users").name)
}

func TestRegistry_SegmentBacktracking(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("literal", "/a/b/c")))
	require.NoError(t, r.Register(newRoute("star", "/a/*/d")))

	assert.Equal(t, "star", r.Dispatch("/a/b/d").name, "dead literal branch falls back to *")
	assert.Equal(t, "literal", r.Dispatch("/a/b/c").name)
	assert.Equal(t, "default", r.Dispatch("/a/b").name, "intermediate node without handler")
}

func TestRegistry_SegmentLiteralBeatsStar(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("star-first", "/*/items")))
	require.NoError(t, r.Register(newRoute("literal-first", "/shop/*")))

	assert.Equal(t, "literal-first", r.Dispatch("/shop/items").name)
	assert.Equal(t, "star-first", r.Dispatch("/blog/items").name)
}

func TestRegistry_WildcardOrdering(t *testing.T) {
	t.Parallel()

	t.Run("priority wins", func(t *testing.T) {
		t.Parallel()
		r := newRegistry(t)
		require.NoError(t, r.Register(&route{name: "long", pattern: "/docs/api/**"}))
		require.NoError(t, r.Register(&route{name: "urgent", pattern: "/docs/**", priority: 10}))

		assert.Equal(t, "urgent", r.Dispatch("/docs/api/v1").name)
	})

	t.Run("longer literal prefix wins on equal priority", func(t *testing.T) {
		t.Parallel()
		r := newRegistry(t)
		require.NoError(t, r.Register(newRoute("short", "/docs/**")))
		require.NoError(t, r.Register(newRoute("long", "/docs/api/**")))

		assert.Equal(t, "long", r.Dispatch("/docs/api/v1").name)
		assert.Equal(t, "short", r.Dispatch("/docs/guide").name)
	})

	t.Run("order independent of registration", func(t *testing.T) {
		t.Parallel()
		for range 10 {
			r := newRegistry(t)
			require.NoError(t, r.Register(newRoute("long", "/docs/api/**")))
			require.NoError(t, r.Register(newRoute("short", "/docs/**")))
			assert.Equal(t, "long", r.Dispatch("/docs/api/v1").name)
		}
	})

	t.Run("root catch-all", func(t *testing.T) {
		t.Parallel()
		r := newRegistry(t)
		require.NoError(t, r.Register(newRoute("all", "/**")))

		assert.Equal(t, "all", r.Dispatch("/").name)
		assert.Equal(t, "all", r.Dispatch("/x/y/z").name)
	})
}

func TestRegistry_Conflict(t *testing.T) {
	t.Parallel()

	patterns := []string{"/locale", "/locale/*", "/locale/**"}

	for _, pattern := range patterns {
		t.Run("replace "+pattern, func(t *testing.T) {
			t.Parallel()
			r := newRegistry(t)
			require.NoError(t, r.Register(newRoute("first", pattern)))

			err := r.Register(newRoute("second", pattern))
			require.ErrorIs(t, err, dispatch.ErrDuplicateRegistration)
			assert.Contains(t, err.Error(), pattern)

			h, _, ok := r.Match("/locale/x")
			if pattern == "/locale" {
				h, _, ok = r.Match("/locale")
			}
			require.True(t, ok)
			assert.Equal(t, "second", h.name)
			assert.Len(t, r.Entries(), 1)
		})

		t.Run("reject "+pattern, func(t *testing.T) {
			t.Parallel()
			r := newRegistry(t, dispatch.WithConflictPolicy(dispatch.ConflictReject))
			require.NoError(t, r.Register(newRoute("first", pattern)))

			err := r.Register(newRoute("second", pattern))
			require.ErrorIs(t, err, dispatch.ErrDuplicateRegistration)

			h, _, ok := r.Match("/locale/x")
			if pattern == "/locale" {
				h, _, ok = r.Match("/locale")
			}
			require.True(t, ok)
			assert.Equal(t, "first", h.name)
		})
	}

	t.Run("normalized patterns collide", func(t *testing.T) {
		t.Parallel()
		r := newRegistry(t)
		require.NoError(t, r.Register(newRoute("first", "/locale/")))
		require.ErrorIs(t, r.Register(newRoute("second", "locale")), dispatch.ErrDuplicateRegistration)
	})
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.ErrorIs(t, r.Register(nil), dispatch.ErrNilHandler)
	require.ErrorIs(t, r.Register(newRoute("blank", "  ")), pathpattern.ErrInvalidPattern)
	require.ErrorIs(t, r.Register(newRoute("partial", "/a/b*")), pathpattern.ErrInvalidPattern)
	assert.Empty(t, r.Entries())
}

func TestRegistry_Unregister(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	a := newRoute("A", "/api/v1/users")
	b := newRoute("B", "/api/v1/*")
	c := newRoute("C", "/api/**")
	for _, h := range []*route{a, b, c} {
		require.NoError(t, r.Register(h))
	}

	require.NoError(t, r.Unregister(a))
	assert.Equal(t, "B", r.Dispatch("/api/v1/users").name)

	require.NoError(t, r.Unregister(b))
	assert.Equal(t, "C", r.Dispatch("/api/v1/users").name)

	require.NoError(t, r.Unregister(c))
	assert.Equal(t, "default", r.Dispatch("/api/v1/users").name)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, r.Unregister(a))
		assert.Equal(t, "default", r.Dispatch("/api/v1/users").name)
		require.NoError(t, r.Unregister(newRoute("never", "/never/*")))
		assert.Equal(t, "default", r.Dispatch("/never/x").name)
		assert.Empty(t, r.Entries())
	})

	t.Run("segment prefix survives", func(t *testing.T) {
		require.NoError(t, r.Register(newRoute("short", "/x/*")))
		long := newRoute("long", "/x/*/y")
		require.NoError(t, r.Register(long))
		require.NoError(t, r.Unregister(long))
		assert.Equal(t, "short", r.Dispatch("/x/1").name)
		assert.Equal(t, "default", r.Dispatch("/x/1/y").name)
	})

	require.ErrorIs(t, r.Unregister(nil), dispatch.ErrNilHandler)
}

func TestRegistry_Entries(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(&route{name: "c", pattern: "/c/**", priority: 3}))
	require.NoError(t, r.Register(newRoute("b", "/b/*")))
	require.NoError(t, r.Register(newRoute("a2", "/z")))
	require.NoError(t, r.Register(newRoute("a1", "/a")))

	assert.Equal(t, []dispatch.Entry{
		{Pattern: "/a", Tier: pathpattern.TierExact},
		{Pattern: "/z", Tier: pathpattern.TierExact},
		{Pattern: "/b/*", Tier: pathpattern.TierSegment},
		{Pattern: "/c/**", Tier: pathpattern.TierWildcard, Priority: 3},
	}, r.Entries())
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	require.NoError(t, r.Register(newRoute("stable", "/stable/**")))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 100 {
				h := newRoute("w", fmt.Sprintf("/w%d/%d/*", i, j))
				assert.NoError(t, r.Register(h))
				assert.NoError(t, r.Unregister(h))
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Equal(t, "stable", r.Dispatch("/stable/x/y").name)
				assert.Equal(t, "default", r.Dispatch("/missing").name)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, r.Entries(), 1)
}

func TestParseConflictPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want dispatch.ConflictPolicy
	}{
		{"replace", dispatch.ConflictReplace},
		{"reject", dispatch.ConflictReject},
		{" Reject ", dispatch.ConflictReject},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := dispatch.ParseConflictPolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.in)), got.String())
		})
	}

	for _, bad := range []string{"", "rejct", "overwrite"} {
		t.Run("unknown "+bad, func(t *testing.T) {
			t.Parallel()
			_, err := dispatch.ParseConflictPolicy(bad)
			require.ErrorIs(t, err, dispatch.ErrUnknownConflictPolicy)
		})
	}
}
