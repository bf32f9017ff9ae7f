// Package dispatch implements a priority-tiered path-pattern registry that selects one
// handler per request path.
//
// Handlers declare a route pattern and a priority. Registration classifies the pattern
// (see package pathpattern) into one of three tiers:
//
//   - exact: patterns without wildcards, kept in a concurrent map;
//   - segment: patterns containing `*`, kept in a tree keyed by path segment where a
//     literal child always beats the `*` child;
//   - wildcard: patterns containing `**`, scanned in a deterministic order (higher
//     priority first, then the more specific pattern).
//
// Dispatch tries the tiers in that order and returns the registry's default handler when
// nothing matches, so it never fails:
//
//	reg, err := dispatch.New[i18n.Resolver](defaultResolver)
//	if err != nil {
//		return err
//	}
//	if err := reg.Register(apiResolver); err != nil {
//		if !errors.Is(err, dispatch.ErrDuplicateRegistration) {
//			return err
//		}
//		// the new handler replaced the previous one
//	}
//	resolver := reg.Dispatch(r.URL.EscapedPath())
//
// Lookups never block each other. Register and Unregister are expected to be rare
// (plugin start and stop) and are visible to every Dispatch that starts after they return.
//
// Lifecycle adapts a Registry to the plugin.Manager notifications so plugins populate
// the registry while they run.
package dispatch
