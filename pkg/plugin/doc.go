// Package plugin models units of components that start and stop together, and notifies
// observers about those transitions.
//
// A Plugin is a name plus a set of components. Manager keeps track of running plugins
// and calls every registered StartedObserver after a plugin starts and every
// StoppingObserver before it stops. Observers pick the components they care about, for
// example by type assertion, so a plugin can carry heterogeneous components:
//
//	mgr := plugin.NewManager(plugin.WithLogger(log))
//	mgr.Observe(dispatch.NewLifecycle(registry, log))
//
//	err := mgr.Start(ctx, plugin.Static("weather", i18n.NewFixedResolver("/weather/**", language.English)))
//	...
//	err = mgr.Stop(ctx, "weather")
//
// Starting a plugin whose name is already running stops the running one first, which
// makes Start usable for reloads. Package manifest builds plugins from YAML files.
package plugin
