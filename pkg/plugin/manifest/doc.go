// Package manifest builds plugins from YAML files and keeps a directory of them in sync
// with a plugin manager.
//
// A manifest names the plugin and lists its components as raw YAML nodes:
//
//	name: default-weather
//	components:
//	  - kind: fixed
//	    pattern: /locale
//	    locale: en-US
//
// The package does not know what a component is. A Factory supplied by the caller turns
// each node into a value, typically by decoding it into a config struct:
//
//	factory := func(node *yaml.Node) (any, error) {
//		var cfg i18n.ResolverConfig
//		if err := node.Decode(&cfg); err != nil {
//			return nil, err
//		}
//		return i18n.NewResolver(cfg, deps)
//	}
//
// Watcher loads every manifest in a directory on start, then restarts a plugin when its
// file is written and stops it when the file is removed.
package manifest
