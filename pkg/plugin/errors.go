package plugin

import "errors"

var (
	ErrNilPlugin          = errors.New("plugin.nil")
	ErrPluginNameRequired = errors.New("plugin.name_required")
)
