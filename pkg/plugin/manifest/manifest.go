package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/localemux/pkg/plugin"
)

// File is the decoded form of a manifest.
type File struct {
	Name       string      `yaml:"name"`
	Components []yaml.Node `yaml:"components"`
}

// Factory turns one component node into a plugin component.
type Factory func(node *yaml.Node) (any, error)

// Decode parses manifest data. The name may be empty; Load fills it from the file name.
func Decode(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &f, nil
}

// Plugin builds a plugin from f, calling factory for each component.
func (f *File) Plugin(factory Factory) (plugin.Plugin, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}

	components := make([]any, 0, len(f.Components))
	for i := range f.Components {
		c, err := factory(&f.Components[i])
		if err != nil {
			return nil, fmt.Errorf("%w: component %d of %s: %w", ErrInvalidManifest, i, f.Name, err)
		}
		components = append(components, c)
	}
	return plugin.Static(f.Name, components...), nil
}

// Load reads the manifest at path and builds its plugin. A manifest without a name is
// named after the file, without extension.
func Load(path string, factory Factory) (plugin.Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f.Plugin(factory)
}

// IsManifest reports whether path has a YAML extension.
func IsManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
