package main

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/cookie"
	"github.com/dmitrymomot/localemux/pkg/dispatch"
	"github.com/dmitrymomot/localemux/pkg/httpserver"
	"github.com/dmitrymomot/localemux/pkg/i18n"
	"github.com/dmitrymomot/localemux/pkg/redis"
)

type appConfig struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:""`
	PluginDir      string   `env:"PLUGIN_DIR" envDefault:"./examples/plugins"`
	ConflictPolicy string   `env:"CONFLICT_POLICY" envDefault:"replace"`
	DefaultLocale  string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	Locales        []string `env:"SUPPORTED_LOCALES" envSeparator:"," envDefault:"en,en-US,zh,fr,de"`

	HTTP   httpserver.Config
	Cookie cookie.Config
	Redis  redis.Config
}

// locales returns the supported tags and the default tag, which is always supported.
func (c appConfig) locales() ([]language.Tag, language.Tag, error) {
	def, err := i18n.ParseLocale(c.DefaultLocale)
	if err != nil {
		return nil, language.Und, fmt.Errorf("DEFAULT_LOCALE: %w", err)
	}
	supported, err := i18n.ParseLocales(c.Locales)
	if err != nil {
		return nil, language.Und, fmt.Errorf("SUPPORTED_LOCALES: %w", err)
	}
	for _, t := range supported {
		if t == def {
			return supported, def, nil
		}
	}
	return append([]language.Tag{def}, supported...), def, nil
}

func (c appConfig) conflictPolicy() (dispatch.ConflictPolicy, error) {
	p, err := dispatch.ParseConflictPolicy(c.ConflictPolicy)
	if err != nil {
		return p, fmt.Errorf("CONFLICT_POLICY: %w", err)
	}
	return p, nil
}
