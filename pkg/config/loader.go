package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type options struct {
	prefix      string
	files       []string
	optional    bool
	environment map[string]string
}

// Option configures Load.
type Option func(*options)

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles loads the given .env files before parsing. Missing files are an error
// unless WithOptionalEnvFiles is also set.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithOptionalEnvFiles skips env files that don't exist.
func WithOptionalEnvFiles() Option {
	return func(o *options) { o.optional = true }
}

// WithEnvironment parses from the given map instead of the process environment. Env
// files are ignored then.
func WithEnvironment(environment map[string]string) Option {
	return func(o *options) { o.environment = environment }
}

// Load parses the environment into v.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.environment == nil {
		if err := loadEnvFiles(o.files, o.optional); err != nil {
			return err
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

func loadEnvFiles(files []string, optional bool) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if optional && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return errors.Join(ErrLoadingEnvFile, err)
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}
