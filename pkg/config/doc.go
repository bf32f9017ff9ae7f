// Package config loads service configuration from environment variables into structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: optional .env files
// are loaded first (variables already set in the environment win), then the environment
// is parsed into the struct using `env` and `envDefault` tags.
//
//	type Config struct {
//		Addr     string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Timeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithEnvFiles(".env")); err != nil {
//		return err
//	}
//
// WithPrefix namespaces every variable, e.g. "LOCALEMUX_" turns HTTP_ADDR into
// LOCALEMUX_HTTP_ADDR. MustLoad panics instead of returning the error and is meant for
// main packages.
package config
