package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localemux/pkg/config"
)

type serviceConfig struct {
	Addr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	Timeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
	Locales   []string      `env:"LOCALES" envSeparator:"," envDefault:"en"`
	Namespace string        `env:"NAMESPACE,required"`
}

func TestLoad_Environment(t *testing.T) {
	t.Parallel()

	var cfg serviceConfig
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
		"NAMESPACE": "localemux",
		"LOCALES":   "en,zh,fr",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"en", "zh", "fr"}, cfg.Locales)
	assert.Equal(t, "localemux", cfg.Namespace)
}

func TestLoad_Prefix(t *testing.T) {
	t.Parallel()

	var cfg serviceConfig
	err := config.Load(&cfg,
		config.WithPrefix("APP_"),
		config.WithEnvironment(map[string]string{
			"APP_NAMESPACE": "prefixed",
			"NAMESPACE":     "ignored",
			"APP_HTTP_ADDR": ":9090",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Namespace)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		var cfg *serviceConfig
		require.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		var cfg serviceConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("bad value", func(t *testing.T) {
		t.Parallel()
		var cfg serviceConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{
			"NAMESPACE":    "x",
			"HTTP_TIMEOUT": "soon",
		}))
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Parallel()
		var cfg serviceConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), ".env")))
		require.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})

	t.Run("must load panics", func(t *testing.T) {
		t.Parallel()
		var cfg serviceConfig
		assert.Panics(t, func() {
			config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
		})
	})
}

func TestLoad_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("LOCALEMUX_TEST_NAMESPACE=from-file\nLOCALEMUX_TEST_HTTP_ADDR=:7070\n"), 0o600))

	t.Setenv("LOCALEMUX_TEST_HTTP_ADDR", ":6060")
	t.Cleanup(func() { _ = os.Unsetenv("LOCALEMUX_TEST_NAMESPACE") })

	var cfg serviceConfig
	err := config.Load(&cfg,
		config.WithPrefix("LOCALEMUX_TEST_"),
		config.WithEnvFiles(file, filepath.Join(dir, "missing.env")),
		config.WithOptionalEnvFiles(),
	)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Namespace)
	assert.Equal(t, ":6060", cfg.Addr, "process environment wins over env file")
}
