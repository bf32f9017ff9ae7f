package redis

import "time"

// Config holds the connection and preference store settings. An empty ConnectionURL
// disables preference storage.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:""`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"REDIS_LOCALE_KEY_PREFIX" envDefault:"locale:"`
	PreferenceTTL  time.Duration `env:"REDIS_LOCALE_TTL" envDefault:"720h"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
