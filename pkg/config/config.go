// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the service. RedisAddr and OtelHost are
// optional; leaving them empty disables the order cache and trace export.
type Config struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	RedisAddr   string        `envconfig:"REDIS_ADDR" default:""`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	OtelHost    string        `envconfig:"OTEL_HOST" default:""`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
