package config

import (
	"fmt"
	"strings"
)

// RedisConfig holds the session store connection. An empty URL keeps
// revoked tokens out of any shared store.
type RedisConfig struct {
	URL string
}

// LoadRedisConfigFromEnv loads redis configuration from environment variables.
func LoadRedisConfigFromEnv() RedisConfig {
	return RedisConfig{URL: GetEnv("REDIS_URL", "")}
}

// Enabled reports whether a redis URL is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// Validate validates redis configuration.
func (c RedisConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return fmt.Errorf("invalid REDIS_URL scheme (must be redis:// or rediss://)")
	}
	return nil
}
