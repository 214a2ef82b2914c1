package config

import (
	"fmt"
	"time"
)

// AuthConfig holds token issuing configuration.
type AuthConfig struct {
	// JWTSecret is the HMAC key used to sign access tokens.
	JWTSecret string
	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration
	// CookieSecure marks the jwt cookie as Secure.
	CookieSecure bool
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret:    GetEnv("JWT_SECRET", ""),
		TokenTTL:     GetEnvDuration("JWT_TTL", 24*time.Hour),
		CookieSecure: GetEnvBool("COOKIE_SECURE", false),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be greater than 0")
	}
	return nil
}
