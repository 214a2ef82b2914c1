package config

import "fmt"

// CORSConfig holds allowed browser origins.
type CORSConfig struct {
	AllowOrigins []string
}

// LoadCORSConfigFromEnv loads CORS configuration from environment variables.
func LoadCORSConfigFromEnv() CORSConfig {
	return CORSConfig{
		AllowOrigins: GetEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// Validate validates CORS configuration.
func (c CORSConfig) Validate() error {
	if len(c.AllowOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must contain at least one origin")
	}
	return nil
}
