package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadLoggerConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		t.Setenv("LOG_OUTPUT", "")

		assert.Equal(t, LoggerConfig{Level: "info", Format: "json", Output: "stdout"}, LoadLoggerConfigFromEnv())
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "console")
		t.Setenv("LOG_OUTPUT", "/var/log/planzo.log")

		assert.Equal(t,
			LoggerConfig{Level: "debug", Format: "console", Output: "/var/log/planzo.log"},
			LoadLoggerConfigFromEnv())
	})
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggerConfig
		wantErr string
	}{
		{name: "json info", cfg: LoggerConfig{Level: "info", Format: "json"}},
		{name: "console debug", cfg: LoggerConfig{Level: "debug", Format: "console"}},
		{name: "bad level", cfg: LoggerConfig{Level: "trace", Format: "json"}, wantErr: "invalid log level: trace"},
		{name: "bad format", cfg: LoggerConfig{Level: "warn", Format: "xml"}, wantErr: "invalid log format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "info", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}
