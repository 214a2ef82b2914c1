package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// SchedulerConfig holds background job configuration.
type SchedulerConfig struct {
	// Enabled turns the cron scheduler on.
	Enabled bool
	// DueReminderSpec is the cron expression of the due date reminder job.
	DueReminderSpec string
}

// LoadSchedulerConfigFromEnv loads scheduler configuration from environment variables.
func LoadSchedulerConfigFromEnv() SchedulerConfig {
	return SchedulerConfig{
		Enabled:         GetEnvBool("SCHEDULER_ENABLED", true),
		DueReminderSpec: GetEnv("DUE_REMINDER_CRON", "0 9 * * *"),
	}
}

// Validate validates scheduler configuration.
func (c SchedulerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.DueReminderSpec); err != nil {
		return fmt.Errorf("invalid DUE_REMINDER_CRON %q: %w", c.DueReminderSpec, err)
	}
	return nil
}
