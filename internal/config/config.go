package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env                 string
	DiscordToken        string
	DiscordGuildID      string
	DiscordAdminRoleID  string
	DutyAuditChannelID  string
	DataDir             string
	MaxDutyDuration     time.Duration
	ReminderMinInterval time.Duration
	ReminderMaxInterval time.Duration
	PromptTimeout       time.Duration
	KeepAliveAddr       string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.MaxDutyDuration <= 0 {
		return fmt.Errorf("MAX_DUTY_DURATION_MIN must be positive, got %v", c.MaxDutyDuration)
	}
	if c.ReminderMinInterval <= 0 || c.ReminderMaxInterval <= 0 {
		return fmt.Errorf("reminder intervals must be positive, got min=%v max=%v", c.ReminderMinInterval, c.ReminderMaxInterval)
	}
	if c.ReminderMinInterval > c.ReminderMaxInterval {
		return fmt.Errorf("REMINDER_MIN_INTERVAL_MIN must not exceed REMINDER_MAX_INTERVAL_MIN, got min=%v max=%v", c.ReminderMinInterval, c.ReminderMaxInterval)
	}
	if c.PromptTimeout <= 0 {
		return fmt.Errorf("PROMPT_TIMEOUT_SEC must be positive, got %v", c.PromptTimeout)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "DISCORD_ADMIN_ROLE_ID", value: c.DiscordAdminRoleID},
		{name: "DUTY_AUDIT_CHANNEL_ID", value: c.DutyAuditChannelID},
		{name: "DATA_DIR", value: c.DataDir},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
