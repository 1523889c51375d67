package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/vodinokreas/dutybot/internal/config"
)

type envConfig struct {
	Env                   string `env:"ENV" envDefault:"production"`
	DiscordToken          string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID        string `env:"DISCORD_GUILD_ID,required"`
	DiscordAdminRoleID    string `env:"DISCORD_ADMIN_ROLE_ID,required"`
	DutyAuditChannelID    string `env:"DUTY_AUDIT_CHANNEL_ID,required"`
	DataDir               string `env:"DATA_DIR" envDefault:"."`
	MaxDutyDurationMin    int    `env:"MAX_DUTY_DURATION_MIN" envDefault:"720"`
	ReminderMinIntervalMn int    `env:"REMINDER_MIN_INTERVAL_MIN" envDefault:"20"`
	ReminderMaxIntervalMn int    `env:"REMINDER_MAX_INTERVAL_MIN" envDefault:"30"`
	PromptTimeoutSec      int    `env:"PROMPT_TIMEOUT_SEC" envDefault:"120"`
	KeepAliveAddr         string `env:"KEEPALIVE_ADDR" envDefault:":8080"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                 raw.Env,
		DiscordToken:        raw.DiscordToken,
		DiscordGuildID:      raw.DiscordGuildID,
		DiscordAdminRoleID:  raw.DiscordAdminRoleID,
		DutyAuditChannelID:  raw.DutyAuditChannelID,
		DataDir:             raw.DataDir,
		MaxDutyDuration:     time.Duration(raw.MaxDutyDurationMin) * time.Minute,
		ReminderMinInterval: time.Duration(raw.ReminderMinIntervalMn) * time.Minute,
		ReminderMaxInterval: time.Duration(raw.ReminderMaxIntervalMn) * time.Minute,
		PromptTimeout:       time.Duration(raw.PromptTimeoutSec) * time.Second,
		KeepAliveAddr:       raw.KeepAliveAddr,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
