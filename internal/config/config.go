// Package config loads the scheduler's YAML configuration file, with
// environment-variable overrides for secrets, following a Load/LoadFromEnv
// split.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/policymail-scheduler/internal/domain"
)

// Config is the root configuration document.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Organization OrganizationConfig `yaml:"organization"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig holds the Postgres connection settings for ContactStore
// and ScheduleStore.
type DatabaseConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	BatchInsertSize int    `yaml:"batch_insert_size"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII bool   `yaml:"redact_pii"`
}

// OrganizationConfig is the YAML-facing mirror of domain.OrganizationConfig.
// It's a separate type (rather than embedding the domain type directly) so
// zero-value YAML fields can be told apart from "explicitly set to zero"
// before defaults are applied.
type OrganizationConfig struct {
	EnablePostWindowEmails          *bool    `yaml:"enable_post_window_emails"`
	EffectiveDateFirstEmailMonths   *int     `yaml:"effective_date_first_email_months"`
	ExcludeFailedUnderwritingGlobal *bool    `yaml:"exclude_failed_underwriting_global"`
	SendWithoutZipcodeForUniversal  *bool    `yaml:"send_without_zipcode_for_universal"`
	PreExclusionBufferDays          *int     `yaml:"pre_exclusion_buffer_days"`
	BirthdayDaysBefore              *int     `yaml:"birthday_days_before"`
	EffectiveDateDaysBefore         *int     `yaml:"effective_date_days_before"`
	SendTimeHour                    *int     `yaml:"send_time_hour"`
	SendTimeMinute                  *int     `yaml:"send_time_minute"`
	Timezone                        string   `yaml:"timezone"`
	LookbackDaysForFollowup         *int     `yaml:"lookback_days_for_followup"`
	FollowupDelayDays               *int     `yaml:"followup_delay_days"`
	OverageThreshold                *float64 `yaml:"overage_threshold"`
	CatchUpSpreadDays               *int     `yaml:"catch_up_spread_days"`
	EDPercentageOfDailyCap          *float64 `yaml:"ed_percentage_of_daily_cap"`
	SizeProfile                     string   `yaml:"size_profile"`
	AEPMonth                        *int     `yaml:"aep_month"`
	AEPDay                          *int     `yaml:"aep_day"`
}

// ToDomain overlays non-nil YAML fields onto domain.DefaultOrganizationConfig.
func (o OrganizationConfig) ToDomain() domain.OrganizationConfig {
	cfg := domain.DefaultOrganizationConfig()

	if o.EnablePostWindowEmails != nil {
		cfg.EnablePostWindowEmails = *o.EnablePostWindowEmails
	}
	if o.EffectiveDateFirstEmailMonths != nil {
		cfg.EffectiveDateFirstEmailMonths = *o.EffectiveDateFirstEmailMonths
	}
	if o.ExcludeFailedUnderwritingGlobal != nil {
		cfg.ExcludeFailedUnderwritingGlobal = *o.ExcludeFailedUnderwritingGlobal
	}
	if o.SendWithoutZipcodeForUniversal != nil {
		cfg.SendWithoutZipcodeForUniversal = *o.SendWithoutZipcodeForUniversal
	}
	if o.PreExclusionBufferDays != nil {
		cfg.PreExclusionBufferDays = *o.PreExclusionBufferDays
	}
	if o.BirthdayDaysBefore != nil {
		cfg.BirthdayDaysBefore = *o.BirthdayDaysBefore
	}
	if o.EffectiveDateDaysBefore != nil {
		cfg.EffectiveDateDaysBefore = *o.EffectiveDateDaysBefore
	}
	if o.SendTimeHour != nil {
		cfg.SendTimeHour = *o.SendTimeHour
	}
	if o.SendTimeMinute != nil {
		cfg.SendTimeMinute = *o.SendTimeMinute
	}
	if o.Timezone != "" {
		cfg.Timezone = o.Timezone
	}
	if o.LookbackDaysForFollowup != nil {
		cfg.LookbackDaysForFollowup = *o.LookbackDaysForFollowup
	}
	if o.FollowupDelayDays != nil {
		cfg.FollowupDelayDays = *o.FollowupDelayDays
	}
	if o.OverageThreshold != nil {
		cfg.OverageThreshold = *o.OverageThreshold
	}
	if o.CatchUpSpreadDays != nil {
		cfg.CatchUpSpreadDays = *o.CatchUpSpreadDays
	}
	if o.EDPercentageOfDailyCap != nil {
		cfg.EDPercentageOfDailyCap = *o.EDPercentageOfDailyCap
	}
	if o.SizeProfile != "" {
		cfg.SizeProfile = domain.SizeProfile(o.SizeProfile)
	}
	if o.AEPMonth != nil {
		cfg.AEPMonth = *o.AEPMonth
	}
	if o.AEPDay != nil {
		cfg.AEPDay = *o.AEPDay
	}

	return cfg
}

// Load reads and parses the configuration file, applying database and
// logging defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.BatchInsertSize == 0 {
		cfg.Database.BatchInsertSize = 1000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads the config file, then overrides secrets from the
// environment. It loads a .env file first, if one exists, so the database
// DSN can live outside the checked-in YAML.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dsn := os.Getenv("SCHEDULER_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if tz := os.Getenv("SCHEDULER_TIMEZONE"); tz != "" {
		cfg.Organization.Timezone = tz
	}
	if level := os.Getenv("SCHEDULER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg, nil
}
