package config

import (
	"time"

	"github.com/bnema/geobadge/internal/infrastructure/filesystem"
)

const (
	dirPerm  = filesystem.DirPerm
	filePerm = filesystem.FilePerm
)

// Config represents the application configuration in config.toml.
// User settings (provider, badge mode, color) live in settings.toml instead.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
	Refresh  RefreshConfig  `mapstructure:"refresh" toml:"refresh" json:"refresh"`
	Provider ProviderConfig `mapstructure:"provider" toml:"provider" json:"provider"`
	Control  ControlConfig  `mapstructure:"control" toml:"control" json:"control"`
	Badge    BadgeConfig    `mapstructure:"badge" toml:"badge" json:"badge"`
	Notify   NotifyConfig   `mapstructure:"notify" toml:"notify" json:"notify"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// EnableFileLog tees daemon logs into LogDir with size based rotation.
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	// MaxAge is the number of days rotated files are kept.
	MaxAge     int `mapstructure:"max_age" toml:"max_age" json:"max_age"`
	MaxSizeMB  int `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups" toml:"max_backups" json:"max_backups"`
}

// RefreshConfig controls how often the location is re-evaluated.
type RefreshConfig struct {
	// UpdateIntervalSeconds is the staleness threshold.
	UpdateIntervalSeconds int `mapstructure:"update_interval_seconds" toml:"update_interval_seconds" json:"update_interval_seconds"`
	// AlarmPeriodSeconds is how often the periodic alarm fires.
	AlarmPeriodSeconds int `mapstructure:"alarm_period_seconds" toml:"alarm_period_seconds" json:"alarm_period_seconds"`
}

func (c RefreshConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSeconds) * time.Second
}

func (c RefreshConfig) AlarmPeriod() time.Duration {
	return time.Duration(c.AlarmPeriodSeconds) * time.Second
}

// ProviderConfig configures the location backends.
type ProviderConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds"`
	IPAPIURL       string `mapstructure:"ip_api_url" toml:"ip_api_url" json:"ip_api_url"`
	IPSBURL        string `mapstructure:"ip_sb_url" toml:"ip_sb_url" json:"ip_sb_url"`
	FakeDelayMS    int    `mapstructure:"fake_delay_ms" toml:"fake_delay_ms" json:"fake_delay_ms"`
}

func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c ProviderConfig) FakeDelay() time.Duration {
	return time.Duration(c.FakeDelayMS) * time.Millisecond
}

// ControlConfig configures the local control API used by the popup and CLI.
type ControlConfig struct {
	ListenAddr string `mapstructure:"listen_addr" toml:"listen_addr" json:"listen_addr"`
}

// BadgeConfig configures where the rendered badge is written.
type BadgeConfig struct {
	OutputDir string `mapstructure:"output_dir" toml:"output_dir" json:"output_dir"`
}

// NotifyConfig configures optional shoutrrr notifications.
type NotifyConfig struct {
	URL             string `mapstructure:"url" toml:"url" json:"url"`
	OnCountryChange bool   `mapstructure:"on_country_change" toml:"on_country_change" json:"on_country_change"`
}

// DatabaseConfig configures the session store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path"`
}
