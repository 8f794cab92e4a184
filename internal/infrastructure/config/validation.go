package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateRefresh(config)...)
	validationErrors = append(validationErrors, validateProvider(config)...)
	validationErrors = append(validationErrors, validateControl(config)...)
	validationErrors = append(validationErrors, validateNotify(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q must be one of trace, debug, info, warn, error", config.Logging.Level))
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	if config.Logging.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}

func validateRefresh(config *Config) []string {
	var validationErrors []string
	if config.Refresh.UpdateIntervalSeconds < 0 {
		validationErrors = append(validationErrors, "refresh.update_interval_seconds must be positive")
	}
	if config.Refresh.AlarmPeriodSeconds < 1 {
		validationErrors = append(validationErrors, "refresh.alarm_period_seconds must be at least 1")
	}
	return validationErrors
}

func validateProvider(config *Config) []string {
	var validationErrors []string
	if config.Provider.TimeoutSeconds < 0 {
		validationErrors = append(validationErrors, "provider.timeout_seconds must be non-negative")
	}
	if config.Provider.FakeDelayMS < 0 {
		validationErrors = append(validationErrors, "provider.fake_delay_ms must be non-negative")
	}
	if !isHTTPURL(config.Provider.IPAPIURL) {
		validationErrors = append(validationErrors, "provider.ip_api_url must be an absolute http(s) URL")
	}
	if !isHTTPURL(config.Provider.IPSBURL) {
		validationErrors = append(validationErrors, "provider.ip_sb_url must be an absolute http(s) URL")
	}
	return validationErrors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateControl(config *Config) []string {
	if _, _, err := net.SplitHostPort(config.Control.ListenAddr); err != nil {
		return []string{fmt.Sprintf("control.listen_addr %q must be host:port", config.Control.ListenAddr)}
	}
	return nil
}

func validateNotify(config *Config) []string {
	if config.Notify.OnCountryChange && config.Notify.URL == "" {
		return []string{"notify.url is required when notify.on_country_change is enabled"}
	}
	return nil
}
