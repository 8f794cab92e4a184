package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Defaults(t *testing.T) {
	require.NoError(t, validateConfig(DefaultConfig()))
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"alarm period", func(c *Config) { c.Refresh.AlarmPeriodSeconds = 0 }, "refresh.alarm_period_seconds"},
		{"provider url", func(c *Config) { c.Provider.IPSBURL = "ftp://ip.sb" }, "provider.ip_sb_url"},
		{"relative url", func(c *Config) { c.Provider.IPAPIURL = "/json" }, "provider.ip_api_url"},
		{"listen addr", func(c *Config) { c.Control.ListenAddr = "localhost" }, "control.listen_addr"},
		{"notify url", func(c *Config) { c.Notify.OnCountryChange = true }, "notify.url"},
		{"fake delay", func(c *Config) { c.Provider.FakeDelayMS = -1 }, "provider.fake_delay_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
