package config

const (
	defaultUpdateIntervalSeconds = 300
	defaultAlarmPeriodSeconds    = 30
	defaultProviderTimeout       = 10
	defaultFakeDelayMS           = 1000
	defaultListenAddr            = "127.0.0.1:47615"
	defaultIPAPIURL              = "http://ip-api.com/json"
	defaultIPSBURL               = "https://api-ipv4.ip.sb/geoip"
)

// DefaultConfig returns the default configuration.
// Paths are left empty and resolved against the XDG directories on load.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			EnableFileLog: false,
			MaxAge:        7,
			MaxSizeMB:     10,
			MaxBackups:    3,
		},
		Refresh: RefreshConfig{
			UpdateIntervalSeconds: defaultUpdateIntervalSeconds,
			AlarmPeriodSeconds:    defaultAlarmPeriodSeconds,
		},
		Provider: ProviderConfig{
			TimeoutSeconds: defaultProviderTimeout,
			IPAPIURL:       defaultIPAPIURL,
			IPSBURL:        defaultIPSBURL,
			FakeDelayMS:    defaultFakeDelayMS,
		},
		Control: ControlConfig{
			ListenAddr: defaultListenAddr,
		},
		Notify: NotifyConfig{
			OnCountryChange: false,
		},
	}
}
