package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	configFile string
	mu         sync.RWMutex
	callbacks  []func(*Config)
	watching   bool
}

// NewManager creates a configuration manager for the default XDG config file.
func NewManager() (*Manager, error) {
	configFile, err := GetConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerForFile(configFile)
}

// NewManagerForFile creates a configuration manager bound to configFile.
func NewManagerForFile(configFile string) (*Manager, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")

	// GEOBADGE_REFRESH_UPDATE_INTERVAL_SECONDS, GEOBADGE_CONTROL_LISTEN_ADDR, ...
	v.SetEnvPrefix("GEOBADGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "GEOBADGE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind GEOBADGE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "GEOBADGE_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind GEOBADGE_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:      v,
		configFile: configFile,
		callbacks:  make([]func(*Config), 0),
	}, nil
}

// LoadDotEnv loads .env from the working directory and the config directory.
// Existing environment variables win; missing files are ignored.
func LoadDotEnv() {
	candidates := []string{".env"}
	if dir, err := GetConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.configFile), dirPerm); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload(false)
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configFile, err)
	}

	if err := WriteConfigOrdered(DefaultConfig(), m.configFile); err != nil {
		return fmt.Errorf("failed to create default config at %s: %w", m.configFile, err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

// reload unmarshals viper state into a fresh Config. Caller holds m.mu.
func (m *Manager) reload(reread bool) error {
	if reread {
		if err := m.viper.ReadInConfig(); err != nil {
			return err
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches", m.configFile, err)
	}
	if err := resolvePaths(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func resolvePaths(config *Config) error {
	if config.Database.Path == "" {
		path, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = path
	}
	if config.Badge.OutputDir == "" {
		dir, err := GetBadgeDir()
		if err != nil {
			return fmt.Errorf("failed to get badge directory: %w", err)
		}
		config.Badge.OutputDir = dir
	}
	if config.Logging.LogDir == "" {
		dir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		config.Logging.LogDir = dir
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = "console"
	}

	if config.Refresh.UpdateIntervalSeconds == 0 {
		config.Refresh.UpdateIntervalSeconds = defaultUpdateIntervalSeconds
	}
	if config.Refresh.AlarmPeriodSeconds == 0 {
		config.Refresh.AlarmPeriodSeconds = defaultAlarmPeriodSeconds
	}
	if config.Provider.TimeoutSeconds == 0 {
		config.Provider.TimeoutSeconds = defaultProviderTimeout
	}

	config.Provider.IPAPIURL = strings.TrimSpace(config.Provider.IPAPIURL)
	config.Provider.IPSBURL = strings.TrimSpace(config.Provider.IPSBURL)
	config.Notify.URL = strings.TrimSpace(config.Notify.URL)
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// Save validates cfg and writes it to the config file.
func (m *Manager) Save(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := WriteConfigOrdered(cfg, m.configFile); err != nil {
		return err
	}

	// The watcher reloads on its own when active.
	if !m.watching {
		return m.reload(true)
	}
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setLoggingDefaults(defaults)
	m.setRefreshDefaults(defaults)
	m.setProviderDefaults(defaults)

	m.viper.SetDefault("control.listen_addr", defaults.Control.ListenAddr)
	m.viper.SetDefault("badge.output_dir", defaults.Badge.OutputDir)
	m.viper.SetDefault("notify.url", defaults.Notify.URL)
	m.viper.SetDefault("notify.on_country_change", defaults.Notify.OnCountryChange)
	m.viper.SetDefault("database.path", defaults.Database.Path)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

func (m *Manager) setRefreshDefaults(defaults *Config) {
	m.viper.SetDefault("refresh.update_interval_seconds", defaults.Refresh.UpdateIntervalSeconds)
	m.viper.SetDefault("refresh.alarm_period_seconds", defaults.Refresh.AlarmPeriodSeconds)
}

func (m *Manager) setProviderDefaults(defaults *Config) {
	m.viper.SetDefault("provider.timeout_seconds", defaults.Provider.TimeoutSeconds)
	m.viper.SetDefault("provider.ip_api_url", defaults.Provider.IPAPIURL)
	m.viper.SetDefault("provider.ip_sb_url", defaults.Provider.IPSBURL)
	m.viper.SetDefault("provider.fake_delay_ms", defaults.Provider.FakeDelayMS)
}
