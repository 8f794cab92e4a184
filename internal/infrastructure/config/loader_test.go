package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("ENV", "")
	return root
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, 300, mgr.viper.GetInt("refresh.update_interval_seconds"))
	assert.Equal(t, 30, mgr.viper.GetInt("refresh.alarm_period_seconds"))
	assert.Equal(t, "http://ip-api.com/json", mgr.viper.GetString("provider.ip_api_url"))
	assert.Equal(t, "https://api-ipv4.ip.sb/geoip", mgr.viper.GetString("provider.ip_sb_url"))
	assert.Equal(t, 1000, mgr.viper.GetInt("provider.fake_delay_ms"))
	assert.Equal(t, "127.0.0.1:47615", mgr.viper.GetString("control.listen_addr"))
}

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	root := isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(root, "config", "geobadge", "config.toml"))

	cfg := mgr.Get()
	assert.Equal(t, 5*time.Minute, cfg.Refresh.UpdateInterval())
	assert.Equal(t, 30*time.Second, cfg.Refresh.AlarmPeriod())
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, filepath.Join(root, "data", "geobadge", "session.sqlite"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(root, "state", "geobadge", "badge"), cfg.Badge.OutputDir)
}

func TestManager_LoadReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	isolateXDG(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[refresh]
update_interval_seconds = 60

[logging]
level = "DEBUG"
format = "json"
`), 0o644))
	t.Setenv("GEOBADGE_CONTROL_LISTEN_ADDR", "127.0.0.1:9999")

	mgr, err := NewManagerForFile(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, time.Minute, cfg.Refresh.UpdateInterval())
	assert.Equal(t, 30*time.Second, cfg.Refresh.AlarmPeriod())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:9999", cfg.Control.ListenAddr)
}

func TestManager_LoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	isolateXDG(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[control]
listen_addr = "nope"
`), 0o644))

	mgr, err := NewManagerForFile(path)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control.listen_addr")
}

func TestManager_SaveReloads(t *testing.T) {
	dir := t.TempDir()
	isolateXDG(t)
	mgr, err := NewManagerForFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Refresh.UpdateIntervalSeconds = 120
	require.NoError(t, mgr.Save(cfg))

	assert.Equal(t, 2*time.Minute, mgr.Get().Refresh.UpdateInterval())
	assert.Error(t, mgr.Save(nil))
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = " WARN "
	cfg.Logging.Format = "yaml"
	cfg.Refresh.UpdateIntervalSeconds = 0

	normalizeConfig(cfg)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 300, cfg.Refresh.UpdateIntervalSeconds)
}
