package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "geobadge"
	databaseName = "session.sqlite"
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs returns the XDG Base Directory paths for geobadge:
// - $XDG_CONFIG_HOME/geobadge (default: ~/.config/geobadge)
// - $XDG_DATA_HOME/geobadge (default: ~/.local/share/geobadge)
// - $XDG_STATE_HOME/geobadge (default: ~/.local/state/geobadge)
func GetXDGDirs() (*XDGDirs, error) {
	// Development mode: use .dev directory in current working directory
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: devDir, DataHome: devDir, StateHome: devDir}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &XDGDirs{
		ConfigHome: xdgDir("XDG_CONFIG_HOME", homeDir, ".config"),
		DataHome:   xdgDir("XDG_DATA_HOME", homeDir, ".local", "share"),
		StateHome:  xdgDir("XDG_STATE_HOME", homeDir, ".local", "state"),
	}, nil
}

func xdgDir(env, home string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, appName)
}

// GetConfigDir returns the XDG config directory for geobadge.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetDataDir returns the XDG data directory for geobadge.
func GetDataDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.DataHome, nil
}

// GetStateDir returns the XDG state directory for geobadge.
func GetStateDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.StateHome, nil
}

// GetLogDir returns the log directory under XDG_STATE_HOME.
func GetLogDir() (string, error) {
	return stateSubpath("logs")
}

// GetBadgeDir returns the directory the rendered icon and badge are written to.
func GetBadgeDir() (string, error) {
	return stateSubpath("badge")
}

// GetLockFile returns the daemon instance lock path.
func GetLockFile() (string, error) {
	return stateSubpath("geobadge.lock")
}

// GetConfigFile returns the path to the application configuration file.
func GetConfigFile() (string, error) {
	return configSubpath("config.toml")
}

// GetSettingsFile returns the path to the user settings file.
func GetSettingsFile() (string, error) {
	return configSubpath("settings.toml")
}

// GetSchemaFile returns the path of the generated settings JSON schema.
func GetSchemaFile() (string, error) {
	return configSubpath("settings.schema.json")
}

// GetDatabaseFile returns the path to the session database.
// The location it holds is session scoped, but the file lives with the app data.
func GetDatabaseFile() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, databaseName), nil
}

func configSubpath(name string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func stateSubpath(name string) (string, error) {
	dir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

