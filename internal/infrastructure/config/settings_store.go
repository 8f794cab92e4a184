package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SettingsListener is called after the stored settings changed.
type SettingsListener func(ctx context.Context, settings entity.Settings)

// SettingsStore persists the user settings record in settings.toml.
// Writes from this process and external edits both reach the listeners once.
type SettingsStore struct {
	path string

	mu        sync.Mutex
	last      *entity.Settings
	listeners []SettingsListener
	watching  bool
}

var _ repository.SettingsRepository = (*SettingsStore)(nil)

// NewSettingsStore creates a store backed by path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.path
}

// Get returns nil, nil when the settings file does not exist yet.
// Keys missing from the file take their default values.
func (s *SettingsStore) Get(ctx context.Context) (*entity.Settings, error) {
	settings, err := readSettingsFile(s.path)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("path", s.path).Msg("failed to read settings")
		return nil, err
	}
	return settings, nil
}

// Save validates and writes settings, then notifies listeners if anything changed.
func (s *SettingsStore) Save(ctx context.Context, settings *entity.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings is nil")
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := WriteConfigOrdered(settings, s.path); err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("path", s.path).Msg("failed to write settings")
		return err
	}

	logging.FromContext(ctx).Debug().
		Str("provider", string(settings.LocationProvider)).
		Str("badge_mode", string(settings.BadgeDisplayMode)).
		Msg("settings saved")

	s.publishIfChanged(ctx, *settings)
	return nil
}

// OnChange registers a listener for settings changes.
func (s *SettingsStore) OnChange(listener SettingsListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Watch reports external edits of the settings file until ctx is done.
func (s *SettingsStore) Watch(ctx context.Context) error {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return nil
	}
	s.watching = true
	s.mu.Unlock()

	if current, err := readSettingsFile(s.path); err == nil && current != nil {
		s.remember(*current)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	// The directory is watched so atomic rename-over writes are seen.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch settings dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		defer logging.Recover(ctx, "settings watcher")
		log := logging.FromContext(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				settings, err := readSettingsFile(s.path)
				if err != nil {
					log.Warn().Err(err).Msg("ignoring unreadable settings change")
					continue
				}
				if settings == nil {
					continue
				}
				log.Debug().Str("op", event.Op.String()).Msg("settings file changed")
				s.publishIfChanged(ctx, *settings)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("settings watcher error")
			}
		}
	}()
	return nil
}

func (s *SettingsStore) remember(settings entity.Settings) {
	s.mu.Lock()
	s.last = &settings
	s.mu.Unlock()
}

func (s *SettingsStore) publishIfChanged(ctx context.Context, settings entity.Settings) {
	s.mu.Lock()
	if s.last != nil && *s.last == settings {
		s.mu.Unlock()
		return
	}
	s.last = &settings
	listeners := make([]SettingsListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, settings)
	}
}

func readSettingsFile(path string) (*entity.Settings, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat settings file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	defaults := entity.DefaultSettings()
	v.SetDefault("debug_enabled", defaults.DebugEnabled)
	v.SetDefault("location_provider", string(defaults.LocationProvider))
	v.SetDefault("badge_display_mode", string(defaults.BadgeDisplayMode))
	v.SetDefault("badge_color", defaults.BadgeColor)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	var settings entity.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return &settings, nil
}
