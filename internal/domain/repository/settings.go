package repository

import (
	"context"

	"github.com/bnema/geobadge/internal/domain/entity"
)

// SettingsRepository persists the single user settings record.
type SettingsRepository interface {
	// Get returns nil, nil when no settings have been written yet.
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
}
