package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/logging"
)

// EnsureSettingsUseCase makes sure a settings record exists.
type EnsureSettingsUseCase struct {
	settingsRepo repository.SettingsRepository
}

// NewEnsureSettingsUseCase creates a new EnsureSettingsUseCase.
func NewEnsureSettingsUseCase(settingsRepo repository.SettingsRepository) *EnsureSettingsUseCase {
	return &EnsureSettingsUseCase{settingsRepo: settingsRepo}
}

// EnsureSettingsOutput contains the effective settings.
type EnsureSettingsOutput struct {
	Settings entity.Settings
	// Created is true when defaults were written, i.e. on first run.
	Created bool
}

// Execute is idempotent. Storage failures are returned as-is and are fatal
// for initialization.
func (uc *EnsureSettingsUseCase) Execute(ctx context.Context) (*EnsureSettingsOutput, error) {
	log := logging.FromContext(ctx)

	existing, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if existing != nil {
		return &EnsureSettingsOutput{Settings: *existing}, nil
	}

	defaults := entity.DefaultSettings()
	if err := uc.settingsRepo.Save(ctx, &defaults); err != nil {
		return nil, fmt.Errorf("write default settings: %w", err)
	}

	log.Info().
		Str("provider", string(defaults.LocationProvider)).
		Str("badge_mode", string(defaults.BadgeDisplayMode)).
		Msg("default settings written")

	return &EnsureSettingsOutput{Settings: defaults, Created: true}, nil
}
