package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/logging"
)

// RenderBadgeUseCase reconciles the stored location and settings into the badge surface.
// It never writes persisted state.
type RenderBadgeUseCase struct {
	settingsRepo repository.SettingsRepository
	locationRepo repository.LocationRepository
	surface      port.BadgeSurface
	composer     port.IconComposer
	now          func() time.Time

	mu        sync.Mutex
	current   entity.Badge
	listeners []BadgeListener
}

// BadgeListener observes every badge applied to the surface.
type BadgeListener func(ctx context.Context, badge entity.Badge)

// NewRenderBadgeUseCase creates a new RenderBadgeUseCase.
func NewRenderBadgeUseCase(
	settingsRepo repository.SettingsRepository,
	locationRepo repository.LocationRepository,
	surface port.BadgeSurface,
	composer port.IconComposer,
) *RenderBadgeUseCase {
	return &RenderBadgeUseCase{
		settingsRepo: settingsRepo,
		locationRepo: locationRepo,
		surface:      surface,
		composer:     composer,
		now:          time.Now,
		current:      entity.Badge{Icon: entity.IconDefault},
	}
}

// Render reads both stores and applies the resulting badge.
func (uc *RenderBadgeUseCase) Render(ctx context.Context) (entity.Badge, error) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return entity.Badge{}, fmt.Errorf("read settings: %w", err)
	}
	if settings == nil {
		defaults := entity.DefaultSettings()
		settings = &defaults
	}

	record, err := uc.locationRepo.Get(ctx)
	if err != nil {
		return entity.Badge{}, fmt.Errorf("read location: %w", err)
	}

	badge := entity.BuildBadge(record, *settings, uc.now())

	uc.mu.Lock()
	applied, err := uc.applyLocked(ctx, badge)
	uc.mu.Unlock()
	if err != nil {
		return entity.Badge{}, err
	}

	uc.notify(ctx, applied)
	return applied, nil
}

// ShowIdle shows the in-progress text and leaves the icon alone.
func (uc *RenderBadgeUseCase) ShowIdle(ctx context.Context) error {
	uc.mu.Lock()
	if err := uc.surface.SetBadgeText(ctx, entity.BadgeTextIdle); err != nil {
		uc.mu.Unlock()
		return fmt.Errorf("set badge text: %w", err)
	}
	uc.current = entity.IdleBadge(uc.current)
	current := uc.current
	uc.mu.Unlock()

	uc.notify(ctx, current)
	return nil
}

// ShowError swaps to the error icon and cross mark. The text color is kept.
func (uc *RenderBadgeUseCase) ShowError(ctx context.Context) error {
	uc.mu.Lock()
	badge, err := uc.showErrorLocked(ctx)
	uc.mu.Unlock()
	if err != nil {
		return err
	}

	uc.notify(ctx, badge)
	return nil
}

func (uc *RenderBadgeUseCase) showErrorLocked(ctx context.Context) (entity.Badge, error) {
	badge := entity.ErrorBadge()
	if err := uc.surface.SetIconPath(ctx, port.ErrorIconPath); err != nil {
		return entity.Badge{}, fmt.Errorf("set icon: %w", err)
	}
	if err := uc.surface.SetBadgeText(ctx, badge.Text); err != nil {
		return entity.Badge{}, fmt.Errorf("set badge text: %w", err)
	}
	badge.TextColor = uc.current.TextColor
	uc.current = badge
	return badge, nil
}

// OnChange registers a listener called after every applied badge.
func (uc *RenderBadgeUseCase) OnChange(listener BadgeListener) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.listeners = append(uc.listeners, listener)
}

func (uc *RenderBadgeUseCase) notify(ctx context.Context, badge entity.Badge) {
	uc.mu.Lock()
	listeners := make([]BadgeListener, len(uc.listeners))
	copy(listeners, uc.listeners)
	uc.mu.Unlock()

	for _, l := range listeners {
		l(ctx, badge)
	}
}

// Current returns the last badge applied to the surface.
func (uc *RenderBadgeUseCase) Current() entity.Badge {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.current
}

func (uc *RenderBadgeUseCase) applyLocked(ctx context.Context, badge entity.Badge) (entity.Badge, error) {
	log := logging.FromContext(ctx)

	switch badge.Icon {
	case entity.IconFlag:
		img, err := uc.composer.ComposeFlag(ctx, badge.CountryCode)
		switch {
		case errors.Is(err, port.ErrAssetNotFound):
			log.Warn().Str("country_code", badge.CountryCode).Msg("no flag asset, using default icon")
			badge.Icon = entity.IconDefault
			badge.CountryCode = ""
			if err := uc.surface.SetIconPath(ctx, port.DefaultIconPath); err != nil {
				return entity.Badge{}, fmt.Errorf("set icon: %w", err)
			}
		case err != nil:
			return entity.Badge{}, fmt.Errorf("compose flag icon: %w", err)
		default:
			if err := uc.surface.SetIconImage(ctx, img); err != nil {
				return entity.Badge{}, fmt.Errorf("set icon: %w", err)
			}
		}
	case entity.IconError:
		if err := uc.surface.SetIconPath(ctx, port.ErrorIconPath); err != nil {
			return entity.Badge{}, fmt.Errorf("set icon: %w", err)
		}
	default:
		if err := uc.surface.SetIconPath(ctx, port.DefaultIconPath); err != nil {
			return entity.Badge{}, fmt.Errorf("set icon: %w", err)
		}
	}

	if err := uc.surface.SetBadgeText(ctx, badge.Text); err != nil {
		return entity.Badge{}, fmt.Errorf("set badge text: %w", err)
	}
	if err := uc.surface.SetBadgeTextColor(ctx, badge.TextColor); err != nil {
		return entity.Badge{}, fmt.Errorf("set badge text color: %w", err)
	}

	uc.current = badge
	log.Debug().
		Str("icon", string(badge.Icon)).
		Str("text", badge.Text).
		Str("color", badge.TextColor).
		Msg("badge rendered")
	return badge, nil
}
