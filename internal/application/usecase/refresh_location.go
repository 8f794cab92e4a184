package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultUpdateInterval is the staleness threshold.
const DefaultUpdateInterval = 5 * time.Minute

const refreshKey = "refresh"

// badgeIndicator is the part of the renderer the refresh flow drives directly.
type badgeIndicator interface {
	ShowIdle(ctx context.Context) error
	ShowError(ctx context.Context) error
}

// StateListener observes refresh state transitions. err is set on RefreshStateError.
type StateListener func(ctx context.Context, state entity.RefreshState, err error)

// RefreshLocationUseCase decides when to query the location provider and
// persists successful results. Concurrent refreshes collapse into one provider call.
type RefreshLocationUseCase struct {
	settingsRepo repository.SettingsRepository
	locationRepo repository.LocationRepository
	providers    port.ProviderResolver
	indicator    badgeIndicator
	interval     time.Duration
	now          func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	state     entity.RefreshState
	lastErr   error
	listeners []StateListener
}

// NewRefreshLocationUseCase creates a new RefreshLocationUseCase.
// A non-positive interval falls back to DefaultUpdateInterval.
func NewRefreshLocationUseCase(
	settingsRepo repository.SettingsRepository,
	locationRepo repository.LocationRepository,
	providers port.ProviderResolver,
	indicator badgeIndicator,
	interval time.Duration,
) *RefreshLocationUseCase {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &RefreshLocationUseCase{
		settingsRepo: settingsRepo,
		locationRepo: locationRepo,
		providers:    providers,
		indicator:    indicator,
		interval:     interval,
		now:          time.Now,
		state:        entity.RefreshStateIdle,
	}
}

// RefreshLocationOutput describes the outcome of an evaluation.
type RefreshLocationOutput struct {
	// Refreshed is false when the stored record was fresh enough.
	Refreshed bool
	// Shared is true when the caller joined a refresh already in flight.
	Shared bool
	Record *entity.LocationRecord
}

// SetInterval changes the staleness threshold.
func (uc *RefreshLocationUseCase) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	uc.mu.Lock()
	uc.interval = interval
	uc.mu.Unlock()
}

// Interval returns the staleness threshold.
func (uc *RefreshLocationUseCase) Interval() time.Duration {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.interval
}

// OnStateChange registers a listener for state transitions.
func (uc *RefreshLocationUseCase) OnStateChange(listener StateListener) {
	uc.mu.Lock()
	uc.listeners = append(uc.listeners, listener)
	uc.mu.Unlock()
}

// State returns the current state and the error that caused RefreshStateError, if any.
func (uc *RefreshLocationUseCase) State() (entity.RefreshState, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state, uc.lastErr
}

// Evaluate refreshes only when no record exists or the stored one is older
// than the interval.
func (uc *RefreshLocationUseCase) Evaluate(ctx context.Context) (*RefreshLocationOutput, error) {
	log := logging.FromContext(ctx)

	record, err := uc.locationRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read location: %w", err)
	}

	now := uc.now()
	if !record.IsStale(now, uc.Interval()) {
		log.Debug().
			Dur("elapsed", now.Sub(record.FetchedAt)).
			Dur("interval", uc.Interval()).
			Msg("location is fresh, skipping refresh")
		return &RefreshLocationOutput{Record: record}, nil
	}

	return uc.refresh(ctx)
}

// Force refreshes regardless of the stored record's age.
// A forced refresh joins one that is already in flight.
func (uc *RefreshLocationUseCase) Force(ctx context.Context) (*RefreshLocationOutput, error) {
	return uc.refresh(ctx)
}

func (uc *RefreshLocationUseCase) refresh(ctx context.Context) (*RefreshLocationOutput, error) {
	v, err, shared := uc.group.Do(refreshKey, func() (any, error) {
		return uc.doRefresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	record, _ := v.(*entity.LocationRecord)
	return &RefreshLocationOutput{Refreshed: true, Shared: shared, Record: record}, nil
}

func (uc *RefreshLocationUseCase) doRefresh(ctx context.Context) (*entity.LocationRecord, error) {
	log := logging.FromContext(ctx)

	uc.setState(ctx, entity.RefreshStateRefreshing, nil)
	if err := uc.indicator.ShowIdle(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to show idle badge")
	}

	record, err := uc.fetch(ctx)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}

	previous, err := uc.locationRepo.Get(ctx)
	if err != nil {
		err = fmt.Errorf("read location: %w", err)
		uc.fail(ctx, err)
		return nil, err
	}

	record.FetchedAt = entity.Stamp(uc.now(), previous)
	if err := uc.locationRepo.Save(ctx, record); err != nil {
		err = fmt.Errorf("save location: %w", err)
		uc.fail(ctx, err)
		return nil, err
	}

	log.Info().
		Str("ip", record.IPAddress).
		Str("country_code", record.CountryCode).
		Str("isp", record.ISP).
		Msg("location refreshed")

	uc.setState(ctx, entity.RefreshStateIdle, nil)
	return record, nil
}

func (uc *RefreshLocationUseCase) fetch(ctx context.Context) (*entity.LocationRecord, error) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if settings == nil {
		defaults := entity.DefaultSettings()
		settings = &defaults
	}

	provider, err := uc.providers.Resolve(settings.LocationProvider)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("provider", string(provider.ID())).
		Msg("fetching location")

	record, err := provider.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch location from %s: %w", provider.ID(), err)
	}
	return record, nil
}

func (uc *RefreshLocationUseCase) fail(ctx context.Context, err error) {
	log := logging.FromContext(ctx)
	log.Error().Err(err).Msg("location refresh failed")

	uc.setState(ctx, entity.RefreshStateError, err)
	if showErr := uc.indicator.ShowError(ctx); showErr != nil {
		log.Warn().Err(showErr).Msg("failed to show error badge")
	}
}

func (uc *RefreshLocationUseCase) setState(ctx context.Context, state entity.RefreshState, err error) {
	uc.mu.Lock()
	uc.state = state
	uc.lastErr = err
	listeners := make([]StateListener, len(uc.listeners))
	copy(listeners, uc.listeners)
	uc.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, state, err)
	}
}
