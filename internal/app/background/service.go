// Package background is the daemon: it routes triggers and messages to the
// refresh and render use cases and keeps the badge in sync with storage.
package background

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/app/events"
	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/application/usecase"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/bnema/geobadge/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultAlarmPeriod is how often the periodic alarm fires.
const DefaultAlarmPeriod = 30 * time.Second

// Deps are the adapters the daemon runs on.
type Deps struct {
	SettingsRepo repository.SettingsRepository
	LocationRepo repository.LocationRepository
	Providers    port.ProviderResolver
	Surface      port.BadgeSurface
	Composer     port.IconComposer
	Alarms       port.AlarmScheduler
	// Notifier is optional.
	Notifier port.LocationNotifier
	Bus      *events.Bus

	UpdateInterval time.Duration
	AlarmPeriod    time.Duration
	SessionID      string
}

// Worker is a long running task started by Run, such as the control server.
type Worker func(ctx context.Context) error

// Service is the background daemon.
type Service struct {
	settingsRepo repository.SettingsRepository
	locationRepo repository.LocationRepository
	alarms       port.AlarmScheduler
	bus          *events.Bus

	ensure  *usecase.EnsureSettingsUseCase
	refresh *usecase.RefreshLocationUseCase
	render  *usecase.RenderBadgeUseCase
	notify  *usecase.NotifyLocationChangeUseCase

	sessionID string
	startedAt time.Time

	listenerOnce sync.Once
	alarmOnce    sync.Once

	mu          sync.RWMutex
	alarmPeriod time.Duration
}

var _ control.Backend = (*Service)(nil)

func New(deps Deps) *Service {
	bus := deps.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	period := deps.AlarmPeriod
	if period <= 0 {
		period = DefaultAlarmPeriod
	}

	locationRepo := &publishingLocationRepository{LocationRepository: deps.LocationRepo, bus: bus}
	render := usecase.NewRenderBadgeUseCase(deps.SettingsRepo, locationRepo, deps.Surface, deps.Composer)
	refresh := usecase.NewRefreshLocationUseCase(deps.SettingsRepo, locationRepo, deps.Providers, render, deps.UpdateInterval)

	s := &Service{
		settingsRepo: deps.SettingsRepo,
		locationRepo: locationRepo,
		alarms:       deps.Alarms,
		bus:          bus,
		ensure:       usecase.NewEnsureSettingsUseCase(deps.SettingsRepo),
		refresh:      refresh,
		render:       render,
		notify:       usecase.NewNotifyLocationChangeUseCase(deps.Notifier),
		sessionID:    deps.SessionID,
		startedAt:    time.Now(),
		alarmPeriod:  period,
	}

	render.OnChange(func(ctx context.Context, b entity.Badge) {
		bus.Publish(ctx, events.BadgeEvent(b))
	})
	refresh.OnStateChange(func(ctx context.Context, state entity.RefreshState, err error) {
		bus.Publish(ctx, events.StateEvent(state, err))
	})
	return s
}

// Subscribe registers handler on the bus behind the service's own storage
// listener, so storage events reach it after the badge was re-rendered.
func (s *Service) Subscribe(handler events.Handler, types ...events.Type) func() {
	s.ensureStorageListener()
	return s.bus.Subscribe(handler, types...)
}

// Initialize runs the startup sequence for a trigger: clear the alarm on
// install/startup, ensure settings, register the storage listener, ensure the
// alarm, then evaluate the stored location.
func (s *Service) Initialize(ctx context.Context, trigger entity.Trigger) error {
	ctx = logging.WithTrigger(ctx, string(trigger))
	log := logging.FromContext(ctx)

	if trigger.Lifecycle() {
		if s.alarms.Clear(ctx, entity.AlarmName) {
			log.Debug().Msg("previous alarm cleared")
		}
	}

	out, err := s.ensure.Execute(ctx)
	if err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}
	if out.Created {
		log.Info().Msg("first run, default settings installed")
	}

	s.ensureStorageListener()

	if err := s.ensureAlarm(ctx); err != nil {
		return err
	}

	if _, err := s.refresh.Evaluate(ctx); err != nil {
		return fmt.Errorf("evaluate location: %w", err)
	}
	return nil
}

// HandleTrigger routes a browser or daemon event.
func (s *Service) HandleTrigger(ctx context.Context, trigger entity.Trigger) error {
	switch {
	case trigger.Forced():
		return s.HandleMessage(ctx, entity.MessageUpdate)
	case trigger == entity.TriggerAlarm:
		ctx = logging.WithTrigger(ctx, string(trigger))
		_, err := s.refresh.Evaluate(ctx)
		return err
	default:
		return s.Initialize(ctx, trigger)
	}
}

// HandleMessage handles a runtime message. Only "update" is known; it forces a refresh.
func (s *Service) HandleMessage(ctx context.Context, message string) error {
	ctx = logging.WithTrigger(ctx, string(entity.TriggerUserUpdate))
	log := logging.FromContext(ctx)

	if message != entity.MessageUpdate {
		log.Warn().Str("message", message).Msg("ignoring unknown message")
		return fmt.Errorf("%w: %q", control.ErrUnknownMessage, message)
	}

	out, err := s.refresh.Force(ctx)
	if err != nil {
		return err
	}
	log.Debug().Bool("shared", out.Shared).Msg("forced refresh done")
	return nil
}

// SettingsChanged is the hook for the settings store. It only re-renders.
func (s *Service) SettingsChanged(ctx context.Context, _ entity.Settings) {
	s.bus.Publish(ctx, events.StorageEvent(entity.StorageAreaSync, entity.StorageKeySettings))
}

// ApplyIntervals updates the staleness threshold and the alarm period at runtime.
func (s *Service) ApplyIntervals(ctx context.Context, updateInterval, alarmPeriod time.Duration) error {
	s.refresh.SetInterval(updateInterval)
	if alarmPeriod <= 0 {
		alarmPeriod = DefaultAlarmPeriod
	}

	s.mu.Lock()
	changed := s.alarmPeriod != alarmPeriod
	s.alarmPeriod = alarmPeriod
	s.mu.Unlock()

	if !changed {
		return nil
	}
	if _, ok := s.alarms.Get(entity.AlarmName); !ok {
		return nil
	}
	return s.ensureAlarm(ctx)
}

// Run initializes with trigger, then runs the workers until ctx is cancelled
// or one of them fails.
func (s *Service) Run(ctx context.Context, trigger entity.Trigger, workers ...Worker) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, w := range workers {
		g.Go(func() error {
			defer logging.Recover(gctx, "background worker")
			return w(gctx)
		})
	}

	g.Go(func() error {
		if err := s.Initialize(gctx, trigger); err != nil {
			if !errors.Is(err, context.Canceled) {
				logging.FromContext(gctx).Error().Err(err).Msg("initialization failed")
			}
		}
		<-gctx.Done()
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Status builds the snapshot served by the control API.
func (s *Service) Status(ctx context.Context) (control.Status, error) {
	state, lastErr := s.refresh.State()

	record, err := s.locationRepo.Get(ctx)
	if err != nil {
		return control.Status{}, fmt.Errorf("read location: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return control.Status{}, fmt.Errorf("read settings: %w", err)
	}
	if settings == nil {
		defaults := entity.DefaultSettings()
		settings = &defaults
	}

	st := control.Status{
		StatePayload:          control.StatePayload{State: state},
		Location:              record,
		Badge:                 s.render.Current(),
		Settings:              *settings,
		UpdateIntervalSeconds: int(s.refresh.Interval() / time.Second),
		SessionID:             s.sessionID,
		StartedAt:             s.startedAt,
		PID:                   os.Getpid(),
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}
	for _, a := range s.alarms.All() {
		as := control.AlarmStatus{
			Name:          a.Name,
			PeriodSeconds: int(a.Period / time.Second),
			ScheduledTime: a.ScheduledTime,
		}
		st.Alarms = append(st.Alarms, as)
		if a.Name == entity.AlarmName {
			st.Alarm = &as
		}
	}
	return st, nil
}

// ensureAlarm keeps exactly one alarm with the configured period.
// An existing alarm with that period is left alone so its cadence is kept.
func (s *Service) ensureAlarm(ctx context.Context) error {
	s.mu.RLock()
	period := s.alarmPeriod
	s.mu.RUnlock()

	s.alarmOnce.Do(func() {
		s.alarms.OnAlarm(s.onAlarm)
	})

	if a, ok := s.alarms.Get(entity.AlarmName); ok && a.Period == period {
		logging.FromContext(ctx).Trace().Msg("alarm already set")
		return nil
	}
	if err := s.alarms.Create(ctx, entity.AlarmName, period); err != nil {
		return fmt.Errorf("create alarm: %w", err)
	}
	return nil
}

func (s *Service) onAlarm(ctx context.Context, alarm port.Alarm) {
	if alarm.Name != entity.AlarmName {
		return
	}
	if err := s.HandleTrigger(ctx, entity.TriggerAlarm); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("alarm evaluation failed")
	}
}

func (s *Service) ensureStorageListener() {
	s.listenerOnce.Do(func() {
		s.bus.Subscribe(s.onStorageChanged, events.StorageChanged)
	})
}

func (s *Service) onStorageChanged(ctx context.Context, e events.Event) {
	log := logging.FromContext(ctx)

	if !e.HasKey(entity.StorageKeySettings) && !e.HasKey(entity.StorageKeyData) {
		return
	}
	if _, err := s.render.Render(ctx); err != nil {
		log.Error().Err(err).Str("area", e.Area).Msg("failed to render badge")
	}

	if !e.HasKey(entity.StorageKeyData) {
		return
	}
	record, err := s.locationRepo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read location for notification")
		return
	}
	if _, err := s.notify.Execute(ctx, record); err != nil {
		log.Warn().Err(err).Msg("location notification failed")
	}
}
