package background

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/bnema/geobadge/internal/app/events"
	"github.com/bnema/geobadge/internal/application/port"
	portmocks "github.com/bnema/geobadge/internal/application/port/mocks"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/infrastructure/alarm"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memSettings struct {
	mu       sync.Mutex
	settings *entity.Settings
}

func (m *memSettings) Get(context.Context) (*entity.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, nil
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memSettings) Save(_ context.Context, s *entity.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.settings = &cp
	return nil
}

type memLocation struct {
	mu     sync.Mutex
	record *entity.LocationRecord
}

func (m *memLocation) Get(context.Context) (*entity.LocationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return nil, nil
	}
	cp := *m.record
	return &cp, nil
}

func (m *memLocation) Save(_ context.Context, r *entity.LocationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record != nil && r.FetchedAt.Before(m.record.FetchedAt) {
		return repository.ErrStaleWrite
	}
	cp := *r
	m.record = &cp
	return nil
}

type recordingSurface struct {
	mu       sync.Mutex
	iconPath string
	composed bool
	text     string
	color    string
}

func (s *recordingSurface) SetIconPath(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iconPath, s.composed = path, false
	return nil
}

func (s *recordingSurface) SetIconImage(context.Context, image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iconPath, s.composed = "", true
	return nil
}

func (s *recordingSurface) SetBadgeText(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	return nil
}

func (s *recordingSurface) SetBadgeTextColor(_ context.Context, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = color
	return nil
}

func (s *recordingSurface) snapshot() (string, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iconPath, s.text, s.color
}

func germany() *entity.LocationRecord {
	return &entity.LocationRecord{
		IPAddress:   "203.0.113.7",
		Country:     "Germany",
		Region:      "Hesse",
		CountryCode: "DE",
		ISP:         "Hetzner Online GmbH",
	}
}

type fixture struct {
	svc      *Service
	settings *memSettings
	location *memLocation
	surface  *recordingSurface
	provider *portmocks.MockLocationProvider
	alarms   *portmocks.MockAlarmScheduler
	notifier *portmocks.MockLocationNotifier
	bus      *events.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		settings: &memSettings{},
		location: &memLocation{},
		surface:  &recordingSurface{},
		provider: portmocks.NewMockLocationProvider(ctrl),
		alarms:   portmocks.NewMockAlarmScheduler(ctrl),
		notifier: portmocks.NewMockLocationNotifier(ctrl),
		bus:      events.NewBus(),
	}

	resolver := portmocks.NewMockProviderResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any()).Return(f.provider, nil).AnyTimes()
	f.provider.EXPECT().ID().Return(entity.ProviderIPAPI).AnyTimes()

	composer := portmocks.NewMockIconComposer(ctrl)
	composer.EXPECT().ComposeFlag(gomock.Any(), gomock.Any()).Return(nil, port.ErrAssetNotFound).AnyTimes()

	f.svc = New(Deps{
		SettingsRepo:   f.settings,
		LocationRepo:   f.location,
		Providers:      resolver,
		Surface:        f.surface,
		Composer:       composer,
		Alarms:         f.alarms,
		Notifier:       f.notifier,
		Bus:            f.bus,
		UpdateInterval: 5 * time.Minute,
		AlarmPeriod:    30 * time.Second,
		SessionID:      "test-session",
	})
	return f
}

// expectFreshAlarm expects the alarm to be registered from scratch.
func (f *fixture) expectFreshAlarm() {
	f.alarms.EXPECT().OnAlarm(gomock.Any()).Times(1)
	f.alarms.EXPECT().Get(entity.AlarmName).Return(port.Alarm{}, false)
	f.alarms.EXPECT().Create(gomock.Any(), entity.AlarmName, 30*time.Second).Return(nil)
}

// useScheduler swaps the mocked alarms for a real scheduler.
func (f *fixture) useScheduler(t *testing.T) *alarm.Scheduler {
	t.Helper()
	scheduler, err := alarm.NewScheduler(context.Background())
	require.NoError(t, err)
	t.Cleanup(scheduler.Close)
	f.svc.alarms = scheduler
	return scheduler
}

func TestInitialize_StartupFirstRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var states []entity.RefreshState
	f.bus.Subscribe(func(_ context.Context, e events.Event) {
		states = append(states, e.State)
	}, events.StateChanged)

	f.alarms.EXPECT().Clear(gomock.Any(), entity.AlarmName).Return(false)
	f.expectFreshAlarm()
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil)

	require.NoError(t, f.svc.Initialize(ctx, entity.TriggerStartup))

	stored, _ := f.settings.Get(ctx)
	require.NotNil(t, stored)
	assert.Equal(t, entity.DefaultSettings(), *stored)

	rec, _ := f.location.Get(ctx)
	require.NotNil(t, rec)
	assert.Equal(t, "DE", rec.CountryCode)
	assert.False(t, rec.FetchedAt.IsZero())

	icon, text, color := f.surface.snapshot()
	assert.Equal(t, port.DefaultIconPath, icon)
	assert.Equal(t, "DE", text)
	assert.Equal(t, "green", color)

	assert.Equal(t, []entity.RefreshState{entity.RefreshStateRefreshing, entity.RefreshStateIdle}, states)
}

func TestInitialize_TabTriggerWithFreshLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	defaults := entity.DefaultSettings()
	require.NoError(t, f.settings.Save(ctx, &defaults))
	fresh := germany()
	fresh.FetchedAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.location.Save(ctx, fresh))

	f.alarms.EXPECT().OnAlarm(gomock.Any())
	f.alarms.EXPECT().Get(entity.AlarmName).Return(port.Alarm{Name: entity.AlarmName, Period: 30 * time.Second}, true)
	f.provider.EXPECT().Fetch(gomock.Any()).Times(0)

	require.NoError(t, f.svc.HandleTrigger(ctx, entity.TriggerTabActivated))
}

func TestHandleMessage_UpdateForcesRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.alarms.EXPECT().Clear(gomock.Any(), entity.AlarmName).Return(false)
	f.expectFreshAlarm()
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil)
	require.NoError(t, f.svc.Initialize(ctx, entity.TriggerInstall))

	first, _ := f.location.Get(ctx)

	france := &entity.LocationRecord{IPAddress: "198.51.100.4", Country: "France", CountryCode: "FR", ISP: "Free"}
	f.provider.EXPECT().Fetch(gomock.Any()).Return(france, nil)
	f.notifier.EXPECT().Notify(gomock.Any(), "Location changed", gomock.Any()).Return(nil)

	require.NoError(t, f.svc.HandleMessage(ctx, entity.MessageUpdate))

	second, _ := f.location.Get(ctx)
	assert.Equal(t, "FR", second.CountryCode)
	assert.True(t, second.FetchedAt.After(first.FetchedAt))

	_, text, _ := f.surface.snapshot()
	assert.Equal(t, "FR", text)
}

func TestHandleMessage_Unknown(t *testing.T) {
	f := newFixture(t)
	f.provider.EXPECT().Fetch(gomock.Any()).Times(0)

	err := f.svc.HandleMessage(context.Background(), "reload")
	assert.ErrorIs(t, err, control.ErrUnknownMessage)
}

func TestProviderFailureShowsErrorAndKeepsLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	defaults := entity.DefaultSettings()
	require.NoError(t, f.settings.Save(ctx, &defaults))
	old := germany()
	old.FetchedAt = time.Now().Add(-time.Hour)
	require.NoError(t, f.location.Save(ctx, old))

	f.alarms.EXPECT().OnAlarm(gomock.Any())
	f.alarms.EXPECT().Get(entity.AlarmName).Return(port.Alarm{Name: entity.AlarmName, Period: 30 * time.Second}, true)
	f.provider.EXPECT().Fetch(gomock.Any()).Return(nil, port.ErrProvider)
	f.alarms.EXPECT().All().Return(nil)

	err := f.svc.HandleTrigger(ctx, entity.TriggerTabUpdated)
	require.ErrorIs(t, err, port.ErrProvider)

	icon, text, _ := f.surface.snapshot()
	assert.Equal(t, port.ErrorIconPath, icon)
	assert.Equal(t, entity.BadgeTextError, text)

	rec, _ := f.location.Get(ctx)
	assert.Equal(t, old.FetchedAt, rec.FetchedAt)

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.RefreshStateError, st.State)
	assert.NotEmpty(t, st.LastError)
}

func TestSettingsChangedOnlyRerenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.alarms.EXPECT().Clear(gomock.Any(), entity.AlarmName).Return(false)
	f.expectFreshAlarm()
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil).Times(1)
	require.NoError(t, f.svc.Initialize(ctx, entity.TriggerStartup))

	updated := entity.DefaultSettings()
	updated.BadgeDisplayMode = entity.BadgeModeISP
	updated.BadgeColor = "red"
	require.NoError(t, f.settings.Save(ctx, &updated))
	f.svc.SettingsChanged(ctx, updated)

	_, text, color := f.surface.snapshot()
	assert.Equal(t, "Hetzn", text)
	assert.Equal(t, "red", color)
}

func TestAlarmFiresEvaluation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var handler port.AlarmHandler
	f.alarms.EXPECT().Clear(gomock.Any(), entity.AlarmName).Return(false)
	f.alarms.EXPECT().OnAlarm(gomock.Any()).Do(func(h port.AlarmHandler) { handler = h })
	f.alarms.EXPECT().Get(entity.AlarmName).Return(port.Alarm{}, false)
	f.alarms.EXPECT().Create(gomock.Any(), entity.AlarmName, 30*time.Second).Return(nil)
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil).Times(1)

	require.NoError(t, f.svc.Initialize(ctx, entity.TriggerStartup))
	require.NotNil(t, handler)

	// fresh location: the alarm only evaluates
	handler(ctx, port.Alarm{Name: entity.AlarmName})
	// foreign alarms are ignored
	handler(ctx, port.Alarm{Name: "other"})
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.alarms.EXPECT().All().Return([]port.Alarm{
		{Name: "other", Period: time.Hour},
		{Name: entity.AlarmName, Period: 30 * time.Second, ScheduledTime: time.Unix(1_700_000_000, 0)},
	})

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.RefreshStateIdle, st.State)
	assert.Nil(t, st.Location)
	assert.Equal(t, entity.DefaultSettings(), st.Settings)
	assert.Equal(t, 300, st.UpdateIntervalSeconds)
	assert.Equal(t, "test-session", st.SessionID)
	require.NotNil(t, st.Alarm)
	assert.Equal(t, 30, st.Alarm.PeriodSeconds)
	assert.Equal(t, time.Unix(1_700_000_000, 0), st.Alarm.ScheduledTime)
	assert.Len(t, st.Alarms, 2)
}

func TestApplyIntervals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.alarms.EXPECT().OnAlarm(gomock.Any())
	f.alarms.EXPECT().Get(entity.AlarmName).Return(port.Alarm{Name: entity.AlarmName, Period: 30 * time.Second}, true).Times(2)
	f.alarms.EXPECT().Create(gomock.Any(), entity.AlarmName, time.Minute).Return(nil)

	require.NoError(t, f.svc.ApplyIntervals(ctx, 10*time.Minute, time.Minute))
	assert.Equal(t, 10*time.Minute, f.svc.refresh.Interval())

	// unchanged period is a no-op
	require.NoError(t, f.svc.ApplyIntervals(ctx, 10*time.Minute, time.Minute))
}

func TestRun_StopsOnCancelAndPropagatesWorkerErrors(t *testing.T) {
	f := newFixture(t)
	scheduler := f.useScheduler(t)
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		done <- f.svc.Run(ctx, entity.TriggerStartup, func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	<-started
	require.Eventually(t, func() bool {
		_, ok := scheduler.Get(entity.AlarmName)
		return ok
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	boom := errors.New("listen failed")
	err := f.svc.Run(context.Background(), entity.TriggerTabActivated, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestInitialize_RepeatedTriggersKeepOneAlarm(t *testing.T) {
	f := newFixture(t)
	scheduler := f.useScheduler(t)
	ctx := context.Background()
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil).Times(1)

	require.NoError(t, f.svc.Initialize(ctx, entity.TriggerStartup))
	first, ok := scheduler.Get(entity.AlarmName)
	require.True(t, ok)

	require.NoError(t, f.svc.Initialize(ctx, entity.TriggerStartup))
	require.NoError(t, f.svc.HandleTrigger(ctx, entity.TriggerTabActivated))

	all := scheduler.All()
	require.Len(t, all, 1)
	assert.Equal(t, entity.AlarmName, all[0].Name)
	assert.Equal(t, 30*time.Second, all[0].Period)
	assert.False(t, all[0].ScheduledTime.Before(first.ScheduledTime))
}

func TestHandleTrigger_UserUpdateForcesRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	defaults := entity.DefaultSettings()
	require.NoError(t, f.settings.Save(ctx, &defaults))
	fresh := germany()
	fresh.FetchedAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.location.Save(ctx, fresh))

	// a fresh location is fetched again and no alarm is touched
	f.provider.EXPECT().Fetch(gomock.Any()).Return(germany(), nil).Times(1)

	require.NoError(t, f.svc.HandleTrigger(ctx, entity.TriggerUserUpdate))

	rec, _ := f.location.Get(ctx)
	assert.True(t, rec.FetchedAt.After(fresh.FetchedAt))
}

func TestSubscribe_SeesBadgeRenderedForDataChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	defaults := entity.DefaultSettings()
	require.NoError(t, f.settings.Save(ctx, &defaults))

	var seen []entity.Badge
	detach := f.svc.Subscribe(func(context.Context, events.Event) {
		seen = append(seen, f.svc.render.Current())
	}, events.StorageChanged)
	t.Cleanup(detach)

	record := germany()
	record.FetchedAt = time.Now()
	require.NoError(t, f.svc.locationRepo.Save(ctx, record))

	require.Len(t, seen, 1)
	assert.Equal(t, "DE", seen[0].Text)
	assert.Equal(t, "green", seen[0].TextColor)
}
