// Package alarm implements named periodic alarms on top of a gocron scheduler.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/logging"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	// ErrInvalidPeriod is returned when an alarm period is not positive.
	ErrInvalidPeriod = errors.New("alarm period must be positive")
	// ErrClosed is returned by Create after Close.
	ErrClosed = errors.New("alarm scheduler closed")
)

type scheduled struct {
	alarm   port.Alarm
	jobID   uuid.UUID
	running sync.WaitGroup
}

// Scheduler implements port.AlarmScheduler. Every alarm is a gocron duration
// job tagged with the alarm name. Handlers run with the context given to
// NewScheduler rather than the one given to Create.
type Scheduler struct {
	cron gocron.Scheduler
	base context.Context
	now  func() time.Time

	mu       sync.Mutex
	alarms   map[string]*scheduled
	handlers []port.AlarmHandler
	closed   bool

	closeOnce sync.Once
}

var _ port.AlarmScheduler = (*Scheduler)(nil)

// NewScheduler starts a scheduler that is closed when ctx is done.
func NewScheduler(ctx context.Context) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	s := &Scheduler{
		cron:   cron,
		base:   ctx,
		now:    time.Now,
		alarms: make(map[string]*scheduled),
	}
	cron.Start()
	context.AfterFunc(ctx, s.Close)
	return s, nil
}

// OnAlarm adds a handler for every alarm. Handlers must not Clear or
// re-Create the alarm that fired them.
func (s *Scheduler) OnAlarm(handler port.AlarmHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Create registers an alarm firing every period, replacing one with the same name.
func (s *Scheduler) Create(ctx context.Context, name string, period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
	}

	sa := &scheduled{
		alarm: port.Alarm{Name: name, Period: period, ScheduledTime: s.now().Add(period)},
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	job, err := s.cron.NewJob(
		gocron.DurationJob(period),
		gocron.NewTask(s.fire, sa),
		gocron.WithName(name),
		gocron.WithTags(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule alarm %s: %w", name, err)
	}
	sa.jobID = job.ID()
	prev := s.alarms[name]
	s.alarms[name] = sa
	s.mu.Unlock()

	if prev != nil {
		s.stop(ctx, prev)
	}

	logging.FromContext(ctx).Debug().
		Str("alarm", name).
		Dur("period", period).
		Bool("replaced", prev != nil).
		Msg("alarm created")
	return nil
}

func (s *Scheduler) Clear(ctx context.Context, name string) bool {
	s.mu.Lock()
	sa, ok := s.alarms[name]
	if ok {
		delete(s.alarms, name)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.stop(ctx, sa)

	logging.FromContext(ctx).Debug().Str("alarm", name).Msg("alarm cleared")
	return true
}

func (s *Scheduler) Get(name string) (port.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sa, ok := s.alarms[name]
	if !ok {
		return port.Alarm{}, false
	}
	return sa.alarm, true
}

// All returns every alarm sorted by name.
func (s *Scheduler) All() []port.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]port.Alarm, 0, len(s.alarms))
	for _, sa := range s.alarms {
		out = append(out, sa.alarm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Close stops every alarm and shuts the scheduler down. It is safe to call twice.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		alarms := s.alarms
		s.alarms = make(map[string]*scheduled)
		s.closed = true
		s.mu.Unlock()

		ctx := context.WithoutCancel(s.base)
		for _, sa := range alarms {
			s.stop(ctx, sa)
		}
		if err := s.cron.Shutdown(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("alarm scheduler shutdown")
		}
	})
}

// stop removes the job of an alarm that is no longer in the map and waits
// for a handler run already in flight.
func (s *Scheduler) stop(ctx context.Context, sa *scheduled) {
	if err := s.cron.RemoveJob(sa.jobID); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		logging.FromContext(ctx).Warn().Err(err).Str("alarm", sa.alarm.Name).Msg("remove alarm job")
	}
	sa.running.Wait()
}

func (s *Scheduler) fire(sa *scheduled) {
	s.mu.Lock()
	if s.alarms[sa.alarm.Name] != sa {
		s.mu.Unlock()
		return
	}
	sa.running.Add(1)
	defer sa.running.Done()
	fired := sa.alarm
	sa.alarm.ScheduledTime = s.now().Add(sa.alarm.Period)
	handlers := make([]port.AlarmHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	ctx := logging.WithComponent(s.base, "alarm")
	for _, h := range handlers {
		func() {
			defer logging.Recover(ctx, "alarm."+fired.Name)
			h(ctx, fired)
		}()
	}
}
