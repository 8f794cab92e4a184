package port

import (
	"context"
	"time"
)

// Alarm describes a registered periodic alarm.
type Alarm struct {
	Name          string
	Period        time.Duration
	ScheduledTime time.Time
}

// AlarmHandler is invoked each time an alarm fires.
type AlarmHandler func(ctx context.Context, alarm Alarm)

//go:generate mockgen -source=alarm.go -destination=mocks/mock_alarm.go -package=mocks

// AlarmScheduler owns named periodic alarms.
// Creating an alarm with an existing name replaces it.
type AlarmScheduler interface {
	Create(ctx context.Context, name string, period time.Duration) error
	// Clear removes the alarm and reports whether one existed.
	Clear(ctx context.Context, name string) bool
	Get(name string) (Alarm, bool)
	All() []Alarm
	OnAlarm(handler AlarmHandler)
}
