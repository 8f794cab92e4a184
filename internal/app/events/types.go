// Package events is the in-process publish/subscribe bus of the daemon.
package events

import (
	"slices"
	"time"

	"github.com/bnema/geobadge/internal/domain/entity"
)

// Type identifies the kind of event being published.
type Type string

const (
	// StorageChanged fires when a key of the settings or session store changes.
	StorageChanged Type = "storage.changed"
	BadgeChanged   Type = "badge.changed"
	StateChanged   Type = "state.changed"
)

// Event is the payload published through the bus.
type Event struct {
	Type      Type
	Timestamp time.Time

	// StorageChanged
	Area string
	Keys []string

	// BadgeChanged
	Badge *entity.Badge

	// StateChanged
	State entity.RefreshState
	Err   error
}

// HasKey reports whether key is among the changed storage keys.
func (e Event) HasKey(key string) bool {
	return slices.Contains(e.Keys, key)
}

func StorageEvent(area string, keys ...string) Event {
	return Event{Type: StorageChanged, Area: area, Keys: keys}
}

func BadgeEvent(b entity.Badge) Event {
	return Event{Type: BadgeChanged, Badge: &b}
}

func StateEvent(state entity.RefreshState, err error) Event {
	return Event{Type: StateChanged, State: state, Err: err}
}
