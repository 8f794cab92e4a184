package entity

// RefreshState is the orchestrator state.
type RefreshState string

const (
	RefreshStateIdle       RefreshState = "idle"
	RefreshStateRefreshing RefreshState = "refreshing"
	RefreshStateError      RefreshState = "error"
)

// Trigger names an event that asks for a refresh evaluation.
type Trigger string

const (
	TriggerInstall      Trigger = "install"
	TriggerStartup      Trigger = "startup"
	TriggerTabActivated Trigger = "tab-activated"
	TriggerTabUpdated   Trigger = "tab-updated"
	TriggerAlarm        Trigger = "alarm"
	TriggerUserUpdate   Trigger = "user-update"
)

// ParseTrigger returns the trigger named s.
func ParseTrigger(s string) (Trigger, bool) {
	switch t := Trigger(s); t {
	case TriggerInstall, TriggerStartup, TriggerTabActivated, TriggerTabUpdated, TriggerAlarm, TriggerUserUpdate:
		return t, true
	}
	return "", false
}

// Forced reports whether the trigger bypasses the staleness check.
func (t Trigger) Forced() bool {
	return t == TriggerUserUpdate
}

// Lifecycle reports whether the trigger comes from daemon install or startup.
func (t Trigger) Lifecycle() bool {
	return t == TriggerInstall || t == TriggerStartup
}

// MessageUpdate is the only message the popup sends to the daemon.
const MessageUpdate = "update"

// Storage areas and keys carried by change notifications.
const (
	StorageAreaSync    = "sync"
	StorageAreaSession = "session"

	StorageKeySettings = "settings"
	StorageKeyData     = "data"
)

// AlarmName is the periodic alarm that drives background evaluation.
const AlarmName = "update-location-alarm"
