// Package control exposes the daemon on a localhost HTTP and websocket API.
package control

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bnema/geobadge/internal/domain/entity"
)

// DefaultListenAddr is the loopback address the daemon listens on.
const DefaultListenAddr = "127.0.0.1:47615"

// Frame types sent over /ws.
const (
	FrameStatus   = "status"
	FrameLocation = "location"
	FrameBadge    = "badge"
	FrameState    = "state"
	FrameMessage  = "message"
	FrameError    = "error"
)

// Frame is the websocket wire format.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewFrame marshals payload into a frame.
func NewFrame(frameType string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameType, Payload: data}, nil
}

// AlarmStatus describes the periodic alarm.
type AlarmStatus struct {
	Name          string    `json:"name"`
	PeriodSeconds int       `json:"period_seconds"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// StatePayload is the payload of "state" frames.
type StatePayload struct {
	State     entity.RefreshState `json:"state"`
	LastError string              `json:"last_error,omitempty"`
}

// Status is a snapshot of the daemon.
type Status struct {
	StatePayload
	Location              *entity.LocationRecord `json:"location"`
	Badge                 entity.Badge           `json:"badge"`
	Settings              entity.Settings        `json:"settings"`
	UpdateIntervalSeconds int                    `json:"update_interval_seconds"`
	Alarm                 *AlarmStatus           `json:"alarm,omitempty"`
	Alarms                []AlarmStatus          `json:"alarms,omitempty"`
	SessionID             string                 `json:"session_id"`
	StartedAt             time.Time              `json:"started_at"`
	PID                   int                    `json:"pid"`
}

// MessageRequest is the body of POST /api/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Backend is what the control API drives.
type Backend interface {
	Status(ctx context.Context) (Status, error)
	HandleMessage(ctx context.Context, message string) error
	HandleTrigger(ctx context.Context, trigger entity.Trigger) error
}
