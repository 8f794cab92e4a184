package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/logging"
)

// NotifyLocationChangeUseCase sends a notification when the country changes.
// The first location seen after start is only remembered.
type NotifyLocationChangeUseCase struct {
	notifier port.LocationNotifier

	mu       sync.Mutex
	lastCode string
}

// NewNotifyLocationChangeUseCase creates a new NotifyLocationChangeUseCase.
// A nil notifier disables notifications.
func NewNotifyLocationChangeUseCase(notifier port.LocationNotifier) *NotifyLocationChangeUseCase {
	return &NotifyLocationChangeUseCase{notifier: notifier}
}

// NotifyLocationChangeOutput reports whether a notification went out.
type NotifyLocationChangeOutput struct {
	Sent     bool
	Previous string
	Current  string
}

// Execute compares record with the last seen country code.
func (uc *NotifyLocationChangeUseCase) Execute(ctx context.Context, record *entity.LocationRecord) (*NotifyLocationChangeOutput, error) {
	if record == nil || record.CountryCode == "" {
		return &NotifyLocationChangeOutput{}, nil
	}

	code := strings.ToUpper(record.CountryCode)

	uc.mu.Lock()
	previous := uc.lastCode
	uc.lastCode = code
	uc.mu.Unlock()

	out := &NotifyLocationChangeOutput{Previous: previous, Current: code}
	if uc.notifier == nil || previous == "" || previous == code {
		return out, nil
	}

	title := "Location changed"
	message := fmt.Sprintf("%s → %s (%s, %s) via %s", previous, code, record.Country, record.Region, record.ISP)
	if err := uc.notifier.Notify(ctx, title, message); err != nil {
		return out, fmt.Errorf("send location notification: %w", err)
	}

	logging.FromContext(ctx).Info().
		Str("from", previous).
		Str("to", code).
		Msg("location change notification sent")

	out.Sent = true
	return out, nil
}
