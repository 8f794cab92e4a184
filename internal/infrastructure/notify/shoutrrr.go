// Package notify delivers location change messages through shoutrrr.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/logging"
	"github.com/nicholas-fedor/shoutrrr"
)

// ErrNoURL is returned when the notifier is built without a service URL.
var ErrNoURL = errors.New("notify: no shoutrrr url configured")

// Sender abstracts message dispatch so the notifier can be tested without real services.
type Sender interface {
	Send(url, message string) error
}

// ShoutrrrSender dispatches via the shoutrrr library.
type ShoutrrrSender struct{}

func (ShoutrrrSender) Send(url, message string) error {
	return shoutrrr.Send(url, message)
}

// Notifier implements port.LocationNotifier for one shoutrrr URL.
type Notifier struct {
	url    string
	sender Sender
}

var _ port.LocationNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier. A nil sender uses ShoutrrrSender.
func NewNotifier(url string, sender Sender) (*Notifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrNoURL
	}
	if sender == nil {
		sender = ShoutrrrSender{}
	}
	return &Notifier{url: url, sender: sender}, nil
}

func (n *Notifier) Notify(ctx context.Context, title, message string) error {
	body := message
	if title != "" {
		body = title + "\n" + message
	}
	if err := n.sender.Send(n.url, body); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	logging.FromContext(ctx).Debug().Str("service", scheme(n.url)).Msg("notification sent")
	return nil
}

// scheme returns the service part of a shoutrrr URL, never its credentials.
func scheme(url string) string {
	if i := strings.Index(url, "://"); i > 0 {
		return url[:i]
	}
	return "unknown"
}
