package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	url     string
	message string
	err     error
}

func (s *recordingSender) Send(url, message string) error {
	s.url = url
	s.message = message
	return s.err
}

func TestNewNotifier_RequiresURL(t *testing.T) {
	_, err := NewNotifier("  ", nil)
	assert.ErrorIs(t, err, ErrNoURL)

	n, err := NewNotifier("generic://example.com", nil)
	require.NoError(t, err)
	assert.IsType(t, ShoutrrrSender{}, n.sender)
}

func TestNotifier_Notify(t *testing.T) {
	sender := &recordingSender{}
	n, err := NewNotifier("ntfy://ntfy.sh/geobadge", sender)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), "Location changed", "DE → FR"))
	assert.Equal(t, "ntfy://ntfy.sh/geobadge", sender.url)
	assert.Equal(t, "Location changed\nDE → FR", sender.message)

	require.NoError(t, n.Notify(context.Background(), "", "only body"))
	assert.Equal(t, "only body", sender.message)
}

func TestNotifier_SendError(t *testing.T) {
	n, err := NewNotifier("ntfy://ntfy.sh/geobadge", &recordingSender{err: errors.New("503")})
	require.NoError(t, err)

	err = n.Notify(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "telegram", scheme("telegram://token@telegram?chats=1"))
	assert.Equal(t, "unknown", scheme("garbage"))
}
