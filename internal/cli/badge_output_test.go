package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/bnema/geobadge/internal/infrastructure/surface"
)

func TestBadgeText(t *testing.T) {
	tests := []struct {
		name  string
		badge entity.Badge
		want  string
	}{
		{name: "empty", badge: entity.Badge{Icon: entity.IconDefault}, want: ""},
		{name: "text only", badge: entity.Badge{Icon: entity.IconDefault, Text: "FR"}, want: "FR"},
		{name: "flag only", badge: entity.Badge{Icon: entity.IconFlag, CountryCode: "FR"}, want: "\U0001F1EB\U0001F1F7"},
		{name: "flag and text", badge: entity.Badge{Icon: entity.IconFlag, CountryCode: "de", Text: "1:05"}, want: "\U0001F1E9\U0001F1EA 1:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BadgeText(tt.badge))
		})
	}
}

func TestFormatBadge_Waybar(t *testing.T) {
	st := control.Status{
		StatePayload: control.StatePayload{State: entity.RefreshStateError, LastError: "timeout"},
		Location: &entity.LocationRecord{
			IPAddress:   "203.0.113.9",
			Country:     "France",
			CountryCode: "FR",
			Region:      "Brittany",
			ISP:         "Example",
			FetchedAt:   time.Now(),
		},
		Badge: entity.Badge{Icon: entity.IconDefault, Text: "FR"},
	}

	line, err := FormatBadge(FormatWaybar, st)
	require.NoError(t, err)

	var out WaybarOutput
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	assert.Equal(t, "FR", out.Text)
	assert.Equal(t, string(entity.IconDefault), out.Alt)
	assert.Equal(t, []string{string(entity.IconDefault), string(entity.RefreshStateError)}, out.Class)
	assert.Contains(t, out.Tooltip, "203.0.113.9")
	assert.Contains(t, out.Tooltip, "France (FR)")
	assert.Contains(t, out.Tooltip, "error: timeout")
}

func TestFormatBadge_WaybarWithoutLocation(t *testing.T) {
	out := Waybar(control.Status{})
	assert.Equal(t, string(entity.IconDefault), out.Alt)
	assert.Equal(t, "no location yet", out.Tooltip)
}

func TestFormatBadge_JSONAndUnknown(t *testing.T) {
	st := control.Status{Badge: entity.Badge{Icon: entity.IconFlag, CountryCode: "IT", Text: "IT"}}

	line, err := FormatBadge(FormatJSON, st)
	require.NoError(t, err)
	var badge entity.Badge
	require.NoError(t, json.Unmarshal([]byte(line), &badge))
	assert.Equal(t, st.Badge, badge)

	_, err = FormatBadge("xml", st)
	assert.Error(t, err)
}

func TestStatusFromSurface(t *testing.T) {
	st := StatusFromSurface(surface.State{IconPath: port.ErrorIconPath, Text: "ERR", TextColor: "red"})
	assert.Equal(t, entity.IconError, st.Badge.Icon)
	assert.Equal(t, "ERR", st.Badge.Text)
	assert.Equal(t, "red", st.Badge.TextColor)

	st = StatusFromSurface(surface.State{IconFile: "badge.png", Text: "FR"})
	assert.Equal(t, entity.IconDefault, st.Badge.Icon)
}
