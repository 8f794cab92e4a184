package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/bnema/geobadge/internal/infrastructure/surface"
)

// Badge output formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatWaybar = "waybar"
)

// WaybarOutput is one line of a waybar custom module with return-type json.
type WaybarOutput struct {
	Text    string   `json:"text"`
	Alt     string   `json:"alt"`
	Tooltip string   `json:"tooltip"`
	Class   []string `json:"class"`
}

// BadgeText renders a badge as plain text: the flag, then the badge text.
func BadgeText(b entity.Badge) string {
	parts := make([]string, 0, 2)
	if b.Icon == entity.IconFlag {
		if flag := styles.FlagEmoji(b.CountryCode); flag != "" {
			parts = append(parts, flag)
		}
	}
	if b.Text != "" {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}

// Waybar builds the waybar payload for a status.
func Waybar(st control.Status) WaybarOutput {
	out := WaybarOutput{
		Text:  BadgeText(st.Badge),
		Alt:   string(st.Badge.Icon),
		Class: []string{string(st.Badge.Icon)},
	}
	if st.State != "" {
		out.Class = append(out.Class, string(st.State))
	}
	if out.Alt == "" {
		out.Alt = string(entity.IconDefault)
	}

	var tooltip []string
	if loc := st.Location; loc != nil {
		tooltip = append(tooltip,
			loc.IPAddress,
			fmt.Sprintf("%s (%s)", loc.Country, loc.CountryCode),
			loc.Region,
			loc.ISP,
			"updated "+styles.RelativeTime(loc.FetchedAt),
		)
	} else {
		tooltip = append(tooltip, "no location yet")
	}
	if st.LastError != "" {
		tooltip = append(tooltip, "error: "+st.LastError)
	}
	out.Tooltip = strings.Join(tooltip, "\n")
	return out
}

// FormatBadge renders st in one of the badge output formats.
func FormatBadge(format string, st control.Status) (string, error) {
	switch format {
	case FormatText, "":
		return BadgeText(st.Badge), nil
	case FormatJSON:
		data, err := json.Marshal(st.Badge)
		return string(data), err
	case FormatWaybar:
		data, err := json.Marshal(Waybar(st))
		return string(data), err
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or waybar)", format)
	}
}

// StatusFromSurface rebuilds a minimal status from the badge files the daemon
// left behind. Composed flag icons cannot be recovered and show as default.
func StatusFromSurface(state surface.State) control.Status {
	badge := entity.Badge{Icon: entity.IconDefault, Text: state.Text, TextColor: state.TextColor}
	if state.IconPath == port.ErrorIconPath {
		badge.Icon = entity.IconError
	}
	return control.Status{Badge: badge}
}
