package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/geobadge/internal/domain/entity"
)

// StatusView is what the popup and the status command display.
type StatusView struct {
	Location  *entity.LocationRecord
	Badge     entity.Badge
	State     entity.RefreshState
	LastError string
	Settings  entity.Settings
	// AlarmNext is zero when no alarm is scheduled.
	AlarmNext time.Time
}

// LocationRenderer renders the location card.
type LocationRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewLocationRenderer creates a location renderer with the given theme.
func NewLocationRenderer(theme *Theme) *LocationRenderer {
	return &LocationRenderer{theme: theme, now: time.Now}
}

// RenderLocation renders the ip/country/region/isp lines.
func (r *LocationRenderer) RenderLocation(record *entity.LocationRecord) string {
	t := r.theme
	if record == nil {
		return t.Subtle.Render("No location yet. Press r to update.")
	}

	country := record.Country
	if flag := FlagEmoji(record.CountryCode); flag != "" {
		country = flag + " " + country
	}

	rows := [][2]string{
		{IconNetwork + " IP", record.IPAddress},
		{IconFlag + " Country", country},
		{IconMarker + " Region", record.Region},
		{IconServer + " ISP", record.ISP},
		{IconClock + " Updated", relativeTime(r.now(), record.FetchedAt)},
	}
	return r.table(rows)
}

// Render renders the full status: header with state, location card and badge preview.
func (r *LocationRenderer) Render(v StatusView) string {
	t := r.theme

	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		t.Title.Render(IconGlobe+" geobadge"),
		"  ",
		t.StateBadge(v.State),
	)

	parts := []string{header, "", r.RenderLocation(v.Location), ""}

	settings := v.Settings.ForDisplay()
	parts = append(parts, r.table([][2]string{
		{"Badge", t.RenderBadge(v.Badge)},
		{"Mode", settings.BadgeDisplayMode.Label()},
		{"Provider", settings.LocationProvider.Label()},
	}))

	if !v.AlarmNext.IsZero() {
		next := v.AlarmNext.Sub(r.now()).Round(time.Second)
		if next < 0 {
			next = 0
		}
		parts = append(parts, t.Subtle.Render(fmt.Sprintf("next check in %s", next)))
	}
	if v.LastError != "" {
		parts = append(parts, "", t.ErrorStyle.Render(IconWarning+" "+v.LastError))
	}

	return strings.Join(parts, "\n")
}

func (r *LocationRenderer) table(rows [][2]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}

	keyStyle := r.theme.Subtle.Width(width + 2)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		val := row[1]
		if val == "" {
			val = r.theme.Subtle.Render("-")
		} else {
			val = r.theme.Normal.Render(val)
		}
		lines = append(lines, keyStyle.Render(row[0])+val)
	}
	return strings.Join(lines, "\n")
}
