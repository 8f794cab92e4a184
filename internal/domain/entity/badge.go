package entity

import (
	"fmt"
	"time"
)

// IconKind identifies which icon the surface should display.
type IconKind string

const (
	IconDefault IconKind = "default"
	IconError   IconKind = "error"
	IconFlag    IconKind = "flag"
)

const (
	// BadgeTextIdle is shown while a refresh is in flight.
	BadgeTextIdle = "..."
	// BadgeTextError is shown after a failed refresh.
	BadgeTextError = "✖"

	ispBadgeLength = 5
)

// Badge is the full visual state of the toolbar badge.
// An empty TextColor means the surface default.
type Badge struct {
	Icon        IconKind `json:"icon"`
	CountryCode string   `json:"country_code,omitempty"`
	Text        string   `json:"text"`
	TextColor   string   `json:"text_color,omitempty"`
}

// BuildBadge derives the badge for a location and settings pair.
// It is a pure function: now is only used by the last-update-time mode.
func BuildBadge(record *LocationRecord, settings Settings, now time.Time) Badge {
	badge := Badge{Icon: IconDefault}

	switch settings.BadgeDisplayMode {
	case BadgeModeLastUpdateTime:
		badge.Text = FormatClock(now)
	case BadgeModeNone:
	case BadgeModeCountryCode:
		if record != nil {
			badge.Text = record.CountryCode
		}
		badge.TextColor = settings.BadgeColor
	case BadgeModeCountryFlag:
		if record != nil && record.CountryCode != "" {
			badge.Icon = IconFlag
			badge.CountryCode = record.CountryCode
		}
	case BadgeModeISP:
		if record != nil {
			badge.Text = truncateRunes(record.ISP, ispBadgeLength)
		}
		badge.TextColor = settings.BadgeColor
	}

	return badge
}

// IdleBadge keeps the current icon and shows the in-progress text.
func IdleBadge(current Badge) Badge {
	current.Text = BadgeTextIdle
	return current
}

// ErrorBadge is shown after a failed refresh.
func ErrorBadge() Badge {
	return Badge{Icon: IconError, Text: BadgeTextError}
}

// FormatClock formats t as H:MM in local time.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
