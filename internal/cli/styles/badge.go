package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/geobadge/internal/domain/entity"
)

// namedColors maps the CSS color names users commonly put in badge_color.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"lime":   "#00ff00",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"purple": "#800080",
	"gray":   "#808080",
	"grey":   "#808080",
	"cyan":   "#00ffff",
	"pink":   "#ffc0cb",
}

// BadgeColor resolves a badge text color to a terminal color.
// Hex values pass through; unknown names fall back to fallback.
func BadgeColor(name string, fallback lipgloss.Color) lipgloss.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name)
	}
	if hex, ok := namedColors[name]; ok {
		return lipgloss.Color(hex)
	}
	return fallback
}

// FlagEmoji turns a two letter country code into its regional indicator pair.
func FlagEmoji(countryCode string) string {
	cc := strings.ToUpper(countryCode)
	if len(cc) != 2 || cc[0] < 'A' || cc[0] > 'Z' || cc[1] < 'A' || cc[1] > 'Z' {
		return ""
	}
	const base = 0x1F1E6
	return string([]rune{rune(base + int(cc[0]-'A')), rune(base + int(cc[1]-'A'))})
}

// BadgeIcon renders the icon part of a badge.
func (t *Theme) BadgeIcon(b entity.Badge) string {
	switch b.Icon {
	case entity.IconError:
		return t.ErrorStyle.Render(IconX)
	case entity.IconFlag:
		if flag := FlagEmoji(b.CountryCode); flag != "" {
			return flag
		}
	}
	return lipgloss.NewStyle().Foreground(t.Accent).Render(IconGlobe)
}

// RenderBadge renders the icon and text the way the toolbar would show them.
func (t *Theme) RenderBadge(b entity.Badge) string {
	icon := t.BadgeIcon(b)
	if b.Text == "" {
		return icon
	}

	style := t.BadgeMuted
	switch {
	case b.Icon == entity.IconError:
		style = t.Badge.Background(t.Error)
	case b.TextColor != "":
		style = t.BadgeMuted.Foreground(BadgeColor(b.TextColor, t.Text))
	}
	return icon + " " + style.Render(b.Text)
}

// StateBadge renders the refresh state.
func (t *Theme) StateBadge(state entity.RefreshState) string {
	switch state {
	case entity.RefreshStateRefreshing:
		return t.StatusBadge(IconSync+" refreshing", t.Background, t.Warning)
	case entity.RefreshStateError:
		return t.StatusBadge(IconWarning+" error", t.Text, t.Error)
	default:
		return t.StatusBadge(IconCheck+" idle", t.Background, t.Accent)
	}
}

// StatusBadge renders a status badge with custom colors.
func (t *Theme) StatusBadge(text string, fg, bg lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1)
	return style.Render(text)
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	return relativeTime(time.Now(), tm)
}

func relativeTime(now, tm time.Time) string {
	diff := now.Sub(tm)

	switch {
	case tm.IsZero():
		return "never"
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
