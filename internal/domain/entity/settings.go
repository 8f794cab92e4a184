// Package entity defines domain entities for geobadge.
package entity

import (
	"errors"
	"fmt"
)

// ProviderID selects one of the location backends.
type ProviderID string

const (
	// ProviderFake synthesizes random locations. Debug only.
	ProviderFake ProviderID = "fake"
	// ProviderIPAPI queries ip-api.com over plain HTTP.
	ProviderIPAPI ProviderID = "ip-api"
	// ProviderIPSB queries ip.sb over HTTPS.
	ProviderIPSB ProviderID = "ip-sb"
)

// Providers lists every provider in display order.
func Providers() []ProviderID {
	return []ProviderID{ProviderFake, ProviderIPAPI, ProviderIPSB}
}

// Label returns the human readable name shown by the options surface.
func (p ProviderID) Label() string {
	switch p {
	case ProviderFake:
		return "Random Locations for Debug"
	case ProviderIPAPI:
		return "ip-api.com"
	case ProviderIPSB:
		return "ip.sb"
	default:
		return string(p)
	}
}

// DebugOnly reports whether the provider is hidden unless debug is enabled.
func (p ProviderID) DebugOnly() bool {
	return p == ProviderFake
}

// Valid reports whether p is a known provider.
func (p ProviderID) Valid() bool {
	switch p {
	case ProviderFake, ProviderIPAPI, ProviderIPSB:
		return true
	}
	return false
}

// BadgeMode selects what the badge shows.
type BadgeMode string

const (
	BadgeModeLastUpdateTime BadgeMode = "last-update-time"
	BadgeModeNone           BadgeMode = "none"
	BadgeModeCountryCode    BadgeMode = "country-code"
	BadgeModeCountryFlag    BadgeMode = "country-flag"
	BadgeModeISP            BadgeMode = "isp"
)

// BadgeModes lists every badge mode in display order.
func BadgeModes() []BadgeMode {
	return []BadgeMode{
		BadgeModeLastUpdateTime,
		BadgeModeNone,
		BadgeModeCountryCode,
		BadgeModeCountryFlag,
		BadgeModeISP,
	}
}

// Label returns the human readable name shown by the options surface.
func (m BadgeMode) Label() string {
	switch m {
	case BadgeModeLastUpdateTime:
		return "Last Update Time for Debug"
	case BadgeModeNone:
		return "Nothing"
	case BadgeModeCountryCode:
		return "Country Code"
	case BadgeModeCountryFlag:
		return "Country Flag"
	case BadgeModeISP:
		return "ISP"
	default:
		return string(m)
	}
}

// DebugOnly reports whether the mode is hidden unless debug is enabled.
func (m BadgeMode) DebugOnly() bool {
	return m == BadgeModeLastUpdateTime
}

// Valid reports whether m is a known badge mode.
func (m BadgeMode) Valid() bool {
	switch m {
	case BadgeModeLastUpdateTime, BadgeModeNone, BadgeModeCountryCode, BadgeModeCountryFlag, BadgeModeISP:
		return true
	}
	return false
}

// Settings is the user-editable configuration record.
// Exactly one exists once the daemon has initialized.
type Settings struct {
	DebugEnabled     bool       `mapstructure:"debug_enabled" toml:"debug_enabled" json:"debug_enabled"`
	LocationProvider ProviderID `mapstructure:"location_provider" toml:"location_provider" json:"location_provider" jsonschema:"enum=fake,enum=ip-api,enum=ip-sb"`
	BadgeDisplayMode BadgeMode  `mapstructure:"badge_display_mode" toml:"badge_display_mode" json:"badge_display_mode" jsonschema:"enum=last-update-time,enum=none,enum=country-code,enum=country-flag,enum=isp"`
	BadgeColor       string     `mapstructure:"badge_color" toml:"badge_color" json:"badge_color"`
}

// DefaultSettings returns the record written on first run.
func DefaultSettings() Settings {
	return Settings{
		DebugEnabled:     false,
		LocationProvider: ProviderIPAPI,
		BadgeDisplayMode: BadgeModeCountryCode,
		BadgeColor:       "green",
	}
}

var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks that every enum field holds a known value.
func (s Settings) Validate() error {
	if !s.LocationProvider.Valid() {
		return fmt.Errorf("%w: unknown location provider %q", ErrInvalidSettings, s.LocationProvider)
	}
	if !s.BadgeDisplayMode.Valid() {
		return fmt.Errorf("%w: unknown badge display mode %q", ErrInvalidSettings, s.BadgeDisplayMode)
	}
	return nil
}

// ForDisplay hides debug-only choices when debug is off, falling back to
// the defaults the same way the options page does.
func (s Settings) ForDisplay() Settings {
	if s.DebugEnabled {
		return s
	}
	def := DefaultSettings()
	if s.LocationProvider.DebugOnly() {
		s.LocationProvider = def.LocationProvider
	}
	if s.BadgeDisplayMode.DebugOnly() {
		s.BadgeDisplayMode = def.BadgeDisplayMode
	}
	return s
}
