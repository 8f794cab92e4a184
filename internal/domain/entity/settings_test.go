package entity_test

import (
	"testing"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := entity.DefaultSettings()

	assert.False(t, s.DebugEnabled)
	assert.Equal(t, entity.ProviderIPAPI, s.LocationProvider)
	assert.Equal(t, entity.BadgeModeCountryCode, s.BadgeDisplayMode)
	assert.Equal(t, "green", s.BadgeColor)
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	s := entity.DefaultSettings()
	s.LocationProvider = "nope"
	require.ErrorIs(t, s.Validate(), entity.ErrInvalidSettings)

	s = entity.DefaultSettings()
	s.BadgeDisplayMode = "sparkles"
	require.ErrorIs(t, s.Validate(), entity.ErrInvalidSettings)
}

func TestSettings_ForDisplay(t *testing.T) {
	s := entity.Settings{
		LocationProvider: entity.ProviderFake,
		BadgeDisplayMode: entity.BadgeModeLastUpdateTime,
		BadgeColor:       "red",
	}

	hidden := s.ForDisplay()
	assert.Equal(t, entity.ProviderIPAPI, hidden.LocationProvider)
	assert.Equal(t, entity.BadgeModeCountryCode, hidden.BadgeDisplayMode)
	assert.Equal(t, "red", hidden.BadgeColor)

	s.DebugEnabled = true
	assert.Equal(t, s, s.ForDisplay())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Random Locations for Debug", entity.ProviderFake.Label())
	assert.Equal(t, "ip-api.com", entity.ProviderIPAPI.Label())
	assert.Equal(t, "ip.sb", entity.ProviderIPSB.Label())
	assert.Equal(t, "Nothing", entity.BadgeModeNone.Label())
	assert.Equal(t, "Country Flag", entity.BadgeModeCountryFlag.Label())

	for _, p := range entity.Providers() {
		assert.True(t, p.Valid())
	}
	for _, m := range entity.BadgeModes() {
		assert.True(t, m.Valid())
	}
}
