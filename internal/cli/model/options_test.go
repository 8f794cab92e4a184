package model

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/entity"
)

type memorySettings struct {
	settings *entity.Settings
	saveErr  error
	saved    []entity.Settings
}

func (s *memorySettings) Get(context.Context) (*entity.Settings, error) {
	return s.settings, nil
}

func (s *memorySettings) Save(_ context.Context, settings *entity.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, *settings)
	cp := *settings
	s.settings = &cp
	return nil
}

func loadedOptions(t *testing.T, store *memorySettings) OptionsModel {
	t.Helper()
	m := NewOptionsModel(context.Background(), styles.NewTheme(), store)
	next, _ := m.Update(m.Init()())
	return next.(OptionsModel)
}

func press(t *testing.T, m OptionsModel, msgs ...tea.KeyMsg) OptionsModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(OptionsModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestOptionsModel_LoadsDefaultsWhenMissing(t *testing.T) {
	m := loadedOptions(t, &memorySettings{})

	assert.Equal(t, entity.DefaultSettings(), m.Settings())
	assert.Contains(t, m.View(), entity.ProviderIPAPI.Label())
}

func TestOptionsModel_HidesDebugOnlyChoices(t *testing.T) {
	store := &memorySettings{settings: &entity.Settings{
		DebugEnabled:     false,
		LocationProvider: entity.ProviderFake,
		BadgeDisplayMode: entity.BadgeModeLastUpdateTime,
		BadgeColor:       "red",
	}}
	m := loadedOptions(t, store)

	got := m.Settings()
	assert.Equal(t, entity.ProviderIPAPI, got.LocationProvider)
	assert.Equal(t, entity.BadgeModeCountryCode, got.BadgeDisplayMode)
	assert.Equal(t, "red", got.BadgeColor)

	// cycling providers without debug never lands on the fake one
	m = press(t, m, keyDown)
	for range 4 {
		m = press(t, m, keyRight)
		assert.NotEqual(t, entity.ProviderFake, m.Settings().LocationProvider)
	}
}

func TestOptionsModel_DebugToggleNormalizes(t *testing.T) {
	m := loadedOptions(t, &memorySettings{})

	m = press(t, m, keySpace)
	require.True(t, m.Settings().DebugEnabled)

	// with debug on the fake provider becomes reachable
	m = press(t, m, keyDown, keyRight, keyRight)
	assert.Equal(t, entity.ProviderFake, m.Settings().LocationProvider)

	// turning debug off falls back to the default provider
	m.setFocus(fieldDebug)
	m = press(t, m, keySpace)
	assert.False(t, m.Settings().DebugEnabled)
	assert.Equal(t, entity.ProviderIPAPI, m.Settings().LocationProvider)
}

func TestOptionsModel_SaveShowsStatus(t *testing.T) {
	store := &memorySettings{}
	m := loadedOptions(t, store)

	m = press(t, m, keyDown, keyDown, keyRight)
	next, cmd := m.Update(keyEnter)
	m = next.(OptionsModel)
	require.NotNil(t, cmd)

	next, tick := m.Update(cmd())
	m = next.(OptionsModel)
	require.NotNil(t, tick)

	require.Len(t, store.saved, 1)
	assert.Equal(t, entity.BadgeModeCountryFlag, store.saved[0].BadgeDisplayMode)
	assert.Equal(t, "Saved", m.status)
	assert.Contains(t, m.View(), "Saved")

	// a stale clear from an earlier save leaves the status alone
	next, _ = m.Update(clearStatusMsg{seq: m.statusSeq - 1})
	m = next.(OptionsModel)
	assert.Equal(t, "Saved", m.status)

	next, _ = m.Update(clearStatusMsg{seq: m.statusSeq})
	m = next.(OptionsModel)
	assert.Empty(t, m.status)
}

func TestOptionsModel_SaveError(t *testing.T) {
	store := &memorySettings{saveErr: errors.New("disk full")}
	m := loadedOptions(t, store)

	_, cmd := m.Update(keyEnter)
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(OptionsModel)

	assert.Empty(t, m.status)
	assert.Contains(t, m.View(), "disk full")
}

func TestOptionsModel_ColorInput(t *testing.T) {
	store := &memorySettings{}
	m := loadedOptions(t, store)

	m = press(t, m, keyDown, keyDown, keyDown)
	require.Equal(t, fieldColor, m.focus)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE}, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("#ff8800")})
	assert.Equal(t, "#ff8800", m.Settings().BadgeColor)
}
