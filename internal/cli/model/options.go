package model

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/entity"
)

// SavedStatusDuration is how long the "Saved" status stays visible.
const SavedStatusDuration = 2 * time.Second

// SettingsStore is where the options form reads and writes settings.
type SettingsStore interface {
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
}

type optionsField int

const (
	fieldDebug optionsField = iota
	fieldProvider
	fieldBadgeMode
	fieldColor
	fieldCount
)

// OptionsModel edits the user settings.
type OptionsModel struct {
	ctx   context.Context
	store SettingsStore

	theme *styles.Theme
	keys  styles.OptionsKeyMap
	help  help.Model
	color textinput.Model

	debug    bool
	provider entity.ProviderID
	mode     entity.BadgeMode
	focus    optionsField

	loaded    bool
	status    string
	statusSeq int
	err       error
}

// NewOptionsModel creates the options form.
func NewOptionsModel(ctx context.Context, theme *styles.Theme, store SettingsStore) OptionsModel {
	return OptionsModel{
		ctx:   ctx,
		store: store,
		theme: theme,
		keys:  styles.DefaultOptionsKeyMap(),
		help:  styles.NewStyledHelp(theme),
		color: styles.NewColorInput(theme),
	}
}

type (
	settingsLoadedMsg struct {
		settings entity.Settings
		err      error
	}
	settingsSavedMsg struct {
		err error
	}
	clearStatusMsg struct {
		seq int
	}
)

// Init implements tea.Model.
func (m OptionsModel) Init() tea.Cmd {
	return func() tea.Msg {
		settings, err := m.store.Get(m.ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		if settings == nil {
			return settingsLoadedMsg{settings: entity.DefaultSettings()}
		}
		return settingsLoadedMsg{settings: *settings}
	}
}

// Update implements tea.Model.
func (m OptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.load(msg.settings)
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "Saved"
		m.statusSeq++
		seq := m.statusSeq
		return m, tea.Tick(SavedStatusDuration, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if !m.loaded {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m OptionsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.Up):
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	}

	switch m.focus {
	case fieldDebug:
		if key.Matches(msg, m.keys.Toggle, m.keys.Left, m.keys.Right) {
			m.setDebug(!m.debug)
		}
	case fieldProvider:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.provider = cycle(m.visibleProviders(), m.provider, -1)
		case key.Matches(msg, m.keys.Right, m.keys.Toggle):
			m.provider = cycle(m.visibleProviders(), m.provider, 1)
		}
	case fieldBadgeMode:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.mode = cycle(m.visibleModes(), m.mode, -1)
		case key.Matches(msg, m.keys.Right, m.keys.Toggle):
			m.mode = cycle(m.visibleModes(), m.mode, 1)
		}
	case fieldColor:
		var cmd tea.Cmd
		m.color, cmd = m.color.Update(msg)
		return m, cmd
	}
	return m, nil
}

// load fills the form, hiding debug-only choices when debug is off.
func (m *OptionsModel) load(settings entity.Settings) {
	settings = settings.ForDisplay()
	m.debug = settings.DebugEnabled
	m.provider = settings.LocationProvider
	m.mode = settings.BadgeDisplayMode
	m.color.SetValue(settings.BadgeColor)
}

func (m *OptionsModel) setDebug(enabled bool) {
	m.debug = enabled
	normalized := m.Settings().ForDisplay()
	m.provider = normalized.LocationProvider
	m.mode = normalized.BadgeDisplayMode
}

func (m *OptionsModel) setFocus(f optionsField) {
	m.focus = f
	if f == fieldColor {
		m.color.Focus()
	} else {
		m.color.Blur()
	}
}

// Settings returns the settings currently shown by the form.
func (m OptionsModel) Settings() entity.Settings {
	return entity.Settings{
		DebugEnabled:     m.debug,
		LocationProvider: m.provider,
		BadgeDisplayMode: m.mode,
		BadgeColor:       strings.TrimSpace(m.color.Value()),
	}
}

func (m OptionsModel) save() tea.Cmd {
	settings := m.Settings()
	return func() tea.Msg {
		if err := settings.Validate(); err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{err: m.store.Save(m.ctx, &settings)}
	}
}

func (m OptionsModel) visibleProviders() []entity.ProviderID {
	return visible(entity.Providers(), m.debug, entity.ProviderID.DebugOnly)
}

func (m OptionsModel) visibleModes() []entity.BadgeMode {
	return visible(entity.BadgeModes(), m.debug, entity.BadgeMode.DebugOnly)
}

func visible[T any](all []T, debug bool, debugOnly func(T) bool) []T {
	if debug {
		return all
	}
	return slices.DeleteFunc(all, debugOnly)
}

func cycle[T comparable](choices []T, current T, step int) T {
	if len(choices) == 0 {
		return current
	}
	i := slices.Index(choices, current)
	if i < 0 {
		return choices[0]
	}
	return choices[(i+step+len(choices))%len(choices)]
}

// View implements tea.Model.
func (m OptionsModel) View() string {
	t := m.theme

	if !m.loaded {
		return t.Box.Render(t.Loading(styles.NewSpinner(t, spinner.Dot), "Loading settings..."))
	}

	debugBox := styles.IconCheckboxEmpty
	if m.debug {
		debugBox = styles.IconCheckboxChecked
	}

	rows := []string{
		m.row(fieldDebug, "Debug", debugBox+" enable debug options"),
		m.row(fieldProvider, "Location provider", "‹ "+m.provider.Label()+" ›"),
		m.row(fieldBadgeMode, "Badge", "‹ "+m.mode.Label()+" ›"),
		m.row(fieldColor, "Badge color", m.color.View()),
	}

	parts := []string{
		t.BoxHeader.Render(styles.IconConfig + " geobadge options"),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
	}
	switch {
	case m.err != nil:
		parts = append(parts, t.ErrorStyle.Render("Error: "+m.err.Error()))
	case m.status != "":
		parts = append(parts, t.SuccessStyle.Render(styles.IconCheck+" "+m.status))
	default:
		parts = append(parts, "")
	}
	parts = append(parts, "", m.help.View(m.keys))

	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m OptionsModel) row(f optionsField, label, value string) string {
	t := m.theme
	labelStyle := t.Subtle.Width(20)
	if f == m.focus {
		return t.HelpKey.Render(styles.IconCursor+" ") + labelStyle.Foreground(t.Accent).Render(label) + t.Highlight.Render(value)
	}
	return "  " + labelStyle.Render(label) + t.Normal.Render(value)
}

// Ensure interface compliance.
var _ tea.Model = (*OptionsModel)(nil)
