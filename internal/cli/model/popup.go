package model

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/infrastructure/control"
)

// PopupBackend is the part of the daemon client the popup uses.
type PopupBackend interface {
	Status(ctx context.Context) (control.Status, error)
	SendMessage(ctx context.Context, message string) (control.Status, error)
	Subscribe(ctx context.Context) (<-chan control.Frame, error)
}

// PopupModel shows the last known location and can force an update.
type PopupModel struct {
	ctx     context.Context
	backend PopupBackend

	theme    *styles.Theme
	renderer *styles.LocationRenderer
	keys     styles.PopupKeyMap
	help     help.Model
	spinner  spinner.Model

	view     styles.StatusView
	frames   <-chan control.Frame
	loaded   bool
	updating bool
	live     bool
	err      error

	// OpenOptions is set when the user asked for the options form.
	OpenOptions bool
}

// NewPopupModel creates the popup model.
func NewPopupModel(ctx context.Context, theme *styles.Theme, backend PopupBackend) PopupModel {
	return PopupModel{
		ctx:      ctx,
		backend:  backend,
		theme:    theme,
		renderer: styles.NewLocationRenderer(theme),
		keys:     styles.DefaultPopupKeyMap(),
		help:     styles.NewStyledHelp(theme),
		spinner:  styles.NewSpinner(theme, spinner.Globe),
	}
}

// ViewFromStatus converts a daemon status into what the renderers display.
func ViewFromStatus(st control.Status) styles.StatusView {
	v := styles.StatusView{
		Location:  st.Location,
		Badge:     st.Badge,
		State:     st.State,
		LastError: st.LastError,
		Settings:  st.Settings,
	}
	if st.Alarm != nil {
		v.AlarmNext = st.Alarm.ScheduledTime
	}
	return v
}

type (
	statusMsg struct {
		status control.Status
		err    error
	}
	updateDoneMsg struct {
		status control.Status
		err    error
	}
	subscribedMsg struct {
		frames <-chan control.Frame
		err    error
	}
	frameMsg struct {
		frame control.Frame
	}
	streamClosedMsg struct{}
)

// Init implements tea.Model.
func (m PopupModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus(), m.subscribe(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m PopupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.view = ViewFromStatus(msg.status)
		}
		return m, nil

	case updateDoneMsg:
		m.updating = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m.Update(statusMsg{status: msg.status})

	case subscribedMsg:
		if msg.err != nil {
			// Without the stream the popup still works, it just doesn't follow changes.
			return m, nil
		}
		m.frames = msg.frames
		m.live = true
		return m, waitForFrame(m.frames)

	case frameMsg:
		m.applyFrame(msg.frame)
		return m, waitForFrame(m.frames)

	case streamClosedMsg:
		m.live = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Options):
			m.OpenOptions = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Update):
			if m.updating {
				return m, nil
			}
			m.updating = true
			m.err = nil
			return m, m.sendUpdate()
		}
	}

	return m, nil
}

func (m *PopupModel) applyFrame(frame control.Frame) {
	switch frame.Type {
	case control.FrameStatus:
		var st control.Status
		if json.Unmarshal(frame.Payload, &st) == nil {
			m.loaded = true
			m.view = ViewFromStatus(st)
		}
	case control.FrameLocation:
		var record entity.LocationRecord
		if json.Unmarshal(frame.Payload, &record) == nil {
			m.view.Location = &record
		}
	case control.FrameBadge:
		var badge entity.Badge
		if json.Unmarshal(frame.Payload, &badge) == nil {
			m.view.Badge = badge
		}
	case control.FrameState:
		var state control.StatePayload
		if json.Unmarshal(frame.Payload, &state) == nil {
			m.view.State = state.State
			m.view.LastError = state.LastError
		}
	}
}

func (m PopupModel) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := m.backend.Status(m.ctx)
		return statusMsg{status: st, err: err}
	}
}

func (m PopupModel) subscribe() tea.Cmd {
	return func() tea.Msg {
		frames, err := m.backend.Subscribe(m.ctx)
		return subscribedMsg{frames: frames, err: err}
	}
}

func (m PopupModel) sendUpdate() tea.Cmd {
	return func() tea.Msg {
		st, err := m.backend.SendMessage(m.ctx, entity.MessageUpdate)
		return updateDoneMsg{status: st, err: err}
	}
}

func waitForFrame(frames <-chan control.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return streamClosedMsg{}
		}
		return frameMsg{frame: f}
	}
}

// View implements tea.Model.
func (m PopupModel) View() string {
	t := m.theme

	if !m.loaded {
		return t.Box.Render(t.Loading(m.spinner, "Connecting to geobadge..."))
	}

	parts := []string{m.renderer.Render(m.view)}

	if m.updating || m.view.State == entity.RefreshStateRefreshing {
		parts = append(parts, "", t.Loading(m.spinner, "Updating..."))
	}
	if m.err != nil {
		parts = append(parts, "", t.ErrorStyle.Render("Error: "+m.err.Error()))
	}
	if !m.live {
		parts = append(parts, "", t.WarningStyle.Render(styles.IconWarning+" not following live changes"))
	}
	parts = append(parts, "", m.help.View(m.keys))

	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Ensure interface compliance.
var _ tea.Model = (*PopupModel)(nil)
