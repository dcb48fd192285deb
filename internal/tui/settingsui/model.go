// Package settingsui is the settings view shown in its own tmux session
// while the daemon holds the regular activation policy.
package settingsui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/errors"
	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/render"
)

const (
	requestTimeout     = 3 * time.Second
	errorClearDuration = 5 * time.Second
)

// Lifecycle reports the view's appearance and closing to the daemon.
type Lifecycle interface {
	SettingsReady(ctx context.Context) error
	SettingsClosed(ctx context.Context) error
}

// Store loads and saves the preferences file.
type Store interface {
	Load() (*settings.Settings, error)
	Save(s *settings.Settings) error
}

// Autostart installs or removes the tmux configuration block.
type Autostart interface {
	Enabled() (bool, error)
	Enable() error
	Disable() error
}

// Info is read-only context listed under the toggles.
type Info struct {
	Hotkey  string
	Backend string
	Socket  string
}

type item int

const (
	itemLaunchWithTmux item = iota
	itemShowCompleted
	itemCompletedLast
	itemCount
)

var itemLabels = [itemCount]string{
	itemLaunchWithTmux: "Launch with tmux",
	itemShowCompleted:  "Show completed tasks",
	itemCompletedLast:  "Completed tasks last",
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Toggle: key.NewBinding(key.WithKeys("enter", " ")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type readySentMsg struct{ err error }

type clearStatusMsg struct{}

// Model is the settings view.
type Model struct {
	lifecycle Lifecycle
	store     Store
	autostart Autostart
	info      Info

	current *settings.Settings
	cursor  item
	closing bool

	errorHandler *errors.TUIHandler
}

// New loads the current preferences. An unreadable file falls back to the
// defaults and the error is shown in the status line.
func New(lifecycle Lifecycle, store Store, autostart Autostart, info Info) *Model {
	m := &Model{
		lifecycle:    lifecycle,
		store:        store,
		autostart:    autostart,
		info:         info,
		errorHandler: errors.NewTUIHandler(nil),
	}
	s, err := store.Load()
	if err != nil {
		m.errorHandler.Error(fmt.Sprintf("load settings: %v", err))
		s = settings.Default()
	}
	if autostart != nil {
		enabled, err := autostart.Enabled()
		if err != nil {
			m.errorHandler.Warning(fmt.Sprintf("read autostart: %v", err))
		} else {
			s.LaunchWithTmux = enabled
		}
	}
	m.current = s
	return m
}

// Init acknowledges appearance. Init commands run once the program owns
// the terminal, so the daemon can move focus here without racing the
// first frame.
func (m *Model) Init() tea.Cmd {
	lifecycle := m.lifecycle
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return readySentMsg{err: lifecycle.SettingsReady(ctx)}
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case readySentMsg:
		if msg.err != nil {
			colors.Debug(fmt.Sprintf("settings ready ack failed: %v", msg.err))
		}
		return m, nil
	case clearStatusMsg:
		m.errorHandler.Clear()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, m.close()
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < itemCount-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			return m, m.toggle(m.cursor)
		}
	}
	return m, nil
}

func (m *Model) value(i item) bool {
	switch i {
	case itemLaunchWithTmux:
		return m.current.LaunchWithTmux
	case itemShowCompleted:
		return m.current.ShowCompleted
	case itemCompletedLast:
		return m.current.CompletedLast
	}
	return false
}

func (m *Model) set(i item, v bool) {
	switch i {
	case itemLaunchWithTmux:
		m.current.LaunchWithTmux = v
	case itemShowCompleted:
		m.current.ShowCompleted = v
	case itemCompletedLast:
		m.current.CompletedLast = v
	}
}

// toggle flips one preference and persists it. A failed side effect
// reverts the toggle so the view never shows a state that did not stick.
func (m *Model) toggle(i item) tea.Cmd {
	previous := m.value(i)
	m.set(i, !previous)

	if i == itemLaunchWithTmux {
		if err := m.applyAutostart(!previous); err != nil {
			m.set(i, previous)
			m.errorHandler.Error(fmt.Sprintf("autostart: %v", err))
			return clearStatusAfter()
		}
	}
	if err := m.store.Save(m.current); err != nil {
		m.set(i, previous)
		if i == itemLaunchWithTmux {
			_ = m.applyAutostart(previous)
		}
		m.errorHandler.Error(fmt.Sprintf("save settings: %v", err))
		return clearStatusAfter()
	}
	m.errorHandler.Success("Saved")
	return clearStatusAfter()
}

func (m *Model) applyAutostart(enable bool) error {
	if m.autostart == nil {
		return fmt.Errorf("not available")
	}
	if enable {
		return m.autostart.Enable()
	}
	return m.autostart.Disable()
}

func (m *Model) close() tea.Cmd {
	m.closing = true
	return tea.Sequence(m.notifyClosed(), tea.Quit)
}

func (m *Model) notifyClosed() tea.Cmd {
	lifecycle := m.lifecycle
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := lifecycle.SettingsClosed(ctx); err != nil {
			colors.Debug(fmt.Sprintf("settings closed notice failed: %v", err))
		}
		return nil
	}
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(errorClearDuration, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// View renders the toggles.
func (m *Model) View() string {
	if m.closing {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick tasks settings"))
	b.WriteString("\n")
	for i := item(0); i < itemCount; i++ {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		check := "[ ]"
		if m.value(i) {
			check = "[x]"
		}
		fmt.Fprintf(&b, "%s %s %s\n", cursor, check, itemLabels[i])
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Hotkey: "), m.info.Hotkey)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Storage:"), m.info.Backend)
	if m.info.Socket != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Socket: "), m.info.Socket)
	}
	b.WriteString("\n")
	if msg, ok := m.errorHandler.Latest(errorClearDuration); ok {
		b.WriteString(render.Message(msg))
	} else {
		b.WriteString(render.Muted("↑/↓ select · enter toggle · q close"))
	}
	return b.String()
}
