// Package panel is the overlay content: a text field to capture a task and
// the list below it. It runs for the daemon's lifetime inside the hidden
// session; the popup only attaches to it.
package panel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/errors"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/render"
)

const (
	title              = "Quick tasks"
	requestTimeout     = 3 * time.Second
	errorClearDuration = 5 * time.Second
	// chrome is the header, input, blank line, status and help lines.
	chrome = 5
)

// Backend is the daemon API the panel needs; ipc.Client implements it.
type Backend interface {
	List(ctx context.Context) ([]domain.Task, error)
	Add(ctx context.Context, title string) (domain.Task, error)
	ToggleTask(ctx context.Context, id string) (domain.Task, error)
	Rename(ctx context.Context, id, title string) (domain.Task, error)
	Move(ctx context.Context, id string, to int) error
	Delete(ctx context.Context, id string) (domain.Task, error)
	Dismiss(ctx context.Context, reason ports.DismissReason, token ports.ClickToken) error
	// Surface returns the token of the current show and where the panel
	// sits inside the popup; a zero frame means the whole popup.
	Surface(ctx context.Context) (ports.ClickToken, ports.Rect, error)
}

type surfaceMsg struct {
	token ports.ClickToken
	frame ports.Rect
	err   error
}

type tasksLoadedMsg struct {
	tasks []domain.Task
	view  domain.ViewOptions
	err   error
}

type actionDoneMsg struct {
	action string
	err    error
}

type clearStatusMsg struct{}

// Model is the panel's bubbletea model.
type Model struct {
	backend  Backend
	viewFunc func() domain.ViewOptions
	view     domain.ViewOptions
	now      func() time.Time

	input textinput.Model
	keys  keyMap
	help  help.Model

	all     []domain.Task
	tasks   []domain.Task
	cursor  int
	editing string

	errorHandler *errors.TUIHandler
	// width and height are the popup size; frame is the panel inside it.
	width  int
	height int
	frame  ports.Rect
	token  ports.ClickToken
}

// New creates the panel model. view is consulted on every reload so
// settings changes apply the next time the overlay shows; nil means
// domain.DefaultViewOptions.
func New(backend Backend, view func() domain.ViewOptions) *Model {
	if view == nil {
		view = func() domain.ViewOptions { return domain.DefaultViewOptions }
	}
	in := textinput.New()
	in.Placeholder = "What needs doing?"
	in.Prompt = "+ "
	in.CharLimit = 500
	in.Focus()
	return &Model{
		backend:      backend,
		viewFunc:     view,
		view:         domain.DefaultViewOptions,
		now:          time.Now,
		input:        in,
		keys:         defaultKeyMap(),
		help:         help.New(),
		errorHandler: errors.NewTUIHandler(nil),
	}
}

// Init loads the list and turns on mouse reporting, which is how clicks
// outside the frame are seen.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnableMouseCellMotion, m.load(), m.fetchSurface())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.FocusMsg:
		// every show lands here: fresh list, caret in the field, and the
		// frame and token of this show
		return m, tea.Batch(m.input.Focus(), m.load(), m.fetchSurface())
	case tea.BlurMsg:
		m.input.Blur()
		return m, m.dismiss(ports.ReasonFocusLost)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case surfaceMsg:
		if msg.err != nil {
			m.errorHandler.Warning(fmt.Sprintf("overlay frame: %v", msg.err))
			return m, clearStatusAfter()
		}
		m.token = msg.token
		m.frame = msg.frame
		m.layout()
		return m, nil
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && m.outside(msg.X, msg.Y) {
			return m, m.dismiss(ports.ReasonOutsideClick)
		}
		return m, nil
	case tasksLoadedMsg:
		if msg.err != nil {
			m.errorHandler.Error(fmt.Sprintf("load tasks: %v", msg.err))
			return m, clearStatusAfter()
		}
		m.view = msg.view
		m.setTasks(msg.tasks)
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.errorHandler.Error(fmt.Sprintf("%s: %v", msg.action, msg.err))
			return m, tea.Batch(m.load(), clearStatusAfter())
		}
		return m, m.load()
	case clearStatusMsg:
		m.errorHandler.Clear()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// size is the area the panel draws in.
func (m *Model) size() (int, int) {
	if m.frame.Width > 0 && m.frame.Height > 0 {
		return m.frame.Width, m.frame.Height
	}
	return m.width, m.height
}

func (m *Model) layout() {
	w, _ := m.size()
	m.input.Width = max(w-len(m.input.Prompt)-1, 1)
	m.help.Width = w
}

// outside reports whether a click at x, y missed the frame. Without a
// known frame the panel fills the popup and nothing is outside.
func (m *Model) outside(x, y int) bool {
	f := m.frame
	if f.Width <= 0 || f.Height <= 0 || m.token == 0 {
		return false
	}
	return x < f.X || x >= f.X+f.Width || y < f.Y || y >= f.Y+f.Height
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		if m.editing != "" {
			m.stopEditing()
			return m, nil
		}
		return m, m.dismiss(ports.ReasonCloseKey)
	case key.Matches(msg, m.keys.Add):
		return m, m.submit()
	case key.Matches(msg, m.keys.MoveUp):
		return m, m.move(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m, m.move(1)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			return m, m.do("toggle", func(ctx context.Context) error {
				_, err := m.backend.ToggleTask(ctx, t.ID)
				return err
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m, m.do("delete", func(ctx context.Context) error {
				_, err := m.backend.Delete(ctx, t.ID)
				return err
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.editing = t.ID
			m.input.SetValue(t.Title)
			m.input.CursorEnd()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit adds a task, or renames the one being edited.
func (m *Model) submit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return nil
	}
	m.input.Reset()
	if id := m.editing; id != "" {
		m.editing = ""
		return m.do("rename", func(ctx context.Context) error {
			_, err := m.backend.Rename(ctx, id, value)
			return err
		})
	}
	return m.do("add", func(ctx context.Context) error {
		_, err := m.backend.Add(ctx, value)
		return err
	})
}

// move shifts the selected task by delta within the full list, so hidden
// completed tasks keep their place.
func (m *Model) move(delta int) tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	target := m.cursor + delta
	if target < 0 || target >= len(m.tasks) {
		return nil
	}
	to := domain.IndexOf(m.all, m.tasks[target].ID)
	m.cursor = target
	return m.do("move", func(ctx context.Context) error {
		return m.backend.Move(ctx, t.ID, to)
	})
}

func (m *Model) stopEditing() {
	m.editing = ""
	m.input.Reset()
}

func (m *Model) selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return domain.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) setTasks(tasks []domain.Task) {
	m.all = tasks
	m.tasks = domain.Arrange(tasks, m.view)
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.editing != "" && domain.IndexOf(tasks, m.editing) < 0 {
		m.stopEditing()
	}
}

func (m *Model) load() tea.Cmd {
	backend, viewFunc := m.backend, m.viewFunc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := backend.List(ctx)
		return tasksLoadedMsg{tasks: tasks, view: viewFunc(), err: err}
	}
}

func (m *Model) fetchSurface() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		token, frame, err := backend.Surface(ctx)
		return surfaceMsg{token: token, frame: frame, err: err}
	}
}

func (m *Model) do(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

// dismiss asks the daemon to hide the overlay; the panel never hides
// itself. Focus loss and outside clicks name the show they belong to, so
// a late report cannot hide the next one; without a show there is nothing
// to report. The token is dropped once used.
func (m *Model) dismiss(reason ports.DismissReason) tea.Cmd {
	var token ports.ClickToken
	if reason == ports.ReasonFocusLost || reason == ports.ReasonOutsideClick {
		token = m.token
		m.token = 0
		if token == 0 {
			return nil
		}
	}
	return m.do("dismiss", func(ctx context.Context) error {
		return m.backend.Dismiss(ctx, reason, token)
	})
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(errorClearDuration, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// View renders the panel at its frame inside the popup.
func (m *Model) View() string {
	content := m.content()
	if m.frame.X == 0 && m.frame.Y == 0 {
		return content
	}
	return lipgloss.NewStyle().MarginLeft(m.frame.X).MarginTop(m.frame.Y).Render(content)
}

func (m *Model) content() string {
	width, height := m.size()
	var b strings.Builder
	b.WriteString(render.Header(title, domain.IncompleteCount(m.all), width))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := height - chrome
	if height == 0 {
		rows = len(m.tasks)
	}
	if len(m.tasks) == 0 {
		b.WriteString(render.Empty(len(m.all) - len(m.tasks)))
		b.WriteString("\n")
	}
	start := 0
	if rows > 0 && m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	now := m.now()
	for i := start; i < len(m.tasks) && i-start < rows; i++ {
		b.WriteString(render.Row(render.RowState{
			Task:     m.tasks[i],
			Width:    width,
			Selected: i == m.cursor,
			Now:      now,
		}))
		b.WriteString("\n")
	}

	if msg, ok := m.errorHandler.Latest(errorClearDuration); ok {
		b.WriteString(render.Message(msg))
	} else if m.editing != "" {
		b.WriteString(render.Muted("editing: enter saves, esc cancels"))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
