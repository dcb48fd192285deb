package panel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

type dismissCall struct {
	reason ports.DismissReason
	token  ports.ClickToken
}

type fakeBackend struct {
	tasks     []domain.Task
	added     []string
	toggled   []string
	deleted   []string
	renamed   map[string]string
	moved     []int
	dismissed []dismissCall
	listErr   error
	addErr    error

	token      ports.ClickToken
	frame      ports.Rect
	surfaceErr error
}

func newFakeBackend(tasks ...domain.Task) *fakeBackend {
	return &fakeBackend{tasks: tasks, renamed: map[string]string{}}
}

func (f *fakeBackend) List(context.Context) ([]domain.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeBackend) Add(_ context.Context, title string) (domain.Task, error) {
	if f.addErr != nil {
		return domain.Task{}, f.addErr
	}
	f.added = append(f.added, title)
	t := domain.Task{ID: "new-" + title, Title: title}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeBackend) ToggleTask(_ context.Context, id string) (domain.Task, error) {
	f.toggled = append(f.toggled, id)
	i := domain.IndexOf(f.tasks, id)
	f.tasks[i].Completed = !f.tasks[i].Completed
	return f.tasks[i], nil
}

func (f *fakeBackend) Rename(_ context.Context, id, title string) (domain.Task, error) {
	f.renamed[id] = title
	i := domain.IndexOf(f.tasks, id)
	f.tasks[i].Title = title
	return f.tasks[i], nil
}

func (f *fakeBackend) Move(_ context.Context, id string, to int) error {
	from := domain.IndexOf(f.tasks, id)
	f.moved = append(f.moved, to)
	f.tasks = domain.Move(f.tasks, from, to)
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, id string) (domain.Task, error) {
	f.deleted = append(f.deleted, id)
	i := domain.IndexOf(f.tasks, id)
	t := f.tasks[i]
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return t, nil
}

func (f *fakeBackend) Dismiss(_ context.Context, reason ports.DismissReason, token ports.ClickToken) error {
	f.dismissed = append(f.dismissed, dismissCall{reason: reason, token: token})
	return nil
}

func (f *fakeBackend) Surface(context.Context) (ports.ClickToken, ports.Rect, error) {
	return f.token, f.frame, f.surfaceErr
}

func task(id, title string, completed bool) domain.Task {
	return domain.Task{ID: id, Title: title, Completed: completed}
}

// newLoaded returns a model that already received its first list.
func newLoaded(t *testing.T, backend *fakeBackend, view domain.ViewOptions) *Model {
	t.Helper()
	m := New(backend, func() domain.ViewOptions { return view })
	m.now = func() time.Time { return time.Time{} }
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m.Update(m.load()())
	return m
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// settle runs an action command and feeds its result plus the reload back
// into the model.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	_, reload := m.Update(cmd())
	require.NotNil(t, reload)
	m.Update(m.load()())
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestEnterAddsTask(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	typeText(m, "  buy milk ")
	settle(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, []string{"buy milk"}, backend.added)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "buy milk")
	assert.Contains(t, m.View(), "1 open")
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	typeText(m, "   ")
	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Empty(t, backend.added)
}

func TestEscDismissesWithCloseKey(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []dismissCall{{reason: ports.ReasonCloseKey}}, backend.dismissed)
}

func TestCtrlCDismissesInsteadOfQuitting(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	msg := cmd()

	_, quit := msg.(tea.QuitMsg)
	assert.False(t, quit)
	assert.Equal(t, []dismissCall{{reason: ports.ReasonCloseKey}}, backend.dismissed)
}

func TestBlurWithoutShowIsNotReported(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	_, cmd := m.Update(tea.BlurMsg{})

	assert.Nil(t, cmd)
	assert.Empty(t, backend.dismissed)
	assert.False(t, m.input.Focused())
}

// shown feeds the model the surface of a show, as a FocusMsg would.
func shown(m *Model, backend *fakeBackend, token ports.ClickToken, frame ports.Rect) {
	backend.token = token
	backend.frame = frame
	m.Update(m.fetchSurface()())
}

func TestBlurCarriesShowToken(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)
	shown(m, backend, 7, ports.Rect{X: 10, Y: 2, Width: 40, Height: 12})

	_, cmd := m.Update(tea.BlurMsg{})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []dismissCall{{reason: ports.ReasonFocusLost, token: 7}}, backend.dismissed)
	assert.False(t, m.input.Focused())
}

func TestOutsideClickDismissesWithToken(t *testing.T) {
	frame := ports.Rect{X: 10, Y: 2, Width: 40, Height: 12}
	tests := []struct {
		name    string
		mouse   tea.MouseMsg
		dismiss bool
	}{
		{"left of frame", tea.MouseMsg{X: 9, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, true},
		{"below frame", tea.MouseMsg{X: 20, Y: 14, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, true},
		{"right button outside", tea.MouseMsg{X: 60, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, true},
		{"top left corner inside", tea.MouseMsg{X: 10, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, false},
		{"bottom right corner inside", tea.MouseMsg{X: 49, Y: 13, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, false},
		{"release outside", tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, false},
		{"motion outside", tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			m := newLoaded(t, backend, domain.DefaultViewOptions)
			shown(m, backend, 3, frame)

			_, cmd := m.Update(tt.mouse)

			if !tt.dismiss {
				assert.Nil(t, cmd)
				assert.Empty(t, backend.dismissed)
				return
			}
			require.NotNil(t, cmd)
			cmd()
			assert.Equal(t, []dismissCall{{reason: ports.ReasonOutsideClick, token: 3}}, backend.dismissed)
		})
	}
}

func TestOutsideClickReportedOncePerShow(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)
	shown(m, backend, 3, ports.Rect{X: 10, Y: 2, Width: 40, Height: 12})
	click := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	_, cmd := m.Update(click)
	require.NotNil(t, cmd)
	cmd()
	_, cmd = m.Update(click)
	assert.Nil(t, cmd)

	// the blur that follows the hide belongs to no show
	_, cmd = m.Update(tea.BlurMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, []dismissCall{{reason: ports.ReasonOutsideClick, token: 3}}, backend.dismissed)
}

func TestClickWithoutFrameDoesNothing(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)
	shown(m, backend, 0, ports.Rect{})

	_, cmd := m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.Nil(t, cmd)
	assert.Empty(t, backend.dismissed)
}

func TestViewDrawsInsideFrame(t *testing.T) {
	backend := newFakeBackend(task("a", "buy milk", false))
	m := newLoaded(t, backend, domain.DefaultViewOptions)
	shown(m, backend, 1, ports.Rect{X: 6, Y: 3, Width: 40, Height: 12})

	lines := strings.Split(m.View(), "\n")

	require.Greater(t, len(lines), 3)
	for _, line := range lines[:3] {
		assert.Empty(t, strings.TrimSpace(line), "rows above the frame are blank")
	}
	assert.True(t, strings.HasPrefix(lines[3], "      "), "frame starts at column 6")
	assert.Contains(t, m.View(), "buy milk")
	assert.Equal(t, 40-len(m.input.Prompt)-1, m.input.Width)
}

func TestSurfaceErrorKeepsFullPopup(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)
	backend.surfaceErr = errors.New("daemon is not running")

	m.Update(m.fetchSurface()())

	assert.Zero(t, m.frame)
	assert.Contains(t, m.View(), "daemon is not running")
}

func TestFocusRefocusesInput(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)
	m.Update(tea.BlurMsg{})

	_, cmd := m.Update(tea.FocusMsg{})

	assert.NotNil(t, cmd)
	assert.True(t, m.input.Focused())
}

func TestCursorToggleAndDelete(t *testing.T) {
	backend := newFakeBackend(task("a", "first", false), task("b", "second", false))
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor, "cursor stops at the last row")

	settle(t, m, press(m, tea.KeyMsg{Type: tea.KeyCtrlX}))
	assert.Equal(t, []string{"b"}, backend.toggled)
	assert.Contains(t, m.View(), "1 open")

	settle(t, m, press(m, tea.KeyMsg{Type: tea.KeyCtrlD}))
	assert.Equal(t, []string{"b"}, backend.deleted)
	assert.Len(t, m.tasks, 1)
	assert.Equal(t, 0, m.cursor, "cursor clamps after the list shrinks")
}

func TestToggleOnEmptyListDoesNothing(t *testing.T) {
	backend := newFakeBackend()
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyCtrlX}))
	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyCtrlD}))
	assert.Contains(t, m.View(), "Nothing to do.")
}

func TestEditRenamesSelectedTask(t *testing.T) {
	backend := newFakeBackend(task("a", "frist", false))
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, "a", m.editing)
	assert.Equal(t, "frist", m.input.Value())
	assert.Contains(t, m.View(), "editing")

	m.input.SetValue("first")
	settle(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, map[string]string{"a": "first"}, backend.renamed)
	assert.Empty(t, backend.added)
	assert.Empty(t, m.editing)
}

func TestEscCancelsEditWithoutDismissing(t *testing.T) {
	backend := newFakeBackend(task("a", "first", false))
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEsc}))

	assert.Empty(t, m.editing)
	assert.Empty(t, m.input.Value())
	assert.Empty(t, backend.dismissed)
}

func TestShiftDownMovesWithinFullList(t *testing.T) {
	backend := newFakeBackend(
		task("a", "first", false),
		task("done", "finished", true),
		task("b", "second", false),
	)
	m := newLoaded(t, backend, domain.ViewOptions{ShowCompleted: false})
	require.Len(t, m.tasks, 2)

	settle(t, m, press(m, tea.KeyMsg{Type: tea.KeyShiftDown}))

	assert.Equal(t, []int{2}, backend.moved, "target index counts hidden tasks")
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, "a", m.tasks[1].ID)
}

func TestShiftUpAtTopDoesNothing(t *testing.T) {
	backend := newFakeBackend(task("a", "first", false))
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyShiftUp}))
	assert.Empty(t, backend.moved)
}

func TestHiddenCompletedPlaceholder(t *testing.T) {
	backend := newFakeBackend(task("done", "finished", true))
	m := newLoaded(t, backend, domain.ViewOptions{ShowCompleted: false})

	assert.Contains(t, m.View(), "1 completed hidden")
}

func TestActionErrorShownInStatusLine(t *testing.T) {
	backend := newFakeBackend()
	backend.addErr = errors.New("disk full")
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	typeText(m, "x")
	settle(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Contains(t, m.View(), "add: disk full")

	m.Update(clearStatusMsg{})
	assert.NotContains(t, m.View(), "disk full")
}

func TestLoadErrorKeepsPreviousList(t *testing.T) {
	backend := newFakeBackend(task("a", "first", false))
	m := newLoaded(t, backend, domain.DefaultViewOptions)

	backend.listErr = errors.New("daemon gone")
	m.Update(m.load()())

	assert.Len(t, m.tasks, 1)
	assert.Contains(t, m.View(), "load tasks: daemon gone")
}
