package settingsui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
)

type fakeLifecycle struct {
	ready  int
	closed int
}

func (f *fakeLifecycle) SettingsReady(context.Context) error  { f.ready++; return nil }
func (f *fakeLifecycle) SettingsClosed(context.Context) error { f.closed++; return nil }

type memStore struct {
	saved   *settings.Settings
	loadErr error
	saveErr error
}

func (s *memStore) Load() (*settings.Settings, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.saved == nil {
		return settings.Default(), nil
	}
	cp := *s.saved
	return &cp, nil
}

func (s *memStore) Save(v *settings.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *v
	s.saved = &cp
	return nil
}

type fakeAutostart struct {
	enabled   bool
	enableErr error
}

func (f *fakeAutostart) Enabled() (bool, error) { return f.enabled, nil }

func (f *fakeAutostart) Enable() error {
	if f.enableErr != nil {
		return f.enableErr
	}
	f.enabled = true
	return nil
}

func (f *fakeAutostart) Disable() error {
	f.enabled = false
	return nil
}

var testInfo = Info{Hotkey: "M-Space", Backend: "json"}

func keyPress(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestInitSendsReady(t *testing.T) {
	lc := &fakeLifecycle{}
	m := New(lc, &memStore{}, &fakeAutostart{}, testInfo)

	msg := m.Init()()
	m.Update(msg)

	assert.Equal(t, 1, lc.ready)
	assert.Zero(t, lc.closed)
}

func TestQuitSendsClosed(t *testing.T) {
	lc := &fakeLifecycle{}
	m := New(lc, &memStore{}, &fakeAutostart{}, testInfo)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.closing)
	assert.Empty(t, m.View())

	assert.Nil(t, m.notifyClosed()())
	assert.Equal(t, 1, lc.closed)
}

func TestToggleShowCompletedPersists(t *testing.T) {
	store := &memStore{}
	m := New(&fakeLifecycle{}, store, &fakeAutostart{}, testInfo)

	m.Update(keyPress(tea.KeyDown))
	m.Update(keyPress(tea.KeyEnter))

	require.NotNil(t, store.saved)
	assert.False(t, store.saved.ShowCompleted)
	assert.Contains(t, m.View(), "Saved")
}

func TestToggleLaunchWithTmuxEditsAutostart(t *testing.T) {
	store := &memStore{}
	auto := &fakeAutostart{}
	m := New(&fakeLifecycle{}, store, auto, testInfo)

	m.Update(keyPress(tea.KeyEnter))

	assert.True(t, auto.enabled)
	require.NotNil(t, store.saved)
	assert.True(t, store.saved.LaunchWithTmux)
	assert.Contains(t, m.View(), "[x] Launch with tmux")
}

func TestAutostartFailureRevertsToggle(t *testing.T) {
	store := &memStore{}
	auto := &fakeAutostart{enableErr: errors.New("read-only file system")}
	m := New(&fakeLifecycle{}, store, auto, testInfo)

	m.Update(keyPress(tea.KeyEnter))

	assert.False(t, m.current.LaunchWithTmux)
	assert.Nil(t, store.saved)
	assert.Contains(t, m.View(), "autostart: read-only file system")
	assert.Contains(t, m.View(), "[ ] Launch with tmux")
}

func TestSaveFailureRevertsAutostart(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	auto := &fakeAutostart{}
	m := New(&fakeLifecycle{}, store, auto, testInfo)

	m.Update(keyPress(tea.KeyEnter))

	assert.False(t, auto.enabled)
	assert.False(t, m.current.LaunchWithTmux)
	assert.Contains(t, m.View(), "save settings: disk full")
}

func TestAutostartStateWinsOverStoredFlag(t *testing.T) {
	store := &memStore{saved: &settings.Settings{Version: 1, LaunchWithTmux: false}}
	m := New(&fakeLifecycle{}, store, &fakeAutostart{enabled: true}, testInfo)

	assert.True(t, m.current.LaunchWithTmux)
}

func TestLoadFailureFallsBackToDefaults(t *testing.T) {
	m := New(&fakeLifecycle{}, &memStore{loadErr: errors.New("bad toml")}, &fakeAutostart{}, testInfo)

	assert.True(t, m.current.ShowCompleted)
	assert.Contains(t, m.View(), "load settings: bad toml")
}

func TestViewListsInfo(t *testing.T) {
	m := New(&fakeLifecycle{}, &memStore{}, &fakeAutostart{}, Info{Hotkey: "M-t", Backend: "sqlite", Socket: "/tmp/qt.sock"})

	view := m.View()
	assert.Contains(t, view, "M-t")
	assert.Contains(t, view, "sqlite")
	assert.Contains(t, view, "/tmp/qt.sock")
}

func TestCursorStaysInRange(t *testing.T) {
	m := New(&fakeLifecycle{}, &memStore{}, &fakeAutostart{}, testInfo)

	m.Update(keyPress(tea.KeyUp))
	assert.Equal(t, itemLaunchWithTmux, m.cursor)
	for i := 0; i < 5; i++ {
		m.Update(keyPress(tea.KeyDown))
	}
	assert.Equal(t, itemCompletedLast, m.cursor)
}
