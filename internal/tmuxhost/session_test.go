package tmuxhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnv = map[string]string{SocketEnv: testSocket}

func TestSettingsRootReady(t *testing.T) {
	h, m := newTestHost(t)
	m.On("GetSessionEnvironment", DefaultRootSession, SocketEnv).Return(testSocket, nil).Once()
	m.On("GetSessionEnvironment", DefaultRootSession, SocketEnv).Return("", nil).Once()

	s := h.SettingsSession()
	assert.True(t, s.RootReady())
	assert.False(t, s.RootReady())
}

func TestSettingsOpen(t *testing.T) {
	h, m := newTestHost(t)
	m.On("GetSessionEnvironment", DefaultRootSession, SocketEnv).Return(testSocket, nil)
	m.On("NewDetachedSession", DefaultSettingsSession, SettingsWindow, testEnv, []string{testExe, "settings-ui"}).Return(nil)
	m.On("Run", []string{"set-option", "-t", "=_quicktask_settings", "status", "off"}).Return("", "", nil)
	m.On("Run", []string{"set-option", "-t", "=_quicktask_settings", "detach-on-destroy", "off"}).Return("", "", nil)

	require.NoError(t, h.SettingsSession().Open())
	m.AssertExpectations(t)
}

func TestSettingsBringToFrontAndClose(t *testing.T) {
	h, m := newTestHost(t)
	m.On("HasNamedSession", DefaultSettingsSession).Return(true, nil)
	m.On("SelectPane", "=_quicktask_settings:settings", "").Return(nil)
	m.On("KillSession", DefaultSettingsSession).Return(nil)

	s := h.SettingsSession()
	assert.True(t, s.Exists())
	require.NoError(t, s.BringToFront())
	require.NoError(t, s.Close())
	m.AssertExpectations(t)
}

func TestRootEnsureCreates(t *testing.T) {
	h, m := newTestHost(t)
	m.On("HasNamedSession", DefaultRootSession).Return(false, nil)
	m.On("NewDetachedSession", DefaultRootSession, PanelWindow, testEnv, []string{testExe, "panel"}).Return(nil)
	m.On("SetSessionEnvironment", DefaultRootSession, SocketEnv, testSocket).Return(nil)
	m.On("Run", []string{"set-option", "-t", "=_quicktask", "status", "off"}).Return("", "", nil)
	m.On("SetGlobalOption", "focus-events", "on").Return(nil)

	require.NoError(t, h.RootSession().Ensure())
	m.AssertExpectations(t)
}

func TestRootEnsureRespawnsPanel(t *testing.T) {
	h, m := newTestHost(t)
	m.On("HasNamedSession", DefaultRootSession).Return(true, nil)
	m.On("SetSessionEnvironment", DefaultRootSession, SocketEnv, testSocket).Return(nil)
	m.On("Run", []string{"list-windows", "-t", "=_quicktask", "-F", "#{window_name}"}).Return("scratch\n", "", nil)
	m.On("Run", []string{"new-window", "-d", "-t", "=_quicktask:", "-n", PanelWindow, testExe, "panel"}).Return("", "", nil)
	m.On("Run", []string{"set-option", "-t", "=_quicktask", "status", "off"}).Return("", "", nil)
	m.On("SetGlobalOption", "focus-events", "on").Return(nil)

	require.NoError(t, h.RootSession().Ensure())
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "NewDetachedSession", DefaultRootSession, PanelWindow, testEnv, []string{testExe, "panel"})
}

func TestRootKill(t *testing.T) {
	h, m := newTestHost(t)
	m.On("KillSession", DefaultSettingsSession).Return(nil)
	m.On("KillSession", DefaultRootSession).Return(assert.AnError)

	assert.ErrorIs(t, h.RootSession().Kill(), assert.AnError)
	m.AssertExpectations(t)
}
