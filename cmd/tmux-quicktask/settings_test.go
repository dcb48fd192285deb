package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
)

type fakeSettingsClient struct {
	opened  int
	openErr error
	resets  int
	current *settings.Settings
}

func (f *fakeSettingsClient) Open(context.Context) error {
	f.opened++
	return f.openErr
}

func (f *fakeSettingsClient) Load() (*settings.Settings, error) { return f.current, nil }

func (f *fakeSettingsClient) Reset() (*settings.Settings, error) {
	f.resets++
	f.current = settings.Default()
	return f.current, nil
}

func (f *fakeSettingsClient) Path() string { return "/home/u/.config/tmux-quicktask/settings.toml" }

func TestSettingsOpen(t *testing.T) {
	client := &fakeSettingsClient{}

	_, err := execute(t, NewSettingsCmd(client), "open")

	require.NoError(t, err)
	assert.Equal(t, 1, client.opened)
}

func TestSettingsOpenWithoutDaemon(t *testing.T) {
	client := &fakeSettingsClient{openErr: ipc.ErrDaemonNotRunning}

	_, err := execute(t, NewSettingsCmd(client), "open")

	assert.ErrorIs(t, err, ipc.ErrDaemonNotRunning)
}

func TestSettingsShowPrintsTOML(t *testing.T) {
	client := &fakeSettingsClient{current: &settings.Settings{Version: 1, ShowCompleted: false, CompletedLast: true}}

	out, err := execute(t, NewSettingsCmd(client), "show")

	require.NoError(t, err)
	assert.Contains(t, out, "# /home/u/.config/tmux-quicktask/settings.toml")
	assert.Contains(t, out, "completed_last = true")
	assert.Contains(t, out, "show_completed = false")
}

func TestSettingsReset(t *testing.T) {
	client := &fakeSettingsClient{current: &settings.Settings{Version: 1}}

	_, err := execute(t, NewSettingsCmd(client), "reset")

	require.NoError(t, err)
	assert.Equal(t, 1, client.resets)
	assert.True(t, client.current.ShowCompleted)
}
