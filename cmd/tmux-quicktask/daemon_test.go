package main

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/daemon"
	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
)

type fakeDaemonControl struct {
	runErr   error
	stopErr  error
	state    ipc.State
	stateErr error
	runs     int
	stops    int
}

func (f *fakeDaemonControl) Run(context.Context) error {
	f.runs++
	return f.runErr
}

func (f *fakeDaemonControl) Stop(context.Context) error {
	f.stops++
	return f.stopErr
}

func (f *fakeDaemonControl) State(context.Context) (ipc.State, error) {
	return f.state, f.stateErr
}

func TestDaemonRunsByDefault(t *testing.T) {
	control := &fakeDaemonControl{}

	_, err := execute(t, NewDaemonCmd(control))
	require.NoError(t, err)
	_, err = execute(t, NewDaemonCmd(control), "run")
	require.NoError(t, err)

	assert.Equal(t, 2, control.runs)
}

func TestDaemonAlreadyRunningIsNotAnError(t *testing.T) {
	control := &fakeDaemonControl{runErr: fmt.Errorf("%w on /tmp/qt.sock", daemon.ErrAlreadyRunning)}

	_, err := execute(t, NewDaemonCmd(control), "run")

	assert.NoError(t, err)
}

func TestDaemonRunFailurePropagates(t *testing.T) {
	control := &fakeDaemonControl{runErr: fmt.Errorf("tmux 3.0 is older than 3.2")}

	_, err := execute(t, NewDaemonCmd(control), "run")

	assert.EqualError(t, err, "tmux 3.0 is older than 3.2")
}

func TestDaemonStop(t *testing.T) {
	control := &fakeDaemonControl{}
	_, err := execute(t, NewDaemonCmd(control), "stop")
	require.NoError(t, err)
	assert.Equal(t, 1, control.stops)

	stopped := &fakeDaemonControl{stopErr: ipc.ErrDaemonNotRunning}
	_, err = execute(t, NewDaemonCmd(stopped), "stop")
	assert.NoError(t, err)
}

func TestDaemonState(t *testing.T) {
	control := &fakeDaemonControl{state: ipc.State{Overlay: "shown", Armed: true, Token: 4, Policy: "background"}}

	out, err := execute(t, NewDaemonCmd(control), "state")

	require.NoError(t, err)
	var decoded ipc.State
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, control.state, decoded)
}

func TestDaemonStateWithoutDaemon(t *testing.T) {
	control := &fakeDaemonControl{stateErr: ipc.ErrDaemonNotRunning}

	_, err := execute(t, NewDaemonCmd(control), "state")

	assert.ErrorContains(t, err, "start it with")
}
