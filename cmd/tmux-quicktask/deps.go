/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/hooks"
	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/storage"
	"github.com/cristianoliveira/tmux-quicktask/internal/taskstore"
	"github.com/cristianoliveira/tmux-quicktask/internal/tmux"
)

// hookDrainTimeout bounds how long a short-lived command waits for async
// hooks before exiting.
const hookDrainTimeout = 10 * time.Second

// daemonClient is resolved per call: the socket path is only known once
// the root command has loaded the configuration.
func daemonClient() *ipc.Client {
	return ipc.NewClient(config.Get("socket_path", ""))
}

func tmuxClient() tmux.TmuxClient {
	return tmux.NewDefaultClient(tmux.WithSocketPath(config.Get("tmux_socket", "")))
}

func newHookRunner() *hooks.Runner {
	opts := hooks.OptionsFromConfig()
	opts.Log = logging.For("hooks")
	return hooks.New(opts)
}

// openLocalStore opens the configured backend directly, for task commands
// run while no daemon is up. The returned func closes the store and waits
// for async hooks.
func openLocalStore(ctx context.Context) (*taskstore.Store, func(), error) {
	backend, err := storage.NewFromConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	runner := newHookRunner()
	store := taskstore.Open(ctx, backend, taskstore.Options{Hooks: runner, Log: logging.For("cli")})
	return store, func() {
		if err := store.Close(); err != nil {
			colors.Debug(fmt.Sprintf("close storage: %v", err))
		}
		drainCtx, cancel := context.WithTimeout(context.Background(), hookDrainTimeout)
		defer cancel()
		_ = runner.Shutdown(drainCtx)
	}, nil
}

// viaDaemonOrStore runs remote against the daemon and falls back to local
// on a directly opened store when no daemon answers.
func viaDaemonOrStore[T any](ctx context.Context, remote func(*ipc.Client) (T, error), local func(*taskstore.Store) (T, error)) (T, error) {
	v, err := remote(daemonClient())
	if !errors.Is(err, ipc.ErrDaemonNotRunning) {
		return v, err
	}
	colors.Debug("daemon not running; using storage directly")
	store, closeStore, err := openLocalStore(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer closeStore()
	return local(store)
}

// notRunningHint turns ErrDaemonNotRunning into an actionable message.
func notRunningHint(err error) error {
	if errors.Is(err, ipc.ErrDaemonNotRunning) {
		return fmt.Errorf("%w (start it with: tmux-quicktask daemon)", err)
	}
	return err
}
