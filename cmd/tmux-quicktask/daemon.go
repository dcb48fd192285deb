/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/daemon"
	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
)

type daemonControl interface {
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
	State(ctx context.Context) (ipc.State, error)
}

// NewDaemonCmd creates the daemon command with explicit dependencies.
func NewDaemonCmd(client daemonControl) *cobra.Command {
	if client == nil {
		panic("NewDaemonCmd: client dependency cannot be nil")
	}

	run := func(cmd *cobra.Command, args []string) error {
		err := client.Run(cmd.Context())
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			// re-sourcing tmux.conf starts the daemon again; that is fine
			colors.Info(err.Error())
			return nil
		}
		return err
	}

	daemonCmd := &cobra.Command{
		Use:   "daemon [run|stop|state]",
		Short: "Run or stop the daemon",
		Long: `Run the daemon that owns the overlay, the status icon and the task list.

One daemon runs per socket. It installs the hotkey and status bindings on
start and removes them on stop. The autostart block in tmux.conf runs
"tmux-quicktask daemon run".`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	daemonCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the daemon in the foreground",
			Args:  cobra.NoArgs,
			RunE:  run,
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop a running daemon",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := client.Stop(cmd.Context()); err != nil {
					if errors.Is(err, ipc.ErrDaemonNotRunning) {
						colors.Info("daemon not running")
						return nil
					}
					return err
				}
				colors.Success("daemon stopped")
				return nil
			},
		},
		&cobra.Command{
			Use:   "state",
			Short: "Print the overlay and settings state as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := client.State(cmd.Context())
				if err != nil {
					return notRunningHint(err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			},
		},
	)

	return daemonCmd
}

type defaultDaemonClient struct{}

func (defaultDaemonClient) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	runner := newHookRunner()
	if err := runner.EnsureDir(); err != nil {
		colors.Debug(fmt.Sprintf("hooks dir: %v", err))
	}

	opts := daemon.OptionsFromConfig()
	opts.Client = tmuxClient()
	opts.Hooks = runner
	opts.Log = logging.For("daemon")

	d, err := daemon.New(opts)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

func (defaultDaemonClient) Stop(ctx context.Context) error {
	return daemonClient().Shutdown(ctx)
}

func (defaultDaemonClient) State(ctx context.Context) (ipc.State, error) {
	return daemonClient().State(ctx)
}

func init() {
	cmd.RootCmd.AddCommand(NewDaemonCmd(defaultDaemonClient{}))
}
