/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

type overlayClient interface {
	Toggle(ctx context.Context) error
	Show(ctx context.Context) error
	Hide(ctx context.Context) error
	Dismiss(ctx context.Context, reason ports.DismissReason, token ports.ClickToken) error
}

// NewToggleCmd creates the toggle command with explicit dependencies.
func NewToggleCmd(client overlayClient) *cobra.Command {
	if client == nil {
		panic("NewToggleCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "toggle",
		Short: "Show or hide the overlay",
		Long: `Show the overlay if it is hidden, hide it otherwise.

This is what the hotkey and the status icon run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return notRunningHint(client.Toggle(cmd.Context()))
		},
	}
}

// NewShowCmd creates the show command with explicit dependencies.
func NewShowCmd(client overlayClient) *cobra.Command {
	if client == nil {
		panic("NewShowCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "show",
		Short: "Show the overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return notRunningHint(client.Show(cmd.Context()))
		},
	}
}

// NewHideCmd creates the hide command with explicit dependencies.
func NewHideCmd(client overlayClient) *cobra.Command {
	if client == nil {
		panic("NewHideCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "hide",
		Short: "Hide the overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return notRunningHint(client.Hide(cmd.Context()))
		},
	}
}

// NewDismissCmd creates the dismiss command with explicit dependencies.
func NewDismissCmd(client overlayClient) *cobra.Command {
	if client == nil {
		panic("NewDismissCmd: client dependency cannot be nil")
	}

	var reasonFlag string
	var tokenFlag uint64

	dismissCmd := &cobra.Command{
		Use:   "dismiss",
		Short: "Ask the daemon to dismiss the overlay",
		Long: `Ask the daemon to dismiss the overlay for a reason.

Reasons: toggle, outside-click, close-key, focus-lost, surface-closed, request.
--token names the show the request belongs to; requests for an earlier
show are ignored. A stopped daemon is not an error here since a script
or binding may still fire after it exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reason := ports.ParseDismissReason(reasonFlag)
			if string(reason) != reasonFlag {
				return fmt.Errorf("unknown reason %q", reasonFlag)
			}
			err := client.Dismiss(cmd.Context(), reason, ports.ClickToken(tokenFlag))
			if errors.Is(err, ipc.ErrDaemonNotRunning) {
				return nil
			}
			return err
		},
	}

	dismissCmd.Flags().StringVar(&reasonFlag, "reason", string(ports.ReasonRequest), "Why the overlay is dismissed")
	dismissCmd.Flags().Uint64Var(&tokenFlag, "token", 0, "Token of the show being dismissed")

	return dismissCmd
}

// defaultOverlayClient resolves the daemon socket per call.
type defaultOverlayClient struct{}

func (defaultOverlayClient) Toggle(ctx context.Context) error { return daemonClient().Toggle(ctx) }
func (defaultOverlayClient) Show(ctx context.Context) error   { return daemonClient().Show(ctx) }
func (defaultOverlayClient) Hide(ctx context.Context) error   { return daemonClient().Hide(ctx) }

func (defaultOverlayClient) Dismiss(ctx context.Context, reason ports.DismissReason, token ports.ClickToken) error {
	return daemonClient().Dismiss(ctx, reason, token)
}

func init() {
	overlay := defaultOverlayClient{}
	cmd.RootCmd.AddCommand(
		NewToggleCmd(overlay),
		NewShowCmd(overlay),
		NewHideCmd(overlay),
		NewDismissCmd(overlay),
	)
}
