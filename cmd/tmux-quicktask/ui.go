/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/app"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/settingsui"
)

// NewPanelCmd creates the panel command. The daemon runs it inside the
// hidden root session; it is not meant to be started by hand.
func NewPanelCmd(client app.Client, daemon func() app.Daemon) *cobra.Command {
	if client == nil || daemon == nil {
		panic("NewPanelCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:    "panel",
		Short:  "Run the overlay panel",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.RunPanel(cmd.Context(), daemon())
		},
	}
}

// NewSettingsUICmd creates the settings-ui command, run by the daemon in
// the settings session.
func NewSettingsUICmd(client app.Client, daemon func() app.Daemon) *cobra.Command {
	if client == nil || daemon == nil {
		panic("NewSettingsUICmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:    "settings-ui",
		Short:  "Run the settings view",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := settingsui.Info{
				Hotkey:  config.Get("hotkey", ""),
				Backend: config.Get("storage_backend", "json"),
				Socket:  config.Get("socket_path", ""),
			}
			return client.RunSettings(cmd.Context(), daemon(), info)
		},
	}
}

func init() {
	client := app.NewDefaultClient(nil, nil, nil)
	daemon := func() app.Daemon { return daemonClient() }
	cmd.RootCmd.AddCommand(
		NewPanelCmd(client, daemon),
		NewSettingsUICmd(client, daemon),
	)
}
