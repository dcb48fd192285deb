/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
)

type settingsClient interface {
	Open(ctx context.Context) error
	Load() (*settings.Settings, error)
	Reset() (*settings.Settings, error)
	Path() string
}

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings [open|show|reset]",
		Short: "Open, show or reset settings",
		Long: `Manage the persisted preferences.

    open    Open the settings view (hides the overlay first)
    show    Print the settings file
    reset   Restore the defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	settingsCmd.AddCommand(
		&cobra.Command{
			Use:   "open",
			Short: "Open the settings view",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return notRunningHint(client.Open(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := client.Load()
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}
				data, err := toml.Marshal(s)
				if err != nil {
					return fmt.Errorf("marshal settings: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", client.Path(), data)
				return err
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore default settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := client.Reset(); err != nil {
					return fmt.Errorf("reset settings: %w", err)
				}
				colors.Success("settings reset to defaults")
				return nil
			},
		},
	)

	return settingsCmd
}

type defaultSettingsClient struct{}

func (defaultSettingsClient) Open(ctx context.Context) error { return daemonClient().SettingsOpen(ctx) }

func (defaultSettingsClient) Load() (*settings.Settings, error) { return settings.Load() }

func (defaultSettingsClient) Reset() (*settings.Settings, error) { return settings.Reset() }

func (defaultSettingsClient) Path() string { return settings.Path() }

func init() {
	cmd.RootCmd.AddCommand(NewSettingsCmd(defaultSettingsClient{}))
}
