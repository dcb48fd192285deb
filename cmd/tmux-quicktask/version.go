/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/version"
)

type versionClient interface {
	TmuxVersion() string
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the version of tmux-quicktask and of the tmux it talks to.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full(client.TmuxVersion()))
			return err
		},
	}
}

type defaultVersionClient struct{}

// TmuxVersion returns "" when tmux is not installed.
func (defaultVersionClient) TmuxVersion() string {
	raw, err := tmuxClient().Version()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "tmux"))
}

func init() {
	cmd.RootCmd.AddCommand(NewVersionCmd(defaultVersionClient{}))
}
