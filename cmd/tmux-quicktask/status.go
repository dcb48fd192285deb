/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/status"
)

type statusClient interface {
	Count(ctx context.Context) (int, error)
	GetConfigString(key, defaultValue string) string
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	var formatFlag string

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the open task count",
		Long: `Print the open task count for a status line.

Prints nothing when no task is open. Formats: icon ("☐ 3"), count-only
("3"), compact ("3 open"). The default comes from status_format.

While the daemon runs it also keeps a clickable icon in the
@quicktask_status user option, which avoids a process per refresh:

    set -g status-right '#{E:@quicktask_status}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := status.Run(cmd.Context(), client, status.Options{Format: formatFlag})
			if err != nil {
				return err
			}
			if out != "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return err
		},
	}

	statusCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: icon, count-only, compact")

	return statusCmd
}

type defaultStatusClient struct {
	tasks taskClient
}

func (c defaultStatusClient) Count(ctx context.Context) (int, error) { return c.tasks.Count(ctx) }

func (defaultStatusClient) GetConfigString(key, defaultValue string) string {
	return config.Get(key, defaultValue)
}

func init() {
	cmd.RootCmd.AddCommand(NewStatusCmd(defaultStatusClient{tasks: tasks}))
}
