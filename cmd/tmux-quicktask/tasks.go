/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/format"
	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/search"
	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
	"github.com/cristianoliveira/tmux-quicktask/internal/taskstore"
)

type taskClient interface {
	Add(ctx context.Context, title string) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Complete(ctx context.Context, ref string) (domain.Task, error)
	Rename(ctx context.Context, ref, title string) (domain.Task, error)
	Delete(ctx context.Context, ref string) (domain.Task, error)
	ClearCompleted(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	ViewOptions() domain.ViewOptions
}

// NewAddCmd creates the add command with explicit dependencies.
func NewAddCmd(client taskClient) *cobra.Command {
	if client == nil {
		panic("NewAddCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task to the end of the list.

All arguments are joined into the title, so quoting is optional:

    tmux-quicktask add buy milk`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("add requires a title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			colors.Success(fmt.Sprintf("added %s", domain.ShortID(t.ID)))
			return nil
		},
	}
}

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client taskClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var allFlag bool
	var formatFlag string
	var searchFlag string
	var regexFlag bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks in panel order.

Completed tasks follow the show_completed and completed_last settings;
--all lists them regardless.

--search keeps tasks whose title or id contains every word of the query;
the words "done" and "open" filter by completion. With --regex the query
is a regular expression instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := format.NewFormatter(format.FormatterType(formatFlag))
			if err != nil {
				return err
			}
			var provider search.Provider = search.NewTokenProvider()
			if regexFlag {
				rp := search.NewRegexProvider().(*search.RegexProvider)
				if _, err := rp.Compile(searchFlag); err != nil {
					return fmt.Errorf("invalid --search pattern: %w", err)
				}
				provider = rp
			}
			tasks, err := client.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			view := client.ViewOptions()
			if allFlag {
				view.ShowCompleted = true
			}
			shown := search.Filter(domain.Arrange(tasks, view), provider, searchFlag)
			return formatter.FormatTasks(shown, cmd.OutOrStdout())
		},
	}

	listCmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Include completed tasks")
	listCmd.Flags().StringVar(&formatFlag, "format", string(format.FormatterTypeTable), "Output format: table, plain, json")
	listCmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Only list tasks matching the query")
	listCmd.Flags().BoolVar(&regexFlag, "regex", false, "Treat --search as a regular expression")

	return listCmd
}

// NewDoneCmd creates the done command with explicit dependencies.
func NewDoneCmd(client taskClient) *cobra.Command {
	if client == nil {
		panic("NewDoneCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Long:  `Mark a task completed. <id> may be any unique prefix of the task id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client.Complete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("done: %w", err)
			}
			colors.Success("completed: " + t.Title)
			return nil
		},
	}
}

// NewEditCmd creates the edit command with explicit dependencies.
func NewEditCmd(client taskClient) *cobra.Command {
	if client == nil {
		panic("NewEditCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Change a task title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client.Rename(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			colors.Success("renamed: " + t.Title)
			return nil
		},
	}
}

// NewRmCmd creates the rm command with explicit dependencies.
func NewRmCmd(client taskClient) *cobra.Command {
	if client == nil {
		panic("NewRmCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client.Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			colors.Success("deleted: " + t.Title)
			return nil
		},
	}
}

// NewClearCompletedCmd creates the clear-completed command with explicit dependencies.
func NewClearCompletedCmd(client taskClient) *cobra.Command {
	if client == nil {
		panic("NewClearCompletedCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := client.ClearCompleted(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear-completed: %w", err)
			}
			if n == 0 {
				colors.Info("nothing to clear")
				return nil
			}
			colors.Success(fmt.Sprintf("cleared %d completed task(s)", n))
			return nil
		},
	}
}

// defaultTaskClient talks to the daemon and falls back to the storage
// backend when none is running.
type defaultTaskClient struct{}

func (defaultTaskClient) Add(ctx context.Context, title string) (domain.Task, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) (domain.Task, error) { return c.Add(ctx, title) },
		func(s *taskstore.Store) (domain.Task, error) { return s.Add(ctx, title) })
}

func (defaultTaskClient) List(ctx context.Context) ([]domain.Task, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) ([]domain.Task, error) { return c.List(ctx) },
		func(s *taskstore.Store) ([]domain.Task, error) { return s.Tasks(), nil })
}

func (defaultTaskClient) Complete(ctx context.Context, ref string) (domain.Task, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) (domain.Task, error) { return c.Complete(ctx, ref) },
		func(s *taskstore.Store) (domain.Task, error) { return s.Complete(ctx, ref) })
}

func (defaultTaskClient) Rename(ctx context.Context, ref, title string) (domain.Task, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) (domain.Task, error) { return c.Rename(ctx, ref, title) },
		func(s *taskstore.Store) (domain.Task, error) { return s.Rename(ctx, ref, title) })
}

func (defaultTaskClient) Delete(ctx context.Context, ref string) (domain.Task, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) (domain.Task, error) { return c.Delete(ctx, ref) },
		func(s *taskstore.Store) (domain.Task, error) { return s.Delete(ctx, ref) })
}

func (defaultTaskClient) ClearCompleted(ctx context.Context) (int, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) (int, error) { return c.ClearCompleted(ctx) },
		func(s *taskstore.Store) (int, error) { return s.ClearCompleted(ctx) })
}

func (defaultTaskClient) Count(ctx context.Context) (int, error) {
	return viaDaemonOrStore(ctx,
		func(c *ipc.Client) (int, error) { return c.Count(ctx) },
		func(s *taskstore.Store) (int, error) { return s.IncompleteCount(), nil })
}

// ViewOptions reads the list preferences; an unreadable file is reported
// and the defaults apply.
func (defaultTaskClient) ViewOptions() domain.ViewOptions {
	s, err := settings.Load()
	if err != nil {
		colors.Warning(fmt.Sprintf("settings unreadable, using defaults: %v", err))
		return domain.DefaultViewOptions
	}
	return s.ViewOptions()
}

var tasks taskClient = defaultTaskClient{}

func init() {
	cmd.RootCmd.AddCommand(
		NewAddCmd(tasks),
		NewListCmd(tasks),
		NewDoneCmd(tasks),
		NewEditCmd(tasks),
		NewRmCmd(tasks),
		NewClearCompletedCmd(tasks),
	)
}
