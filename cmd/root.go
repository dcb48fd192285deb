/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tmux-quicktask",
	Short: "A quick to-do list one keystroke away in tmux.",
	Long:  `A quick to-do list one keystroke away in tmux.`,
	// Configuration and the log file are set up once per invocation,
	// before any subcommand touches them.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if config.GetBool("debug", false) {
			colors.SetDebug(true)
		}
		if err := logging.InitGlobal(cmd.Name()); err != nil {
			colors.Debug(fmt.Sprintf("file logging disabled: %v", err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

// outputWriter is where PrintHelp writes; nil means stdout.
var outputWriter io.Writer

func init() {
	RootCmd.Version = Version

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			// subcommands keep cobra's help with their flags
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		PrintHelp(cmd)
	})
}

// commandOrder groups overlay commands before task commands.
var commandOrder = []string{
	"daemon",
	"toggle",
	"show",
	"hide",
	"dismiss",
	"settings",
	"add",
	"list",
	"done",
	"edit",
	"rm",
	"clear-completed",
	"status",
	"help",
	"version",
}

// PrintHelp prints the root help with commands in a fixed order.
func PrintHelp(cmd *cobra.Command) {
	w := outputWriter
	if w == nil {
		w = os.Stdout
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-24s %s", found.Use, found.Short))
	}

	_, _ = fmt.Fprintf(w, `tmux-quicktask v%s

%s

USAGE:
    tmux-quicktask [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, cmd.Version, cmd.Short, strings.Join(cmdLines, "\n"))
}
