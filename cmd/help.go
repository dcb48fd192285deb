/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// helpCmd represents the help command
var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show this help message",
	Long:  `Show this help message, or the help of one command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _, err := cmd.Root().Find(args)
		if err != nil || len(args) == 0 {
			return cmd.Root().Help()
		}
		return target.Help()
	},
}

func init() {
	RootCmd.SetHelpCommand(helpCmd)
}
