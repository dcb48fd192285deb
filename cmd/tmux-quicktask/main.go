/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"os"

	"github.com/cristianoliveira/tmux-quicktask/cmd"
	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/errors"
)

func main() {
	colors.StructuredInfo("startup", "main", "started", nil, "", nil)
	if err := cmd.Execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		errors.Report(errors.NewDefaultCLIHandler(), "", err)
		os.Exit(1)
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
}
