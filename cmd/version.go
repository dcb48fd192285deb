/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/tmux-quicktask/internal/version"
)

// Version is the version shown in help output.
var Version = version.String()

// versionOutputWriter is where PrintVersion writes; nil means stdout.
var versionOutputWriter io.Writer

// GetVersion returns the version string.
func GetVersion() string {
	return Version
}

// PrintVersion prints the short version line.
func PrintVersion() {
	w := versionOutputWriter
	if w == nil {
		w = os.Stdout
	}
	_, _ = fmt.Fprintf(w, "tmux-quicktask v%s\n", Version)
}
