package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPrintHelp(t *testing.T) {
	root := &cobra.Command{
		Use:     "tmux-quicktask",
		Short:   "A quick to-do list one keystroke away in tmux.",
		Version: "0.1.0",
	}
	root.AddCommand(
		&cobra.Command{Use: "version", Short: "Show version information"},
		&cobra.Command{Use: "add <title>", Short: "Add a task"},
		&cobra.Command{Use: "toggle", Short: "Show or hide the overlay"},
		&cobra.Command{Use: "daemon", Short: "Run or stop the daemon"},
		&cobra.Command{Use: "internal-only", Short: "Not listed"},
	)

	var buf bytes.Buffer
	outputWriter = &buf
	defer func() { outputWriter = nil }()

	PrintHelp(root)
	output := buf.String()

	assert.Contains(t, output, "tmux-quicktask v0.1.0")
	assert.Contains(t, output, "A quick to-do list one keystroke away in tmux.")
	assert.Contains(t, output, "USAGE:")
	assert.Contains(t, output, "COMMANDS:")
	assert.Contains(t, output, "OPTIONS:")
	assert.NotContains(t, output, "internal-only")

	daemon := strings.Index(output, "daemon")
	toggle := strings.Index(output, "toggle")
	add := strings.Index(output, "add <title>")
	version := strings.Index(output, "    version")
	assert.True(t, daemon < toggle && toggle < add && add < version, "commands follow the fixed order")
}
