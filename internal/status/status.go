// Package status renders the open-task count for tmux status lines and
// the status command.
package status

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Formats accepted by Run.
const (
	FormatIcon      = "icon"
	FormatCountOnly = "count-only"
	FormatCompact   = "compact"
)

const icon = "☐"

// Options holds parameters for the status command.
type Options struct {
	Format string // "icon", "count-only", "compact"
}

// Client defines the interface for status operations.
type Client interface {
	Count(ctx context.Context) (int, error)
	GetConfigString(key, defaultValue string) string
}

// Run returns the status text for the current open-task count. Zero open
// tasks render as "" in every format so the status line slot collapses.
func Run(ctx context.Context, client Client, opts Options) (string, error) {
	format := opts.Format
	if format == "" {
		format = client.GetConfigString("status_format", FormatIcon)
	}
	if !validFormat(format) {
		return "", fmt.Errorf("unknown format: %s", format)
	}

	count, err := client.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count tasks: %w", err)
	}
	return Render(format, count), nil
}

// Render formats count. The format must be valid.
func Render(format string, count int) string {
	if count <= 0 {
		return ""
	}
	switch format {
	case FormatCountOnly:
		return strconv.Itoa(count)
	case FormatCompact:
		return humanize.Comma(int64(count)) + " open"
	default:
		return icon + " " + strconv.Itoa(count)
	}
}

func validFormat(format string) bool {
	switch format {
	case FormatIcon, FormatCountOnly, FormatCompact:
		return true
	}
	return false
}
