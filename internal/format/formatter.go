// Package format provides output formatting for the list command.
package format

import (
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// Formatter defines the interface for task list formatters.
type Formatter interface {
	// FormatTasks writes tasks in display order.
	FormatTasks(tasks []domain.Task, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeTable aligns id, state, title and age columns.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypePlain prints one "[x] title" line per task, for scripts
	// and status lines.
	FormatterTypePlain FormatterType = "plain"

	// FormatterTypeJSON prints the tasks as a JSON array.
	FormatterTypeJSON FormatterType = "json"
)

// ValidTypes lists the accepted --format values.
var ValidTypes = []FormatterType{FormatterTypeTable, FormatterTypePlain, FormatterTypeJSON}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) (Formatter, error) {
	switch formatterType {
	case FormatterTypeTable, "":
		return NewTableFormatter(time.Now), nil
	case FormatterTypePlain:
		return NewPlainFormatter(), nil
	case FormatterTypeJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected table, plain or json)", formatterType)
	}
}
