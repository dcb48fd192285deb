package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

const maxTitleWidth = 60

// TableFormatter prints aligned columns with relative ages.
type TableFormatter struct {
	now func() time.Time
}

// NewTableFormatter creates a TableFormatter; now anchors the ages.
func NewTableFormatter(now func() time.Time) *TableFormatter {
	return &TableFormatter{now: now}
}

// FormatTasks implements Formatter.
func (f *TableFormatter) FormatTasks(tasks []domain.Task, writer io.Writer) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(writer, "No tasks")
		return err
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxTitleWidth
	tbl.AddRow("ID", "", "TITLE", "CREATED")
	now := f.now()
	for _, t := range tasks {
		tbl.AddRow(domain.ShortID(t.ID), colors.Checked(t.Completed), t.Title, age(t.CreatedAt, now))
	}
	_, err := fmt.Fprintln(writer, tbl)
	return err
}

func age(created, now time.Time) string {
	if created.IsZero() {
		return "-"
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

// PlainFormatter prints one line per task.
type PlainFormatter struct{}

// NewPlainFormatter creates a PlainFormatter.
func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{}
}

// FormatTasks implements Formatter.
func (f *PlainFormatter) FormatTasks(tasks []domain.Task, writer io.Writer) error {
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		if _, err := fmt.Fprintf(writer, "[%s] %s\n", mark, t.Title); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter prints the list as an indented JSON array.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatTasks implements Formatter.
func (f *JSONFormatter) FormatTasks(tasks []domain.Task, writer io.Writer) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
