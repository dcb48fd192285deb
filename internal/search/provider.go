// Package search filters tasks by a free-text query. The CLI list command and
// its tests share the same providers so matching rules live in one place.
package search

import (
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// Provider matches a task against a query.
type Provider interface {
	// Match returns true if the task matches the query. An empty query
	// matches everything.
	Match(task domain.Task, query string) bool

	// Name returns the provider name for logs.
	Name() string
}

const (
	FieldTitle = "title"
	FieldID    = "id"
)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions searches titles and ids, case-insensitively.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldTitle, FieldID},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in. Valid fields: "title", "id".
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the task's values for the configured fields.
func fieldValues(task domain.Task, fields []string) []string {
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case FieldTitle:
			values = append(values, task.Title)
		case FieldID:
			values = append(values, task.ID)
		}
	}
	return values
}

// Filter keeps the tasks that match query, preserving order.
func Filter(tasks []domain.Task, p Provider, query string) []domain.Task {
	if query == "" || p == nil {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.Match(t, query) {
			out = append(out, t)
		}
	}
	return out
}
