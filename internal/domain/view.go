package domain

import "sort"

// ViewOptions control how a task list is arranged for display. Storage
// order is never changed by a view.
type ViewOptions struct {
	ShowCompleted bool
	CompletedLast bool
}

// DefaultViewOptions lists everything in insertion order.
var DefaultViewOptions = ViewOptions{ShowCompleted: true}

// Arrange returns a new slice filtered and ordered according to opts.
func Arrange(tasks []Task, opts ViewOptions) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed && !opts.ShowCompleted {
			continue
		}
		out = append(out, t)
	}
	if opts.CompletedLast {
		sort.SliceStable(out, func(i, j int) bool {
			return !out[i].Completed && out[j].Completed
		})
	}
	return out
}

// Move returns a copy of tasks with the task at from moved to index to.
// Out-of-range indices are clamped.
func Move(tasks []Task, from, to int) []Task {
	out := append([]Task(nil), tasks...)
	if from < 0 || from >= len(out) {
		return out
	}
	if to < 0 {
		to = 0
	}
	if to >= len(out) {
		to = len(out) - 1
	}
	t := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]Task{t}, out[to:]...)...)
	return out
}
