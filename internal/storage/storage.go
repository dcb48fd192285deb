// Package storage persists the task list. Every backend stores the whole
// ordered list: Save replaces what is on disk with exactly the given
// tasks, in the given order.
package storage

import (
	"context"
	"os"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0o755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0o644
)

// Storage is implemented by every backend.
type Storage interface {
	// Load returns the persisted tasks in order. A backend with nothing
	// stored yet returns an empty list and no error.
	Load(ctx context.Context) ([]domain.Task, error)
	// Save replaces the persisted list.
	Save(ctx context.Context, tasks []domain.Task) error
	// WatchPath is the file or directory external writers touch.
	WatchPath() string
	Close() error
}
