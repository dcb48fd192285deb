package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// JSONFileName is the task list file of the json backend.
const JSONFileName = "tasks.json"

// CorruptSuffix names the copy kept of a tasks.json that failed to decode.
const CorruptSuffix = ".corrupt"

// JSONStorage keeps the list as a single JSON array.
type JSONStorage struct {
	path    string
	lockDir string
}

var _ Storage = (*JSONStorage)(nil)

// NewJSONStorage stores tasks in dir/tasks.json.
func NewJSONStorage(dir string) (*JSONStorage, error) {
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return nil, fmt.Errorf("json storage: create directory: %w", err)
	}
	return &JSONStorage{
		path:    filepath.Join(dir, JSONFileName),
		lockDir: filepath.Join(dir, "lock"),
	}, nil
}

// Load reads the list. A missing file is an empty list; so is a file that
// cannot be decoded, which is reported as a warning and copied to
// tasks.json.corrupt before the next Save can overwrite it.
func (s *JSONStorage) Load(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Task{}, nil
		}
		return nil, fmt.Errorf("json storage: read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return []domain.Task{}, nil
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		backup := s.path + CorruptSuffix
		if werr := os.WriteFile(backup, data, FileModeFile); werr != nil {
			backup = ""
		}
		colors.StructuredWarn("storage", "load", "corrupt", err, "", colors.Fields{"path": s.path, "backup": backup})
		return []domain.Task{}, nil
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Save writes the list to a temp file and renames it over tasks.json.
func (s *JSONStorage) Save(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("json storage: encode: %w", err)
	}
	return WithLock(s.lockDir, func() error {
		return writeFileAtomic(s.path, data)
	})
}

// WatchPath returns the tasks.json path.
func (s *JSONStorage) WatchPath() string { return s.path }

// Close is a no-op.
func (s *JSONStorage) Close() error { return nil }

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("json storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json storage: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json storage: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("json storage: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, FileModeFile); err != nil {
		return fmt.Errorf("json storage: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("json storage: replace %s: %w", path, err)
	}
	return nil
}
