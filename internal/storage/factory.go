package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/storage/sqlite"
)

const (
	// BackendJSON selects the tasks.json file backend.
	BackendJSON = "json"
	// BackendSQLite selects the SQLite backend.
	BackendSQLite = "sqlite"
	// BackendDiskv selects the one-file-per-task backend.
	BackendDiskv = "diskv"

	sqliteFileName = "tasks.db"
	diskvDirName   = "tasks.diskv"
)

var _ Storage = (*sqlite.Storage)(nil)

// NewFromConfig creates the backend named by storage_backend in
// state_dir. config.Load must have run.
func NewFromConfig() (Storage, error) {
	return NewForBackend(config.Get("storage_backend", BackendJSON), config.Get("state_dir", ""))
}

// NewForBackend creates the named backend inside stateDir. An unknown
// name falls back to json with a warning; a sqlite backend that cannot be
// opened falls back to json as well.
func NewForBackend(backend, stateDir string) (Storage, error) {
	if strings.TrimSpace(stateDir) == "" {
		return nil, fmt.Errorf("storage: state_dir not configured")
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONStorage(stateDir)
	case BackendSQLite:
		s, err := sqlite.New(filepath.Join(stateDir, sqliteFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to json: %v", err))
			return NewJSONStorage(stateDir)
		}
		return s, nil
	case BackendDiskv:
		return NewDiskvStorage(filepath.Join(stateDir, diskvDirName))
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to json", backend))
		return NewJSONStorage(stateDir)
	}
}
