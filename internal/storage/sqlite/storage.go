// Package sqlite provides a SQLite-backed task storage.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	_ "modernc.org/sqlite"
)

// Storage keeps tasks in a single table ordered by position.
type Storage struct {
	db   *sql.DB
	path string
}

// New opens (and migrates) the database at dbPath.
func New(dbPath string) (*Storage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	return &Storage{db: db, path: dbPath}, nil
}

// Close closes the underlying SQLite connection.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WatchPath returns the database file path.
func (s *Storage) WatchPath() string { return s.path }

// Load returns all tasks by position.
func (s *Storage) Load(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, completed, created_at FROM tasks ORDER BY position, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var (
			t         domain.Task
			completed int
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.Title, &completed, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan task: %w", err)
		}
		t.Completed = completed != 0
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			t.CreatedAt = ts
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list tasks: %w", err)
	}
	return tasks, nil
}

// Save replaces the table contents in one transaction.
func (s *Storage) Save(ctx context.Context, tasks []domain.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite storage: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("sqlite storage: clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tasks (id, title, completed, created_at, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Title, completed, t.CreatedAt.UTC().Format(time.RFC3339Nano), i); err != nil {
			return fmt.Errorf("sqlite storage: insert %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite storage: commit: %w", err)
	}
	return nil
}
