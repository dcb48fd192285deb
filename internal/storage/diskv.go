package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/peterbourgon/diskv/v3"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// orderKey holds the ordered list of task IDs; every other key is a task.
const orderKey = "_order"

// DiskvStorage keeps one JSON blob per task plus an order index.
type DiskvStorage struct {
	d        *diskv.Diskv
	basePath string
}

var _ Storage = (*DiskvStorage)(nil)

// NewDiskvStorage stores tasks under basePath.
func NewDiskvStorage(basePath string) (*DiskvStorage, error) {
	if err := os.MkdirAll(basePath, FileModeDir); err != nil {
		return nil, fmt.Errorf("diskv storage: create directory: %w", err)
	}
	return &DiskvStorage{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024,
			FilePerm:     FileModeFile,
			PathPerm:     FileModeDir,
		}),
		basePath: basePath,
	}, nil
}

// Load reads tasks in index order. Tasks missing from the index follow
// in creation order; index entries without a task are skipped.
func (s *DiskvStorage) Load(ctx context.Context) ([]domain.Task, error) {
	var order []string
	if s.d.Has(orderKey) {
		raw, err := s.d.Read(orderKey)
		if err != nil {
			return nil, fmt.Errorf("diskv storage: read order: %w", err)
		}
		if err := json.Unmarshal(raw, &order); err != nil {
			colors.StructuredWarn("storage", "load", "corrupt", err, orderKey, colors.Fields{"path": s.basePath})
			order = nil
		}
	}

	byID := map[string]domain.Task{}
	for key := range s.d.Keys(ctx.Done()) {
		if key == orderKey {
			continue
		}
		raw, err := s.d.Read(key)
		if err != nil {
			colors.StructuredWarn("storage", "load", "unreadable", err, key, nil)
			continue
		}
		var t domain.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			colors.StructuredWarn("storage", "load", "corrupt", err, key, nil)
			continue
		}
		t.ID = key
		byID[key] = t
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(byID))
	for _, id := range order {
		if t, ok := byID[id]; ok {
			tasks = append(tasks, t)
			delete(byID, id)
		}
	}
	rest := make([]domain.Task, 0, len(byID))
	for _, t := range byID {
		rest = append(rest, t)
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].CreatedAt.Equal(rest[j].CreatedAt) {
			return rest[i].ID < rest[j].ID
		}
		return rest[i].CreatedAt.Before(rest[j].CreatedAt)
	})
	return append(tasks, rest...), nil
}

// Save writes every task, then the index, then erases stale keys.
func (s *DiskvStorage) Save(ctx context.Context, tasks []domain.Task) error {
	keep := make(map[string]bool, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("diskv storage: encode %s: %w", t.ID, err)
		}
		if err := s.d.Write(t.ID, raw); err != nil {
			return fmt.Errorf("diskv storage: write %s: %w", t.ID, err)
		}
		keep[t.ID] = true
		order = append(order, t.ID)
	}
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("diskv storage: encode order: %w", err)
	}
	if err := s.d.Write(orderKey, raw); err != nil {
		return fmt.Errorf("diskv storage: write order: %w", err)
	}

	var stale []string
	for key := range s.d.Keys(ctx.Done()) {
		if key != orderKey && !keep[key] {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		if err := s.d.Erase(key); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("diskv storage: erase %s: %w", key, err)
		}
	}
	return nil
}

// WatchPath returns the base directory.
func (s *DiskvStorage) WatchPath() string { return s.basePath }

// Close is a no-op.
func (s *DiskvStorage) Close() error { return nil }
