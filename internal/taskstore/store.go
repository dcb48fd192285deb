// Package taskstore holds the live task list of the daemon. It persists
// every mutation immediately and signals observers with one-shot
// channels.
package taskstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/hooks"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/storage"
)

// Re-exported so callers need not import domain for error checks.
var (
	ErrEmptyTitle   = domain.ErrEmptyTitle
	ErrTaskNotFound = domain.ErrTaskNotFound
)

// HookRunner runs task hooks. Run may abort a pre-add.
type HookRunner interface {
	Run(point string, env map[string]string) error
	RunAsync(point string, env map[string]string)
}

// Options configures a Store.
type Options struct {
	Hooks HookRunner
	Log   logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store is the data-record store.
type Store struct {
	backend storage.Storage
	hooks   HookRunner
	log     logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	tasks   []domain.Task
	changed chan struct{}
}

// Open loads the persisted list. A backend that cannot be read yields an
// empty list and a warning rather than an error, so the daemon still
// starts; the next successful Save overwrites the unreadable data.
func Open(ctx context.Context, backend storage.Storage, opts Options) *Store {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{
		backend: backend,
		hooks:   opts.Hooks,
		log:     log.With("component", "taskstore"),
		now:     now,
		changed: make(chan struct{}),
	}
	tasks, err := backend.Load(ctx)
	if err != nil {
		s.log.Warn("task list unreadable, starting empty", "error", err.Error())
		tasks = nil
	}
	s.tasks = tasks
	return s
}

// Tasks returns a copy of the list in storage order.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Task(nil), s.tasks...)
}

// IncompleteCount counts tasks not yet completed.
func (s *Store) IncompleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.IncompleteCount(s.tasks)
}

// Observe returns the incomplete count and a channel closed on the next
// change. Both are read under the same lock, so a change between reading
// the count and waiting on the channel is never missed.
func (s *Store) Observe() (int, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.IncompleteCount(s.tasks), s.changed
}

// Resolve maps a full ID or unique prefix onto a task ID.
func (s *Store) Resolve(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ResolveID(s.tasks, ref)
}

// Add appends a task. A failing pre-add hook cancels it.
func (s *Store) Add(ctx context.Context, title string) (domain.Task, error) {
	task, err := domain.NewTask(title, s.now())
	if err != nil {
		return domain.Task{}, err
	}
	if s.hooks != nil {
		if err := s.hooks.Run(hooks.PreAdd, taskEnv(task, -1)); err != nil {
			return domain.Task{}, fmt.Errorf("pre-add hook aborted: %w", err)
		}
	}

	s.mu.Lock()
	next := append(append([]domain.Task(nil), s.tasks...), task)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	count := domain.IncompleteCount(next)
	s.mu.Unlock()

	s.log.Info("task added", "id", task.ID, "title", task.Title)
	s.runAsync(hooks.PostAdd, taskEnv(task, count))
	return task, nil
}

// Toggle flips completion of the task.
func (s *Store) Toggle(ctx context.Context, ref string) (domain.Task, error) {
	return s.update(ctx, ref, func(t *domain.Task) bool {
		t.Completed = !t.Completed
		return true
	})
}

// Complete marks the task completed. Completing a completed task is a
// no-op.
func (s *Store) Complete(ctx context.Context, ref string) (domain.Task, error) {
	return s.update(ctx, ref, func(t *domain.Task) bool {
		if t.Completed {
			return false
		}
		t.Completed = true
		return true
	})
}

// Rename changes the title of the task.
func (s *Store) Rename(ctx context.Context, ref, title string) (domain.Task, error) {
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return domain.Task{}, err
	}
	return s.update(ctx, ref, func(t *domain.Task) bool {
		if t.Title == title {
			return false
		}
		t.Title = title
		return true
	})
}

// Move puts the task at index to of the list.
func (s *Store) Move(ctx context.Context, ref string, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(ref)
	if err != nil {
		return err
	}
	next := domain.Move(s.tasks, i, to)
	if sameTasks(next, s.tasks) {
		return nil
	}
	return s.commit(ctx, next)
}

// Delete removes the task.
func (s *Store) Delete(ctx context.Context, ref string) (domain.Task, error) {
	s.mu.Lock()
	i, err := s.find(ref)
	if err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	task := s.tasks[i]
	next := make([]domain.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	count := domain.IncompleteCount(next)
	s.mu.Unlock()

	s.log.Info("task deleted", "id", task.ID)
	s.runAsync(hooks.PostDelete, taskEnv(task, count))
	return task, nil
}

// ClearCompleted deletes every completed task and returns how many were
// removed.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	var removed []domain.Task
	next := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Completed {
			removed = append(removed, t)
			continue
		}
		next = append(next, t)
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	count := domain.IncompleteCount(next)
	s.mu.Unlock()

	for _, t := range removed {
		s.runAsync(hooks.PostDelete, taskEnv(t, count))
	}
	s.log.Info("completed tasks cleared", "count", len(removed))
	return len(removed), nil
}

// Reload re-reads the backend and reports whether the list changed. Our
// own writes come back identical and do not signal. The read happens under
// the same lock as commit, so a mutation cannot land between the read and
// the swap and be replaced by older content.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.backend.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("reload tasks: %w", err)
	}
	if sameTasks(s.tasks, tasks) {
		return false, nil
	}
	s.tasks = tasks
	s.signal()
	s.log.Debug("tasks reloaded", "count", len(tasks))
	return true, nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) update(ctx context.Context, ref string, mutate func(*domain.Task) bool) (domain.Task, error) {
	s.mu.Lock()
	i, err := s.find(ref)
	if err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	next := append([]domain.Task(nil), s.tasks...)
	wasCompleted := next[i].Completed
	if !mutate(&next[i]) {
		task := next[i]
		s.mu.Unlock()
		return task, nil
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return domain.Task{}, err
	}
	task := next[i]
	count := domain.IncompleteCount(next)
	s.mu.Unlock()

	if task.Completed && !wasCompleted {
		s.runAsync(hooks.PostComplete, taskEnv(task, count))
	}
	return task, nil
}

// commit persists next and makes it current. Callers hold mu. On a write
// failure the in-memory list is left untouched.
func (s *Store) commit(ctx context.Context, next []domain.Task) error {
	if err := s.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	s.signal()
	return nil
}

// signal closes the current change channel and arms a new one.
func (s *Store) signal() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Store) find(ref string) (int, error) {
	id, err := domain.ResolveID(s.tasks, ref)
	if err != nil {
		return -1, err
	}
	return domain.IndexOf(s.tasks, id), nil
}

func (s *Store) runAsync(point string, env map[string]string) {
	if s.hooks != nil {
		s.hooks.RunAsync(point, env)
	}
}

func sameTasks(a, b []domain.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].Completed != b[i].Completed || !a[i].CreatedAt.Equal(b[i].CreatedAt) {
			return false
		}
	}
	return true
}

func taskEnv(t domain.Task, incomplete int) map[string]string {
	env := map[string]string{
		"QUICKTASK_TASK_ID":        t.ID,
		"QUICKTASK_TASK_TITLE":     t.Title,
		"QUICKTASK_TASK_COMPLETED": strconv.FormatBool(t.Completed),
		"QUICKTASK_TASK_CREATED":   t.CreatedAt.Format(time.RFC3339),
	}
	if incomplete >= 0 {
		env["QUICKTASK_INCOMPLETE_COUNT"] = strconv.Itoa(incomplete)
	}
	return env
}
