package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultCoalesce is the quiet period that folds a burst of writes into
// one change event.
const DefaultCoalesce = 100 * time.Millisecond

// Watch streams a value whenever something under path changes, until ctx
// is cancelled. A directory path is watched recursively; a file path is
// watched through its parent directory, reacting only to that file and
// its siblings sharing its name as a prefix (journals, temp files).
// Bursts are coalesced; the channel is closed when the watcher stops.
func Watch(ctx context.Context, path string, coalesce time.Duration) (<-chan struct{}, error) {
	if path == "" {
		return nil, errors.New("storage: watch path unknown")
	}
	if coalesce <= 0 {
		coalesce = DefaultCoalesce
	}

	base := path
	prefix := ""
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		base = filepath.Dir(path)
		prefix = filepath.Base(path)
	}
	if err := os.MkdirAll(base, FileModeDir); err != nil {
		return nil, fmt.Errorf("storage: ensure watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("storage: create watcher: %w", err)
	}
	dirs := []string{base}
	if prefix == "" {
		if dirs, err = collectDirs(base); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("storage: enumerate directories: %w", err)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("storage: watch %s: %w", dir, err)
		}
	}

	events := make(chan struct{}, 1)
	send := func() {
		select {
		case events <- struct{}{}:
		default:
			// one pending signal already tells the consumer to reload
		}
	}

	go func() {
		defer close(events)
		defer func() { _ = watcher.Close() }()

		throttle := newThrottle(coalesce)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(evt.Name)
				if prefix != "" {
					if !strings.HasPrefix(name, prefix) && !strings.HasPrefix(name, "."+prefix) {
						continue
					}
				} else if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						_ = watcher.Add(evt.Name)
					}
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				throttle.Enqueue(send)
			}
		}
	}()

	return events, nil
}

func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// throttle runs the latest enqueued send once the delay passes without
// being reset by the first event of a burst.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

func (t *throttle) Enqueue(send func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		send()
	})
}

func (t *throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
