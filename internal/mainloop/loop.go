// Package mainloop provides the single execution context that owns all
// overlay state. Notifications from other goroutines (click bindings, store
// changes, timers, IPC requests) are posted here and run one at a time in
// FIFO order.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
)

// ErrStopped is returned by Call when the loop is not running.
var ErrStopped = errors.New("main loop stopped")

// Dispatcher schedules work onto the UI-owning context.
type Dispatcher interface {
	Post(fn func())
}

// Scheduler is a Dispatcher that can also delay work. The delayed
// function still runs on the dispatcher's context.
type Scheduler interface {
	Dispatcher
	After(d time.Duration, fn func()) *time.Timer
}

// Loop is an unbounded FIFO of functions drained by Run. Post never
// blocks and never drops work, unlike a buffered channel.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped chan struct{}
	started bool
	log     logging.Logger
}

var _ Scheduler = (*Loop)(nil)

// New creates a loop. Nothing runs until Run is called.
func New(log logging.Logger) *Loop {
	if log == nil {
		log = logging.Nop()
	}
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Post appends fn to the queue. It is safe from any goroutine, including
// the loop itself.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After posts fn once d has elapsed. The timer fires on its own goroutine
// and only ever touches the queue. Stop on the returned timer cancels fn
// if it has not been posted yet.
func (l *Loop) After(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// Call posts fn and waits for it to finish. Calling it from the loop
// goroutine deadlocks.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is done. Work still queued at that point
// is dropped. Run may only be called once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return errors.New("main loop already started")
	}
	l.started = true
	l.mu.Unlock()
	defer close(l.stopped)

	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			l.exec(fn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// exec runs fn and keeps the loop alive if it panics.
func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("posted function panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
