package mainloop

import (
	"sync"
	"time"
)

// Inline runs posted functions immediately on the caller's goroutine.
// Tests use it where ordering across goroutines is not under test.
type Inline struct{}

// Post runs fn now.
func (Inline) Post(fn func()) { fn() }

// After runs fn on the timer goroutine once d has elapsed.
func (Inline) After(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, fn)
}

// Manual queues posted functions until Drain is called, so tests can
// observe the state between scheduling and execution.
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

// Post queues fn.
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

// After queues fn once d has elapsed; it still waits for Drain.
func (m *Manual) After(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() { m.Post(fn) })
}

// Pending returns the number of queued functions.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Drain runs queued functions, including ones posted while draining,
// until the queue is empty. It returns how many ran.
func (m *Manual) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
		n++
	}
}
