package tmuxhost

import (
	"sync"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// ClickMonitor turns outside clicks into Deliver calls. The popup covers
// the whole client while the overlay is visible, so the panel sees every
// click and reports those outside its frame as "dismiss --token N" over
// IPC. The user's own mouse bindings are never touched.
type ClickMonitor struct {
	h *Host

	mu    sync.Mutex
	token ports.ClickToken
	fn    func(ports.ClickToken)
}

var _ ports.ClickSource = (*ClickMonitor)(nil)

// ClickMonitor returns the ClickSource adapter.
func (h *Host) ClickMonitor() *ClickMonitor { return &ClickMonitor{h: h} }

// Subscribe makes token the live one; clicks for any earlier token are
// dropped from now on.
func (m *ClickMonitor) Subscribe(token ports.ClickToken, fn func(ports.ClickToken)) (ports.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.fn = fn
	return &clickSubscription{m: m, token: token}, nil
}

// Deliver reports a click armed for token. Clicks for any other token,
// or arriving after Cancel, are dropped.
func (m *ClickMonitor) Deliver(token ports.ClickToken) bool {
	m.mu.Lock()
	fn := m.fn
	live := m.token
	m.mu.Unlock()
	if fn == nil || token == 0 || token != live {
		m.h.log.Debug("click dropped", "token", uint64(token), "live", uint64(live))
		return false
	}
	fn(token)
	return true
}

// Armed reports the live token, zero when none.
func (m *ClickMonitor) Armed() ports.ClickToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *ClickMonitor) cancel(token ports.ClickToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != token {
		return nil
	}
	m.token = 0
	m.fn = nil
	return nil
}

type clickSubscription struct {
	m     *ClickMonitor
	token ports.ClickToken
}

func (s *clickSubscription) Cancel() error {
	return s.m.cancel(s.token)
}
