package overlay

import (
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// InputMonitor owns the click subscription that exists while the overlay
// is visible. Each Arm uses a new generation token so a click delivered
// late for an earlier show can be told apart.
type InputMonitor struct {
	clicks ports.ClickSource
	log    logging.Logger

	sub   ports.Subscription
	token ports.ClickToken
	gen   ports.ClickToken
}

// NewInputMonitor creates a monitor over clicks.
func NewInputMonitor(clicks ports.ClickSource, log logging.Logger) *InputMonitor {
	return &InputMonitor{clicks: clicks, log: log}
}

// Arm subscribes with a fresh token. onClick is called from whatever
// goroutine the click source delivers on.
func (m *InputMonitor) Arm(onClick func(ports.ClickToken)) (ports.ClickToken, error) {
	if m.sub != nil {
		return m.token, nil
	}
	m.gen++
	sub, err := m.clicks.Subscribe(m.gen, onClick)
	if err != nil {
		return 0, err
	}
	m.sub = sub
	m.token = m.gen
	return m.token, nil
}

// Disarm cancels the subscription. Cancel failures are logged; the handle
// is dropped either way.
func (m *InputMonitor) Disarm() {
	if m.sub == nil {
		return
	}
	if err := m.sub.Cancel(); err != nil {
		m.log.Debug("click monitor cancel failed", "token", uint64(m.token), "error", err.Error())
	}
	m.sub = nil
	m.token = 0
}

// Armed reports whether a subscription is live.
func (m *InputMonitor) Armed() bool {
	return m.sub != nil
}

// Token returns the live token, zero when disarmed.
func (m *InputMonitor) Token() ports.ClickToken {
	return m.token
}
