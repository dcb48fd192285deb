package tmuxhost

import (
	"sync"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// Policy maps the activation policy onto client switching. Foreground
// remembers where the user's client was so the settings session can take
// it over; Background puts the client back if it is still parked on one
// of our sessions.
type Policy struct {
	h     *Host
	focus *Focus

	mu     sync.Mutex
	policy ports.Policy
	prior  ports.FocusTarget
}

var _ ports.PolicyHost = (*Policy)(nil)

// Policy returns the PolicyHost adapter.
func (h *Host) Policy() *Policy { return &Policy{h: h, focus: h.Focus()} }

// SetActivationPolicy switches between Background and Foreground.
func (p *Policy) SetActivationPolicy(policy ports.Policy) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if policy == p.policy {
		return nil
	}
	if policy == ports.Foreground {
		c, err := p.h.primaryClient()
		if err != nil {
			return err
		}
		p.prior = ports.FocusTarget{Client: c.Name, SessionID: c.SessionID, WindowID: c.WindowID, PaneID: c.PaneID}
		p.policy = ports.Foreground
		return nil
	}

	prior := p.prior
	p.prior = ports.FocusTarget{}
	p.policy = ports.Background
	if prior.IsZero() {
		return nil
	}
	c, ok, err := p.h.findClient(prior.Client)
	if err != nil || !ok || !p.h.owns(c.SessionName) {
		return err
	}
	if err := p.h.client.SwitchClient(prior.Client, prior.SessionID); err != nil {
		return err
	}
	return p.focus.Activate(prior)
}

// ActivateProcess switches the remembered client onto the settings
// session.
func (p *Policy) ActivateProcess() error {
	p.mu.Lock()
	client := p.prior.Client
	p.mu.Unlock()
	if client == "" {
		return ErrNoClient
	}
	return p.h.client.SwitchClient(client, "="+p.h.settings)
}

// Current returns the applied policy.
func (p *Policy) Current() ports.Policy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.policy
}
