package tmuxhost

import "github.com/cristianoliveira/tmux-quicktask/internal/ports"

// Focus reads and restores a client's session, window and pane.
type Focus struct {
	h *Host
}

var _ ports.FocusSource = (*Focus)(nil)

// Focus returns the FocusSource adapter.
func (h *Host) Focus() *Focus { return &Focus{h: h} }

// Frontmost returns what client is looking at. A client that is gone or
// already sitting on one of our sessions yields "none".
func (f *Focus) Frontmost(client string) (ports.FocusTarget, error) {
	c, ok, err := f.h.findClient(client)
	if err != nil || !ok || f.h.owns(c.SessionName) {
		return ports.FocusTarget{}, err
	}
	return ports.FocusTarget{
		Client:    c.Name,
		SessionID: c.SessionID,
		WindowID:  c.WindowID,
		PaneID:    c.PaneID,
	}, nil
}

// Activate brings client back to target when it was left parked on one
// of our sessions. A client that is anywhere else either never moved or
// was moved by the user (a click, a key binding), and is left alone. A
// detached client or a closed pane is also left alone.
func (f *Focus) Activate(target ports.FocusTarget) error {
	if target.IsZero() {
		return nil
	}
	c, ok, err := f.h.findClient(target.Client)
	if err != nil || !ok {
		return err
	}
	if !f.h.owns(c.SessionName) {
		return nil
	}
	exists, err := f.h.client.ValidatePaneExists(target.SessionID, target.WindowID, target.PaneID)
	if err != nil || !exists {
		return err
	}
	return f.h.client.SwitchClient(target.Client, target.PaneID)
}
