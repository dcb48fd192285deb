package tmuxhost

import "github.com/cristianoliveira/tmux-quicktask/internal/ports"

// Display reports the user's most recently active client as the screen.
type Display struct {
	h *Host
}

var _ ports.Display = (*Display)(nil)

// Display returns the Display adapter.
func (h *Host) Display() *Display { return &Display{h: h} }

// PrimaryBounds returns false when no user client is attached or tmux
// cannot be reached.
func (d *Display) PrimaryBounds() (ports.Screen, bool) {
	c, err := d.h.primaryClient()
	if err != nil {
		d.h.log.Debug("no primary client", "error", err.Error())
		return ports.Screen{}, false
	}
	if c.Width <= 0 || c.Height <= 0 {
		return ports.Screen{}, false
	}
	return ports.Screen{
		Client: c.Name,
		Bounds: ports.Rect{Width: c.Width, Height: c.Height},
	}, true
}
