package overlay

import "github.com/cristianoliveira/tmux-quicktask/internal/ports"

// Placement sizes and positions the overlay on a screen.
type Placement struct {
	Width  int
	Height int
	// TopBias raises the overlay from the exact centre by this percentage
	// of the screen height.
	TopBias int
}

// DefaultPlacement matches a spotlight-style panel on an 80x24 terminal.
var DefaultPlacement = Placement{Width: 60, Height: 16, TopBias: 10}

// Frame computes the overlay rectangle inside bounds. The size is clamped
// to the screen, the frame is centred horizontally and lifted by TopBias
// percent of the screen height, never above the top edge.
func (p Placement) Frame(bounds ports.Rect) ports.Rect {
	w := clamp(p.Width, 1, bounds.Width)
	h := clamp(p.Height, 1, bounds.Height)
	x := bounds.X + (bounds.Width-w)/2
	y := bounds.Y + (bounds.Height-h)/2 - bounds.Height*p.TopBias/100
	if y < bounds.Y {
		y = bounds.Y
	}
	return ports.Rect{X: x, Y: y, Width: w, Height: h}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
