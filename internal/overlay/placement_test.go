package overlay

import (
	"testing"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
	"github.com/stretchr/testify/assert"
)

func TestFrame(t *testing.T) {
	cases := []struct {
		name   string
		p      Placement
		bounds ports.Rect
		want   ports.Rect
	}{
		{
			name:   "spotlight position on a standard terminal",
			p:      DefaultPlacement,
			bounds: ports.Rect{Width: 80, Height: 24},
			want:   ports.Rect{X: 10, Y: 2, Width: 60, Height: 16},
		},
		{
			name:   "no bias is exactly centred",
			p:      Placement{Width: 40, Height: 10, TopBias: 0},
			bounds: ports.Rect{Width: 100, Height: 30},
			want:   ports.Rect{X: 30, Y: 10, Width: 40, Height: 10},
		},
		{
			name:   "oversized panel is clamped to the screen",
			p:      Placement{Width: 300, Height: 100, TopBias: 10},
			bounds: ports.Rect{Width: 80, Height: 24},
			want:   ports.Rect{X: 0, Y: 0, Width: 80, Height: 24},
		},
		{
			name:   "offset bounds are respected",
			p:      Placement{Width: 20, Height: 4, TopBias: 10},
			bounds: ports.Rect{X: 5, Y: 3, Width: 40, Height: 20},
			want:   ports.Rect{X: 15, Y: 9, Width: 20, Height: 4},
		},
		{
			name:   "large bias stops at the top edge",
			p:      Placement{Width: 20, Height: 20, TopBias: 50},
			bounds: ports.Rect{Width: 40, Height: 24},
			want:   ports.Rect{X: 10, Y: 0, Width: 20, Height: 20},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Frame(tc.bounds))
		})
	}
}

func TestFrameIsAboveCentre(t *testing.T) {
	bounds := ports.Rect{Width: 200, Height: 60}
	centred := Placement{Width: 60, Height: 16}.Frame(bounds)
	biased := DefaultPlacement.Frame(bounds)
	assert.Equal(t, centred.X, biased.X)
	assert.Equal(t, 6, centred.Y-biased.Y)
}
