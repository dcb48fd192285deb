// Package badge mirrors the incomplete-task count onto the status
// indicator.
package badge

import (
	"context"
	"strconv"

	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/mainloop"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// Text renders count as indicator text: empty for zero, the decimal count
// otherwise.
func Text(count int) string {
	if count <= 0 {
		return ""
	}
	return strconv.Itoa(count)
}

// Observer re-renders the indicator on every change of the source count.
type Observer struct {
	src       ports.ChangeSource
	indicator ports.Indicator
	dispatch  mainloop.Dispatcher
	log       logging.Logger
}

// NewObserver creates an observer. Renders always go through dispatch.
func NewObserver(src ports.ChangeSource, indicator ports.Indicator, dispatch mainloop.Dispatcher, log logging.Logger) *Observer {
	if log == nil {
		log = logging.Nop()
	}
	return &Observer{
		src:       src,
		indicator: indicator,
		dispatch:  dispatch,
		log:       log.With("component", "badge"),
	}
}

// Run renders the current count, then waits for one change, renders again
// and re-arms, until ctx is done.
func (o *Observer) Run(ctx context.Context) error {
	for {
		count, changed := o.src.Observe()
		o.render(Text(count))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Clear empties the indicator. The daemon calls it on shutdown.
func (o *Observer) Clear() {
	o.render("")
}

func (o *Observer) render(text string) {
	o.dispatch.Post(func() {
		if err := o.indicator.SetBadge(text); err != nil {
			o.log.Debug("badge render failed", "text", text, "error", err.Error())
		}
	})
}
