package overlay

import (
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// FocusLedger remembers what had focus before the overlay appeared.
// It is only touched from the UI loop.
type FocusLedger struct {
	source   ports.FocusSource
	captured ports.FocusTarget
	log      logging.Logger
}

// NewFocusLedger creates a ledger reading from source.
func NewFocusLedger(source ports.FocusSource, log logging.Logger) *FocusLedger {
	return &FocusLedger{source: source, log: log}
}

// Capture records the frontmost target of client. It must run before the
// overlay takes focus. A read failure records "none".
func (l *FocusLedger) Capture(client string) {
	target, err := l.source.Frontmost(client)
	if err != nil {
		l.log.Debug("focus capture failed", "client", client, "error", err.Error())
		target = ports.FocusTarget{}
	}
	l.captured = target
}

// Restore gently reactivates the captured target. "none" is a no-op.
func (l *FocusLedger) Restore() {
	if l.captured.IsZero() {
		return
	}
	if err := l.source.Activate(l.captured); err != nil {
		l.log.Debug("focus restore failed", "pane", l.captured.PaneID, "error", err.Error())
	}
}

// Clear drops the captured target.
func (l *FocusLedger) Clear() {
	l.captured = ports.FocusTarget{}
}

// Current returns the captured target, zero when none.
func (l *FocusLedger) Current() ports.FocusTarget {
	return l.captured
}
