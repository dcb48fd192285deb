// Package overlay owns the visibility state of the quick-task panel.
//
// Controller is the only thing allowed to show or hide the surface. Its
// public methods may be called from any goroutine; they post onto the UI
// loop and return at once. Everything that reads or writes state runs on
// that loop, which is what makes show and hide idempotent under
// concurrent triggers.
package overlay

import (
	"context"
	"strconv"

	"github.com/cristianoliveira/tmux-quicktask/internal/hooks"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/mainloop"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// State is the overlay visibility.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// HookRunner runs user hooks off the loop.
type HookRunner interface {
	RunAsync(point string, env map[string]string)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Dispatch  mainloop.Dispatcher
	Display   ports.Display
	Focus     ports.FocusSource
	Surface   ports.Surface
	Clicks    ports.ClickSource
	Placement Placement
	Hooks     HookRunner
	Log       logging.Logger
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	State   State
	Armed   bool
	Token   ports.ClickToken
	Capture ports.FocusTarget
	Screen  ports.Screen
	Frame   ports.Rect
	// LastReason is why the overlay was last hidden.
	LastReason ports.DismissReason
}

// Controller is the VisibilityController.
type Controller struct {
	dispatch  mainloop.Dispatcher
	display   ports.Display
	surface   ports.Surface
	ledger    *FocusLedger
	monitor   *InputMonitor
	placement Placement
	hooks     HookRunner
	log       logging.Logger

	// loop-owned
	state      State
	screen     ports.Screen
	frame      ports.Rect
	lastReason ports.DismissReason
}

// NewController wires a controller and registers it as the surface's
// dismissal sink.
func NewController(d Deps) *Controller {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "overlay")
	placement := d.Placement
	if placement == (Placement{}) {
		placement = DefaultPlacement
	}
	c := &Controller{
		dispatch:  d.Dispatch,
		display:   d.Display,
		surface:   d.Surface,
		ledger:    NewFocusLedger(d.Focus, log),
		monitor:   NewInputMonitor(d.Clicks, log),
		placement: placement,
		hooks:     d.Hooks,
		log:       log,
	}
	d.Surface.OnDismissRequest(c.RequestDismiss)
	return c
}

// Toggle hides the overlay when visible and shows it otherwise.
func (c *Controller) Toggle() {
	c.dispatch.Post(func() {
		if c.state == Visible {
			c.hide(ports.ReasonToggle)
			return
		}
		c.show()
	})
}

// Show presents the overlay. No-op when already visible or when no screen
// is available.
func (c *Controller) Show() {
	c.dispatch.Post(c.show)
}

// Hide dismisses the overlay. No-op when already hidden.
func (c *Controller) Hide() {
	c.RequestDismiss(ports.ReasonRequest)
}

// RequestDismiss is the single entry for every dismissal producer: close
// key, focus loss, surface exit and explicit requests. Redundant requests
// collapse on the hidden-state guard.
func (c *Controller) RequestDismiss(reason ports.DismissReason) {
	c.dispatch.Post(func() { c.hide(reason) })
}

// RequestDismissFor is RequestDismiss for a producer that saw a particular
// show, named by its click token. It is dropped when that show is over.
func (c *Controller) RequestDismissFor(token ports.ClickToken, reason ports.DismissReason) {
	c.dispatch.Post(func() { c.dismissFor(token, reason) })
}

// Snapshot returns the state as seen by the loop.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	c.dispatch.Post(func() { ch <- c.snapshot() })
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		State:      c.state,
		Armed:      c.monitor.Armed(),
		Token:      c.monitor.Token(),
		Capture:    c.ledger.Current(),
		Screen:     c.screen,
		Frame:      c.frame,
		LastReason: c.lastReason,
	}
}

// show runs on the loop.
func (c *Controller) show() {
	if c.state == Visible {
		return
	}
	screen, ok := c.display.PrimaryBounds()
	if !ok {
		c.log.Debug("show skipped, no screen")
		return
	}

	c.ledger.Capture(screen.Client)
	frame := c.placement.Frame(screen.Bounds)

	if err := c.surface.Present(screen, frame); err != nil {
		c.log.Warn("overlay present failed", "client", screen.Client, "error", err.Error())
		c.ledger.Clear()
		return
	}
	if err := c.surface.Focus(); err != nil {
		c.log.Debug("overlay focus failed", "error", err.Error())
	}

	token, err := c.monitor.Arm(c.onClick)
	if err != nil {
		// without a monitor the overlay could not be dismissed by an
		// outside click, so back out of the show entirely
		c.log.Warn("click monitor arm failed", "error", err.Error())
		if derr := c.surface.Dismiss(); derr != nil {
			c.log.Debug("overlay dismiss failed", "error", derr.Error())
		}
		c.ledger.Restore()
		c.ledger.Clear()
		return
	}

	c.screen = screen
	c.frame = frame
	c.state = Visible
	c.log.Info("overlay shown", "client", screen.Client, "frame", frame.String(), "token", uint64(token))
	c.runHook(hooks.PostShow, "")
}

// hide runs on the loop.
func (c *Controller) hide(reason ports.DismissReason) {
	if c.state == Hidden {
		return
	}
	c.monitor.Disarm()
	if err := c.surface.Dismiss(); err != nil {
		c.log.Debug("overlay dismiss failed", "error", err.Error())
	}
	c.state = Hidden
	c.lastReason = reason
	c.ledger.Restore()
	c.ledger.Clear()
	c.log.Info("overlay hidden", "reason", string(reason))
	c.runHook(hooks.PostHide, reason)
}

// onClick is the monitor callback and may run on any goroutine.
func (c *Controller) onClick(token ports.ClickToken) {
	c.RequestDismissFor(token, ports.ReasonOutsideClick)
}

// dismissFor runs on the loop.
func (c *Controller) dismissFor(token ports.ClickToken, reason ports.DismissReason) {
	if c.state != Visible || token != c.monitor.Token() {
		c.log.Debug("stale dismiss ignored", "reason", string(reason), "token", uint64(token), "current", uint64(c.monitor.Token()))
		return
	}
	c.hide(reason)
}

func (c *Controller) runHook(point string, reason ports.DismissReason) {
	if c.hooks == nil {
		return
	}
	env := map[string]string{
		"QUICKTASK_CLIENT":         c.screen.Client,
		"QUICKTASK_DISMISS_REASON": string(reason),
		"QUICKTASK_FRAME":          c.frame.String(),
		"QUICKTASK_TOKEN":          strconv.FormatUint(uint64(c.monitor.Token()), 10),
	}
	c.hooks.RunAsync(point, env)
}
