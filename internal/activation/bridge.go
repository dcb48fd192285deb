// Package activation coordinates the settings surface, the one surface
// that takes real focus, with the process activation policy.
package activation

import (
	"context"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/mainloop"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// DefaultAppearTimeout is how long Open waits for the appearance
// acknowledgement before activating anyway.
const DefaultAppearTimeout = 750 * time.Millisecond

// DefaultWatchInterval is how often a Foreground bridge checks that the
// settings surface still exists.
const DefaultWatchInterval = 2 * time.Second

// Deps are the collaborators of a Bridge.
type Deps struct {
	Schedule  mainloop.Scheduler
	Host      ports.PolicyHost
	Secondary ports.SecondarySurface
	// AppearTimeout defaults to DefaultAppearTimeout.
	AppearTimeout time.Duration
	// WatchInterval defaults to DefaultWatchInterval.
	WatchInterval time.Duration
	Log           logging.Logger
}

// Snapshot is the bridge state as seen by the loop.
type Snapshot struct {
	Policy ports.Policy
	// Pending is true between constructing the surface and its ack.
	Pending bool
	Opens   int
}

// Bridge is the SettingsBridge. Policy is Background until Open and goes
// back to Background on Closed, or as soon as the settings surface is
// found gone without having said so (killed session, crashed TUI, lost
// close request).
type Bridge struct {
	schedule  mainloop.Scheduler
	host      ports.PolicyHost
	secondary ports.SecondarySurface
	timeout   time.Duration
	interval  time.Duration
	log       logging.Logger

	// loop-owned
	policy  ports.Policy
	pending bool
	timer   *time.Timer
	watch   *time.Timer
	opens   int
}

// NewBridge creates a bridge in the Background policy.
func NewBridge(d Deps) *Bridge {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	timeout := d.AppearTimeout
	if timeout <= 0 {
		timeout = DefaultAppearTimeout
	}
	interval := d.WatchInterval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Bridge{
		schedule:  d.Schedule,
		host:      d.Host,
		secondary: d.Secondary,
		timeout:   timeout,
		interval:  interval,
		log:       log.With("component", "activation"),
		policy:    ports.Background,
	}
}

// Open shows the settings surface, reusing it when it already exists.
func (b *Bridge) Open() {
	b.schedule.Post(b.open)
}

// Appeared acknowledges that the settings surface drew its first frame.
func (b *Bridge) Appeared() {
	b.schedule.Post(func() {
		if !b.pending {
			return
		}
		b.log.Debug("settings surface appeared")
		b.activate()
	})
}

// Closed reverts the policy once the settings surface is gone.
func (b *Bridge) Closed() {
	b.schedule.Post(func() { b.revert("closed") })
}

// Snapshot returns the current state, after dropping a Foreground policy
// whose settings surface no longer exists.
func (b *Bridge) Snapshot(ctx context.Context) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	b.schedule.Post(func() {
		b.reconcile()
		ch <- Snapshot{Policy: b.policy, Pending: b.pending, Opens: b.opens}
	})
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (b *Bridge) open() {
	if !b.secondary.RootReady() {
		b.log.Debug("settings open skipped, root session missing")
		return
	}
	if b.pending {
		// the ack or the fallback timer will activate it
		return
	}

	if b.policy != ports.Foreground {
		if err := b.host.SetActivationPolicy(ports.Foreground); err != nil {
			b.log.Warn("set activation policy failed", "error", err.Error())
			return
		}
		b.policy = ports.Foreground
	}

	if b.secondary.Exists() {
		if err := b.secondary.BringToFront(); err != nil {
			b.log.Debug("settings bring to front failed", "error", err.Error())
		}
		b.activate()
		b.startWatch()
		return
	}

	if err := b.secondary.Open(); err != nil {
		b.log.Warn("settings open failed", "error", err.Error())
		if err := b.host.SetActivationPolicy(ports.Background); err != nil {
			b.log.Debug("revert activation policy failed", "error", err.Error())
		}
		b.policy = ports.Background
		return
	}
	b.opens++
	b.pending = true
	b.timer = b.schedule.After(b.timeout, func() {
		if !b.pending {
			return
		}
		b.log.Warn("settings surface did not acknowledge, activating anyway", "timeout", b.timeout.String())
		b.activate()
	})
	b.startWatch()
}

// revert returns to Background. why is only logged.
func (b *Bridge) revert(why string) {
	b.stopTimer()
	b.stopWatch()
	b.pending = false
	if b.policy == ports.Background {
		return
	}
	if err := b.host.SetActivationPolicy(ports.Background); err != nil {
		b.log.Warn("revert activation policy failed", "error", err.Error())
	}
	b.policy = ports.Background
	b.log.Info("settings closed", "policy", b.policy.String(), "by", why)
}

func (b *Bridge) reconcile() {
	if b.policy == ports.Foreground && !b.secondary.Exists() {
		b.revert("surface gone")
	}
}

func (b *Bridge) startWatch() {
	if b.watch != nil {
		return
	}
	var t *time.Timer
	t = b.schedule.After(b.interval, func() {
		if b.watch != t {
			// stopped after it had already fired
			return
		}
		b.watch = nil
		if b.policy != ports.Foreground {
			return
		}
		b.reconcile()
		if b.policy == ports.Foreground {
			b.startWatch()
		}
	})
	b.watch = t
}

func (b *Bridge) stopWatch() {
	if b.watch != nil {
		b.watch.Stop()
		b.watch = nil
	}
}

func (b *Bridge) activate() {
	b.stopTimer()
	b.pending = false
	if err := b.host.ActivateProcess(); err != nil {
		b.log.Debug("activate settings failed", "error", err.Error())
	}
}

func (b *Bridge) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
