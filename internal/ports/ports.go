// Package ports defines the boundary interfaces between the overlay
// subsystem and the host that renders it. The overlay, badge and
// activation packages depend only on these; internal/tmuxhost implements
// them against a tmux server and tests use fakes.
package ports

import "fmt"

// Rect is a cell-addressed rectangle on a client terminal.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Screen is the display the overlay will be presented on.
type Screen struct {
	// Client is the tmux client name (its tty), empty in tests that do
	// not care.
	Client string
	Bounds Rect
}

// Display reports the primary screen. ok is false when no user client is
// attached, in which case showing the overlay is a no-op.
type Display interface {
	PrimaryBounds() (screen Screen, ok bool)
}

// FocusTarget identifies what held input focus before the overlay showed.
// The zero value means "none".
type FocusTarget struct {
	Client    string
	SessionID string
	WindowID  string
	PaneID    string
}

// IsZero reports whether the target is "none".
func (t FocusTarget) IsZero() bool {
	return t == FocusTarget{}
}

// FocusSource reads and gently restores the frontmost target.
type FocusSource interface {
	// Frontmost returns the current target, or the zero value when the
	// overlay process itself is frontmost.
	Frontmost(client string) (FocusTarget, error)
	// Activate reselects target only if it still exists and its client
	// has not moved elsewhere; otherwise it does nothing.
	Activate(target FocusTarget) error
}

// DismissReason says why a dismissal was requested.
type DismissReason string

const (
	ReasonToggle        DismissReason = "toggle"
	ReasonOutsideClick  DismissReason = "outside-click"
	ReasonCloseKey      DismissReason = "close-key"
	ReasonFocusLost     DismissReason = "focus-lost"
	ReasonSurfaceClosed DismissReason = "surface-closed"
	ReasonRequest       DismissReason = "request"
)

// ParseDismissReason maps wire text onto a reason. Unknown text maps to
// ReasonRequest.
func ParseDismissReason(s string) DismissReason {
	switch r := DismissReason(s); r {
	case ReasonToggle, ReasonOutsideClick, ReasonCloseKey, ReasonFocusLost, ReasonSurfaceClosed:
		return r
	default:
		return ReasonRequest
	}
}

// Surface is the reusable overlay. It never dismisses itself; it reports
// close gestures through the callback registered with OnDismissRequest.
type Surface interface {
	Present(screen Screen, frame Rect) error
	Focus() error
	Dismiss() error
	OnDismissRequest(fn func(DismissReason))
}

// ClickToken is the generation a click subscription was armed for.
type ClickToken uint64

// Subscription is a live click monitor.
type Subscription interface {
	Cancel() error
}

// ClickSource subscribes to pointer presses anywhere on the host.
type ClickSource interface {
	Subscribe(token ClickToken, fn func(ClickToken)) (Subscription, error)
}

// Indicator is the single text slot of the status indicator.
type Indicator interface {
	SetBadge(text string) error
}

// Policy is the process activation policy.
type Policy int

const (
	Background Policy = iota
	Foreground
)

func (p Policy) String() string {
	if p == Foreground {
		return "foreground"
	}
	return "background"
}

// PolicyHost applies activation policy changes and forces activation of
// the secondary surface.
type PolicyHost interface {
	SetActivationPolicy(p Policy) error
	ActivateProcess() error
}

// SecondarySurface is the focus-taking settings surface.
type SecondarySurface interface {
	// RootReady reports whether the invisible root surface exists.
	RootReady() bool
	// Exists reports whether the surface is constructed and open.
	Exists() bool
	Open() error
	BringToFront() error
}

// ChangeSource is the read side of the data-record store: a count and a
// one-shot channel closed on the next change.
type ChangeSource interface {
	Observe() (count int, changed <-chan struct{})
}
