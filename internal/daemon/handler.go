package daemon

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/overlay"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

var _ ipc.Handler = (*Daemon)(nil)

// Handle answers one control request. Overlay and settings requests only
// post onto the loop; the reply does not wait for them to run.
func (d *Daemon) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Op {
	case ipc.OpPing:
	case ipc.OpToggle:
		d.ctrl.Toggle()
	case ipc.OpShow:
		d.ctrl.Show()
	case ipc.OpHide:
		d.ctrl.Hide()
	case ipc.OpDismiss:
		d.dismiss(req)
	case ipc.OpState:
		return d.state(ctx)
	case ipc.OpSurface:
		return d.surface(ctx)

	case ipc.OpSettingsOpen:
		// the overlay goes away before the settings surface takes focus
		d.ctrl.Hide()
		d.bridge.Open()
	case ipc.OpSettingsReady:
		d.bridge.Appeared()
	case ipc.OpSettingsClosed:
		d.bridge.Closed()

	case ipc.OpAdd:
		t, err := d.store.Add(ctx, req.Title)
		if err != nil {
			return ipc.Fail(err)
		}
		return ipc.Response{OK: true, Task: &t}
	case ipc.OpToggleTask:
		t, err := d.store.Toggle(ctx, req.ID)
		if err != nil {
			return ipc.Fail(err)
		}
		return ipc.Response{OK: true, Task: &t}
	case ipc.OpComplete:
		t, err := d.store.Complete(ctx, req.ID)
		if err != nil {
			return ipc.Fail(err)
		}
		return ipc.Response{OK: true, Task: &t}
	case ipc.OpRename:
		t, err := d.store.Rename(ctx, req.ID, req.Title)
		if err != nil {
			return ipc.Fail(err)
		}
		return ipc.Response{OK: true, Task: &t}
	case ipc.OpMove:
		if err := d.store.Move(ctx, req.ID, req.To); err != nil {
			return ipc.Fail(err)
		}
	case ipc.OpDelete:
		t, err := d.store.Delete(ctx, req.ID)
		if err != nil {
			return ipc.Fail(err)
		}
		return ipc.Response{OK: true, Task: &t}
	case ipc.OpClearCompleted:
		n, err := d.store.ClearCompleted(ctx)
		if err != nil {
			return ipc.Fail(err)
		}
		return ipc.Response{OK: true, Count: n}
	case ipc.OpList:
		return ipc.Response{OK: true, Tasks: d.store.Tasks(), Count: d.store.IncompleteCount()}
	case ipc.OpCount:
		return ipc.Response{OK: true, Count: d.store.IncompleteCount()}

	case ipc.OpShutdown:
		d.log.Info("shutdown requested")
		d.Stop()
	default:
		return ipc.Fail(fmt.Errorf("%w: %q", ipc.ErrUnknownOp, req.Op))
	}
	return ipc.Response{OK: true}
}

// dismiss routes outside clicks through the click monitor. Other reasons
// carrying a token are checked against the live show by the controller;
// both drop tokens from earlier shows.
func (d *Daemon) dismiss(req ipc.Request) {
	reason := ports.ParseDismissReason(req.Reason)
	token := ports.ClickToken(req.Token)
	switch {
	case token == 0:
		d.ctrl.RequestDismiss(reason)
	case reason == ports.ReasonOutsideClick:
		d.clicks.Deliver(token)
	default:
		d.ctrl.RequestDismissFor(token, reason)
	}
}

// surface tells the panel where it is drawn and which token its
// dismissals carry.
func (d *Daemon) surface(ctx context.Context) ipc.Response {
	snap, err := d.ctrl.Snapshot(ctx)
	if err != nil {
		return ipc.Fail(err)
	}
	content, open := d.popup.Content()
	if snap.State != overlay.Visible || !open {
		return ipc.Response{OK: true, Frame: &ipc.Frame{}}
	}
	return ipc.Response{OK: true, Frame: &ipc.Frame{
		Token:  uint64(snap.Token),
		X:      content.X,
		Y:      content.Y,
		Width:  content.Width,
		Height: content.Height,
	}}
}

func (d *Daemon) state(ctx context.Context) ipc.Response {
	snap, err := d.ctrl.Snapshot(ctx)
	if err != nil {
		return ipc.Fail(err)
	}
	bs, err := d.bridge.Snapshot(ctx)
	if err != nil {
		return ipc.Fail(err)
	}
	st := &ipc.State{
		Overlay:         snap.State.String(),
		Armed:           snap.Armed,
		Token:           uint64(snap.Token),
		Client:          snap.Screen.Client,
		LastReason:      string(snap.LastReason),
		Policy:          bs.Policy.String(),
		SettingsPending: bs.Pending,
		SettingsOpens:   bs.Opens,
		Incomplete:      d.store.IncompleteCount(),
	}
	if snap.Frame != (ports.Rect{}) {
		st.Frame = snap.Frame.String()
	}
	return ipc.Response{OK: true, State: st}
}
