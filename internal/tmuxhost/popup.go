package tmuxhost

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// Popup is the overlay surface: a display-popup on the user's client that
// attaches to the root session, where the panel keeps running between
// shows. Dismissing closes the viewport only.
//
// The popup covers the whole client and the panel draws itself inside the
// overlay frame. Every click on the client then lands in the panel, which
// reports the ones outside the frame as outside clicks.
type Popup struct {
	h *Host

	mu        sync.Mutex
	onDismiss func(ports.DismissReason)
	client    string
	content   ports.Rect
	gen       uint64
	open      bool
	cancel    context.CancelFunc
	done      chan struct{}
}

var _ ports.Surface = (*Popup)(nil)

// Popup returns the Surface adapter.
func (h *Host) Popup() *Popup { return &Popup{h: h} }

// OnDismissRequest registers the single dismissal sink.
func (p *Popup) OnDismissRequest(fn func(ports.DismissReason)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDismiss = fn
}

// Present opens the popup over screen's client with the panel drawn at
// frame. It returns once the popup command is started; display-popup
// itself blocks until the popup closes, so it runs on its own goroutine.
func (p *Popup) Present(screen ports.Screen, frame ports.Rect) error {
	if screen.Client == "" {
		return ErrNoClient
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		return nil
	}
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.open = true
	p.client = screen.Client
	p.cancel = cancel
	p.done = done

	backdrop := screen.Bounds
	if backdrop.Width <= 0 || backdrop.Height <= 0 {
		backdrop = frame
	}
	p.content = ContentFrame(backdrop, frame)

	args := p.args(screen.Client, backdrop)
	go func() {
		defer close(done)
		err := p.h.client.RunBlocking(ctx, args...)
		p.exited(gen, err)
	}()
	return nil
}

// ContentFrame maps frame, in client cells, into the popup content that
// covers backdrop. The popup border takes one cell on every side.
func ContentFrame(backdrop, frame ports.Rect) ports.Rect {
	innerW := max(backdrop.Width-2, 0)
	innerH := max(backdrop.Height-2, 0)
	r := ports.Rect{
		X:      clamp(frame.X-backdrop.X-1, 0, innerW),
		Y:      clamp(frame.Y-backdrop.Y-1, 0, innerH),
		Width:  frame.Width,
		Height: frame.Height,
	}
	r.Width = min(r.Width, innerW-r.X)
	r.Height = min(r.Height, innerH-r.Y)
	return r
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Content returns the panel frame inside the open popup.
func (p *Popup) Content() (ports.Rect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content, p.open
}

func (p *Popup) args(client string, area ports.Rect) []string {
	attach := []string{"TMUX=", shellQuote(p.h.tmuxBinary)}
	if p.h.tmuxSocket != "" {
		attach = append(attach, "-L", shellQuote(p.h.tmuxSocket))
	}
	attach = append(attach, "attach-session", "-t", shellQuote("="+p.h.root+":"+PanelWindow))
	return []string{
		"display-popup",
		"-c", client,
		"-E",
		// tmux places popups by their bottom edge
		"-x", strconv.Itoa(area.X),
		"-y", strconv.Itoa(area.Y + area.Height),
		"-w", strconv.Itoa(area.Width),
		"-h", strconv.Itoa(area.Height),
		strings.Join(attach, " "),
	}
}

// exited runs when display-popup returns. If the popup was not closed by
// Dismiss, the user closed it (detach, or the panel exited), which is
// reported as a dismissal request.
func (p *Popup) exited(gen uint64, err error) {
	p.mu.Lock()
	if gen != p.gen || !p.open {
		p.mu.Unlock()
		return
	}
	p.open = false
	p.cancel = nil
	p.content = ports.Rect{}
	fn := p.onDismiss
	p.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		p.h.log.Debug("popup exited with error", "error", err.Error())
	}
	if fn != nil {
		fn(ports.ReasonSurfaceClosed)
	}
}

// Focus selects the panel window inside the root session; the popup
// itself already receives the client's keys.
func (p *Popup) Focus() error {
	return p.h.client.SelectPane("="+p.h.root+":"+PanelWindow, "")
}

// Dismiss closes the popup. The panel keeps running in the root session.
func (p *Popup) Dismiss() error {
	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return nil
	}
	p.open = false
	p.gen++
	p.content = ports.Rect{}
	client := p.client
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	_, _, err := p.h.client.Run("display-popup", "-C", "-c", client)
	// the waiting display-popup is killed either way; if -C failed this
	// is what takes the popup down
	if cancel != nil {
		cancel()
	}
	return err
}

// Wait blocks until the last popup command has returned.
func (p *Popup) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}
