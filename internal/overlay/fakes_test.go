package overlay

import (
	"errors"
	"sync"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// journal records host calls in order across all fakes.
type journal struct {
	mu    sync.Mutex
	calls []string
}

func (j *journal) add(call string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, call)
}

func (j *journal) take() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.calls
	j.calls = nil
	return out
}

func (j *journal) count(call string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, c := range j.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeDisplay struct {
	screen ports.Screen
	ok     bool
}

func (d *fakeDisplay) PrimaryBounds() (ports.Screen, bool) { return d.screen, d.ok }

type fakeFocus struct {
	j         *journal
	front     ports.FocusTarget
	err       error
	activated []ports.FocusTarget
}

func (f *fakeFocus) Frontmost(string) (ports.FocusTarget, error) {
	f.j.add("frontmost")
	return f.front, f.err
}

func (f *fakeFocus) Activate(t ports.FocusTarget) error {
	f.j.add("activate")
	f.activated = append(f.activated, t)
	return nil
}

type fakeSurface struct {
	j          *journal
	presentErr error
	focusErr   error
	onDismiss  func(ports.DismissReason)
	presented  []ports.Rect
}

func (s *fakeSurface) Present(_ ports.Screen, frame ports.Rect) error {
	s.j.add("present")
	if s.presentErr != nil {
		return s.presentErr
	}
	s.presented = append(s.presented, frame)
	return nil
}

func (s *fakeSurface) Focus() error {
	s.j.add("focus")
	return s.focusErr
}

func (s *fakeSurface) Dismiss() error {
	s.j.add("dismiss")
	return nil
}

func (s *fakeSurface) OnDismissRequest(fn func(ports.DismissReason)) { s.onDismiss = fn }

type fakeSub struct {
	clicks *fakeClicks
	token  ports.ClickToken
}

func (s *fakeSub) Cancel() error {
	s.clicks.j.add("unsubscribe")
	s.clicks.mu.Lock()
	defer s.clicks.mu.Unlock()
	delete(s.clicks.live, s.token)
	return nil
}

type fakeClicks struct {
	j    *journal
	err  error
	mu   sync.Mutex
	live map[ports.ClickToken]func(ports.ClickToken)
	// every callback ever registered, so tests can replay stale clicks
	all map[ports.ClickToken]func(ports.ClickToken)
}

func newFakeClicks(j *journal) *fakeClicks {
	return &fakeClicks{
		j:    j,
		live: map[ports.ClickToken]func(ports.ClickToken){},
		all:  map[ports.ClickToken]func(ports.ClickToken){},
	}
}

func (c *fakeClicks) Subscribe(token ports.ClickToken, fn func(ports.ClickToken)) (ports.Subscription, error) {
	c.j.add("subscribe")
	if c.err != nil {
		return nil, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live[token] = fn
	c.all[token] = fn
	return &fakeSub{clicks: c, token: token}, nil
}

// click delivers a click with token to the callback registered for it,
// live or not, the way a delayed run-shell would.
func (c *fakeClicks) click(token ports.ClickToken) {
	c.mu.Lock()
	fn := c.all[token]
	c.mu.Unlock()
	if fn != nil {
		fn(token)
	}
}

func (c *fakeClicks) liveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}

type recordedHook struct {
	point string
	env   map[string]string
}

type fakeHooks struct {
	mu    sync.Mutex
	calls []recordedHook
}

func (h *fakeHooks) RunAsync(point string, env map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, recordedHook{point: point, env: env})
}

var errHost = errors.New("host failure")
