package activation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/mainloop"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	calls []string
	err   error
}

func (h *fakeHost) SetActivationPolicy(p ports.Policy) error {
	h.calls = append(h.calls, "policy:"+p.String())
	return h.err
}

func (h *fakeHost) ActivateProcess() error {
	h.calls = append(h.calls, "activate")
	return nil
}

type fakeSettings struct {
	host    *fakeHost
	root    bool
	open    bool
	opens   int
	fronts  int
	openErr error
}

func (s *fakeSettings) RootReady() bool { return s.root }
func (s *fakeSettings) Exists() bool    { return s.open }

func (s *fakeSettings) Open() error {
	s.host.calls = append(s.host.calls, "open")
	if s.openErr != nil {
		return s.openErr
	}
	s.opens++
	s.open = true
	return nil
}

func (s *fakeSettings) BringToFront() error {
	s.host.calls = append(s.host.calls, "front")
	s.fronts++
	return nil
}

func newBridge(t *testing.T, timeout time.Duration) (*Bridge, *mainloop.Manual, *fakeHost, *fakeSettings) {
	t.Helper()
	m := &mainloop.Manual{}
	host := &fakeHost{}
	settings := &fakeSettings{host: host, root: true}
	if timeout == 0 {
		timeout = time.Hour
	}
	b := NewBridge(Deps{Schedule: m, Host: host, Secondary: settings, AppearTimeout: timeout})
	return b, m, host, settings
}

func snapshot(t *testing.T, b *Bridge, m *mainloop.Manual) Snapshot {
	t.Helper()
	ch := make(chan Snapshot, 1)
	go func() {
		s, err := b.Snapshot(context.Background())
		if err == nil {
			ch <- s
		}
	}()
	require.Eventually(t, func() bool { return m.Pending() > 0 }, time.Second, time.Millisecond)
	m.Drain()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
		return Snapshot{}
	}
}

func TestStartsInBackground(t *testing.T) {
	b, m, host, _ := newBridge(t, 0)
	assert.Equal(t, ports.Background, snapshot(t, b, m).Policy)
	assert.Empty(t, host.calls)
}

func TestOpenWithoutRootIsNoop(t *testing.T) {
	b, m, host, settings := newBridge(t, 0)
	settings.root = false
	b.Open()
	m.Drain()
	assert.Empty(t, host.calls)
	assert.Equal(t, ports.Background, snapshot(t, b, m).Policy)
}

func TestOpenWaitsForAppearance(t *testing.T) {
	b, m, host, _ := newBridge(t, 0)
	b.Open()
	m.Drain()

	assert.Equal(t, []string{"policy:foreground", "open"}, host.calls)
	s := snapshot(t, b, m)
	assert.Equal(t, ports.Foreground, s.Policy)
	assert.True(t, s.Pending)

	b.Appeared()
	b.Appeared()
	m.Drain()
	assert.Equal(t, []string{"policy:foreground", "open", "activate"}, host.calls)
	assert.False(t, snapshot(t, b, m).Pending)
}

func TestOpenTwiceReusesSurface(t *testing.T) {
	b, m, host, settings := newBridge(t, 0)
	b.Open()
	m.Drain()
	b.Appeared()
	m.Drain()

	b.Open()
	m.Drain()
	assert.Equal(t, 1, settings.opens)
	assert.Equal(t, 1, settings.fronts)
	assert.Equal(t, []string{"policy:foreground", "open", "activate", "front", "activate"}, host.calls)

	b.Closed()
	m.Drain()
	assert.Equal(t, "policy:background", host.calls[len(host.calls)-1])
	assert.Equal(t, ports.Background, snapshot(t, b, m).Policy)
}

func TestOpenWhilePendingDoesNotDuplicate(t *testing.T) {
	b, m, _, settings := newBridge(t, 0)
	b.Open()
	b.Open()
	m.Drain()
	assert.Equal(t, 1, settings.opens)
	assert.Equal(t, 0, settings.fronts)
}

func TestFallbackActivatesWithoutAck(t *testing.T) {
	b, m, host, _ := newBridge(t, 5*time.Millisecond)
	b.Open()
	m.Drain()

	require.Eventually(t, func() bool { return m.Pending() == 1 }, time.Second, time.Millisecond)
	m.Drain()
	assert.Equal(t, []string{"policy:foreground", "open", "activate"}, host.calls)

	// a late ack after the fallback changes nothing
	b.Appeared()
	m.Drain()
	assert.Len(t, host.calls, 3)
}

func TestAckCancelsFallback(t *testing.T) {
	b, m, host, _ := newBridge(t, 20*time.Millisecond)
	b.Open()
	m.Drain()
	b.Appeared()
	m.Drain()

	time.Sleep(50 * time.Millisecond)
	m.Drain()
	assert.Equal(t, []string{"policy:foreground", "open", "activate"}, host.calls)
}

func TestOpenFailureRevertsPolicy(t *testing.T) {
	b, m, host, settings := newBridge(t, 0)
	settings.openErr = errors.New("no such session")
	b.Open()
	m.Drain()

	assert.Equal(t, []string{"policy:foreground", "open", "policy:background"}, host.calls)
	s := snapshot(t, b, m)
	assert.Equal(t, ports.Background, s.Policy)
	assert.False(t, s.Pending)
}

func TestPolicyFailureAbortsOpen(t *testing.T) {
	b, m, host, settings := newBridge(t, 0)
	host.err = errors.New("no client")
	b.Open()
	m.Drain()
	assert.Equal(t, 0, settings.opens)
	assert.Equal(t, ports.Background, snapshot(t, b, m).Policy)
}

func TestClosedWhileBackgroundIsNoop(t *testing.T) {
	b, m, host, _ := newBridge(t, 0)
	b.Closed()
	m.Drain()
	assert.Empty(t, host.calls)
}

func TestReopenAfterClose(t *testing.T) {
	b, m, host, settings := newBridge(t, 0)
	b.Open()
	m.Drain()
	b.Appeared()
	b.Closed()
	m.Drain()
	settings.open = false

	b.Open()
	m.Drain()
	assert.Equal(t, 2, settings.opens)
	assert.Equal(t, "open", host.calls[len(host.calls)-1])
	assert.Equal(t, 2, snapshot(t, b, m).Opens)
}

func TestSurfaceGoneRevertsPolicy(t *testing.T) {
	m := &mainloop.Manual{}
	host := &fakeHost{}
	settings := &fakeSettings{host: host, root: true}
	b := NewBridge(Deps{Schedule: m, Host: host, Secondary: settings, AppearTimeout: time.Hour, WatchInterval: 5 * time.Millisecond})
	b.Open()
	m.Drain()
	b.Appeared()
	m.Drain()

	// still there: the watch keeps the policy
	require.Eventually(t, func() bool { return m.Pending() > 0 }, time.Second, time.Millisecond)
	m.Drain()
	assert.Equal(t, []string{"policy:foreground", "open", "activate"}, host.calls)

	// the session is killed without a close request
	settings.open = false
	require.Eventually(t, func() bool { return m.Pending() > 0 }, time.Second, time.Millisecond)
	m.Drain()

	assert.Equal(t, []string{"policy:foreground", "open", "activate", "policy:background"}, host.calls)
	assert.Equal(t, ports.Background, snapshot(t, b, m).Policy)

	// and the watch stopped with it
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, m.Pending())
}

func TestSnapshotReconcilesLostSurface(t *testing.T) {
	b, m, host, settings := newBridge(t, 0)
	b.Open()
	m.Drain()
	settings.open = false

	s := snapshot(t, b, m)

	assert.Equal(t, ports.Background, s.Policy)
	assert.False(t, s.Pending)
	assert.Equal(t, "policy:background", host.calls[len(host.calls)-1])
}
