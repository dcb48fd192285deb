package tmuxhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/tmux"
)

const (
	testExe    = "/usr/bin/tmux-quicktask"
	testSocket = "/tmp/qt.sock"
	testClient = "/dev/pts/1"
)

func newTestHost(t *testing.T) (*Host, *tmux.MockClient) {
	t.Helper()
	m := new(tmux.MockClient)
	h := New(Options{
		Client: m,
		Exe:    testExe,
		Env:    map[string]string{SocketEnv: testSocket},
	})
	return h, m
}

func userClient() tmux.Client {
	return tmux.Client{
		Name:        testClient,
		Activity:    10,
		Width:       200,
		Height:      50,
		SessionName: "work",
		SessionID:   "$1",
		WindowID:    "@2",
		PaneID:      "%3",
	}
}

func TestNewDefaults(t *testing.T) {
	h := New(Options{})
	assert.Equal(t, DefaultRootSession, h.RootSessionName())
	assert.Equal(t, DefaultSettingsSession, h.SettingsSessionName())
	assert.Equal(t, "tmux", h.tmuxBinary)
}

func TestCommand(t *testing.T) {
	h := New(Options{
		Exe: "/opt/my tools/tmux-quicktask",
		Env: map[string]string{SocketEnv: testSocket, "B": "it's"},
	})

	got := h.Command("dismiss", "--reason", "outside-click")

	assert.Equal(t, `B='it'\''s' TMUX_QUICKTASK_SOCKET_PATH=/tmp/qt.sock '/opt/my tools/tmux-quicktask' dismiss --reason outside-click`, got)
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"/a/b-c_d.e", "/a/b-c_d.e"},
		{"", "''"},
		{"two words", "'two words'"},
		{"a'b", `'a'\''b'`},
		{"$HOME", "'$HOME'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, shellQuote(tt.in))
		})
	}
}

func TestPrimaryClientSkipsOwnSessions(t *testing.T) {
	h, m := newTestHost(t)
	older := userClient()
	older.Name = "/dev/pts/0"
	older.Activity = 5
	nested := userClient()
	nested.Name = "/dev/pts/9"
	nested.Activity = 99
	nested.SessionName = DefaultRootSession
	m.On("ListClients").Return([]tmux.Client{older, nested, userClient()}, nil)

	c, err := h.primaryClient()

	require.NoError(t, err)
	assert.Equal(t, testClient, c.Name)
}

func TestPrimaryClientNone(t *testing.T) {
	h, m := newTestHost(t)
	m.On("ListClients").Return([]tmux.Client{}, nil)

	_, err := h.primaryClient()

	assert.ErrorIs(t, err, ErrNoClient)
}

func TestDisplayPrimaryBounds(t *testing.T) {
	h, m := newTestHost(t)
	m.On("ListClients").Return([]tmux.Client{userClient()}, nil)

	screen, ok := h.Display().PrimaryBounds()

	require.True(t, ok)
	assert.Equal(t, testClient, screen.Client)
	assert.Equal(t, 200, screen.Bounds.Width)
	assert.Equal(t, 50, screen.Bounds.Height)
}

func TestDisplayWithoutClient(t *testing.T) {
	h, m := newTestHost(t)
	m.On("ListClients").Return([]tmux.Client{}, nil)

	_, ok := h.Display().PrimaryBounds()

	assert.False(t, ok)
}
