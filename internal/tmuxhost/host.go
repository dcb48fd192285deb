// Package tmuxhost implements the overlay, badge and activation ports on
// top of a tmux server.
//
// The overlay is a display-popup over the whole client that attaches to a
// hidden session holding the panel. The panel reports clicks outside its
// frame back over IPC. The badge is a user option read by the status line.
package tmuxhost

import (
	"errors"
	"sort"
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/tmux"
)

// Default names.
const (
	DefaultRootSession     = "_quicktask"
	DefaultSettingsSession = "_quicktask_settings"
	PanelWindow            = "panel"
	SettingsWindow         = "settings"

	// SocketEnv carries the daemon socket to every process tmux starts
	// for us. It is the config override for socket_path.
	SocketEnv = "TMUX_QUICKTASK_SOCKET_PATH"

	// StatusRange is the range name of the status indicator.
	StatusRange = "quicktask"
)

// ErrNoClient is returned when no user client is attached.
var ErrNoClient = errors.New("no tmux client attached")

// Options configure a Host.
type Options struct {
	Client tmux.TmuxClient
	// Exe is the tmux-quicktask binary that bindings call back into.
	Exe string
	// Env is propagated into the hidden sessions and every callback
	// command. It must at least carry SocketEnv.
	Env             map[string]string
	RootSession     string
	SettingsSession string
	// TmuxSocket is the -L label of the server, empty for the default.
	TmuxSocket string
	// TmuxBinary defaults to "tmux".
	TmuxBinary string
	Log        logging.Logger
}

// Host holds what every adapter shares.
type Host struct {
	client     tmux.TmuxClient
	exe        string
	env        map[string]string
	root       string
	settings   string
	tmuxSocket string
	tmuxBinary string
	log        logging.Logger
}

// New creates a Host.
func New(opts Options) *Host {
	if opts.RootSession == "" {
		opts.RootSession = DefaultRootSession
	}
	if opts.SettingsSession == "" {
		opts.SettingsSession = DefaultSettingsSession
	}
	if opts.TmuxBinary == "" {
		opts.TmuxBinary = "tmux"
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	return &Host{
		client:     opts.Client,
		exe:        opts.Exe,
		env:        opts.Env,
		root:       opts.RootSession,
		settings:   opts.SettingsSession,
		tmuxSocket: opts.TmuxSocket,
		tmuxBinary: opts.TmuxBinary,
		log:        opts.Log.With("component", "tmuxhost"),
	}
}

// Client returns the underlying tmux client.
func (h *Host) Client() tmux.TmuxClient { return h.client }

// RootSessionName is the hidden panel session.
func (h *Host) RootSessionName() string { return h.root }

// SettingsSessionName is the settings session.
func (h *Host) SettingsSessionName() string { return h.settings }

// owns reports whether a session belongs to us; nested popup clients sit
// on these and must never count as the user's display.
func (h *Host) owns(session string) bool {
	return session == h.root || session == h.settings
}

// Command renders a shell command line that runs the binary with args
// and the propagated environment.
func (h *Host) Command(args ...string) string {
	keys := make([]string, 0, len(h.env))
	for k := range h.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+len(args)+1)
	for _, k := range keys {
		parts = append(parts, k+"="+shellQuote(h.env[k]))
	}
	parts = append(parts, shellQuote(h.exe))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// primaryClient is the user's most recently active client.
func (h *Host) primaryClient() (tmux.Client, error) {
	clients, err := h.client.ListClients()
	if err != nil {
		return tmux.Client{}, err
	}
	var best tmux.Client
	found := false
	for _, c := range clients {
		if h.owns(c.SessionName) {
			continue
		}
		if !found || c.Activity > best.Activity {
			best = c
			found = true
		}
	}
	if !found {
		return tmux.Client{}, ErrNoClient
	}
	return best, nil
}

func (h *Host) findClient(name string) (tmux.Client, bool, error) {
	clients, err := h.client.ListClients()
	if err != nil {
		return tmux.Client{}, false, err
	}
	for _, c := range clients {
		if c.Name == name {
			return c, true, nil
		}
	}
	return tmux.Client{}, false, nil
}

// shellQuote wraps s in single quotes unless it is a plain word.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:@%+,", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
