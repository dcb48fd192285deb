package tmuxhost

import (
	"fmt"

	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// SettingsSession is the focus-taking settings surface: a session running
// the settings TUI that the user's client is switched onto.
type SettingsSession struct {
	h *Host
}

var _ ports.SecondarySurface = (*SettingsSession)(nil)

// SettingsSession returns the SecondarySurface adapter.
func (h *Host) SettingsSession() *SettingsSession { return &SettingsSession{h: h} }

// RootReady reports whether the root session carries the daemon socket.
// The settings TUI inherits it from there; without it the TUI could not
// reach the daemon.
func (s *SettingsSession) RootReady() bool {
	v, err := s.h.client.GetSessionEnvironment(s.h.root, SocketEnv)
	return err == nil && v != ""
}

// Exists reports whether the settings session is running.
func (s *SettingsSession) Exists() bool {
	ok, err := s.h.client.HasNamedSession(s.h.settings)
	return err == nil && ok
}

// Open starts the settings session with the environment of the root
// session.
func (s *SettingsSession) Open() error {
	env := make(map[string]string, len(s.h.env))
	for k := range s.h.env {
		v, err := s.h.client.GetSessionEnvironment(s.h.root, k)
		if err != nil {
			return fmt.Errorf("read %s from %s: %w", k, s.h.root, err)
		}
		env[k] = v
	}
	if err := s.h.client.NewDetachedSession(s.h.settings, SettingsWindow, env, s.h.exe, "settings-ui"); err != nil {
		return err
	}
	if _, _, err := s.h.client.Run("set-option", "-t", "="+s.h.settings, "status", "off"); err != nil {
		s.h.log.Debug("hide settings status line failed", "error", err.Error())
	}
	// when the session dies the user's client moves on instead of detaching
	if _, _, err := s.h.client.Run("set-option", "-t", "="+s.h.settings, "detach-on-destroy", "off"); err != nil {
		s.h.log.Debug("keep client on settings exit failed", "error", err.Error())
	}
	return nil
}

// BringToFront selects the settings window.
func (s *SettingsSession) BringToFront() error {
	return s.h.client.SelectPane("="+s.h.settings+":"+SettingsWindow, "")
}

// Close kills the settings session.
func (s *SettingsSession) Close() error {
	return s.h.client.KillSession(s.h.settings)
}
