package tmuxhost

import (
	"errors"
	"fmt"
	"strings"
)

// RootSession is the hidden session created before anything the user
// sees. It carries the propagated environment and the panel window the
// popup attaches to.
type RootSession struct {
	h *Host
}

// RootSession returns the root session manager.
func (h *Host) RootSession() *RootSession { return &RootSession{h: h} }

// Ensure creates the session and panel window when missing and refreshes
// their environment.
func (r *RootSession) Ensure() error {
	exists, err := r.h.client.HasNamedSession(r.h.root)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.h.client.NewDetachedSession(r.h.root, PanelWindow, r.h.env, r.h.exe, "panel"); err != nil {
			return err
		}
	}
	for k, v := range r.h.env {
		if err := r.h.client.SetSessionEnvironment(r.h.root, k, v); err != nil {
			return fmt.Errorf("propagate %s: %w", k, err)
		}
	}
	if exists {
		if err := r.ensurePanel(); err != nil {
			return err
		}
	}
	if _, _, err := r.h.client.Run("set-option", "-t", "="+r.h.root, "status", "off"); err != nil {
		r.h.log.Debug("hide root status line failed", "error", err.Error())
	}
	// the panel learns it gained or lost focus from focus events
	if err := r.h.client.SetGlobalOption("focus-events", "on"); err != nil {
		r.h.log.Debug("enable focus events failed", "error", err.Error())
	}
	return nil
}

func (r *RootSession) ensurePanel() error {
	out, _, err := r.h.client.Run("list-windows", "-t", "="+r.h.root, "-F", "#{window_name}")
	if err != nil {
		return err
	}
	for _, name := range strings.Split(strings.TrimSpace(out), "\n") {
		if name == PanelWindow {
			return nil
		}
	}
	_, _, err = r.h.client.Run("new-window", "-d", "-t", "="+r.h.root+":", "-n", PanelWindow, r.h.exe, "panel")
	return err
}

// Kill removes the root and settings sessions.
func (r *RootSession) Kill() error {
	return errors.Join(
		r.h.client.KillSession(r.h.settings),
		r.h.client.KillSession(r.h.root),
	)
}
