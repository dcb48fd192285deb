package tmux

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
)

// exact prefixes a session name so tmux never falls back to prefix matching.
func exact(name string) string {
	return "=" + name
}

// HasSession checks if tmux server is running.
func (c *DefaultClient) HasSession() (bool, error) {
	_, stderr, err := c.Run("list-sessions", "-F", "#{session_id}")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return false, ErrTmuxNotRunning
	}
	return true, nil
}

// HasNamedSession checks whether a session with exactly this name exists.
func (c *DefaultClient) HasNamedSession(name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidTarget
	}
	_, _, err := c.Run("has-session", "-t", exact(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrTmuxNotRunning) {
		return false, err
	}
	return false, nil
}

// NewDetachedSession creates a detached session running command in a window
// named window. env entries are set in the session environment before the
// command starts.
func (c *DefaultClient) NewDetachedSession(name, window string, env map[string]string, command ...string) error {
	if name == "" {
		return ErrInvalidTarget
	}
	args := []string{"new-session", "-d", "-s", name}
	if window != "" {
		args = append(args, "-n", window)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+env[k])
	}
	args = append(args, command...)
	if _, _, err := c.Run(args...); err != nil {
		return fmt.Errorf("create session %s: %w", name, err)
	}
	return nil
}

// KillSession kills a session by exact name. A missing session is not an error.
func (c *DefaultClient) KillSession(name string) error {
	_, _, err := c.Run("kill-session", "-t", exact(name))
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("kill session %s: %w", name, err)
	}
	return nil
}

// ListSessions returns all tmux sessions as a map of session ID to name.
func (c *DefaultClient) ListSessions() (map[string]string, error) {
	stdout, stderr, err := c.Run("list-sessions", "-F", "#{session_id}\t#{session_name}")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		id, name, ok := strings.Cut(line, "\t")
		if ok {
			sessions[id] = name
		}
	}
	return sessions, nil
}
