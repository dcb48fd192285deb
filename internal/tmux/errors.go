package tmux

import (
	"errors"
	"fmt"
	"strings"
)

// Custom error types for tmux-specific failures.
var (
	// ErrTmuxNotRunning is returned when tmux server is not available.
	ErrTmuxNotRunning = errors.New("tmux server is not running")

	// ErrSessionNotFound is returned when a tmux session cannot be found.
	ErrSessionNotFound = errors.New("tmux session not found")

	// ErrPaneNotFound is returned when a tmux pane or window cannot be found.
	ErrPaneNotFound = errors.New("tmux pane not found")

	// ErrInvalidTarget is returned when a tmux target specification is invalid.
	ErrInvalidTarget = errors.New("invalid tmux target specification")

	// ErrTmuxCommandFailed is returned when a tmux command execution fails.
	ErrTmuxCommandFailed = errors.New("tmux command failed")
)

// classify maps tmux stderr onto a sentinel while keeping the original
// message and exec error in the chain.
func classify(stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)
	sentinel := ErrTmuxCommandFailed
	switch {
	case strings.Contains(lower, "no server running"),
		strings.Contains(lower, "error connecting to"):
		sentinel = ErrTmuxNotRunning
	case strings.Contains(lower, "can't find session"),
		strings.Contains(lower, "session not found"):
		sentinel = ErrSessionNotFound
	case strings.Contains(lower, "can't find pane"),
		strings.Contains(lower, "can't find window"):
		sentinel = ErrPaneNotFound
	case strings.Contains(lower, "can't find client"):
		sentinel = ErrInvalidTarget
	}
	if msg == "" {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, msg, err)
}
