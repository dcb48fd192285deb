package tmux

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
)

// ValidatePaneExists checks if a pane exists in a given session and window.
func (c *DefaultClient) ValidatePaneExists(sessionID, windowID, paneID string) (bool, error) {
	if sessionID == "" || windowID == "" {
		return false, ErrInvalidTarget
	}
	target := sessionID + ":" + windowID
	stdout, stderr, err := c.Run("list-panes", "-t", target, "-F", "#{pane_id}")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return false, fmt.Errorf("failed to list panes: %w", err)
	}

	paneID = strings.TrimSpace(paneID)
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		if strings.TrimSpace(line) == paneID {
			return true, nil
		}
	}
	return false, nil
}

// SelectPane selects the window and then the pane. An empty paneID selects
// the window only.
func (c *DefaultClient) SelectPane(windowID, paneID string) error {
	if windowID == "" {
		return ErrInvalidTarget
	}
	if _, _, err := c.Run("select-window", "-t", windowID); err != nil {
		return fmt.Errorf("select window %s: %w", windowID, err)
	}
	if paneID == "" {
		return nil
	}
	if _, _, err := c.Run("select-pane", "-t", paneID); err != nil {
		return fmt.Errorf("select pane %s: %w", paneID, err)
	}
	return nil
}

// SwitchClient moves client to target.
func (c *DefaultClient) SwitchClient(client, target string) error {
	if client == "" || target == "" {
		return ErrInvalidTarget
	}
	if _, _, err := c.Run("switch-client", "-c", client, "-t", target); err != nil {
		return fmt.Errorf("switch client %s to %s: %w", client, target, err)
	}
	return nil
}
