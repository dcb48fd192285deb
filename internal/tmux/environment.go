package tmux

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
)

// SetEnvironment sets a global tmux environment variable.
func (c *DefaultClient) SetEnvironment(name, value string) error {
	_, stderr, err := c.Run("set-environment", "-g", name, value)
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return fmt.Errorf("failed to set environment variable %s: %w", name, err)
	}
	return nil
}

// GetEnvironment gets a global tmux environment variable value.
func (c *DefaultClient) GetEnvironment(name string) (string, error) {
	stdout, _, err := c.Run("show-environment", "-g", name)
	if err != nil {
		return "", fmt.Errorf("failed to get environment variable %s: %w", name, err)
	}
	return parseEnvLine(stdout, name)
}

// SetSessionEnvironment sets a variable in one session's environment.
func (c *DefaultClient) SetSessionEnvironment(session, name, value string) error {
	if _, _, err := c.Run("set-environment", "-t", exact(session), name, value); err != nil {
		return fmt.Errorf("failed to set %s in session %s: %w", name, session, err)
	}
	return nil
}

// GetSessionEnvironment reads a variable from one session's environment.
func (c *DefaultClient) GetSessionEnvironment(session, name string) (string, error) {
	stdout, _, err := c.Run("show-environment", "-t", exact(session), name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s from session %s: %w", name, session, err)
	}
	return parseEnvLine(stdout, name)
}

// parseEnvLine reads "NAME=value"; tmux prints "-NAME" for removed variables.
func parseEnvLine(out, name string) (string, error) {
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if value, ok := strings.CutPrefix(line, name+"="); ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("environment variable %s not found", name)
}
