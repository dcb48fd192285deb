package tmux

import (
	"errors"
	"fmt"
	"strings"
)

// SetGlobalOption sets a global option, including @user options.
func (c *DefaultClient) SetGlobalOption(name, value string) error {
	if _, _, err := c.Run("set-option", "-g", name, value); err != nil {
		return fmt.Errorf("failed to set option %s: %w", name, err)
	}
	return nil
}

// UnsetGlobalOption removes a global option.
func (c *DefaultClient) UnsetGlobalOption(name string) error {
	if _, _, err := c.Run("set-option", "-gu", name); err != nil {
		return fmt.Errorf("failed to unset option %s: %w", name, err)
	}
	return nil
}

// RefreshStatus redraws status lines. The daemon has no current client, so
// an empty client refreshes each attached client in turn.
func (c *DefaultClient) RefreshStatus(client string) error {
	if client != "" {
		_, _, err := c.Run("refresh-client", "-S", "-t", client)
		return err
	}
	clients, err := c.ListClients()
	if err != nil {
		return err
	}
	var errs []error
	for _, cl := range clients {
		if _, _, err := c.Run("refresh-client", "-S", "-t", cl.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BindKey binds key in table. Each element of command is passed as its own
// argument, so a literal ";" separates tmux commands.
func (c *DefaultClient) BindKey(table, key string, command ...string) error {
	if key == "" || len(command) == 0 {
		return ErrInvalidTarget
	}
	args := append([]string{"bind-key", "-T", table, key}, command...)
	if _, _, err := c.Run(args...); err != nil {
		return fmt.Errorf("failed to bind %s in %s: %w", key, table, err)
	}
	return nil
}

// UnbindKey removes a binding. A missing binding is not an error.
func (c *DefaultClient) UnbindKey(table, key string) error {
	existing, err := c.ListKeys(table, key)
	if err != nil {
		return err
	}
	if existing == "" {
		return nil
	}
	if _, _, err := c.Run("unbind-key", "-T", table, key); err != nil {
		return fmt.Errorf("failed to unbind %s in %s: %w", key, table, err)
	}
	return nil
}

// ListKeys returns the bind-key lines for key in table, or "" when unbound.
func (c *DefaultClient) ListKeys(table, key string) (string, error) {
	stdout, _, err := c.Run("list-keys", "-T", table, key)
	if err != nil {
		if errors.Is(err, ErrTmuxNotRunning) {
			return "", err
		}
		// tmux exits non-zero for a key with no binding in the table
		return "", nil
	}
	return strings.TrimSpace(stdout), nil
}

// SourceFile loads a tmux config file.
func (c *DefaultClient) SourceFile(path string) error {
	if _, _, err := c.Run("source-file", path); err != nil {
		return fmt.Errorf("failed to source %s: %w", path, err)
	}
	return nil
}
