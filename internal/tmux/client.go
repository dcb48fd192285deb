// Package tmux provides a unified abstraction layer for tmux operations.
// It defines interfaces and types for interacting with tmux sessions, windows, and panes.
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
)

// TmuxClient is an interface that abstracts all tmux operations.
type TmuxClient interface {
	// Version returns the raw "tmux -V" output, e.g. "tmux 3.4".
	Version() (string, error)

	// HasSession checks if tmux server is running.
	HasSession() (bool, error)

	// HasNamedSession checks whether a session with exactly this name exists.
	HasNamedSession(name string) (bool, error)

	// NewDetachedSession creates a detached session whose first window
	// is named window and runs command.
	NewDetachedSession(name, window string, env map[string]string, command ...string) error

	// KillSession kills a session by exact name. A missing session is not an error.
	KillSession(name string) error

	// ListSessions returns all tmux sessions as a map of session ID to name.
	ListSessions() (map[string]string, error)

	// ListClients returns every attached client.
	ListClients() ([]Client, error)

	// ValidatePaneExists checks if a pane exists in a given session and window.
	ValidatePaneExists(sessionID, windowID, paneID string) (bool, error)

	// SelectPane selects windowID and then paneID inside it.
	SelectPane(windowID, paneID string) error

	// SwitchClient moves client to target.
	SwitchClient(client, target string) error

	// SetEnvironment sets a global tmux environment variable.
	SetEnvironment(name, value string) error

	// GetEnvironment gets a global tmux environment variable value.
	GetEnvironment(name string) (string, error)

	// SetSessionEnvironment sets a variable in one session's environment.
	SetSessionEnvironment(session, name, value string) error

	// GetSessionEnvironment reads a variable from one session's environment.
	GetSessionEnvironment(session, name string) (string, error)

	// SetGlobalOption sets a global (server-wide session) option.
	SetGlobalOption(name, value string) error

	// UnsetGlobalOption removes a global option.
	UnsetGlobalOption(name string) error

	// RefreshStatus redraws the status line of client, or of every client
	// when client is empty.
	RefreshStatus(client string) error

	// BindKey binds key in table to a tmux command given as separate args.
	BindKey(table, key string, command ...string) error

	// UnbindKey removes a binding. A missing binding is not an error.
	UnbindKey(table, key string) error

	// ListKeys returns the "bind-key ..." lines for key in table, or "" if unbound.
	ListKeys(table, key string) (string, error)

	// SourceFile loads a tmux config file.
	SourceFile(path string) error

	// Run executes a tmux command with the given arguments.
	Run(args ...string) (string, string, error)

	// RunBlocking executes a long-lived tmux command (a popup) without the
	// client timeout. It returns when the command exits or ctx is done.
	RunBlocking(ctx context.Context, args ...string) error
}

// DefaultClient implements TmuxClient using exec.Command to run tmux.
type DefaultClient struct {
	binary     string
	socketPath string
	timeout    time.Duration
}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		binary:  "tmux",
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *DefaultClient) command(ctx context.Context, args []string) *exec.Cmd {
	cmdArgs := []string{}
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	cmdArgs = append(cmdArgs, args...)
	cmd := exec.CommandContext(ctx, c.binary, cmdArgs...)
	// do not wait on grandchildren that inherited the output pipes
	cmd.WaitDelay = 500 * time.Millisecond
	return cmd
}

// runCommand executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) runCommand(args ...string) (string, string, error) {
	start := time.Now()
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	colors.StructuredDebug("tmux", "run", "started", nil, command, colors.Fields{"args_count": len(args)})
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmd := c.command(ctx, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	fields := colors.Fields{"args_count": len(args), "duration_seconds": time.Since(start).Seconds()}
	if err != nil {
		colors.StructuredDebug("tmux", "run", "failed", err, command, fields)
	} else {
		colors.StructuredDebug("tmux", "run", "completed", nil, command, fields)
	}
	return stdout.String(), stderr.String(), err
}

// Run executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred. Known stderr
// messages are mapped onto the package sentinel errors.
func (c *DefaultClient) Run(args ...string) (string, string, error) {
	stdout, stderr, err := c.runCommand(args...)
	if err != nil {
		return stdout, stderr, fmt.Errorf("tmux %s failed: %w", firstArg(args), classify(stderr, err))
	}
	return stdout, stderr, nil
}

// RunBlocking runs a command that only returns when the user closes it.
// TMUX is removed from the child environment so a nested attach works.
func (c *DefaultClient) RunBlocking(ctx context.Context, args ...string) error {
	cmd := c.command(ctx, args)
	cmd.Env = withoutTmuxEnv(os.Environ())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	colors.StructuredDebug("tmux", "run_blocking", "started", nil, firstArg(args), nil)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("tmux %s failed: %w", firstArg(args), classify(stderr.String(), err))
	}
	return nil
}

func withoutTmuxEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if strings.HasPrefix(kv, "TMUX=") || strings.HasPrefix(kv, "TMUX_PANE=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Version returns the raw "tmux -V" output.
func (c *DefaultClient) Version() (string, error) {
	stdout, _, err := c.Run("-V")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}
