package tmux

import "time"

const (
	// DefaultTimeout is the default timeout for tmux commands.
	DefaultTimeout = 5 * time.Second
)

// ClientOption is a functional option for configuring a TmuxClient.
type ClientOption func(*DefaultClient)

// WithSocketPath sets the tmux socket name (-L) for the client.
func WithSocketPath(socketPath string) ClientOption {
	return func(c *DefaultClient) {
		c.socketPath = socketPath
	}
}

// WithTimeout sets the timeout for tmux command execution.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.timeout = timeout
	}
}

// WithBinary overrides the tmux executable, e.g. a recording stub in tests.
func WithBinary(path string) ClientOption {
	return func(c *DefaultClient) {
		c.binary = path
	}
}
