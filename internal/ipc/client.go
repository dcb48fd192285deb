package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/ports"
)

// DefaultTimeout bounds a request when the context has no deadline.
const DefaultTimeout = 5 * time.Second

// Client talks to a daemon. Every call opens its own connection.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient creates a client for the socket at path.
func NewClient(path string) *Client {
	return &Client{path: path, timeout: DefaultTimeout}
}

// Path returns the socket path.
func (c *Client) Path() string { return c.path }

// Do sends req and returns the response. A failed response is returned
// as a *RemoteError.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		if notRunning(err) {
			return Response{}, ErrDaemonNotRunning
		}
		return Response{}, fmt.Errorf("connect to daemon: %w", err)
	}
	defer func() { _ = conn.Close() }()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return Response{}, fmt.Errorf("send %s: %w", req.Op, err)
	}
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("read %s response: %w", req.Op, err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("decode %s response: %w", req.Op, err)
	}
	if !resp.OK {
		return resp, &RemoteError{Code: resp.Code, Message: resp.Error}
	}
	return resp, nil
}

func notRunning(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED)
}

func (c *Client) simple(ctx context.Context, op string) error {
	_, err := c.Do(ctx, Request{Op: op})
	return err
}

// Running reports whether a daemon answers on the socket.
func (c *Client) Running(ctx context.Context) bool {
	return c.simple(ctx, OpPing) == nil
}

// Toggle flips overlay visibility.
func (c *Client) Toggle(ctx context.Context) error { return c.simple(ctx, OpToggle) }

// Show shows the overlay.
func (c *Client) Show(ctx context.Context) error { return c.simple(ctx, OpShow) }

// Hide hides the overlay.
func (c *Client) Hide(ctx context.Context) error { return c.simple(ctx, OpHide) }

// Dismiss requests a dismissal. A non-zero token ties it to a particular
// show; the daemon drops it once that show is over.
func (c *Client) Dismiss(ctx context.Context, reason ports.DismissReason, token ports.ClickToken) error {
	_, err := c.Do(ctx, Request{Op: OpDismiss, Reason: string(reason), Token: uint64(token)})
	return err
}

// State returns the daemon state.
func (c *Client) State(ctx context.Context) (State, error) {
	resp, err := c.Do(ctx, Request{Op: OpState})
	if err != nil {
		return State{}, err
	}
	if resp.State == nil {
		return State{}, nil
	}
	return *resp.State, nil
}

// Surface returns the live click token and the panel frame inside the
// popup, both zero while the overlay is hidden.
func (c *Client) Surface(ctx context.Context) (ports.ClickToken, ports.Rect, error) {
	resp, err := c.Do(ctx, Request{Op: OpSurface})
	if err != nil || resp.Frame == nil {
		return 0, ports.Rect{}, err
	}
	f := resp.Frame
	return ports.ClickToken(f.Token), ports.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}, nil
}

// SettingsOpen opens the settings surface.
func (c *Client) SettingsOpen(ctx context.Context) error { return c.simple(ctx, OpSettingsOpen) }

// SettingsReady acknowledges that the settings surface has appeared.
func (c *Client) SettingsReady(ctx context.Context) error { return c.simple(ctx, OpSettingsReady) }

// SettingsClosed reports that the settings surface closed.
func (c *Client) SettingsClosed(ctx context.Context) error { return c.simple(ctx, OpSettingsClosed) }

// Shutdown stops the daemon.
func (c *Client) Shutdown(ctx context.Context) error { return c.simple(ctx, OpShutdown) }

// Add creates a task.
func (c *Client) Add(ctx context.Context, title string) (domain.Task, error) {
	return c.task(ctx, Request{Op: OpAdd, Title: title})
}

// ToggleTask flips a task's completion.
func (c *Client) ToggleTask(ctx context.Context, id string) (domain.Task, error) {
	return c.task(ctx, Request{Op: OpToggleTask, ID: id})
}

// Complete marks a task done; completing a done task is a no-op.
func (c *Client) Complete(ctx context.Context, id string) (domain.Task, error) {
	return c.task(ctx, Request{Op: OpComplete, ID: id})
}

// Rename changes a task's title.
func (c *Client) Rename(ctx context.Context, id, title string) (domain.Task, error) {
	return c.task(ctx, Request{Op: OpRename, ID: id, Title: title})
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) (domain.Task, error) {
	return c.task(ctx, Request{Op: OpDelete, ID: id})
}

// Move places a task at index to.
func (c *Client) Move(ctx context.Context, id string, to int) error {
	_, err := c.Do(ctx, Request{Op: OpMove, ID: id, To: to})
	return err
}

// List returns every task in order.
func (c *Client) List(ctx context.Context) ([]domain.Task, error) {
	resp, err := c.Do(ctx, Request{Op: OpList})
	if err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		return []domain.Task{}, nil
	}
	return resp.Tasks, nil
}

// ClearCompleted removes finished tasks and returns how many.
func (c *Client) ClearCompleted(ctx context.Context) (int, error) {
	resp, err := c.Do(ctx, Request{Op: OpClearCompleted})
	return resp.Count, err
}

// Count returns the number of incomplete tasks.
func (c *Client) Count(ctx context.Context) (int, error) {
	resp, err := c.Do(ctx, Request{Op: OpCount})
	return resp.Count, err
}

func (c *Client) task(ctx context.Context, req Request) (domain.Task, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return domain.Task{}, err
	}
	if resp.Task == nil {
		return domain.Task{}, fmt.Errorf("%s: empty response", req.Op)
	}
	return *resp.Task, nil
}
