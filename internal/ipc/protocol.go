// Package ipc is the daemon's control socket: one JSON request and one
// JSON response per line over a unix socket.
package ipc

import (
	"errors"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// Operations understood by the daemon.
const (
	OpPing           = "ping"
	OpToggle         = "toggle"
	OpShow           = "show"
	OpHide           = "hide"
	OpDismiss        = "dismiss"
	OpState          = "state"
	OpSurface        = "surface"
	OpSettingsOpen   = "settings-open"
	OpSettingsReady  = "settings-ready"
	OpSettingsClosed = "settings-closed"
	OpAdd            = "add"
	OpList           = "list"
	OpToggleTask     = "toggle-task"
	OpComplete       = "complete"
	OpRename         = "rename"
	OpMove           = "move"
	OpDelete         = "delete"
	OpClearCompleted = "clear-completed"
	OpCount          = "count"
	OpShutdown       = "shutdown"
)

// Error codes carried in Response.Code.
const (
	CodeNotFound   = "not_found"
	CodeEmptyTitle = "empty_title"
	CodeBadRequest = "bad_request"
	CodeInternal   = "internal"
)

var (
	// ErrDaemonNotRunning is returned when nothing listens on the socket.
	ErrDaemonNotRunning = errors.New("daemon is not running")
	// ErrUnknownOp is returned by the daemon for an unsupported op.
	ErrUnknownOp = errors.New("unknown operation")
)

// Request is one line sent to the daemon.
type Request struct {
	Op     string `json:"op"`
	Reason string `json:"reason,omitempty"`
	Token  uint64 `json:"token,omitempty"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	To     int    `json:"to,omitempty"`
}

// Response is the daemon's answer.
type Response struct {
	OK    bool          `json:"ok"`
	Error string        `json:"error,omitempty"`
	Code  string        `json:"code,omitempty"`
	Task  *domain.Task  `json:"task,omitempty"`
	Tasks []domain.Task `json:"tasks,omitempty"`
	Count int           `json:"count"`
	State *State        `json:"state,omitempty"`
	Frame *Frame        `json:"frame,omitempty"`
}

// Frame is the panel's place inside the visible popup, returned by
// OpSurface. Token is zero while the overlay is hidden.
type Frame struct {
	Token  uint64 `json:"token,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// State is the daemon status returned by OpState.
type State struct {
	Overlay         string `json:"overlay"`
	Armed           bool   `json:"armed"`
	Token           uint64 `json:"token,omitempty"`
	Client          string `json:"client,omitempty"`
	Frame           string `json:"frame,omitempty"`
	LastReason      string `json:"lastReason,omitempty"`
	Policy          string `json:"policy"`
	SettingsPending bool   `json:"settingsPending"`
	SettingsOpens   int    `json:"settingsOpens"`
	Incomplete      int    `json:"incomplete"`
}

// Fail builds an error response, mapping known errors onto codes.
func Fail(err error) Response {
	code := CodeInternal
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		code = CodeNotFound
	case errors.Is(err, domain.ErrEmptyTitle):
		code = CodeEmptyTitle
	case errors.Is(err, ErrUnknownOp), errors.Is(err, domain.ErrInvalidTaskID):
		code = CodeBadRequest
	}
	return Response{Error: err.Error(), Code: code}
}

// RemoteError is a failure reported by the daemon.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Is lets callers match remote failures against the domain sentinels.
func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case CodeNotFound:
		return target == domain.ErrTaskNotFound
	case CodeEmptyTitle:
		return target == domain.ErrEmptyTitle
	}
	return false
}
