// Package errors routes user-facing messages to the surface that can show
// them: the terminal for CLI commands, an in-model status line for TUIs.
package errors

import (
	"errors"
	"strings"
)

// ErrorHandler is the interface for error handling.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is what the CLI handler prints through.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints messages with the colors package.
type CLIHandler struct {
	out ColorOutput
}

// NewCLIHandler creates a CLIHandler writing to out.
func NewCLIHandler(out ColorOutput) *CLIHandler {
	return &CLIHandler{out: out}
}

func (h *CLIHandler) Error(msg string)   { h.out.Error(msg) }
func (h *CLIHandler) Warning(msg string) { h.out.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.out.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.out.Success(msg) }

// Report sends err to h as an error, prefixed with what was being attempted.
// Errors marked with Quiet are dropped.
func Report(h ErrorHandler, action string, err error) {
	if err == nil || IsQuiet(err) {
		return
	}
	msg := err.Error()
	if action != "" {
		msg = action + ": " + msg
	}
	h.Error(msg)
}

type quietError struct{ err error }

func (q quietError) Error() string { return q.err.Error() }
func (q quietError) Unwrap() error { return q.err }

// Quiet marks err as already reported, so Report skips it but callers
// still see a failure.
func Quiet(err error) error {
	if err == nil {
		return nil
	}
	return quietError{err: err}
}

// IsQuiet reports whether err was marked with Quiet.
func IsQuiet(err error) bool {
	var q quietError
	return errors.As(err, &q)
}

// Join collects non-nil errors into one, used by teardown paths that must
// keep going after a failure.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// FirstLine trims multi-line tmux stderr down to something a status line
// can show.
func FirstLine(err error) string {
	if err == nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(err.Error()), "\n")
	return line
}
