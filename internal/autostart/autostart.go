// Package autostart manages a marked block in the tmux configuration that
// starts the daemon together with the tmux server.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/cristianoliveira/tmux-quicktask/internal/config"
)

const (
	beginMarker = "# >>> tmux-quicktask autostart >>>"
	endMarker   = "# <<< tmux-quicktask autostart <<<"
)

// ErrUnterminatedBlock is returned when the begin marker has no end marker;
// the file is left alone rather than guessing where the block ends.
var ErrUnterminatedBlock = errors.New("autostart block has no end marker")

// Autostart edits one tmux configuration file.
type Autostart struct {
	path string
	exe  string
}

// New expands ~ in path. exe is the binary the block runs.
func New(path, exe string) (*Autostart, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", path, err)
	}
	return &Autostart{path: expanded, exe: exe}, nil
}

// FromConfig uses autostart_conf and the running executable.
func FromConfig() (*Autostart, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return New(config.Get("autostart_conf", "~/.tmux.conf"), exe)
}

// Path returns the expanded configuration path.
func (a *Autostart) Path() string { return a.path }

// Block is the text placed between the markers.
func (a *Autostart) Block() string {
	return strings.Join([]string{
		beginMarker,
		fmt.Sprintf("run-shell -b '%s daemon run'", strings.ReplaceAll(a.exe, "'", `'\''`)),
		endMarker,
	}, "\n")
}

// Enabled reports whether the block is present.
func (a *Autostart) Enabled() (bool, error) {
	content, err := a.read()
	if err != nil {
		return false, err
	}
	start, _, err := findBlock(content)
	return start >= 0, err
}

// Enable appends the block unless it is already there.
func (a *Autostart) Enable() error {
	content, err := a.read()
	if err != nil {
		return err
	}
	start, end, err := findBlock(content)
	if err != nil {
		return err
	}
	if start >= 0 {
		// refresh in case the binary moved
		return a.write(content[:start] + a.Block() + content[end:])
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return a.write(content + a.Block() + "\n")
}

// Disable removes the block, leaving the rest of the file untouched.
func (a *Autostart) Disable() error {
	content, err := a.read()
	if err != nil {
		return err
	}
	start, end, err := findBlock(content)
	if err != nil || start < 0 {
		return err
	}
	rest := content[end:]
	rest = strings.TrimPrefix(rest, "\n")
	return a.write(content[:start] + rest)
}

func (a *Autostart) read() (string, error) {
	data, err := os.ReadFile(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", a.path, err)
	}
	return string(data), nil
}

// write replaces the file atomically and keeps its permissions.
func (a *Autostart) write(content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(a.path); err == nil {
		mode = info.Mode().Perm()
	}
	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmux-quicktask-*.conf")
	if err != nil {
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	return nil
}

// findBlock returns the byte range of the block, end marker included, or
// -1 when there is none.
func findBlock(content string) (int, int, error) {
	start := strings.Index(content, beginMarker)
	if start < 0 {
		return -1, -1, nil
	}
	rel := strings.Index(content[start:], endMarker)
	if rel < 0 {
		return -1, -1, ErrUnterminatedBlock
	}
	return start, start + rel + len(endMarker), nil
}
