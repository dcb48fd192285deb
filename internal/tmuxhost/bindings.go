package tmuxhost

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// savedBindings remembers what some keys were bound to before we took
// them over, as the bind-key lines list-keys prints.
type savedBindings struct {
	table string
	keys  []string
	lines []string
}

func (h *Host) saveBindings(table string, keys ...string) (*savedBindings, error) {
	s := &savedBindings{table: table, keys: keys}
	for _, key := range keys {
		line, err := h.client.ListKeys(table, key)
		if err != nil {
			return nil, fmt.Errorf("read binding %s: %w", key, err)
		}
		if line != "" {
			s.lines = append(s.lines, line)
		}
	}
	return s, nil
}

// restoreBindings unbinds our keys and sources the saved lines back.
func (h *Host) restoreBindings(s *savedBindings) error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, key := range s.keys {
		if err := h.client.UnbindKey(s.table, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(s.lines) == 0 {
		return errors.Join(errs...)
	}

	f, err := os.CreateTemp("", "tmux-quicktask-keys-*.conf")
	if err != nil {
		return errors.Join(append(errs, fmt.Errorf("write saved bindings: %w", err))...)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()
	_, werr := f.WriteString(strings.Join(s.lines, "\n") + "\n")
	cerr := f.Close()
	if werr != nil || cerr != nil {
		return errors.Join(append(errs, werr, cerr)...)
	}
	if err := h.client.SourceFile(path); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
