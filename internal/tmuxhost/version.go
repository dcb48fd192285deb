package tmuxhost

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cristianoliveira/tmux-quicktask/internal/tmux"
)

// MinVersion is the oldest tmux with display-popup and user status ranges.
const MinVersion = "3.2"

// ErrUnsupportedVersion is returned for tmux older than MinVersion.
var ErrUnsupportedVersion = errors.New("unsupported tmux version")

// CheckVersion returns the server version and an error when it is too
// old. Development builds ("master", "next-3.6") are accepted.
func CheckVersion(client tmux.TmuxClient) (string, error) {
	raw, err := client.Version()
	if err != nil {
		return "", err
	}
	version, ok := normalizeVersion(raw)
	if !ok {
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "tmux")), nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("parse tmux version %q: %w", raw, err)
	}
	c, err := semver.NewConstraint(">= " + MinVersion)
	if err != nil {
		return "", err
	}
	if !c.Check(v) {
		return v.Original(), fmt.Errorf("%w: %s, need %s or newer", ErrUnsupportedVersion, v.Original(), MinVersion)
	}
	return v.Original(), nil
}

// normalizeVersion turns "tmux 3.3a" into "3.3". ok is false for builds
// without a number.
func normalizeVersion(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	v = strings.TrimSpace(strings.TrimPrefix(v, "tmux"))
	v = strings.TrimPrefix(v, "next-")
	end := strings.IndexFunc(v, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end >= 0 {
		v = v[:end]
	}
	v = strings.Trim(v, ".")
	if v == "" {
		return "", false
	}
	return v, true
}
