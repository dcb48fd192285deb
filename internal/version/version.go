// Package version holds build metadata for tmux-quicktask.
package version

import (
	"fmt"
	"runtime"
)

// Version is overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash, set with ldflags.
var Commit = "unknown"

// String returns the version including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// Full adds the Go toolchain and platform, for bug reports.
func Full(tmuxVersion string) string {
	s := fmt.Sprintf("tmux-quicktask %s (%s %s/%s)", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if tmuxVersion != "" {
		s += ", tmux " + tmuxVersion
	}
	return s
}
