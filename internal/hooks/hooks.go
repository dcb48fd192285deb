// Package hooks runs user scripts at task and overlay events.
//
// Scripts live in <hooks_dir>/<point>/ and run in name order when they are
// executable. Event data is passed through QUICKTASK_* environment
// variables.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
)

// Hook points.
const (
	PreAdd       = "pre-add"
	PostAdd      = "post-add"
	PostComplete = "post-complete"
	PostDelete   = "post-delete"
	PostShow     = "post-show"
	PostHide     = "post-hide"
)

// Failure modes.
const (
	FailureIgnore = "ignore"
	FailureWarn   = "warn"
	FailureAbort  = "abort"
)

// Options configures a Runner.
type Options struct {
	Dir          string
	Enabled      bool
	FailureMode  string
	Async        bool
	AsyncTimeout time.Duration
	MaxAsync     int
	// Disabled turns off individual hook points.
	Disabled map[string]bool
	Log      logging.Logger
}

// OptionsFromConfig reads hook settings from the global configuration.
func OptionsFromConfig() Options {
	disabled := map[string]bool{}
	for _, p := range []string{PreAdd, PostAdd, PostComplete, PostDelete, PostShow, PostHide} {
		key := "hooks_enabled_" + underscore(p)
		if !config.GetBool(key, true) {
			disabled[p] = true
		}
	}
	return Options{
		Dir:          config.Get("hooks_dir", ""),
		Enabled:      config.GetBool("hooks_enabled", true),
		FailureMode:  config.Get("hooks_failure_mode", FailureWarn),
		Async:        config.GetBool("hooks_async", false),
		AsyncTimeout: time.Duration(config.GetInt("hooks_async_timeout", 30)) * time.Second,
		MaxAsync:     10,
		Disabled:     disabled,
	}
}

func underscore(p string) string {
	b := []byte(p)
	for i := range b {
		if b[i] == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

// Runner executes hook scripts. The zero value is not usable; use New.
type Runner struct {
	opts   Options
	log    logging.Logger
	binary string

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	if opts.AsyncTimeout <= 0 {
		opts.AsyncTimeout = 30 * time.Second
	}
	if opts.MaxAsync <= 0 {
		opts.MaxAsync = 10
	}
	if opts.FailureMode == "" {
		opts.FailureMode = FailureWarn
	}
	exe, _ := os.Executable()
	return &Runner{opts: opts, log: opts.Log.With("component", "hooks"), binary: exe}
}

// EnsureDir creates the hooks directory.
func (r *Runner) EnsureDir() error {
	if r.opts.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(r.opts.Dir, config.FileModeDir); err != nil {
		return fmt.Errorf("failed to create hooks directory %s: %w", r.opts.Dir, err)
	}
	return nil
}

func (r *Runner) scripts(point string) []string {
	if r == nil || !r.opts.Enabled || r.opts.Dir == "" || r.opts.Disabled[point] {
		return nil
	}
	dir := filepath.Join(r.opts.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out
}

func (r *Runner) environ(point string, env map[string]string) []string {
	vars := os.Environ()
	vars = append(vars,
		"QUICKTASK_HOOK_POINT="+point,
		"QUICKTASK_HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
	)
	if r.binary != "" {
		vars = append(vars, "QUICKTASK_BINARY="+r.binary)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars = append(vars, k+"="+env[k])
	}
	return vars
}

// Run executes the scripts for point. In async mode it returns as soon as
// the scripts are started. In abort mode a failing synchronous script stops
// the remaining ones and its error is returned; a pre-add abort cancels
// the add.
func (r *Runner) Run(point string, env map[string]string) error {
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	if r.opts.Async {
		r.start(point, scripts, env)
		return nil
	}
	for _, script := range scripts {
		if err := r.runOne(context.Background(), point, script, env); err != nil {
			switch r.opts.FailureMode {
			case FailureAbort:
				return err
			case FailureWarn:
				r.log.Warn("hook failed", "point", point, "script", filepath.Base(script), "error", err.Error())
			}
		}
	}
	return nil
}

// RunAsync always runs in the background regardless of the async setting.
// Overlay events use it so the UI loop never waits on a script.
func (r *Runner) RunAsync(point string, env map[string]string) {
	if scripts := r.scripts(point); len(scripts) > 0 {
		r.start(point, scripts, env)
	}
}

func (r *Runner) start(point string, scripts []string, env map[string]string) {
	for _, script := range scripts {
		r.mu.Lock()
		if r.pending >= r.opts.MaxAsync {
			r.mu.Unlock()
			r.log.Warn("too many pending hooks, skipping", "point", point, "script", filepath.Base(script), "max", r.opts.MaxAsync)
			continue
		}
		r.pending++
		r.wg.Add(1)
		r.mu.Unlock()

		go func(script string) {
			defer func() {
				r.mu.Lock()
				r.pending--
				r.mu.Unlock()
				r.wg.Done()
			}()
			ctx, cancel := context.WithTimeout(context.Background(), r.opts.AsyncTimeout)
			defer cancel()
			if err := r.runOne(ctx, point, script, env); err != nil && r.opts.FailureMode != FailureIgnore {
				r.log.Warn("async hook failed", "point", point, "script", filepath.Base(script), "error", err.Error())
			}
		}(script)
	}
}

func (r *Runner) runOne(ctx context.Context, point, script string, env map[string]string) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = r.environ(point, env)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	r.log.Debug("hook finished", "point", point, "script", filepath.Base(script),
		"duration_seconds", time.Since(start).Seconds(), "ok", err == nil)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("hook %s timed out after %s", filepath.Base(script), r.opts.AsyncTimeout)
		}
		return fmt.Errorf("hook %s failed: %w, output: %s", filepath.Base(script), err, bytes.TrimSpace(out.Bytes()))
	}
	return nil
}

// Pending returns the number of running async hooks.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Shutdown waits for async hooks until ctx is done.
func (r *Runner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
