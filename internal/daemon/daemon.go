// Package daemon is the composition root: it builds one of every service,
// wires them to tmux and serves the control socket until stopped.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/activation"
	"github.com/cristianoliveira/tmux-quicktask/internal/badge"
	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/ipc"
	"github.com/cristianoliveira/tmux-quicktask/internal/logging"
	"github.com/cristianoliveira/tmux-quicktask/internal/mainloop"
	"github.com/cristianoliveira/tmux-quicktask/internal/overlay"
	"github.com/cristianoliveira/tmux-quicktask/internal/storage"
	"github.com/cristianoliveira/tmux-quicktask/internal/taskstore"
	"github.com/cristianoliveira/tmux-quicktask/internal/tmux"
	"github.com/cristianoliveira/tmux-quicktask/internal/tmuxhost"
)

// ErrAlreadyRunning is returned when another daemon owns the socket.
var ErrAlreadyRunning = errors.New("daemon already running")

// shutdownTimeout bounds the cleanup after the daemon is asked to stop.
const shutdownTimeout = 5 * time.Second

// Hooks is what the daemon needs from the hook runner.
type Hooks interface {
	taskstore.HookRunner
	Shutdown(ctx context.Context) error
}

// Options configure a Daemon.
type Options struct {
	Client     tmux.TmuxClient
	Exe        string
	SocketPath string
	TmuxSocket string
	// Storage defaults to the configured backend.
	Storage         storage.Storage
	Hooks           Hooks
	Hotkey          string
	StatusClick     bool
	Placement       overlay.Placement
	AppearTimeout   time.Duration
	RootSession     string
	SettingsSession string
	// WatchStorage reloads the store when another process writes it.
	WatchStorage bool
	Log          logging.Logger
}

// OptionsFromConfig reads everything but Client, Storage and Hooks from
// the global configuration.
func OptionsFromConfig() Options {
	exe, err := os.Executable()
	if err != nil {
		exe = "tmux-quicktask"
	}
	return Options{
		Exe:         exe,
		SocketPath:  config.Get("socket_path", ""),
		TmuxSocket:  config.Get("tmux_socket", ""),
		Hotkey:      config.Get("hotkey", "M-Space"),
		StatusClick: config.GetBool("status_click_enabled", true),
		Placement: overlay.Placement{
			Width:   config.GetInt("popup_width", overlay.DefaultPlacement.Width),
			Height:  config.GetInt("popup_height", overlay.DefaultPlacement.Height),
			TopBias: config.GetInt("top_bias", overlay.DefaultPlacement.TopBias),
		},
		AppearTimeout:   config.GetMillis("settings_appear_timeout_ms", activation.DefaultAppearTimeout),
		RootSession:     config.Get("root_session", tmuxhost.DefaultRootSession),
		SettingsSession: config.Get("settings_session", tmuxhost.DefaultSettingsSession),
		WatchStorage:    true,
		Log:             logging.For("daemon"),
	}
}

// Daemon owns the running services.
type Daemon struct {
	opts Options
	log  logging.Logger

	host      *tmuxhost.Host
	root      *tmuxhost.RootSession
	popup     *tmuxhost.Popup
	clicks    *tmuxhost.ClickMonitor
	indicator *tmuxhost.Indicator
	triggers  *tmuxhost.Triggers

	store  *taskstore.Store
	loop   *mainloop.Loop
	ctrl   *overlay.Controller
	badge  *badge.Observer
	bridge *activation.Bridge

	stop context.CancelFunc
}

// New validates opts. Nothing touches tmux until Run.
func New(opts Options) (*Daemon, error) {
	if opts.Client == nil {
		return nil, errors.New("daemon: tmux client is required")
	}
	if opts.SocketPath == "" {
		return nil, errors.New("daemon: socket path is required")
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	return &Daemon{opts: opts, log: opts.Log}, nil
}

// Run starts every service and blocks until ctx is done or a shutdown
// request arrives. Cleanup runs before it returns.
func (d *Daemon) Run(ctx context.Context) error {
	if ipc.NewClient(d.opts.SocketPath).Running(ctx) {
		return fmt.Errorf("%w on %s", ErrAlreadyRunning, d.opts.SocketPath)
	}
	version, err := tmuxhost.CheckVersion(d.opts.Client)
	if err != nil {
		return err
	}
	d.log.Info("starting", "tmux", version, "socket", d.opts.SocketPath)

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	d.stop = stop

	d.host = tmuxhost.New(tmuxhost.Options{
		Client:          d.opts.Client,
		Exe:             d.opts.Exe,
		Env:             map[string]string{tmuxhost.SocketEnv: d.opts.SocketPath},
		RootSession:     d.opts.RootSession,
		SettingsSession: d.opts.SettingsSession,
		TmuxSocket:      d.opts.TmuxSocket,
		Log:             d.log,
	})
	// the root session comes first: everything else shown later inherits
	// the daemon socket from it
	d.root = d.host.RootSession()
	if err := d.root.Ensure(); err != nil {
		return fmt.Errorf("create root session: %w", err)
	}

	if err := d.openStore(ctx); err != nil {
		_ = d.root.Kill()
		return err
	}

	// the loop outlives ctx so shutdown can still hide the overlay
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	d.loop = mainloop.New(d.log.With("component", "mainloop"))
	go func() { _ = d.loop.Run(loopCtx) }()

	d.popup = d.host.Popup()
	d.clicks = d.host.ClickMonitor()
	d.ctrl = overlay.NewController(overlay.Deps{
		Dispatch:  d.loop,
		Display:   d.host.Display(),
		Focus:     d.host.Focus(),
		Surface:   d.popup,
		Clicks:    d.clicks,
		Placement: d.opts.Placement,
		Hooks:     d.opts.Hooks,
		Log:       d.log,
	})

	d.indicator = d.host.Indicator()
	if err := d.indicator.Install(); err != nil {
		d.log.Warn("install status indicator failed", "error", err.Error())
	}
	d.badge = badge.NewObserver(d.store, d.indicator, d.loop, d.log)
	go func() { _ = d.badge.Run(ctx) }()

	d.bridge = activation.NewBridge(activation.Deps{
		Schedule:      d.loop,
		Host:          d.host.Policy(),
		Secondary:     d.host.SettingsSession(),
		AppearTimeout: d.opts.AppearTimeout,
		Log:           d.log,
	})

	d.triggers = d.host.Triggers(d.opts.Hotkey, d.opts.StatusClick)
	if err := d.triggers.Install(); err != nil {
		d.log.Warn("install triggers failed", "error", err.Error())
	}

	srv, err := ipc.Listen(d.opts.SocketPath, d, d.log)
	if err != nil {
		d.shutdown()
		return err
	}
	d.log.Info("ready")
	serveErr := srv.Serve(ctx)
	d.shutdown()
	return serveErr
}

func (d *Daemon) openStore(ctx context.Context) error {
	backend := d.opts.Storage
	if backend == nil {
		var err error
		backend, err = storage.NewFromConfig()
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
	}
	d.store = taskstore.Open(ctx, backend, taskstore.Options{Hooks: d.opts.Hooks, Log: d.log})
	if !d.opts.WatchStorage {
		return nil
	}
	events, err := storage.Watch(ctx, backend.WatchPath(), storage.DefaultCoalesce)
	if err != nil {
		// the daemon still works; edits from other processes show up on
		// the next mutation
		d.log.Warn("watch storage failed", "error", err.Error())
		return nil
	}
	go func() {
		for range events {
			if changed, err := d.store.Reload(ctx); err != nil {
				d.log.Warn("reload tasks failed", "error", err.Error())
			} else if changed {
				d.log.Debug("tasks changed on disk")
			}
		}
	}()
	return nil
}

// Stop asks a running daemon to shut down.
func (d *Daemon) Stop() {
	if d.stop != nil {
		d.stop()
	}
}

// shutdown unbinds the triggers, hides the overlay, clears the badge and
// removes our sessions.
func (d *Daemon) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if d.triggers != nil {
		errs = append(errs, d.triggers.Uninstall())
	}
	if d.ctrl != nil {
		d.ctrl.Hide()
		d.bridge.Closed()
		d.badge.Clear()
		errs = append(errs, d.loop.Call(ctx, func() {}))
	}
	if d.indicator != nil {
		errs = append(errs, d.indicator.Uninstall())
	}
	errs = append(errs, d.root.Kill())
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	if d.opts.Hooks != nil {
		errs = append(errs, d.opts.Hooks.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		d.log.Warn("shutdown incomplete", "error", err.Error())
	}
	d.log.Info("stopped")
}
