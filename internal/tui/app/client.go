package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/panel"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/settingsui"
)

// Daemon is the daemon API both views talk to; ipc.Client implements it.
type Daemon interface {
	panel.Backend
	settingsui.Lifecycle
}

// Client defines dependencies needed by the panel and settings-ui
// commands.
type Client interface {
	RunPanel(ctx context.Context, daemon Daemon) error
	RunSettings(ctx context.Context, daemon Daemon, info settingsui.Info) error
}

// DefaultClient is the default adapter-based implementation used by CLI wiring.
type DefaultClient struct {
	programRunner    ProgramRunner
	settingsLoader   SettingsLoader
	autostartFactory AutostartFactory
}

// NewDefaultClient creates a default TUI client adapter. Nil arguments
// get the production implementation.
func NewDefaultClient(programRunner ProgramRunner, settingsLoader SettingsLoader, autostartFactory AutostartFactory) *DefaultClient {
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	if settingsLoader == nil {
		settingsLoader = NewDefaultSettingsLoader()
	}
	if autostartFactory == nil {
		autostartFactory = DefaultAutostartFactory{}
	}
	return &DefaultClient{
		programRunner:    programRunner,
		settingsLoader:   settingsLoader,
		autostartFactory: autostartFactory,
	}
}

// viewOptions reads the list preferences; a broken file means defaults.
func (d *DefaultClient) viewOptions() domain.ViewOptions {
	s, err := d.settingsLoader.Load()
	if err != nil {
		colors.Debug(fmt.Sprintf("panel: settings unavailable, using defaults: %v", err))
		return domain.DefaultViewOptions
	}
	return s.ViewOptions()
}

// RunPanel runs the overlay panel until ctx is cancelled.
func (d *DefaultClient) RunPanel(ctx context.Context, daemon Daemon) error {
	colors.DisableStructuredLogging()
	defer colors.EnableStructuredLogging()

	return d.run(ctx, "panel", panel.New(daemon, d.viewOptions))
}

// RunSettings runs the settings view until the user closes it.
func (d *DefaultClient) RunSettings(ctx context.Context, daemon Daemon, info settingsui.Info) error {
	colors.DisableStructuredLogging()
	defer colors.EnableStructuredLogging()

	var auto settingsui.Autostart
	if a, err := d.autostartFactory.New(); err != nil {
		colors.Debug(fmt.Sprintf("settings: autostart unavailable: %v", err))
	} else {
		auto = a
	}
	store := loaderStore{loader: d.settingsLoader}
	return d.run(ctx, "settings", settingsui.New(daemon, store, auto, info))
}

func (d *DefaultClient) run(ctx context.Context, name string, model tea.Model) error {
	if err := d.programRunner.Run(ctx, model); err != nil {
		colors.Error(fmt.Sprintf("Error running %s: %v", name, err))
		return err
	}
	return nil
}

// loaderStore reads through the injected loader and writes the settings
// file.
type loaderStore struct {
	loader SettingsLoader
}

func (s loaderStore) Load() (*settings.Settings, error) { return s.loader.Load() }

func (s loaderStore) Save(v *settings.Settings) error { return settings.Save(v) }
