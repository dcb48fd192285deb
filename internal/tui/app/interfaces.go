// Package app provides TUI application adapters for command wiring.
package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/tmux-quicktask/internal/autostart"
	"github.com/cristianoliveira/tmux-quicktask/internal/settings"
	"github.com/cristianoliveira/tmux-quicktask/internal/tui/settingsui"
)

// ProgramRunner defines the interface for running a bubbletea program.
type ProgramRunner interface {
	// Run starts the program and blocks until it exits or ctx is done.
	Run(ctx context.Context, model tea.Model) error
}

// DefaultProgramRunner wraps tea.NewProgram with the options both views
// need: the alt screen and focus reporting, which is how the panel learns
// that the popup lost focus.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program with the given model. Cancellation of ctx
// is a normal exit.
func (r *DefaultProgramRunner) Run(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// SettingsLoader defines the interface for loading settings.
type SettingsLoader interface {
	Load() (*settings.Settings, error)
}

// DefaultSettingsLoader wraps settings.Load for production use.
type DefaultSettingsLoader struct{}

// NewDefaultSettingsLoader creates a new DefaultSettingsLoader.
func NewDefaultSettingsLoader() *DefaultSettingsLoader {
	return &DefaultSettingsLoader{}
}

// Load loads settings using the settings package's Load function.
func (l *DefaultSettingsLoader) Load() (*settings.Settings, error) {
	return settings.Load()
}

// AutostartFactory builds the autostart editor for the settings view.
type AutostartFactory interface {
	New() (settingsui.Autostart, error)
}

// DefaultAutostartFactory wraps autostart.FromConfig.
type DefaultAutostartFactory struct{}

// New implements AutostartFactory.
func (DefaultAutostartFactory) New() (settingsui.Autostart, error) {
	a, err := autostart.FromConfig()
	if err != nil {
		return nil, err
	}
	return a, nil
}
