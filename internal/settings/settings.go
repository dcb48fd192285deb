// Package settings persists the user preferences edited in the settings
// view: which tasks the panel lists and whether tmux starts the daemon.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

// File permission constants
const (
	FileModeDir  os.FileMode = 0755
	FileModeFile os.FileMode = 0644

	FileName = "settings" + config.FileExtTOML
)

// CurrentVersion is the schema version Save writes.
const CurrentVersion = 1

// Settings holds the persisted preferences.
//
// Stored at {config_dir}/settings.toml:
//
//	version = 1
//	show_completed = true
//	completed_last = false
//	launch_with_tmux = false
type Settings struct {
	Version int `toml:"version"`
	// ShowCompleted lists finished tasks in the panel, dimmed.
	ShowCompleted bool `toml:"show_completed"`
	// CompletedLast sorts finished tasks below open ones.
	CompletedLast bool `toml:"completed_last"`
	// LaunchWithTmux mirrors whether the autostart block is installed.
	LaunchWithTmux bool `toml:"launch_with_tmux"`
}

// ErrUnsupportedVersion is returned for files written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported settings version")

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Version:       CurrentVersion,
		ShowCompleted: true,
	}
}

// ViewOptions converts the list preferences for domain.Arrange.
func (s *Settings) ViewOptions() domain.ViewOptions {
	return domain.ViewOptions{ShowCompleted: s.ShowCompleted, CompletedLast: s.CompletedLast}
}

// Path returns the settings file location. settings_path overrides it.
func Path() string {
	if override := config.Get("settings_path", ""); override != "" {
		return override
	}
	return filepath.Join(config.Get("config_dir", ""), FileName)
}

// Load reads the settings file, returning defaults when it does not exist.
func Load() (*Settings, error) {
	return LoadFrom(Path())
}

// LoadFrom reads settings from path.
func LoadFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	s := Default()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save validates and writes settings.
func Save(s *Settings) error {
	return SaveTo(Path(), s)
}

// SaveTo validates and writes settings to path.
func SaveTo(path string, s *Settings) error {
	if err := Validate(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Reset removes the settings file and returns the defaults.
func Reset() (*Settings, error) {
	if err := os.Remove(Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove settings file: %w", err)
	}
	return Default(), nil
}
