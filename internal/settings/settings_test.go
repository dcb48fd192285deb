package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/tmux-quicktask/internal/config"
	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "settings.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.True(t, s.ShowCompleted)
	assert.False(t, s.LaunchWithTmux)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	want := &Settings{Version: CurrentVersion, ShowCompleted: false, CompletedLast: true, LaunchWithTmux: true}

	require.NoError(t, SaveTo(path, want))
	got, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "launch_with_tmux = true")
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("completed_last = true\n"), 0o644))

	s, err := LoadFrom(path)

	require.NoError(t, err)
	assert.True(t, s.ShowCompleted)
	assert.True(t, s.CompletedLast)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "malformed toml", content: "show_completed = = true"},
		{name: "newer version", content: "version = 7", wantErr: ErrUnsupportedVersion},
		{name: "wrong type", content: `show_completed = "yes"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFrom(path)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSaveValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	assert.Error(t, SaveTo(path, nil))
	assert.ErrorIs(t, SaveTo(path, &Settings{Version: CurrentVersion + 1}), ErrUnsupportedVersion)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPathAndReset(t *testing.T) {
	dir := t.TempDir()
	config.Set("config_dir", dir)
	config.Set("settings_path", "")
	t.Cleanup(func() { config.Set("config_dir", "") })

	assert.Equal(t, filepath.Join(dir, FileName), Path())
	require.NoError(t, Save(&Settings{CompletedLast: true}))
	s, err := Load()
	require.NoError(t, err)
	assert.True(t, s.CompletedLast)
	assert.Equal(t, CurrentVersion, s.Version)

	s, err = Reset()
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	_, err = os.Stat(Path())
	assert.True(t, os.IsNotExist(err))
}

func TestViewOptions(t *testing.T) {
	s := &Settings{ShowCompleted: false, CompletedLast: true}

	assert.Equal(t, domain.ViewOptions{ShowCompleted: false, CompletedLast: true}, s.ViewOptions())
}
