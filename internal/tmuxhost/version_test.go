package tmuxhost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristianoliveira/tmux-quicktask/internal/tmux"
)

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "tmux 3.4", want: "3.4"},
		{raw: "tmux 3.3a", want: "3.3"},
		{raw: "tmux 3.2", want: "3.2"},
		{raw: "tmux next-3.6", want: "3.6"},
		{raw: "tmux master", want: "master"},
		{raw: "tmux 3.1c", want: "3.1", wantErr: ErrUnsupportedVersion},
		{raw: "tmux 2.9", want: "2.9", wantErr: ErrUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m := new(tmux.MockClient)
			m.On("Version").Return(tt.raw, nil)

			got, err := CheckVersion(m)

			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckVersionError(t *testing.T) {
	m := new(tmux.MockClient)
	m.On("Version").Return("", assert.AnError)

	_, err := CheckVersion(m)

	assert.ErrorIs(t, err, assert.AnError)
}
