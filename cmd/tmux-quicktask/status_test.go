package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatusClient struct {
	count  int
	format string
}

func (f *fakeStatusClient) Count(context.Context) (int, error) { return f.count, nil }

func (f *fakeStatusClient) GetConfigString(key, defaultValue string) string {
	if key == "status_format" && f.format != "" {
		return f.format
	}
	return defaultValue
}

func TestStatusPrintsCount(t *testing.T) {
	out, err := execute(t, NewStatusCmd(&fakeStatusClient{count: 3}), "--format", "count-only")

	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestStatusUsesConfiguredFormat(t *testing.T) {
	out, err := execute(t, NewStatusCmd(&fakeStatusClient{count: 2, format: "compact"}))

	require.NoError(t, err)
	assert.Equal(t, "2 open\n", out)
}

func TestStatusPrintsNothingWhenClear(t *testing.T) {
	out, err := execute(t, NewStatusCmd(&fakeStatusClient{}))

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStatusRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, NewStatusCmd(&fakeStatusClient{count: 1}), "--format", "detailed")

	assert.EqualError(t, err, "unknown format: detailed")
}
