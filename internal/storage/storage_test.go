package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/tmux-quicktask/internal/domain"
	"github.com/cristianoliveira/tmux-quicktask/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []domain.Task {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Task{
		{ID: "c0000000-0000-0000-0000-000000000003", Title: "third created, listed first", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "a0000000-0000-0000-0000-000000000001", Title: "water plants", Completed: true, CreatedAt: base},
		{ID: "b0000000-0000-0000-0000-000000000002", Title: "call bank", CreatedAt: base.Add(time.Minute)},
	}
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	dir := t.TempDir()
	j, err := NewJSONStorage(filepath.Join(dir, "json"))
	require.NoError(t, err)
	d, err := NewDiskvStorage(filepath.Join(dir, "diskv"))
	require.NoError(t, err)
	s, err := sqlite.New(filepath.Join(dir, "sqlite", "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return map[string]Storage{BackendJSON: j, BackendDiskv: d, BackendSQLite: s}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			in := sampleTasks()
			require.NoError(t, s.Save(ctx, in))
			out, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, in, out)

			// deleting the middle task and reordering the rest
			next := []domain.Task{in[2], in[0]}
			require.NoError(t, s.Save(ctx, next))
			out, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, next, out)

			require.NoError(t, s.Save(ctx, nil))
			out, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, out)
			assert.NotEmpty(t, s.WatchPath())
		})
	}
}

func TestJSONCorruptFileLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, JSONFileName), []byte("{not json"), 0o644))

	tasks, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	kept, err := os.ReadFile(filepath.Join(dir, JSONFileName+CorruptSuffix))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(kept))
}

func TestJSONLoadsMacAppFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStorage(dir)
	require.NoError(t, err)
	original := `[
  {"id":"E621E1F8-C36C-495A-93FC-0C247A3E6E5F","title":"buy milk","isCompleted":false,"createdAt":782000000.5},
  {"id":"0B6C7A7E-4E55-4A77-9C1C-2B1F0D7E9A10","title":"call bank","isCompleted":true,"createdAt":782000060}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, JSONFileName), []byte(original), 0o644))
	ctx := context.Background()

	tasks, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "buy milk", tasks[0].Title)
	assert.False(t, tasks[0].Completed)
	assert.True(t, tasks[1].Completed)
	assert.True(t, domain.ReferenceDate.Add(782000000*time.Second+500*time.Millisecond).Equal(tasks[0].CreatedAt))

	// saving and loading again keeps every task
	require.NoError(t, s.Save(ctx, tasks))
	again, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, again, 2)
	for i := range tasks {
		assert.Equal(t, tasks[i].ID, again[i].ID)
		assert.True(t, tasks[i].CreatedAt.Equal(again[i].CreatedAt))
	}
}

func TestJSONSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStorage(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), sampleTasks()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{JSONFileName}, names, "lock and temp files are removed")

	info, err := os.Stat(filepath.Join(dir, JSONFileName))
	require.NoError(t, err)
	assert.Equal(t, FileModeFile, info.Mode().Perm())
}

func TestJSONCancelledContext(t *testing.T) {
	s, err := NewJSONStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, sampleTasks()), context.Canceled)
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiskvUnindexedTasksFollowInCreationOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskvStorage(dir)
	require.NoError(t, err)
	in := sampleTasks()
	require.NoError(t, s.Save(context.Background(), in[:1]))

	// written by an older process that did not update the index
	for _, task := range []domain.Task{in[2], in[1]} {
		require.NoError(t, s.Save(context.Background(), append(mustLoad(t, s), task)))
	}
	require.NoError(t, os.Remove(filepath.Join(dir, orderKey)))

	out := mustLoad(t, s)
	require.Len(t, out, 3)
	assert.Equal(t, []string{in[1].ID, in[2].ID, in[0].ID}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func mustLoad(t *testing.T, s Storage) []domain.Task {
	t.Helper()
	tasks, err := s.Load(context.Background())
	require.NoError(t, err)
	return tasks
}
