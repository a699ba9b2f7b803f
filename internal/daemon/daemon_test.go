package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etr/wonk-sub000/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteReadRemovePID(t *testing.T) {
	path := PIDPath(t.TempDir())

	require.NoError(t, WritePID(path))
	pid, ok := ReadPID(path)
	require.True(t, ok)
	require.Equal(t, os.Getpid(), pid)

	require.NoError(t, RemovePID(path))
	_, ok = ReadPID(path)
	require.False(t, ok)
}

func TestIsRunningForSelfAndForBogusPID(t *testing.T) {
	require.True(t, IsRunning(os.Getpid()))
	require.False(t, IsRunning(999999999))
}

func TestCheckStaleWithNoFile(t *testing.T) {
	path := PIDPath(t.TempDir())
	pid, stale, err := CheckStale(path)
	require.NoError(t, err)
	require.False(t, stale)
	require.Equal(t, 0, pid)
}

func TestCheckStaleRemovesDeadPID(t *testing.T) {
	path := PIDPath(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("999999999\n"), 0o644))

	pid, stale, err := CheckStale(path)
	require.NoError(t, err)
	require.True(t, stale)
	require.Equal(t, 0, pid)

	_, ok := ReadPID(path)
	require.False(t, ok)
}

func TestCheckStaleKeepsLivePID(t *testing.T) {
	path := PIDPath(t.TempDir())
	require.NoError(t, WritePID(path))

	livePID, stale, err := CheckStale(path)
	require.NoError(t, err)
	require.False(t, stale)
	require.Equal(t, os.Getpid(), livePID)
}

func TestRecorderStartupAndSnapshot(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s)

	require.NoError(t, r.Startup(1234))
	require.NoError(t, r.BatchProcessed(3))
	require.NoError(t, r.Heartbeat())

	snap, err := ReadSnapshot(s)
	require.NoError(t, err)
	require.True(t, snap.Present)
	require.Equal(t, 1234, snap.PID)
	require.Equal(t, store.StateRunning, snap.State)
	require.Equal(t, 3, snap.FilesQueued)
}

func TestRecorderShutdownClearsStatus(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s)

	require.NoError(t, r.Startup(1))
	require.NoError(t, r.Shutdown())

	snap, err := ReadSnapshot(s)
	require.NoError(t, err)
	require.False(t, snap.Present)
}

func TestSnapshotAbsentWhenNoDaemonHasRun(t *testing.T) {
	s := newTestStore(t)
	snap, err := ReadSnapshot(s)
	require.NoError(t, err)
	require.False(t, snap.Present)
}
