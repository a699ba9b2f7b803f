package daemon

import (
	"strconv"
	"time"

	"github.com/etr/wonk-sub000/internal/store"
)

// Recorder writes the daemon_status key/value rows the event loop owns:
// startup, per-batch activity, per-tick heartbeat, and fatal errors. It is
// a thin wrapper — the actual storage is the store's daemon_status table.
type Recorder struct {
	s *store.Store
}

func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{s: s}
}

// Startup writes the initial status row set when the daemon comes up.
func (r *Recorder) Startup(pid int) error {
	now := time.Now().Unix()
	for _, kv := range []struct{ key, value string }{
		{store.StatusPID, strconv.Itoa(pid)},
		{store.StatusState, store.StateRunning},
		{store.StatusUptimeStart, strconv.FormatInt(now, 10)},
		{store.StatusHeartbeat, strconv.FormatInt(now, 10)},
	} {
		if err := r.s.WriteStatus(kv.key, kv.value, now); err != nil {
			return err
		}
	}
	return nil
}

// BatchProcessed records activity after a watcher batch is handled.
func (r *Recorder) BatchProcessed(filesQueued int) error {
	now := time.Now().Unix()
	if err := r.s.WriteStatus(store.StatusLastActivity, strconv.FormatInt(now, 10), now); err != nil {
		return err
	}
	return r.s.WriteStatus(store.StatusFilesQueued, strconv.Itoa(filesQueued), now)
}

// Heartbeat records that the event loop is still alive.
func (r *Recorder) Heartbeat() error {
	now := time.Now().Unix()
	return r.s.WriteStatus(store.StatusHeartbeat, strconv.FormatInt(now, 10), now)
}

// Error records a fatal condition so a CLI status query can surface it.
func (r *Recorder) Error(msg string) error {
	now := time.Now().Unix()
	return r.s.WriteStatus(store.StatusLastError, msg, now)
}

// Shutdown clears every status row on graceful exit.
func (r *Recorder) Shutdown() error {
	return r.s.ClearStatus()
}

// Snapshot is the CLI's aggregated view of the daemon_status table.
type Snapshot struct {
	PID          int
	State        string
	UptimeStart  int64
	LastActivity int64
	FilesQueued  int
	LastError    string
	Heartbeat    int64
	Present      bool // false means no status rows exist: no daemon has run
}

// ReadSnapshot aggregates every daemon_status row into one Snapshot.
func ReadSnapshot(s *store.Store) (Snapshot, error) {
	rows, err := s.StatusSnapshot()
	if err != nil {
		return Snapshot{}, err
	}
	if len(rows) == 0 {
		return Snapshot{}, nil
	}

	snap := Snapshot{Present: true, State: rows[store.StatusState]}
	if v, ok := rows[store.StatusPID]; ok {
		snap.PID, _ = strconv.Atoi(v)
	}
	if v, ok := rows[store.StatusUptimeStart]; ok {
		snap.UptimeStart, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := rows[store.StatusLastActivity]; ok {
		snap.LastActivity, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := rows[store.StatusFilesQueued]; ok {
		snap.FilesQueued, _ = strconv.Atoi(v)
	}
	if v, ok := rows[store.StatusHeartbeat]; ok {
		snap.Heartbeat, _ = strconv.ParseInt(v, 10, 64)
	}
	snap.LastError = rows[store.StatusLastError]
	return snap, nil
}
