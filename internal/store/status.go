package store

import "database/sql"

// Recognised daemon_status keys (spec.md §3, §4.G).
const (
	StatusPID          = "pid"
	StatusState        = "state"
	StatusUptimeStart  = "uptime_start"
	StatusLastActivity = "last_activity"
	StatusFilesQueued  = "files_queued"
	StatusLastError    = "last_error"
	StatusHeartbeat    = "heartbeat"

	StateRunning = "running"
)

// WriteStatus upserts one key/value pair, stamping updated_at.
func (s *Store) WriteStatus(key, value string, updatedAt int64) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO daemon_status(key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, updatedAt,
	)
	return err
}

// ReadStatus returns the value for key, and whether it was present.
func (s *Store) ReadStatus(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM daemon_status WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// StatusSnapshot aggregates all daemon_status rows into a map.
func (s *Store) StatusSnapshot() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM daemon_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		snapshot[k] = v
	}
	return snapshot, rows.Err()
}

// ClearStatus empties the daemon_status table (graceful shutdown).
func (s *Store) ClearStatus() error {
	_, err := s.db.Exec(`DELETE FROM daemon_status`)
	return err
}
