// Package daemon provides the daemon's liveness check (a PID file, the only
// cross-process identity mechanism this project uses) and the status
// snapshot API layered on the store's daemon_status table.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// pidFileName is the single-line file written beside the index: the
// process id followed by a newline.
const pidFileName = "daemon.pid"

// PIDPath returns the daemon.pid path for a directory holding the index.
func PIDPath(indexDir string) string {
	return filepath.Join(indexDir, pidFileName)
}

// WritePID writes the current process id to path.
func WritePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("daemon: write pid: %w", err)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

// RemovePID removes the PID file; a missing file is not an error.
func RemovePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("daemon: remove pid: %w", err)
	}
	return nil
}

// ReadPID reads and parses the process id from path. ok is false if the
// file does not exist or its contents don't parse.
func ReadPID(path string) (pid int, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsRunning reports whether pid names a live process, using the signal-0
// probe: sending signal 0 performs permission and existence checks without
// actually delivering a signal.
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// CheckStale reports whether a single-instance enforcement check should
// proceed: if no PID file exists, there's nothing stale to clear. If one
// exists but names a dead process, it's removed and the caller may
// proceed. If it names a live process, the caller must not start a second
// daemon.
func CheckStale(path string) (livePID int, stale bool, err error) {
	pid, ok := ReadPID(path)
	if !ok {
		return 0, false, nil
	}
	if IsRunning(pid) {
		return pid, false, nil
	}
	if rmErr := RemovePID(path); rmErr != nil {
		return 0, false, rmErr
	}
	return 0, true, nil
}
