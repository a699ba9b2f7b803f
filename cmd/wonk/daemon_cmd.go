package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	wonk "github.com/etr/wonk-sub000"
	"github.com/etr/wonk-sub000/internal/daemon"
	"github.com/etr/wonk-sub000/internal/index"
	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/watch"
	"github.com/etr/wonk-sub000/internal/werrors"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Control the background watcher that keeps the index current",
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the watch loop in the foreground, keeping the index current",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

// runDaemonStart runs the cooperative event loop in the calling process.
// Process daemonization (fork/session detachment) is explicitly out of
// scope; callers background this with their shell or a process supervisor.
func runDaemonStart(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	opts, cfg := engineOptionsForRoot(root)
	e, err := wonk.Open(root, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	pidPath := daemon.PIDPath(filepath.Dir(e.IndexPath()))
	if livePID, stale, err := daemon.CheckStale(pidPath); err != nil {
		return werrors.Wrap(werrors.Io, "daemon: check stale pid", err)
	} else if !stale && livePID != 0 {
		return werrors.New(werrors.Usage, "daemon: already running", fmt.Errorf("pid %d", livePID))
	}

	w, err := watch.New(root, time.Duration(cfg.Daemon.DebounceMs)*time.Millisecond, cfg.Ignore.Patterns...)
	if err != nil {
		return werrors.Wrap(werrors.Io, "daemon: create watcher", err)
	}
	if err := w.Start(); err != nil {
		return werrors.Wrap(werrors.Io, "daemon: start watcher", err)
	}

	if err := daemon.WritePID(pidPath); err != nil {
		w.Stop()
		return werrors.Wrap(werrors.Io, "daemon: write pid", err)
	}
	rec := daemon.NewRecorder(e.Store())
	if err := rec.Startup(os.Getpid()); err != nil {
		w.Stop()
		daemon.RemovePID(pidPath)
		return werrors.Wrap(werrors.Io, "daemon: record startup", err)
	}

	shutdown := &watch.Flag{}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		shutdown.Set()
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "wonk daemon watching %s (pid %d)\n", root, os.Getpid())

	handler := func(batch []watch.Change) {
		events := make([]index.Event, 0, len(batch))
		for _, c := range batch {
			kind := index.EventModify
			if c.Kind == watch.Deleted {
				kind = index.EventDelete
			}
			events = append(events, index.Event{Path: c.Path, Kind: kind})
		}
		updated := index.ProcessEvents(e.Store(), events, e.UpdateOptions(), func(path string, err error) {
			rec.Error(fmt.Sprintf("%s: %v", path, err))
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %v\n", path, err)
		})
		rec.BatchProcessed(updated)
	}

	idleTimeout := time.Duration(cfg.Daemon.IdleTimeoutMinutes) * time.Minute
	watch.RunWithIdleTimeout(w, shutdown, idleTimeout, handler)

	w.Stop()
	rec.Shutdown()
	daemon.RemovePID(pidPath)
	fmt.Fprintln(cmd.ErrOrStderr(), "wonk daemon stopped")
	return nil
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Signal a running daemon to stop",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	path, err := indexPathFor(root)
	if err != nil {
		return err
	}
	pidPath := daemon.PIDPath(filepath.Dir(path))

	pid, ok := daemon.ReadPID(pidPath)
	if !ok {
		return werrors.New(werrors.Usage, "daemon: stop", fmt.Errorf("no daemon running for %s", root))
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return werrors.Wrap(werrors.Io, "daemon: find process", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return werrors.Wrap(werrors.Io, "daemon: signal process", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !daemon.IsRunning(pid) {
			fmt.Fprintln(cmd.ErrOrStderr(), "daemon stopped")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return werrors.New(werrors.Io, "daemon: stop", fmt.Errorf("pid %d did not exit within 5s", pid))
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon is running",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	snap, err := daemonSnapshot(root)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		return jsonLine(w, snap)
	}
	if !snap.Present {
		fmt.Fprintln(w, "daemon: not running")
		return nil
	}
	fmt.Fprintf(w, "daemon: %s (pid %d)\n", snap.State, snap.PID)
	return nil
}

// daemonSnapshot reads the daemon_status aggregate for root's index,
// without requiring a daemon to currently be running.
func daemonSnapshot(root string) (daemon.Snapshot, error) {
	path, err := indexPathFor(root)
	if err != nil {
		return daemon.Snapshot{}, err
	}
	if !store.FileExists(path) {
		return daemon.Snapshot{}, nil
	}
	r, err := wonk.NewRouterForRoot(root)
	if err != nil {
		return daemon.Snapshot{}, err
	}
	defer r.Close()
	if !r.HasIndex() {
		return daemon.Snapshot{}, nil
	}
	return daemon.ReadSnapshot(r.Store())
}
