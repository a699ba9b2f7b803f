package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	wonk "github.com/etr/wonk-sub000"
	"github.com/etr/wonk-sub000/internal/store"
)

var flagInitLocal bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Build a fresh index for a repository",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitLocal, "local", false, "store the index at <repo>/.wonk/index.db instead of the central location")
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root = resolvePath(root)

	opts, _ := engineOptionsForRoot(root)
	e, err := openEngineAt(root, flagInitLocal, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	start := time.Now()
	stats, err := e.Build(cliContext())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Indexed %s in %s: %d files, %d symbols, %d references\n",
		root, time.Since(start).Round(time.Millisecond), stats.FileCount, stats.SymbolCount, stats.ReferenceCount)
	fmt.Fprintf(cmd.ErrOrStderr(), "Index: %s\n", e.IndexPath())
	return nil
}

// openEngineAt opens an Engine at root, optionally forcing the local index
// path instead of the resolved default (an existing local index, otherwise
// the central location).
func openEngineAt(root string, local bool, opts ...wonk.Option) (*wonk.Engine, error) {
	if !local {
		return wonk.Open(root, opts...)
	}
	localPath := store.LocalIndexPath(root)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return nil, err
	}
	return wonk.OpenAt(root, localPath, opts...)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-run a full build against the current repository",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	opts, _ := engineOptionsForRoot(root)
	e, err := wonk.Open(root, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	start := time.Now()
	stats, err := e.Build(cliContext())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Updated %s in %s: %d files, %d symbols, %d references\n",
		root, time.Since(start).Round(time.Millisecond), stats.FileCount, stats.SymbolCount, stats.ReferenceCount)
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and daemon status for the current repository",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}

	r, err := wonk.NewRouterForRoot(root)
	if err != nil {
		return err
	}
	defer r.Close()

	w := cmd.OutOrStdout()
	cfg := loadConfig()
	if !r.HasIndex() {
		if outputFormat(cfg) == "json" {
			return jsonLine(w, map[string]any{"indexed": false})
		}
		fmt.Fprintln(w, "no index built for this repository")
		return nil
	}

	counts, err := r.Status()
	if err != nil {
		return err
	}

	snap, snapErr := daemonSnapshot(root)

	if outputFormat(cfg) == "json" {
		rec := map[string]any{
			"indexed":   true,
			"files":     counts.Files,
			"languages": counts.Languages,
		}
		if snapErr == nil && snap.Present {
			rec["daemon"] = snap
		}
		return jsonLine(w, rec)
	}

	fmt.Fprintf(w, "Files indexed: %d\n", counts.Files)
	fmt.Fprintf(w, "Languages: %v\n", counts.Languages)
	if snapErr == nil && snap.Present {
		fmt.Fprintf(w, "Daemon: %s (pid %d)\n", snap.State, snap.PID)
		if snap.LastError != "" {
			fmt.Fprintf(w, "Last error: %s\n", snap.LastError)
		}
	} else {
		fmt.Fprintln(w, "Daemon: not running")
	}
	return nil
}
