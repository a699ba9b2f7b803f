package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/werrors"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Inspect and clean up central index directories",
}

func init() {
	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposCleanCmd)
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories with a central index",
	Args:  cobra.NoArgs,
	RunE:  runReposList,
}

// repoEntry describes one <home>/.wonk/repos/<hash> directory.
type repoEntry struct {
	Hash      string   `json:"hash"`
	Path      string   `json:"index_path"`
	RepoPath  string   `json:"repo_path"`
	Created   int64    `json:"created"`
	Languages []string `json:"languages"`
	Orphaned  bool     `json:"orphaned"`
}

func runReposList(cmd *cobra.Command, args []string) error {
	entries, err := listCentralRepos()
	if err != nil {
		return err
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		for _, e := range entries {
			if err := jsonLine(w, e); err != nil {
				return werrors.Wrap(werrors.Io, "repos list: encode", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "no central indexes found")
		return nil
	}
	for _, e := range entries {
		status := ""
		if e.Orphaned {
			status = " (orphaned)"
		}
		fmt.Fprintf(w, "%s  %s%s\n", e.Hash, e.RepoPath, status)
	}
	return nil
}

var reposCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove central indexes whose source repository no longer exists",
	Args:  cobra.NoArgs,
	RunE:  runReposClean,
}

func runReposClean(cmd *cobra.Command, args []string) error {
	entries, err := listCentralRepos()
	if err != nil {
		return err
	}

	base, err := centralReposBase()
	if err != nil {
		return err
	}

	var removed []repoEntry
	for _, e := range entries {
		if !e.Orphaned {
			continue
		}
		dir := filepath.Join(base, e.Hash)
		if err := os.RemoveAll(dir); err != nil {
			return werrors.Wrap(werrors.Io, "repos clean: remove "+dir, err)
		}
		removed = append(removed, e)
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		for _, e := range removed {
			if err := jsonLine(w, e); err != nil {
				return werrors.Wrap(werrors.Io, "repos clean: encode", err)
			}
		}
		return nil
	}

	if len(removed) == 0 {
		fmt.Fprintln(w, "nothing to clean")
		return nil
	}
	for _, e := range removed {
		fmt.Fprintf(w, "removed %s (%s)\n", e.Hash, e.RepoPath)
	}
	return nil
}

// centralReposBase returns <home>/.wonk/repos, the parent of every
// per-repository hash directory.
func centralReposBase() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", werrors.Wrap(werrors.Io, "repos: user home dir", err)
	}
	return filepath.Join(home, ".wonk", "repos"), nil
}

// listCentralRepos enumerates every hash directory under the central repos
// base, reading each one's meta.json sidecar and flagging entries whose
// original repository path no longer exists on disk.
func listCentralRepos() ([]repoEntry, error) {
	base, err := centralReposBase()
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, werrors.Wrap(werrors.Io, "repos: read central dir", err)
	}

	var out []repoEntry
	for _, d := range dirEntries {
		if !d.IsDir() {
			continue
		}
		indexPath := filepath.Join(base, d.Name(), "index.db")
		if !store.FileExists(indexPath) {
			continue
		}
		meta, err := store.ReadMeta(indexPath)
		if err != nil {
			continue
		}
		orphaned := true
		if info, statErr := os.Stat(meta.RepoPath); statErr == nil && info.IsDir() {
			orphaned = false
		}
		out = append(out, repoEntry{
			Hash:      d.Name(),
			Path:      indexPath,
			RepoPath:  meta.RepoPath,
			Created:   meta.Created,
			Languages: meta.Languages,
			Orphaned:  orphaned,
		})
	}
	return out, nil
}
