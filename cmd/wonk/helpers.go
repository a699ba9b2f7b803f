package main

import (
	"context"
	"os"
	"path/filepath"

	wonk "github.com/etr/wonk-sub000"
	"github.com/etr/wonk-sub000/internal/config"
	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/werrors"
)

// cliContext is the background context every CLI command runs its
// indexing operations under; there is no cancellation surface at this
// layer (each invocation is a single short-lived process).
func cliContext() context.Context {
	return context.Background()
}

// repoRoot resolves the repository root for the current working directory,
// walking up for a .git entry or an existing .wonk directory.
func repoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", werrors.Wrap(werrors.Io, "cli: getwd", err)
	}
	return store.FindRepoRoot(cwd), nil
}

// openRouter opens a read-only Router against the current repo, building a
// one-shot index first if none exists (the Query Router's documented
// fallback behavior).
func openRouter() (*wonk.Router, func() error, error) {
	root, err := repoRoot()
	if err != nil {
		return nil, nil, err
	}

	r, err := wonk.NewRouterForRoot(root)
	if err != nil {
		return nil, nil, err
	}
	if r.HasIndex() {
		return r, r.Close, nil
	}

	opts, _ := engineOptionsForRoot(root)
	e, err := wonk.Open(root, opts...)
	if err != nil {
		return nil, nil, err
	}
	if _, err := e.EnsureBuilt(cliContext()); err != nil {
		e.Close()
		return nil, nil, err
	}
	return e.Query(), e.Close, nil
}

// loadConfig loads the layered config for the current repo, falling back to
// defaults if the repo root can't be resolved.
func loadConfig() config.Config {
	root, err := repoRoot()
	if err != nil {
		return config.Defaults()
	}
	cfg, err := config.Load(root)
	if err != nil {
		return config.Defaults()
	}
	return cfg
}

// engineOptionsForRoot loads root's layered config and translates its
// recognised keys into the matching wonk.Option set, so init/update/daemon
// all honor .wonk/config.toml the same way.
func engineOptionsForRoot(root string) ([]wonk.Option, config.Config) {
	return wonk.OptionsForRoot(root)
}

// outputFormat resolves the --json/--format precedence: --json always wins,
// --format overrides config, config's default_format is the fallback.
func outputFormat(cfg config.Config) string {
	if flagJSON {
		return "json"
	}
	if flagFormat != "" {
		return flagFormat
	}
	return cfg.Output.DefaultFormat
}

// indexPathFor resolves the index path for root without opening a store,
// for daemon commands that only need the path to find the PID file.
func indexPathFor(root string) (string, error) {
	if existing, err := store.FindExistingIndex(root); err == nil && existing != "" {
		return existing, nil
	}
	return store.CentralIndexPath(root)
}

func resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
