// Package wonk is the top-level API: Engine orchestrates indexing against a
// single repository root, and Query exposes the read-only typed lookups the
// CLI and MCP surfaces both build on.
package wonk

import (
	"context"
	"fmt"

	"github.com/etr/wonk-sub000/internal/config"
	"github.com/etr/wonk-sub000/internal/ignore"
	"github.com/etr/wonk-sub000/internal/index"
	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/werrors"
)

// Engine orchestrates the indexing pipeline for one repository root: opening
// or creating the store at the resolved index path, running a full build,
// and applying incremental updates as individual files change.
type Engine struct {
	root               string
	indexPath          string
	store              *store.Store
	extra              []string // extra ignore patterns, beyond .gitignore/.wonkignore
	additionalExts     []string // additional_extensions: indexable but ungrammared
	maxFileSizeKB      uint64   // 0 means no cap
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtraIgnorePatterns supplies additional gitignore-style patterns the
// walker applies on top of .gitignore and .wonkignore, e.g. from config.
func WithExtraIgnorePatterns(patterns ...string) Option {
	return func(e *Engine) {
		e.extra = append(e.extra, patterns...)
	}
}

// WithAdditionalExtensions extends the indexable file set past the built-in
// language table ([index] additional_extensions): files matching one of
// these extensions are carried into the index with a line count but no
// extracted symbols.
func WithAdditionalExtensions(extensions ...string) Option {
	return func(e *Engine) {
		e.additionalExts = append(e.additionalExts, extensions...)
	}
}

// WithMaxFileSizeKB caps the size of a file eligible for indexing ([index]
// max_file_size_kb). A value of 0 leaves the default (no cap) in place.
func WithMaxFileSizeKB(kb uint64) Option {
	return func(e *Engine) {
		e.maxFileSizeKB = kb
	}
}

// OptionsForConfig translates a loaded Config into the matching Option set,
// so every entry point (CLI commands, the daemon, the MCP server) applies
// .wonk/config.toml's [ignore], [index] keys identically.
func OptionsForConfig(cfg config.Config) []Option {
	var opts []Option
	if len(cfg.Ignore.Patterns) > 0 {
		opts = append(opts, WithExtraIgnorePatterns(cfg.Ignore.Patterns...))
	}
	if len(cfg.Index.AdditionalExtensions) > 0 {
		opts = append(opts, WithAdditionalExtensions(cfg.Index.AdditionalExtensions...))
	}
	if cfg.Index.MaxFileSizeKB > 0 {
		opts = append(opts, WithMaxFileSizeKB(cfg.Index.MaxFileSizeKB))
	}
	return opts
}

// OptionsForRoot loads root's layered config and returns both the translated
// Option set and the Config itself, for callers that also need output
// format or daemon settings.
func OptionsForRoot(root string) ([]Option, config.Config) {
	cfg, err := config.Load(root)
	if err != nil {
		cfg = config.Defaults()
	}
	return OptionsForConfig(cfg), cfg
}

// Open resolves the index path for root (an existing index, local
// .wonk/index.db before the central store; otherwise the central location),
// opening an existing index if present and otherwise preparing to create one
// on first Build.
func Open(root string, opts ...Option) (*Engine, error) {
	indexPath, err := resolveIndexPath(root)
	if err != nil {
		return nil, werrors.Wrap(werrors.Io, "engine: resolve index path", err)
	}

	e := &Engine{root: root, indexPath: indexPath}
	for _, opt := range opts {
		opt(e)
	}

	s, err := store.Open(indexPath)
	if err != nil {
		return nil, werrors.Wrap(werrors.Io, "engine: open store", err)
	}
	e.store = s
	return e, nil
}

// OpenAt opens an Engine at an explicitly chosen index path, bypassing the
// central-vs-local resolution Open performs. Used by the CLI's `init
// --local` to force the repo-local layout.
func OpenAt(root, indexPath string, opts ...Option) (*Engine, error) {
	e := &Engine{root: root, indexPath: indexPath}
	for _, opt := range opts {
		opt(e)
	}

	s, err := store.Open(indexPath)
	if err != nil {
		return nil, werrors.Wrap(werrors.Io, "engine: open store", err)
	}
	e.store = s
	return e, nil
}

// resolveIndexPath prefers an already-existing index (central or local),
// and otherwise defaults to the central location keyed by the repo's
// canonical path.
func resolveIndexPath(root string) (string, error) {
	if existing, err := store.FindExistingIndex(root); err == nil && existing != "" {
		return existing, nil
	}
	return store.CentralIndexPath(root)
}

// Close releases the Engine's store handle.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying store for callers (the daemon, the CLI's
// status command) that need direct access beyond the Query surface.
func (e *Engine) Store() *store.Store {
	return e.store
}

// IndexPath returns the resolved on-disk index location.
func (e *Engine) IndexPath() string {
	return e.indexPath
}

// Root returns the repository root this Engine indexes.
func (e *Engine) Root() string {
	return e.root
}

// Build performs a full index of the repository root, discarding any prior
// content. It is the CLI's `init` and `update` entry point.
func (e *Engine) Build(ctx context.Context) (index.BuildStats, error) {
	stats, err := index.Rebuild(ctx, e.store, e.root, e.indexPath, index.BuildOptions{
		ExtraIgnorePatterns:  e.extra,
		AdditionalExtensions: e.additionalExts,
		MaxFileSizeKB:        e.maxFileSizeKB,
	})
	if err != nil {
		return stats, werrors.Wrap(werrors.Io, "engine: build", err)
	}
	return stats, nil
}

// EnsureBuilt runs a full Build only if the store has no files indexed yet,
// the "fall back to a just-built index if absent" behavior the Query Router
// relies on.
func (e *Engine) EnsureBuilt(ctx context.Context) (bool, error) {
	n, err := e.store.FileCount()
	if err != nil {
		return false, werrors.Wrap(werrors.Io, "engine: file count", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := e.Build(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Reindex applies an incremental update for a single changed file.
func (e *Engine) Reindex(path string) (index.UpdateResult, error) {
	res, err := index.Reindex(e.store, path, e.updateOptions())
	if err != nil {
		return res, werrors.Wrap(werrors.Io, "engine: reindex", err)
	}
	return res, nil
}

// UpdateOptions exposes the Engine's additional_extensions/max_file_size_kb
// settings for callers (the watcher's event loop) driving index.ProcessEvents
// directly against the Engine's store.
func (e *Engine) UpdateOptions() index.UpdateOptions {
	return e.updateOptions()
}

func (e *Engine) updateOptions() index.UpdateOptions {
	return index.UpdateOptions{
		AdditionalExtensions: e.additionalExts,
		MaxFileSizeKB:        e.maxFileSizeKB,
	}
}

// Remove deletes a single file's rows, for watcher-driven deletions.
func (e *Engine) Remove(path string) error {
	if err := index.Remove(e.store, path); err != nil {
		return werrors.Wrap(werrors.Io, "engine: remove", err)
	}
	return nil
}

// Matcher builds an ignore.Matcher rooted at the Engine's repository root,
// for the watcher to reuse the same filtering discipline as the builder.
func (e *Engine) Matcher() *ignore.Matcher {
	return ignore.New(e.root, e.extra)
}

// Query returns a read-only Router over the Engine's store.
func (e *Engine) Query() *Router {
	return &Router{store: e.store}
}

// NewRouterForRoot opens a Router directly against a repository root without
// constructing a full Engine, for read-only CLI commands (search, sym, ref)
// that never need to build. If no index exists, the returned Router's
// methods return a werrors.NoIndex error rather than failing to open.
func NewRouterForRoot(root string) (*Router, error) {
	path, err := resolveIndexPath(root)
	if err != nil {
		return nil, werrors.Wrap(werrors.Io, "router: resolve index path", err)
	}
	if !store.FileExists(path) {
		return &Router{store: nil, missingPath: path}, nil
	}
	s, err := store.OpenExisting(path)
	if err != nil {
		return nil, werrors.Wrap(werrors.Io, "router: open store", err)
	}
	return &Router{store: s}, nil
}

func wrapQueryErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return werrors.Wrap(werrors.QueryFailed, fmt.Sprintf("router: %s", op), err)
}
