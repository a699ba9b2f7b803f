// Package index implements the Index Builder and Incremental Updater: the
// pipeline stages that turn a repo root or a single file into Store rows.
package index

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/etr/wonk-sub000/internal/extract"
	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/walker"
)

// BuildStats summarizes a completed build or rebuild.
type BuildStats struct {
	FileCount      int
	SymbolCount    int
	ReferenceCount int
	Elapsed        time.Duration
}

// BuildOptions configures a Build run.
type BuildOptions struct {
	// ExtraIgnorePatterns are caller-supplied gitignore-syntax exclusions
	// rooted at Root.
	ExtraIgnorePatterns []string

	// AdditionalExtensions are file extensions (without the dot) that get a
	// FileRecord despite having no grammar of their own ([index]
	// additional_extensions).
	AdditionalExtensions []string

	// MaxFileSizeKB caps the size of a file eligible for extraction; files
	// over the cap are skipped like an unrecognized language. Zero means no
	// cap.
	MaxFileSizeKB uint64
}

// Build runs the full Index Builder algorithm (§4.D): walk the repo,
// extract every file in parallel, commit in one transaction, and write the
// Meta sidecar with the observed language set.
func Build(ctx context.Context, s *store.Store, root string, indexPath string, opts BuildOptions) (BuildStats, error) {
	start := time.Now()

	paths, err := walker.WalkParallel(root, opts.ExtraIgnorePatterns)
	if err != nil {
		return BuildStats{}, fmt.Errorf("index: build: walk: %w", err)
	}

	results, err := extractParallel(ctx, paths, opts.AdditionalExtensions, opts.MaxFileSizeKB)
	if err != nil {
		return BuildStats{}, fmt.Errorf("index: build: extract: %w", err)
	}

	if err := s.ApplyBuildBatch(results); err != nil {
		return BuildStats{}, fmt.Errorf("index: build: apply batch: %w", err)
	}

	langs, err := s.DistinctLanguages()
	if err != nil {
		return BuildStats{}, fmt.Errorf("index: build: languages: %w", err)
	}
	if err := store.WriteMeta(indexPath, store.Meta{
		RepoPath:  root,
		Created:   start.Unix(),
		Languages: langs,
	}); err != nil {
		return BuildStats{}, fmt.Errorf("index: build: write meta: %w", err)
	}

	stats := BuildStats{Elapsed: time.Since(start)}
	for _, r := range results {
		stats.FileCount++
		stats.SymbolCount += len(r.Symbols)
		stats.ReferenceCount += len(r.References)
	}
	return stats, nil
}

// Rebuild truncates the store and re-runs Build from scratch.
func Rebuild(ctx context.Context, s *store.Store, root string, indexPath string, opts BuildOptions) (BuildStats, error) {
	if err := s.Rebuild(); err != nil {
		return BuildStats{}, fmt.Errorf("index: rebuild: %w", err)
	}
	return Build(ctx, s, root, indexPath, opts)
}

// extractParallel runs phase B of the builder pipeline: per-file hashing,
// parsing, and extraction across a worker pool. Phase A (path prep) and
// phase C (the caller's single-transaction commit) stay serial; this
// function only ever reads files and returns immutable records.
func extractParallel(ctx context.Context, paths []string, additionalExtensions []string, maxFileSizeKB uint64) ([]store.FileResult, error) {
	results := make([]store.FileResult, len(paths))
	keep := make([]bool, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runtime.NumCPU(), 1))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			r, ok, err := extractFile(path, additionalExtensions, maxFileSizeKB)
			if err != nil {
				// A per-file error is dropped, not propagated: §4.D step 3
				// drops failures to None and keeps going.
				return nil
			}
			if ok {
				results[i] = r
				keep[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]store.FileResult, 0, len(paths))
	for i, ok := range keep {
		if ok {
			out = append(out, results[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File.Path < out[j].File.Path })
	return out, nil
}

// extractFile reads, hashes, detects the language, parses, and extracts a
// single file. ok is false for files with no recognized language, files over
// maxFileSizeKB, or files that could not be read — these are edge cases, not
// errors.
func extractFile(path string, additionalExtensions []string, maxFileSizeKB uint64) (store.FileResult, bool, error) {
	lang, ok := extract.LanguageForFileWithExtras(path, additionalExtensions)
	if !ok {
		return store.FileResult{}, false, nil
	}

	if maxFileSizeKB > 0 {
		if info, err := os.Stat(path); err == nil {
			if uint64(info.Size()) > maxFileSizeKB*1024 {
				return store.FileResult{}, false, nil
			}
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return store.FileResult{}, false, nil
	}

	res, err := extract.Extract(lang, content)
	if err != nil {
		return store.FileResult{}, false, nil
	}

	fr := store.FileResult{
		File: store.FileRecord{
			Path:         path,
			Language:     lang,
			ContentHash:  store.ContentHash(content),
			LastIndexed:  time.Now().Unix(),
			LineCount:    res.LineCount,
			SymbolsCount: len(res.Symbols),
		},
		Symbols:    res.Symbols,
		References: res.References,
		Imports:    res.Imports,
	}
	return fr, true, nil
}
