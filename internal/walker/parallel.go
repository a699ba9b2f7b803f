package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/etr/wonk-sub000/internal/ignore"
)

// WalkParallel enumerates the same candidate set as Walk, but fans the
// top-level subtrees of root out across a worker pool. Sequential and
// parallel enumeration share one ignore.Matcher and must agree on every
// path; callers that don't need the speedup should prefer Walk.
func WalkParallel(root string, extraPatterns []string) ([]string, error) {
	m := ignore.New(root, extraPatterns)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	type walkResult struct {
		paths []string
	}

	results := make([]walkResult, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(max(runtime.NumCPU(), 1))

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			rel := entry.Name()
			decision := m.Evaluate(rel, entry.IsDir(), 1)
			switch decision {
			case ignore.SkipSubtree, ignore.SkipEntry:
				return nil
			}

			path := filepath.Join(root, rel)
			if !entry.IsDir() {
				info, err := entry.Info()
				if err != nil {
					return nil
				}
				if info.Mode().IsRegular() {
					results[i] = walkResult{paths: []string{path}}
				}
				return nil
			}

			sub, err := walkSubtree(m, root, rel)
			if err != nil {
				return err
			}
			results[i] = walkResult{paths: sub}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, r := range results {
		out = append(out, r.paths...)
	}
	sort.Strings(out)
	return out, nil
}

// walkSubtree sequentially enumerates one top-level subtree using the
// shared Matcher, computing relative-to-root depths and paths as Walk does.
func walkSubtree(m *ignore.Matcher, root, relRoot string) ([]string, error) {
	var out []string
	start := filepath.Join(root, relRoot)

	err := filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == relRoot {
			return nil // already evaluated by the caller
		}

		depth := len(splitPath(rel))

		decision := m.Evaluate(filepath.ToSlash(rel), d.IsDir(), depth)
		switch decision {
		case ignore.SkipSubtree:
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		case ignore.SkipEntry:
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}
