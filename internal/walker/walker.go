// Package walker enumerates candidate source files under a repository root,
// applying the shared ignore discipline (default exclusions, hidden-file
// policy, worktree boundaries, gitignore-style rules).
package walker

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/etr/wonk-sub000/internal/ignore"
)

// Walk enumerates regular files under root, honouring the filtering rules in
// ignore.Matcher. extraPatterns are caller-supplied gitignore-syntax
// exclusions rooted at root. The result is sorted for deterministic output;
// sequential and parallel enumeration (WalkParallel) must yield the same set.
func Walk(root string, extraPatterns []string) ([]string, error) {
	m := ignore.New(root, extraPatterns)

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Per-entry errors are silently skipped; enumeration never aborts.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := 0
		if relPath != "." {
			depth = len(splitPath(relPath))
		}
		rel := relPath
		if rel == "." {
			rel = ""
		}

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
	if err != nil {
		return nil, err
	}

	sort.Strings(out)
	return out, nil
}

func splitPath(p string) []string {
	var parts []string
	for {
		dir, file := filepath.Split(p)
		if file != "" {
			parts = append(parts, file)
		}
		dir = filepath.Clean(dir)
		if dir == "." || dir == string(filepath.Separator) {
			break
		}
		p = dir
	}
	return parts
}
