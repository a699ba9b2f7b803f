// Package ignore implements the filtering discipline shared by the walker
// and the watcher: default exclusions, hidden-file policy, worktree boundary
// detection, and gitignore-style pattern matching.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultExclusions are skipped entirely, subtree included, regardless of
// any gitignore file.
var defaultExclusions = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"build":        true,
	"dist":         true,
	"__pycache__":  true,
	".venv":        true,
}

// hiddenAllowlist names hidden entries that are not skipped by the
// hidden-file policy.
var hiddenAllowlist = map[string]bool{
	".github": true,
}

// Pattern is one parsed gitignore-style rule.
type Pattern struct {
	raw       string
	negate    bool
	dirOnly   bool
	anchored  bool // leading "/": only matches relative to the file it came from
	glob      string
}

// parsePattern mirrors git's pattern grammar at the fidelity this project
// needs: leading "!" negates, trailing "/" restricts to directories, a
// leading "/" anchors the match to the pattern file's own directory.
func parsePattern(line string) (Pattern, bool) {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return Pattern{}, false
	}

	p := Pattern{raw: line}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	}
	if line == "" {
		return Pattern{}, false
	}
	if !strings.Contains(line, "/") {
		// An unanchored single-component pattern matches at any depth.
		p.glob = "**/" + line
	} else {
		// A pattern containing "/" is always relative to the directory the
		// ignore file lives in, anchored or not.
		p.glob = line
	}
	return p, true
}

// matches reports whether relPath (slash-separated, relative to the
// directory the pattern file lives in) matches p.
func (p Pattern) matches(relPath string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if ok, _ := doublestar.Match(p.glob, relPath); ok {
		return true
	}
	// Also try matching against just the base name for simple patterns,
	// since "*.pyc" style globs are meant to match at any depth on the name
	// alone even when they contain no explicit "**/" prefix.
	if ok, _ := doublestar.Match(p.glob, filepath.Base(relPath)); ok {
		return true
	}
	return false
}

// PatternSet is an ordered list of patterns; later patterns override
// earlier ones, matching git's last-match-wins semantics.
type PatternSet struct {
	patterns []Pattern
}

// NewPatternSet builds a PatternSet from raw pattern lines (e.g. caller
// supplied extra patterns, or the merged lines of a config file).
func NewPatternSet(lines []string) PatternSet {
	var ps PatternSet
	for _, l := range lines {
		if p, ok := parsePattern(l); ok {
			ps.patterns = append(ps.patterns, p)
		}
	}
	return ps
}

// loadPatternFile reads a gitignore-syntax file, returning an empty,
// non-error PatternSet if the file does not exist.
func loadPatternFile(path string) (PatternSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PatternSet{}, nil
		}
		return PatternSet{}, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return PatternSet{}, err
	}
	return NewPatternSet(lines), nil
}

// Matches reports whether any pattern in the set matches relPath, applying
// last-match-wins negation semantics.
func (ps PatternSet) Matches(relPath string, isDir bool) bool {
	matched := false
	for _, p := range ps.patterns {
		if p.matches(relPath, isDir) {
			matched = !p.negate
		}
	}
	return matched
}

// Empty reports whether the set carries no patterns.
func (ps PatternSet) Empty() bool {
	return len(ps.patterns) == 0
}
