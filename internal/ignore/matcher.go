package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Decision is the outcome of evaluating one directory entry.
type Decision int

const (
	// Keep means the entry passes every rule.
	Keep Decision = iota
	// SkipEntry means this entry itself is excluded but siblings still walk.
	SkipEntry
	// SkipSubtree means this entry and everything beneath it is excluded.
	SkipSubtree
)

// Matcher evaluates the filtering rules against a single root: default
// exclusions, hidden-file policy, worktree boundaries, and gitignore-style
// rules gathered from .gitignore/.wonkignore files and caller-supplied
// extra patterns. One Matcher is built per walk or per watch root and reused
// for every entry under it.
// Matcher is safe for concurrent use: the walker's parallel enumeration and
// the sequential enumeration share one Matcher per root.
type Matcher struct {
	root  string
	extra PatternSet

	mu      sync.Mutex
	dirFile map[string]PatternSet // directory (relative to root) -> merged local patterns
}

// New builds a Matcher rooted at root. extraPatterns are caller-supplied
// patterns applied as exclusion overrides rooted at the walk start, per
// the same gitignore syntax.
func New(root string, extraPatterns []string) *Matcher {
	return &Matcher{
		root:    root,
		extra:   NewPatternSet(extraPatterns),
		dirFile: make(map[string]PatternSet),
	}
}

// patternsFor returns the merged .gitignore + .wonkignore PatternSet for the
// directory relDir (relative to root, "" for the root itself), loading and
// caching it on first use.
func (m *Matcher) patternsFor(relDir string) PatternSet {
	m.mu.Lock()
	if ps, ok := m.dirFile[relDir]; ok {
		m.mu.Unlock()
		return ps
	}
	m.mu.Unlock()

	dir := filepath.Join(m.root, relDir)
	gi, _ := loadPatternFile(filepath.Join(dir, ".gitignore"))
	wi, _ := loadPatternFile(filepath.Join(dir, ".wonkignore"))
	merged := PatternSet{patterns: append(append([]Pattern{}, gi.patterns...), wi.patterns...)}

	m.mu.Lock()
	m.dirFile[relDir] = merged
	m.mu.Unlock()
	return merged
}

// Evaluate applies the filtering rules (spec order) to one directory entry.
// relPath is slash-separated, relative to root; depth 0 is the root itself.
func (m *Matcher) Evaluate(relPath string, isDir bool, depth int) Decision {
	if depth == 0 {
		return Keep
	}

	name := filepath.Base(relPath)

	if name == ".git" || defaultExclusions[name] {
		return SkipSubtree
	}

	if strings.HasPrefix(name, ".") && !hiddenAllowlist[name] {
		return SkipSubtree
	}

	if isDir && hasGitEntry(filepath.Join(m.root, relPath)) {
		return SkipSubtree
	}

	if m.matchesGitignore(relPath, isDir) {
		return SkipSubtree
	}

	if m.extra.Matches(relPath, isDir) {
		return SkipSubtree
	}

	return Keep
}

// matchesGitignore checks relPath against every ancestor directory's
// .gitignore/.wonkignore, closest to farthest, each pattern evaluated
// relative to the directory that defines it.
func (m *Matcher) matchesGitignore(relPath string, isDir bool) bool {
	dir := filepath.Dir(relPath)
	if dir == "." {
		dir = ""
	}
	for {
		local := m.patternsFor(dir)
		if !local.Empty() {
			rel, err := filepath.Rel(dir, relPath)
			if err == nil {
				if local.Matches(filepath.ToSlash(rel), isDir) {
					return true
				}
			}
		}
		if dir == "" {
			break
		}
		dir = filepath.Dir(dir)
		if dir == "." {
			dir = ""
		}
	}
	return false
}

// ShouldProcess implements the watcher's event filter: the same three
// component-wise rules as the Walker's filtering steps 2-4, applied without
// needing to stat the event path itself (it may already be gone by the
// time a delete event is processed).
func (m *Matcher) ShouldProcess(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	if relPath == "" || relPath == "." {
		return true
	}
	parts := strings.Split(relPath, "/")

	for _, part := range parts {
		if part == ".git" || defaultExclusions[part] {
			return false
		}
		if strings.HasPrefix(part, ".") && !hiddenAllowlist[part] {
			return false
		}
	}

	dir := m.root
	for i := 0; i < len(parts)-1; i++ {
		dir = filepath.Join(dir, parts[i])
		if hasGitEntry(dir) {
			return false
		}
	}
	return true
}

// hasGitEntry reports whether dir directly contains a ".git" file or
// directory, the signal used for worktree boundary detection.
func hasGitEntry(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil
}
