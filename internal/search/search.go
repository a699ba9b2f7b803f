// Package search is the thin regex-search wrapper spec.md §1 places outside
// the core: it turns a pattern and a set of root paths into the raw matches
// the ranker classifies. It is not part of the ranker's contract, only a
// producer of its input.
package search

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/etr/wonk-sub000/internal/ignore"
	"github.com/etr/wonk-sub000/internal/rank"
)

// Options configures one search run.
type Options struct {
	Regex         bool // pattern is a regular expression, not a literal
	CaseSensitive bool
	Paths         []string // optional path scope; empty means the whole root
}

// Run walks root (honoring the same ignore discipline as the indexer),
// scans every text file line by line, and returns every match as a
// rank.RawMatch ready for rank.Classify/rank.Rank.
func Run(root string, pattern string, opts Options) ([]rank.RawMatch, error) {
	re, err := compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("search: compile pattern: %w", err)
	}

	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{root}
	}

	matcher := ignore.New(root, nil)
	var matches []rank.RawMatch
	for _, scanRoot := range roots {
		if err := scanTree(matcher, root, scanRoot, re, &matches); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func compile(pattern string, opts Options) (*regexp.Regexp, error) {
	expr := pattern
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func scanTree(matcher *ignore.Matcher, root, start string, re *regexp.Regexp, out *[]rank.RawMatch) error {
	info, err := os.Stat(start)
	if err != nil {
		return fmt.Errorf("search: stat %s: %w", start, err)
	}
	if !info.IsDir() {
		return scanFile(root, start, re, out)
	}

	return filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		depth := len(strings.Split(filepath.ToSlash(rel), "/"))
		switch matcher.Evaluate(rel, d.IsDir(), depth) {
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
		return scanFile(root, path, re, out)
	})
}

func scanFile(root, path string, re *regexp.Regexp, out *[]rank.RawMatch) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // unreadable files are skipped, not fatal (matches walker discipline)
	}
	defer f.Close()

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !isLikelyText(line) {
			continue
		}
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		*out = append(*out, rank.RawMatch{
			File:    rel,
			Line:    lineNo,
			Col:     loc[0] + 1,
			Content: line,
		})
	}
	return nil
}

// isLikelyText rejects lines containing a NUL byte, a cheap binary-file
// guard so a search over a repo with mixed binary assets doesn't choke on
// garbage content.
func isLikelyText(line string) bool {
	return !strings.ContainsRune(line, 0)
}
