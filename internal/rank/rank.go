// Package rank classifies raw text matches into structurally ordered,
// annotated, and grouped results.
package rank

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/etr/wonk-sub000/internal/store"
)

// Category is a match's classification tier.
type Category int

const (
	Definition Category = iota
	CallSite
	Import
	Other
	Comment
	Test
)

// tierOrder is the sort priority, ascending: Definition(0) < CallSite(1) <
// Import(2) < Other(3) < Comment(4) < Test(5). The Category constants above
// are declared in this same sort order, so each maps to its own value;
// classification priority (Classify) is a separate, different order.
var tierOrder = map[Category]int{
	Definition: 0,
	CallSite:   1,
	Import:     2,
	Other:      3,
	Comment:    4,
	Test:       5,
}

// Header is the constant display label for a category's group.
var Header = map[Category]string{
	Definition: "-- definitions --",
	CallSite:   "-- usages --",
	Other:      "-- usages --",
	Import:     "-- imports --",
	Comment:    "-- comments --",
	Test:       "-- tests --",
}

// RawMatch is one text-searcher hit, the ranker's input contract.
type RawMatch struct {
	File    string
	Line    int
	Col     int
	Content string
}

// Match is a classified, optionally annotated RawMatch.
type Match struct {
	RawMatch
	Category   Category
	Annotation string
}

// Group is a contiguous run of same-category matches with a display header.
type Group struct {
	Category Category
	Header   string
	Matches  []Match
}

var importLeader = regexp.MustCompile(
	`^\s*(use |import |from |#include <|#include "|require \(|require '|require ")`)

func isTestPath(path string) bool {
	path = filepath.ToSlash(path)
	for _, part := range strings.Split(path, "/") {
		if part == "test" || part == "tests" || part == "__tests__" {
			return true
		}
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.HasSuffix(stem, "_test") {
		return true
	}
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.")
}

func isComment(trimmed string) bool {
	if strings.HasPrefix(trimmed, "#include") {
		return false
	}
	for _, prefix := range []string{"//", "/*", "* ", "*/", "#"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// IndexLookup is the bulk (file, line) membership data the ranker needs
// from the store: one set for symbol definitions, one for references.
type IndexLookup struct {
	Symbols    map[string]map[int]bool
	References map[string]map[int]bool
}

// LoadIndexLookup issues the ranker's bulk lookup (at most two queries)
// against the store for the distinct files present in matches.
func LoadIndexLookup(s *store.Store, matches []RawMatch) (IndexLookup, error) {
	fileSet := make(map[string]bool)
	for _, m := range matches {
		fileSet[m.File] = true
	}
	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}

	symLines, err := s.SymbolLinesByFiles(files)
	if err != nil {
		return IndexLookup{}, fmt.Errorf("rank: load symbol lines: %w", err)
	}
	refLines, err := s.ReferenceLinesByFiles(files)
	if err != nil {
		return IndexLookup{}, fmt.Errorf("rank: load reference lines: %w", err)
	}
	return IndexLookup{Symbols: symLines, References: refLines}, nil
}

func (l IndexLookup) isDefinition(file string, line int) bool {
	return l.Symbols[file] != nil && l.Symbols[file][line]
}

func (l IndexLookup) isCallSite(file string, line int) bool {
	return l.References[file] != nil && l.References[file][line]
}

// Classify assigns a category to one raw match, following the fixed
// first-match-wins priority order.
func Classify(m RawMatch, lookup IndexLookup) Category {
	if isTestPath(m.File) {
		return Test
	}
	if lookup.isDefinition(m.File, m.Line) {
		return Definition
	}
	trimmed := strings.TrimSpace(m.Content)
	if importLeader.MatchString(m.Content) {
		return Import
	}
	if isComment(trimmed) {
		return Comment
	}
	if lookup.isCallSite(m.File, m.Line) {
		return CallSite
	}
	return Other
}

// Rank runs the full pipeline: classify, sort, dedup re-exports, group.
func Rank(matches []RawMatch, lookup IndexLookup) []Group {
	classified := make([]Match, 0, len(matches))
	for _, m := range matches {
		classified = append(classified, Match{RawMatch: m, Category: Classify(m, lookup)})
	}

	sort.SliceStable(classified, func(i, j int) bool {
		a, b := classified[i], classified[j]
		if tierOrder[a.Category] != tierOrder[b.Category] {
			return tierOrder[a.Category] < tierOrder[b.Category]
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})

	classified = dedupReexports(classified)
	return group(classified)
}

// dedupReexports implements §4.I's re-export collapse: when the batch has
// at least one Definition and N>=1 Import entries, drop the Imports and
// annotate the first Definition with a "(+N other location[s])" note.
func dedupReexports(matches []Match) []Match {
	var firstDef = -1
	importCount := 0
	for i, m := range matches {
		switch m.Category {
		case Definition:
			if firstDef == -1 {
				firstDef = i
			}
		case Import:
			importCount++
		}
	}
	if firstDef == -1 || importCount == 0 {
		return matches
	}

	out := make([]Match, 0, len(matches))
	for i, m := range matches {
		if m.Category == Import {
			continue
		}
		if i == firstDef {
			noun := "location"
			if importCount > 1 {
				noun = "locations"
			}
			m.Annotation = fmt.Sprintf("(+%d other %s)", importCount, noun)
		}
		out = append(out, m)
	}
	return out
}

// group partitions the sorted, deduped batch into contiguous same-category
// runs, attaching each run's constant display header.
func group(matches []Match) []Group {
	var groups []Group
	for _, m := range matches {
		if len(groups) > 0 && groups[len(groups)-1].Category == m.Category {
			last := &groups[len(groups)-1]
			last.Matches = append(last.Matches, m)
			continue
		}
		groups = append(groups, Group{
			Category: m.Category,
			Header:   Header[m.Category],
			Matches:  []Match{m},
		})
	}
	return groups
}
