package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lookup(symbols, references map[string]map[int]bool) IndexLookup {
	return IndexLookup{Symbols: symbols, References: references}
}

func TestClassifyTestPathTakesPriorityOverEverything(t *testing.T) {
	l := lookup(map[string]map[int]bool{"pkg/foo_test.go": {10: true}}, nil)
	m := RawMatch{File: "pkg/foo_test.go", Line: 10, Content: "import \"testing\""}
	require.Equal(t, Test, Classify(m, l))
}

func TestClassifyDefinition(t *testing.T) {
	l := lookup(map[string]map[int]bool{"a.go": {5: true}}, nil)
	m := RawMatch{File: "a.go", Line: 5, Content: "func Foo() {}"}
	require.Equal(t, Definition, Classify(m, l))
}

func TestClassifyImportLeaders(t *testing.T) {
	l := lookup(nil, nil)
	cases := []string{
		`use std::fmt;`,
		`import "fmt"`,
		`from foo import bar`,
		`#include <stdio.h>`,
		`#include "local.h"`,
		`require 'json'`,
	}
	for _, content := range cases {
		m := RawMatch{File: "a.go", Line: 1, Content: content}
		require.Equal(t, Import, Classify(m, l), content)
	}
}

func TestClassifyCommentExcludesIncludeDirective(t *testing.T) {
	l := lookup(nil, nil)
	require.Equal(t, Import, Classify(RawMatch{File: "a.c", Line: 1, Content: `#include <stdio.h>`}, l))
	require.Equal(t, Comment, Classify(RawMatch{File: "a.c", Line: 1, Content: `# a shell comment`}, l))
	require.Equal(t, Comment, Classify(RawMatch{File: "a.go", Line: 1, Content: `// a comment`}, l))
}

func TestClassifyCallSite(t *testing.T) {
	l := lookup(nil, map[string]map[int]bool{"a.go": {7: true}})
	m := RawMatch{File: "a.go", Line: 7, Content: "doSomething()"}
	require.Equal(t, CallSite, Classify(m, l))
}

func TestClassifyOtherFallback(t *testing.T) {
	l := lookup(nil, nil)
	m := RawMatch{File: "a.go", Line: 1, Content: "just some text"}
	require.Equal(t, Other, Classify(m, l))
}

func TestRankSortOrderByTier(t *testing.T) {
	l := lookup(
		map[string]map[int]bool{"a.go": {1: true}},
		map[string]map[int]bool{"a.go": {2: true}},
	)
	matches := []RawMatch{
		{File: "a.go", Line: 9, Content: "plain text"},     // Other
		{File: "a.go", Line: 1, Content: "func Foo(){}"},   // Definition
		{File: "a.go", Line: 2, Content: "Foo()"},          // CallSite
		{File: "a.go", Line: 3, Content: `import "fmt"`},   // Import
		{File: "a.go", Line: 4, Content: "// a comment"},   // Comment
	}
	groups := Rank(matches, l)

	var order []Category
	for _, g := range groups {
		order = append(order, g.Category)
	}
	require.Equal(t, []Category{Definition, CallSite, Import, Other, Comment}, order)
}

func TestRankDedupReexportsAnnotatesFirstDefinition(t *testing.T) {
	l := lookup(map[string]map[int]bool{"a.go": {1: true}}, nil)
	matches := []RawMatch{
		{File: "a.go", Line: 1, Content: "func Foo(){}"},
		{File: "b.go", Line: 2, Content: `import "pkg/a"`},
		{File: "c.go", Line: 3, Content: `import "pkg/a"`},
	}
	groups := Rank(matches, l)

	require.Len(t, groups, 1)
	require.Equal(t, Definition, groups[0].Category)
	require.Len(t, groups[0].Matches, 1)
	require.Equal(t, "(+2 other locations)", groups[0].Matches[0].Annotation)
}

func TestRankNoDedupWithoutDefinition(t *testing.T) {
	l := lookup(nil, nil)
	matches := []RawMatch{
		{File: "b.go", Line: 2, Content: `import "pkg/a"`},
		{File: "c.go", Line: 3, Content: `import "pkg/a"`},
	}
	groups := Rank(matches, l)

	require.Len(t, groups, 1)
	require.Equal(t, Import, groups[0].Category)
	require.Len(t, groups[0].Matches, 2)
}

func TestGroupingEmptyCategoriesNotEmitted(t *testing.T) {
	l := lookup(nil, nil)
	matches := []RawMatch{
		{File: "a.go", Line: 1, Content: "plain"},
		{File: "a.go", Line: 2, Content: "plain2"},
	}
	groups := Rank(matches, l)
	require.Len(t, groups, 1)
	require.Equal(t, "-- usages --", groups[0].Header)
}

func TestIsTestPathVariants(t *testing.T) {
	require.True(t, isTestPath("pkg/tests/a.go"))
	require.True(t, isTestPath("pkg/__tests__/a.js"))
	require.True(t, isTestPath("pkg/foo_test.go"))
	require.True(t, isTestPath("pkg/foo.test.ts"))
	require.True(t, isTestPath("pkg/foo.spec.ts"))
	require.False(t, isTestPath("pkg/foo.go"))
}
