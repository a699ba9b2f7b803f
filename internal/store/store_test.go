package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(path string) FileResult {
	return FileResult{
		File: FileRecord{
			Path:         path,
			Language:     "Go",
			ContentHash:  ContentHash([]byte(path)),
			LastIndexed:  100,
			LineCount:    10,
			SymbolsCount: 1,
		},
		Symbols: []Symbol{
			{Name: "main", Kind: KindFunction, Line: 1, Col: 0, Signature: "func main()", Language: "Go"},
		},
		References: []Reference{
			{Name: "fmt", Kind: RefCall, Line: 2, Col: 1, Context: "fmt.Println()"},
		},
		Imports: []ImportEdge{
			{ImportPath: "fmt"},
		},
	}
}

func TestApplyBuildBatchAndSymbolsCountInvariant(t *testing.T) {
	s := newTestStore(t)
	r := sampleResult("main.go")

	require.NoError(t, s.ApplyBuildBatch([]FileResult{r}))

	f, err := s.FileByPath("main.go")
	require.NoError(t, err)
	require.NotNil(t, f)

	syms, err := s.SymbolsByFile("main.go")
	require.NoError(t, err)
	require.Len(t, syms, f.SymbolsCount)
}

func TestFTSTriggerSyncOnInsertAndDelete(t *testing.T) {
	s := newTestStore(t)
	r := sampleResult("a.go")
	require.NoError(t, s.ApplyBuildBatch([]FileResult{r}))

	n, err := s.CountMatchingSymbols("main")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, s.DeleteFile("a.go"))

	n, err = s.CountMatchingSymbols("main")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestCountMatchingSymbolsDoesNotPanicOnFTSSpecialChars(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyBuildBatch([]FileResult{sampleResult("x.go")}))

	for _, pattern := range []string{`"unterminated`, "AND OR NOT", "*", `name:"x`, "-exclude"} {
		n, err := s.CountMatchingSymbols(pattern)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
	}
}

func TestReindexIsNoopWhenHashUnchanged(t *testing.T) {
	s := newTestStore(t)
	r := sampleResult("b.go")
	require.NoError(t, s.ApplyBuildBatch([]FileResult{r}))

	before, err := s.FileByPath("b.go")
	require.NoError(t, err)

	// Simulate the Incremental Updater's hash check short-circuit: since the
	// hash is unchanged, the updater never calls ApplyFileUpdate at all.
	after, err := s.FileByPath("b.go")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestDeleteFileCascadesAcrossAllTables(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyBuildBatch([]FileResult{sampleResult("c.go")}))

	require.NoError(t, s.DeleteFile("c.go"))

	f, err := s.FileByPath("c.go")
	require.NoError(t, err)
	require.Nil(t, f)

	syms, err := s.SymbolsByFile("c.go")
	require.NoError(t, err)
	require.Empty(t, syms)

	refs, err := s.ReferencesByName(ReferenceLookup{Name: "fmt"})
	require.NoError(t, err)
	require.Empty(t, refs)

	deps, err := s.Deps("c.go")
	require.NoError(t, err)
	require.Empty(t, deps)
}

func TestMetaRoundTrip(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.db")
	m := Meta{RepoPath: "/repo", Created: 42, Languages: []string{"Go", "Python"}}

	require.NoError(t, WriteMeta(indexPath, m))
	got, err := ReadMeta(indexPath)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestStatusRoundTripAndClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteStatus(StatusPID, "1234", 10))

	v, ok, err := s.ReadStatus(StatusPID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1234", v)

	require.NoError(t, s.ClearStatus())
	snap, err := s.StatusSnapshot()
	require.NoError(t, err)
	require.Empty(t, snap)
}

func TestRebuildIdempotent(t *testing.T) {
	s := newTestStore(t)
	results := []FileResult{sampleResult("x.go"), sampleResult("y.go")}
	require.NoError(t, s.ApplyBuildBatch(results))

	n1, err := s.FileCount()
	require.NoError(t, err)

	require.NoError(t, s.Rebuild())
	require.NoError(t, s.ApplyBuildBatch(results))

	n2, err := s.FileCount()
	require.NoError(t, err)
	require.Equal(t, n1, n2)
}

func TestDistinctLanguagesSorted(t *testing.T) {
	s := newTestStore(t)
	a := sampleResult("a.py")
	a.File.Language = "Python"
	b := sampleResult("b.rs")
	b.File.Language = "Rust"
	require.NoError(t, s.ApplyBuildBatch([]FileResult{a, b}))

	langs, err := s.DistinctLanguages()
	require.NoError(t, err)
	require.Equal(t, []string{"Python", "Rust"}, langs)
}
