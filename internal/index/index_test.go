package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etr/wonk-sub000/internal/store"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestBuildIndexesRepoAndWritesMeta(t *testing.T) {
	root := t.TempDir()
	writeSource(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")
	writeSource(t, filepath.Join(root, "lib.py"), "def helper():\n    pass\n")
	writeSource(t, filepath.Join(root, "README.md"), "# readme\n")

	s, indexPath := newTestStore(t)
	stats, err := Build(context.Background(), s, root, indexPath, BuildOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, stats.FileCount)
	require.GreaterOrEqual(t, stats.SymbolCount, 2)

	meta, err := store.ReadMeta(indexPath)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"go", "python"}, meta.Languages)
}

func TestReindexUnchangedHashIsNoop(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.go")
	writeSource(t, file, "package main\n\nfunc A() {}\n")

	s, _ := newTestStore(t)
	_, err := Reindex(s, file, UpdateOptions{})
	require.NoError(t, err)

	result, err := Reindex(s, file, UpdateOptions{})
	require.NoError(t, err)
	require.Equal(t, Unchanged, result)
}

func TestReindexUpdatesOnContentChange(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.go")
	writeSource(t, file, "package main\n\nfunc A() {}\n")

	s, _ := newTestStore(t)
	_, err := Reindex(s, file, UpdateOptions{})
	require.NoError(t, err)

	writeSource(t, file, "package main\n\nfunc A() {}\nfunc B() {}\n")
	result, err := Reindex(s, file, UpdateOptions{})
	require.NoError(t, err)
	require.Equal(t, Updated, result)

	syms, err := s.SymbolsByFile(file)
	require.NoError(t, err)
	require.Len(t, syms, 2)
}

func TestReindexInvariantSymbolsCountMatchesRows(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.go")
	writeSource(t, file, "package main\n\nfunc A() {}\nfunc B() {}\nfunc C() {}\n")

	s, _ := newTestStore(t)
	_, err := Reindex(s, file, UpdateOptions{})
	require.NoError(t, err)

	f, err := s.FileByPath(file)
	require.NoError(t, err)
	syms, err := s.SymbolsByFile(file)
	require.NoError(t, err)
	require.Equal(t, f.SymbolsCount, len(syms))
}

func TestIndexNewUnsupportedExtensionIsNoop(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notes.txt")
	writeSource(t, file, "just text")

	s, _ := newTestStore(t)
	result, err := IndexNew(s, file, UpdateOptions{})
	require.NoError(t, err)
	require.Equal(t, Unchanged, result)

	f, err := s.FileByPath(file)
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestRemoveDeletesAllRows(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.go")
	writeSource(t, file, "package main\n\nfunc A() {}\n")

	s, _ := newTestStore(t)
	_, err := Reindex(s, file, UpdateOptions{})
	require.NoError(t, err)

	require.NoError(t, Remove(s, file))

	f, err := s.FileByPath(file)
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestProcessEventsCountsUpdatedAndContinuesOnError(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.go")
	writeSource(t, good, "package main\n\nfunc Good() {}\n")
	missing := filepath.Join(root, "missing.go")

	s, _ := newTestStore(t)
	var errs []string
	updated := ProcessEvents(s, []Event{
		{Path: missing, Kind: EventModify},
		{Path: good, Kind: EventCreate},
	}, UpdateOptions{}, func(path string, err error) {
		errs = append(errs, path)
	})

	require.Equal(t, 1, updated)
	require.Equal(t, []string{missing}, errs)
}
