package wonk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etr/wonk-sub000/internal/store"
)

func symbolLookup(name string) store.SymbolLookup {
	return store.SymbolLookup{Name: name, Exact: true}
}

func writeRepoFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(
		"package main\n\nfunc Greet(name string) string {\n\treturn \"hi \" + name\n}\n\nfunc main() {\n\tGreet(\"wonk\")\n}\n"),
		0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))
	return root
}

func TestOpenBuildAndQueryRoundTrip(t *testing.T) {
	root := writeRepoFixture(t)

	e, err := Open(root)
	require.NoError(t, err)
	defer e.Close()

	stats, err := e.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.FileCount)

	q := e.Query()
	syms, err := q.Symbols(symbolLookup("Greet"))
	require.NoError(t, err)
	require.Len(t, syms, 1)
	require.Equal(t, "Greet", syms[0].Name)
}

func TestEnsureBuiltOnlyRunsOnce(t *testing.T) {
	root := writeRepoFixture(t)
	e, err := Open(root)
	require.NoError(t, err)
	defer e.Close()

	built, err := e.EnsureBuilt(context.Background())
	require.NoError(t, err)
	require.True(t, built)

	built, err = e.EnsureBuilt(context.Background())
	require.NoError(t, err)
	require.False(t, built)
}

func TestReindexAndRemoveThroughEngine(t *testing.T) {
	root := writeRepoFixture(t)
	e, err := Open(root)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Build(context.Background())
	require.NoError(t, err)

	path := filepath.Join(root, "main.go")
	result, err := e.Reindex(path)
	require.NoError(t, err)
	require.Equal(t, "unchanged", string(result))

	require.NoError(t, e.Remove(path))
	n, err := e.Store().FileCount()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestBuildWithAdditionalExtensionsIndexesTextFiles(t *testing.T) {
	root := writeRepoFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("line one\nline two\n"), 0o644))

	e, err := Open(root, WithAdditionalExtensions("txt"))
	require.NoError(t, err)
	defer e.Close()

	stats, err := e.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.FileCount)

	f, err := e.Store().FileByPath(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	require.NotNil(t, f)
	require.Equal(t, "text", f.Language)
	require.Equal(t, 0, f.SymbolsCount)
}

func TestBuildWithMaxFileSizeKBSkipsOversizedFiles(t *testing.T) {
	root := writeRepoFixture(t)
	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'x'
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "huge.go"), big, 0o644))

	e, err := Open(root, WithMaxFileSizeKB(1))
	require.NoError(t, err)
	defer e.Close()

	stats, err := e.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.FileCount)

	f, err := e.Store().FileByPath(filepath.Join(root, "huge.go"))
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestNewRouterForRootWithNoIndexReportsNoIndex(t *testing.T) {
	root := t.TempDir()
	r, err := NewRouterForRoot(root)
	require.NoError(t, err)
	require.False(t, r.HasIndex())

	_, err = r.Symbols(symbolLookup("anything"))
	require.Error(t, err)
}
