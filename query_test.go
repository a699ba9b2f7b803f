package wonk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etr/wonk-sub000/internal/store"
)

func builtEngine(t *testing.T) *Engine {
	t.Helper()
	root := writeRepoFixture(t)
	e, err := Open(root)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	_, err = e.Build(context.Background())
	require.NoError(t, err)
	return e
}

func TestRouterSignatures(t *testing.T) {
	e := builtEngine(t)
	q := e.Query()

	sigs, err := q.Signatures([]string{"Greet", "missing"})
	require.NoError(t, err)
	require.Len(t, sigs["Greet"], 1)
	require.Empty(t, sigs["missing"])
}

func TestRouterFileSymbolsTreeGroupsByScope(t *testing.T) {
	e := builtEngine(t)
	root := e.root
	path := filepath.Join(root, "main.go")

	syms, tree, err := e.Query().FileSymbols(path, true)
	require.NoError(t, err)
	require.NotEmpty(t, syms)
	require.NotEmpty(t, tree)
}

func TestRouterStatusReportsFileCountAndLanguages(t *testing.T) {
	e := builtEngine(t)
	status, err := e.Query().Status()
	require.NoError(t, err)
	require.Equal(t, 1, status.Files)
	require.Contains(t, status.Languages, "go")
}

func TestRouterDependenciesAndDependents(t *testing.T) {
	e := builtEngine(t)
	deps, err := e.Query().Dependencies(filepath.Join(e.root, "main.go"))
	require.NoError(t, err)
	require.Empty(t, deps)

	rdeps, err := e.Query().Dependents("fmt")
	require.NoError(t, err)
	require.Empty(t, rdeps)
}

func TestRouterReferencesByName(t *testing.T) {
	e := builtEngine(t)
	refs, err := e.Query().References(store.ReferenceLookup{Name: "Greet"})
	require.NoError(t, err)
	require.NotEmpty(t, refs)
}

func TestRouterCloseIsNoopWithoutIndex(t *testing.T) {
	r, err := NewRouterForRoot(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, r.Close())
}
