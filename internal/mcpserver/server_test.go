package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func builtServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(
		"package main\n\nfunc Greet(name string) string {\n\treturn \"hi \" + name\n}\n\nfunc main() {\n\tGreet(\"wonk\")\n}\n"),
		0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))

	s, err := New(root, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewBuildsIndexAndRegistersTools(t *testing.T) {
	s := builtServer(t)
	require.True(t, s.router.HasIndex())
	require.NotNil(t, s.mcp)
}

func TestSymHandlerFindsDefinition(t *testing.T) {
	s := builtServer(t)
	handler := s.symHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[SymParams]{
		Arguments: SymParams{Name: "Greet", Exact: true},
	})
	require.NoError(t, err)
	require.Len(t, res.StructuredContent.Symbols, 1)
	require.Equal(t, "Greet", res.StructuredContent.Symbols[0].Name)
}

func TestSymHandlerRejectsMissingName(t *testing.T) {
	s := builtServer(t)
	handler := s.symHandler()

	_, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[SymParams]{
		Arguments: SymParams{},
	})
	require.Error(t, err)
}

func TestSearchHandlerRanksMatches(t *testing.T) {
	s := builtServer(t)
	handler := s.searchHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[SearchParams]{
		Arguments: SearchParams{Pattern: "Greet"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.StructuredContent.Groups)
}

func TestStatusHandlerReportsFileCount(t *testing.T) {
	s := builtServer(t)
	handler := s.statusHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[StatusParams]{})
	require.NoError(t, err)
	require.Equal(t, 1, res.StructuredContent.Files)
}

func TestDepsAndRdepsHandlersRoundTrip(t *testing.T) {
	s := builtServer(t)

	depsRes, err := s.depsHandler()(context.Background(), nil, &mcp.CallToolParamsFor[DepsParams]{
		Arguments: DepsParams{Path: filepath.Join(s.root, "main.go")},
	})
	require.NoError(t, err)
	require.Empty(t, depsRes.StructuredContent.Imports)

	rdepsRes, err := s.rdepsHandler()(context.Background(), nil, &mcp.CallToolParamsFor[RdepsParams]{
		Arguments: RdepsParams{ImportPath: "nonexistent"},
	})
	require.NoError(t, err)
	require.Empty(t, rdepsRes.StructuredContent.Files)
}

func TestLsHandlerListsFileSymbols(t *testing.T) {
	s := builtServer(t)
	handler := s.lsHandler()

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[LsParams]{
		Arguments: LsParams{Path: filepath.Join(s.root, "main.go")},
	})
	require.NoError(t, err)
	require.Len(t, res.StructuredContent.Symbols, 2) // Greet and main
}
