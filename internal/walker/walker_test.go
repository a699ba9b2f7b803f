package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "lib.rs"))
	writeFile(t, filepath.Join(root, "src", "main.rs"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"))
	writeFile(t, filepath.Join(root, ".hidden", "secret.go"))
	writeFile(t, filepath.Join(root, "libs", "sub", ".git", "HEAD"))
	writeFile(t, filepath.Join(root, "libs", "sub", "nested.go"))
	writeFile(t, filepath.Join(root, "README.md"))
	return root
}

func TestWalkSkipsDefaultExclusionsAndHidden(t *testing.T) {
	root := buildFixture(t)

	paths, err := Walk(root, nil)
	require.NoError(t, err)

	for _, p := range paths {
		require.NotContains(t, p, "node_modules")
		require.NotContains(t, p, ".hidden")
	}
}

func TestWalkRespectsWorktreeBoundary(t *testing.T) {
	root := buildFixture(t)

	paths, err := Walk(root, nil)
	require.NoError(t, err)

	for _, p := range paths {
		require.NotContains(t, p, filepath.Join("libs", "sub", "nested.go"))
	}
	require.Contains(t, paths, filepath.Join(root, "src", "lib.rs"))
}

func TestWalkAndWalkParallelAgree(t *testing.T) {
	root := buildFixture(t)

	seq, err := Walk(root, nil)
	require.NoError(t, err)
	par, err := WalkParallel(root, nil)
	require.NoError(t, err)

	sort.Strings(seq)
	sort.Strings(par)
	require.Equal(t, seq, par)
}

func TestWalkOnlyYieldsRegularFiles(t *testing.T) {
	root := buildFixture(t)

	paths, err := Walk(root, nil)
	require.NoError(t, err)

	for _, p := range paths {
		info, err := os.Lstat(p)
		require.NoError(t, err)
		require.True(t, info.Mode().IsRegular())
	}
}

func TestWalkExtraPatternsExcludeOverride(t *testing.T) {
	root := buildFixture(t)

	paths, err := Walk(root, []string{"src/"})
	require.NoError(t, err)

	for _, p := range paths {
		require.NotContains(t, p, filepath.Join("src", "lib.rs"))
	}
}
