package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkfile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func TestDefaultExclusionsSkipSubtree(t *testing.T) {
	root := t.TempDir()
	m := New(root, nil)

	require.Equal(t, SkipSubtree, m.Evaluate("node_modules", true, 1))
	require.Equal(t, SkipSubtree, m.Evaluate("vendor", true, 1))
	require.Equal(t, SkipSubtree, m.Evaluate(".git", true, 1))
}

func TestHiddenFilesSkippedExceptAllowlist(t *testing.T) {
	root := t.TempDir()
	m := New(root, nil)

	require.Equal(t, SkipSubtree, m.Evaluate(".env", false, 1))
	require.Equal(t, Keep, m.Evaluate(".github", true, 1))
}

func TestRootGitDoesNotSkipRoot(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, ".git"))
	m := New(root, nil)

	require.Equal(t, Keep, m.Evaluate("", true, 0))
}

func TestWorktreeBoundarySkipsSubtreeNotRoot(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "libs", "sub", ".git"))
	mkfile(t, filepath.Join(root, "src", "lib.rs"))
	m := New(root, nil)

	require.Equal(t, Keep, m.Evaluate("src", true, 1))
	require.Equal(t, SkipSubtree, m.Evaluate("libs/sub", true, 2))
}

func TestGitignorePatternMatchesAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, ".gitignore"))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild_output/\n"), 0o644))
	m := New(root, nil)

	require.Equal(t, SkipSubtree, m.Evaluate("debug.log", false, 1))
	require.Equal(t, SkipSubtree, m.Evaluate("nested/debug.log", false, 2))
	require.Equal(t, SkipSubtree, m.Evaluate("build_output", true, 1))
}

func TestWonkignoreHonoredAtEveryDirectory(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "sub"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", ".wonkignore"), []byte("secret.go\n"), 0o644))
	m := New(root, nil)

	require.Equal(t, SkipSubtree, m.Evaluate("sub/secret.go", false, 2))
	require.Equal(t, Keep, m.Evaluate("sub/public.go", false, 2))
}

func TestExtraPatternsAppliedAsOverrides(t *testing.T) {
	root := t.TempDir()
	m := New(root, []string{"scratch/"})

	require.Equal(t, SkipSubtree, m.Evaluate("scratch", true, 1))
	require.Equal(t, Keep, m.Evaluate("keep", true, 1))
}

func TestNegationReincludesPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n!keep.log\n"), 0o644))
	m := New(root, nil)

	require.Equal(t, SkipSubtree, m.Evaluate("a.log", false, 1))
	require.Equal(t, Keep, m.Evaluate("keep.log", false, 1))
}
