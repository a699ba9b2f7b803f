package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunFindsLiteralMatchCaseInsensitiveByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pay.rs", "fn processPayment() {}\n")

	matches, err := Run(root, "PROCESSPAYMENT", Options{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "pay.rs", matches[0].File)
	require.Equal(t, 1, matches[0].Line)
}

func TestRunCaseSensitiveExcludesMismatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pay.rs", "fn processPayment() {}\n")

	matches, err := Run(root, "PROCESSPAYMENT", Options{CaseSensitive: true})
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestRunRegexMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "func Foo() {}\nfunc Bar() {}\n")

	matches, err := Run(root, `func (Foo|Bar)`, Options{Regex: true, CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestRunRespectsDefaultExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/x.js", "processPayment()\n")
	writeFile(t, root, "src/a.js", "processPayment()\n")

	matches, err := Run(root, "processPayment", Options{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "src/a.js", matches[0].File)
}

func TestRunScopedToPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/x.go", "needle\n")
	writeFile(t, root, "b/y.go", "needle\n")

	matches, err := Run(root, "needle", Options{Paths: []string{filepath.Join(root, "a")}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "a/x.go", matches[0].File)
}
