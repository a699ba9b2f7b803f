package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	wonk "github.com/etr/wonk-sub000"
)

// chdir moves the process into dir for the duration of the test, restoring
// the original working directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// builtFixtureRepo writes a one-file Go repo, builds its index, and returns
// the repo root. HOME is isolated per-test so central-index resolution never
// touches the real user's home directory.
func builtFixtureRepo(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(
		"package main\n\nfunc Greet(name string) string {\n\treturn \"hi \" + name\n}\n\nfunc main() {\n\tGreet(\"wonk\")\n}\n"),
		0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))

	e, err := wonk.Open(root)
	require.NoError(t, err)
	_, err = e.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.Close())

	return root
}

// newTestCmd returns a bare cobra.Command with stdout/stderr captured into
// buffers, standing in for the real rootCmd's output plumbing.
func newTestCmd() (cmd *cobra.Command, stdout, stderr *bytes.Buffer) {
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd = &cobra.Command{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd, stdout, stderr
}

func resetFlags() {
	flagJSON = false
	flagFormat = ""
	flagNoColor = false
	flagSearchRegex = false
	flagSearchI = false
	flagSymKind = ""
	flagSymExact = false
	flagRefPath = ""
	flagLsTree = false
	flagInitLocal = false
}

func TestRunStatusReportsNoIndexForFreshRepo(t *testing.T) {
	resetFlags()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))
	chdir(t, root)

	cmd, stdout, _ := newTestCmd()
	require.NoError(t, runStatus(cmd, nil))
	require.Contains(t, stdout.String(), "no index built")
}

func TestRunStatusJSONReportsFileCount(t *testing.T) {
	resetFlags()
	root := builtFixtureRepo(t)
	chdir(t, root)
	flagJSON = true
	defer resetFlags()

	cmd, stdout, _ := newTestCmd()
	require.NoError(t, runStatus(cmd, nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
	require.Equal(t, true, rec["indexed"])
	require.EqualValues(t, 1, rec["files"])
}

func TestRunSearchFindsDefinitionAndCallSite(t *testing.T) {
	resetFlags()
	root := builtFixtureRepo(t)
	chdir(t, root)
	flagJSON = true
	defer resetFlags()

	cmd, stdout, _ := newTestCmd()
	require.NoError(t, runSearch(cmd, []string{"Greet"}))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var group map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &group))
		require.NotEmpty(t, group["category"])
	}
}

func TestRunSearchNoMatchesHintsOnStderr(t *testing.T) {
	resetFlags()
	root := builtFixtureRepo(t)
	chdir(t, root)
	defer resetFlags()

	cmd, _, stderr := newTestCmd()
	require.NoError(t, runSearch(cmd, []string{"NoSuchSymbolAnywhere"}))
	require.Contains(t, stderr.String(), "no matches")
}

func TestRunSymFindsExactDefinition(t *testing.T) {
	resetFlags()
	root := builtFixtureRepo(t)
	chdir(t, root)
	flagSymExact = true
	defer resetFlags()

	cmd, stdout, _ := newTestCmd()
	require.NoError(t, runSym(cmd, []string{"Greet"}))
	require.Contains(t, stdout.String(), "Greet")
}

func TestRunLsRequiresExplicitPath(t *testing.T) {
	resetFlags()
	root := builtFixtureRepo(t)
	chdir(t, root)
	defer resetFlags()

	cmd, _, _ := newTestCmd()
	err := runLs(cmd, nil)
	require.Error(t, err)
}

func TestRunLsTreeGroupsSymbols(t *testing.T) {
	resetFlags()
	root := builtFixtureRepo(t)
	chdir(t, root)
	flagLsTree = true
	flagJSON = true
	defer resetFlags()

	cmd, stdout, _ := newTestCmd()
	require.NoError(t, runLs(cmd, []string{filepath.Join(root, "main.go")}))
	require.NotEmpty(t, stdout.String())
}

func TestRunInitLocalCreatesRepoLocalIndex(t *testing.T) {
	resetFlags()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	flagInitLocal = true
	defer resetFlags()

	cmd, _, _ := newTestCmd()
	require.NoError(t, runInit(cmd, []string{root}))
	require.FileExists(t, filepath.Join(root, ".wonk", "index.db"))
}

func TestRunReposListEmptyWithNoCentralDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetFlags()

	cmd, stdout, _ := newTestCmd()
	require.NoError(t, runReposList(cmd, nil))
	require.Contains(t, stdout.String(), "no central indexes found")
}

func TestRunReposListAndCleanRemovesOrphan(t *testing.T) {
	resetFlags()
	home := t.TempDir()
	t.Setenv("HOME", home)

	// A repo that no longer exists on disk: build centrally, then remove the
	// source directory so the central entry becomes orphaned.
	repoRootDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoRootDir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	e, err := wonk.Open(repoRootDir)
	require.NoError(t, err)
	_, err = e.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.NoError(t, os.RemoveAll(repoRootDir))

	listCmd, stdout, _ := newTestCmd()
	require.NoError(t, runReposList(listCmd, nil))
	require.Contains(t, stdout.String(), "orphaned")

	cleanCmd, cleanOut, _ := newTestCmd()
	require.NoError(t, runReposClean(cleanCmd, nil))
	require.Contains(t, cleanOut.String(), "removed")

	finalCmd, finalOut, _ := newTestCmd()
	require.NoError(t, runReposList(finalCmd, nil))
	require.Contains(t, finalOut.String(), "no central indexes found")
}
