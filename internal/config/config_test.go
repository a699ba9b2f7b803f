package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFilesPresent(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, uint64(30), cfg.Daemon.IdleTimeoutMinutes)
	require.Equal(t, "grep", cfg.Output.DefaultFormat)
	require.Equal(t, "auto", cfg.Output.Color)
}

func TestLoadRepoLayerOverwritesOnlyPresentFields(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))
	require.NoError(t, os.WriteFile(RepoPath(root), []byte(`
[output]
color = "always"

[daemon]
debounce_ms = 250
`), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "always", cfg.Output.Color)
	require.Equal(t, uint64(250), cfg.Daemon.DebounceMs)
	require.Equal(t, uint64(30), cfg.Daemon.IdleTimeoutMinutes) // untouched default
}

func TestLoadIgnorePatternsReplaceWholesale(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))
	require.NoError(t, os.WriteFile(RepoPath(root), []byte(`
[ignore]
patterns = ["*.generated.go"]
`), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, []string{"*.generated.go"}, cfg.Ignore.Patterns)
}

func TestLoadUnknownKeysAreIgnored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".wonk"), 0o755))
	require.NoError(t, os.WriteFile(RepoPath(root), []byte(`
totally_unknown_key = "x"

[output]
default_format = "json"
`), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "json", cfg.Output.DefaultFormat)
}

func fakeEnv(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestResolveColorNoColorWinsOverEverything(t *testing.T) {
	env := fakeEnv(map[string]string{"NO_COLOR": "", "CLICOLOR_FORCE": "1"})
	require.False(t, ResolveColor("always", true, env))
}

func TestResolveColorCliColorForce(t *testing.T) {
	env := fakeEnv(map[string]string{"CLICOLOR_FORCE": "1"})
	require.True(t, ResolveColor("never", false, env))
}

func TestResolveColorConfigAlwaysBeatsCliColorZero(t *testing.T) {
	env := fakeEnv(map[string]string{"CLICOLOR": "0"})
	require.True(t, ResolveColor("always", false, env))
}

func TestResolveColorCliColorZeroDisables(t *testing.T) {
	env := fakeEnv(map[string]string{"CLICOLOR": "0"})
	require.False(t, ResolveColor("auto", true, env))
}

func TestResolveColorFallsBackToTerminalDetection(t *testing.T) {
	env := fakeEnv(map[string]string{})
	require.True(t, ResolveColor("auto", true, env))
	require.False(t, ResolveColor("auto", false, env))
}
