// Package config loads wonk's layered .wonk/config.toml: built-in defaults,
// overwritten by the user's global config, overwritten by the repo's local
// config, decoded with github.com/pelletier/go-toml/v2 the way the pack
// parses Cargo.toml/pyproject.toml-shaped files.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Daemon holds [daemon] keys.
type Daemon struct {
	IdleTimeoutMinutes uint64 `toml:"idle_timeout_minutes"`
	DebounceMs         uint64 `toml:"debounce_ms"`
}

// Index holds [index] keys.
type Index struct {
	MaxFileSizeKB        uint64   `toml:"max_file_size_kb"`
	AdditionalExtensions []string `toml:"additional_extensions"`
}

// Output holds [output] keys.
type Output struct {
	DefaultFormat string `toml:"default_format"` // grep | json | toon
	Color         string `toml:"color"`          // auto | always | never | true | false
}

// Ignore holds [ignore] keys.
type Ignore struct {
	Patterns []string `toml:"patterns"`
}

// Config is the fully merged, layered configuration. Unknown TOML keys are
// ignored (go-toml's default decode behavior).
type Config struct {
	Daemon Daemon `toml:"daemon"`
	Index  Index  `toml:"index"`
	Output Output `toml:"output"`
	Ignore Ignore `toml:"ignore"`
}

// Defaults returns the built-in baseline spec.md §6 specifies, the first
// layer every load starts from.
func Defaults() Config {
	return Config{
		Daemon: Daemon{IdleTimeoutMinutes: 30, DebounceMs: 500},
		Index:  Index{MaxFileSizeKB: 1024},
		Output: Output{DefaultFormat: "grep", Color: "auto"},
	}
}

// GlobalPath returns the user's global config.toml path.
func GlobalPath() (string, error) {
	home, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "wonk", "config.toml"), nil
}

// RepoPath returns the repo-local config.toml path for root.
func RepoPath(root string) string {
	return filepath.Join(root, ".wonk", "config.toml")
}

// Load builds the layered config for a repository root: Defaults(), then
// the global config file if present, then the repo-local config file if
// present. Each present layer overwrites only the fields it sets; a
// present [ignore].patterns in the repo layer replaces the global list
// wholesale rather than appending, per spec.md §6.
func Load(root string) (Config, error) {
	cfg := Defaults()

	globalPath, err := GlobalPath()
	if err == nil {
		if err := mergeFile(&cfg, globalPath); err != nil {
			return cfg, err
		}
	}

	if err := mergeFile(&cfg, RepoPath(root)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeFile decodes path (if it exists) into a fresh zero-valued Config and
// applies every field it set on top of cfg. A missing file is not an error.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var layer Config
	if err := toml.Unmarshal(data, &layer); err != nil {
		return err
	}
	applyLayer(cfg, layer)
	return nil
}

// applyLayer overwrites each field base.* with layer.* when the layer set a
// non-zero value, the same "only overwrite what you name" discipline
// canopy.Option functions apply on top of New's defaults.
func applyLayer(base *Config, layer Config) {
	if layer.Daemon.IdleTimeoutMinutes != 0 {
		base.Daemon.IdleTimeoutMinutes = layer.Daemon.IdleTimeoutMinutes
	}
	if layer.Daemon.DebounceMs != 0 {
		base.Daemon.DebounceMs = layer.Daemon.DebounceMs
	}
	if layer.Index.MaxFileSizeKB != 0 {
		base.Index.MaxFileSizeKB = layer.Index.MaxFileSizeKB
	}
	if layer.Index.AdditionalExtensions != nil {
		base.Index.AdditionalExtensions = layer.Index.AdditionalExtensions
	}
	if layer.Output.DefaultFormat != "" {
		base.Output.DefaultFormat = layer.Output.DefaultFormat
	}
	if layer.Output.Color != "" {
		base.Output.Color = layer.Output.Color
	}
	if layer.Ignore.Patterns != nil {
		base.Ignore.Patterns = layer.Ignore.Patterns
	}
}
