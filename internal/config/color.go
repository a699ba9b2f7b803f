package config

import "os"

// EnvLookup matches os.LookupEnv's signature, letting tests inject a fake
// environment without mutating process state.
type EnvLookup func(key string) (string, bool)

// ResolveColor implements spec.md §6's precedence chain:
//
//	NO_COLOR set (any value, including empty)  -> off
//	CLICOLOR_FORCE=1                           -> on
//	config color=always|true                   -> on
//	config color=never|false                   -> off
//	CLICOLOR=0                                 -> off
//	otherwise                                  -> isTerminal
func ResolveColor(configColor string, isTerminal bool, lookup EnvLookup) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if _, set := lookup("NO_COLOR"); set {
		return false
	}
	if v, _ := lookup("CLICOLOR_FORCE"); v == "1" {
		return true
	}
	switch configColor {
	case "always", "true":
		return true
	case "never", "false":
		return false
	}
	if v, _ := lookup("CLICOLOR"); v == "0" {
		return false
	}
	return isTerminal
}
