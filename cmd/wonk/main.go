// Command wonk is the CLI surface over the index: search, symbol and
// reference lookup, dependency traversal, daemon control, and repo
// management.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/etr/wonk-sub000/internal/werrors"
)

var (
	flagJSON    bool
	flagFormat  string
	flagNoColor bool
)

// errorHandled is set by printError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			printError(err)
		}
		os.Exit(werrors.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:           "wonk",
	Short:         "Code search and navigation over a persistent tree-sitter index",
	Long:          "wonk indexes source code with tree-sitter and answers symbol, reference, and dependency queries against a SQLite-backed index, with a background daemon keeping it current.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON Lines instead of text")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "override output format: grep|json|toon")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(symCmd)
	rootCmd.AddCommand(refCmd)
	rootCmd.AddCommand(sigCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(rdepsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(mcpCmd)
}

// printError renders a werrors.Error (or any error) following spec.md §7's
// text-mode convention: "error: <message>" on stderr, suppressed entirely
// under --json since the caller reads exit codes instead.
func printError(err error) {
	errorHandled = true
	if flagJSON {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}

// printHint renders a non-critical suggestion, suppressed under --json.
func printHint(msg string) {
	if flagJSON {
		return
	}
	fmt.Fprintf(os.Stderr, "hint: %s\n", msg)
}
