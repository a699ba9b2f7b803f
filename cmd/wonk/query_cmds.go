package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etr/wonk-sub000/internal/store"
)

var (
	flagSymKind  string
	flagSymExact bool
	flagRefPath  string
	flagLsTree   bool
)

var symCmd = &cobra.Command{
	Use:   "sym <name>",
	Short: "Look up symbol definitions by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSym,
}

func init() {
	symCmd.Flags().StringVar(&flagSymKind, "kind", "", "restrict to a symbol kind (function, method, class, ...)")
	symCmd.Flags().BoolVar(&flagSymExact, "exact", false, "require an exact name match")
}

func runSym(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	syms, err := r.Symbols(store.SymbolLookup{
		Name:  args[0],
		Kind:  store.SymbolKind(flagSymKind),
		Exact: flagSymExact,
	})
	if err != nil {
		return err
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		return formatSymbolsJSON(w, syms)
	}
	if len(syms) == 0 {
		printHint(fmt.Sprintf("no symbol named %q", args[0]))
		return nil
	}
	formatSymbolsText(w, syms)
	return nil
}

var refCmd = &cobra.Command{
	Use:   "ref <name> [-- PATHS...]",
	Short: "Look up reference sites by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRef,
}

func init() {
	refCmd.Flags().StringVar(&flagRefPath, "path", "", "restrict to references within a single file")
}

func runRef(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	path := flagRefPath
	if path == "" && len(args) > 1 {
		path = args[1]
	}

	refs, err := r.References(store.ReferenceLookup{Name: args[0], Path: path})
	if err != nil {
		return err
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		return formatReferencesJSON(w, refs)
	}
	if len(refs) == 0 {
		printHint(fmt.Sprintf("no references to %q", args[0]))
		return nil
	}
	formatReferencesText(w, refs)
	return nil
}

var sigCmd = &cobra.Command{
	Use:   "sig <name>",
	Short: "Show the signature(s) of a defined symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runSig,
}

func runSig(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	sigs, err := r.Signatures(args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	syms := sigs[args[0]]
	if outputFormat(cfg) == "json" {
		return formatSymbolsJSON(w, syms)
	}
	if len(syms) == 0 {
		printHint(fmt.Sprintf("no definition found for %q", args[0]))
		return nil
	}
	for _, s := range syms {
		fmt.Fprintf(w, "%s:%d: %s\n", s.File, s.Line, s.Signature)
	}
	return nil
}

var lsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List the symbols defined in a file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().BoolVar(&flagLsTree, "tree", false, "group symbols by their enclosing scope")
}

func runLs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageErrorf("ls requires a file path")
	}
	path := resolvePath(args[0])

	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	syms, tree, err := r.FileSymbols(path, flagLsTree)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		if !flagLsTree {
			return formatSymbolsJSON(w, syms)
		}
		for _, node := range tree {
			if err := jsonLine(w, node); err != nil {
				return err
			}
		}
		return nil
	}

	if !flagLsTree {
		formatSymbolsText(w, syms)
		return nil
	}
	for _, node := range tree {
		fmt.Fprintf(w, "%s:%d: %s (%s)\n", node.Symbol.File, node.Symbol.Line, node.Symbol.Name, node.Symbol.Kind)
		for _, child := range node.Children {
			fmt.Fprintf(w, "  %s:%d: %s (%s)\n", child.File, child.Line, child.Name, child.Kind)
		}
	}
	return nil
}

var depsCmd = &cobra.Command{
	Use:   "deps <FILE>",
	Short: "List the import paths a file declares",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := r.Dependencies(resolvePath(args[0]))
	if err != nil {
		return err
	}
	return renderStrings(cmd, out)
}

var rdepsCmd = &cobra.Command{
	Use:   "rdeps <FILE>",
	Short: "List the files that import a given path",
	Args:  cobra.ExactArgs(1),
	RunE:  runRdeps,
}

func runRdeps(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := r.Dependents(args[0])
	if err != nil {
		return err
	}
	return renderStrings(cmd, out)
}

func renderStrings(cmd *cobra.Command, items []string) error {
	cfg := loadConfig()
	w := cmd.OutOrStdout()
	if outputFormat(cfg) == "json" {
		return formatStringsJSON(w, items)
	}
	formatStringsText(w, items)
	return nil
}
