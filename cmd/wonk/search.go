package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etr/wonk-sub000/internal/rank"
	"github.com/etr/wonk-sub000/internal/search"
	"github.com/etr/wonk-sub000/internal/werrors"
)

var (
	flagSearchRegex bool
	flagSearchI     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern> [-- PATHS...]",
	Short: "Search for a pattern and rank matches by structural category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&flagSearchRegex, "regex", false, "treat pattern as a regular expression")
	searchCmd.Flags().BoolVarP(&flagSearchI, "ignore-case", "i", false, "case-insensitive match")
}

func runSearch(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	paths := args[1:]

	root, err := repoRoot()
	if err != nil {
		return err
	}

	raw, err := search.Run(root, pattern, search.Options{
		Regex:         flagSearchRegex,
		CaseSensitive: !flagSearchI,
		Paths:         paths,
	})
	if err != nil {
		return werrors.Wrap(werrors.SearchFailed, "search", err)
	}

	r, closeFn, err := openRouter()
	if err != nil {
		return err
	}
	defer closeFn()

	lookup, err := r.RankLookup(raw)
	if err != nil {
		return err
	}

	groups := rank.Rank(raw, lookup)
	return renderGroups(cmd, groups)
}

func renderGroups(cmd *cobra.Command, groups []rank.Group) error {
	cfg := loadConfig()
	format := outputFormat(cfg)
	w := cmd.OutOrStdout()

	if format == "json" {
		return formatRankedGroupsJSON(w, groups)
	}
	if len(groups) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: no matches")
		return nil
	}
	formatRankedGroupsText(w, groups, useColor(cfg))
	return nil
}
