package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/etr/wonk-sub000/internal/config"
	"github.com/etr/wonk-sub000/internal/rank"
	"github.com/etr/wonk-sub000/internal/store"
)

// useColor resolves spec.md §6's color precedence for the current process.
func useColor(cfg config.Config) bool {
	if flagNoColor {
		return false
	}
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	return config.ResolveColor(cfg.Output.Color, isTerminal, nil)
}

// jsonLine writes one value as a single JSON-Lines record, the --json
// format spec.md §6 requires.
func jsonLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}

// formatSymbolsText renders symbols as aligned columns, mirroring the
// teacher's tabwriter-based formatSymbolsText.
func formatSymbolsText(w io.Writer, syms []store.Symbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINE\tSCOPE")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.Name, s.Kind, s.File, s.Line, s.Scope)
	}
	tw.Flush()
}

func formatSymbolsJSON(w io.Writer, syms []store.Symbol) error {
	for _, s := range syms {
		if err := jsonLine(w, s); err != nil {
			return err
		}
	}
	return nil
}

// formatReferencesText renders references as aligned columns.
func formatReferencesText(w io.Writer, refs []store.Reference) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINE\tCONTEXT")
	for _, r := range refs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Name, r.Kind, r.File, r.Line, r.Context)
	}
	tw.Flush()
}

func formatReferencesJSON(w io.Writer, refs []store.Reference) error {
	for _, r := range refs {
		if err := jsonLine(w, r); err != nil {
			return err
		}
	}
	return nil
}

// ansi wraps s in a color escape when color is enabled.
func ansi(code, s string, color bool) string {
	if !color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// formatRankedGroupsText renders the ranker's grouped output the way a
// grep-style tool reports matches: a header per category, then
// "file:line:col: content" lines, with any dedup annotation appended.
func formatRankedGroupsText(w io.Writer, groups []rank.Group, color bool) {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, ansi("1", g.Header, color))
		for _, m := range g.Matches {
			line := fmt.Sprintf("%s:%d:%d: %s", m.File, m.Line, m.Col, m.Content)
			if m.Annotation != "" {
				line += " " + ansi("2", m.Annotation, color)
			}
			fmt.Fprintln(w, line)
		}
	}
}

func formatRankedGroupsJSON(w io.Writer, groups []rank.Group) error {
	for _, g := range groups {
		for _, m := range g.Matches {
			rec := map[string]any{
				"category":   rank.Header[m.Category],
				"file":       m.File,
				"line":       m.Line,
				"col":        m.Col,
				"content":    m.Content,
				"annotation": m.Annotation,
			}
			if err := jsonLine(w, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatStringsText renders a flat string list, one per line.
func formatStringsText(w io.Writer, items []string) {
	for _, s := range items {
		fmt.Fprintln(w, s)
	}
}

func formatStringsJSON(w io.Writer, items []string) error {
	for _, s := range items {
		if err := jsonLine(w, map[string]string{"value": s}); err != nil {
			return err
		}
	}
	return nil
}
