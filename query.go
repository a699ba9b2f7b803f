package wonk

import (
	"github.com/etr/wonk-sub000/internal/rank"
	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/werrors"
)

// Router exposes the read-only typed lookups spec.md §4.H names: symbol and
// reference lookup, signatures, per-file listing, forward/reverse imports,
// and aggregate status counts. Every method tolerates a missing index by
// returning werrors.NoIndexErr rather than panicking on a nil store.
type Router struct {
	store       *store.Store
	missingPath string // set when no index file was found at construction
}

// HasIndex reports whether the Router is backed by an actual store.
func (r *Router) HasIndex() bool {
	return r.store != nil
}

// Store returns the underlying store for callers (the daemon) that need
// direct access beyond the Router's typed methods. Nil when HasIndex is
// false.
func (r *Router) Store() *store.Store {
	return r.store
}

func (r *Router) requireStore(op string) (*store.Store, error) {
	if r.store == nil {
		return nil, werrors.New(werrors.NoIndex, "router: "+op, nil)
	}
	return r.store, nil
}

// Symbols resolves a name/kind/exact lookup against the symbols table.
func (r *Router) Symbols(q store.SymbolLookup) ([]store.Symbol, error) {
	s, err := r.requireStore("symbols")
	if err != nil {
		return nil, err
	}
	out, err := s.SymbolsByName(q)
	return out, wrapQueryErr("symbols", err)
}

// References resolves a name/path-scope lookup against references_.
func (r *Router) References(q store.ReferenceLookup) ([]store.Reference, error) {
	s, err := r.requireStore("references")
	if err != nil {
		return nil, err
	}
	out, err := s.ReferencesByName(q)
	return out, wrapQueryErr("references", err)
}

// Signatures resolves names to their defining symbols' signatures, by
// running an exact symbol lookup per name and keeping only the matches.
func (r *Router) Signatures(names []string) (map[string][]store.Symbol, error) {
	s, err := r.requireStore("signatures")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]store.Symbol, len(names))
	for _, name := range names {
		syms, err := s.SymbolsByName(store.SymbolLookup{Name: name, Exact: true})
		if err != nil {
			return nil, wrapQueryErr("signatures", err)
		}
		out[name] = syms
	}
	return out, nil
}

// SymbolTree groups a file's symbols by their Scope, giving the CLI's `ls
// --tree` mode parent/child nesting without a second query.
type SymbolTree struct {
	Symbol   store.Symbol
	Children []store.Symbol
}

// FileSymbols lists every symbol defined in path, in source order. When
// tree is true, symbols are grouped into SymbolTree nodes by Scope.
func (r *Router) FileSymbols(path string, tree bool) ([]store.Symbol, []SymbolTree, error) {
	s, err := r.requireStore("file symbols")
	if err != nil {
		return nil, nil, err
	}
	syms, err := s.SymbolsByFile(path)
	if err != nil {
		return nil, nil, wrapQueryErr("file symbols", err)
	}
	if !tree {
		return syms, nil, nil
	}
	return syms, buildSymbolTree(syms), nil
}

// buildSymbolTree nests symbols whose Scope names another symbol in the
// same file under that symbol's node; unscoped (top-level) symbols become
// roots.
func buildSymbolTree(syms []store.Symbol) []SymbolTree {
	byName := make(map[string]int) // name -> index into roots, for top-level containers only
	var roots []SymbolTree

	for _, sym := range syms {
		if sym.Scope == "" {
			roots = append(roots, SymbolTree{Symbol: sym})
			byName[sym.Name] = len(roots) - 1
			continue
		}
		if idx, ok := byName[sym.Scope]; ok {
			roots[idx].Children = append(roots[idx].Children, sym)
			continue
		}
		// Scope names a container not present as a top-level symbol in this
		// file (e.g. an extension of a type declared elsewhere); surface it
		// as its own root rather than dropping it.
		roots = append(roots, SymbolTree{Symbol: sym})
	}
	return roots
}

// Dependencies returns the import paths path itself declares.
func (r *Router) Dependencies(path string) ([]string, error) {
	s, err := r.requireStore("dependencies")
	if err != nil {
		return nil, err
	}
	out, err := s.Deps(path)
	return out, wrapQueryErr("dependencies", err)
}

// Dependents returns the files that import importPath.
func (r *Router) Dependents(importPath string) ([]string, error) {
	s, err := r.requireStore("dependents")
	if err != nil {
		return nil, err
	}
	out, err := s.RDeps(importPath)
	return out, wrapQueryErr("dependents", err)
}

// StatusCounts is the aggregate the CLI's `status` command prints: how much
// is indexed, independent of whether a daemon is running.
type StatusCounts struct {
	Files     int
	Languages []string
}

// Status returns the Router's aggregate index counts.
func (r *Router) Status() (StatusCounts, error) {
	s, err := r.requireStore("status")
	if err != nil {
		return StatusCounts{}, err
	}
	n, err := s.FileCount()
	if err != nil {
		return StatusCounts{}, wrapQueryErr("status: file count", err)
	}
	langs, err := s.DistinctLanguages()
	if err != nil {
		return StatusCounts{}, wrapQueryErr("status: languages", err)
	}
	return StatusCounts{Files: n, Languages: langs}, nil
}

// RankLookup builds the ranker's bulk index lookup for a batch of raw text
// matches. With no index present, it returns an empty lookup rather than an
// error: per spec.md §7, "the ranker never fails; when the store is absent,
// index-driven categories are simply unreachable."
func (r *Router) RankLookup(matches []rank.RawMatch) (rank.IndexLookup, error) {
	if r.store == nil {
		return rank.IndexLookup{}, nil
	}
	lookup, err := rank.LoadIndexLookup(r.store, matches)
	if err != nil {
		return rank.IndexLookup{}, wrapQueryErr("rank lookup", err)
	}
	return lookup, nil
}

// Close releases the Router's store handle, a no-op if no index was found.
func (r *Router) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
