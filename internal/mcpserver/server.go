// Package mcpserver exposes the Query Router over the Model Context
// Protocol: a JSON-RPC 2.0 stdio surface whose tools mirror the CLI's
// read-only commands. initialize, ping, and tools/list are handled by the
// underlying SDK server; this package only registers tools/call targets.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	wonk "github.com/etr/wonk-sub000"
	"github.com/etr/wonk-sub000/internal/rank"
	"github.com/etr/wonk-sub000/internal/search"
	"github.com/etr/wonk-sub000/internal/store"
	"github.com/etr/wonk-sub000/internal/werrors"
)

// Server wraps a Router and an SDK mcp.Server, wiring one to the other.
type Server struct {
	root   string
	engine *wonk.Engine
	router *wonk.Router
	mcp    *mcp.Server
}

// New opens (building if necessary) the index for root and constructs the
// MCP server, registering every read-only tool. The repo's .wonk/config.toml
// is honored the same way the CLI honors it (ignore patterns, additional
// extensions, max file size).
func New(root, version string) (*Server, error) {
	opts, _ := wonk.OptionsForRoot(root)
	e, err := wonk.Open(root, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := e.EnsureBuilt(context.Background()); err != nil {
		e.Close()
		return nil, err
	}

	s := &Server{
		root:   root,
		engine: e,
		router: e.Query(),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "wonk",
		Version: version,
	}, nil)
	s.registerTools()
	return s, nil
}

// Serve runs the server over stdin/stdout until ctx is canceled or the
// client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, mcp.NewStdioTransport())
}

// Close releases the underlying index handle.
func (s *Server) Close() error {
	return s.engine.Close()
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Regex or literal text search over the repository, ranked by match category (definition, import, call site, comment, other).",
	}, s.searchHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "sym",
		Description: "Look up symbols by name, optionally filtered by kind or requiring an exact match.",
	}, s.symHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "ref",
		Description: "Find references to a symbol name, optionally scoped to a set of paths.",
	}, s.refHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "sig",
		Description: "Return the defining signatures for one or more symbol names.",
	}, s.sigHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "ls",
		Description: "List the symbols defined in a single file, optionally nested into a scope tree.",
	}, s.lsHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "deps",
		Description: "List the import paths a file declares.",
	}, s.depsHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rdeps",
		Description: "List the files that import a given import path.",
	}, s.rdepsHandler())

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "status",
		Description: "Report aggregate index counts: files indexed and languages seen.",
	}, s.statusHandler())
}

// SearchParams mirrors the CLI's `search` flags. Format is accepted for
// parity with the other tools but unused: MCP responses are always
// structured content, text vs JSON is a CLI-only distinction.
type SearchParams struct {
	Pattern       string   `json:"pattern"`
	Regex         bool     `json:"regex,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`
	Paths         []string `json:"paths,omitempty"`
	Format        string   `json:"format,omitempty"`
}

// SearchResult is the structured content returned by the search tool.
type SearchResult struct {
	Groups []rank.Group `json:"groups"`
}

func (s *Server) searchHandler() mcp.ToolHandlerFor[SearchParams, SearchResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchParams]) (*mcp.CallToolResultFor[SearchResult], error) {
		args := params.Arguments
		if args.Pattern == "" {
			return nil, werrors.New(werrors.Usage, "mcp: search", errMissing("pattern"))
		}
		raw, err := search.Run(s.root, args.Pattern, search.Options{
			Regex:         args.Regex,
			CaseSensitive: args.CaseSensitive,
			Paths:         args.Paths,
		})
		if err != nil {
			return nil, werrors.Wrap(werrors.SearchFailed, "mcp: search", err)
		}
		lookup, err := s.router.RankLookup(raw)
		if err != nil {
			return nil, err
		}
		groups := rank.Rank(raw, lookup)
		return textResult(SearchResult{Groups: groups}, "search completed"), nil
	}
}

// SymParams mirrors the CLI's `sym` flags.
type SymParams struct {
	Name   string `json:"name"`
	Kind   string `json:"kind,omitempty"`
	Exact  bool   `json:"exact,omitempty"`
	Format string `json:"format,omitempty"`
}

// SymResult is the structured content returned by the sym tool.
type SymResult struct {
	Symbols []store.Symbol `json:"symbols"`
}

func (s *Server) symHandler() mcp.ToolHandlerFor[SymParams, SymResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SymParams]) (*mcp.CallToolResultFor[SymResult], error) {
		args := params.Arguments
		if args.Name == "" {
			return nil, werrors.New(werrors.Usage, "mcp: sym", errMissing("name"))
		}
		syms, err := s.router.Symbols(store.SymbolLookup{Name: args.Name, Kind: store.SymbolKind(args.Kind), Exact: args.Exact})
		if err != nil {
			return nil, err
		}
		return textResult(SymResult{Symbols: syms}, "sym completed"), nil
	}
}

// RefParams mirrors the CLI's `ref` flags.
type RefParams struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	Format string `json:"format,omitempty"`
}

// RefResult is the structured content returned by the ref tool.
type RefResult struct {
	References []store.Reference `json:"references"`
}

func (s *Server) refHandler() mcp.ToolHandlerFor[RefParams, RefResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[RefParams]) (*mcp.CallToolResultFor[RefResult], error) {
		args := params.Arguments
		if args.Name == "" {
			return nil, werrors.New(werrors.Usage, "mcp: ref", errMissing("name"))
		}
		refs, err := s.router.References(store.ReferenceLookup{Name: args.Name, Path: args.Path})
		if err != nil {
			return nil, err
		}
		return textResult(RefResult{References: refs}, "ref completed"), nil
	}
}

// SigParams mirrors the CLI's `sig` command.
type SigParams struct {
	Names  []string `json:"names"`
	Format string   `json:"format,omitempty"`
}

// SigResult is the structured content returned by the sig tool.
type SigResult struct {
	Signatures map[string][]store.Symbol `json:"signatures"`
}

func (s *Server) sigHandler() mcp.ToolHandlerFor[SigParams, SigResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SigParams]) (*mcp.CallToolResultFor[SigResult], error) {
		args := params.Arguments
		if len(args.Names) == 0 {
			return nil, werrors.New(werrors.Usage, "mcp: sig", errMissing("names"))
		}
		sigs, err := s.router.Signatures(args.Names)
		if err != nil {
			return nil, err
		}
		return textResult(SigResult{Signatures: sigs}, "sig completed"), nil
	}
}

// LsParams mirrors the CLI's `ls` command.
type LsParams struct {
	Path   string `json:"path"`
	Tree   bool   `json:"tree,omitempty"`
	Format string `json:"format,omitempty"`
}

// LsResult is the structured content returned by the ls tool.
type LsResult struct {
	Symbols []store.Symbol    `json:"symbols"`
	Tree    []wonk.SymbolTree `json:"tree,omitempty"`
}

func (s *Server) lsHandler() mcp.ToolHandlerFor[LsParams, LsResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[LsParams]) (*mcp.CallToolResultFor[LsResult], error) {
		args := params.Arguments
		if args.Path == "" {
			return nil, werrors.New(werrors.Usage, "mcp: ls", errMissing("path"))
		}
		syms, tree, err := s.router.FileSymbols(args.Path, args.Tree)
		if err != nil {
			return nil, err
		}
		return textResult(LsResult{Symbols: syms, Tree: tree}, "ls completed"), nil
	}
}

// DepsParams mirrors the CLI's `deps` command.
type DepsParams struct {
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
}

// DepsResult is the structured content returned by the deps tool.
type DepsResult struct {
	Imports []string `json:"imports"`
}

func (s *Server) depsHandler() mcp.ToolHandlerFor[DepsParams, DepsResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[DepsParams]) (*mcp.CallToolResultFor[DepsResult], error) {
		args := params.Arguments
		if args.Path == "" {
			return nil, werrors.New(werrors.Usage, "mcp: deps", errMissing("path"))
		}
		imports, err := s.router.Dependencies(args.Path)
		if err != nil {
			return nil, err
		}
		return textResult(DepsResult{Imports: imports}, "deps completed"), nil
	}
}

// RdepsParams mirrors the CLI's `rdeps` command.
type RdepsParams struct {
	ImportPath string `json:"import_path"`
	Format     string `json:"format,omitempty"`
}

// RdepsResult is the structured content returned by the rdeps tool.
type RdepsResult struct {
	Files []string `json:"files"`
}

func (s *Server) rdepsHandler() mcp.ToolHandlerFor[RdepsParams, RdepsResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[RdepsParams]) (*mcp.CallToolResultFor[RdepsResult], error) {
		args := params.Arguments
		if args.ImportPath == "" {
			return nil, werrors.New(werrors.Usage, "mcp: rdeps", errMissing("import_path"))
		}
		files, err := s.router.Dependents(args.ImportPath)
		if err != nil {
			return nil, err
		}
		return textResult(RdepsResult{Files: files}, "rdeps completed"), nil
	}
}

// StatusParams takes no required fields; Format is accepted for parity.
type StatusParams struct {
	Format string `json:"format,omitempty"`
}

// StatusResult is the structured content returned by the status tool.
type StatusResult struct {
	Files     int      `json:"files"`
	Languages []string `json:"languages"`
}

func (s *Server) statusHandler() mcp.ToolHandlerFor[StatusParams, StatusResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[StatusParams]) (*mcp.CallToolResultFor[StatusResult], error) {
		counts, err := s.router.Status()
		if err != nil {
			return nil, err
		}
		return textResult(StatusResult{Files: counts.Files, Languages: counts.Languages}, "status completed"), nil
	}
}

func textResult[T any](v T, summary string) *mcp.CallToolResultFor[T] {
	return &mcp.CallToolResultFor[T]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary},
		},
		StructuredContent: v,
	}
}

func errMissing(field string) error {
	return &missingFieldError{field: field}
}

type missingFieldError struct{ field string }

func (e *missingFieldError) Error() string {
	return e.field + " is required"
}
