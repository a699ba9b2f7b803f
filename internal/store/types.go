package store

// SymbolKind is the closed set of symbol kinds spec.md §3 recognizes.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindStruct    SymbolKind = "struct"
	KindInterface SymbolKind = "interface"
	KindEnum      SymbolKind = "enum"
	KindTrait     SymbolKind = "trait"
	KindTypeAlias SymbolKind = "type_alias"
	KindConstant  SymbolKind = "constant"
	KindVariable  SymbolKind = "variable"
	KindModule    SymbolKind = "module"
)

// ReferenceKind is the closed set of reference kinds spec.md §3 recognizes.
type ReferenceKind string

const (
	RefCall   ReferenceKind = "call"
	RefType   ReferenceKind = "type"
	RefImport ReferenceKind = "import"
)

// Symbol is one definition site.
type Symbol struct {
	ID        int64
	Name      string
	Kind      SymbolKind
	File      string
	Line      int
	Col       int
	EndLine   int // 0 means absent
	Scope     string
	Signature string
	Language  string
}

// Reference is one usage site.
type Reference struct {
	ID      int64
	Name    string
	Kind    ReferenceKind
	File    string
	Line    int
	Col     int
	Context string
}

// FileRecord tracks one indexed file.
type FileRecord struct {
	Path         string
	Language     string
	ContentHash  string
	LastIndexed  int64
	LineCount    int
	SymbolsCount int
}

// ImportEdge is one file-to-file import as written in source (not resolved).
type ImportEdge struct {
	SourceFile string
	ImportPath string
}

// FileResult is the immutable, per-file output of the parse/extract stage
// (§4.B, §4.D): one goroutine produces it, the single storage-writing
// orchestrator consumes it inside one transaction.
type FileResult struct {
	File       FileRecord
	Symbols    []Symbol
	References []Reference
	Imports    []ImportEdge
}
