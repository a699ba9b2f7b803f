package extract

import "github.com/etr/wonk-sub000/internal/store"

// Result is one file's parse/extract output, immutable once produced. The
// index builder's parallel workers each produce one Result; the single
// orchestrator attaches the file-level metadata and commits.
type Result struct {
	Symbols    []store.Symbol
	References []store.Reference
	Imports    []store.ImportEdge
	LineCount  int
}

// symCollector accumulates a file's extraction output while the cursor
// walks the tree. Kept unexported: languages only see the emit* helpers.
type symCollector struct {
	result Result
	lang   string
}

func newCollector(lang string) *symCollector {
	return &symCollector{lang: lang}
}

func (c *symCollector) emitSymbol(sym store.Symbol) {
	sym.Language = c.lang
	c.result.Symbols = append(c.result.Symbols, sym)
}

func (c *symCollector) emitReference(ref store.Reference) {
	c.result.References = append(c.result.References, ref)
}

func (c *symCollector) emitImport(path string) {
	c.result.Imports = append(c.result.Imports, store.ImportEdge{ImportPath: path})
}
