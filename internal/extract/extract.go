package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

type extractorFunc func(root *sitter.Node, src []byte, c *symCollector)

var extractors = map[string]extractorFunc{
	"go":         extractGo,
	"rust":       extractRust,
	"python":     extractPython,
	"javascript": extractJSLike,
	"typescript": extractJSLike,
	"java":       extractJava,
	"c":          extractC,
	"cpp":        extractCpp,
	"ruby":       extractRuby,
	"php":        extractPHP,
}

// textLanguage is the synthetic language assigned to files whose extension
// matches [index] additional_extensions but has no grammar of its own: the
// file is worth a FileRecord (line count, presence in ls/status) but carries
// no symbols, references, or imports.
const textLanguage = "text"

// Extract parses content as lang and walks the resulting tree, producing a
// Result. A parse error from the underlying parser is itself an error;
// malformed-but-parseable source (tree-sitter's ERROR nodes) is not — the
// extractor walks whatever partial tree the parser produced.
func Extract(lang string, content []byte) (Result, error) {
	if lang == textLanguage {
		return Result{LineCount: lineCount(content)}, nil
	}

	grammar, ok := grammarFor(lang)
	if !ok {
		return Result{}, fmt.Errorf("extract: unsupported language %q", lang)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return Result{}, fmt.Errorf("extract: parse: %w", err)
	}
	defer tree.Close()

	fn, ok := extractors[lang]
	if !ok {
		return Result{}, fmt.Errorf("extract: no extractor registered for %q", lang)
	}

	c := newCollector(lang)
	fn(tree.RootNode(), content, c)
	c.result.LineCount = lineCount(content)
	return c.result, nil
}
