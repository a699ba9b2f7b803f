package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractC(root *sitter.Node, src []byte, c *symCollector) {
	walkC(root, src, c)
}

func walkC(n *sitter.Node, src []byte, c *symCollector) {
	if n == nil {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "function_definition":
			cFunction(child, src, c)
		case "declaration":
			cDeclaration(child, src, c)
		case "struct_specifier":
			cEmit(child, nameOf(child, src, "type_identifier"), store.KindStruct, src, c)
		case "enum_specifier":
			cEmit(child, nameOf(child, src, "type_identifier"), store.KindEnum, src, c)
		case "preproc_def":
			name := nameOf(child, src, "identifier")
			cEmit(child, name, store.KindConstant, src, c)
		case "call_expression":
			cCallReference(child, src, c)
		case "preproc_include":
			cInclude(child, src, c)
		case "type_identifier":
			emitTypeReference(child, src, c)
		}
		walkC(child, src, c)
	}
}

func cEmit(n *sitter.Node, name string, kind store.SymbolKind, src []byte, c *symCollector) {
	if name == "" {
		return
	}
	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      kind,
		Line:      startLine(n),
		Col:       startCol(n),
		EndLine:   endLine(n),
		Signature: signatureOf(n, src),
	})
}

func cFunction(n *sitter.Node, src []byte, c *symCollector) {
	declarator := n.ChildByFieldName("declarator")
	name := cInnermostIdentifier(declarator, src)
	if name == "" {
		return
	}
	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      store.KindFunction,
		Line:      startLine(n),
		Col:       startCol(n),
		EndLine:   endLine(n),
		Signature: signatureOf(n, src),
	})
}

// cInnermostIdentifier walks a possibly-nested declarator (pointer,
// function, array) down to its identifier leaf.
func cInnermostIdentifier(n *sitter.Node, src []byte) string {
	for n != nil {
		if n.Type() == "identifier" || n.Type() == "field_identifier" || n.Type() == "qualified_identifier" {
			return nodeText(n, src)
		}
		next := n.ChildByFieldName("declarator")
		if next == nil {
			next = firstChildOfType(n, "identifier", "field_identifier", "pointer_declarator", "function_declarator", "array_declarator")
		}
		if next == n || next == nil {
			break
		}
		n = next
	}
	return ""
}

func cDeclaration(n *sitter.Node, src []byte, c *symCollector) {
	text := nodeText(n, src)
	if !strings.HasPrefix(strings.TrimSpace(text), "typedef") {
		return
	}
	declarator := n.ChildByFieldName("declarator")
	name := cInnermostIdentifier(declarator, src)
	if name == "" {
		return
	}
	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      store.KindTypeAlias,
		Line:      startLine(n),
		Col:       startCol(n),
		Signature: signatureOf(n, src),
	})
}

func cCallReference(n *sitter.Node, src []byte, c *symCollector) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	c.emitReference(store.Reference{
		Name:    nodeText(fn, src),
		Kind:    store.RefCall,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: signatureOf(n, src),
	})
}

func cInclude(n *sitter.Node, src []byte, c *symCollector) {
	pathNode := firstChildOfType(n, "string_literal", "system_lib_string")
	if pathNode == nil {
		return
	}
	path := strings.Trim(nodeText(pathNode, src), `"<>`)
	if path == "" {
		return
	}
	c.emitImport(path)
	c.emitReference(store.Reference{
		Name:    path,
		Kind:    store.RefImport,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: nodeText(n, src),
	})
}
