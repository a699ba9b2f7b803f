package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractCpp(root *sitter.Node, src []byte, c *symCollector) {
	walkCpp(root, "", src, c)
}

func walkCpp(n *sitter.Node, scope string, src []byte, c *symCollector) {
	if n == nil {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		childScope := scope
		switch child.Type() {
		case "function_definition":
			cppFunction(child, scope, src, c)
		case "declaration":
			cDeclaration(child, src, c)
		case "struct_specifier":
			name := nameOf(child, src, "type_identifier")
			cppEmit(child, name, store.KindStruct, scope, src, c)
			childScope = name
		case "class_specifier":
			name := nameOf(child, src, "type_identifier")
			cppEmit(child, name, store.KindClass, scope, src, c)
			childScope = name
		case "enum_specifier":
			cppEmit(child, nameOf(child, src, "type_identifier"), store.KindEnum, scope, src, c)
		case "namespace_definition":
			name := nameOf(child, src, "identifier", "namespace_identifier")
			cppEmit(child, name, store.KindModule, scope, src, c)
			childScope = name
		case "preproc_def":
			cppEmit(child, nameOf(child, src, "identifier"), store.KindConstant, scope, src, c)
		case "alias_declaration", "type_definition":
			name := nameOf(child, src, "type_identifier")
			cppEmit(child, name, store.KindTypeAlias, scope, src, c)
		case "using_declaration":
			name := nameOf(child, src, "identifier", "qualified_identifier")
			cppEmit(child, name, store.KindTypeAlias, scope, src, c)
		case "call_expression":
			cCallReference(child, src, c)
		case "preproc_include":
			cInclude(child, src, c)
		case "type_identifier":
			emitTypeReference(child, src, c)
		}
		walkCpp(child, childScope, src, c)
	}
}

func cppEmit(n *sitter.Node, name string, kind store.SymbolKind, scope string, src []byte, c *symCollector) {
	if name == "" {
		return
	}
	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      kind,
		Line:      startLine(n),
		Col:       startCol(n),
		EndLine:   endLine(n),
		Scope:     scope,
		Signature: signatureOf(n, src),
	})
}

// cppFunction classifies a function_definition as Method when it is a
// class/struct field (an inline member definition) or its name is qualified
// with `::` (an out-of-line member definition), Function otherwise.
func cppFunction(n *sitter.Node, scope string, src []byte, c *symCollector) {
	declarator := n.ChildByFieldName("declarator")
	name := cInnermostIdentifier(declarator, src)
	if name == "" {
		return
	}

	kind := store.KindFunction
	parent := n.Parent()
	if parent != nil && parent.Type() == "field_declaration_list" {
		kind = store.KindMethod
	} else if strings.Contains(name, "::") {
		kind = store.KindMethod
	}
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		if kind == store.KindMethod && scope == "" {
			scope = name[:idx]
		}
		name = name[idx+2:]
	}

	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      kind,
		Line:      startLine(n),
		Col:       startCol(n),
		EndLine:   endLine(n),
		Scope:     scope,
		Signature: signatureOf(n, src),
	})
}
