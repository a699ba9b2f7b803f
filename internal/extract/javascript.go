package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

// extractJSLike handles both JavaScript and TypeScript/TSX: the grammars
// share node shapes for the constructs this package emits symbols for, and
// TypeScript simply adds a handful of declaration kinds on top.
func extractJSLike(root *sitter.Node, src []byte, c *symCollector) {
	walkJS(root, "", src, c)
}

func walkJS(n *sitter.Node, scope string, src []byte, c *symCollector) {
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
		case "function_declaration", "generator_function_declaration":
			jsFunction(child, scope, src, c)
		case "class_declaration":
			name := nameOf(child, src, "identifier", "type_identifier")
			jsEmitContainer(child, name, store.KindClass, scope, src, c)
			childScope = name
		case "method_definition":
			jsMethod(child, scope, src, c)
		case "variable_declaration", "lexical_declaration":
			jsVariableDeclaration(child, scope, src, c)
		case "interface_declaration":
			name := nameOf(child, src, "type_identifier")
			jsEmitContainer(child, name, store.KindInterface, scope, src, c)
		case "type_alias_declaration":
			name := nameOf(child, src, "type_identifier")
			jsEmitContainer(child, name, store.KindTypeAlias, scope, src, c)
		case "enum_declaration":
			name := nameOf(child, src, "identifier")
			jsEmitContainer(child, name, store.KindEnum, scope, src, c)
		case "module", "internal_module":
			name := nameOf(child, src, "identifier", "string")
			jsEmitContainer(child, name, store.KindModule, scope, src, c)
			childScope = name
		case "call_expression":
			jsCallReference(child, src, c)
		case "import_statement":
			jsImport(child, src, c)
		case "type_identifier", "predefined_type":
			emitTypeReference(child, src, c)
		}
		walkJS(child, childScope, src, c)
	}
}

func jsFunction(n *sitter.Node, scope string, src []byte, c *symCollector) {
	name := nameOf(n, src, "identifier")
	if name == "" {
		return
	}
	kind := store.KindFunction
	if scope != "" {
		kind = store.KindMethod
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

func jsMethod(n *sitter.Node, scope string, src []byte, c *symCollector) {
	name := nameOf(n, src, "property_identifier")
	if name == "" {
		return
	}
	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      store.KindMethod,
		Line:      startLine(n),
		Col:       startCol(n),
		EndLine:   endLine(n),
		Scope:     scope,
		Signature: signatureOf(n, src),
	})
}

func jsEmitContainer(n *sitter.Node, name string, kind store.SymbolKind, scope string, src []byte, c *symCollector) {
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

// jsVariableDeclaration inspects each declarator's initializer: arrow or
// function expressions become Function, a class expression becomes Class,
// anything else is Constant (ALL_CAPS name) or Variable.
func jsVariableDeclaration(n *sitter.Node, scope string, src []byte, c *symCollector) {
	for i := 0; i < int(n.ChildCount()); i++ {
		decl := n.Child(i)
		if decl == nil || decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nodeText(nameNode, src)
		value := decl.ChildByFieldName("value")

		var kind store.SymbolKind
		switch {
		case value == nil:
			kind = store.KindVariable
		case value.Type() == "arrow_function" || value.Type() == "function" || value.Type() == "function_expression":
			kind = store.KindFunction
		case value.Type() == "class":
			kind = store.KindClass
		case isAllCapsIdent(name):
			kind = store.KindConstant
		default:
			kind = store.KindVariable
		}
		if scope != "" && kind == store.KindFunction {
			kind = store.KindMethod
		}
		c.emitSymbol(store.Symbol{
			Name:      name,
			Kind:      kind,
			Line:      startLine(decl),
			Col:       startCol(decl),
			EndLine:   endLine(decl),
			Scope:     scope,
			Signature: signatureOf(decl, src),
		})
	}
}

func jsCallReference(n *sitter.Node, src []byte, c *symCollector) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	name := nodeText(fn, src)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	c.emitReference(store.Reference{
		Name:    name,
		Kind:    store.RefCall,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: signatureOf(n, src),
	})
}

func jsImport(n *sitter.Node, src []byte, c *symCollector) {
	source := n.ChildByFieldName("source")
	if source == nil {
		return
	}
	path := strings.Trim(nodeText(source, src), `"'`)
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
