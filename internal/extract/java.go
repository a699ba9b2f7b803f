package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractJava(root *sitter.Node, src []byte, c *symCollector) {
	walkJava(root, "", src, c)
}

func walkJava(n *sitter.Node, scope string, src []byte, c *symCollector) {
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
		case "class_declaration":
			name := nameOf(child, src, "identifier")
			javaEmit(child, name, store.KindClass, scope, src, c)
			childScope = name
		case "interface_declaration":
			name := nameOf(child, src, "identifier")
			javaEmit(child, name, store.KindInterface, scope, src, c)
			childScope = name
		case "enum_declaration":
			name := nameOf(child, src, "identifier")
			javaEmit(child, name, store.KindEnum, scope, src, c)
			childScope = name
		case "method_declaration", "constructor_declaration":
			name := nameOf(child, src, "identifier")
			javaEmit(child, name, store.KindMethod, scope, src, c)
		case "field_declaration":
			javaFieldDeclaration(child, scope, src, c)
		case "method_invocation":
			javaCallReference(child, src, c)
		case "import_declaration":
			javaImport(child, src, c)
		case "type_identifier":
			emitTypeReference(child, src, c)
		}
		walkJava(child, childScope, src, c)
	}
}

func javaEmit(n *sitter.Node, name string, kind store.SymbolKind, scope string, src []byte, c *symCollector) {
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

func javaFieldDeclaration(n *sitter.Node, scope string, src []byte, c *symCollector) {
	text := nodeText(n, src)
	kind := store.KindVariable
	if strings.Contains(text, "final") {
		kind = store.KindConstant
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		decl := n.Child(i)
		if decl == nil || decl.Type() != "variable_declarator" {
			continue
		}
		name := nameOf(decl, src, "identifier")
		if name == "" {
			continue
		}
		c.emitSymbol(store.Symbol{
			Name:      name,
			Kind:      kind,
			Line:      startLine(n),
			Col:       startCol(n),
			Scope:     scope,
			Signature: signatureOf(n, src),
		})
	}
}

func javaCallReference(n *sitter.Node, src []byte, c *symCollector) {
	name := nameOf(n, src, "identifier")
	if name == "" {
		return
	}
	c.emitReference(store.Reference{
		Name:    name,
		Kind:    store.RefCall,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: signatureOf(n, src),
	})
}

func javaImport(n *sitter.Node, src []byte, c *symCollector) {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(nodeText(n, src), "import"), ";"))
	text = strings.TrimSpace(strings.TrimPrefix(text, "static"))
	if text == "" {
		return
	}
	c.emitImport(text)
	c.emitReference(store.Reference{
		Name:    text,
		Kind:    store.RefImport,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: nodeText(n, src),
	})
}
