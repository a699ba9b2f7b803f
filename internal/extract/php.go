package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractPHP(root *sitter.Node, src []byte, c *symCollector) {
	walkPHP(root, "", src, c)
}

func walkPHP(n *sitter.Node, scope string, src []byte, c *symCollector) {
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
			name := nameOf(child, src, "name")
			kind := store.KindFunction
			if scope != "" {
				kind = store.KindMethod
			}
			phpEmit(child, name, kind, scope, src, c)
		case "method_declaration":
			phpEmit(child, nameOf(child, src, "name"), store.KindMethod, scope, src, c)
		case "class_declaration":
			name := nameOf(child, src, "name")
			phpEmit(child, name, store.KindClass, scope, src, c)
			childScope = name
		case "interface_declaration":
			name := nameOf(child, src, "name")
			phpEmit(child, name, store.KindInterface, scope, src, c)
			childScope = name
		case "trait_declaration":
			name := nameOf(child, src, "name")
			phpEmit(child, name, store.KindTrait, scope, src, c)
			childScope = name
		case "enum_declaration":
			name := nameOf(child, src, "name")
			phpEmit(child, name, store.KindEnum, scope, src, c)
			childScope = name
		case "namespace_definition":
			name := nameOf(child, src, "namespace_name")
			phpEmit(child, name, store.KindModule, scope, src, c)
			childScope = name
		case "const_declaration":
			phpConstDeclaration(child, scope, src, c)
		case "function_call_expression":
			phpCallReference(child, src, c)
		case "namespace_use_declaration":
			phpUseImport(child, src, c)
		case "named_type":
			emitTypeReference(child, src, c)
		}
		walkPHP(child, childScope, src, c)
	}
}

func phpEmit(n *sitter.Node, name string, kind store.SymbolKind, scope string, src []byte, c *symCollector) {
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

func phpConstDeclaration(n *sitter.Node, scope string, src []byte, c *symCollector) {
	for i := 0; i < int(n.ChildCount()); i++ {
		el := n.Child(i)
		if el == nil || el.Type() != "const_element" {
			continue
		}
		name := nameOf(el, src, "name")
		if name == "" {
			continue
		}
		c.emitSymbol(store.Symbol{
			Name:      name,
			Kind:      store.KindConstant,
			Line:      startLine(el),
			Col:       startCol(el),
			Scope:     scope,
			Signature: signatureOf(n, src),
		})
	}
}

func phpCallReference(n *sitter.Node, src []byte, c *symCollector) {
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

func phpUseImport(n *sitter.Node, src []byte, c *symCollector) {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(nodeText(n, src), "use"), ";"))
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
