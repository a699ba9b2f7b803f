package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractRuby(root *sitter.Node, src []byte, c *symCollector) {
	walkRuby(root, "", src, c)
}

func walkRuby(n *sitter.Node, scope string, src []byte, c *symCollector) {
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
		case "method":
			name := nameOf(child, src, "identifier")
			kind := store.KindFunction
			if scope != "" {
				kind = store.KindMethod
			}
			rubyEmit(child, name, kind, scope, src, c)
		case "singleton_method":
			name := nameOf(child, src, "identifier")
			rubyEmit(child, name, store.KindMethod, scope, src, c)
		case "class":
			name := nameOf(child, src, "constant")
			rubyEmit(child, name, store.KindClass, scope, src, c)
			childScope = name
		case "module":
			name := nameOf(child, src, "constant")
			rubyEmit(child, name, store.KindModule, scope, src, c)
			childScope = name
		case "assignment":
			rubyAssignment(child, scope, src, c)
		case "call":
			rubyCallReference(child, src, c)
		}
		walkRuby(child, childScope, src, c)
	}
}

func rubyEmit(n *sitter.Node, name string, kind store.SymbolKind, scope string, src []byte, c *symCollector) {
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

func rubyAssignment(n *sitter.Node, scope string, src []byte, c *symCollector) {
	left := n.ChildByFieldName("left")
	if left == nil || left.Type() != "constant" {
		return
	}
	c.emitSymbol(store.Symbol{
		Name:      nodeText(left, src),
		Kind:      store.KindConstant,
		Line:      startLine(n),
		Col:       startCol(n),
		Scope:     scope,
		Signature: signatureOf(n, src),
	})
}

func rubyCallReference(n *sitter.Node, src []byte, c *symCollector) {
	method := n.ChildByFieldName("method")
	if method == nil {
		return
	}
	name := nodeText(method, src)
	if name == "require" || name == "require_relative" {
		rubyRequireImport(n, src, c)
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

func rubyRequireImport(n *sitter.Node, src []byte, c *symCollector) {
	args := n.ChildByFieldName("arguments")
	path := strings.Trim(nodeText(args, src), `()'" `)
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
