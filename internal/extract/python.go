package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractPython(root *sitter.Node, src []byte, c *symCollector) {
	walkPython(root, "", 0, src, c)
}

// walkPython threads both the current class scope and a function-nesting
// depth, so module-level-assignment detection only fires at true module
// scope (not inside a function body).
func walkPython(n *sitter.Node, scope string, funcDepth int, src []byte, c *symCollector) {
	if n == nil {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		def := child
		if def.Type() == "decorated_definition" {
			if inner := firstChildOfType(def, "function_definition", "class_definition"); inner != nil {
				def = inner
			}
		}

		childScope, childFuncDepth := scope, funcDepth
		switch def.Type() {
		case "function_definition":
			pyFunction(def, scope, src, c)
			childFuncDepth = funcDepth + 1
		case "class_definition":
			name := nameOf(def, src, "identifier")
			if name != "" {
				c.emitSymbol(store.Symbol{
					Name:      name,
					Kind:      store.KindClass,
					Line:      startLine(def),
					Col:       startCol(def),
					EndLine:   endLine(def),
					Scope:     scope,
					Signature: signatureOf(def, src),
				})
			}
			childScope = name
		case "assignment":
			if scope == "" && funcDepth == 0 {
				pyModuleAssignment(child, src, c)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				pyEmitTypeRef(t, src, c)
			}
		case "call":
			pyCallReference(child, src, c)
		case "import_statement", "import_from_statement":
			pyImport(child, src, c)
		}
		walkPython(child, childScope, childFuncDepth, src, c)
	}
}

func pyFunction(n *sitter.Node, scope string, src []byte, c *symCollector) {
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

	if rt := n.ChildByFieldName("return_type"); rt != nil {
		pyEmitTypeRef(rt, src, c)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			p := params.Child(i)
			if p == nil {
				continue
			}
			if p.Type() == "typed_parameter" || p.Type() == "typed_default_parameter" {
				if t := p.ChildByFieldName("type"); t != nil {
					pyEmitTypeRef(t, src, c)
				}
			}
		}
	}
}

// pyEmitTypeRef walks a type-hint expression (a plain name, a dotted
// attribute, or a subscripted generic like List[Foo]) and emits a Type
// reference for each named type it resolves to.
func pyEmitTypeRef(n *sitter.Node, src []byte, c *symCollector) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier":
		c.emitReference(store.Reference{
			Name:    nodeText(n, src),
			Kind:    store.RefType,
			Line:    startLine(n),
			Col:     startCol(n),
			Context: signatureOf(n, src),
		})
	case "attribute":
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			pyEmitTypeRef(attr, src, c)
		}
	case "subscript":
		if value := n.ChildByFieldName("value"); value != nil {
			pyEmitTypeRef(value, src, c)
		}
		if sub := n.ChildByFieldName("subscript"); sub != nil {
			pyEmitTypeRef(sub, src, c)
		}
	case "tuple", "type":
		for i := 0; i < int(n.ChildCount()); i++ {
			pyEmitTypeRef(n.Child(i), src, c)
		}
	}
}

func pyModuleAssignment(n *sitter.Node, src []byte, c *symCollector) {
	left := n.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := nodeText(left, src)
	kind := store.KindVariable
	if isAllCapsIdent(name) {
		kind = store.KindConstant
	}
	c.emitSymbol(store.Symbol{
		Name:      name,
		Kind:      kind,
		Line:      startLine(n),
		Col:       startCol(n),
		Signature: signatureOf(n, src),
	})
}

func pyCallReference(n *sitter.Node, src []byte, c *symCollector) {
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

func pyImport(n *sitter.Node, src []byte, c *symCollector) {
	text := nodeText(n, src)
	path := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(text, "from "), "import "))
	if idx := strings.IndexAny(path, " \n"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" {
		return
	}
	c.emitImport(path)
	c.emitReference(store.Reference{
		Name:    path,
		Kind:    store.RefImport,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: text,
	})
}
