package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

// extractGo walks a Go syntax tree. Go has no nested containers, so every
// symbol is emitted at the top level; methods get their scope from the
// receiver type instead of a pushed container.
func extractGo(root *sitter.Node, src []byte, c *symCollector) {
	walkGo(root, src, c)
}

func walkGo(n *sitter.Node, src []byte, c *symCollector) {
	if n == nil {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "function_declaration":
			goFunction(child, src, c)
		case "method_declaration":
			goMethod(child, src, c)
		case "type_declaration":
			goTypeDecl(child, src, c)
		case "const_declaration":
			goConstVarDecl(child, src, c, store.KindConstant)
		case "var_declaration":
			goConstVarDecl(child, src, c, store.KindVariable)
		case "call_expression":
			goCallReference(child, src, c)
		case "import_spec":
			goImport(child, src, c)
		case "type_identifier":
			emitTypeReference(child, src, c)
		}
		walkGo(child, src, c)
	}
}

func goFunction(n *sitter.Node, src []byte, c *symCollector) {
	name := nameOf(n, src, "identifier")
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

func goMethod(n *sitter.Node, src []byte, c *symCollector) {
	name := nameOf(n, src, "field_identifier")
	if name == "" {
		return
	}
	scope := goReceiverType(n, src)
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

// goReceiverType extracts the receiver's type name, stripping any leading
// pointer marker ("*").
func goReceiverType(n *sitter.Node, src []byte) string {
	recv := n.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	text := nodeText(recv, src)
	// parameter_list text looks like "(r *Repo)" or "(r Repo)".
	text = strings.Trim(text, "()")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	typ := fields[len(fields)-1]
	return strings.TrimPrefix(typ, "*")
}

func goTypeDecl(n *sitter.Node, src []byte, c *symCollector) {
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec == nil || (spec.Type() != "type_spec" && spec.Type() != "type_alias") {
			continue
		}
		name := nameOf(spec, src, "type_identifier")
		if name == "" {
			continue
		}
		rhs := spec.ChildByFieldName("type")
		kind := store.KindTypeAlias
		if rhs != nil {
			switch rhs.Type() {
			case "struct_type":
				kind = store.KindStruct
			case "interface_type":
				kind = store.KindInterface
			}
		}
		c.emitSymbol(store.Symbol{
			Name:      name,
			Kind:      kind,
			Line:      startLine(spec),
			Col:       startCol(spec),
			EndLine:   endLine(spec),
			Signature: signatureOf(n, src),
		})
	}
}

// goConstVarDecl emits one symbol per identifier named in a const/var
// declaration, including grouped "( ... )" blocks.
func goConstVarDecl(n *sitter.Node, src []byte, c *symCollector, kind store.SymbolKind) {
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec == nil || spec.Type() != "const_spec" && spec.Type() != "var_spec" {
			continue
		}
		for j := 0; j < int(spec.ChildCount()); j++ {
			c2 := spec.Child(j)
			if c2 == nil || c2.Type() != "identifier" {
				continue
			}
			c.emitSymbol(store.Symbol{
				Name:      nodeText(c2, src),
				Kind:      kind,
				Line:      startLine(spec),
				Col:       startCol(spec),
				Signature: signatureOf(spec, src),
			})
		}
	}
}

func goCallReference(n *sitter.Node, src []byte, c *symCollector) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	name := nodeText(fn, src)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
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

func goImport(n *sitter.Node, src []byte, c *symCollector) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return
	}
	path := strings.Trim(nodeText(pathNode, src), `"`)
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
