package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

func extractRust(root *sitter.Node, src []byte, c *symCollector) {
	walkRust(root, "", src, c)
}

func walkRust(n *sitter.Node, scope string, src []byte, c *symCollector) {
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
		case "function_item", "function_signature_item":
			rustFunction(child, scope, src, c)
		case "struct_item":
			name := nameOf(child, src, "type_identifier")
			rustEmitContainer(child, name, store.KindStruct, scope, src, c)
			childScope = name
		case "enum_item":
			name := nameOf(child, src, "type_identifier")
			rustEmitContainer(child, name, store.KindEnum, scope, src, c)
			childScope = name
		case "trait_item":
			name := nameOf(child, src, "type_identifier")
			rustEmitContainer(child, name, store.KindTrait, scope, src, c)
			childScope = name
		case "type_item":
			rustEmitContainer(child, nameOf(child, src, "type_identifier"), store.KindTypeAlias, scope, src, c)
		case "const_item":
			rustEmitContainer(child, nameOf(child, src, "identifier"), store.KindConstant, scope, src, c)
		case "static_item":
			rustEmitContainer(child, nameOf(child, src, "identifier"), store.KindVariable, scope, src, c)
		case "mod_item":
			name := nameOf(child, src, "identifier")
			rustEmitContainer(child, name, store.KindModule, scope, src, c)
			childScope = name
		case "impl_item":
			childScope = rustImplDisplayName(child, src)
		case "call_expression":
			rustCallReference(child, src, c)
		case "use_declaration":
			rustUseImport(child, src, c)
		case "type_identifier":
			emitTypeReference(child, src, c)
		}
		walkRust(child, childScope, src, c)
	}
}

func rustFunction(n *sitter.Node, scope string, src []byte, c *symCollector) {
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

func rustEmitContainer(n *sitter.Node, name string, kind store.SymbolKind, scope string, src []byte, c *symCollector) {
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

// rustImplDisplayName builds the impl block's scope display name: "Type"
// for an inherent impl, "Trait for Type" for a trait impl.
func rustImplDisplayName(n *sitter.Node, src []byte) string {
	typ := n.ChildByFieldName("type")
	trait := n.ChildByFieldName("trait")
	typeName := nodeText(typ, src)
	if trait == nil {
		return typeName
	}
	return nodeText(trait, src) + " for " + typeName
}

func rustCallReference(n *sitter.Node, src []byte, c *symCollector) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	name := nodeText(fn, src)
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}
	c.emitReference(store.Reference{
		Name:    name,
		Kind:    store.RefCall,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: signatureOf(n, src),
	})
}

func rustUseImport(n *sitter.Node, src []byte, c *symCollector) {
	path := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(nodeText(n, src), "use "), ";"))
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
