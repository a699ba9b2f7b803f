package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/etr/wonk-sub000/internal/store"
)

// isNamePosition reports whether n fills its parent's "name" field, i.e. n is
// a defining identifier (a struct/class/interface's own name) rather than a
// reference occurring elsewhere in the tree.
func isNamePosition(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	return parent.ChildByFieldName("name") == n
}

// emitTypeReference records a type-identifier use — a field type, a
// parameter or return type, a receiver type — as a Type reference, skipping
// nodes that are themselves a definition's own name.
func emitTypeReference(n *sitter.Node, src []byte, c *symCollector) {
	if n == nil || isNamePosition(n) {
		return
	}
	name := nodeText(n, src)
	if name == "" {
		return
	}
	c.emitReference(store.Reference{
		Name:    name,
		Kind:    store.RefType,
		Line:    startLine(n),
		Col:     startCol(n),
		Context: signatureOf(n, src),
	})
}
