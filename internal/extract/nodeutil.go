package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// signatureOf returns the defining node's text truncated at the first "{"
// (trimmed), or the first line if there is no brace.
func signatureOf(n *sitter.Node, src []byte) string {
	text := nodeText(n, src)
	if idx := strings.IndexByte(text, '{'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}

// firstChildOfType does a breadth-first search for the first direct child
// whose Type() equals one of kinds.
func firstChildOfType(n *sitter.Node, kinds ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		for _, k := range kinds {
			if c.Type() == k {
				return c
			}
		}
	}
	return nil
}

// nameOf looks up the conventional "name" field first, falling back to the
// first identifier-shaped child.
func nameOf(n *sitter.Node, src []byte, fallbackKinds ...string) string {
	if n == nil {
		return ""
	}
	if name := n.ChildByFieldName("name"); name != nil {
		return nodeText(name, src)
	}
	if c := firstChildOfType(n, fallbackKinds...); c != nil {
		return nodeText(c, src)
	}
	return ""
}

func isAllCapsIdent(name string) bool {
	if name == "" {
		return false
	}
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r == '_':
			// ok
		case r >= '0' && r <= '9':
			// ok
		default:
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func startLine(n *sitter.Node) int   { return int(n.StartPoint().Row) + 1 }
func endLine(n *sitter.Node) int     { return int(n.EndPoint().Row) + 1 }
func startCol(n *sitter.Node) int    { return int(n.StartPoint().Column) }
func lineCount(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := strings.Count(string(content), "\n")
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
