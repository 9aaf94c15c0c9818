// internal/semantics/serialize.go
package semantics

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Serialize renders the simplified tree as markup. Semantic ids are written
// as the id attribute, which is how the decision-maker addresses elements in
// its next action. A nil tree serializes to the empty string.
func Serialize(root *SimplifiedNode) (string, error) {
	if root == nil {
		return "", nil
	}
	node := toHTMLNode(root)
	var b strings.Builder
	if err := html.Render(&b, node); err != nil {
		return "", fmt.Errorf("rendering simplified tree: %w", err)
	}
	return b.String(), nil
}

func toHTMLNode(s *SimplifiedNode) *html.Node {
	if s.IsText() {
		return &html.Node{Type: html.TextNode, Data: s.Text}
	}

	n := &html.Node{
		Type:     html.ElementNode,
		Data:     s.Tag,
		DataAtom: atom.Lookup([]byte(s.Tag)),
	}
	if s.Annotation.Live() {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: s.Annotation.SemanticID})
	}
	for _, a := range s.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}

	for _, child := range s.Children {
		n.AppendChild(toHTMLNode(child))
	}
	return n
}
