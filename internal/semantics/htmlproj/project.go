// internal/semantics/htmlproj/project.go

// Package htmlproj projects static HTML into the engine's render-tree input
// model. It resolves only inline style declarations and synthesizes flat
// geometry, which is enough for offline runs and fixtures; live pages go
// through the chromedp projector instead.
package htmlproj

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/veilcroft/pagelens/internal/semantics"
)

// Options shapes the synthesized geometry.
type Options struct {
	ViewportWidth  float64
	ViewportHeight float64
}

func (o Options) normalized() Options {
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = 1280
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = 900
	}
	return o
}

// Project parses an HTML document and returns the render tree rooted at its
// <html> element.
func Project(src string, opts Options) (*semantics.RenderNode, error) {
	doc, err := htmlquery.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	root := htmlquery.FindOne(doc, "//html")
	if root == nil {
		return nil, fmt.Errorf("document has no html element")
	}
	return projectElement(root, opts.normalized()), nil
}

func projectElement(n *html.Node, opts Options) *semantics.RenderNode {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}

	rn := &semantics.RenderNode{
		Tag:     n.Data,
		Attrs:   attrs,
		Classes: strings.Fields(attrs["class"]),
		Style:   resolveInlineStyle(attrs),
		Geom:    synthesizeGeometry(attrs, opts),
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			rn.Children = append(rn.Children, projectElement(c, opts))
		case html.TextNode:
			rn.Text = append(rn.Text, c.Data)
		}
	}
	return rn
}

// resolveInlineStyle reads the style subset from the style attribute. The
// hidden attribute behaves as display:none, matching the UA default.
func resolveInlineStyle(attrs map[string]string) semantics.StyleProps {
	style := semantics.StyleProps{Opacity: 1}
	if _, hidden := attrs["hidden"]; hidden {
		style.Display = "none"
	}
	for key, val := range parseDeclarations(attrs["style"]) {
		switch key {
		case "display":
			style.Display = val
		case "visibility":
			style.Visibility = val
		case "opacity":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				style.Opacity = f
			}
		case "pointer-events":
			style.PointerEvents = val
		case "cursor":
			style.Cursor = val
		case "text-decoration":
			style.TextDecoration = val
		}
	}
	return style
}

// synthesizeGeometry places every node at the origin inside the viewport.
// Inline width/height declarations override the intrinsic defaults so
// fixtures can express zero-size nodes.
func synthesizeGeometry(attrs map[string]string, opts Options) semantics.Geometry {
	geom := semantics.Geometry{
		Width:           opts.ViewportWidth,
		Height:          20,
		IntrinsicWidth:  opts.ViewportWidth,
		IntrinsicHeight: 20,
		ViewportWidth:   opts.ViewportWidth,
		ViewportHeight:  opts.ViewportHeight,
		DocScrollHeight: opts.ViewportHeight,
	}
	for key, val := range parseDeclarations(attrs["style"]) {
		px, ok := parsePixels(val)
		if !ok {
			continue
		}
		switch key {
		case "width":
			geom.Width = px
			geom.IntrinsicWidth = px
		case "height":
			geom.Height = px
			geom.IntrinsicHeight = px
		}
	}
	return geom
}

// parseDeclarations splits an inline declaration block into property/value
// pairs. Malformed declarations are skipped, not fatal.
func parseDeclarations(style string) map[string]string {
	if style == "" {
		return nil
	}
	decls := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		key, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.ToLower(strings.TrimSpace(val))
		if key != "" && val != "" {
			decls[key] = val
		}
	}
	return decls
}

func parsePixels(val string) (float64, bool) {
	val = strings.TrimSuffix(val, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
