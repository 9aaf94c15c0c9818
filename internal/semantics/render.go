// internal/semantics/render.go
package semantics

import "strings"

// Bookkeeping attributes written onto live elements by the host between
// invocations. They are the only state that survives a single invocation:
// SemanticIDAttr binds an assigned id back to a concrete element so a later
// "act on id X" instruction can resolve it, and HoverMarkAttr carries the
// hover-instrumentation flag planted by the host's hover collaborator.
const (
	SemanticIDAttr = "parser-semantic-id"
	HoverMarkAttr  = "data-pagelens-hover"
	FocusMarkAttr  = "data-pagelens-focus"
)

// StyleProps is the resolved style subset the engine reasons about. The
// projector (live or static) is responsible for resolving it; the engine
// never touches a rendering engine.
type StyleProps struct {
	Display        string  `json:"display"`
	Visibility     string  `json:"visibility"`
	Opacity        float64 `json:"opacity"`
	PointerEvents  string  `json:"pointerEvents"`
	Cursor         string  `json:"cursor"`
	TextDecoration string  `json:"textDecoration"`

	// Unreadable marks a node whose style or geometry probe failed (detached
	// element, cross-origin frame). Such nodes are treated as invisible.
	Unreadable bool `json:"unreadable,omitempty"`
}

// Geometry captures the layout facts relevant to visibility decisions.
// Coordinates are viewport-relative, matching getBoundingClientRect.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	IntrinsicWidth  float64 `json:"intrinsicWidth"`
	IntrinsicHeight float64 `json:"intrinsicHeight"`

	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`

	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`

	// DocScrollHeight is the total scrollable height of the document.
	DocScrollHeight float64 `json:"docScrollHeight"`

	// ScrollableAncestor reports whether some overflow-scrolling ancestor can
	// bring the node into view even when the document itself cannot.
	ScrollableAncestor bool `json:"scrollableAncestor"`
}

// ControlOption is one <option> of a select control.
type ControlOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// ControlState carries the live DOM properties of a form control that are not
// expressible as attributes (current value, focus, selection).
type ControlState struct {
	Value          string          `json:"value"`
	Focused        bool            `json:"focused"`
	SelectionStart int             `json:"selectionStart"`
	SelectionEnd   int             `json:"selectionEnd"`
	SelectedIndex  int             `json:"selectedIndex"`
	Multiple       bool            `json:"multiple"`
	Options        []ControlOption `json:"options,omitempty"`
}

// RenderNode is the engine's read-only view of one rendered element. It is a
// fresh projection per invocation; the engine never mutates it and never
// keeps a reference past the end of an invocation (the host does, through the
// id binding map).
type RenderNode struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Style    StyleProps        `json:"style"`
	Geom     Geometry          `json:"geom"`
	Children []*RenderNode     `json:"children,omitempty"`

	// Text holds the node's direct text runs, in document order.
	Text []string `json:"text,omitempty"`

	// Control is populated by the projector for form controls and
	// contenteditable hosts; nil for everything else.
	Control *ControlState `json:"control,omitempty"`

	// Ref is the host's opaque reference for the source element (the live
	// projector stamps an index attribute per element). The engine only
	// carries it through to the binding map.
	Ref int `json:"ref,omitempty"`
}

// Attr returns the value of an attribute and whether it is present.
func (n *RenderNode) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// HasAttr reports attribute presence regardless of value, the way boolean
// HTML attributes (disabled, hidden) behave.
func (n *RenderNode) HasAttr(key string) bool {
	_, ok := n.Attrs[key]
	return ok
}

// InnerText flattens the subtree's text runs into a single normalized string.
// Used for label derivation, so it short-circuits once enough characters are
// gathered.
func (n *RenderNode) InnerText(limit int) string {
	var b strings.Builder
	n.collectText(&b, limit)
	return strings.Join(strings.Fields(b.String()), " ")
}

func (n *RenderNode) collectText(b *strings.Builder, limit int) {
	if limit > 0 && b.Len() >= limit {
		return
	}
	for _, t := range n.Text {
		b.WriteString(t)
		b.WriteByte(' ')
		if limit > 0 && b.Len() >= limit {
			return
		}
	}
	for _, c := range n.Children {
		c.collectText(b, limit)
		if limit > 0 && b.Len() >= limit {
			return
		}
	}
}
