// internal/semantics/simplify.go
package semantics

import (
	"strings"

	"go.uber.org/zap"
)

// attrAllowList is the explicit set of source attributes copied onto output
// clones, in serialization order. Everything else (event handlers, framework
// internals, style) is noise to the consumer.
var attrAllowList = []string{
	"class",
	"type",
	"name",
	"placeholder",
	"href",
	"alt",
	"title",
	"role",
	"checked",
	"selected",
	"disabled",
	"readonly",
	"required",
	"for",
	"action",
	"method",
}

// invocation is the per-invocation context: the id registry, the id→element
// binding map handed back to the host, and the traversal budget. Nothing in
// it survives the invocation; that is what keeps re-execution idempotent.
type invocation struct {
	cfg      Config
	reg      *Registry
	bindings map[string]*RenderNode
	log      *zap.Logger
	nodes    int
	capped   bool
}

// frame is one explicit traversal frame. Ancestor-clickable and
// ancestor-hoverable state travel in frames instead of closure captures, and
// the explicit stack bounds the walk on pathological trees.
type frame struct {
	node   *RenderNode
	out    *SimplifiedNode
	parent *frame

	parentClickable bool
	parentHover     bool
	// path is the semantic id of the nearest actionable ancestor.
	path string

	// State handed to children once enter has run.
	childClickable bool
	childHover     bool
	childPath      string

	entered bool
	next    int
}

// simplify runs the full bottom-up construction: visibility gating,
// clickability and naming, control snapshots, recursion via an explicit
// stack, emptiness pruning on post-recursion clones, and local flattening at
// each exit. Returns nil when the root itself contributes nothing.
func (inv *invocation) simplify(root *RenderNode) *SimplifiedNode {
	rootFrame := &frame{node: root}
	stack := make([]*frame, 0, 64)
	stack = append(stack, rootFrame)

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if !f.entered {
			f.entered = true
			if !inv.enter(f) {
				stack = stack[:len(stack)-1]
				continue
			}
		}

		if f.next < len(f.node.Children) {
			child := f.node.Children[f.next]
			f.next++
			stack = append(stack, &frame{
				node:            child,
				parent:          f,
				parentClickable: f.childClickable,
				parentHover:     f.childHover,
				path:            f.childPath,
			})
			continue
		}

		stack = stack[:len(stack)-1]
		inv.exit(f)
	}

	return rootFrame.out
}

// enter allocates the output clone and runs the per-node classifiers.
// Returning false skips the whole subtree.
func (inv *invocation) enter(f *frame) bool {
	n := f.node

	if inv.cfg.MaxNodes > 0 && inv.nodes >= inv.cfg.MaxNodes {
		if !inv.capped {
			inv.capped = true
			inv.log.Warn("Traversal budget exhausted; truncating view.",
				zap.Int("max_nodes", inv.cfg.MaxNodes))
		}
		return false
	}
	inv.nodes++

	if kindOf(n) == kindBlocked || !inv.cfg.Visible(n) {
		return false
	}

	out := &SimplifiedNode{Tag: n.Tag}
	for _, key := range attrAllowList {
		if v, ok := n.Attr(key); ok {
			out.Attrs = append(out.Attrs, Attribute{Key: key, Val: v})
		}
	}
	if v, ok := n.Attr("aria-label"); ok && strings.TrimSpace(v) != "" {
		out.setAttr("aria-label", v)
	}

	click := Classify(n, f.parentClickable)
	hover := f.parentHover || n.HasAttr(HoverMarkAttr)

	if click.Clickable {
		id := inv.cfg.Name(inv.reg, n, f.path)
		out.Annotation = Annotation{
			SemanticID: id,
			Clickable:  true,
			Hoverable:  hover,
			Disabled:   click.Disabled,
		}
		inv.bindings[id] = n
	}

	switch {
	case isTextEntry(n):
		inv.snapshotInput(f, n, out, click, hover)
	case n.Tag == "select":
		inv.snapshotSelect(f, n, out, click, hover)
	}

	f.out = out
	f.childClickable = f.parentClickable || click.Clickable
	f.childHover = hover
	f.childPath = f.path
	if out.Annotation.Live() {
		f.childPath = out.Annotation.SemanticID
	}
	return true
}

// exit appends the node's own text runs as trailing children, collapses
// redundant wrappers, and attaches the finished clone to its parent unless
// the post-recursion result is empty.
func (inv *invocation) exit(f *frame) {
	for _, run := range f.node.Text {
		txt := strings.Join(strings.Fields(run), " ")
		if txt != "" {
			f.out.Children = append(f.out.Children, &SimplifiedNode{Text: txt})
		}
	}

	f.out = inv.collapse(f.out)

	if f.parent == nil {
		return
	}
	if inv.cfg.Empty(f.out) {
		return
	}
	f.parent.out.Children = append(f.parent.out.Children, f.out)
}

// collapse folds a node into its single element child when the node is a
// redundant layer: same tag as the child, or a generic wrapper. Structural
// tags never collapse. Running this at every exit collapses whole wrapper
// chains bottom-up, one layer per level.
func (inv *invocation) collapse(n *SimplifiedNode) *SimplifiedNode {
	if n.IsText() || len(n.Children) != 1 {
		return n
	}
	child := n.Children[0]
	if child.IsText() || isStructuralTag(n.Tag) {
		return n
	}
	// Two live ids cannot share one node: a clickable wrapper around a
	// force-clickable control keeps both layers.
	if n.Annotation.Live() && child.Annotation.Live() {
		return n
	}
	if n.Tag != child.Tag && !isWrapperTag(n.Tag) {
		return n
	}
	return mergeNodes(n, child)
}

// mergeNodes keeps the child's tag and content and folds the parent's
// attributes and annotation underneath: the child's values win, class tokens
// union, and the parent's annotation only applies if the child has none.
func mergeNodes(parent, child *SimplifiedNode) *SimplifiedNode {
	merged := make([]Attribute, 0, len(parent.Attrs)+len(child.Attrs))
	merged = append(merged, parent.Attrs...)
	out := &SimplifiedNode{
		Tag:        child.Tag,
		Attrs:      merged,
		Children:   child.Children,
		Annotation: child.Annotation,
		Input:      child.Input,
		Select:     child.Select,
	}
	for _, a := range child.Attrs {
		if a.Key == "class" {
			if existing := out.Attr("class"); existing != "" {
				out.setAttr("class", unionClassTokens(existing, a.Val))
				continue
			}
		}
		out.setAttr(a.Key, a.Val)
	}
	if !out.Annotation.Live() && parent.Annotation.Live() {
		out.Annotation = parent.Annotation
	}
	out.Annotation.Hoverable = out.Annotation.Hoverable || parent.Annotation.Hoverable
	return out
}

func unionClassTokens(a, b string) string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range append(strings.Fields(a), strings.Fields(b)...) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}

// snapshotInput assigns an id to a text-entry control (reusing the clickable
// id when one was just assigned) and records its typed snapshot.
func (inv *invocation) snapshotInput(f *frame, n *RenderNode, out *SimplifiedNode, click Clickability, hover bool) {
	id := out.Annotation.SemanticID
	if id == "" {
		id = inv.cfg.Name(inv.reg, n, f.path)
		out.Annotation = Annotation{
			SemanticID: id,
			Hoverable:  hover,
			Disabled:   click.Disabled,
		}
		inv.bindings[id] = n
	}

	state := n.Control
	if state == nil {
		val, _ := n.Attr("value")
		state = &ControlState{Value: val, Focused: n.HasAttr(FocusMarkAttr)}
	}

	editable := !click.Disabled && !n.HasAttr("readonly")
	out.Input = &InputState{
		ID:             id,
		Value:          state.Value,
		Disabled:       click.Disabled,
		Editable:       editable,
		Focused:        state.Focused,
		SelectionStart: state.SelectionStart,
		SelectionEnd:   state.SelectionEnd,
	}
}

// snapshotSelect assigns an id to a select and enumerates its options, each
// with an id derived from the select's own.
func (inv *invocation) snapshotSelect(f *frame, n *RenderNode, out *SimplifiedNode, click Clickability, hover bool) {
	id := out.Annotation.SemanticID
	if id == "" {
		id = inv.cfg.Name(inv.reg, n, f.path)
		out.Annotation = Annotation{
			SemanticID: id,
			Hoverable:  hover,
			Disabled:   click.Disabled,
		}
		inv.bindings[id] = n
	}

	state := n.Control
	if state == nil {
		state = synthesizeSelectState(n)
	}

	sel := &SelectState{
		ID:            id,
		Disabled:      click.Disabled,
		Focused:       state.Focused,
		SelectedIndex: state.SelectedIndex,
		Multiple:      state.Multiple,
	}
	for _, opt := range state.Options {
		optID := inv.reg.Claim(id + "." + Slug(opt.Label, inv.cfg.LabelMaxLen))
		sel.Options = append(sel.Options, OptionState{
			ID:       optID,
			Label:    opt.Label,
			Value:    opt.Value,
			Selected: opt.Selected,
		})
		if opt.Selected {
			sel.Value = opt.Value
		}
	}
	if sel.Value == "" && sel.SelectedIndex >= 0 && sel.SelectedIndex < len(sel.Options) {
		sel.Value = sel.Options[sel.SelectedIndex].Value
	}
	out.Select = sel
}

// synthesizeSelectState derives a select's state from its markup when the
// projector supplied no live control state (static projections).
func synthesizeSelectState(n *RenderNode) *ControlState {
	state := &ControlState{SelectedIndex: -1, Multiple: n.HasAttr("multiple")}
	for _, c := range n.Children {
		if c.Tag != "option" {
			continue
		}
		label := c.InnerText(0)
		value, ok := c.Attr("value")
		if !ok {
			value = label
		}
		selected := c.HasAttr("selected")
		if selected && state.SelectedIndex < 0 {
			state.SelectedIndex = len(state.Options)
		}
		state.Options = append(state.Options, ControlOption{
			Label:    label,
			Value:    value,
			Selected: selected,
		})
	}
	// A single-select with no explicit selection defaults to its first option.
	if state.SelectedIndex < 0 && !state.Multiple && len(state.Options) > 0 {
		state.SelectedIndex = 0
		state.Options[0].Selected = true
	}
	if n.HasAttr(FocusMarkAttr) {
		state.Focused = true
	}
	return state
}
