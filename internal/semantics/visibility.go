// internal/semantics/visibility.go
package semantics

// Config holds the site-tuned knobs of the engine. The thresholds are
// pragmatic approximations, not constants; hosts override them per target.
type Config struct {
	// OpacityEpsilon is the opacity below which a node counts as hidden.
	OpacityEpsilon float64
	// LabelMaxLen bounds the slug length of derived semantic ids.
	LabelMaxLen int
	// DynamicContainerVocabulary is the class-token substring vocabulary of
	// transient feedback containers (see DefaultDynamicContainerVocabulary).
	DynamicContainerVocabulary []string
	// MaxNodes caps the traversal as a defense against pathological trees.
	// Zero means unlimited.
	MaxNodes int
}

// DefaultConfig returns the engine defaults used when the host supplies none.
func DefaultConfig() Config {
	return Config{
		OpacityEpsilon:             0.1,
		LabelMaxLen:                32,
		DynamicContainerVocabulary: DefaultDynamicContainerVocabulary,
		MaxNodes:                   50000,
	}
}

func (c Config) normalized() Config {
	if c.OpacityEpsilon <= 0 {
		c.OpacityEpsilon = 0.1
	}
	if c.LabelMaxLen <= 0 {
		c.LabelMaxLen = 32
	}
	if len(c.DynamicContainerVocabulary) == 0 {
		c.DynamicContainerVocabulary = DefaultDynamicContainerVocabulary
	}
	return c
}

// Visible decides whether a render node participates in the simplified view.
//
// Dynamic containers short-circuit every other check, including display:none,
// zero size and off-screen position: feedback UI is routinely hidden at first
// paint and revealed by script after the action that should trigger it.
func (c Config) Visible(n *RenderNode) bool {
	if matchesDynamicContainer(n.Classes, c.DynamicContainerVocabulary) {
		return true
	}
	if n.Style.Unreadable {
		// Probe failed; per the error model the node is excluded, not fatal.
		return false
	}
	if n.Style.Display == "none" || n.Style.Visibility == "hidden" {
		return false
	}
	if n.Style.Opacity < c.OpacityEpsilon {
		return false
	}
	if n.Geom.IntrinsicWidth == 0 && n.Geom.IntrinsicHeight == 0 {
		return false
	}
	// Off-screen to the left, accounting for horizontal scroll.
	if n.Geom.X+n.Geom.Width+n.Geom.ScrollX < 0 {
		return false
	}
	// Below the viewport and unreachable by scrolling.
	if n.Geom.Y > n.Geom.ViewportHeight && !c.reachableBelowFold(n) {
		return false
	}
	return true
}

// reachableBelowFold reports whether scrolling can ever bring a below-the-fold
// node into view: either the document's own scroll range covers the node's
// absolute top, or some scrollable ancestor does.
func (c Config) reachableBelowFold(n *RenderNode) bool {
	if n.Geom.ScrollableAncestor {
		return true
	}
	absoluteTop := n.Geom.Y + n.Geom.ScrollY
	return absoluteTop < n.Geom.DocScrollHeight
}
