// internal/semantics/clickable_test.go
package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veilcroft/pagelens/internal/semantics"
)

func TestNativeTagsAreClickable(t *testing.T) {
	for _, tag := range []string{"button", "select", "summary", "area", "input"} {
		n := &semantics.RenderNode{Tag: tag}
		c := semantics.Classify(n, false)
		assert.True(t, c.Clickable, "tag %s", tag)
	}
}

func TestAnchorNeedsNavigationTarget(t *testing.T) {
	bare := &semantics.RenderNode{Tag: "a", Attrs: map[string]string{}}
	assert.False(t, semantics.Classify(bare, false).Clickable)

	fragment := &semantics.RenderNode{Tag: "a", Attrs: map[string]string{"href": "#"}}
	assert.False(t, semantics.Classify(fragment, false).Clickable)

	link := &semantics.RenderNode{Tag: "a", Attrs: map[string]string{"href": "/cart"}}
	c := semantics.Classify(link, false)
	assert.True(t, c.Clickable)
	assert.True(t, c.Force)
}

func TestAffordanceMarkers(t *testing.T) {
	handler := &semantics.RenderNode{Tag: "div", Attrs: map[string]string{"onclick": "go()"}}
	assert.True(t, semantics.Classify(handler, false).Clickable)

	dismiss := &semantics.RenderNode{Tag: "span", Attrs: map[string]string{"data-dismiss": "modal"}}
	assert.True(t, semantics.Classify(dismiss, false).Clickable)

	role := &semantics.RenderNode{Tag: "div", Attrs: map[string]string{"role": "button"}}
	assert.True(t, semantics.Classify(role, false).Clickable)

	plain := &semantics.RenderNode{Tag: "div", Attrs: map[string]string{"role": "presentation"}}
	assert.False(t, semantics.Classify(plain, false).Clickable)
}

func TestPointerCursorOnSelfOrChild(t *testing.T) {
	self := &semantics.RenderNode{Tag: "div", Style: semantics.StyleProps{Cursor: "pointer"}}
	assert.True(t, semantics.Classify(self, false).Clickable)

	viaChild := &semantics.RenderNode{
		Tag: "div",
		Children: []*semantics.RenderNode{
			{Tag: "span", Style: semantics.StyleProps{Cursor: "pointer"}},
		},
	}
	assert.True(t, semantics.Classify(viaChild, false).Clickable)
}

// A nested affordance folds into the ancestor's single action ...
func TestAncestorSuppressesNestedAffordance(t *testing.T) {
	icon := &semantics.RenderNode{Tag: "span", Style: semantics.StyleProps{Cursor: "pointer"}}
	c := semantics.Classify(icon, true)
	assert.False(t, c.Clickable)
}

// ... unless the node is force-clickable: a native button or a navigating
// anchor keeps its own action inside an already-clickable card.
func TestForceClickableBreaksSuppression(t *testing.T) {
	remove := &semantics.RenderNode{Tag: "button", Text: []string{"Remove"}}
	c := semantics.Classify(remove, true)
	assert.True(t, c.Clickable)
	assert.True(t, c.Force)

	link := &semantics.RenderNode{Tag: "a", Attrs: map[string]string{"href": "/details"}}
	assert.True(t, semantics.Classify(link, true).Clickable)
}

func TestDisabledSuppressesClickability(t *testing.T) {
	btn := &semantics.RenderNode{Tag: "button", Attrs: map[string]string{"disabled": ""}}
	c := semantics.Classify(btn, false)
	assert.False(t, c.Clickable)
	assert.True(t, c.Disabled)

	aria := &semantics.RenderNode{Tag: "button", Attrs: map[string]string{"aria-disabled": "true"}}
	assert.False(t, semantics.Classify(aria, false).Clickable)

	// A disabled button is not force-clickable either.
	assert.False(t, semantics.Classify(btn, true).Clickable)
}
