// internal/semantics/visibility_test.go
package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veilcroft/pagelens/internal/semantics"
)

// visibleNode builds a node that passes every visibility check, so each test
// flips exactly one signal.
func visibleNode() *semantics.RenderNode {
	return &semantics.RenderNode{
		Tag: "div",
		Style: semantics.StyleProps{
			Display:    "block",
			Visibility: "visible",
			Opacity:    1,
		},
		Geom: semantics.Geometry{
			X: 10, Y: 10, Width: 100, Height: 40,
			IntrinsicWidth: 100, IntrinsicHeight: 40,
			ViewportWidth: 1280, ViewportHeight: 900,
			DocScrollHeight: 900,
		},
	}
}

func TestVisibleBaseline(t *testing.T) {
	cfg := semantics.DefaultConfig()
	assert.True(t, cfg.Visible(visibleNode()))
}

func TestHiddenByStyle(t *testing.T) {
	cfg := semantics.DefaultConfig()

	n := visibleNode()
	n.Style.Display = "none"
	assert.False(t, cfg.Visible(n))

	n = visibleNode()
	n.Style.Visibility = "hidden"
	assert.False(t, cfg.Visible(n))

	n = visibleNode()
	n.Style.Opacity = 0.01
	assert.False(t, cfg.Visible(n))
}

func TestHiddenByZeroIntrinsicSize(t *testing.T) {
	cfg := semantics.DefaultConfig()
	n := visibleNode()
	n.Geom.IntrinsicWidth = 0
	n.Geom.IntrinsicHeight = 0
	assert.False(t, cfg.Visible(n))

	// One non-zero dimension is enough to stay visible.
	n.Geom.IntrinsicHeight = 12
	assert.True(t, cfg.Visible(n))
}

func TestHiddenOffScreenLeft(t *testing.T) {
	cfg := semantics.DefaultConfig()
	n := visibleNode()
	n.Geom.X = -9999
	n.Geom.Width = 50
	assert.False(t, cfg.Visible(n))
}

func TestBelowFoldReachability(t *testing.T) {
	cfg := semantics.DefaultConfig()

	// Below the viewport but within the document's scroll range: visible.
	n := visibleNode()
	n.Geom.Y = 2000
	n.Geom.DocScrollHeight = 5000
	assert.True(t, cfg.Visible(n))

	// Below the viewport and beyond any scroll range: excluded.
	n = visibleNode()
	n.Geom.Y = 2000
	n.Geom.DocScrollHeight = 900
	assert.False(t, cfg.Visible(n))

	// Unreachable by the document but inside a scrollable ancestor: visible.
	n.Geom.ScrollableAncestor = true
	assert.True(t, cfg.Visible(n))
}

// Feedback containers stay visible no matter how hidden they are right now:
// a success toast is display:none until the moment the action lands, and
// dropping it would make the agent repeat the action.
func TestDynamicContainerOverridesEverything(t *testing.T) {
	cfg := semantics.DefaultConfig()

	toast := visibleNode()
	toast.Classes = []string{"toast-container"}
	toast.Style.Display = "none"
	toast.Geom.IntrinsicWidth = 0
	toast.Geom.IntrinsicHeight = 0
	assert.True(t, cfg.Visible(toast))

	// An unrelated node with the identical style is excluded.
	plain := visibleNode()
	plain.Classes = []string{"sidebar"}
	plain.Style.Display = "none"
	assert.False(t, cfg.Visible(plain))
}

func TestUnreadableNodeIsInvisible(t *testing.T) {
	cfg := semantics.DefaultConfig()
	n := visibleNode()
	n.Style = semantics.StyleProps{Unreadable: true}
	assert.False(t, cfg.Visible(n))
}

func TestOpacityEpsilonIsConfigurable(t *testing.T) {
	cfg := semantics.Config{OpacityEpsilon: 0.5}
	n := visibleNode()
	n.Style.Opacity = 0.4
	assert.False(t, cfg.Visible(n))
	n.Style.Opacity = 0.6
	assert.True(t, cfg.Visible(n))
}
