// internal/semantics/kind_test.go
package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindDispatch(t *testing.T) {
	cases := map[string]nodeKind{
		"script":  kindBlocked,
		"iframe":  kindBlocked,
		"button":  kindNativeActionable,
		"select":  kindNativeActionable,
		"input":   kindNativeActionable,
		"img":     kindFormControl,
		"title":   kindFormControl,
		"body":    kindStructural,
		"table":   kindStructural,
		"div":     kindWrapper,
		"span":    kindWrapper,
		"p":       kindGeneric,
		"article": kindGeneric,
	}
	for tag, want := range cases {
		assert.Equalf(t, want, kindOf(&RenderNode{Tag: tag}), "tag %s", tag)
	}
}

func TestIsTextEntry(t *testing.T) {
	assert.True(t, isTextEntry(&RenderNode{Tag: "textarea"}))
	assert.True(t, isTextEntry(&RenderNode{Tag: "input"}))
	assert.True(t, isTextEntry(&RenderNode{Tag: "input", Attrs: map[string]string{"type": "Search"}}))
	assert.False(t, isTextEntry(&RenderNode{Tag: "input", Attrs: map[string]string{"type": "checkbox"}}))
	assert.False(t, isTextEntry(&RenderNode{Tag: "input", Attrs: map[string]string{"type": "submit"}}))

	editable := &RenderNode{Tag: "div", Attrs: map[string]string{"contenteditable": ""}}
	assert.True(t, isTextEntry(editable))
	off := &RenderNode{Tag: "div", Attrs: map[string]string{"contenteditable": "false"}}
	assert.False(t, isTextEntry(off))
}

func TestMatchesDynamicContainerSubstrings(t *testing.T) {
	vocab := DefaultDynamicContainerVocabulary
	assert.True(t, matchesDynamicContainer([]string{"toast-container"}, vocab))
	assert.True(t, matchesDynamicContainer([]string{"Modal__backdrop"}, vocab))
	assert.True(t, matchesDynamicContainer([]string{"grid", "alert-success"}, vocab))
	assert.False(t, matchesDynamicContainer([]string{"sidebar", "grid"}, vocab))
	assert.False(t, matchesDynamicContainer(nil, vocab))
}
