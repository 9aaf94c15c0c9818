// internal/semantics/metadata_test.go
package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcroft/pagelens/internal/semantics"
)

func TestExtractMetadataNilRoot(t *testing.T) {
	md := semantics.ExtractMetadata(nil)
	assert.Empty(t, md.ClickableIDs)
	assert.Empty(t, md.HoverableIDs)
	assert.Empty(t, md.Inputs)
	assert.Empty(t, md.Selects)
}

func TestExtractMetadataDocumentOrder(t *testing.T) {
	tree := &semantics.SimplifiedNode{
		Tag: "body",
		Children: []*semantics.SimplifiedNode{
			{
				Tag:        "div",
				Annotation: semantics.Annotation{SemanticID: "outer", Clickable: true},
				Children: []*semantics.SimplifiedNode{
					{
						Tag:        "button",
						Annotation: semantics.Annotation{SemanticID: "outer.first", Clickable: true},
					},
					{
						Tag:        "button",
						Annotation: semantics.Annotation{SemanticID: "outer.second", Clickable: true},
					},
				},
			},
			{
				Tag:        "a",
				Annotation: semantics.Annotation{SemanticID: "trailing", Clickable: true},
			},
		},
	}

	md := semantics.ExtractMetadata(tree)
	assert.Equal(t, []string{"outer", "outer.first", "outer.second", "trailing"}, md.ClickableIDs)
}

func TestExtractMetadataDisabledExcludedFromClickables(t *testing.T) {
	tree := &semantics.SimplifiedNode{
		Tag: "body",
		Children: []*semantics.SimplifiedNode{
			{
				Tag: "button",
				Annotation: semantics.Annotation{
					SemanticID: "checkout",
					Clickable:  true,
					Hoverable:  true,
					Disabled:   true,
				},
			},
		},
	}

	md := semantics.ExtractMetadata(tree)
	assert.Empty(t, md.ClickableIDs)
	// Hovering a disabled control still reveals tooltips, so it stays listed.
	assert.Equal(t, []string{"checkout"}, md.HoverableIDs)
}

func TestExtractMetadataCollectsControlSnapshots(t *testing.T) {
	tree := &semantics.SimplifiedNode{
		Tag: "body",
		Children: []*semantics.SimplifiedNode{
			{
				Tag:   "input",
				Input: &semantics.InputState{ID: "search", Value: "mug", Editable: true},
			},
			{
				Tag: "select",
				Select: &semantics.SelectState{
					ID:    "color",
					Value: "red",
					Options: []semantics.OptionState{
						{ID: "color.red", Label: "Red", Value: "red", Selected: true},
					},
				},
			},
		},
	}

	md := semantics.ExtractMetadata(tree)
	require.Len(t, md.Inputs, 1)
	assert.Equal(t, "search", md.Inputs[0].ID)
	require.Len(t, md.Selects, 1)
	assert.Equal(t, "color", md.Selects[0].ID)
}
