// internal/semantics/htmlproj/project_test.go
package htmlproj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcroft/pagelens/internal/semantics/htmlproj"
)

func TestProjectBuildsTreeFromFragment(t *testing.T) {
	root, err := htmlproj.Project(`<html><body><p class="copy">Hello</p></body></html>`, htmlproj.Options{})
	require.NoError(t, err)

	require.Equal(t, "html", root.Tag)
	require.Len(t, root.Children, 2)
	body := root.Children[1]
	require.Equal(t, "body", body.Tag)
	require.Len(t, body.Children, 1)

	p := body.Children[0]
	assert.Equal(t, "p", p.Tag)
	assert.Equal(t, []string{"copy"}, p.Classes)
	assert.Equal(t, []string{"Hello"}, p.Text)
}

func TestProjectNormalizesBareMarkup(t *testing.T) {
	// The parser wraps fragments in html/head/body like a browser would.
	root, err := htmlproj.Project(`<p>loose</p>`, htmlproj.Options{})
	require.NoError(t, err)
	assert.Equal(t, "html", root.Tag)
}

func TestProjectInlineStyleSubset(t *testing.T) {
	root, err := htmlproj.Project(
		`<html><body><div style="display: none; opacity: 0.5; cursor: pointer">x</div></body></html>`,
		htmlproj.Options{})
	require.NoError(t, err)

	div := root.Children[1].Children[0]
	assert.Equal(t, "none", div.Style.Display)
	assert.Equal(t, 0.5, div.Style.Opacity)
	assert.Equal(t, "pointer", div.Style.Cursor)
}

func TestProjectHiddenAttributeActsAsDisplayNone(t *testing.T) {
	root, err := htmlproj.Project(`<html><body><div hidden>x</div></body></html>`, htmlproj.Options{})
	require.NoError(t, err)

	div := root.Children[1].Children[0]
	assert.Equal(t, "none", div.Style.Display)
}

func TestProjectInlineDimensionsOverrideIntrinsics(t *testing.T) {
	root, err := htmlproj.Project(
		`<html><body><span style="width: 0px; height: 0px"></span></body></html>`,
		htmlproj.Options{})
	require.NoError(t, err)

	span := root.Children[1].Children[0]
	assert.Zero(t, span.Geom.IntrinsicWidth)
	assert.Zero(t, span.Geom.IntrinsicHeight)
}

func TestProjectViewportDefaults(t *testing.T) {
	root, err := htmlproj.Project(`<html><body></body></html>`, htmlproj.Options{
		ViewportWidth:  640,
		ViewportHeight: 480,
	})
	require.NoError(t, err)

	assert.Equal(t, 640.0, root.Geom.ViewportWidth)
	assert.Equal(t, 480.0, root.Geom.ViewportHeight)
}

func TestProjectOpacityDefaultsToOpaque(t *testing.T) {
	root, err := htmlproj.Project(`<html><body><div>x</div></body></html>`, htmlproj.Options{})
	require.NoError(t, err)

	div := root.Children[1].Children[0]
	assert.Equal(t, 1.0, div.Style.Opacity)
}
