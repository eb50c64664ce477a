package document

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicElement(t *testing.T) {
	scene, err := Parse(`<Node></Node>`)
	require.NoError(t, err)
	root := scene.Root()
	assert.Equal(t, "Node", root.Tag)
	assert.Empty(t, root.Attrs)
	assert.Empty(t, root.Children)
}

func TestParsePreservesCase(t *testing.T) {
	scene, err := Parse(`<BackgroundColor x="#ff0000"></BackgroundColor>`)
	require.NoError(t, err)
	assert.Equal(t, "BackgroundColor", scene.Root().Tag)
	assert.Equal(t, "x", scene.Root().Attrs[0].Name)
}

func TestParseValuelessAttribute(t *testing.T) {
	scene, err := Parse(`<Node Transform Style="width: Auto"></Node>`)
	require.NoError(t, err)
	root := scene.Root()
	require.Len(t, root.Attrs, 2)

	assert.Equal(t, "Transform", root.Attrs[0].Name)
	assert.Nil(t, root.Attrs[0].Value)

	assert.Equal(t, "Style", root.Attrs[1].Name)
	require.NotNil(t, root.Attrs[1].Value)
	assert.Equal(t, "width: Auto", *root.Attrs[1].Value)
}

func TestParseIDAttribute(t *testing.T) {
	scene, err := Parse(`<Node id="panel" Style></Node>`)
	require.NoError(t, err)
	root := scene.Root()
	assert.Equal(t, "panel", root.ID)
	// id is reserved, not a facet attribute.
	assert.Equal(t, []Attr{{Name: "Style"}}, root.Attrs)
}

func TestParseEntityDecoding(t *testing.T) {
	scene, err := Parse(`<Node Fn="&quot;increment&quot;">Tom &amp; Jerry</Node>`)
	require.NoError(t, err)
	root := scene.Root()

	v, ok := root.Attr("Fn")
	require.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, `"increment"`, *v)
	assert.Equal(t, "Tom & Jerry", root.Text)
}

func TestParseSelfClosing(t *testing.T) {
	scene, err := Parse(`<Node><Button/><Text></Text></Node>`)
	require.NoError(t, err)
	require.Len(t, scene.Root().Children, 2)
	assert.Equal(t, "Button", scene.Root().Children[0].Tag)
	assert.Equal(t, "Text", scene.Root().Children[1].Tag)
}

func TestParseNestedChildrenAndText(t *testing.T) {
	src := `
<Node>
  <Node id="count">Count: 0</Node>
  <Button Fn="&quot;increment&quot;">+</Button>
</Node>`
	scene, err := Parse(src)
	require.NoError(t, err)
	root := scene.Root()
	require.Len(t, root.Children, 2)
	assert.Equal(t, "count", root.Children[0].ID)
	assert.Equal(t, "Count: 0", root.Children[0].Text)
	assert.Equal(t, "+", root.Children[1].Text)
}

func TestParseCommentsAndDeclarations(t *testing.T) {
	src := `<!DOCTYPE scene>
<!-- header -->
<Node><!-- inner --><Button/></Node>`
	scene, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, scene.Root().Children, 1)
}

func TestParseSingleQuotedValues(t *testing.T) {
	scene, err := Parse(`<Node Target='Name("count")'></Node>`)
	require.NoError(t, err)
	v, ok := scene.Root().Attr("Target")
	require.True(t, ok)
	assert.Equal(t, `Name("count")`, *v)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"empty input", ""},
		{"mismatched close tag", `<Node></Button>`},
		{"missing close tag", `<Node>`},
		{"content after root", `<Node></Node><Node></Node>`},
		{"unterminated attribute", `<Node Style="width`},
		{"unquoted attribute value", `<Node Style=width></Node>`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			require.Error(t, err)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestMustParsePanicsOnBadInput(t *testing.T) {
	assert.Panics(t, func() { MustParse(`<Node>`) })
}

func TestLoadFromReader(t *testing.T) {
	scene, err := Load(strings.NewReader(`<Node></Node>`))
	require.NoError(t, err)
	assert.Equal(t, "Node", scene.Root().Tag)
}

func TestCache(t *testing.T) {
	c := NewCache("")
	c.Add("menu.html", MustParse(`<Node></Node>`))

	s, ok := c.Get("menu.html")
	require.True(t, ok)
	assert.Equal(t, "Node", s.Root().Tag)

	ctx := context.Background()
	_, err := c.Load(ctx, "missing.txt")
	assert.Error(t, err, "unrecognized extension must be rejected")

	_, err = c.Load(ctx, "missing.html")
	assert.Error(t, err)
}
