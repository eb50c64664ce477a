package uibase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/htmlscene/internal/assets"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/engine"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/modules/uibase"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(engine.Options{})
	e.Use(uibase.Module{})
	return e
}

func typeID(t *testing.T, e *engine.Engine, name string) facet.TypeID {
	t.Helper()
	d, err := e.Types().Lookup(name)
	require.NoError(t, err)
	return d.ID()
}

func TestStyleAttributeConstruction(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	scene := document.MustParse(
		`<Entity Style="width: Px(10), margin: Axes(Px(4), Px(8)), flex_direction: Column"></Entity>`)
	root, err := e.Spawn(ctx, scene)
	require.NoError(t, err)

	v, ok := e.World().Facet(root, typeID(t, e, "Style"))
	require.True(t, ok)

	width, _ := v.Field("width")
	assert.Equal(t, "Px", width.Variant())
	assert.Equal(t, float32(10), width.Payload().Opaque())

	margin, _ := v.Field("margin")
	assert.Equal(t, "Axes", margin.Variant())
	require.Equal(t, 2, margin.Payload().Len())
	assert.Equal(t, float32(8), margin.Payload().Elem(1).Payload().Opaque())

	dir, _ := v.Field("flex_direction")
	assert.Equal(t, "Column", dir.Variant())

	// Unmentioned fields keep their defaults.
	height, _ := v.Field("height")
	assert.Equal(t, "Auto", height.Variant())
	justify, _ := v.Field("justify_content")
	assert.Equal(t, "Default", justify.Variant())
}

func TestUiRectSidesVariant(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	scene := document.MustParse(
		`<Entity Style="padding: Sides(left: Px(1), top: Px(2))"></Entity>`)
	root, err := e.Spawn(ctx, scene)
	require.NoError(t, err)

	v, _ := e.World().Facet(root, typeID(t, e, "Style"))
	padding, _ := v.Field("padding")
	assert.Equal(t, "Sides", padding.Variant())
	left, ok := padding.Payload().Field("left")
	require.True(t, ok)
	assert.Equal(t, "Px", left.Variant())
}

func TestBackgroundColorFromHex(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	root, err := e.Spawn(ctx, document.MustParse(`<Entity BackgroundColor="&quot;#336699&quot;"></Entity>`))
	require.NoError(t, err)

	v, ok := e.World().Facet(root, typeID(t, e, "BackgroundColor"))
	require.True(t, ok)
	require.Equal(t, 1, v.Len())
}

func TestNodeTemplate(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	root, err := e.Spawn(ctx, document.MustParse(`<Node></Node>`))
	require.NoError(t, err)

	_, ok := e.World().Facet(root, typeID(t, e, "Style"))
	assert.True(t, ok)
	_, ok = e.World().Facet(root, typeID(t, e, "BackgroundColor"))
	assert.True(t, ok)
	// The template facet itself is not attached.
	_, ok = e.World().Facet(root, typeID(t, e, "Node"))
	assert.False(t, ok)
}

func TestButtonTemplateNestsNode(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	root, err := e.Spawn(ctx, document.MustParse(`<Button></Button>`))
	require.NoError(t, err)

	for _, name := range []string{"Style", "BackgroundColor", "Interaction"} {
		_, ok := e.World().Facet(root, typeID(t, e, name))
		assert.True(t, ok, "expected %s facet from template expansion", name)
	}
}

func TestImgTemplateCarriesHandle(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	root, err := e.Spawn(ctx, document.MustParse(`<Img x='src: "logo.png"'></Img>`))
	require.NoError(t, err)

	v, ok := e.World().Facet(root, typeID(t, e, "Handle:Image"))
	require.True(t, ok)
	h, ok := v.Opaque().(assets.Handle)
	require.True(t, ok)
	assert.Equal(t, "logo.png", h.Path)
	assert.Equal(t, "Image", h.Kind)
}

func TestHandleResolutionFailureSurfacesAtSpawn(t *testing.T) {
	e := engine.New(engine.Options{Assets: assets.Dir{Root: t.TempDir()}})
	e.Use(uibase.Module{})

	_, err := e.Spawn(context.Background(), document.MustParse(`<Img x='src: "missing.png"'></Img>`))
	assert.Error(t, err)
}
