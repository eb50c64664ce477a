package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/htmlscene/internal/facet"
)

func TestCreateNodeAndFacets(t *testing.T) {
	w := New()
	id := w.CreateNode()
	require.True(t, w.Exists(id))

	require.NoError(t, w.AttachFacet(id, facet.NewOpaque(1, "a")))
	require.NoError(t, w.AttachFacet(id, facet.NewOpaque(2, "b")))

	v, ok := w.Facet(id, 1)
	require.True(t, ok)
	assert.Equal(t, "a", v.Opaque())

	assert.Equal(t, []facet.TypeID{1, 2}, w.FacetTypes(id))
}

func TestAttachFacetLastWriteWinsKeepsPosition(t *testing.T) {
	w := New()
	id := w.CreateNode()
	require.NoError(t, w.AttachFacet(id, facet.NewOpaque(1, "a")))
	require.NoError(t, w.AttachFacet(id, facet.NewOpaque(2, "b")))
	require.NoError(t, w.AttachFacet(id, facet.NewOpaque(1, "updated")))

	assert.Equal(t, []facet.TypeID{1, 2}, w.FacetTypes(id))
	v, _ := w.Facet(id, 1)
	assert.Equal(t, "updated", v.Opaque())
}

func TestAttachFacetErrors(t *testing.T) {
	w := New()
	assert.Error(t, w.AttachFacet(NodeID(42), facet.NewOpaque(1, nil)))

	id := w.CreateNode()
	assert.Error(t, w.AttachFacet(id, facet.NewOpaque(facet.Invalid, nil)))
}

func TestChildOrdering(t *testing.T) {
	w := New()
	parent := w.CreateNode()
	a := w.CreateNode()
	b := w.CreateNode()
	c := w.CreateNode()

	require.NoError(t, w.AppendChild(parent, a))
	require.NoError(t, w.AppendChild(parent, b))
	require.NoError(t, w.PrependChild(parent, c))

	assert.Equal(t, []NodeID{c, a, b}, w.Children(parent))

	got, ok := w.Parent(a)
	require.True(t, ok)
	assert.Equal(t, parent, got)
	assert.Equal(t, parent, w.Root(b))
}

func TestInsertChildRejectsReparenting(t *testing.T) {
	w := New()
	p1 := w.CreateNode()
	p2 := w.CreateNode()
	child := w.CreateNode()

	require.NoError(t, w.AppendChild(p1, child))
	assert.Error(t, w.AppendChild(p2, child))
}

func TestRemoveSubtree(t *testing.T) {
	w := New()
	root := w.CreateNode()
	mid := w.CreateNode()
	leaf := w.CreateNode()
	require.NoError(t, w.AppendChild(root, mid))
	require.NoError(t, w.AppendChild(mid, leaf))

	w.RemoveSubtree(mid)

	assert.True(t, w.Exists(root))
	assert.False(t, w.Exists(mid))
	assert.False(t, w.Exists(leaf))
	assert.Empty(t, w.Children(root))
}

func TestRemoveChildrenKeepsNode(t *testing.T) {
	w := New()
	root := w.CreateNode()
	a := w.CreateNode()
	b := w.CreateNode()
	require.NoError(t, w.AppendChild(root, a))
	require.NoError(t, w.AppendChild(root, b))

	w.RemoveChildren(root)

	assert.True(t, w.Exists(root))
	assert.False(t, w.Exists(a))
	assert.False(t, w.Exists(b))
	assert.Empty(t, w.Children(root))
}

func TestNamesLastRegistrationWins(t *testing.T) {
	w := New()
	a := w.CreateNode()
	b := w.CreateNode()

	w.SetName("panel", a)
	w.SetName("panel", b)

	got, ok := w.ResolveName("panel")
	require.True(t, ok)
	assert.Equal(t, b, got)

	w.DeleteName("panel")
	_, ok = w.ResolveName("panel")
	assert.False(t, ok)
}

func TestNameEntriesGoStaleOnRemoval(t *testing.T) {
	w := New()
	id := w.CreateNode()
	w.SetName("gone", id)
	w.RemoveSubtree(id)

	// The entry survives; callers must check existence.
	stale, ok := w.ResolveName("gone")
	require.True(t, ok)
	assert.False(t, w.Exists(stale))
}

func TestNodeIDsAscending(t *testing.T) {
	w := New()
	var want []NodeID
	for i := 0; i < 5; i++ {
		want = append(want, w.CreateNode())
	}
	assert.Equal(t, want, w.NodeIDs())
}

func TestResetDoesNotReuseIDs(t *testing.T) {
	w := New()
	before := w.CreateNode()
	w.Reset()

	assert.False(t, w.Exists(before))
	after := w.CreateNode()
	assert.Greater(t, after, before)
}
