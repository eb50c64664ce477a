package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/htmlscene/internal/facet"
)

func TestRegisterAssignsDenseIDs(t *testing.T) {
	r := New()
	a := r.Register(&Descriptor{Name: "A", Shape: ShapeValue})
	b := r.Register(&Descriptor{Name: "B", Shape: ShapeValue})

	assert.Equal(t, facet.TypeID(1), a.ID())
	assert.Equal(t, facet.TypeID(2), b.ID())

	got, ok := r.ByID(b.ID())
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register(&Descriptor{Name: "A", Shape: ShapeValue})
	assert.Panics(t, func() {
		r.Register(&Descriptor{Name: "A", Shape: ShapeValue})
	})
}

func TestLookupUnknownType(t *testing.T) {
	r := New()
	_, err := r.Lookup("Missing")
	require.Error(t, err)
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Missing", unknown.Name)
}

func TestLookupGenericSuffix(t *testing.T) {
	r := New()
	r.Register(&Descriptor{Name: "Image", Shape: ShapeValue})
	h := r.Register(&Descriptor{Name: "Handle<Image>", Shape: ShapeValue})

	got, err := r.Lookup("Handle:Image")
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestLookupGenericSuffixUnknownParam(t *testing.T) {
	r := New()
	r.Register(&Descriptor{Name: "Handle<Image>", Shape: ShapeValue})

	_, err := r.Lookup("Handle:Image")
	require.Error(t, err)
	var invalid *InvalidParamTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Image", invalid.Param)
}

func TestCapabilityForUnknownTypePanics(t *testing.T) {
	r := New()
	assert.Panics(t, func() {
		r.RegisterDefault("Missing", func() *facet.Value { return nil })
	})
}

func TestTypeName(t *testing.T) {
	r := New()
	a := r.Register(&Descriptor{Name: "A", Shape: ShapeValue})
	assert.Equal(t, "A", r.TypeName(a.ID()))
	assert.Equal(t, "type#99", r.TypeName(facet.TypeID(99)))
}
