// Package interact registers the trigger vocabulary: the Fn function
// reference plus the On, Swap, and Target configuration facets the patch
// engine reads.
package interact

import (
	"github.com/vk/htmlscene/internal/engine"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/registry"
)

// Module wires the trigger facets into an engine.
type Module struct{}

func (Module) Register(e *engine.Engine) {
	r := e.Types()

	// Fn has no default on purpose: a bare Fn attribute with no function
	// name is a document error.
	r.Register(&registry.Descriptor{
		Name:   "Fn",
		Shape:  registry.ShapeTuple,
		Fields: []registry.Field{{Type: "string"}},
	})

	on := r.Register(&registry.Descriptor{
		Name:  "On",
		Shape: registry.ShapeEnum,
		Variants: []registry.Variant{
			{Name: "Create", Shape: registry.VariantUnit},
			{Name: "EveryTick", Shape: registry.VariantUnit},
			{Name: "Every", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "f64"}}},
			{Name: "Interaction", Shape: registry.VariantUnit},
			{Name: "Event", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "string"}}},
		},
	})
	r.RegisterDefault("On", func() *facet.Value {
		return facet.NewEnum(on.ID(), "Interaction", nil)
	})

	swap := r.Register(&registry.Descriptor{
		Name:  "Swap",
		Shape: registry.ShapeEnum,
		Variants: []registry.Variant{
			{Name: "Outer", Shape: registry.VariantUnit},
			{Name: "Inner", Shape: registry.VariantUnit},
			{Name: "Prepend", Shape: registry.VariantUnit},
			{Name: "Append", Shape: registry.VariantUnit},
		},
	})
	r.RegisterDefault("Swap", func() *facet.Value {
		return facet.NewEnum(swap.ID(), "Outer", nil)
	})

	target := r.Register(&registry.Descriptor{
		Name:  "Target",
		Shape: registry.ShapeEnum,
		Variants: []registry.Variant{
			{Name: "This", Shape: registry.VariantUnit},
			{Name: "Name", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "string"}}},
			{Name: "Sibling", Shape: registry.VariantUnit},
			{Name: "Root", Shape: registry.VariantUnit},
		},
	})
	r.RegisterDefault("Target", func() *facet.Value {
		return facet.NewEnum(target.ID(), "This", nil)
	})
}
