package registry

import (
	"context"

	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/facet"
)

// Shape classifies a registered type's structure. The set is closed: the
// deserializer dispatches on it with ordinary switches.
type Shape int

const (
	ShapeValue Shape = iota // opaque leaf, constructed by parser or function
	ShapeStruct             // ordered named fields
	ShapeTuple              // ordered positional fields
	ShapeEnum               // tagged variants
)

// VariantShape classifies one enum variant.
type VariantShape int

const (
	VariantUnit VariantShape = iota
	VariantTuple
	VariantStruct
)

// Field is one struct or tuple field. Name is empty for tuple positions. The
// field's type is referenced by name and resolved lazily through the
// registry, so registration order between related types does not matter.
type Field struct {
	Name string
	Type string
}

// Variant is one enum variant.
type Variant struct {
	Name   string
	Shape  VariantShape
	Fields []Field
}

// DefaultFunc produces a fresh default instance of a type.
type DefaultFunc func() *facet.Value

// ParseFunc builds an instance of a leaf type from raw scalar text.
type ParseFunc func(ctx context.Context, raw string) (*facet.Value, error)

// TemplateFunc expands a template-flagged type instance into a document
// subtree whose root attributes are applied inline to the same identity.
type TemplateFunc func(v *facet.Value) (*document.Element, error)

// Descriptor is one registered type: its shape plus construction
// capabilities. Descriptors are immutable after startup registration.
type Descriptor struct {
	Name     string
	Shape    Shape
	Fields   []Field   // Struct and Tuple shapes
	Variants []Variant // Enum shape

	id         facet.TypeID
	defaultFn  DefaultFunc
	parseFn    ParseFunc
	templateFn TemplateFunc
}

// ID returns the type id assigned at registration.
func (d *Descriptor) ID() facet.TypeID { return d.id }

// Default returns a fresh default instance, or false if the type has no
// default factory.
func (d *Descriptor) Default() (*facet.Value, bool) {
	if d.defaultFn == nil {
		return nil, false
	}
	return d.defaultFn(), true
}

// Parser returns the registered value parser, nil if none.
func (d *Descriptor) Parser() ParseFunc { return d.parseFn }

// Template returns the registered template expansion, nil if the type is not
// template-flagged.
func (d *Descriptor) Template() TemplateFunc { return d.templateFn }

// FieldByName returns the named field of a struct-shaped type.
func (d *Descriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// VariantByName returns the named variant of an enum-shaped type.
func (d *Descriptor) VariantByName(name string) (Variant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
