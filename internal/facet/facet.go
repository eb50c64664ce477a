// Package facet defines the dynamic value representation for facets: typed
// instances attached to graph nodes. A Value is a closed tagged union over
// four kinds (struct, tuple, enum, opaque leaf) mirroring the shapes the type
// registry can describe. Struct values track which fields were explicitly
// set, which is what makes field-level default patching possible.
package facet

import (
	"fmt"
	"strings"
)

// TypeID identifies a registered type. IDs are dense integers assigned at
// registration time; Invalid (zero) is never assigned.
type TypeID int

// Invalid is the zero TypeID. Payload containers inside enum values carry
// Invalid because their type is implied by the enclosing variant.
const Invalid TypeID = 0

// Kind discriminates the dynamic representation of a Value.
type Kind int

const (
	KindOpaque Kind = iota
	KindStruct
	KindTuple
	KindEnum
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindStruct:
		return "struct"
	case KindTuple:
		return "tuple"
	case KindEnum:
		return "enum"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one dynamic typed instance. The zero Value is not usable; use the
// New* constructors.
type Value struct {
	typ  TypeID
	kind Kind

	// struct representation: only explicitly set fields are present.
	fieldOrder []string
	fields     map[string]*Value

	// tuple representation (positional, possibly a prefix of the full type).
	elems []*Value

	// enum representation. payload is nil for unit variants, the field value
	// itself for single-field tuple variants, and a tuple/struct container
	// otherwise.
	variant string
	payload *Value

	// opaque leaf payload.
	opaque any
}

// NewStruct returns an empty struct value with no fields set.
func NewStruct(t TypeID) *Value {
	return &Value{typ: t, kind: KindStruct, fields: map[string]*Value{}}
}

// NewTuple returns a tuple value holding the given elements in order.
func NewTuple(t TypeID, elems ...*Value) *Value {
	return &Value{typ: t, kind: KindTuple, elems: elems}
}

// NewEnum returns an enum value set to the named variant. payload may be nil
// for unit variants.
func NewEnum(t TypeID, variant string, payload *Value) *Value {
	return &Value{typ: t, kind: KindEnum, variant: variant, payload: payload}
}

// NewOpaque returns a leaf value wrapping a native Go payload.
func NewOpaque(t TypeID, payload any) *Value {
	return &Value{typ: t, kind: KindOpaque, opaque: payload}
}

// Type returns the value's type id.
func (v *Value) Type() TypeID { return v.typ }

// Kind returns the value's dynamic kind.
func (v *Value) Kind() Kind { return v.kind }

// SetField sets a struct field, marking it as explicitly present. Setting an
// already present field keeps its original position in the field order.
func (v *Value) SetField(name string, fv *Value) {
	if v.kind != KindStruct {
		panic("facet: SetField on non-struct value")
	}
	if _, ok := v.fields[name]; !ok {
		v.fieldOrder = append(v.fieldOrder, name)
	}
	v.fields[name] = fv
}

// Field returns the named struct field and whether it was explicitly set.
func (v *Value) Field(name string) (*Value, bool) {
	fv, ok := v.fields[name]
	return fv, ok
}

// FieldNames returns the explicitly set field names in set order.
func (v *Value) FieldNames() []string {
	out := make([]string, len(v.fieldOrder))
	copy(out, v.fieldOrder)
	return out
}

// Len returns the number of tuple elements.
func (v *Value) Len() int { return len(v.elems) }

// Elem returns the i-th tuple element.
func (v *Value) Elem(i int) *Value { return v.elems[i] }

// Variant returns the enum variant name.
func (v *Value) Variant() string { return v.variant }

// Payload returns the enum payload, nil for unit variants.
func (v *Value) Payload() *Value { return v.payload }

// Opaque returns the native payload of an opaque leaf.
func (v *Value) Opaque() any { return v.opaque }

// Clone returns a deep copy. Opaque payloads are copied by reference; leaf
// payloads are treated as immutable by convention.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{typ: v.typ, kind: v.kind, variant: v.variant, opaque: v.opaque}
	if v.fields != nil {
		out.fields = make(map[string]*Value, len(v.fields))
		out.fieldOrder = make([]string, len(v.fieldOrder))
		copy(out.fieldOrder, v.fieldOrder)
		for name, fv := range v.fields {
			out.fields[name] = fv.Clone()
		}
	}
	if v.elems != nil {
		out.elems = make([]*Value, len(v.elems))
		for i, e := range v.elems {
			out.elems[i] = e.Clone()
		}
	}
	out.payload = v.payload.Clone()
	return out
}

// Apply merges a partial value into v. For struct values only the fields
// explicitly set on patch are written, recursing where both sides hold
// structs so nested partials stay partial. For every other kind the patch
// replaces v's contents wholesale.
func (v *Value) Apply(patch *Value) {
	if patch == nil {
		return
	}
	if v.kind == KindStruct && patch.kind == KindStruct {
		for _, name := range patch.fieldOrder {
			pf := patch.fields[name]
			if cur, ok := v.fields[name]; ok && cur.kind == KindStruct && pf.kind == KindStruct {
				cur.Apply(pf)
				continue
			}
			v.SetField(name, pf.Clone())
		}
		return
	}
	c := patch.Clone()
	v.kind = c.kind
	v.fieldOrder = c.fieldOrder
	v.fields = c.fields
	v.elems = c.elems
	v.variant = c.variant
	v.payload = c.payload
	v.opaque = c.opaque
}

// String renders the value in the attribute literal notation, for logs and
// error messages.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v *Value) render(b *strings.Builder) {
	switch v.kind {
	case KindStruct:
		b.WriteByte('(')
		for i, name := range v.fieldOrder {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			v.fields[name].render(b)
		}
		b.WriteByte(')')
	case KindTuple:
		b.WriteByte('(')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.render(b)
		}
		b.WriteByte(')')
	case KindEnum:
		b.WriteString(v.variant)
		if v.payload != nil {
			b.WriteByte('(')
			v.payload.render(b)
			b.WriteByte(')')
		}
	default:
		switch o := v.opaque.(type) {
		case string:
			fmt.Fprintf(b, "%q", o)
		case nil:
			b.WriteString("()")
		default:
			fmt.Fprintf(b, "%v", o)
		}
	}
}
