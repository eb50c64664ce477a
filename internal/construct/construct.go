// Package construct turns attribute literal text into typed facet instances,
// guided by type descriptors. Struct literals are partial: only the fields
// the text names are set, then merged over the type's default so every
// constructed instance is complete.
package construct

import (
	"context"
	"fmt"

	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/funcs"
	"github.com/vk/htmlscene/internal/notation"
	"github.com/vk/htmlscene/internal/registry"
	"github.com/vk/htmlscene/internal/world"
)

// Deserializer builds typed instances from attribute text. Funcs and World
// back the function-call form for value leaves; both may be nil when that
// form is not needed.
type Deserializer struct {
	Types *registry.Registry
	Funcs *funcs.Registry
	World *world.World
}

// Construct builds a full instance of the described type. raw is the
// attribute's literal text, nil for a valueless attribute: that form takes
// the type's default and fails when there is none.
func (d *Deserializer) Construct(ctx context.Context, desc *registry.Descriptor, raw *string) (*facet.Value, error) {
	if raw == nil {
		v, ok := desc.Default()
		if !ok {
			return nil, &MissingDefaultError{Type: desc.Name}
		}
		return v, nil
	}

	text := *raw
	var parsed *facet.Value
	if desc.Shape == registry.ShapeValue {
		// Opaque leaves never go through the notation parser first: their
		// registered parser owns the text as written, so bare paths and other
		// tokens the notation cannot lex still construct.
		v, err := d.valueFromText(ctx, desc, text)
		if err != nil {
			return nil, err
		}
		parsed = v
	} else {
		// Struct and tuple literals may omit the outer parentheses:
		// `width: Auto, height: Px(10)` reads as `(width: Auto, height: Px(10))`.
		if desc.Shape == registry.ShapeStruct || desc.Shape == registry.ShapeTuple {
			if t := firstByte(text); t != '(' && t != '{' {
				text = "(" + text + ")"
			}
		}

		node, err := notation.Parse(text)
		if err != nil {
			return nil, &DeserializationError{Type: desc.Name, Msg: "invalid literal", Err: err}
		}

		parsed, err = d.fromNode(ctx, desc, node)
		if err != nil {
			return nil, err
		}
	}

	// A partial parse patches the default when the type has one, so fields
	// the text never named still end up populated.
	if base, ok := desc.Default(); ok {
		base.Apply(parsed)
		ctxlog.FromContext(ctx).Debug("Constructed instance.", "type", desc.Name)
		return base, nil
	}
	ctxlog.FromContext(ctx).Debug("Constructed instance.", "type", desc.Name)
	return parsed, nil
}

func firstByte(s string) byte {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return s[i]
	}
	return 0
}

func (d *Deserializer) fromNode(ctx context.Context, desc *registry.Descriptor, node notation.Node) (*facet.Value, error) {
	switch desc.Shape {
	case registry.ShapeStruct:
		return d.structFromNode(ctx, desc, node)
	case registry.ShapeTuple:
		return d.tupleFromNode(ctx, desc, node)
	case registry.ShapeEnum:
		return d.enumFromNode(ctx, desc, node)
	default:
		return d.valueFromNode(ctx, desc, node)
	}
}

func (d *Deserializer) structFromNode(ctx context.Context, desc *registry.Descriptor, node notation.Node) (*facet.Value, error) {
	if node.Kind != notation.KindGroup && node.Kind != notation.KindMap {
		return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("expected named fields, got %s", node.Kind)}
	}
	out := facet.NewStruct(desc.ID())
	for _, e := range node.Entries {
		if e.Key == "" {
			return nil, &DeserializationError{Type: desc.Name, Msg: "struct fields must be named"}
		}
		field, ok := desc.FieldByName(e.Key)
		if !ok {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("unknown field %q", e.Key)}
		}
		fd, err := d.Types.Lookup(field.Type)
		if err != nil {
			return nil, err
		}
		fv, err := d.fromNode(ctx, fd, e.Value)
		if err != nil {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("field %q", e.Key), Err: err}
		}
		out.SetField(e.Key, fv)
	}
	return out, nil
}

func (d *Deserializer) tupleFromNode(ctx context.Context, desc *registry.Descriptor, node notation.Node) (*facet.Value, error) {
	// Single-field tuples accept their element bare: `"#ff0000"` instead of
	// `("#ff0000")`.
	if node.Kind != notation.KindGroup {
		if node.Keyed() {
			return nil, &NonStructPatchError{Type: desc.Name}
		}
		if len(desc.Fields) != 1 {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("expected %d positional fields", len(desc.Fields))}
		}
		ed, err := d.Types.Lookup(desc.Fields[0].Type)
		if err != nil {
			return nil, err
		}
		ev, err := d.fromNode(ctx, ed, node)
		if err != nil {
			return nil, &DeserializationError{Type: desc.Name, Msg: "element 0", Err: err}
		}
		return facet.NewTuple(desc.ID(), ev), nil
	}
	if node.Keyed() {
		return nil, &NonStructPatchError{Type: desc.Name}
	}
	if len(node.Entries) > len(desc.Fields) {
		return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("too many elements: %d, type has %d", len(node.Entries), len(desc.Fields))}
	}
	elems := make([]*facet.Value, 0, len(node.Entries))
	for i, e := range node.Entries {
		ed, err := d.Types.Lookup(desc.Fields[i].Type)
		if err != nil {
			return nil, err
		}
		ev, err := d.fromNode(ctx, ed, e.Value)
		if err != nil {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("element %d", i), Err: err}
		}
		elems = append(elems, ev)
	}
	return facet.NewTuple(desc.ID(), elems...), nil
}

func (d *Deserializer) enumFromNode(ctx context.Context, desc *registry.Descriptor, node notation.Node) (*facet.Value, error) {
	switch node.Kind {
	case notation.KindIdent:
		variant, ok := desc.VariantByName(node.Text)
		if !ok {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("unknown variant %q", node.Text)}
		}
		if variant.Shape != registry.VariantUnit {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q requires a payload", node.Text)}
		}
		return facet.NewEnum(desc.ID(), variant.Name, nil), nil

	case notation.KindCall:
		variant, ok := desc.VariantByName(node.Text)
		if !ok {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("unknown variant %q", node.Text)}
		}
		payload, err := d.variantPayload(ctx, desc, variant, node.Entries)
		if err != nil {
			return nil, err
		}
		return facet.NewEnum(desc.ID(), variant.Name, payload), nil
	}
	if node.Keyed() {
		return nil, &NonStructPatchError{Type: desc.Name}
	}
	return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("expected a variant, got %s", node.Kind)}
}

func (d *Deserializer) variantPayload(ctx context.Context, desc *registry.Descriptor, variant registry.Variant, entries []notation.Entry) (*facet.Value, error) {
	switch variant.Shape {
	case registry.VariantUnit:
		if len(entries) != 0 {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q takes no payload", variant.Name)}
		}
		return nil, nil

	case registry.VariantTuple:
		if len(entries) > len(variant.Fields) {
			return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q: too many elements", variant.Name)}
		}
		elems := make([]*facet.Value, 0, len(entries))
		for i, e := range entries {
			if e.Key != "" {
				return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q takes positional elements", variant.Name)}
			}
			ed, err := d.Types.Lookup(variant.Fields[i].Type)
			if err != nil {
				return nil, err
			}
			ev, err := d.fromNode(ctx, ed, e.Value)
			if err != nil {
				return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q element %d", variant.Name, i), Err: err}
			}
			elems = append(elems, ev)
		}
		// Single-field variants hold the element directly, no extra nesting.
		if len(variant.Fields) == 1 && len(elems) == 1 {
			return elems[0], nil
		}
		return facet.NewTuple(facet.Invalid, elems...), nil

	default: // VariantStruct
		payload := facet.NewStruct(facet.Invalid)
		for _, e := range entries {
			if e.Key == "" {
				return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q fields must be named", variant.Name)}
			}
			var field registry.Field
			found := false
			for _, f := range variant.Fields {
				if f.Name == e.Key {
					field, found = f, true
					break
				}
			}
			if !found {
				return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q: unknown field %q", variant.Name, e.Key)}
			}
			fd, err := d.Types.Lookup(field.Type)
			if err != nil {
				return nil, err
			}
			fv, err := d.fromNode(ctx, fd, e.Value)
			if err != nil {
				return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("variant %q field %q", variant.Name, e.Key), Err: err}
			}
			payload.SetField(e.Key, fv)
		}
		return payload, nil
	}
}

// valueFromText constructs an opaque leaf from raw attribute text. The
// registered parser tries the text exactly as written; only when it rejects
// the text, or none is registered, is the text read as notation, which covers
// quoted literals and the (function_name, argument) form.
func (d *Deserializer) valueFromText(ctx context.Context, desc *registry.Descriptor, text string) (*facet.Value, error) {
	p := desc.Parser()
	if p != nil {
		if v, err := p(ctx, text); err == nil {
			return v, nil
		}
	}
	node, err := notation.Parse(text)
	if err != nil {
		if p == nil {
			return nil, &MissingParserError{Type: desc.Name}
		}
		return nil, &DeserializationError{Type: desc.Name, Msg: "invalid literal", Err: err}
	}
	return d.valueFromNode(ctx, desc, node)
}

// valueFromNode constructs an opaque leaf from a parsed notation node. Bare
// literals go through the type's registered parser; the form
// (function_name, argument) calls a named function whose output type must
// match.
func (d *Deserializer) valueFromNode(ctx context.Context, desc *registry.Descriptor, node notation.Node) (*facet.Value, error) {
	if node.Scalar() {
		p := desc.Parser()
		if p == nil {
			return nil, &MissingParserError{Type: desc.Name}
		}
		v, err := p(ctx, node.Text)
		if err != nil {
			return nil, &DeserializationError{Type: desc.Name, Msg: "parser rejected value", Err: err}
		}
		return v, nil
	}

	if node.Kind == notation.KindGroup && len(node.Entries) == 2 && !node.Keyed() {
		return d.valueFromCall(ctx, desc, node.Entries[0].Value, node.Entries[1].Value)
	}

	if node.Keyed() {
		return nil, &NonStructPatchError{Type: desc.Name}
	}
	return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("expected a literal or (function, argument), got %s", node.Kind)}
}

func (d *Deserializer) valueFromCall(ctx context.Context, desc *registry.Descriptor, nameNode, argNode notation.Node) (*facet.Value, error) {
	if nameNode.Kind != notation.KindString && nameNode.Kind != notation.KindIdent {
		return nil, &DeserializationError{Type: desc.Name, Msg: "function name must be a string or identifier"}
	}
	name := nameNode.Text
	if d.Funcs == nil {
		return nil, &DeserializationError{Type: desc.Name, Msg: "no function registry available"}
	}
	in, out, ok := d.Funcs.Signature(name)
	if !ok {
		return nil, &DeserializationError{Type: desc.Name, Err: &funcs.UnknownFunctionError{Name: name}, Msg: "construction function"}
	}
	if out != desc.ID() {
		return nil, &DeserializationError{Type: desc.Name,
			Msg: fmt.Sprintf("function %q returns %s", name, d.Types.TypeName(out))}
	}
	ad, ok := d.Types.ByID(in)
	if !ok {
		return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("function %q has an unregistered input type", name)}
	}
	arg, err := d.fromNode(ctx, ad, argNode)
	if err != nil {
		return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("argument for %q", name), Err: err}
	}
	// Argument literals are partial like attribute text: complete them from
	// the input type's default before the call.
	if base, ok := ad.Default(); ok {
		base.Apply(arg)
		arg = base
	}
	v, err := d.Funcs.Call(ctx, d.World, name, arg)
	if err != nil {
		return nil, &DeserializationError{Type: desc.Name, Msg: fmt.Sprintf("calling %q", name), Err: err}
	}
	return v, nil
}
