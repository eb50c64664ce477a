// Package uibase registers the layout and styling vocabulary: sizing values,
// rects, flex layout enums, the Style record, colors for backgrounds and
// outlines, asset handles, and the Node, Button, and Img templates.
package uibase

import (
	"context"
	"fmt"
	"image/color"

	"github.com/vk/htmlscene/internal/assets"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/engine"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/registry"
)

// Module wires the UI vocabulary into an engine.
type Module struct{}

func (Module) Register(e *engine.Engine) {
	r := e.Types()

	registerVal(r)
	registerRect(r)
	registerLayoutEnums(r)
	registerStyle(r)
	registerDecoration(r)
	registerHandles(e)
	registerTemplates(r)
}

func registerVal(r *registry.Registry) {
	val := r.Register(&registry.Descriptor{
		Name:  "Val",
		Shape: registry.ShapeEnum,
		Variants: []registry.Variant{
			{Name: "Auto", Shape: registry.VariantUnit},
			{Name: "Px", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "f32"}}},
			{Name: "Percent", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "f32"}}},
			{Name: "Vw", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "f32"}}},
			{Name: "Vh", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "f32"}}},
		},
	})
	r.RegisterDefault("Val", func() *facet.Value {
		return facet.NewEnum(val.ID(), "Auto", nil)
	})
}

func registerRect(r *registry.Registry) {
	rect := r.Register(&registry.Descriptor{
		Name:  "UiRect",
		Shape: registry.ShapeEnum,
		Variants: []registry.Variant{
			{Name: "All", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "Val"}}},
			{Name: "Axes", Shape: registry.VariantTuple, Fields: []registry.Field{{Type: "Val"}, {Type: "Val"}}},
			{Name: "Sides", Shape: registry.VariantStruct, Fields: []registry.Field{
				{Name: "left", Type: "Val"},
				{Name: "right", Type: "Val"},
				{Name: "top", Type: "Val"},
				{Name: "bottom", Type: "Val"},
			}},
		},
	})
	r.RegisterDefault("UiRect", func() *facet.Value {
		auto := facet.NewEnum(facet.Invalid, "Auto", nil)
		return facet.NewEnum(rect.ID(), "All", auto)
	})
}

func registerLayoutEnums(r *registry.Registry) {
	unitEnum := func(name, def string, variants ...string) {
		vs := make([]registry.Variant, len(variants))
		for i, v := range variants {
			vs[i] = registry.Variant{Name: v, Shape: registry.VariantUnit}
		}
		d := r.Register(&registry.Descriptor{Name: name, Shape: registry.ShapeEnum, Variants: vs})
		r.RegisterDefault(name, func() *facet.Value {
			return facet.NewEnum(d.ID(), def, nil)
		})
	}

	unitEnum("FlexDirection", "Row", "Row", "Column", "RowReverse", "ColumnReverse")
	unitEnum("JustifyContent", "Default",
		"Default", "Start", "End", "Center", "SpaceBetween", "SpaceAround", "SpaceEvenly")
	unitEnum("AlignItems", "Default",
		"Default", "Start", "End", "Center", "Stretch")
	unitEnum("Display", "Flex", "Flex", "Grid", "None")
	unitEnum("Interaction", "None", "None", "Hovered", "Pressed")
}

func registerStyle(r *registry.Registry) {
	style := r.Register(&registry.Descriptor{
		Name:  "Style",
		Shape: registry.ShapeStruct,
		Fields: []registry.Field{
			{Name: "display", Type: "Display"},
			{Name: "width", Type: "Val"},
			{Name: "height", Type: "Val"},
			{Name: "margin", Type: "UiRect"},
			{Name: "padding", Type: "UiRect"},
			{Name: "flex_direction", Type: "FlexDirection"},
			{Name: "justify_content", Type: "JustifyContent"},
			{Name: "align_items", Type: "AlignItems"},
		},
	})
	r.RegisterDefault("Style", func() *facet.Value {
		v := facet.NewStruct(style.ID())
		for _, f := range style.Fields {
			fd, err := r.Lookup(f.Type)
			if err != nil {
				panic(fmt.Sprintf("uibase: Style field %q: %v", f.Name, err))
			}
			fv, ok := fd.Default()
			if !ok {
				panic(fmt.Sprintf("uibase: Style field %q has no default", f.Name))
			}
			v.SetField(f.Name, fv)
		}
		return v
	})
}

func registerDecoration(r *registry.Registry) {
	bg := r.Register(&registry.Descriptor{
		Name:   "BackgroundColor",
		Shape:  registry.ShapeTuple,
		Fields: []registry.Field{{Type: "Color"}},
	})
	r.RegisterDefault("BackgroundColor", func() *facet.Value {
		colorID := mustID(r, "Color")
		return facet.NewTuple(bg.ID(), facet.NewOpaque(colorID, color.RGBA{}))
	})

	outline := r.Register(&registry.Descriptor{
		Name:  "Outline",
		Shape: registry.ShapeStruct,
		Fields: []registry.Field{
			{Name: "width", Type: "Val"},
			{Name: "offset", Type: "Val"},
			{Name: "color", Type: "Color"},
		},
	})
	r.RegisterDefault("Outline", func() *facet.Value {
		v := facet.NewStruct(outline.ID())
		valDesc, _ := r.Lookup("Val")
		zero := func() *facet.Value {
			return facet.NewEnum(valDesc.ID(), "Px", facet.NewOpaque(mustID(r, "f32"), float32(0)))
		}
		v.SetField("width", zero())
		v.SetField("offset", zero())
		v.SetField("color", facet.NewOpaque(mustID(r, "Color"), color.RGBA{R: 255, G: 255, B: 255, A: 255}))
		return v
	})
}

// registerHandles adds the asset marker types and their handle types. A
// handle attribute like Handle:Image="logo.png" resolves the path through
// the engine's asset resolver at construction time.
func registerHandles(e *engine.Engine) {
	r := e.Types()
	for _, kind := range []string{"Image", "Font", "Audio"} {
		kind := kind
		r.Register(&registry.Descriptor{Name: kind, Shape: registry.ShapeValue})
		name := "Handle<" + kind + ">"
		h := r.Register(&registry.Descriptor{Name: name, Shape: registry.ShapeValue})
		r.RegisterParser(name, func(ctx context.Context, raw string) (*facet.Value, error) {
			handle, err := e.Assets().Resolve(ctx, kind, raw)
			if err != nil {
				return nil, err
			}
			return facet.NewOpaque(h.ID(), handle), nil
		})
	}
}

func registerTemplates(r *registry.Registry) {
	node := r.Register(&registry.Descriptor{Name: "Node", Shape: registry.ShapeStruct})
	r.RegisterDefault("Node", func() *facet.Value { return facet.NewStruct(node.ID()) })
	r.RegisterTemplate("Node", func(*facet.Value) (*document.Element, error) {
		return document.MustParse(`<Entity Style BackgroundColor></Entity>`).Root(), nil
	})

	button := r.Register(&registry.Descriptor{Name: "Button", Shape: registry.ShapeStruct})
	r.RegisterDefault("Button", func() *facet.Value { return facet.NewStruct(button.ID()) })
	r.RegisterTemplate("Button", func(*facet.Value) (*document.Element, error) {
		return document.MustParse(`<Entity Node Interaction></Entity>`).Root(), nil
	})

	img := r.Register(&registry.Descriptor{
		Name:   "Img",
		Shape:  registry.ShapeStruct,
		Fields: []registry.Field{{Name: "src", Type: "Handle<Image>"}},
	})
	r.RegisterDefault("Img", func() *facet.Value { return facet.NewStruct(img.ID()) })
	r.RegisterTemplate("Img", func(v *facet.Value) (*document.Element, error) {
		el := document.MustParse(`<Entity Node></Entity>`).Root()
		if src, ok := v.Field("src"); ok {
			handle, ok := src.Opaque().(assets.Handle)
			if !ok {
				return nil, fmt.Errorf("Img src is not an asset handle")
			}
			path := handle.Path
			el.Attrs = append(el.Attrs, document.Attr{Name: "Handle:Image", Value: &path})
		}
		return el, nil
	})
}

func mustID(r *registry.Registry, name string) facet.TypeID {
	d, err := r.Lookup(name)
	if err != nil {
		panic(fmt.Sprintf("uibase: required type %q missing: %v", name, err))
	}
	return d.ID()
}
