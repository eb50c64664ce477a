package engine

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/vk/htmlscene/internal/construct"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/registry"
)

// Builtin type names. Scalar names follow the wire notation rather than Go
// spellings so attribute text reads the same across hosts.
const (
	typeUnit           = "Unit"
	typeBool           = "bool"
	typeString         = "string"
	typeF32            = "f32"
	typeF64            = "f64"
	typeI32            = "i32"
	typeU32            = "u32"
	typeDocument       = "Document"
	typeDocumentHandle = "Handle<Document>"
	typeColor          = "Color"
	typeTextStyle      = "TextStyle"
	typeText           = "Text"
)

func (e *Engine) registerBuiltins() {
	r := e.types

	unit := r.Register(&registry.Descriptor{Name: typeUnit, Shape: registry.ShapeValue})
	r.RegisterDefault(typeUnit, func() *facet.Value {
		return facet.NewOpaque(unit.ID(), nil)
	})

	e.registerScalars()
	e.registerDocuments()
	e.registerColor()
	e.registerText()
}

func (e *Engine) registerScalars() {
	r := e.types

	b := r.Register(&registry.Descriptor{Name: typeBool, Shape: registry.ShapeValue})
	r.RegisterDefault(typeBool, func() *facet.Value { return facet.NewOpaque(b.ID(), false) })
	r.RegisterParser(typeBool, func(_ context.Context, raw string) (*facet.Value, error) {
		v, err := construct.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(b.ID(), v), nil
	})

	s := r.Register(&registry.Descriptor{Name: typeString, Shape: registry.ShapeValue})
	r.RegisterDefault(typeString, func() *facet.Value { return facet.NewOpaque(s.ID(), "") })
	r.RegisterParser(typeString, func(_ context.Context, raw string) (*facet.Value, error) {
		return facet.NewOpaque(s.ID(), raw), nil
	})

	f32 := r.Register(&registry.Descriptor{Name: typeF32, Shape: registry.ShapeValue})
	r.RegisterDefault(typeF32, func() *facet.Value { return facet.NewOpaque(f32.ID(), float32(0)) })
	r.RegisterParser(typeF32, func(_ context.Context, raw string) (*facet.Value, error) {
		v, err := construct.ParseFloat32(raw)
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(f32.ID(), v), nil
	})

	f64 := r.Register(&registry.Descriptor{Name: typeF64, Shape: registry.ShapeValue})
	r.RegisterDefault(typeF64, func() *facet.Value { return facet.NewOpaque(f64.ID(), float64(0)) })
	r.RegisterParser(typeF64, func(_ context.Context, raw string) (*facet.Value, error) {
		v, err := construct.ParseFloat64(raw)
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(f64.ID(), v), nil
	})

	i32 := r.Register(&registry.Descriptor{Name: typeI32, Shape: registry.ShapeValue})
	r.RegisterDefault(typeI32, func() *facet.Value { return facet.NewOpaque(i32.ID(), int32(0)) })
	r.RegisterParser(typeI32, func(_ context.Context, raw string) (*facet.Value, error) {
		v, err := construct.ParseInt32(raw)
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(i32.ID(), v), nil
	})

	u32 := r.Register(&registry.Descriptor{Name: typeU32, Shape: registry.ShapeValue})
	r.RegisterDefault(typeU32, func() *facet.Value { return facet.NewOpaque(u32.ID(), uint32(0)) })
	r.RegisterParser(typeU32, func(_ context.Context, raw string) (*facet.Value, error) {
		v, err := construct.ParseUint32(raw)
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(u32.ID(), v), nil
	})
}

// registerDocuments wires the document cache into the type system: an
// attribute like Document="menu.html" loads and parses the file at
// construction time, leaving a placeholder for Tick to expand.
func (e *Engine) registerDocuments() {
	r := e.types
	load := func(id facet.TypeID) registry.ParseFunc {
		return func(ctx context.Context, raw string) (*facet.Value, error) {
			scene, err := e.docs.Load(ctx, raw)
			if err != nil {
				return nil, err
			}
			return facet.NewOpaque(id, scene), nil
		}
	}

	d := r.Register(&registry.Descriptor{Name: typeDocument, Shape: registry.ShapeValue})
	r.RegisterParser(typeDocument, load(d.ID()))

	h := r.Register(&registry.Descriptor{Name: typeDocumentHandle, Shape: registry.ShapeValue})
	r.RegisterParser(typeDocumentHandle, load(h.ID()))
}

func (e *Engine) registerColor() {
	r := e.types
	c := r.Register(&registry.Descriptor{Name: typeColor, Shape: registry.ShapeValue})
	r.RegisterDefault(typeColor, func() *facet.Value {
		return facet.NewOpaque(c.ID(), color.RGBA{R: 255, G: 255, B: 255, A: 255})
	})
	r.RegisterParser(typeColor, func(_ context.Context, raw string) (*facet.Value, error) {
		v, err := ParseColor(raw)
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(c.ID(), v), nil
	})
}

func (e *Engine) registerText() {
	r := e.types

	style := r.Register(&registry.Descriptor{
		Name:  typeTextStyle,
		Shape: registry.ShapeStruct,
		Fields: []registry.Field{
			{Name: "size", Type: typeF32},
			{Name: "color", Type: typeColor},
			{Name: "font", Type: "Handle<Font>"},
		},
	})
	r.RegisterDefault(typeTextStyle, func() *facet.Value {
		v := facet.NewStruct(style.ID())
		f32ID := mustID(r, typeF32)
		colorID := mustID(r, typeColor)
		v.SetField("size", facet.NewOpaque(f32ID, float32(14)))
		v.SetField("color", facet.NewOpaque(colorID, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
		return v
	})

	text := r.Register(&registry.Descriptor{
		Name:  typeText,
		Shape: registry.ShapeStruct,
		Fields: []registry.Field{
			{Name: "value", Type: typeString},
			{Name: "style", Type: typeTextStyle},
		},
	})
	r.RegisterDefault(typeText, func() *facet.Value {
		v := facet.NewStruct(text.ID())
		v.SetField("value", facet.NewOpaque(mustID(r, typeString), ""))
		if styleDesc, err := r.Lookup(typeTextStyle); err == nil {
			if sv, ok := styleDesc.Default(); ok {
				v.SetField("style", sv)
			}
		}
		return v
	})
}

func mustID(r *registry.Registry, name string) facet.TypeID {
	d, err := r.Lookup(name)
	if err != nil {
		panic(fmt.Sprintf("engine: builtin type %q missing", name))
	}
	return d.ID()
}

var colorNames = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"gray":        {128, 128, 128, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor reads a CSS-style color: #rgb, #rrggbb, #rrggbbaa, or a named
// color from a small fixed table.
func ParseColor(raw string) (color.RGBA, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colorNames[strings.ToLower(s)]; ok {
			return c, nil
		}
		return color.RGBA{}, fmt.Errorf("unknown color %q", raw)
	}
	hex := s[1:]
	nibble := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	byteAt := func(i int) (uint8, bool) {
		hi, ok1 := nibble(hex[i])
		lo, ok2 := nibble(hex[i+1])
		return hi<<4 | lo, ok1 && ok2
	}
	switch len(hex) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := nibble(hex[i])
			if !ok {
				return color.RGBA{}, fmt.Errorf("invalid color %q", raw)
			}
			out[i] = n<<4 | n
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, nil
	case 6, 8:
		var parts [4]uint8
		parts[3] = 255
		for i := 0; i*2 < len(hex); i++ {
			b, ok := byteAt(i * 2)
			if !ok {
				return color.RGBA{}, fmt.Errorf("invalid color %q", raw)
			}
			parts[i] = b
		}
		return color.RGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", raw)
}
