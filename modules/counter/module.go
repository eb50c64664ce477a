// Package counter is the demonstration module: a Counter facet plus
// increment and decrement functions that return replacement document content
// for the count display.
package counter

import (
	"context"
	"fmt"

	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/engine"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/registry"
	"github.com/vk/htmlscene/internal/world"
)

// Module holds the running count. State lives on the module so replacement
// content can be rendered without scanning the graph.
type Module struct {
	count int32
}

// Count returns the current count.
func (m *Module) Count() int32 { return m.count }

func (m *Module) Register(e *engine.Engine) {
	r := e.Types()

	c := r.Register(&registry.Descriptor{
		Name:   "Counter",
		Shape:  registry.ShapeStruct,
		Fields: []registry.Field{{Name: "count", Type: "i32"}},
	})
	r.RegisterDefault("Counter", func() *facet.Value {
		v := facet.NewStruct(c.ID())
		i32, err := r.Lookup("i32")
		if err != nil {
			panic("counter: i32 type missing")
		}
		v.SetField("count", facet.NewOpaque(i32.ID(), int32(0)))
		return v
	})

	unitID := e.Unit().Type()
	doc, err := r.Lookup("Document")
	if err != nil {
		panic("counter: Document type missing")
	}
	docID := doc.ID()

	render := func(ctx context.Context, delta int32) (*facet.Value, error) {
		m.count += delta
		ctxlog.FromContext(ctx).Info("Counter updated.", "count", m.count)
		scene, err := document.Parse(fmt.Sprintf(
			`<Node id="count">Count: %d</Node>`, m.count))
		if err != nil {
			return nil, err
		}
		return facet.NewOpaque(docID, scene), nil
	}

	e.Funcs().Register("increment", unitID, docID,
		func(ctx context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			return render(ctx, 1)
		})
	e.Funcs().Register("decrement", unitID, docID,
		func(ctx context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			return render(ctx, -1)
		})
}
