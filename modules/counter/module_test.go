package counter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/engine"
	"github.com/vk/htmlscene/internal/world"
	"github.com/vk/htmlscene/modules/counter"
	"github.com/vk/htmlscene/modules/interact"
	"github.com/vk/htmlscene/modules/uibase"
)

func TestIncrementAndDecrement(t *testing.T) {
	e := engine.New(engine.Options{})
	c := &counter.Module{}
	e.Use(uibase.Module{}, interact.Module{}, c)
	ctx := context.Background()

	scene := document.MustParse(`
<Node>
  <Node id="count">Count: 0</Node>
  <Button id="plus" Fn="&quot;increment&quot;" Target='Name("count")'>+</Button>
  <Button id="minus" Fn="&quot;decrement&quot;" Target='Name("count")'>-</Button>
</Node>`)
	_, err := e.Spawn(ctx, scene)
	require.NoError(t, err)

	plus, _ := e.World().ResolveName("plus")
	minus, _ := e.World().ResolveName("minus")

	require.NoError(t, e.Tick(ctx, engine.TickInput{Now: time.Now(), Interactions: []world.NodeID{plus}}))
	require.NoError(t, e.Tick(ctx, engine.TickInput{Now: time.Now(), Interactions: []world.NodeID{plus}}))
	require.NoError(t, e.Tick(ctx, engine.TickInput{Now: time.Now(), Interactions: []world.NodeID{minus}}))
	assert.Equal(t, int32(1), c.Count())
}

func TestCounterFacetDefault(t *testing.T) {
	e := engine.New(engine.Options{})
	e.Use(uibase.Module{}, interact.Module{}, &counter.Module{})

	root, err := e.Spawn(context.Background(), document.MustParse(`<Entity Counter></Entity>`))
	require.NoError(t, err)

	d, err := e.Types().Lookup("Counter")
	require.NoError(t, err)
	v, ok := e.World().Facet(root, d.ID())
	require.True(t, ok)
	count, ok := v.Field("count")
	require.True(t, ok)
	assert.Equal(t, int32(0), count.Opaque())
}
