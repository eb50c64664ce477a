// Package engine ties the registries, world, assembler, and patch loop into
// one facade. A host creates an Engine, registers modules, spawns documents,
// and drives Tick from its own loop.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/htmlscene/internal/assemble"
	"github.com/vk/htmlscene/internal/assets"
	"github.com/vk/htmlscene/internal/construct"
	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/funcs"
	"github.com/vk/htmlscene/internal/patch"
	"github.com/vk/htmlscene/internal/registry"
	"github.com/vk/htmlscene/internal/world"
)

// Module is the unit of registration: a bundle of types, templates, and
// named functions added to an engine at startup.
type Module interface {
	Register(e *Engine)
}

// Options configures a new engine.
type Options struct {
	// Assets resolves asset paths referenced by handle attributes. Nil means
	// assets.Null: every path resolves.
	Assets assets.Resolver
	// Documents backs the Document and Handle:Document attribute types. Nil
	// means an empty cache with no root directory.
	Documents *document.Cache
}

// Engine is one scene engine instance: a type registry, a function registry,
// a world, and the machinery that connects them.
type Engine struct {
	types  *registry.Registry
	funcs  *funcs.Registry
	world  *world.World
	docs   *document.Cache
	assets assets.Resolver

	des   *construct.Deserializer
	asm   *assemble.Assembler
	patch *patch.Engine

	unit *facet.Value
}

// New creates an engine with the builtin types registered.
func New(opts Options) *Engine {
	e := &Engine{
		types:  registry.New(),
		funcs:  funcs.New(),
		world:  world.New(),
		docs:   opts.Documents,
		assets: opts.Assets,
	}
	if e.docs == nil {
		e.docs = document.NewCache("")
	}
	if e.assets == nil {
		e.assets = assets.Null{}
	}
	e.des = &construct.Deserializer{Types: e.types, Funcs: e.funcs, World: e.world}
	e.asm = &assemble.Assembler{Types: e.types, World: e.world, Des: e.des}

	e.registerBuiltins()

	unitDesc, err := e.types.Lookup(typeUnit)
	if err != nil {
		panic("engine: builtin Unit type missing")
	}
	e.unit = facet.NewOpaque(unitDesc.ID(), nil)

	e.patch = &patch.Engine{World: e.world, Funcs: e.funcs, Types: e.types, Asm: e.asm, Unit: e.unit}
	return e
}

// Types returns the engine's type registry.
func (e *Engine) Types() *registry.Registry { return e.types }

// Funcs returns the engine's named function registry.
func (e *Engine) Funcs() *funcs.Registry { return e.funcs }

// World returns the engine's live object graph.
func (e *Engine) World() *world.World { return e.world }

// Documents returns the engine's document cache.
func (e *Engine) Documents() *document.Cache { return e.docs }

// Assets returns the engine's asset resolver.
func (e *Engine) Assets() assets.Resolver { return e.assets }

// Unit returns the sentinel instance passed to trigger functions.
func (e *Engine) Unit() *facet.Value { return e.unit }

// Use registers modules, in order.
func (e *Engine) Use(modules ...Module) {
	for _, m := range modules {
		m.Register(e)
	}
}

// Spawn assembles a document as a new root node and returns its identity.
// Placeholder nodes the document creates expand immediately.
func (e *Engine) Spawn(ctx context.Context, scene *document.Scene) (world.NodeID, error) {
	id := e.world.CreateNode()
	created, err := e.asm.Assemble(ctx, scene.Root(), id)
	if err != nil {
		e.world.RemoveSubtree(id)
		return 0, err
	}
	all := append([]world.NodeID{id}, created...)
	e.patch.NoteCreated(all)
	if err := e.expandPlaceholders(ctx, all); err != nil {
		return 0, err
	}
	ctxlog.FromContext(ctx).Info("Spawned scene.", "root", uint64(id), "nodes", len(all))
	return id, nil
}

// TickInput carries one tick's external stimulus.
type TickInput struct {
	Now time.Time
	// Events holds event names fired since the previous tick.
	Events []string
	// Interactions holds nodes interacted with since the previous tick.
	Interactions []world.NodeID
}

// Tick runs one live patch pass and expands any document placeholders the
// pass produced.
func (e *Engine) Tick(ctx context.Context, in TickInput) error {
	created, err := e.patch.Pass(ctx, patch.PassInput{
		Now:          in.Now,
		Events:       in.Events,
		Interactions: in.Interactions,
	})
	if err != nil {
		return err
	}
	return e.expandPlaceholders(ctx, created)
}

// expandPlaceholders assembles the content of nodes carrying a document
// facet. Candidates are the nodes this tick materialized, so a placeholder
// expands exactly once per materialization: an outer swap that re-fills a
// node makes it a candidate again. Expansion can create further placeholders;
// those expand in the same call so a tick never leaves empty placeholders
// behind.
func (e *Engine) expandPlaceholders(ctx context.Context, candidates []world.NodeID) error {
	docIDs := e.documentTypeIDs()
	expanded := make(map[world.NodeID]bool, len(candidates))
	queue := candidates
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if expanded[id] || !e.world.Exists(id) {
			continue
		}
		scene := e.placeholderScene(id, docIDs)
		if scene == nil {
			continue
		}
		expanded[id] = true
		created, err := e.asm.Assemble(ctx, scene.Root(), id)
		if err != nil {
			return fmt.Errorf("expanding document placeholder on node %d: %w", id, err)
		}
		e.patch.NoteCreated(created)
		queue = append(queue, created...)
	}
	return nil
}

func (e *Engine) documentTypeIDs() []facet.TypeID {
	var out []facet.TypeID
	for _, name := range []string{typeDocument, typeDocumentHandle} {
		if d, err := e.types.Lookup(name); err == nil {
			out = append(out, d.ID())
		}
	}
	return out
}

func (e *Engine) placeholderScene(id world.NodeID, docIDs []facet.TypeID) *document.Scene {
	for _, tid := range docIDs {
		if v, ok := e.world.Facet(id, tid); ok {
			if s, ok := v.Opaque().(*document.Scene); ok {
				return s
			}
		}
	}
	return nil
}

// Reset discards the world and all patch state, keeping registrations.
func (e *Engine) Reset() {
	e.world.Reset()
	e.patch.Reset()
}
