// Package patch runs the live update loop: nodes carrying trigger facets
// call named functions when their condition fires, and the returned document
// content is swapped into the graph at a resolved target.
//
// A pass is two-phased. Every due trigger runs first, against the graph as
// it stood when the pass began, in ascending node id order; then every
// resulting swap is applied, in that same order. Functions therefore never
// observe each other's swaps within a pass. The batch is not transactional:
// a failing swap aborts the pass but earlier swaps stay applied.
package patch

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/htmlscene/internal/assemble"
	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/funcs"
	"github.com/vk/htmlscene/internal/registry"
	"github.com/vk/htmlscene/internal/world"
)

// Engine evaluates triggers and applies swaps for one world.
type Engine struct {
	World *world.World
	Funcs *funcs.Registry
	Types *registry.Registry
	Asm   *assemble.Assembler

	// Unit is the input instance passed to every trigger function.
	Unit *facet.Value

	states map[world.NodeID]*nodeState
}

type nodeState struct {
	createdPending bool
	intervalSeen   bool
	lastFired      time.Time
}

// PassInput is one tick's worth of external stimulus.
type PassInput struct {
	Now time.Time
	// Events holds the names fired this tick.
	Events []string
	// Interactions holds the nodes interacted with this tick.
	Interactions []world.NodeID
}

// NoteCreated marks nodes as freshly created so their Create triggers fire
// on the next pass.
func (e *Engine) NoteCreated(ids []world.NodeID) {
	for _, id := range ids {
		e.state(id).createdPending = true
	}
}

func (e *Engine) state(id world.NodeID) *nodeState {
	if e.states == nil {
		e.states = make(map[world.NodeID]*nodeState)
	}
	s, ok := e.states[id]
	if !ok {
		s = &nodeState{}
		e.states[id] = s
	}
	return s
}

type plannedSwap struct {
	source world.NodeID
	target world.NodeID
	mode   swapMode
	scene  *document.Scene
}

// Pass runs one trigger-and-swap cycle and returns the node ids the swaps
// materialized: newly created nodes plus outer-swap targets, whose content
// was wholly replaced. Unresolvable targets skip their swap with a warning;
// any other failure aborts the pass.
func (e *Engine) Pass(ctx context.Context, in PassInput) ([]world.NodeID, error) {
	log := ctxlog.FromContext(ctx)

	interacted := make(map[world.NodeID]bool, len(in.Interactions))
	for _, id := range in.Interactions {
		interacted[id] = true
	}
	events := make(map[string]bool, len(in.Events))
	for _, name := range in.Events {
		events[name] = true
	}

	// Phase one: evaluate and call against the pre-pass graph.
	var plans []plannedSwap
	for _, id := range e.World.NodeIDs() {
		t, ok, err := e.decodeTrigger(id)
		if err != nil {
			return nil, err
		}
		if !ok || !e.due(id, t, in.Now, interacted, events) {
			continue
		}

		out, err := e.Funcs.Call(ctx, e.World, t.fn, e.Unit)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		scene, ok := out.Opaque().(*document.Scene)
		if !ok {
			return nil, &NotADocumentError{Function: t.fn}
		}

		target, err := e.resolveTarget(id, t)
		if err != nil {
			log.Warn("Skipping swap with unresolved target.", "error", err)
			continue
		}
		plans = append(plans, plannedSwap{source: id, target: target, mode: t.swap, scene: scene})
	}

	// Phase two: apply swaps in the order they were planned.
	var created []world.NodeID
	for _, p := range plans {
		if !e.World.Exists(p.target) {
			log.Warn("Skipping swap: target removed by an earlier swap.",
				"source", uint64(p.source), "target", uint64(p.target))
			continue
		}
		ids, err := e.applySwap(ctx, p)
		if err != nil {
			return created, err
		}
		created = append(created, ids...)
	}

	e.prune()
	e.NoteCreated(created)
	return created, nil
}

func (e *Engine) due(id world.NodeID, t trigger, now time.Time, interacted map[world.NodeID]bool, events map[string]bool) bool {
	switch t.on {
	case onCreate:
		s := e.state(id)
		if s.createdPending {
			s.createdPending = false
			return true
		}
		return false
	case onEveryTick:
		return true
	case onInterval:
		s := e.state(id)
		if !s.intervalSeen {
			s.intervalSeen = true
			s.lastFired = now
			return false
		}
		if now.Sub(s.lastFired) >= t.interval {
			s.lastFired = now
			return true
		}
		return false
	case onEvent:
		return events[t.event]
	default:
		return interacted[id]
	}
}

func (e *Engine) resolveTarget(id world.NodeID, t trigger) (world.NodeID, error) {
	switch t.target {
	case targetName:
		tid, ok := e.World.ResolveName(t.targetName)
		if !ok || !e.World.Exists(tid) {
			return 0, &UnresolvedTargetError{Source: uint64(id), Target: fmt.Sprintf("name %q", t.targetName)}
		}
		return tid, nil
	case targetSibling:
		parent, ok := e.World.Parent(id)
		if !ok {
			return 0, &UnresolvedTargetError{Source: uint64(id), Target: "sibling"}
		}
		siblings := e.World.Children(parent)
		for i, c := range siblings {
			if c != id {
				continue
			}
			if i+1 < len(siblings) {
				return siblings[i+1], nil
			}
			if i > 0 {
				return siblings[i-1], nil
			}
			return 0, &UnresolvedTargetError{Source: uint64(id), Target: "sibling"}
		}
		return 0, &UnresolvedTargetError{Source: uint64(id), Target: "sibling"}
	case targetRoot:
		return e.World.Root(id), nil
	default:
		return id, nil
	}
}

func (e *Engine) applySwap(ctx context.Context, p plannedSwap) ([]world.NodeID, error) {
	root := p.scene.Root()
	switch p.mode {
	case swapOuter:
		// The target keeps its identity; its content and facets are replaced.
		// The target counts as newly materialized: its swapped-in facets may
		// carry Create triggers or a document placeholder that still needs
		// assembling this tick.
		e.World.RemoveChildren(p.target)
		e.World.ClearFacets(p.target)
		ids, err := e.Asm.Assemble(ctx, root, p.target)
		if err != nil {
			return nil, err
		}
		return append([]world.NodeID{p.target}, ids...), nil

	case swapInner:
		e.World.RemoveChildren(p.target)
		return e.assembleChild(ctx, p.target, root, false)

	case swapPrepend:
		return e.assembleChild(ctx, p.target, root, true)

	default: // swapAppend
		return e.assembleChild(ctx, p.target, root, false)
	}
}

func (e *Engine) assembleChild(ctx context.Context, parent world.NodeID, root *document.Element, front bool) ([]world.NodeID, error) {
	cid := e.World.CreateNode()
	var err error
	if front {
		err = e.World.PrependChild(parent, cid)
	} else {
		err = e.World.AppendChild(parent, cid)
	}
	if err != nil {
		e.World.RemoveSubtree(cid)
		return nil, err
	}
	ids, err := e.Asm.Assemble(ctx, root, cid)
	if err != nil {
		e.World.RemoveSubtree(cid)
		return nil, err
	}
	return append([]world.NodeID{cid}, ids...), nil
}

// prune drops state for nodes that no longer exist.
func (e *Engine) prune() {
	for id := range e.states {
		if !e.World.Exists(id) {
			delete(e.states, id)
		}
	}
}

// Reset clears all trigger state.
func (e *Engine) Reset() {
	e.states = nil
}

func (e *Engine) typeID(name string) facet.TypeID {
	d, err := e.Types.Lookup(name)
	if err != nil {
		return facet.Invalid
	}
	return d.ID()
}
