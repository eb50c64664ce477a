package patch

import (
	"fmt"
	"time"

	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/world"
)

// Trigger facet type names. The patch engine resolves them by name so the
// module that registers them can load in any order; a world without them
// simply has no triggering nodes.
const (
	typeFn     = "Fn"
	typeOn     = "On"
	typeSwap   = "Swap"
	typeTarget = "Target"
)

type onKind int

const (
	onInteraction onKind = iota // default
	onCreate
	onEveryTick
	onInterval
	onEvent
)

type swapMode int

const (
	swapOuter swapMode = iota // default
	swapInner
	swapPrepend
	swapAppend
)

type targetKind int

const (
	targetThis targetKind = iota // default
	targetName
	targetSibling
	targetRoot
)

// trigger is one node's decoded patch configuration.
type trigger struct {
	fn string

	on       onKind
	interval time.Duration // onInterval
	event    string        // onEvent

	swap swapMode

	target     targetKind
	targetName string // targetName
}

// decodeTrigger reads a node's trigger facets. ok is false when the node
// carries no Fn facet: such nodes never trigger. Absent On, Swap, and Target
// facets fall back to Interaction, Outer, and This.
func (e *Engine) decodeTrigger(id world.NodeID) (trigger, bool, error) {
	t := trigger{}

	fnID := e.typeID(typeFn)
	if fnID == facet.Invalid {
		return t, false, nil
	}
	fv, ok := e.World.Facet(id, fnID)
	if !ok {
		return t, false, nil
	}
	name, err := tupleString(fv)
	if err != nil {
		return t, false, fmt.Errorf("node %d: Fn facet: %w", id, err)
	}
	t.fn = name

	if ov, ok := e.facetOf(id, typeOn); ok {
		switch ov.Variant() {
		case "Create":
			t.on = onCreate
		case "EveryTick":
			t.on = onEveryTick
		case "Every":
			t.on = onInterval
			secs, err := payloadFloat(ov)
			if err != nil {
				return t, false, fmt.Errorf("node %d: On facet: %w", id, err)
			}
			t.interval = time.Duration(secs * float64(time.Second))
		case "Interaction":
			t.on = onInteraction
		case "Event":
			t.on = onEvent
			name, err := payloadString(ov)
			if err != nil {
				return t, false, fmt.Errorf("node %d: On facet: %w", id, err)
			}
			t.event = name
		default:
			return t, false, fmt.Errorf("node %d: On facet: unknown variant %q", id, ov.Variant())
		}
	}

	if sv, ok := e.facetOf(id, typeSwap); ok {
		switch sv.Variant() {
		case "Outer":
			t.swap = swapOuter
		case "Inner":
			t.swap = swapInner
		case "Prepend":
			t.swap = swapPrepend
		case "Append":
			t.swap = swapAppend
		default:
			return t, false, fmt.Errorf("node %d: Swap facet: unknown variant %q", id, sv.Variant())
		}
	}

	if tv, ok := e.facetOf(id, typeTarget); ok {
		switch tv.Variant() {
		case "This":
			t.target = targetThis
		case "Name":
			t.target = targetName
			name, err := payloadString(tv)
			if err != nil {
				return t, false, fmt.Errorf("node %d: Target facet: %w", id, err)
			}
			t.targetName = name
		case "Sibling":
			t.target = targetSibling
		case "Root":
			t.target = targetRoot
		default:
			return t, false, fmt.Errorf("node %d: Target facet: unknown variant %q", id, tv.Variant())
		}
	}

	return t, true, nil
}

func (e *Engine) facetOf(id world.NodeID, typeName string) (*facet.Value, bool) {
	tid := e.typeID(typeName)
	if tid == facet.Invalid {
		return nil, false
	}
	return e.World.Facet(id, tid)
}

func tupleString(v *facet.Value) (string, error) {
	if v.Kind() != facet.KindTuple || v.Len() != 1 {
		return "", fmt.Errorf("expected a single-element tuple, got %s", v.Kind())
	}
	s, ok := v.Elem(0).Opaque().(string)
	if !ok {
		return "", fmt.Errorf("expected a string element")
	}
	return s, nil
}

func payloadString(v *facet.Value) (string, error) {
	p := v.Payload()
	if p == nil {
		return "", fmt.Errorf("variant %q requires a string payload", v.Variant())
	}
	s, ok := p.Opaque().(string)
	if !ok {
		return "", fmt.Errorf("variant %q requires a string payload", v.Variant())
	}
	return s, nil
}

func payloadFloat(v *facet.Value) (float64, error) {
	p := v.Payload()
	if p == nil {
		return 0, fmt.Errorf("variant %q requires a numeric payload", v.Variant())
	}
	switch n := p.Opaque().(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	}
	return 0, fmt.Errorf("variant %q requires a numeric payload", v.Variant())
}
