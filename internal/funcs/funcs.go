// Package funcs implements the named function registry: a name-addressed
// dispatch table of callables with declared input and output type ids,
// checked at the call boundary.
//
// Each call checks the callable out of the table for the call's duration and
// checks it back in afterward. A function that tries to invoke itself by
// name therefore observes an absent entry and fails, rather than aliasing or
// deadlocking; this is a deliberate safety property, not a lock.
package funcs

import (
	"context"
	"log/slog"

	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/world"
)

// Callable is the Go side of a named function. It receives the mutable world
// and a type-checked input instance and produces an output instance.
type Callable func(ctx context.Context, w *world.World, in *facet.Value) (*facet.Value, error)

type entry struct {
	input  facet.TypeID
	output facet.TypeID
	fn     Callable // nil while checked out
}

// Registry is the dispatch table for one engine instance.
type Registry struct {
	table map[string]*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{table: make(map[string]*entry)}
}

// Register binds a name to a callable with declared input and output type
// ids. Names are unique; the last registration for a name wins.
func (r *Registry) Register(name string, input, output facet.TypeID, fn Callable) {
	if name == "" {
		panic("funcs: function must have a name")
	}
	if fn == nil {
		panic("funcs: nil callable for " + name)
	}
	if _, exists := r.table[name]; exists {
		slog.Debug("Replacing named function.", "name", name)
	} else {
		slog.Debug("Registering named function.", "name", name)
	}
	r.table[name] = &entry{input: input, output: output, fn: fn}
}

// Signature returns the declared input and output type ids for a name.
func (r *Registry) Signature(name string) (input, output facet.TypeID, ok bool) {
	e, exists := r.table[name]
	if !exists {
		return facet.Invalid, facet.Invalid, false
	}
	return e.input, e.output, true
}

// Call invokes a named function. It fails with UnknownFunction for
// unregistered names (including a name whose callable is currently checked
// out by an in-flight call) and TypeMismatch when the input's runtime type id
// disagrees with the declared input type id. A failed call is fatal to that
// call only.
func (r *Registry) Call(ctx context.Context, w *world.World, name string, in *facet.Value) (*facet.Value, error) {
	e, exists := r.table[name]
	if !exists || e.fn == nil {
		return nil, &UnknownFunctionError{Name: name}
	}
	actual := facet.Invalid
	if in != nil {
		actual = in.Type()
	}
	if actual != e.input {
		return nil, &TypeMismatchError{Function: name, Expected: e.input, Actual: actual}
	}

	// Check the callable out for the duration of the call.
	fn := e.fn
	e.fn = nil
	defer func() { e.fn = fn }()

	return fn(ctx, w, in)
}
