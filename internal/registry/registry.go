// Package registry implements the process-wide type registry: type names map
// to descriptors carrying shape information and construction capabilities
// (default factory, value parser, template expansion). Registration happens
// once at startup; duplicate or dangling registrations are programmer errors
// and panic, matching how module wiring mistakes should surface.
package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vk/htmlscene/internal/facet"
)

// Registry holds all registered type descriptors for one engine instance.
type Registry struct {
	byName map[string]*Descriptor
	byID   []*Descriptor // index == facet.TypeID; slot 0 unused
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*Descriptor),
		byID:   []*Descriptor{nil},
	}
}

// Register adds a descriptor, assigns its type id, and returns it.
func (r *Registry) Register(d *Descriptor) *Descriptor {
	if d.Name == "" {
		panic("registry: descriptor must have a name")
	}
	if _, exists := r.byName[d.Name]; exists {
		panic(fmt.Sprintf("registry: type %q already registered", d.Name))
	}
	d.id = facet.TypeID(len(r.byID))
	r.byID = append(r.byID, d)
	r.byName[d.Name] = d
	slog.Debug("Registering type.", "name", d.Name, "id", int(d.id))
	return d
}

// RegisterDefault attaches a default factory to a registered type.
func (r *Registry) RegisterDefault(name string, fn DefaultFunc) {
	r.mustGet(name).defaultFn = fn
}

// RegisterParser attaches a value parser to a registered leaf type.
func (r *Registry) RegisterParser(name string, fn ParseFunc) {
	r.mustGet(name).parseFn = fn
}

// RegisterTemplate flags a registered type as a template and attaches its
// expansion.
func (r *Registry) RegisterTemplate(name string, fn TemplateFunc) {
	r.mustGet(name).templateFn = fn
}

func (r *Registry) mustGet(name string) *Descriptor {
	d, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("registry: capability registered for unknown type %q", name))
	}
	return d
}

// Lookup resolves a type name to its descriptor. The generic suffix form
// "Base:Param" is rewritten to the synthesized name "Base<Param>" first; the
// parameter must itself name a registered type.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	resolved := name
	if base, param, ok := strings.Cut(name, ":"); ok {
		if _, known := r.byName[param]; !known {
			return nil, &InvalidParamTypeError{Attr: name, Param: param}
		}
		resolved = base + "<" + param + ">"
	}
	d, ok := r.byName[resolved]
	if !ok {
		return nil, &UnknownTypeError{Name: resolved}
	}
	return d, nil
}

// ByID resolves a type id to its descriptor.
func (r *Registry) ByID(id facet.TypeID) (*Descriptor, bool) {
	if id <= 0 || int(id) >= len(r.byID) {
		return nil, false
	}
	return r.byID[id], true
}

// TypeName returns the name for a type id, or a placeholder for unknown ids.
// Used in error messages.
func (r *Registry) TypeName(id facet.TypeID) string {
	if d, ok := r.ByID(id); ok {
		return d.Name
	}
	return fmt.Sprintf("type#%d", int(id))
}
