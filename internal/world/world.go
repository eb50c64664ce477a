// Package world is the in-process object store: it owns node identities,
// their facet sets, the parent/child topology, and the identifier name index.
//
// The store is deliberately unsynchronized. Construction, deserialization,
// and patching run as one synchronous pass per host tick with a single
// writer; a host that wants multi-threaded scheduling must serialize access
// behind one coordinating pass.
package world

import (
	"fmt"
	"sort"

	"github.com/vk/htmlscene/internal/facet"
)

// NodeID is a stable node identity. Zero is never assigned.
type NodeID uint64

// World holds the live object graph for one scene.
type World struct {
	nextID NodeID
	nodes  map[NodeID]*node
	names  map[string]NodeID
}

type node struct {
	parent   NodeID
	children []NodeID
	facets   map[facet.TypeID]*facet.Value
	order    []facet.TypeID
}

// New creates an empty world.
func New() *World {
	return &World{
		nodes: make(map[NodeID]*node),
		names: make(map[string]NodeID),
	}
}

// CreateNode allocates a fresh identity with no facets and no children.
func (w *World) CreateNode() NodeID {
	w.nextID++
	id := w.nextID
	w.nodes[id] = &node{facets: make(map[facet.TypeID]*facet.Value)}
	return id
}

// Exists reports whether id names a live node.
func (w *World) Exists(id NodeID) bool {
	_, ok := w.nodes[id]
	return ok
}

// AttachFacet attaches an instance to a node, keyed by the instance's type
// id. A node holds at most one facet per type: last write wins, keeping the
// original attachment position.
func (w *World) AttachFacet(id NodeID, v *facet.Value) error {
	n, ok := w.nodes[id]
	if !ok {
		return fmt.Errorf("world: unknown node %d", id)
	}
	if v.Type() == facet.Invalid {
		return fmt.Errorf("world: facet without a type id on node %d", id)
	}
	if _, exists := n.facets[v.Type()]; !exists {
		n.order = append(n.order, v.Type())
	}
	n.facets[v.Type()] = v
	return nil
}

// DetachFacet removes the facet of the given type, if present.
func (w *World) DetachFacet(id NodeID, t facet.TypeID) {
	n, ok := w.nodes[id]
	if !ok {
		return
	}
	if _, exists := n.facets[t]; !exists {
		return
	}
	delete(n.facets, t)
	for i, ot := range n.order {
		if ot == t {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// Facet returns the node's facet of the given type.
func (w *World) Facet(id NodeID, t facet.TypeID) (*facet.Value, bool) {
	n, ok := w.nodes[id]
	if !ok {
		return nil, false
	}
	v, ok := n.facets[t]
	return v, ok
}

// FacetTypes returns the node's facet type ids in attachment order.
func (w *World) FacetTypes(id NodeID) []facet.TypeID {
	n, ok := w.nodes[id]
	if !ok {
		return nil
	}
	out := make([]facet.TypeID, len(n.order))
	copy(out, n.order)
	return out
}

// ClearFacets discards the node's entire facet set.
func (w *World) ClearFacets(id NodeID) {
	if n, ok := w.nodes[id]; ok {
		n.facets = make(map[facet.TypeID]*facet.Value)
		n.order = nil
	}
}

// AppendChild appends child to parent's ordered children.
func (w *World) AppendChild(parent, child NodeID) error {
	return w.insertChild(parent, child, false)
}

// PrependChild inserts child at the front of parent's ordered children.
func (w *World) PrependChild(parent, child NodeID) error {
	return w.insertChild(parent, child, true)
}

func (w *World) insertChild(parent, child NodeID, front bool) error {
	p, ok := w.nodes[parent]
	if !ok {
		return fmt.Errorf("world: unknown parent node %d", parent)
	}
	c, ok := w.nodes[child]
	if !ok {
		return fmt.Errorf("world: unknown child node %d", child)
	}
	if c.parent != 0 {
		return fmt.Errorf("world: node %d already has a parent", child)
	}
	c.parent = parent
	if front {
		p.children = append([]NodeID{child}, p.children...)
	} else {
		p.children = append(p.children, child)
	}
	return nil
}

// Children returns a copy of the node's ordered children.
func (w *World) Children(id NodeID) []NodeID {
	n, ok := w.nodes[id]
	if !ok {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Parent returns the node's parent identity, false at a root.
func (w *World) Parent(id NodeID) (NodeID, bool) {
	n, ok := w.nodes[id]
	if !ok || n.parent == 0 {
		return 0, false
	}
	return n.parent, true
}

// Root walks parent links up from id.
func (w *World) Root(id NodeID) NodeID {
	for {
		p, ok := w.Parent(id)
		if !ok {
			return id
		}
		id = p
	}
}

// RemoveSubtree destroys a node and all its descendants, detaching it from
// its parent. Name index entries pointing into the removed subtree are not
// pruned; they go stale by design.
func (w *World) RemoveSubtree(id NodeID) {
	n, ok := w.nodes[id]
	if !ok {
		return
	}
	if n.parent != 0 {
		if p, ok := w.nodes[n.parent]; ok {
			for i, c := range p.children {
				if c == id {
					p.children = append(p.children[:i], p.children[i+1:]...)
					break
				}
			}
		}
	}
	w.removeRec(id)
}

func (w *World) removeRec(id NodeID) {
	n, ok := w.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.children {
		w.removeRec(c)
	}
	delete(w.nodes, id)
}

// RemoveChildren destroys all of the node's child subtrees, keeping the node.
func (w *World) RemoveChildren(id NodeID) {
	n, ok := w.nodes[id]
	if !ok {
		return
	}
	children := n.children
	n.children = nil
	for _, c := range children {
		w.removeRec(c)
	}
}

// SetName registers an identifier for a node. Collisions are resolved last
// registration wins: the newest entry shadows earlier ones.
func (w *World) SetName(name string, id NodeID) {
	w.names[name] = id
}

// DeleteName removes an identifier registration.
func (w *World) DeleteName(name string) {
	delete(w.names, name)
}

// ResolveName looks up a node by identifier. The entry may be stale: the
// caller must check the identity still exists.
func (w *World) ResolveName(name string) (NodeID, bool) {
	id, ok := w.names[name]
	return id, ok
}

// NodeIDs returns all live identities in ascending order, giving passes a
// fixed iteration order.
func (w *World) NodeIDs() []NodeID {
	out := make([]NodeID, 0, len(w.nodes))
	for id := range w.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset discards all nodes and name registrations. Identity allocation
// continues from where it was so stale ids never alias new nodes.
func (w *World) Reset() {
	w.nodes = make(map[NodeID]*node)
	w.names = make(map[string]NodeID)
}
