// Package assemble walks a parsed document tree and materializes it in the
// world: one node per element, one constructed facet per attribute, children
// in document order. Assembly is transactional per call: any failure rolls
// back every node, facet, and name registration the call made.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/htmlscene/internal/construct"
	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/registry"
	"github.com/vk/htmlscene/internal/world"
)

// Reserved attribute and tag names with assembly-time meaning. They are not
// looked up in the type registry.
const (
	tagEntity     = "Entity"    // bare node, attaches nothing
	attrOverride  = "x"         // value for the tag-position entry
	nameTextStyle = "TextStyle" // styling record inherited by text content
	nameText      = "Text"      // facet synthesized for text content
	nameString    = "string"
)

// Assembler materializes documents into a world.
type Assembler struct {
	Types *registry.Registry
	World *world.World
	Des   *construct.Deserializer
}

// Assemble builds the element subtree into the target node: the root
// element's facets attach to target itself and child elements become fresh
// descendant nodes. It returns every node id the call created, in creation
// order. On error the world is restored to its state before the call.
func (a *Assembler) Assemble(ctx context.Context, root *document.Element, target world.NodeID) ([]world.NodeID, error) {
	if !a.World.Exists(target) {
		return nil, fmt.Errorf("assemble: unknown target node %d", target)
	}
	s := &session{}
	if err := a.element(ctx, s, target, root, nil); err != nil {
		a.rollback(s)
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Assembled subtree.", "target", uint64(target), "created", len(s.created))
	return s.created, nil
}

type facetRecord struct {
	id      world.NodeID
	typ     facet.TypeID
	prev    *facet.Value
	hadPrev bool
}

type nameRecord struct {
	name    string
	prev    world.NodeID
	hadPrev bool
}

type session struct {
	created []world.NodeID
	facets  []facetRecord
	names   []nameRecord
}

func (a *Assembler) rollback(s *session) {
	for i := len(s.names) - 1; i >= 0; i-- {
		r := s.names[i]
		if r.hadPrev {
			a.World.SetName(r.name, r.prev)
		} else {
			a.World.DeleteName(r.name)
		}
	}
	for i := len(s.facets) - 1; i >= 0; i-- {
		r := s.facets[i]
		if !a.World.Exists(r.id) {
			continue
		}
		if r.hadPrev {
			_ = a.World.AttachFacet(r.id, r.prev)
		} else {
			a.World.DetachFacet(r.id, r.typ)
		}
	}
	for i := len(s.created) - 1; i >= 0; i-- {
		a.World.RemoveSubtree(s.created[i])
	}
}

// element applies one document element to an existing node: attributes (tag
// first), identifier, then content.
func (a *Assembler) element(ctx context.Context, s *session, id world.NodeID, el *document.Element, style *facet.Value) error {
	style, err := a.attributes(ctx, s, id, el, style)
	if err != nil {
		return err
	}

	if el.ID != "" {
		prev, had := a.World.ResolveName(el.ID)
		s.names = append(s.names, nameRecord{name: el.ID, prev: prev, hadPrev: had})
		a.World.SetName(el.ID, id)
	}

	if len(el.Children) == 0 {
		if text := strings.TrimSpace(el.Text); text != "" {
			if err := a.attachText(ctx, s, id, text, style); err != nil {
				return err
			}
		}
		return nil
	}
	for _, child := range el.Children {
		cid := a.World.CreateNode()
		s.created = append(s.created, cid)
		if err := a.World.AppendChild(id, cid); err != nil {
			return err
		}
		if err := a.element(ctx, s, cid, child, style); err != nil {
			return err
		}
	}
	return nil
}

// attributes constructs and attaches a facet per attribute, treating the tag
// as a leading valueless attribute. The reserved x attribute, when present,
// supplies the tag entry's value instead. Returns the text style in effect
// for the element's content.
func (a *Assembler) attributes(ctx context.Context, s *session, id world.NodeID, el *document.Element, style *facet.Value) (*facet.Value, error) {
	entries := make([]document.Attr, 0, len(el.Attrs)+1)
	tagEntry := document.Attr{Name: el.Tag}
	for _, attr := range el.Attrs {
		if attr.Name == attrOverride {
			tagEntry.Value = attr.Value
			continue
		}
		entries = append(entries, attr)
	}
	entries = append([]document.Attr{tagEntry}, entries...)

	for i, entry := range entries {
		if entry.Name == tagEntity {
			continue
		}
		desc, err := a.Types.Lookup(entry.Name)
		if err != nil {
			var unknown *registry.UnknownTypeError
			if i == 0 && errors.As(err, &unknown) {
				return nil, &UnknownTagError{Tag: el.Tag}
			}
			return nil, err
		}

		v, err := a.Des.Construct(ctx, desc, entry.Value)
		if err != nil {
			return nil, err
		}

		if tmpl := desc.Template(); tmpl != nil {
			expanded, err := tmpl(v)
			if err != nil {
				return nil, fmt.Errorf("expanding template %q: %w", desc.Name, err)
			}
			style, err = a.expandTemplate(ctx, s, id, expanded, style)
			if err != nil {
				return nil, err
			}
			continue
		}

		if desc.Name == nameTextStyle {
			style = v
			continue
		}

		prev, had := a.World.Facet(id, desc.ID())
		s.facets = append(s.facets, facetRecord{id: id, typ: desc.ID(), prev: prev, hadPrev: had})
		if err := a.World.AttachFacet(id, v); err != nil {
			return nil, err
		}
	}
	return style, nil
}

// expandTemplate applies an expansion subtree to the same identity the
// template attribute appeared on: the expansion root's attributes attach
// inline and its children become children of that identity. The template
// facet itself is never attached.
func (a *Assembler) expandTemplate(ctx context.Context, s *session, id world.NodeID, el *document.Element, style *facet.Value) (*facet.Value, error) {
	style, err := a.attributes(ctx, s, id, el, style)
	if err != nil {
		return nil, err
	}
	for _, child := range el.Children {
		cid := a.World.CreateNode()
		s.created = append(s.created, cid)
		if err := a.World.AppendChild(id, cid); err != nil {
			return nil, err
		}
		if err := a.element(ctx, s, cid, child, style); err != nil {
			return nil, err
		}
	}
	return style, nil
}

// attachText synthesizes a Text facet for literal element content, carrying
// the nearest enclosing text style.
func (a *Assembler) attachText(ctx context.Context, s *session, id world.NodeID, text string, style *facet.Value) error {
	textDesc, err := a.Types.Lookup(nameText)
	if err != nil {
		return fmt.Errorf("text content needs a registered Text type: %w", err)
	}
	strDesc, err := a.Types.Lookup(nameString)
	if err != nil {
		return err
	}

	v, ok := textDesc.Default()
	if !ok {
		v = facet.NewStruct(textDesc.ID())
	}
	v.SetField("value", facet.NewOpaque(strDesc.ID(), text))
	if style != nil {
		v.SetField("style", style.Clone())
	} else if styleDesc, err := a.Types.Lookup(nameTextStyle); err == nil {
		if sv, ok := styleDesc.Default(); ok {
			v.SetField("style", sv)
		}
	}

	prev, had := a.World.Facet(id, textDesc.ID())
	s.facets = append(s.facets, facetRecord{id: id, typ: textDesc.ID(), prev: prev, hadPrev: had})
	return a.World.AttachFacet(id, v)
}
