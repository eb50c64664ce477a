// Package document implements the declarative document notation: a tree of
// elements with ordered, optionally valued attributes. A document is the unit
// the assembler consumes and the unit named functions return as replacement
// content for live patches.
//
// The parser is hand-written. Both ecosystem candidates were unsuitable:
// HTML5 parsers lowercase tag and attribute names (destroying type names such
// as BackgroundColor) and XML parsers reject valueless attributes, which the
// notation relies on for default-constructed facets. Entity decoding is
// delegated to golang.org/x/net/html.
package document

// Attr is one attribute in document order. Value is nil when the attribute
// was written without a value, which constructs the type from its default.
type Attr struct {
	Name  string
	Value *string
}

// Element is one node of a parsed document.
type Element struct {
	Tag      string
	Attrs    []Attr
	ID       string // identifier from the reserved id attribute, "" if absent
	Text     string // literal text content, only meaningful with no child elements
	Children []*Element
}

// Attr returns the raw value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (*string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Scene is a parsed document plus the source text it came from.
type Scene struct {
	src  string
	root *Element
}

// New wraps a programmatically built element tree in a Scene.
func New(root *Element) *Scene {
	return &Scene{root: root}
}

// Root returns the document's root element.
func (s *Scene) Root() *Element { return s.root }

// String returns the source text the scene was parsed from, or "" for
// programmatic scenes.
func (s *Scene) String() string { return s.src }
