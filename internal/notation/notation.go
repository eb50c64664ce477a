// Package notation parses the compact literal syntax used in attribute
// values: numbers, double-quoted strings, bare tag names, variant calls like
// Px(10), parenthesized groups like (1, 2) or (width: Auto), and
// brace-delimited field maps like {count: 3}. The parser produces an untyped
// syntax tree; the construct package interprets it against a type descriptor.
package notation

import "fmt"

// Kind discriminates syntax nodes.
type Kind int

const (
	KindNumber Kind = iota // numeric literal, raw text preserved
	KindString             // quoted string, Text holds the unescaped content
	KindIdent              // bare identifier: variant tag, bool, enum name
	KindCall               // Ident '(' entries ')'
	KindGroup              // '(' entries ')'
	KindMap                // '{' entries '}'
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindIdent:
		return "identifier"
	case KindCall:
		return "call"
	case KindGroup:
		return "group"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one parsed value.
type Node struct {
	Kind    Kind
	Text    string  // number text, unescaped string content, or ident/call name
	Entries []Entry // group, map, call arguments
}

// Entry is one element of a group, map, or call argument list. Key is empty
// for positional entries.
type Entry struct {
	Key   string
	Value Node
}

// Scalar reports whether the node is a bare literal whose text can feed a
// registered value parser.
func (n Node) Scalar() bool {
	switch n.Kind {
	case KindNumber, KindString, KindIdent:
		return true
	}
	return false
}

// Keyed reports whether the node carries at least one named entry.
func (n Node) Keyed() bool {
	for _, e := range n.Entries {
		if e.Key != "" {
			return true
		}
	}
	return false
}

// SyntaxError describes a malformed literal.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Parse parses src as a single value and requires the whole input to be
// consumed.
func Parse(src string) (Node, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.next(); err != nil {
		return Node{}, err
	}
	n, err := p.parseValue()
	if err != nil {
		return Node{}, err
	}
	if p.tok.kind != tokEOF {
		return Node{}, &SyntaxError{p.tok.offset, fmt.Sprintf("unexpected %s after value", p.tok.describe())}
	}
	return n, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) next() error {
	t, err := p.lex.scan()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) parseValue() (Node, error) {
	switch p.tok.kind {
	case tokNumber:
		n := Node{Kind: KindNumber, Text: p.tok.text}
		return n, p.next()
	case tokString:
		n := Node{Kind: KindString, Text: p.tok.text}
		return n, p.next()
	case tokIdent:
		name := p.tok.text
		if err := p.next(); err != nil {
			return Node{}, err
		}
		if p.tok.kind == tokLParen {
			entries, err := p.parseEntries(tokRParen)
			if err != nil {
				return Node{}, err
			}
			return Node{Kind: KindCall, Text: name, Entries: entries}, nil
		}
		return Node{Kind: KindIdent, Text: name}, nil
	case tokLParen:
		entries, err := p.parseEntries(tokRParen)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindGroup, Entries: entries}, nil
	case tokLBrace:
		entries, err := p.parseEntries(tokRBrace)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindMap, Entries: entries}, nil
	}
	return Node{}, &SyntaxError{p.tok.offset, fmt.Sprintf("unexpected %s, want a value", p.tok.describe())}
}

// parseEntries consumes the opening delimiter's content up to and including
// the matching close token. Entries are comma separated; a trailing comma is
// allowed.
func (p *parser) parseEntries(close tokenKind) ([]Entry, error) {
	if err := p.next(); err != nil { // consume opening delimiter
		return nil, err
	}
	var entries []Entry
	for {
		if p.tok.kind == close {
			return entries, p.next()
		}
		e, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		switch p.tok.kind {
		case tokComma:
			if err := p.next(); err != nil {
				return nil, err
			}
		case close:
			// closing handled at loop top
		default:
			return nil, &SyntaxError{p.tok.offset, fmt.Sprintf("unexpected %s, want ',' or closing delimiter", p.tok.describe())}
		}
	}
}

// parseEntry parses `ident: value` or a bare positional value. Distinguishing
// the two needs one token of lookahead past an identifier.
func (p *parser) parseEntry() (Entry, error) {
	if p.tok.kind == tokIdent {
		name := p.tok.text
		if err := p.next(); err != nil {
			return Entry{}, err
		}
		switch p.tok.kind {
		case tokColon:
			if err := p.next(); err != nil {
				return Entry{}, err
			}
			v, err := p.parseValue()
			if err != nil {
				return Entry{}, err
			}
			return Entry{Key: name, Value: v}, nil
		case tokLParen:
			entries, err := p.parseEntries(tokRParen)
			if err != nil {
				return Entry{}, err
			}
			return Entry{Value: Node{Kind: KindCall, Text: name, Entries: entries}}, nil
		default:
			return Entry{Value: Node{Kind: KindIdent, Text: name}}, nil
		}
	}
	v, err := p.parseValue()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Value: v}, nil
}
