package document

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ParseError describes malformed document text.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Parse parses document text into a Scene. The document must contain exactly
// one root element; leading/trailing whitespace and comments are ignored.
func Parse(src string) (*Scene, error) {
	p := &docParser{src: src}
	p.skipJunk()
	root, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	p.skipJunk()
	if p.pos < len(p.src) {
		return nil, &ParseError{p.pos, "content after root element"}
	}
	return &Scene{src: src, root: root}, nil
}

// MustParse is Parse for static documents known to be well formed, such as
// template bodies registered at startup.
func MustParse(src string) *Scene {
	s, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return s
}

type docParser struct {
	src string
	pos int
}

func (p *docParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

// skipJunk skips whitespace, comments, and declarations between elements.
func (p *docParser) skipJunk() {
	for {
		p.skipSpace()
		if strings.HasPrefix(p.src[p.pos:], "<!--") {
			end := strings.Index(p.src[p.pos+4:], "-->")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += 4 + end + 3
			continue
		}
		if strings.HasPrefix(p.src[p.pos:], "<!") {
			end := strings.IndexByte(p.src[p.pos:], '>')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
			continue
		}
		return
	}
}

func (p *docParser) parseElement() (*Element, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return nil, &ParseError{p.pos, "expected element"}
	}
	p.pos++
	tag, err := p.parseName("tag name")
	if err != nil {
		return nil, err
	}
	el := &Element{Tag: tag}

	// Attributes up to '>' or '/>'.
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, &ParseError{p.pos, "unterminated element"}
		}
		if strings.HasPrefix(p.src[p.pos:], "/>") {
			p.pos += 2
			return el, nil
		}
		if p.src[p.pos] == '>' {
			p.pos++
			break
		}
		name, err := p.parseName("attribute name")
		if err != nil {
			return nil, err
		}
		var value *string
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '=' {
			p.pos++
			p.skipSpace()
			raw, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			decoded := html.UnescapeString(raw)
			value = &decoded
		}
		if name == "id" {
			if value != nil {
				el.ID = *value
			}
			continue
		}
		el.Attrs = append(el.Attrs, Attr{Name: name, Value: value})
	}

	// Children and text until the close tag.
	var text strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, &ParseError{p.pos, fmt.Sprintf("missing close tag for <%s>", tag)}
		}
		if strings.HasPrefix(p.src[p.pos:], "</") {
			p.pos += 2
			close, err := p.parseName("close tag name")
			if err != nil {
				return nil, err
			}
			if close != tag {
				return nil, &ParseError{p.pos, fmt.Sprintf("close tag </%s> does not match <%s>", close, tag)}
			}
			p.skipSpace()
			if p.pos >= len(p.src) || p.src[p.pos] != '>' {
				return nil, &ParseError{p.pos, "malformed close tag"}
			}
			p.pos++
			el.Text = strings.TrimSpace(html.UnescapeString(text.String()))
			return el, nil
		}
		if strings.HasPrefix(p.src[p.pos:], "<!--") || strings.HasPrefix(p.src[p.pos:], "<!") {
			p.skipJunk()
			continue
		}
		if p.src[p.pos] == '<' {
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
			continue
		}
		end := strings.IndexByte(p.src[p.pos:], '<')
		if end < 0 {
			return nil, &ParseError{p.pos, fmt.Sprintf("missing close tag for <%s>", tag)}
		}
		text.WriteString(p.src[p.pos : p.pos+end])
		p.pos += end
	}
}

func (p *docParser) parseName(what string) (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c == '-' || c == ':' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", &ParseError{start, "expected " + what}
	}
	return p.src[start:p.pos], nil
}

func (p *docParser) parseQuoted() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '"' && p.src[p.pos] != '\'' {
		return "", &ParseError{p.pos, "expected quoted attribute value"}
	}
	quote := p.src[p.pos]
	p.pos++
	end := strings.IndexByte(p.src[p.pos:], quote)
	if end < 0 {
		return "", &ParseError{p.pos, "unterminated attribute value"}
	}
	raw := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	return raw, nil
}
