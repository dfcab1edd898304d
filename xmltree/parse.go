package xmltree

import (
	"bytes"
	"errors"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Parse builds a tree from a complete XML document and returns its
// document element. Comments, processing instructions and the doctype are
// dropped; CDATA sections become text runs.
func Parse(src []byte) (*Node, error) {
	b := &builder{src: src}
	if err := b.run(); err != nil {
		return nil, err
	}
	return b.root, nil
}

// ParseString is Parse for a string source.
func ParseString(src string) (*Node, error) {
	return Parse([]byte(src))
}

// builder drives the lexer and maintains the open-element stack.
type builder struct {
	src    []byte
	root   *Node
	stack  []*Node
	offset int

	// pending is an element whose start tag has been read but not closed.
	pending *Node
	inPI    bool
}

func (b *builder) run() error {
	lexer := xml.NewLexer(parse.NewInputBytes(b.src))

	for {
		tt, data := lexer.Next()
		start := b.offset
		b.offset += len(data)

		switch tt {
		case xml.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return newSyntaxError(b.src, start, "%v", err)
			}
			return b.finish()

		case xml.StartTagPIToken:
			b.inPI = true
		case xml.StartTagClosePIToken:
			b.inPI = false

		case xml.CommentToken, xml.DOCTYPEToken:
			// dropped

		case xml.StartTagToken:
			name := strings.TrimSpace(strings.TrimPrefix(string(data), "<"))
			if name == "" {
				return newSyntaxError(b.src, start, "start tag without a name")
			}
			if b.root != nil && len(b.stack) == 0 {
				return newSyntaxError(b.src, start, "element <%s> after the document element", name)
			}
			b.pending = &Node{Tag: name, Offset: start}

		case xml.AttributeToken:
			if b.inPI {
				continue
			}
			if b.pending == nil {
				return newSyntaxError(b.src, start, "attribute outside of a start tag")
			}
			b.pending.Attrs = append(b.pending.Attrs, Attr{
				Name:  string(lexer.Text()),
				Value: html.UnescapeString(unquote(lexer.AttrVal())),
			})

		case xml.StartTagCloseToken:
			if b.pending == nil {
				continue
			}
			b.open(b.pending)
			b.pending = nil

		case xml.StartTagCloseVoidToken:
			if b.pending == nil {
				continue
			}
			b.open(b.pending)
			b.pending = nil
			b.stack = b.stack[:len(b.stack)-1]

		case xml.EndTagToken:
			name := string(data)
			name = strings.TrimPrefix(name, "</")
			name = strings.TrimSpace(strings.TrimSuffix(name, ">"))
			if len(b.stack) == 0 {
				return newSyntaxError(b.src, start, "unexpected end tag </%s>", name)
			}
			top := b.stack[len(b.stack)-1]
			if top.Tag != name {
				return newSyntaxError(b.src, start, "end tag </%s> does not match <%s>", name, top.Tag)
			}
			b.stack = b.stack[:len(b.stack)-1]

		case xml.CDATAToken:
			text := bytes.TrimPrefix(data, []byte("<![CDATA["))
			text = bytes.TrimSuffix(text, []byte("]]>"))
			if err := b.text(start, string(text)); err != nil {
				return err
			}

		case xml.TextToken:
			if err := b.text(start, html.UnescapeString(string(data))); err != nil {
				return err
			}
		}
	}
}

// open attaches n to the current parent and pushes it.
func (b *builder) open(n *Node) {
	if len(b.stack) == 0 {
		b.root = n
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.Children = append(parent.Children, n)
	}
	b.stack = append(b.stack, n)
}

func (b *builder) text(offset int, s string) error {
	if len(b.stack) == 0 {
		if strings.TrimSpace(s) != "" {
			return newSyntaxError(b.src, offset, "character data outside of the document element")
		}
		return nil
	}
	parent := b.stack[len(b.stack)-1]

	// Merge adjacent runs (text followed by CDATA, for example).
	if n := len(parent.Children); n > 0 && parent.Children[n-1].IsText() {
		parent.Children[n-1].Text += s
		return nil
	}
	parent.Children = append(parent.Children, &Node{Text: s, Offset: offset})
	return nil
}

func (b *builder) finish() error {
	if b.pending != nil {
		return newSyntaxError(b.src, b.pending.Offset, "start tag <%s> is never terminated", b.pending.Tag)
	}
	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		return newSyntaxError(b.src, top.Offset, "element <%s> is never closed", top.Tag)
	}
	if b.root == nil {
		return newSyntaxError(b.src, b.offset, "document has no root element")
	}
	return nil
}

// unquote strips the delimiters the lexer leaves around attribute values.
func unquote(v []byte) string {
	if len(v) >= 2 {
		q := v[0]
		if (q == '"' || q == '\'') && v[len(v)-1] == q {
			return string(v[1 : len(v)-1])
		}
	}
	return string(v)
}
