// Package xmltree turns an XML document into a navigable tree of tagged,
// attributed nodes.
//
// The tree keeps mixed content: text between elements is stored as child
// nodes with an empty Tag, so callers can read declarations such as
//
//	<param>const <ptype>GLchar</ptype> *<name>source</name></param>
//
// token by token in document order.
package xmltree

import "strings"

// Attr is a single attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// Node is an element or a text run.
type Node struct {
	// Tag is the element name, or "" for text nodes.
	Tag string

	// Attrs holds the element's attributes in document order.
	Attrs []Attr

	// Children holds nested elements and text runs in document order.
	Children []*Node

	// Text is the decoded character data of a text node.
	Text string

	// Offset is the byte offset of the node in the source document.
	Offset int
}

// IsText reports whether n is a text run.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of the named attribute or def when it is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Elements returns the element children of n, skipping text runs.
func (n *Node) Elements() []*Node {
	elems := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsText() {
			elems = append(elems, c)
		}
	}
	return elems
}

// Child returns the first element child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns every element child with the given tag.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// InnerText returns the concatenated text of n and all of its descendants.
func (n *Node) InnerText() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		if c.IsText() {
			sb.WriteString(c.Text)
			continue
		}
		c.writeText(sb)
	}
}
