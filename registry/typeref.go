package registry

import (
	"regexp"
	"strings"

	"github.com/gogpu/glgen/xmltree"
)

// maxPointerDepth is the deepest pointer chain the registry format uses
// (const GLchar *const*, void **).
const maxPointerDepth = 2

const structKeyword = "struct"

var arraySuffix = regexp.MustCompile(`^\[\s*\w+\s*\]$`)

type typeToken struct {
	text   string
	isName bool // identifier (from text or a <ptype> element)
}

// parseDecl reads a <proto> or <param> element: C type tokens, then a
// <name> element, then an optional array suffix. It returns the declared
// type and identifier.
func parseDecl(n *xmltree.Node) (TypeRef, string, error) {
	var (
		tokens   []typeToken
		declName string
		seenName bool
		trailing strings.Builder
	)

	for _, c := range n.Children {
		switch {
		case seenName && c.IsText():
			trailing.WriteString(c.Text)
		case seenName:
			return nil, "", newErrorAt(ErrUnexpectedTag, c.Offset,
				"<%s> after <name> in <%s>", c.Tag, n.Tag)
		case c.IsText():
			toks, err := splitTypeText(c.Text)
			if err != nil {
				return nil, "", newErrorAt(ErrUnclassifiableType, c.Offset, "%v in <%s>", err, n.Tag)
			}
			tokens = append(tokens, toks...)
		case c.Tag == "ptype":
			name := strings.TrimSpace(c.InnerText())
			if name == "" {
				return nil, "", newErrorAt(ErrMissingAttribute, c.Offset, "empty <ptype>")
			}
			tokens = append(tokens, typeToken{text: name, isName: true})
		case c.Tag == "name":
			declName = strings.TrimSpace(c.InnerText())
			seenName = true
		default:
			return nil, "", newErrorAt(ErrUnexpectedTag, c.Offset, "unexpected <%s> in <%s>", c.Tag, n.Tag)
		}
	}

	if !seenName || declName == "" {
		return nil, "", newErrorAt(ErrMissingAttribute, n.Offset, "<%s> has no <name>", n.Tag)
	}

	arrayLevels := 0
	if suffix := strings.TrimSpace(trailing.String()); suffix != "" {
		if !arraySuffix.MatchString(suffix) {
			return nil, "", newErrorAt(ErrUnclassifiableType, n.Offset,
				"unexpected %q after %s", suffix, declName)
		}
		arrayLevels = 1
	}

	typ, err := classifyType(tokens, arrayLevels)
	if err != nil {
		return nil, "", newErrorAt(ErrUnclassifiableType, n.Offset, "%s: %v", declName, err)
	}
	return typ, declName, nil
}

// splitTypeText breaks declaration text into identifiers and '*' tokens.
func splitTypeText(s string) ([]typeToken, error) {
	var tokens []typeToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '*':
			tokens = append(tokens, typeToken{text: "*"})
			i++
		case isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			word := s[i:j]
			tokens = append(tokens, typeToken{text: word, isName: word != "const" && word != structKeyword})
			i = j
		default:
			return nil, &classifyError{text: s}
		}
	}
	return tokens, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

type classifyError struct {
	text string
}

func (e *classifyError) Error() string {
	return "cannot classify type " + strings.Join(strings.Fields(e.text), " ")
}

// classifyType folds [const] [struct] Name [const] (* [const])* into a
// TypeRef. The struct keyword is dropped: gl.xml spells the CL handles
// "struct <ptype>_cl_context</ptype> *". extraLevels adds pointer levels
// for array declarators.
func classifyType(tokens []typeToken, extraLevels int) (TypeRef, error) {
	fail := func() error {
		parts := make([]string, len(tokens))
		for i, t := range tokens {
			parts[i] = t.text
		}
		return &classifyError{text: strings.Join(parts, " ")}
	}

	i := 0
	pointeeConst := false
	if i < len(tokens) && tokens[i].text == "const" {
		pointeeConst = true
		i++
	}
	if i+1 < len(tokens) && tokens[i].text == structKeyword && tokens[i+1].isName {
		i++
	}
	if i >= len(tokens) || !tokens[i].isName {
		return nil, fail()
	}
	var typ TypeRef = NamedType{Name: tokens[i].text}
	i++
	if i < len(tokens) && tokens[i].text == "const" {
		pointeeConst = true
		i++
	}

	depth := 0
	for i < len(tokens) {
		if tokens[i].text != "*" {
			return nil, fail()
		}
		i++
		typ = PointerType{Elem: typ, Const: pointeeConst}
		depth++

		// A const after '*' qualifies the pointer just built, which is
		// the pointee of the next level.
		pointeeConst = false
		if i < len(tokens) && tokens[i].text == "const" {
			pointeeConst = true
			i++
		}
	}

	for range extraLevels {
		typ = PointerType{Elem: typ, Const: pointeeConst}
		pointeeConst = false
		depth++
	}

	if depth > maxPointerDepth {
		return nil, fail()
	}
	return typ, nil
}
