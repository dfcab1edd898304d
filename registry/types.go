package registry

import "strings"

// TypeRef is the type of a command parameter or return value.
// It is a closed set: NamedType or PointerType.
type TypeRef interface {
	typeRef()

	// String renders the type back in C declaration form.
	String() string
}

// NamedType is a bare type such as GLenum or void.
type NamedType struct {
	Name string
}

func (NamedType) typeRef() {}

// String implements TypeRef.
func (t NamedType) String() string { return t.Name }

// PointerType is a pointer to Elem. Const marks the pointee as const.
type PointerType struct {
	Elem  TypeRef
	Const bool
}

func (PointerType) typeRef() {}

// String implements TypeRef.
func (t PointerType) String() string {
	var sb strings.Builder
	writeCType(&sb, t)
	return sb.String()
}

// writeCType renders const T *, const T *const*, T ** and so on.
func writeCType(sb *strings.Builder, t TypeRef) {
	p, ok := t.(PointerType)
	if !ok {
		sb.WriteString(t.String())
		return
	}
	switch elem := p.Elem.(type) {
	case NamedType:
		if p.Const {
			sb.WriteString("const ")
		}
		sb.WriteString(elem.Name)
		sb.WriteString(" *")
	case PointerType:
		writeCType(sb, elem)
		if p.Const {
			sb.WriteString("const")
		}
		sb.WriteByte('*')
	}
}

// IsVoid reports whether t is the bare void type.
func IsVoid(t TypeRef) bool {
	n, ok := t.(NamedType)
	return ok && n.Name == "void"
}

// BaseName returns the named type at the bottom of any pointer chain.
func BaseName(t TypeRef) string {
	for {
		switch v := t.(type) {
		case NamedType:
			return v.Name
		case PointerType:
			t = v.Elem
		default:
			return ""
		}
	}
}

// PointerDepth returns the number of pointer levels in t.
func PointerDepth(t TypeRef) int {
	depth := 0
	for {
		p, ok := t.(PointerType)
		if !ok {
			return depth
		}
		depth++
		t = p.Elem
	}
}
