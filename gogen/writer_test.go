// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gogen

import (
	"strings"
	"testing"

	"github.com/gogpu/glgen/registry"
)

func TestWriter_Indentation(t *testing.T) {
	opts := DefaultOptions()
	w := newWriter(&registry.View{}, &opts)

	if w.indent != 0 {
		t.Errorf("initial indent = %d, want 0", w.indent)
	}

	w.pushIndent()
	w.pushIndent()
	if w.indent != 2 {
		t.Errorf("after two pushIndent, indent = %d, want 2", w.indent)
	}

	w.popIndent()
	w.popIndent()
	w.popIndent()
	if w.indent != 0 {
		t.Errorf("popIndent below zero should stay at 0, got %d", w.indent)
	}
}

func TestWriter_WriteLine(t *testing.T) {
	opts := DefaultOptions()
	w := newWriter(&registry.View{}, &opts)

	w.writeLine("top")
	w.pushIndent()
	w.writeLine("x := %d", 1)
	w.writeLine("%s", "100%")
	w.writeLine("%d%%", 50)

	lines := strings.Split(w.String(), "\n")
	if lines[0] != "top" {
		t.Errorf("first line = %q, want %q", lines[0], "top")
	}
	if lines[1] != "\tx := 1" {
		t.Errorf("second line = %q, want %q", lines[1], "\tx := 1")
	}
	if lines[2] != "\t100%" {
		t.Errorf("percent passed as an argument must be written verbatim, got %q", lines[2])
	}
	if lines[3] != "\t50%" {
		t.Errorf("escaped percent = %q, want %q", lines[3], "\t50%")
	}
}

func TestConstantType(t *testing.T) {
	tests := []struct {
		name    string
		enum    registry.EnumDef
		typ     string
		literal string
		wantErr bool
	}{
		{"enum", registry.EnumDef{Name: "GL_VENDOR", Value: "0x1F00"}, "GLenum", "0x1F00", false},
		{"decimal", registry.EnumDef{Name: "GL_ONE", Value: "1"}, "GLenum", "1", false},
		{"bitmask", registry.EnumDef{Name: "GL_MAP_READ_BIT", Value: "0x0001", Bitmask: true}, "GLbitfield", "0x0001", false},
		{"all_bits_32", registry.EnumDef{Name: "GL_ALL_SHADER_BITS", Value: "0xFFFFFFFF", Bitmask: true}, "GLbitfield", "0xFFFFFFFF", false},
		{"timeout", registry.EnumDef{Name: "GL_TIMEOUT_IGNORED", Value: "0xFFFFFFFFFFFFFFFF"}, "uint64", "0xFFFFFFFFFFFFFFFF", false},
		{"timeout_suffix", registry.EnumDef{Name: "GL_TIMEOUT_IGNORED", Value: "0xFFFFFFFFFFFFFFFFull"}, "uint64", "0xFFFFFFFFFFFFFFFF", false},
		{"lower_hex", registry.EnumDef{Name: "GL_X", Value: "0xffffffffffffffff"}, "uint64", "0xffffffffffffffff", false},
		{"overflow", registry.EnumDef{Name: "GL_BIG", Value: "0x1FFFFFFFF"}, "", "", true},
		{"negative", registry.EnumDef{Name: "GL_NEG", Value: "-1"}, "", "", true},
		{"garbage", registry.EnumDef{Name: "GL_BAD", Value: "GL_OTHER"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, literal, err := constantType(tt.enum)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s = %s", typ, literal)
				}
				if e, ok := err.(*Error); !ok || !e.IsConstantOverflow() {
					t.Errorf("error = %v, want ConstantOverflow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if typ != tt.typ || literal != tt.literal {
				t.Errorf("got %s = %s, want %s = %s", typ, literal, tt.typ, tt.literal)
			}
		})
	}
}

func TestGoType(t *testing.T) {
	named := func(n string) registry.TypeRef { return registry.NamedType{Name: n} }
	ptr := func(elem registry.TypeRef) registry.TypeRef { return registry.PointerType{Elem: elem} }
	constPtr := func(elem registry.TypeRef) registry.TypeRef { return registry.PointerType{Elem: elem, Const: true} }

	tests := []struct {
		name string
		typ  registry.TypeRef
		want string
		ffi  string
	}{
		{"enum", named("GLenum"), "GLenum", "&ffi.TypeUint32"},
		{"float", named("GLfloat"), "GLfloat", "&ffi.TypeFloat"},
		{"intptr", named("GLintptr"), "GLintptr", "&ffi.TypePointer"},
		{"void_ptr", ptr(named("void")), "unsafe.Pointer", "&ffi.TypePointer"},
		{"const_void_ptr", constPtr(named("void")), "unsafe.Pointer", "&ffi.TypePointer"},
		{"glvoid_ptr", ptr(named("GLvoid")), "unsafe.Pointer", "&ffi.TypePointer"},
		{"uint_ptr", ptr(named("GLuint")), "*GLuint", "&ffi.TypePointer"},
		{"string_array", constPtr(constPtr(named("GLchar"))), "**GLchar", "&ffi.TypePointer"},
		{"void_ptr_ptr", ptr(ptr(named("void"))), "*unsafe.Pointer", "&ffi.TypePointer"},
		{"cl_context_ptr", ptr(named("_cl_context")), "*ClContext", "&ffi.TypePointer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := goType(tt.typ)
			if err != nil {
				t.Fatalf("goType: %v", err)
			}
			if got != tt.want {
				t.Errorf("goType = %q, want %q", got, tt.want)
			}
			desc, err := ffiType(tt.typ)
			if err != nil {
				t.Fatalf("ffiType: %v", err)
			}
			if desc != tt.ffi {
				t.Errorf("ffiType = %q, want %q", desc, tt.ffi)
			}
		})
	}
}

func TestGoType_Errors(t *testing.T) {
	tests := []struct {
		name string
		typ  registry.TypeRef
		kind ErrorKind
	}{
		{"void_value", registry.NamedType{Name: "void"}, ErrUnsupportedType},
		{"unknown", registry.NamedType{Name: "GLmystery"}, ErrUnresolvedType},
		{"unknown_pointee", registry.PointerType{Elem: registry.NamedType{Name: "GLmystery"}}, ErrUnresolvedType},
		{"opaque_value", registry.NamedType{Name: "_cl_event"}, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := goType(tt.typ)
			e, ok := err.(*Error)
			if !ok {
				t.Fatalf("error = %v, want *Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	kw := Keywords()
	for _, name := range []string{"func", "type", "string", "len", "ret", "fn", "unsafe", "ffi", "procs", "Load"} {
		if !kw.IsReserved(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	for _, name := range []string{"mask", "target", "pname", "length"} {
		if kw.IsReserved(name) {
			t.Errorf("%q should not be reserved", name)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrUnresolvedType, "UnresolvedType"},
		{ErrConstantOverflow, "ConstantOverflow"},
		{ErrUnsupportedType, "UnsupportedType"},
		{ErrInvalidOptions, "InvalidOptions"},
		{ErrFormat, "Format"},
		{ErrorKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}

	e := symbolError(ErrConstantOverflow, "GL_BIG", "too big")
	if got, want := e.Error(), "gogen ConstantOverflow in GL_BIG: too big"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
