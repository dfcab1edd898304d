// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gogen

import (
	"slices"
	"strings"
)

// retKind selects how a wrapper receives a return value from the call.
type retKind uint8

const (
	// retWide values are stored directly in a variable of the Go type.
	retWide retKind = iota

	// retNarrow integers are widened by the ABI and read from an ffi.Arg.
	retNarrow

	// retOpaque types cannot be passed by value at all.
	retOpaque
)

// cType maps one C type of the registry to its Go spelling.
type cType struct {
	// Name is the C spelling used by <ptype>.
	Name string

	// GoName is the identifier declared in the generated file.
	GoName string

	// Underlying is the aliased Go type, or a struct{} for opaque types.
	Underlying string

	// FFI is the ffi type descriptor used when passing by value.
	FFI string

	Ret retKind
}

// preambleTypes is the static C type table written at the top of every
// generated file. It is not derived from the registry; any registry type
// a selected command uses must be listed here.
var preambleTypes = []cType{
	{Name: "GLenum", GoName: "GLenum", Underlying: "uint32", FFI: "ffi.TypeUint32", Ret: retNarrow},
	{Name: "GLboolean", GoName: "GLboolean", Underlying: "uint8", FFI: "ffi.TypeUint8", Ret: retNarrow},
	{Name: "GLbitfield", GoName: "GLbitfield", Underlying: "uint32", FFI: "ffi.TypeUint32", Ret: retNarrow},
	{Name: "GLbyte", GoName: "GLbyte", Underlying: "int8", FFI: "ffi.TypeSint8", Ret: retNarrow},
	{Name: "GLubyte", GoName: "GLubyte", Underlying: "uint8", FFI: "ffi.TypeUint8", Ret: retNarrow},
	{Name: "GLshort", GoName: "GLshort", Underlying: "int16", FFI: "ffi.TypeSint16", Ret: retNarrow},
	{Name: "GLushort", GoName: "GLushort", Underlying: "uint16", FFI: "ffi.TypeUint16", Ret: retNarrow},
	{Name: "GLint", GoName: "GLint", Underlying: "int32", FFI: "ffi.TypeSint32", Ret: retNarrow},
	{Name: "GLuint", GoName: "GLuint", Underlying: "uint32", FFI: "ffi.TypeUint32", Ret: retNarrow},
	{Name: "GLclampx", GoName: "GLclampx", Underlying: "int32", FFI: "ffi.TypeSint32", Ret: retNarrow},
	{Name: "GLsizei", GoName: "GLsizei", Underlying: "int32", FFI: "ffi.TypeSint32", Ret: retNarrow},
	{Name: "GLfixed", GoName: "GLfixed", Underlying: "int32", FFI: "ffi.TypeSint32", Ret: retNarrow},
	{Name: "GLhalf", GoName: "GLhalf", Underlying: "uint16", FFI: "ffi.TypeUint16", Ret: retNarrow},
	{Name: "GLhalfARB", GoName: "GLhalfARB", Underlying: "uint16", FFI: "ffi.TypeUint16", Ret: retNarrow},
	{Name: "GLhalfNV", GoName: "GLhalfNV", Underlying: "uint16", FFI: "ffi.TypeUint16", Ret: retNarrow},
	{Name: "GLchar", GoName: "GLchar", Underlying: "byte", FFI: "ffi.TypeSint8", Ret: retNarrow},
	{Name: "GLcharARB", GoName: "GLcharARB", Underlying: "byte", FFI: "ffi.TypeSint8", Ret: retNarrow},
	{Name: "GLhandleARB", GoName: "GLhandleARB", Underlying: "uint32", FFI: "ffi.TypeUint32", Ret: retNarrow},
	{Name: "GLfloat", GoName: "GLfloat", Underlying: "float32", FFI: "ffi.TypeFloat", Ret: retWide},
	{Name: "GLclampf", GoName: "GLclampf", Underlying: "float32", FFI: "ffi.TypeFloat", Ret: retWide},
	{Name: "GLdouble", GoName: "GLdouble", Underlying: "float64", FFI: "ffi.TypeDouble", Ret: retWide},
	{Name: "GLclampd", GoName: "GLclampd", Underlying: "float64", FFI: "ffi.TypeDouble", Ret: retWide},
	{Name: "GLint64", GoName: "GLint64", Underlying: "int64", FFI: "ffi.TypeSint64", Ret: retWide},
	{Name: "GLint64EXT", GoName: "GLint64EXT", Underlying: "int64", FFI: "ffi.TypeSint64", Ret: retWide},
	{Name: "GLuint64", GoName: "GLuint64", Underlying: "uint64", FFI: "ffi.TypeUint64", Ret: retWide},
	{Name: "GLuint64EXT", GoName: "GLuint64EXT", Underlying: "uint64", FFI: "ffi.TypeUint64", Ret: retWide},
	{Name: "GLintptr", GoName: "GLintptr", Underlying: "int", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLsizeiptr", GoName: "GLsizeiptr", Underlying: "int", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLintptrARB", GoName: "GLintptrARB", Underlying: "int", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLsizeiptrARB", GoName: "GLsizeiptrARB", Underlying: "int", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLvdpauSurfaceNV", GoName: "GLvdpauSurfaceNV", Underlying: "int", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLsync", GoName: "GLsync", Underlying: "uintptr", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLeglClientBufferEXT", GoName: "GLeglClientBufferEXT", Underlying: "unsafe.Pointer", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLeglImageOES", GoName: "GLeglImageOES", Underlying: "unsafe.Pointer", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLDEBUGPROC", GoName: "GLDEBUGPROC", Underlying: "uintptr", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLDEBUGPROCARB", GoName: "GLDEBUGPROCARB", Underlying: "uintptr", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLDEBUGPROCKHR", GoName: "GLDEBUGPROCKHR", Underlying: "uintptr", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLDEBUGPROCAMD", GoName: "GLDEBUGPROCAMD", Underlying: "uintptr", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "GLVULKANPROCNV", GoName: "GLVULKANPROCNV", Underlying: "uintptr", FFI: "ffi.TypePointer", Ret: retWide},
	{Name: "_cl_context", GoName: "ClContext", Underlying: "struct{}", Ret: retOpaque},
	{Name: "_cl_event", GoName: "ClEvent", Underlying: "struct{}", Ret: retOpaque},
}

// voidNames are the spellings of C void. Only pointers to them carry data.
var voidNames = []string{"void", "GLvoid"}

var preambleIndex = func() map[string]int {
	index := make(map[string]int, len(preambleTypes))
	for i, t := range preambleTypes {
		index[t.Name] = i
	}
	return index
}()

// lookupCType returns the preamble entry for a C type name.
func lookupCType(name string) (cType, bool) {
	i, ok := preambleIndex[name]
	if !ok {
		return cType{}, false
	}
	return preambleTypes[i], true
}

func isVoidName(name string) bool {
	return slices.Contains(voidNames, name)
}

// PreambleTypeNames returns the C type names the generated file defines,
// including void, sorted.
func PreambleTypeNames() []string {
	names := make([]string, 0, len(preambleTypes)+len(voidNames))
	for _, t := range preambleTypes {
		names = append(names, t.Name)
	}
	names = append(names, voidNames...)
	slices.Sort(names)
	return names
}

// preambleGoNames returns the Go identifiers the type table declares.
func preambleGoNames() []string {
	names := make([]string, len(preambleTypes))
	for i, t := range preambleTypes {
		names[i] = t.GoName
	}
	return names
}

// writePreamble writes the type table and the loader support code.
func (w *Writer) writePreamble() {
	w.writeLine("// C types of the registry.")
	w.writeLine("type (")
	w.pushIndent()
	for _, t := range preambleTypes {
		if t.Ret == retOpaque {
			w.writeLine("%s %s", t.GoName, t.Underlying)
			continue
		}
		w.writeLine("%s = %s", t.GoName, t.Underlying)
	}
	w.popIndent()
	w.writeLine(")")
	w.writeLine("")

	pkg := w.options.Package
	for _, line := range strings.Split(loaderSupport, "\n") {
		w.writeLine("%s", strings.ReplaceAll(line, "$pkg", pkg))
	}
}

// loaderSupport declares everything the per-binding loaders and wrappers
// share. $pkg is replaced by the package name.
const loaderSupport = `// ProcAddrFunc resolves a function name to its address in the current
// context, such as glfwGetProcAddress or eglGetProcAddress.
type ProcAddrFunc func(name string) uintptr

// ErrSymbolNotFound is returned when the context has no address for a
// function.
var ErrSymbolNotFound = errors.New("$pkg: symbol not found")

// reservedAddrLimit bounds the small sentinel addresses some drivers
// return instead of 0 for unsupported functions.
const reservedAddrLimit = 8

// LoadError reports a function address that cannot be a real entry point.
type LoadError struct {
	Name string
	Addr uintptr
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("$pkg: %s: invalid address %#x", e.Name, e.Addr)
}

// FunctionMissingError is the panic value of a wrapper whose function was
// not loaded.
type FunctionMissingError struct {
	Name string
}

func (e *FunctionMissingError) Error() string {
	return "$pkg: " + e.Name + " not loaded"
}

func prep(fun *ffi.Fun, getProcAddr ProcAddrFunc, name string, ret *ffi.Type, args ...*ffi.Type) error {
	addr := getProcAddr(name)
	if addr == 0 {
		return fmt.Errorf("%s: %w", name, ErrSymbolNotFound)
	}
	if addr == ^uintptr(0) || addr < reservedAddrLimit {
		return &LoadError{Name: name, Addr: addr}
	}
	cif := new(ffi.Cif)
	if status := ffi.PrepCif(cif, ffi.DefaultAbi, uint32(len(args)), ret, args...); status != ffi.OK {
		return fmt.Errorf("%s: prepare call: %v", name, status)
	}
	*fun = ffi.Fun{Addr: addr, Cif: cif}
	return nil
}

// GoStr copies a NUL-terminated string returned by the context, such as
// the result of GetString.
func GoStr(p *GLubyte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*GLubyte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
`
