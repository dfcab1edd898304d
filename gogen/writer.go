// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gogen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/glgen/naming"
	"github.com/gogpu/glgen/registry"
)

// allOnes64 is the one literal that is emitted as uint64 (GL_TIMEOUT_IGNORED).
const allOnes64 = "0xFFFFFFFFFFFFFFFF"

// Writer generates Go source code from a resolved view.
type Writer struct {
	view    *registry.View
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Package-scope names
	namer *naming.Namer

	// Generated names, parallel to view.Enums and view.Commands
	constNames  []string
	funcNames   []string
	loaderNames []string

	// Output tracking
	constantNames map[string]string
	functionNames map[string]string
}

// newWriter creates a new Go writer.
func newWriter(view *registry.View, options *Options) *Writer {
	namer := naming.NewNamer(keywords)
	namer.Reserve(preambleGoNames()...)

	return &Writer{
		view:          view,
		options:       options,
		namer:         namer,
		constantNames: make(map[string]string, len(view.Enums)),
		functionNames: make(map[string]string, len(view.Commands)),
	}
}

// String returns the generated Go source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeModule generates the whole binding file.
func (w *Writer) writeModule() error {
	// 1. Every referenced type must come from the preamble
	if err := w.checkTypes(); err != nil {
		return err
	}

	// 2. Register all names
	w.registerNames()

	// 3. Header, package clause and imports
	w.writeHeader()
	w.writeImports()

	// 4. Static type preamble and loader support
	w.writePreamble()

	// 5. Constants
	if err := w.writeConstants(); err != nil {
		return err
	}

	// 6. Callable table
	w.writeProcTable()

	// 7. Loader
	if err := w.writeLoader(); err != nil {
		return err
	}

	// 8. Wrappers
	return w.writeWrappers()
}

// checkTypes verifies that every type used by a selected command is
// declared by the preamble.
func (w *Writer) checkTypes() error {
	for _, name := range w.view.TypeNames() {
		if isVoidName(name) {
			continue
		}
		if _, ok := lookupCType(name); !ok {
			return NewError(ErrUnresolvedType, "type %s is used by the selected commands but has no Go mapping", name)
		}
	}
	return nil
}

// registerNames assigns unique Go identifiers to constants and wrappers.
func (w *Writer) registerNames() {
	w.constNames = make([]string, len(w.view.Enums))
	for i, e := range w.view.Enums {
		name := w.namer.Call(w.constantBase(e.Name))
		w.constNames[i] = name
		w.constantNames[e.Name] = name
	}

	w.funcNames = make([]string, len(w.view.Commands))
	for i, c := range w.view.Commands {
		name := w.namer.Call(w.wrapperBase(c.Name))
		w.funcNames[i] = name
		w.functionNames[c.Name] = name
	}

	w.loaderNames = make([]string, len(w.view.Commands))
	for i, name := range w.funcNames {
		w.loaderNames[i] = w.namer.Call("load" + name)
	}
}

// constantBase strips the enum prefix unless the rest would not be a
// valid identifier start.
func (w *Writer) constantBase(name string) string {
	if w.options.KeepEnumPrefix {
		return name
	}
	rest, ok := strings.CutPrefix(name, w.options.EnumPrefix)
	if !ok || rest == "" || (rest[0] >= '0' && rest[0] <= '9') {
		return name
	}
	return rest
}

// wrapperBase strips the command prefix.
func (w *Writer) wrapperBase(name string) string {
	if w.options.KeepCommandPrefix {
		return name
	}
	rest, ok := strings.CutPrefix(name, w.options.CommandPrefix)
	if !ok || rest == "" || (rest[0] >= '0' && rest[0] <= '9') {
		return name
	}
	return rest
}

// writeHeader writes the generated-code marker and the package clause.
func (w *Writer) writeHeader() {
	w.writeLine("// Code generated by glgen from %s; DO NOT EDIT.", w.options.Source)
	w.writeLine("")
	w.writeLine("// Package %s binds %s.", w.options.Package, w.view.Target)
	if len(w.view.Features) > 0 {
		w.writeLine("//")
		w.writeLine("// Features: %s.", strings.Join(w.view.Features, ", "))
	}
	if len(w.view.Extensions) > 0 {
		w.writeLine("//")
		w.writeLine("// Extensions: %s.", strings.Join(w.view.Extensions, ", "))
	}
	w.writeLine("package %s", w.options.Package)
	w.writeLine("")
}

// writeImports writes the import block. Every import is used by the
// preamble, so the block does not depend on the selection.
func (w *Writer) writeImports() {
	w.writeLine("import (")
	w.pushIndent()
	w.writeLine("%q", errorsImportPath)
	w.writeLine("%q", fmtImportPath)
	w.writeLine("%q", unsafeImportPath)
	w.writeLine("")
	w.writeLine("%q", ffiImportPath)
	w.popIndent()
	w.writeLine(")")
	w.writeLine("")
}

// writeConstants writes one constant per selected enum.
func (w *Writer) writeConstants() error {
	if len(w.view.Enums) == 0 {
		return nil
	}

	w.writeLine("const (")
	w.pushIndent()
	for i, e := range w.view.Enums {
		typ, literal, err := constantType(e)
		if err != nil {
			return err
		}
		w.writeLine("%s %s = %s", w.constNames[i], typ, literal)
	}
	w.popIndent()
	w.writeLine(")")
	w.writeLine("")
	return nil
}

// constantType picks the Go type of an enum and checks that its literal
// fits. Bitmask enums are GLbitfield, the all-ones 64-bit literal is
// uint64, and everything else is GLenum.
func constantType(e registry.EnumDef) (string, string, error) {
	literal := strings.TrimRight(strings.TrimSpace(e.Value), "uUlL")

	typ, bits := "GLenum", 32
	switch {
	case e.Bitmask:
		typ = "GLbitfield"
	case strings.EqualFold(literal, allOnes64):
		typ, bits = "uint64", 64
	}

	if _, err := strconv.ParseUint(literal, 0, bits); err != nil {
		return "", "", symbolError(ErrConstantOverflow, e.Name, "value %s does not fit %s", e.Value, typ)
	}
	return typ, literal, nil
}

// writeProcTable writes the struct holding one callable per command.
func (w *Writer) writeProcTable() {
	if len(w.view.Commands) == 0 {
		w.writeLine("var %s struct{}", procTableVar)
		w.writeLine("")
		return
	}

	w.writeLine("var %s struct {", procTableVar)
	w.pushIndent()
	for _, name := range w.funcNames {
		w.writeLine("%s %s.Fun", name, ffiPackage)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

// writeLoader writes Load and one loader per command.
func (w *Writer) writeLoader() error {
	w.writeLine("// %s resolves every function of the binding through %s. Functions", loadFunc, procAddrParam)
	w.writeLine("// that fail to resolve stay unloaded and the errors are joined.")
	w.writeLine("func %s(%s %s) error {", loadFunc, procAddrParam, procAddrType)
	w.pushIndent()
	if len(w.loaderNames) == 0 {
		w.writeLine("return nil")
	} else {
		w.writeLine("return %s.Join(", errorsPackage)
		w.pushIndent()
		for _, name := range w.loaderNames {
			w.writeLine("%s(%s),", name, procAddrParam)
		}
		w.popIndent()
		w.writeLine(")")
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")

	for i, c := range w.view.Commands {
		ffiTypes, err := signatureFFI(c)
		if err != nil {
			return err
		}
		w.writeLine("func %s(%s %s) error {", w.loaderNames[i], procAddrParam, procAddrType)
		w.pushIndent()
		w.writeLine("return %s(&%s.%s, %s, %q, %s)",
			prepFunc, procTableVar, w.funcNames[i], procAddrParam, c.Name, strings.Join(ffiTypes, ", "))
		w.popIndent()
		w.writeLine("}")
		w.writeLine("")
	}
	return nil
}

// writeWrappers writes one Go function per command.
func (w *Writer) writeWrappers() error {
	for i, c := range w.view.Commands {
		if err := w.writeWrapper(c, w.funcNames[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeWrapper(c registry.CommandDef, name string) error {
	locals := naming.NewNamer(keywords)
	locals.Reserve(preambleGoNames()...)

	params := make([]string, len(c.Params))
	args := make([]string, len(c.Params))
	for i, p := range c.Params {
		typ, err := goType(p.Type)
		if err != nil {
			return withSymbol(err, c.Name)
		}
		pname := locals.Call(p.Name)
		params[i] = pname + " " + typ
		args[i] = fmt.Sprintf("%s.Pointer(&%s)", unsafePackage, pname)
	}

	ret := ""
	if !registry.IsVoid(c.Return) {
		typ, err := goType(c.Return)
		if err != nil {
			return withSymbol(err, c.Name)
		}
		ret = " " + typ
	}

	if c.Alias != "" {
		w.writeLine("// %s is an alias of %s.", name, c.Alias)
	}
	w.writeLine("func %s(%s)%s {", name, strings.Join(params, ", "), ret)
	w.pushIndent()
	w.writeLine("%s := %s.%s", fnLocal, procTableVar, name)
	w.writeLine("if %s.Cif == nil {", fnLocal)
	w.pushIndent()
	w.writeLine("panic(&%s{Name: %q})", missingErrorType, c.Name)
	w.popIndent()
	w.writeLine("}")

	callArgs := ""
	if len(args) > 0 {
		callArgs = ", " + strings.Join(args, ", ")
	}

	if registry.IsVoid(c.Return) {
		w.writeLine("%s.Call(nil%s)", fnLocal, callArgs)
	} else {
		w.writeReturn(c.Return, callArgs)
	}

	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// writeReturn writes the call and the conversion of its result. Integers
// narrower than a register come back widened in an ffi.Arg; pointers come
// back as unsafe.Pointer.
func (w *Writer) writeReturn(t registry.TypeRef, callArgs string) {
	call := fmt.Sprintf("%s.Call(%s.Pointer(&%s)%s)", fnLocal, unsafePackage, retLocal, callArgs)

	switch t := t.(type) {
	case registry.PointerType:
		w.writeLine("var %s %s.Pointer", retLocal, unsafePackage)
		w.writeLine("%s", call)
		typ, _ := goType(t)
		if typ == unsafePackage+".Pointer" {
			w.writeLine("return %s", retLocal)
		} else {
			w.writeLine("return (%s)(%s)", typ, retLocal)
		}

	case registry.NamedType:
		ct, _ := lookupCType(t.Name)
		if ct.Ret == retNarrow {
			w.writeLine("var %s %s.Arg", retLocal, ffiPackage)
			w.writeLine("%s", call)
			w.writeLine("return %s(%s)", ct.GoName, retLocal)
			return
		}
		w.writeLine("var %s %s", retLocal, ct.GoName)
		w.writeLine("%s", call)
		w.writeLine("return %s", retLocal)
	}
}

// goType renders a TypeRef as a Go type. Go has no const pointers, so
// constness is dropped.
func goType(t registry.TypeRef) (string, error) {
	switch t := t.(type) {
	case registry.NamedType:
		if isVoidName(t.Name) {
			return "", NewError(ErrUnsupportedType, "void used as a value type")
		}
		ct, ok := lookupCType(t.Name)
		if !ok {
			return "", NewError(ErrUnresolvedType, "type %s has no Go mapping", t.Name)
		}
		if ct.Ret == retOpaque {
			return "", NewError(ErrUnsupportedType, "%s can only be passed by pointer", t.Name)
		}
		return ct.GoName, nil

	case registry.PointerType:
		if elem, ok := t.Elem.(registry.NamedType); ok {
			if isVoidName(elem.Name) {
				return unsafePackage + ".Pointer", nil
			}
			ct, found := lookupCType(elem.Name)
			if !found {
				return "", NewError(ErrUnresolvedType, "type %s has no Go mapping", elem.Name)
			}
			return "*" + ct.GoName, nil
		}
		inner, err := goType(t.Elem)
		if err != nil {
			return "", err
		}
		return "*" + inner, nil
	}
	return "", NewError(ErrUnsupportedType, "unknown type reference %T", t)
}

// ffiType returns the ffi descriptor of a parameter or return type.
func ffiType(t registry.TypeRef) (string, error) {
	switch t := t.(type) {
	case registry.PointerType:
		return "&" + ffiPackage + ".TypePointer", nil
	case registry.NamedType:
		if isVoidName(t.Name) {
			return "&" + ffiPackage + ".TypeVoid", nil
		}
		ct, ok := lookupCType(t.Name)
		if !ok {
			return "", NewError(ErrUnresolvedType, "type %s has no Go mapping", t.Name)
		}
		if ct.Ret == retOpaque {
			return "", NewError(ErrUnsupportedType, "%s can only be passed by pointer", t.Name)
		}
		return "&" + ct.FFI, nil
	}
	return "", NewError(ErrUnsupportedType, "unknown type reference %T", t)
}

// signatureFFI returns the return descriptor followed by one descriptor
// per parameter.
func signatureFFI(c registry.CommandDef) ([]string, error) {
	out := make([]string, 0, len(c.Params)+1)
	ret, err := ffiType(c.Return)
	if err != nil {
		return nil, withSymbol(err, c.Name)
	}
	out = append(out, ret)
	for _, p := range c.Params {
		if registry.IsVoid(p.Type) {
			return nil, symbolError(ErrUnsupportedType, c.Name, "parameter %s has type void", p.RawName)
		}
		arg, err := ffiType(p.Type)
		if err != nil {
			return nil, withSymbol(err, c.Name)
		}
		out = append(out, arg)
	}
	return out, nil
}

// withSymbol attaches the command name to an emission error.
func withSymbol(err error, symbol string) error {
	if e, ok := err.(*Error); ok && e.Symbol == "" {
		return &Error{Kind: e.Kind, Message: e.Message, Symbol: symbol}
	}
	return err
}

// writeLine writes an indented line. format is always a printf format, so
// literal text holding a percent sign goes through "%s".
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteByte('\t')
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
