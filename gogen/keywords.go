// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gogen

import "github.com/gogpu/glgen/naming"

// goKeywords contains the reserved words of the Go language.
var goKeywords = naming.NewSet(
	"break", "case", "chan", "const", "continue",
	"default", "defer", "else", "fallthrough", "for",
	"func", "go", "goto", "if", "import",
	"interface", "map", "package", "range", "return",
	"select", "struct", "switch", "type", "var",
)

// goPredeclared contains the predeclared identifiers of the universe block.
// Shadowing them is legal but breaks any later use in the same scope.
var goPredeclared = naming.NewSet(
	// Types
	"any", "bool", "byte", "comparable", "complex64", "complex128",
	"error", "float32", "float64", "int", "int8", "int16", "int32",
	"int64", "rune", "string", "uint", "uint8", "uint16", "uint32",
	"uint64", "uintptr",

	// Constants and zero value
	"true", "false", "iota", "nil",

	// Functions
	"append", "cap", "clear", "close", "complex", "copy", "delete",
	"imag", "len", "make", "max", "min", "new", "panic", "print",
	"println", "real", "recover",
)

// Identifiers the generated file declares or imports. Wrapper locals
// (ret, fn) live in the same scope as parameters.
const (
	procTableVar         = "procs"
	loadFunc             = "Load"
	prepFunc             = "prep"
	procAddrType         = "ProcAddrFunc"
	procAddrParam        = "getProcAddr"
	loadErrorType        = "LoadError"
	missingErrorType     = "FunctionMissingError"
	symbolNotFoundVar    = "ErrSymbolNotFound"
	reservedAddrConst    = "reservedAddrLimit"
	goStringFunc         = "GoStr"
	retLocal             = "ret"
	fnLocal              = "fn"
	ffiPackage           = "ffi"
	unsafePackage        = "unsafe"
	fmtPackage           = "fmt"
	errorsPackage        = "errors"
	ffiImportPath        = "github.com/jupiterrider/ffi"
	unsafeImportPath     = "unsafe"
	fmtImportPath        = "fmt"
	errorsImportPath     = "errors"
	defaultPackageName   = "gl"
	defaultEnumPrefix    = "GL_"
	defaultCommandPrefix = "gl"
)

var generatedIdentifiers = naming.NewSet(
	procTableVar, loadFunc, prepFunc, procAddrType, procAddrParam,
	loadErrorType, missingErrorType, symbolNotFoundVar, reservedAddrConst, goStringFunc,
	retLocal, fnLocal,
	ffiPackage, unsafePackage, fmtPackage, errorsPackage,
)

var keywords = goKeywords.Union(goPredeclared, generatedIdentifiers)

// Keywords returns the reserved-word table of the Go emitter. Pass it to
// the registry builder so parameter names never collide with Go syntax or
// with identifiers of the generated file.
func Keywords() naming.Keywords {
	return keywords
}

// isReserved reports whether name is reserved in generated code.
func isReserved(name string) bool {
	return keywords.IsReserved(name)
}
