// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package gogen generates Go bindings from a resolved registry view.
//
// The generated file is self-contained: it declares the C types of the
// registry as Go aliases, one constant per selected enum, a table of
// callables, a loader and one wrapper per selected command. Calls go
// through github.com/jupiterrider/ffi, so the bindings need no cgo.
//
// # Basic Usage
//
//	src, info, err := gogen.Compile(view, gogen.DefaultOptions())
//
// # Loading
//
// The generated Load takes the context's proc-address function and
// resolves every command. A command that cannot be resolved stays
// unloaded; calling its wrapper panics with *FunctionMissingError.
//
// # Reserved Words
//
// Keywords returns the identifiers the generated file cannot use for
// parameters: Go keywords, predeclared identifiers and the names the
// file itself declares. Colliding names get a trailing underscore.
package gogen
