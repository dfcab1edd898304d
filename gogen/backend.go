// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gogen

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/imports"

	"github.com/gogpu/glgen/registry"
)

// Options configures Go binding generation.
type Options struct {
	// Package is the package clause of the generated file.
	// Defaults to "gl".
	Package string

	// EnumPrefix is stripped from constant names unless the remainder
	// would start with a digit. Defaults to "GL_".
	EnumPrefix string

	// CommandPrefix is stripped from wrapper names. Defaults to "gl".
	CommandPrefix string

	// KeepEnumPrefix emits constants under their registry names.
	// EnumPrefix is ignored.
	KeepEnumPrefix bool

	// KeepCommandPrefix emits wrappers under their registry names.
	// CommandPrefix is ignored.
	KeepCommandPrefix bool

	// Source names the registry file in the generated header.
	Source string

	// SkipFormat leaves the output as written, without gofmt.
	SkipFormat bool
}

// DefaultOptions returns options for a package named gl.
func DefaultOptions() Options {
	return Options{
		Package:       defaultPackageName,
		EnumPrefix:    defaultEnumPrefix,
		CommandPrefix: defaultCommandPrefix,
		Source:        "gl.xml",
	}
}

// Info contains metadata about the generated file.
type Info struct {
	// Constants maps registry enum names to generated constant names.
	Constants map[string]string

	// Functions maps registry command names to generated wrapper names.
	Functions map[string]string

	// Types lists the C types the selected commands use, sorted.
	Types []string
}

// Compile generates Go bindings for the commands and enums of view.
// Returns the Go source, generation info, or an error.
func Compile(view *registry.View, options Options) (string, *Info, error) {
	// Apply defaults for zero values
	if options.Package == "" {
		options.Package = defaultPackageName
	}
	if options.EnumPrefix == "" && !options.KeepEnumPrefix {
		options.EnumPrefix = defaultEnumPrefix
	}
	if options.CommandPrefix == "" && !options.KeepCommandPrefix {
		options.CommandPrefix = defaultCommandPrefix
	}
	if options.Source == "" {
		options.Source = "gl.xml"
	}
	if !token.IsIdentifier(options.Package) || isReserved(options.Package) {
		return "", nil, fmt.Errorf("gogen: %w", NewError(ErrInvalidOptions, "invalid package name %q", options.Package))
	}
	if view == nil {
		return "", nil, fmt.Errorf("gogen: %w", NewError(ErrInvalidOptions, "nil view"))
	}

	w := newWriter(view, &options)
	if err := w.writeModule(); err != nil {
		return "", nil, fmt.Errorf("gogen: %w", err)
	}

	src := w.String()
	if !options.SkipFormat {
		formatted, err := imports.Process(options.Package+".go", []byte(src), &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		})
		if err != nil {
			return "", nil, fmt.Errorf("gogen: %w", NewError(ErrFormat, "%v", err))
		}
		src = string(formatted)
	}

	info := &Info{
		Constants: w.constantNames,
		Functions: w.functionNames,
		Types:     view.TypeNames(),
	}
	return src, info, nil
}
