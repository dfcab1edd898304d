// Package glgen generates Go bindings for OpenGL from the Khronos registry.
//
// glgen reads gl.xml, selects the enums and commands of one api, version
// and profile, and writes a single Go file that loads them at run time
// through a proc-address function. No cgo is involved.
//
// The package provides a one-call API as well as access to each stage.
//
// Example usage:
//
//	src, err := os.ReadFile("gl.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := glgen.Generate(src, glgen.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Stages, for callers that resolve several targets from one parse:
//
//	reg, _ := glgen.Build(src, glgen.DefaultOptions())
//	core := glgen.Resolve(reg, coreTarget)
//	es := glgen.Resolve(reg, esTarget)
//	code, info, err := gogen.Compile(core, gogen.DefaultOptions())
package glgen

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/glgen/gogen"
	"github.com/gogpu/glgen/internal/logger"
	"github.com/gogpu/glgen/registry"
	"github.com/gogpu/glgen/xmltree"
)

// Options configures binding generation.
type Options struct {
	// Target selects the api, version, profile and extensions.
	Target registry.Target

	// SkipEnumGroups lists enum groups the builder ignores.
	SkipEnumGroups []string

	// Emit configures the generated file.
	Emit gogen.Options

	// Logger receives stage progress at debug level.
	// Defaults to the "glgen" component of the process logger.
	Logger *slog.Logger
}

// DefaultOptions returns options for gl 3.3 core in a package named gl.
func DefaultOptions() Options {
	target, err := registry.NewTarget("gl", "3.3", "core")
	if err != nil {
		panic(err) // constant input
	}
	return Options{
		Target: target,
		Emit:   gogen.DefaultOptions(),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.ForComponent("glgen")
}

// Generate turns registry document bytes into Go source.
//
// The pipeline is:
//  1. Parse the document into a node tree
//  2. Build the registry model
//  3. Resolve the target's symbol set
//  4. Emit Go source
func Generate(src []byte, opts Options) ([]byte, error) {
	reg, err := Build(src, opts)
	if err != nil {
		return nil, err
	}

	view := Resolve(reg, opts.Target)
	opts.logger().Debug("resolved target",
		"target", opts.Target.String(),
		"features", len(view.Features),
		"extensions", len(view.Extensions),
		"enums", len(view.Enums),
		"commands", len(view.Commands))

	code, _, err := Emit(view, opts)
	if err != nil {
		return nil, err
	}
	return []byte(code), nil
}

// Parse reads registry document bytes into a node tree.
func Parse(src []byte) (*xmltree.Node, error) {
	root, err := xmltree.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return root, nil
}

// Build parses document bytes and builds the registry model. Parameter
// names are escaped against the Go emitter's reserved words.
func Build(src []byte, opts Options) (*registry.Registry, error) {
	root, err := Parse(src)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Build(root, registry.Options{
		Keywords:       gogen.Keywords(),
		SkipEnumGroups: opts.SkipEnumGroups,
		Logger:         opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("registry error: %w", err)
	}

	opts.logger().Debug("built registry",
		"enums", len(reg.Enums),
		"commands", len(reg.Commands),
		"features", len(reg.Features),
		"extensions", len(reg.Extensions))
	for _, group := range reg.SkippedGroups {
		opts.logger().Debug("skipped enum group", "group", group)
	}
	return reg, nil
}

// Resolve selects the symbols of t. It never fails; reg is not modified.
func Resolve(reg *registry.Registry, t registry.Target) *registry.View {
	return registry.Resolve(reg, t)
}

// Emit writes Go source for a resolved view.
func Emit(view *registry.View, opts Options) (string, *gogen.Info, error) {
	code, info, err := gogen.Compile(view, opts.Emit)
	if err != nil {
		return "", nil, fmt.Errorf("generation error: %w", err)
	}
	return code, info, nil
}
