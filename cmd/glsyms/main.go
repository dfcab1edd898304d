// glsyms - lists the symbols one target selects from a registry
// Prints features, extensions, enums and command signatures
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/gogpu/glgen"
	"github.com/gogpu/glgen/internal/logger"
	"github.com/gogpu/glgen/registry"
)

func main() {
	api := flag.String("api", "gl", "api: gl, gles1, gles2 or glsc2")
	version := flag.String("version", "3.3", "feature version")
	profile := flag.String("profile", "core", "profile")
	exts := flag.String("ext", "", "comma-separated extension globs")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glsyms [-api gl] [-version 3.3] [-profile core] [-ext 'GL_KHR_*'] <gl.xml>")
		os.Exit(1)
	}

	var patterns []string
	if *exts != "" {
		patterns = strings.Split(*exts, ",")
	}
	target, err := registry.NewTarget(*api, *version, *profile, patterns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	reg, err := glgen.Build(data, glgen.Options{Logger: logger.Discard()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := termenv.NewOutput(os.Stdout)
	printView(os.Stdout, out, glgen.Resolve(reg, target))
}

func printView(w io.Writer, out *termenv.Output, v *registry.View) {
	heading := func(title string, n int) {
		fmt.Fprintf(w, "%s (%d)\n", out.String(title).Bold().Underline(), n)
	}

	fmt.Fprintf(w, "; target: %s\n", v.Target)

	heading("Features", len(v.Features))
	for _, name := range v.Features {
		fmt.Fprintf(w, "  %s\n", name)
	}

	heading("Extensions", len(v.Extensions))
	for _, name := range v.Extensions {
		fmt.Fprintf(w, "  %s\n", name)
	}

	heading("Enums", len(v.Enums))
	for _, e := range v.Enums {
		line := fmt.Sprintf("  %-48s %s", e.Name, e.Value)
		if e.Bitmask {
			line += " " + out.String("bitmask").Faint().String()
		}
		if e.API != "" {
			line += " " + out.String("api="+e.API).Faint().String()
		}
		fmt.Fprintln(w, line)
	}

	heading("Commands", len(v.Commands))
	for _, c := range v.Commands {
		params := make([]string, len(c.Params))
		for i, p := range c.Params {
			params[i] = p.Type.String() + " " + p.RawName
		}
		fmt.Fprintf(w, "  %s %s(%s)", c.Return, out.String(c.Name).Foreground(termenv.ANSICyan), strings.Join(params, ", "))
		if c.Alias != "" {
			fmt.Fprintf(w, " -> %s", c.Alias)
		}
		fmt.Fprintln(w)
	}
}
