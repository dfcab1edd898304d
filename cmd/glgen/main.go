// Command glgen generates Go OpenGL bindings from the Khronos registry.
//
// Usage:
//
//	glgen [options] [gl.xml]
//
// Examples:
//
//	glgen gl.xml                                   # gl 3.3 core to stdout
//	glgen -o gl/gl.go -version 4.6 gl.xml          # gl 4.6 core to a file
//	glgen -api gles2 -version 3.0 -profile "" \
//	      -package gles -ext 'GL_KHR_*' gl.xml     # OpenGL ES 3.0 with KHR extensions
//	glgen -config glgen.toml                       # selection from a config file
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/gogpu/glgen"
	"github.com/gogpu/glgen/gogen"
	"github.com/gogpu/glgen/internal/config"
	"github.com/gogpu/glgen/internal/logger"
)

// listFlag collects a repeatable, comma-separated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

var (
	configPath    = flag.String("config", "", "config file (.toml, .yaml or .yml)")
	output        = flag.String("o", "", "output file (default: stdout)")
	api           = flag.String("api", "", "api: gl, gles1, gles2 or glsc2")
	apiVersion    = flag.String("version", "", "feature version, e.g. 3.3")
	profile       = flag.String("profile", "", "profile: core, compatibility, common or empty")
	pkg           = flag.String("package", "", "generated package name")
	enumPrefix    = flag.String("enum-prefix", "", "prefix stripped from constant names")
	commandPrefix = flag.String("command-prefix", "", "prefix stripped from function names")
	keepEnum      = flag.Bool("keep-enum-prefix", false, "emit constants under their registry names")
	keepCommand   = flag.Bool("keep-command-prefix", false, "emit functions under their registry names")
	logLevel      = flag.String("log-level", "", "log level: debug, info, warn or error")
	logFormat     = flag.String("log-format", "", "log format: text or json")
	showVersion   = flag.Bool("v", false, "print version")

	extensions listFlag
	skipGroups listFlag
)

const glgenVersion = "0.1.0-dev"

func main() {
	flag.Var(&extensions, "ext", "extension glob, repeatable or comma-separated")
	flag.Var(&skipGroups, "skip-group", "enum group to ignore, repeatable or comma-separated")
	flag.Usage = usage
	flag.Parse()

	stderr := termenv.NewOutput(os.Stderr)

	if *showVersion {
		fmt.Printf("glgen version %s\n", glgenVersion)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(stderr, "Config error", err)
	}

	logCfg, err := cfg.Logger()
	if err != nil {
		fail(stderr, "Config error", err)
	}
	logger.Init(logCfg)

	target, err := cfg.Target()
	if err != nil {
		fail(stderr, "Config error", err)
	}

	// Read input file
	source, err := os.ReadFile(cfg.Input)
	if err != nil {
		fail(stderr, "Error reading file", err)
	}

	opts := glgen.Options{
		Target:         target,
		SkipEnumGroups: cfg.SkipEnumGroups,
		Emit:           cfg.Emit(),
		Logger:         logger.ForComponent("glgen"),
	}
	code, err := glgen.Generate(source, opts)
	if err != nil {
		fail(stderr, "Generation error", err)
	}

	// Write output
	if cfg.Output == "" {
		if _, err := os.Stdout.Write(code); err != nil {
			fail(stderr, "Error writing output", err)
		}
		return
	}
	if err := os.WriteFile(cfg.Output, code, 0o644); err != nil {
		fail(stderr, "Error writing output", err)
	}
	status := stderr.String("Generated").Foreground(termenv.ANSIGreen).Bold()
	fmt.Fprintf(os.Stderr, "%s %s for %s from %s (%d bytes)\n",
		status, cfg.Output, target, cfg.Input, len(code))
}

// loadConfig starts from the config file, or the defaults, and applies the
// flags the user set explicitly.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = *output
		case "api":
			cfg.API = *api
		case "version":
			cfg.Version = *apiVersion
		case "profile":
			cfg.Profile = *profile
		case "package":
			cfg.Package = *pkg
		case "enum-prefix":
			cfg.EnumPrefix = *enumPrefix
		case "command-prefix":
			cfg.CommandPrefix = *commandPrefix
		case "keep-enum-prefix":
			cfg.KeepEnumPrefix = *keepEnum
		case "keep-command-prefix":
			cfg.KeepCommandPrefix = *keepCommand
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		case "ext":
			cfg.Extensions = extensions
		case "skip-group":
			cfg.SkipEnumGroups = skipGroups
		}
	})
	if args := flag.Args(); len(args) > 0 {
		cfg.Input = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fail(out *termenv.Output, what string, err error) {
	label := out.String(what + ":").Foreground(termenv.ANSIRed).Bold()
	fmt.Fprintf(os.Stderr, "%s %v\n", label, err)
	if h := hint(err); h != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", out.String("hint:").Faint(), h)
	}
	os.Exit(1)
}

// hint suggests a way around an emission error, or returns "".
func hint(err error) string {
	var gerr *gogen.Error
	if !errors.As(err, &gerr) {
		return ""
	}
	switch {
	case gerr.IsUnresolvedType():
		return "a selected command uses a C type with no Go mapping; narrow -ext or lower -version"
	case gerr.IsConstantOverflow():
		return "an enum value does not fit its Go type; drop its group with -skip-group"
	}
	return ""
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: glgen [options] [gl.xml]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  glgen gl.xml                            gl 3.3 core to stdout\n")
	fmt.Fprintf(os.Stderr, "  glgen -o gl/gl.go -version 4.6 gl.xml   gl 4.6 core to a file\n")
	fmt.Fprintf(os.Stderr, "  glgen -config glgen.toml                Selection from a config file\n")
}
