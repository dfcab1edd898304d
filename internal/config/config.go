// Package config loads generator settings from a TOML or YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/glgen/gogen"
	"github.com/gogpu/glgen/internal/logger"
	"github.com/gogpu/glgen/registry"
)

// LogConfig is the [log] table: a level name and an output format.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Config holds every generator setting. Field names follow the file keys;
// command-line flags override them.
type Config struct {
	Input          string   `toml:"input" yaml:"input"`
	Output         string   `toml:"output" yaml:"output"`
	Package        string   `toml:"package" yaml:"package"`
	API            string   `toml:"api" yaml:"api"`
	Version        string   `toml:"version" yaml:"version"`
	Profile        string   `toml:"profile" yaml:"profile"`
	Extensions     []string `toml:"extensions" yaml:"extensions"`
	SkipEnumGroups []string `toml:"skip_enum_groups" yaml:"skip_enum_groups"`
	EnumPrefix     string   `toml:"enum_prefix" yaml:"enum_prefix"`
	CommandPrefix  string   `toml:"command_prefix" yaml:"command_prefix"`

	// KeepEnumPrefix and KeepCommandPrefix turn prefix stripping off.
	KeepEnumPrefix    bool `toml:"keep_enum_prefix" yaml:"keep_enum_prefix"`
	KeepCommandPrefix bool `toml:"keep_command_prefix" yaml:"keep_command_prefix"`

	Log LogConfig `toml:"log" yaml:"log"`
}

// Default selects gl 3.3 core and writes package gl to stdout.
func Default() *Config {
	emit := gogen.DefaultOptions()
	return &Config{
		Input:         "gl.xml",
		Package:       emit.Package,
		API:           string(registry.APIGL),
		Version:       "3.3",
		Profile:       string(registry.ProfileCore),
		EnumPrefix:    emit.EnumPrefix,
		CommandPrefix: emit.CommandPrefix,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the selection and log settings.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	if _, err := c.Target(); err != nil {
		return err
	}
	if _, err := c.Logger(); err != nil {
		return err
	}
	return nil
}

// Target turns the selection fields into a registry.Target.
func (c *Config) Target() (registry.Target, error) {
	return registry.NewTarget(c.API, c.Version, c.Profile, c.Extensions...)
}

// Emit returns the generated-file options.
func (c *Config) Emit() gogen.Options {
	opts := gogen.DefaultOptions()
	if c.Package != "" {
		opts.Package = c.Package
	}
	if c.EnumPrefix != "" {
		opts.EnumPrefix = c.EnumPrefix
	}
	if c.CommandPrefix != "" {
		opts.CommandPrefix = c.CommandPrefix
	}
	opts.KeepEnumPrefix = c.KeepEnumPrefix
	opts.KeepCommandPrefix = c.KeepCommandPrefix
	opts.Source = filepath.Base(c.Input)
	return opts
}

// Logger returns the logger settings; output goes to stderr.
func (c *Config) Logger() (logger.Config, error) {
	cfg := logger.DefaultConfig()

	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return cfg, err
	}
	format, err := logger.ParseFormat(c.Log.Format)
	if err != nil {
		return cfg, err
	}

	cfg.Level = level
	cfg.Format = format
	return cfg, nil
}
