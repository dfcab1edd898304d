package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glgen/registry"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	target, err := cfg.Target()
	require.NoError(t, err)
	assert.Equal(t, "gl 3.3 core", target.String())

	emit := cfg.Emit()
	assert.Equal(t, "gl", emit.Package)
	assert.Equal(t, "GL_", emit.EnumPrefix)
	assert.Equal(t, "gl", emit.CommandPrefix)
	assert.Equal(t, "gl.xml", emit.Source)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "glgen.toml",
			content: `
input = "registry/gl.xml"
output = "gles/gles.go"
package = "gles"
api = "gles2"
version = "3.0"
profile = ""
extensions = ["GL_KHR_*", "GL_EXT_texture_*"]
skip_enum_groups = ["SpecialNumbers"]

[log]
level = "debug"
format = "json"
`,
		},
		{
			name: "yaml",
			file: "glgen.yaml",
			content: `
input: registry/gl.xml
output: gles/gles.go
package: gles
api: gles2
version: "3.0"
profile: ""
extensions:
  - GL_KHR_*
  - GL_EXT_texture_*
skip_enum_groups: [SpecialNumbers]
log:
  level: debug
  format: json
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "registry/gl.xml", cfg.Input)
			assert.Equal(t, "gles/gles.go", cfg.Output)
			assert.Equal(t, []string{"GL_KHR_*", "GL_EXT_texture_*"}, cfg.Extensions)
			assert.Equal(t, []string{"SpecialNumbers"}, cfg.SkipEnumGroups)

			target, err := cfg.Target()
			require.NoError(t, err)
			assert.Equal(t, registry.APIGLES2, target.API)
			assert.Equal(t, registry.ProfileNone, target.Profile)
			assert.Equal(t, "3.0", registry.VersionString(target.Version))

			emit := cfg.Emit()
			assert.Equal(t, "gles", emit.Package)
			assert.Equal(t, "gl.xml", emit.Source)
			assert.Equal(t, "GL_", emit.EnumPrefix, "unset fields keep defaults")

			logCfg, err := cfg.Logger()
			require.NoError(t, err)
			assert.Equal(t, slog.LevelDebug, logCfg.Level)
			assert.Equal(t, "json", logCfg.Format)
		})
	}
}

func TestLoad_KeepPrefixes(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "glgen.toml", "enum_prefix = \"\"\nkeep_enum_prefix = true\nkeep_command_prefix = true\n"},
		{"yaml", "glgen.yaml", "enum_prefix: \"\"\nkeep_enum_prefix: true\nkeep_command_prefix: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			emit := cfg.Emit()
			assert.True(t, emit.KeepEnumPrefix)
			assert.True(t, emit.KeepCommandPrefix)
			assert.Equal(t, "GL_", emit.EnumPrefix, "an empty prefix alone does not disable stripping")
		})
	}

	emit := Default().Emit()
	assert.False(t, emit.KeepEnumPrefix)
	assert.False(t, emit.KeepCommandPrefix)
}

func TestLoad_EmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "glgen.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		msg     string
	}{
		{"toml_unknown_key", "glgen.toml", "apis = \"gl\"\n", "strict mode"},
		{"yaml_unknown_key", "glgen.yaml", "apis: gl\n", "apis"},
		{"toml_syntax", "glgen.toml", "api = \n", ""},
		{"bad_extension", "glgen.json", "{}", "unsupported extension"},
		{"bad_api", "glgen.toml", "api = \"vulkan\"\n", "unknown api"},
		{"bad_version", "glgen.yaml", "version: three\n", "version"},
		{"bad_pattern", "glgen.toml", "extensions = [\"GL_[ARB\"]\n", "pattern"},
		{"bad_log_level", "glgen.toml", "[log]\nlevel = \"loud\"\n", "log level"},
		{"no_input", "glgen.yaml", "input: \"\"\n", "input is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
