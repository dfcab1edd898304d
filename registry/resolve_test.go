package registry

import (
	"slices"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveRegistry exercises version ordering, profile scopes, api-specific
// enum variants and extension selection.
const resolveRegistry = `<registry>
  <enums namespace="GL">
    <enum value="1" name="E1"/>
    <enum value="2" name="E2"/>
    <enum value="3" name="E3"/>
    <enum value="4" name="E4"/>
    <enum value="5" name="E9"/>
    <enum value="0x10" name="E_SHARED" api="gles2"/>
    <enum value="0x11" name="E_SHARED"/>
    <enum value="0x20" name="E_EXT"/>
    <enum value="0x21" name="E_CORE_EXT"/>
  </enums>
  <commands>
    <command><proto>void <name>C1</name></proto></command>
    <command><proto>void <name>C2</name></proto></command>
    <command><proto>void <name>C3</name></proto></command>
    <command><proto>void <name>C_COMPAT</name></proto></command>
    <command><proto>void <name>C_ES</name></proto></command>
    <command><proto>void <name>C_EXT</name></proto></command>
    <command><proto>void <name>C_CORE_EXT</name></proto></command>
    <command><proto>void <name>C_BOTH</name></proto></command>
  </commands>
  <feature api="gl" name="GL_VERSION_2_0" number="2.0">
    <require><enum name="E2"/></require>
    <remove><enum name="E1"/></remove>
  </feature>
  <feature api="gl" name="GL_VERSION_1_0" number="1.0">
    <require>
      <enum name="E1"/>
      <command name="C1"/>
      <enum name="E_SHARED"/>
    </require>
    <require profile="compatibility"><command name="C_COMPAT"/></require>
  </feature>
  <feature api="gl" name="GL_VERSION_3_0" number="3.0">
    <require>
      <enum name="E3"/>
      <command name="C2"/>
    </require>
    <remove><enum name="E9"/></remove>
  </feature>
  <feature api="gl" name="GL_VERSION_3_2" number="3.2">
    <require><enum name="E4"/><command name="C3"/></require>
    <remove><command name="C3"/></remove>
    <remove profile="core"><command name="C_COMPAT"/></remove>
  </feature>
  <feature api="gles2" name="GL_ES_VERSION_2_0" number="2.0">
    <require>
      <enum name="E_SHARED"/>
      <command name="C_ES"/>
    </require>
    <require api="gl"><command name="C1"/></require>
  </feature>
  <extensions>
    <extension name="GL_ARB_sample" supported="gl|gles2">
      <require><enum name="E_EXT"/><command name="C_EXT"/></require>
      <require api="gles2"><command name="C_ES"/></require>
    </extension>
    <extension name="GL_ARB_core_only" supported="glcore">
      <require><enum name="E_CORE_EXT"/><command name="C_CORE_EXT"/></require>
    </extension>
    <extension name="GL_ARB_both" supported="gl|glcore">
      <require><command name="C_BOTH"/></require>
    </extension>
    <extension name="GL_EXT_disabled" supported="disabled">
      <require><command name="C3"/></require>
    </extension>
  </extensions>
</registry>`

func mustTarget(t *testing.T, api, version, profile string, extensions ...string) Target {
	t.Helper()
	target, err := NewTarget(api, version, profile, extensions...)
	require.NoError(t, err)
	return target
}

func TestResolve_Scenarios(t *testing.T) {
	src := `<registry>
  <enums><enum value="1" name="E1"/><enum value="2" name="E2"/><enum value="9" name="E9"/></enums>
  <commands><command><proto>void <name>C1</name></proto></command></commands>
  <feature api="A" name="A_1_0" number="1.0">
    <require><enum name="E1"/><command name="C1"/></require>
  </feature>
  <feature api="A" name="A_2_0" number="2.0">
    <require><enum name="E2"/></require>
    <remove><enum name="E1"/></remove>
  </feature>
</registry>`
	reg := mustBuild(t, src, Options{})

	for _, profile := range []Profile{ProfileNone, ProfileCore, ProfileCompatibility} {
		t.Run("A_1.0_"+string(profile), func(t *testing.T) {
			view := Resolve(reg, Target{API: "A", Version: mustVersion(t, "1.0"), Profile: profile})
			assert.Equal(t, []string{"E1"}, view.EnumNames())
			assert.Equal(t, []string{"C1"}, view.CommandNames())
		})
		t.Run("A_2.0_"+string(profile), func(t *testing.T) {
			view := Resolve(reg, Target{API: "A", Version: mustVersion(t, "2.0"), Profile: profile})
			assert.Equal(t, []string{"E2"}, view.EnumNames())
			assert.Equal(t, []string{"C1"}, view.CommandNames())
		})
	}
}

func TestResolve_RemoveOfAbsentIsNoop(t *testing.T) {
	withRemove := mustBuild(t, `<registry>
  <enums><enum value="1" name="E1"/><enum value="9" name="E9"/></enums>
  <feature api="gl" name="V1" number="1.0">
    <require><enum name="E1"/></require>
    <remove><enum name="E9"/></remove>
  </feature>
</registry>`, Options{})
	withoutRemove := mustBuild(t, `<registry>
  <enums><enum value="1" name="E1"/><enum value="9" name="E9"/></enums>
  <feature api="gl" name="V1" number="1.0">
    <require><enum name="E1"/></require>
  </feature>
</registry>`, Options{})

	target := mustTarget(t, "gl", "1.0", "")
	a := Resolve(withRemove, target)
	b := Resolve(withoutRemove, target)
	assert.Equal(t, b.EnumNames(), a.EnumNames())
	assert.Equal(t, b.CommandNames(), a.CommandNames())
}

func TestResolve_VersionOrderAndSameLevelRemove(t *testing.T) {
	reg := mustBuild(t, resolveRegistry, Options{})
	view := Resolve(reg, mustTarget(t, "gl", "3.2", "core"))

	assert.Equal(t, []string{"GL_VERSION_1_0", "GL_VERSION_2_0", "GL_VERSION_3_0", "GL_VERSION_3_2"}, view.Features)

	// E1 removed at 2.0; C3 required and removed at 3.2.
	assert.Equal(t, []string{"E2", "E3", "E4", "E_SHARED"}, view.EnumNames())
	assert.Equal(t, []string{"C1", "C2"}, view.CommandNames())
}

func TestResolve_ProfileScopes(t *testing.T) {
	reg := mustBuild(t, resolveRegistry, Options{})

	tests := []struct {
		name     string
		version  string
		profile  string
		commands []string
	}{
		{"compat_1.0", "1.0", "compatibility", []string{"C1", "C_COMPAT"}},
		{"core_1.0", "1.0", "core", []string{"C1"}},
		{"none_1.0", "1.0", "", []string{"C1"}},
		{"compat_3.2_keeps_core_removed", "3.2", "compatibility", []string{"C1", "C2", "C_COMPAT"}},
		{"core_3.2", "3.2", "core", []string{"C1", "C2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Resolve(reg, mustTarget(t, "gl", tt.version, tt.profile))
			assert.Equal(t, tt.commands, view.CommandNames())
		})
	}
}

func TestResolve_APIScopes(t *testing.T) {
	reg := mustBuild(t, resolveRegistry, Options{})

	view := Resolve(reg, mustTarget(t, "gles2", "2.0", ""))
	assert.Equal(t, []string{"GL_ES_VERSION_2_0"}, view.Features)
	assert.Equal(t, []string{"C_ES"}, view.CommandNames(), "require api=gl must not apply to gles2")

	require.Len(t, view.Enums, 1)
	assert.Equal(t, "E_SHARED", view.Enums[0].Name)
	assert.Equal(t, "0x10", view.Enums[0].Value, "gles2 variant wins for gles2")

	gl := Resolve(reg, mustTarget(t, "gl", "1.0", ""))
	shared := gl.Enums[len(gl.Enums)-1]
	assert.Equal(t, "E_SHARED", shared.Name)
	assert.Equal(t, "0x11", shared.Value, "unscoped variant for gl")
}

func TestResolve_Idempotent(t *testing.T) {
	target := mustTarget(t, "gl", "3.2", "core", "GL_ARB_*")

	first := Resolve(mustBuild(t, resolveRegistry, Options{}), target)
	second := Resolve(mustBuild(t, resolveRegistry, Options{}), target)
	assert.Equal(t, first.EnumNames(), second.EnumNames())
	assert.Equal(t, first.CommandNames(), second.CommandNames())

	reg := mustBuild(t, resolveRegistry, Options{})
	again := Resolve(reg, target)
	assert.Equal(t, again, Resolve(reg, target), "resolving must not mutate the registry")
}

func TestResolve_Monotonic(t *testing.T) {
	reg := mustBuild(t, resolveRegistry, Options{})

	removedBy := func(upTo *Target) map[string]bool {
		removed := make(map[string]bool)
		for _, f := range reg.FeaturesFor(upTo.API) {
			if f.Version.GreaterThan(upTo.Version) {
				continue
			}
			for _, block := range f.Removes {
				for _, n := range block.Enums {
					removed[n] = true
				}
				for _, n := range block.Commands {
					removed[n] = true
				}
			}
		}
		return removed
	}

	versions := []string{"1.0", "2.0", "3.0", "3.2"}
	for i, v1 := range versions {
		for _, v2 := range versions[i+1:] {
			low := Resolve(reg, mustTarget(t, "gl", v1, "compatibility"))
			high := mustTarget(t, "gl", v2, "compatibility")
			highView := Resolve(reg, high)
			removed := removedBy(&high)

			for _, name := range append(low.EnumNames(), low.CommandNames()...) {
				if removed[name] {
					continue
				}
				assert.True(t,
					slices.Contains(highView.EnumNames(), name) || slices.Contains(highView.CommandNames(), name),
					"%s present at %s but missing at %s", name, v1, v2)
			}
		}
	}
}

func TestResolve_Extensions(t *testing.T) {
	reg := mustBuild(t, resolveRegistry, Options{})

	tests := []struct {
		name       string
		target     Target
		extensions []string
		commands   []string
	}{
		{
			name:     "none_requested",
			target:   mustTarget(t, "gl", "1.0", "core"),
			commands: []string{"C1"},
		},
		{
			name:       "glob_core",
			target:     mustTarget(t, "gl", "1.0", "core", "GL_ARB_*"),
			extensions: []string{"GL_ARB_core_only", "GL_ARB_both"},
			commands:   []string{"C1", "C_CORE_EXT", "C_BOTH"},
		},
		{
			name:     "gl_only_skipped_for_core",
			target:   mustTarget(t, "gl", "1.0", "core", "GL_ARB_sample"),
			commands: []string{"C1"},
		},
		{
			name:       "gl_matches_unprofiled",
			target:     mustTarget(t, "gl", "1.0", "", "GL_ARB_sample"),
			extensions: []string{"GL_ARB_sample"},
			commands:   []string{"C1", "C_EXT"},
		},
		{
			name:       "glob_compat_skips_glcore",
			target:     mustTarget(t, "gl", "1.0", "compatibility", "GL_ARB_*"),
			extensions: []string{"GL_ARB_sample", "GL_ARB_both"},
			commands:   []string{"C1", "C_COMPAT", "C_EXT", "C_BOTH"},
		},
		{
			name:       "exact_name",
			target:     mustTarget(t, "gl", "1.0", "core", "GL_ARB_core_only"),
			extensions: []string{"GL_ARB_core_only"},
			commands:   []string{"C1", "C_CORE_EXT"},
		},
		{
			name:       "gles2_api_scoped_require",
			target:     mustTarget(t, "gles2", "2.0", "", "GL_*"),
			extensions: []string{"GL_ARB_sample"},
			commands:   []string{"C_ES", "C_EXT"},
		},
		{
			name:     "disabled_never_selected",
			target:   mustTarget(t, "gl", "1.0", "", "GL_EXT_disabled"),
			commands: []string{"C1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Resolve(reg, tt.target)
			assert.Equal(t, tt.extensions, view.Extensions)
			assert.Equal(t, tt.commands, view.CommandNames())
		})
	}
}

func TestResolve_EmptyTarget(t *testing.T) {
	reg := mustBuild(t, resolveRegistry, Options{})

	view := Resolve(reg, mustTarget(t, "glsc2", "2.0", ""))
	assert.Empty(t, view.Features)
	assert.Empty(t, view.Enums)
	assert.Empty(t, view.Commands)
	assert.Empty(t, view.TypeNames())
}

func TestView_TypeNames(t *testing.T) {
	reg := mustBuild(t, miniRegistry, Options{})
	view := Resolve(reg, mustTarget(t, "gl", "1.5", "core"))

	assert.Equal(t, []string{"glClear", "glGetError", "glGenBuffers"}, view.CommandNames())
	assert.Equal(t, []string{"GLbitfield", "GLenum", "GLsizei", "GLuint", "void"}, view.TypeNames())
}

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := ParseVersion(s)
	require.NoError(t, err)
	return v
}
