package registry

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
)

// API names an api variant of the registry.
type API string

// Known apis.
const (
	APIGL    API = "gl"
	APIGLES1 API = "gles1"
	APIGLES2 API = "gles2"
	APIGLSC2 API = "glsc2"
)

// coreSupport is the pseudo api an extension's supported list uses for the
// core profile of gl.
const coreSupport = "glcore"

var knownAPIs = []API{APIGL, APIGLES1, APIGLES2, APIGLSC2}

// ParseAPI validates an api name.
func ParseAPI(s string) (API, error) {
	a := API(strings.TrimSpace(s))
	if !slices.Contains(knownAPIs, a) {
		return "", NewError(ErrInvalidTarget, "unknown api %q", s)
	}
	return a, nil
}

// Profile names an api configuration a require/remove can be scoped to.
type Profile string

// Known profiles. ProfileNone selects only unscoped blocks.
const (
	ProfileNone          Profile = ""
	ProfileCore          Profile = "core"
	ProfileCompatibility Profile = "compatibility"
	ProfileCommon        Profile = "common"
)

var knownProfiles = []Profile{ProfileNone, ProfileCore, ProfileCompatibility, ProfileCommon}

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.TrimSpace(s))
	if !slices.Contains(knownProfiles, p) {
		return "", NewError(ErrInvalidTarget, "unknown profile %q", s)
	}
	return p, nil
}

// ParseVersion parses a feature number such as "1.0" or "4.6".
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, NewError(ErrInvalidVersion, "version %q: %v", s, err)
	}
	return v, nil
}

// Target selects one (api, version, profile) slice of the registry, plus
// any extensions whose names match one of the glob patterns.
type Target struct {
	API        API
	Version    *semver.Version
	Profile    Profile
	Extensions []string
}

// NewTarget validates and assembles a Target from strings.
func NewTarget(api, version, profile string, extensions ...string) (Target, error) {
	a, err := ParseAPI(api)
	if err != nil {
		return Target{}, err
	}
	v, err := ParseVersion(version)
	if err != nil {
		return Target{}, err
	}
	p, err := ParseProfile(profile)
	if err != nil {
		return Target{}, err
	}
	for _, pattern := range extensions {
		if !doublestar.ValidatePattern(pattern) {
			return Target{}, NewError(ErrInvalidTarget, "bad extension pattern %q", pattern)
		}
	}
	return Target{API: a, Version: v, Profile: p, Extensions: extensions}, nil
}

// String returns a compact description such as "gl 3.3 core".
func (t Target) String() string {
	var sb strings.Builder
	sb.WriteString(string(t.API))
	if t.Version != nil {
		sb.WriteByte(' ')
		sb.WriteString(VersionString(t.Version))
	}
	if t.Profile != ProfileNone {
		sb.WriteByte(' ')
		sb.WriteString(string(t.Profile))
	}
	return sb.String()
}

// VersionString renders a version as major.minor.
func VersionString(v *semver.Version) string {
	return strconv.FormatUint(v.Major(), 10) + "." + strconv.FormatUint(v.Minor(), 10)
}

// matches reports whether a block scope applies to the target: each of api
// and profile must be absent or equal.
func (t Target) matches(api string, profile string) bool {
	if api != "" && API(api) != t.API {
		return false
	}
	if profile != "" && Profile(profile) != t.Profile {
		return false
	}
	return true
}
