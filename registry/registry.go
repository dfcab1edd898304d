package registry

import "github.com/Masterminds/semver/v3"

// Registry is the full parsed model of a registry document. It is not
// modified after Build; Resolve reads it to produce a View per target.
type Registry struct {
	// Types holds the <types> section.
	Types []TypeDef

	// Enums holds every enum definition in document order.
	Enums []EnumDef

	// Commands holds every command signature in document order.
	Commands []CommandDef

	// Features holds the feature levels in document order.
	Features []FeatureBlock

	// Extensions holds vendor extensions in document order.
	Extensions []Extension

	// SkippedGroups names the enum groups the builder did not read.
	SkippedGroups []string

	typeIndex    map[string]int
	enumIndex    map[enumKey]int
	enumNames    map[string]struct{}
	commandIndex map[string]int
}

type enumKey struct {
	name string
	api  string
}

// TypeDef is an entry of the <types> section.
type TypeDef struct {
	Name     string
	API      string
	Requires string
}

// EnumDef is one enumerant.
type EnumDef struct {
	Name string

	// Value is the source literal with its radix preserved.
	Value string

	// Bitmask is set for enums in a bitmask group.
	Bitmask bool

	// API restricts the definition to one api when non-empty.
	API string

	Alias string
	Group string
}

// CommandDef is one command signature.
type CommandDef struct {
	Name   string
	Params []Param
	Return TypeRef
	Alias  string
}

// Param is one command parameter.
type Param struct {
	// Name is RawName escaped against the builder's keyword table.
	Name    string
	RawName string
	Type    TypeRef

	Group string
	Len   string
}

// BlockKind distinguishes require from remove deltas.
type BlockKind uint8

const (
	BlockRequire BlockKind = iota
	BlockRemove
)

// String returns the element name of the block kind.
func (k BlockKind) String() string {
	if k == BlockRemove {
		return "remove"
	}
	return "require"
}

// DeltaBlock is a require or remove element. Empty API and Profile mean
// the block applies to every target of the enclosing feature.
type DeltaBlock struct {
	Kind    BlockKind
	API     string
	Profile string
	Comment string

	Enums    []string
	Commands []string
	Types    []string

	offset int
}

// FeatureBlock is one version level of one api.
type FeatureBlock struct {
	Name     string
	API      string
	Version  *semver.Version
	Requires []DeltaBlock
	Removes  []DeltaBlock
}

// Extension is a vendor extension that a target may opt into.
type Extension struct {
	Name      string
	Supported []string
	Requires  []DeltaBlock
}

func newRegistry() *Registry {
	return &Registry{
		typeIndex:    make(map[string]int),
		enumIndex:    make(map[enumKey]int),
		enumNames:    make(map[string]struct{}),
		commandIndex: make(map[string]int),
	}
}

// addType records a type. Per-api variants of one name are all kept.
func (r *Registry) addType(t TypeDef) {
	if _, ok := r.typeIndex[t.Name]; !ok {
		r.typeIndex[t.Name] = len(r.Types)
	}
	r.Types = append(r.Types, t)
}

// addEnum records an enum. A later definition with the same name and api
// replaces the earlier one in place.
func (r *Registry) addEnum(e EnumDef) {
	key := enumKey{name: e.Name, api: e.API}
	if i, ok := r.enumIndex[key]; ok {
		r.Enums[i] = e
		return
	}
	r.enumIndex[key] = len(r.Enums)
	r.enumNames[e.Name] = struct{}{}
	r.Enums = append(r.Enums, e)
}

// addCommand records a command. Command names are unique.
func (r *Registry) addCommand(c CommandDef, offset int) error {
	if _, ok := r.commandIndex[c.Name]; ok {
		return newErrorAt(ErrDuplicateSymbol, offset, "command %s defined twice", c.Name)
	}
	r.commandIndex[c.Name] = len(r.Commands)
	r.Commands = append(r.Commands, c)
	return nil
}

// HasType reports whether the <types> section declares name.
func (r *Registry) HasType(name string) bool {
	_, ok := r.typeIndex[name]
	return ok
}

// HasEnum reports whether any api defines the enum name.
func (r *Registry) HasEnum(name string) bool {
	_, ok := r.enumNames[name]
	return ok
}

// LookupEnum returns the definition of name for api, falling back to the
// unscoped definition.
func (r *Registry) LookupEnum(name string, api API) (EnumDef, bool) {
	if i, ok := r.enumIndex[enumKey{name: name, api: string(api)}]; ok {
		return r.Enums[i], true
	}
	if i, ok := r.enumIndex[enumKey{name: name}]; ok {
		return r.Enums[i], true
	}
	return EnumDef{}, false
}

// LookupCommand returns the command called name.
func (r *Registry) LookupCommand(name string) (CommandDef, bool) {
	i, ok := r.commandIndex[name]
	if !ok {
		return CommandDef{}, false
	}
	return r.Commands[i], true
}

// FeaturesFor returns the feature levels of api in document order.
func (r *Registry) FeaturesFor(api API) []FeatureBlock {
	var out []FeatureBlock
	for _, f := range r.Features {
		if API(f.API) == api {
			out = append(out, f)
		}
	}
	return out
}
