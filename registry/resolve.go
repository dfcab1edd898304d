package registry

import (
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// View is the part of a registry selected by one target. Enums and
// Commands keep the relative order of the registry.
type View struct {
	Target   Target
	Enums    []EnumDef
	Commands []CommandDef

	// Features names the feature levels folded, in processing order.
	Features []string

	// Extensions names the extensions whose requires were added.
	Extensions []string
}

// Resolve folds the feature levels of reg into the symbol set of t.
//
// Feature levels of t.API up to and including t.Version are processed in
// ascending version order. Within one level every matching require is
// applied before any matching remove, so a name required and removed at the
// same level ends up absent. Removing an absent name does nothing. A block
// matches when each of its api and profile scopes is absent or equal to
// the target's. Extensions selected by t.Extensions contribute their
// matching requires last.
//
// Resolve never fails: a target that matches nothing yields an empty View.
// reg is not modified, so one registry can serve any number of targets.
func Resolve(reg *Registry, t Target) *View {
	view := &View{Target: t}

	enums := make(map[string]struct{})
	commands := make(map[string]struct{})

	for _, f := range selectFeatures(reg, t) {
		view.Features = append(view.Features, f.Name)

		for _, block := range f.Requires {
			if t.matches(block.API, block.Profile) {
				addNames(enums, block.Enums)
				addNames(commands, block.Commands)
			}
		}
		for _, block := range f.Removes {
			if t.matches(block.API, block.Profile) {
				removeNames(enums, block.Enums)
				removeNames(commands, block.Commands)
			}
		}
	}

	for _, x := range selectExtensions(reg, t) {
		view.Extensions = append(view.Extensions, x.Name)
		for _, block := range x.Requires {
			if t.matches(block.API, block.Profile) {
				addNames(enums, block.Enums)
				addNames(commands, block.Commands)
			}
		}
	}

	seen := make(map[string]struct{}, len(enums))
	for _, e := range reg.Enums {
		if _, ok := enums[e.Name]; !ok {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		def, ok := reg.LookupEnum(e.Name, t.API)
		if !ok || def != e {
			// Another variant of this name is the one t selects.
			continue
		}
		seen[e.Name] = struct{}{}
		view.Enums = append(view.Enums, e)
	}

	for _, c := range reg.Commands {
		if _, ok := commands[c.Name]; ok {
			view.Commands = append(view.Commands, c)
		}
	}

	return view
}

// selectFeatures returns the levels of t.API not newer than t.Version,
// sorted by version. A nil version places no upper bound.
func selectFeatures(reg *Registry, t Target) []FeatureBlock {
	var selected []FeatureBlock
	for _, f := range reg.Features {
		if API(f.API) != t.API {
			continue
		}
		if t.Version != nil && f.Version.GreaterThan(t.Version) {
			continue
		}
		selected = append(selected, f)
	}
	slices.SortStableFunc(selected, func(a, b FeatureBlock) int {
		return a.Version.Compare(b.Version)
	})
	return selected
}

// selectExtensions returns the extensions t opts into that support t.
func selectExtensions(reg *Registry, t Target) []Extension {
	if len(t.Extensions) == 0 {
		return nil
	}
	var selected []Extension
	for _, x := range reg.Extensions {
		if t.wantsExtension(x.Name) && t.supports(x) {
			selected = append(selected, x)
		}
	}
	return selected
}

func (t Target) wantsExtension(name string) bool {
	for _, pattern := range t.Extensions {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// supports reports whether x lists t's api. For gl, "glcore" covers the core
// profile and "gl" covers every other profile.
func (t Target) supports(x Extension) bool {
	for _, s := range x.Supported {
		switch {
		case s == coreSupport:
			if t.API == APIGL && t.Profile == ProfileCore {
				return true
			}
		case API(s) == APIGL && t.API == APIGL:
			if t.Profile != ProfileCore {
				return true
			}
		case API(s) == t.API:
			return true
		}
	}
	return false
}

func addNames(set map[string]struct{}, names []string) {
	for _, n := range names {
		set[n] = struct{}{}
	}
}

func removeNames(set map[string]struct{}, names []string) {
	for _, n := range names {
		delete(set, n)
	}
}

// EnumNames returns the names of the selected enums in order.
func (v *View) EnumNames() []string {
	names := make([]string, len(v.Enums))
	for i, e := range v.Enums {
		names[i] = e.Name
	}
	return names
}

// CommandNames returns the names of the selected commands in order.
func (v *View) CommandNames() []string {
	names := make([]string, len(v.Commands))
	for i, c := range v.Commands {
		names[i] = c.Name
	}
	return names
}

// TypeNames returns the sorted set of named types the selected commands
// reference through their parameters and return values.
func (v *View) TypeNames() []string {
	set := make(map[string]struct{})
	for _, c := range v.Commands {
		set[BaseName(c.Return)] = struct{}{}
		for _, p := range c.Params {
			set[BaseName(p.Type)] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
