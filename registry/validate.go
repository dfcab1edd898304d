package registry

// Validate checks that every symbol named by a feature or extension block
// is defined by the registry. It returns every unresolved reference.
func Validate(reg *Registry) Errors {
	v := &validator{reg: reg}

	for _, f := range reg.Features {
		owner := "feature " + f.Name
		for _, block := range f.Requires {
			v.validateBlock(owner, block)
		}
		for _, block := range f.Removes {
			v.validateBlock(owner, block)
		}
	}

	for _, x := range reg.Extensions {
		owner := "extension " + x.Name
		for _, block := range x.Requires {
			v.validateBlock(owner, block)
		}
	}

	return v.errors
}

type validator struct {
	reg    *Registry
	errors Errors
}

func (v *validator) validateBlock(owner string, block DeltaBlock) {
	for _, name := range block.Enums {
		if !v.reg.HasEnum(name) {
			v.unresolved(owner, block, "enum", name)
		}
	}
	for _, name := range block.Commands {
		if _, ok := v.reg.LookupCommand(name); !ok {
			v.unresolved(owner, block, "command", name)
		}
	}
	for _, name := range block.Types {
		if !v.reg.HasType(name) {
			v.unresolved(owner, block, "type", name)
		}
	}
}

func (v *validator) unresolved(owner string, block DeltaBlock, what, name string) {
	v.errors.Add(newErrorAt(ErrUnresolvedReference, block.offset,
		"%s: <%s> names unknown %s %s", owner, block.Kind, what, name))
}
