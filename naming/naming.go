// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package naming provides reserved-word tables and identifier allocation
// shared by the registry builder and the code emitters.
//
// Each emitter owns its keyword table. The builder receives that table as a
// Keywords value and renames colliding parameter names through Rename, so it
// never depends on a particular target language.
package naming

// Keywords reports whether an identifier is reserved in a target language.
type Keywords interface {
	IsReserved(name string) bool
}

// Set is a Keywords backed by a map.
type Set map[string]struct{}

// NewSet builds a Set from a list of words.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// IsReserved implements Keywords.
func (s Set) IsReserved(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a Set holding the words of s and every other set.
func (s Set) Union(others ...Set) Set {
	out := make(Set, len(s))
	for w := range s {
		out[w] = struct{}{}
	}
	for _, o := range others {
		for w := range o {
			out[w] = struct{}{}
		}
	}
	return out
}

// Suffix is appended to identifiers that collide with a reserved word.
const Suffix = "_"

// UnnamedIdentifier replaces empty identifiers.
const UnnamedIdentifier = "unnamed"

// Rename returns name unchanged unless kw reserves it, in which case Suffix
// is appended until the result is free. A nil kw reserves nothing.
func Rename(name string, kw Keywords) string {
	if name == "" {
		name = UnnamedIdentifier
	}
	if kw == nil {
		return name
	}
	for kw.IsReserved(name) {
		name += Suffix
	}
	return name
}
