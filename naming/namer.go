// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package naming

import "fmt"

// Namer allocates unique identifiers within one output scope.
// Every name it hands out is escaped through its keyword table first.
type Namer struct {
	keywords Keywords

	// used tracks names that have been handed out or reserved.
	used map[string]struct{}

	// counter is used to generate unique suffixes.
	counter uint32
}

// NewNamer creates a Namer that escapes names through kw.
func NewNamer(kw Keywords) *Namer {
	return &Namer{
		keywords: kw,
		used:     make(map[string]struct{}),
	}
}

// Call returns a unique identifier derived from base.
func (n *Namer) Call(base string) string {
	escaped := Rename(base, n.keywords)
	if !n.IsUsed(escaped) {
		n.used[escaped] = struct{}{}
		return escaped
	}

	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		if !n.IsUsed(candidate) {
			n.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// IsUsed reports whether name has already been handed out or reserved.
func (n *Namer) IsUsed(name string) bool {
	_, used := n.used[name]
	return used
}

// Reserve marks names as used without returning them.
func (n *Namer) Reserve(names ...string) {
	for _, name := range names {
		n.used[name] = struct{}{}
	}
}

// Count returns the number of names tracked.
func (n *Namer) Count() int {
	return len(n.used)
}
