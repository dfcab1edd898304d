// Package registry models an API registry document and selects the part
// of it that one target needs.
//
// # Structure
//
// A Registry holds:
//   - Types: the <types> section, used to check type references
//   - Enums: every enumerant with its source literal
//   - Commands: every command signature with structured TypeRefs
//   - Features: per-version deltas, each a list of require and remove blocks
//   - Extensions: vendor extensions a target may opt into
//
// # Pipeline
//
//	xmltree.Node -> Build -> Registry -> Resolve(Target) -> View
//
// Build reads the tree in one pass and fails on the first structural
// problem, then reports every unresolved symbol reference at once. Resolve
// is a pure function of the registry and a Target, so one parse can feed
// several (api, version, profile) selections.
package registry
