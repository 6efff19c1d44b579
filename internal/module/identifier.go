// Package module defines the module instance contract and the class
// registry modules are discovered through (spec.md §3 ModuleIdentifier /
// Module Instance, §4.5.1), grounded on allpix-squared's Module.hpp and
// shaped like the teacher's registry/loader.go lookup tables.
package module

import "fmt"

// Identifier names one module instantiation: its class name, its instance
// identifier (a detector name, or empty for unique modules) and its
// instantiation priority. Two identifiers are equal iff their unique names
// match; priority does not participate in equality, only in conflict
// resolution (spec.md §4.5.1 Priority resolution).
type Identifier struct {
	Class    string
	Instance string
	Priority int
}

// UniqueName is Class, optionally suffixed with ":Instance" when Instance
// is non-empty.
func (id Identifier) UniqueName() string {
	if id.Instance == "" {
		return id.Class
	}
	return fmt.Sprintf("%s:%s", id.Class, id.Instance)
}

// Equal reports whether id and other share the same unique name.
func (id Identifier) Equal(other Identifier) bool {
	return id.UniqueName() == other.UniqueName()
}
