package module

import "fmt"

// UnknownClassError is raised when a configuration section names a module
// class the host runtime never registered a factory for.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("module class %q is not registered", e.Class)
}

// EndOfRunError is returned by a module's Run to voluntarily request
// graceful termination of the event loop (spec.md §4.5.3): the framework
// completes the current event, still runs finalize, and does not treat it
// as a runtime fault.
type EndOfRunError struct {
	Module string
}

func (e *EndOfRunError) Error() string {
	return fmt.Sprintf("module %s requested end of run", e.Module)
}

// IsEndOfRun reports whether err is an EndOfRunError.
func IsEndOfRun(err error) bool {
	_, ok := err.(*EndOfRunError)
	return ok
}

// AmbiguousInstantiationError is raised when two configuration sections
// produce identifiers with equal unique name and equal priority (spec.md
// §4.5.1).
type AmbiguousInstantiationError struct {
	UniqueName string
}

func (e *AmbiguousInstantiationError) Error() string {
	return fmt.Sprintf("ambiguous instantiation of %q: two sections collide at the same priority", e.UniqueName)
}
