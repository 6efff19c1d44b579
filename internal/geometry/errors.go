package geometry

import "fmt"

// InvalidArgumentError is raised when AddModel/AddDetector is called with a
// nil argument.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// DuplicateModelError is raised when a model type name is registered twice.
type DuplicateModelError struct {
	Type string
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("detector model %q already registered", e.Type)
}

// DuplicateDetectorError is raised when a detector name is registered twice.
type DuplicateDetectorError struct {
	Name string
}

func (e *DuplicateDetectorError) Error() string {
	return fmt.Sprintf("detector %q already registered", e.Name)
}

// UnknownModelError is raised when a model type name is not registered, at
// lookup time or at close-time resolution.
type UnknownModelError struct {
	Type string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("detector model %q is not registered", e.Type)
}

// UnknownDetectorError is raised when a detector name is not registered.
type UnknownDetectorError struct {
	Name string
}

func (e *UnknownDetectorError) Error() string {
	return fmt.Sprintf("detector %q is not registered", e.Name)
}

// RegistryClosedError is raised when AddModel/AddDetector is called after
// the registry has closed.
type RegistryClosedError struct {
	Operation string
}

func (e *RegistryClosedError) Error() string {
	return fmt.Sprintf("geometry registry is closed: cannot %s", e.Operation)
}
