package module

import (
	"sync"

	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/messaging"
)

// Factory builds one instance of a module class from its resolved
// configuration, the shared messenger and geometry registry, and (for
// per-detector classes) the bound detector. detector is nil when the
// class is unique (spec.md §6 Module library contract).
type Factory func(id Identifier, cfg *config.Section, messenger *messaging.Messenger, geo *geometry.Registry, detector *geometry.Detector, outputDir string) (Module, error)

// ClassEntry is the registration record for one module class: its factory,
// and whether the class is unique (instantiated once, with no bound
// detector) or per-detector.
type ClassEntry struct {
	Unique  bool
	Factory Factory

	// ParallelSafe declares whether instances of this class may run
	// concurrently across events (spec.md §4.5.4). If any instantiated
	// module is not parallel-safe, the engine forces its worker count to
	// 1 for the whole run.
	ParallelSafe bool
}

// Registry is the host runtime's catalog of module classes, populated at
// startup (by the CLI, normally) and consulted by the manager during
// discovery.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]ClassEntry
}

// NewRegistry returns an empty class registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]ClassEntry)}
}

// Register adds a class. A later call with the same class name overwrites
// the earlier one; the registry does not itself guard against duplicate
// registration, since the host binary constructs it once at startup from a
// fixed list of built-in classes.
func (r *Registry) Register(class string, entry ClassEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[class] = entry
}

// Lookup returns the entry registered for class, or UnknownClassError.
func (r *Registry) Lookup(class string) (ClassEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.classes[class]
	if !ok {
		return ClassEntry{}, &UnknownClassError{Class: class}
	}
	return entry, nil
}
