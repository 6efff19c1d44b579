// Package geometry implements the read-only detector/model catalog shared
// by all modules at run time (spec.md §4.3, C3): an open/closed registry
// of Detectors and DetectorModels with deferred model resolution, grounded
// on allpix-squared's GeometryManager.
package geometry

// Registry is the global geometry catalog. It starts open: AddModel and
// AddDetector may be called freely. The first call to a read operation
// (Detectors, Detector, DetectorsByType) closes it implicitly, at which
// point every detector's pending model reference is resolved; a model that
// cannot be resolved is a fatal UnknownModelError.
type Registry struct {
	closed bool

	models     []*DetectorModel
	modelNames map[string]bool

	detectors     []*Detector
	detectorNames map[string]bool
}

// NewRegistry returns an empty, open Registry.
func NewRegistry() *Registry {
	return &Registry{
		modelNames:    make(map[string]bool),
		detectorNames: make(map[string]bool),
	}
}

// AddModel registers a detector model. Only valid while the registry is
// open.
func (r *Registry) AddModel(model *DetectorModel) error {
	if r.closed {
		return &RegistryClosedError{Operation: "addModel"}
	}
	if model == nil {
		return &InvalidArgumentError{Reason: "added model cannot be nil"}
	}
	if r.modelNames[model.Type()] {
		return &DuplicateModelError{Type: model.Type()}
	}
	r.modelNames[model.Type()] = true
	r.models = append(r.models, model)
	return nil
}

// HasModel reports whether a model with the given type name is registered.
func (r *Registry) HasModel(name string) bool {
	return r.modelNames[name]
}

// GetModel returns the model registered under name, or UnknownModelError.
func (r *Registry) GetModel(name string) (*DetectorModel, error) {
	for _, m := range r.models {
		if m.Type() == name {
			return m, nil
		}
	}
	return nil, &UnknownModelError{Type: name}
}

// Models returns every registered model, in registration order. The models
// returned are not guaranteed to be referenced by any detector.
func (r *Registry) Models() []*DetectorModel {
	out := make([]*DetectorModel, len(r.models))
	copy(out, r.models)
	return out
}

// AddDetector registers a detector instance. Only valid while the registry
// is open. Its model reference is resolved lazily, at Close.
func (r *Registry) AddDetector(d *Detector) error {
	if r.closed {
		return &RegistryClosedError{Operation: "addDetector"}
	}
	if d == nil {
		return &InvalidArgumentError{Reason: "added detector cannot be nil"}
	}
	if r.detectorNames[d.name] {
		return &DuplicateDetectorError{Name: d.name}
	}
	r.detectorNames[d.name] = true
	r.detectors = append(r.detectors, d)
	return nil
}

// HasDetector reports whether a detector with the given name is registered.
func (r *Registry) HasDetector(name string) bool {
	return r.detectorNames[name]
}

// Close resolves every detector's pending model reference. Calling it more
// than once is a no-op. After Close, AddModel/AddDetector return
// RegistryClosedError.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	for _, d := range r.detectors {
		model, err := r.GetModel(d.modelType)
		if err != nil {
			return err
		}
		d.model = model
	}
	return nil
}

// Detectors returns every registered detector, in registration order,
// closing the registry on first call.
func (r *Registry) Detectors() ([]*Detector, error) {
	if !r.closed {
		if err := r.Close(); err != nil {
			return nil, err
		}
	}
	out := make([]*Detector, len(r.detectors))
	copy(out, r.detectors)
	return out, nil
}

// Detector returns the detector registered under name, closing the
// registry on first call.
func (r *Registry) Detector(name string) (*Detector, error) {
	if !r.closed {
		if err := r.Close(); err != nil {
			return nil, err
		}
	}
	for _, d := range r.detectors {
		if d.name == name {
			return d, nil
		}
	}
	return nil, &UnknownDetectorError{Name: name}
}

// DetectorsByType returns every detector of the given model type, closing
// the registry on first call. UnknownModelError if none match.
func (r *Registry) DetectorsByType(modelType string) ([]*Detector, error) {
	if !r.closed {
		if err := r.Close(); err != nil {
			return nil, err
		}
	}
	var out []*Detector
	for _, d := range r.detectors {
		if d.modelType == modelType {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, &UnknownModelError{Type: modelType}
	}
	return out, nil
}

// NewDetector constructs a Detector for registration. Exposed at package
// level (rather than requiring callers to build geometry.Detector
// literals) so the loader that reads the configuration document is the
// only place that needs to know Detector's internal shape.
func NewDetector(name, modelType string, position, orientation [3]float64) *Detector {
	return newDetector(name, modelType, position, orientation)
}
