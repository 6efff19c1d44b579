package geometry

// Detector is the immutable record of one independent detector instance
// (spec.md §3 Detector): a unique name, a reference to its model (resolved
// at Registry close time) and its placement.
type Detector struct {
	name        string
	modelType   string
	position    [3]float64
	orientation [3]float64

	model *DetectorModel
}

// newDetector constructs a Detector whose model is not yet resolved. It is
// only reachable through the exported NewDetector; the model is bound when
// the Registry closes.
func newDetector(name, modelType string, position, orientation [3]float64) *Detector {
	return &Detector{name: name, modelType: modelType, position: position, orientation: orientation}
}

// Name returns the detector's unique name.
func (d *Detector) Name() string { return d.name }

// Type returns the detector model's type name.
func (d *Detector) Type() string { return d.modelType }

// Position returns the detector's placement in the global coordinate frame.
func (d *Detector) Position() [3]float64 { return d.position }

// Orientation returns the detector's rotation, as Euler angles, in the
// global coordinate frame.
func (d *Detector) Orientation() [3]float64 { return d.orientation }

// Model returns the detector's resolved model. Only valid after the
// Registry has closed; calling it earlier returns nil.
func (d *Detector) Model() *DetectorModel { return d.model }
