package geometry

import "github.com/nmxmxh/pixelsim/internal/config"

// DetectorModel is the immutable description of a sensor shared by every
// Detector instance of that type (spec.md §3 Detector Model): pixel grid,
// sensor geometry and assembly metadata. The framework core does not
// interpret most of these fields itself; it only guarantees uniqueness of
// the type name and resolves Detector references to the model, leaving
// their content accessible through the backing Section for modules that
// need it (sensor builders, digitizers, visualization).
type DetectorModel struct {
	typeName string

	numberOfPixels [2]int64
	pixelSize      [2]float64
	sensorThick    float64

	raw *config.Section
}

// NewDetectorModel builds a DetectorModel from its declaring configuration
// section. typeName is the model's unique type name (matched against each
// Detector's `type` reference); cfg carries the remaining geometry and
// assembly settings verbatim for later typed retrieval.
func NewDetectorModel(typeName string, numberOfPixels [2]int64, pixelSize [2]float64, sensorThickness float64, cfg *config.Section) *DetectorModel {
	return &DetectorModel{
		typeName:       typeName,
		numberOfPixels: numberOfPixels,
		pixelSize:      pixelSize,
		sensorThick:    sensorThickness,
		raw:            cfg,
	}
}

// Type returns the model's unique type name.
func (m *DetectorModel) Type() string { return m.typeName }

// NumberOfPixels returns the {columns, rows} pixel grid dimensions.
func (m *DetectorModel) NumberOfPixels() [2]int64 { return m.numberOfPixels }

// PixelSize returns the {x, y} pitch of a single pixel.
func (m *DetectorModel) PixelSize() [2]float64 { return m.pixelSize }

// SensorThickness returns the sensor bulk thickness along the beam axis.
func (m *DetectorModel) SensorThickness() float64 { return m.sensorThick }

// Config exposes the full backing section, for assembly metadata and any
// model-specific keys the core does not model directly.
func (m *DetectorModel) Config() *config.Section { return m.raw }
