// Package testutil provides canned fixtures for engine-level tests across
// package boundaries: a mock module-class registry and a small in-memory
// geometry, grounded on the teacher's kernel/threads/testutil builder style.
package testutil

import (
	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/nmxmxh/pixelsim/internal/module"
)

// GeometryBuilder fluently assembles a populated geometry registry for
// tests that need detectors without hand-writing registration calls.
type GeometryBuilder struct {
	registry *geometry.Registry
}

// NewGeometryBuilder returns an empty builder.
func NewGeometryBuilder() *GeometryBuilder {
	return &GeometryBuilder{registry: geometry.NewRegistry()}
}

// WithModel registers a detector model and returns the builder.
func (b *GeometryBuilder) WithModel(typeName string, pixels [2]int64, pixelSize [2]float64, thickness float64) *GeometryBuilder {
	if err := b.registry.AddModel(geometry.NewDetectorModel(typeName, pixels, pixelSize, thickness, nil)); err != nil {
		panic(err)
	}
	return b
}

// WithDetector registers a detector instance and returns the builder.
func (b *GeometryBuilder) WithDetector(name, modelType string, position, orientation [3]float64) *GeometryBuilder {
	if err := b.registry.AddDetector(geometry.NewDetector(name, modelType, position, orientation)); err != nil {
		panic(err)
	}
	return b
}

// Build returns the assembled registry, still open (callers that need it
// closed should call Detectors() themselves).
func (b *GeometryBuilder) Build() *geometry.Registry {
	return b.registry
}

// NewRecordingModuleClass registers a class named className whose
// instances append phase markers to log. unique and parallelSafe are
// forwarded to the ClassEntry as-is.
func NewRecordingModuleClass(registry *module.Registry, className string, unique, parallelSafe bool, log *[]string) {
	registry.Register(className, module.ClassEntry{
		Unique:       unique,
		ParallelSafe: parallelSafe,
		Factory: func(id module.Identifier, cfg *config.Section, messenger *messaging.Messenger, geo *geometry.Registry, det *geometry.Detector, outputDir string) (module.Module, error) {
			return &recordingModule{Base: module.NewBase(id, cfg, det, outputDir), log: log}, nil
		},
	})
}

type recordingModule struct {
	module.Base
	log *[]string
}

func (m *recordingModule) Initialize() error {
	*m.log = append(*m.log, "init:"+m.Identifier().UniqueName())
	return nil
}

func (m *recordingModule) Run(event int) error {
	*m.log = append(*m.log, "run:"+m.Identifier().UniqueName())
	return nil
}

func (m *recordingModule) Finalize() error {
	*m.log = append(*m.log, "finalize:"+m.Identifier().UniqueName())
	return nil
}
