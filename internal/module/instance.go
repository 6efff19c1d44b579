package module

import (
	"path/filepath"

	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
)

// Module is the contract every module class implements. Lifecycle methods
// mirror allpix-squared's Module::init/run/finalize; a module that has
// nothing to do in a given phase embeds Base and leaves that method
// unoverridden.
type Module interface {
	Identifier() Identifier
	Initialize() error
	Run(event int) error
	Finalize() error
}

// Base is embedded by every concrete module. It carries the bookkeeping
// the manager and engine need (identifier, resolved configuration, bound
// detector, output directory, per-event seed) and supplies no-op lifecycle
// methods, so a module need only implement the phases it cares about.
type Base struct {
	id        Identifier
	cfg       *config.Section
	detector  *geometry.Detector
	outputDir string
	seed      uint64
}

// NewBase constructs the embeddable module base. detector is nil for
// unique modules.
func NewBase(id Identifier, cfg *config.Section, detector *geometry.Detector, outputDir string) Base {
	return Base{id: id, cfg: cfg, detector: detector, outputDir: outputDir}
}

// Identifier returns the module's identifier.
func (b *Base) Identifier() Identifier { return b.id }

// Config returns the module's resolved configuration section.
func (b *Base) Config() *config.Section { return b.cfg }

// Detector returns the bound detector, or nil for unique modules.
func (b *Base) Detector() *geometry.Detector { return b.detector }

// OutputPath joins a relative path under this module's output directory.
func (b *Base) OutputPath(relative string) string {
	return filepath.Join(b.outputDir, relative)
}

// SetSeed is called by the manager before every Run, with the seed drawn
// from the module stream for the current event. Every module receives the
// same seed for a given event; the seed does not differ per module.
func (b *Base) SetSeed(seed uint64) { b.seed = seed }

// RandomSeed returns the seed set for the current event. Modules must use
// this, rather than seeding their own generators independently, to keep
// runs reproducible.
func (b *Base) RandomSeed() uint64 { return b.seed }

// Initialize is the no-op default; override by defining Initialize on the
// embedding type.
func (b *Base) Initialize() error { return nil }

// Run is the no-op default; override by defining Run on the embedding
// type.
func (b *Base) Run(event int) error { return nil }

// Finalize is the no-op default; override by defining Finalize on the
// embedding type.
func (b *Base) Finalize() error { return nil }
