package modules

import (
	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/nmxmxh/pixelsim/internal/module"
)

// Digitizer is a per-detector reference module (spec.md §8 scenarios 2
// and 3): it reads a charge threshold from its resolved configuration.
type Digitizer struct {
	module.Base
	threshold float64
}

// NewDigitizer is a module.Factory for the Digitizer class.
func NewDigitizer(id module.Identifier, cfg *config.Section, messenger *messaging.Messenger, geo *geometry.Registry, det *geometry.Detector, outputDir string) (module.Module, error) {
	threshold, err := cfg.GetFloatDefault("threshold", 0, config.NewDefaultUnits())
	if err != nil {
		return nil, err
	}
	return &Digitizer{
		Base:      module.NewBase(id, cfg, det, outputDir),
		threshold: threshold,
	}, nil
}

// Threshold returns the configured threshold, in elementary charges.
func (m *Digitizer) Threshold() float64 { return m.threshold }
