// Package modules is the built-in reference module library: a small set
// of module classes good enough to exercise the whole runtime end to end
// (spec.md §8 scenario seeds), grounded on the original's simplest
// example modules rather than its physics modules (detector simulation
// physics is out of scope here — the runtime is what is being ported).
package modules

import (
	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/nmxmxh/pixelsim/internal/module"
)

// EchoModule dispatches a StringMessage carrying its configured "message"
// value on every event. Unique, parallel-safe (spec.md §8 scenario 1).
type EchoModule struct {
	module.Base
	messenger *messaging.Messenger
	text      string
}

// NewEchoModule is a module.Factory for the EchoModule class.
func NewEchoModule(id module.Identifier, cfg *config.Section, messenger *messaging.Messenger, geo *geometry.Registry, det *geometry.Detector, outputDir string) (module.Module, error) {
	text, err := cfg.GetStringDefault("message", "")
	if err != nil {
		return nil, err
	}
	return &EchoModule{
		Base:      module.NewBase(id, cfg, det, outputDir),
		messenger: messenger,
		text:      text,
	}, nil
}

func (m *EchoModule) Run(event int) error {
	return messaging.Dispatch(m.messenger, m.Identifier().UniqueName(), "", false, messaging.StringMessage{Text: m.text}, "", "")
}

// Register adds every built-in class this package provides to r.
func Register(r *module.Registry) {
	r.Register("EchoModule", module.ClassEntry{
		Unique:       true,
		ParallelSafe: true,
		Factory:      NewEchoModule,
	})
	r.Register("Digitizer", module.ClassEntry{
		ParallelSafe: true,
		Factory:      NewDigitizer,
	})
}
