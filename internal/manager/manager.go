// Package manager implements module discovery, instantiation, priority
// resolution and the three-phase lifecycle (spec.md §4.5, C5), grounded on
// allpix-squared's ModuleManager but driven by a static class registry
// instead of dlopen'd shared libraries (spec.md §6 Module library
// contract: "or equivalent interface entries in a static registry").
package manager

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/nmxmxh/pixelsim/internal/module"
	"github.com/nmxmxh/pixelsim/internal/options"
	"github.com/nmxmxh/pixelsim/internal/telemetry"
)

// instance bundles one constructed module with the identifier and
// configuration it was built from.
type instance struct {
	id  module.Identifier
	mod module.Module
	cfg *config.Section

	parallelSafe bool
	outputDir    string
}

// Manager owns the ordered list of constructed module instances: discovery
// and instantiation happen once, in Load; Initialize/RunEvent/Finalize
// drive the three lifecycle phases across the whole list, in declaration
// order, every event.
type Manager struct {
	logger    *telemetry.Logger
	classes   *module.Registry
	geo       *geometry.Registry
	messenger *messaging.Messenger
	units     config.UnitRegistry

	outputRoot string
	purge      bool

	global *config.Section

	order    []*instance
	byUnique map[string]int

	runMu     sync.Mutex
	eventsRun int
	metrics   *telemetry.Metrics
}

// SetMetrics attaches the Prometheus instrumentation the engine uses to
// time module runs and count skipped ones. Optional: a Manager with no
// metrics attached simply skips recording.
func (m *Manager) SetMetrics(metrics *telemetry.Metrics) { m.metrics = metrics }

// New constructs an empty Manager bound to the given shared resources.
func New(logger *telemetry.Logger, classes *module.Registry, geo *geometry.Registry, messenger *messaging.Messenger, units config.UnitRegistry, outputRoot string) *Manager {
	return &Manager{
		logger:     logger,
		classes:    classes,
		geo:        geo,
		messenger:  messenger,
		units:      units,
		outputRoot: outputRoot,
		byUnique:   make(map[string]int),
	}
}

// Load discovers and instantiates every module named in doc, applying
// option overrides in the mandated order (global, then class, then
// instance) before each construction call (spec.md §4.2, §4.5.1).
func (m *Manager) Load(doc *config.Document, opts *options.Parser) error {
	m.global = doc.Global().Clone()
	opts.ApplyGlobal(m.global)

	if purge, err := m.global.GetBoolDefault("purge_output_directory", false); err == nil {
		m.purge = purge
	}

	for _, section := range doc.ModuleSections() {
		class := section.Name()
		entry, err := m.classes.Lookup(class)
		if err != nil {
			return err
		}

		classCfg := section.Clone()
		opts.ApplyTo(class, classCfg)

		if entry.Unique {
			id := module.Identifier{Class: class, Instance: "", Priority: 0}
			if err := m.instantiate(id, entry, classCfg, opts, nil); err != nil {
				return err
			}
			continue
		}

		if err := m.instantiateDetectorModules(class, entry, classCfg, opts); err != nil {
			return err
		}
	}
	return nil
}

type detectorTarget struct {
	detector *geometry.Detector
	priority int
}

func (m *Manager) instantiateDetectorModules(class string, entry module.ClassEntry, classCfg *config.Section, opts *options.Parser) error {
	var targets []detectorTarget
	named := make(map[string]bool)

	if classCfg.Has("name") {
		names, err := classCfg.GetStringArray("name")
		if err != nil {
			return err
		}
		for _, name := range names {
			det, err := m.geo.Detector(name)
			if err != nil {
				return err
			}
			targets = append(targets, detectorTarget{detector: det, priority: 0})
			named[name] = true
		}
	}

	if classCfg.Has("type") {
		types, err := classCfg.GetStringArray("type")
		if err != nil {
			return err
		}
		for _, t := range types {
			dets, err := m.geo.DetectorsByType(t)
			if err != nil {
				return err
			}
			for _, det := range dets {
				if named[det.Name()] {
					continue
				}
				targets = append(targets, detectorTarget{detector: det, priority: 1})
			}
		}
	}

	if !classCfg.Has("name") && !classCfg.Has("type") {
		dets, err := m.geo.Detectors()
		if err != nil {
			return err
		}
		for _, det := range dets {
			targets = append(targets, detectorTarget{detector: det, priority: 2})
		}
	}

	for _, target := range targets {
		id := module.Identifier{Class: class, Instance: target.detector.Name(), Priority: target.priority}
		if err := m.instantiate(id, entry, classCfg, opts, target.detector); err != nil {
			return err
		}
	}
	return nil
}

// instantiate builds one module instance, applies instance-scoped
// overrides, resolves priority conflicts against any existing instance of
// equal unique name, and appends it to the run list.
func (m *Manager) instantiate(id module.Identifier, entry module.ClassEntry, classCfg *config.Section, opts *options.Parser, det *geometry.Detector) error {
	instCfg := classCfg.Clone()
	opts.ApplyTo(id.UniqueName(), instCfg)

	outputDir := filepath.Join(m.outputRoot, strings.ReplaceAll(id.UniqueName(), ":", "_"))

	section := m.logger.Section("C:" + id.UniqueName())
	restore := m.applyLogOverrides(section, instCfg)
	mod, err := entry.Factory(id, instCfg, m.messenger, m.geo, det, outputDir)
	restore()
	if err != nil {
		return err
	}

	inst := &instance{id: id, mod: mod, cfg: instCfg, parallelSafe: entry.ParallelSafe, outputDir: outputDir}

	if idx, exists := m.byUnique[id.UniqueName()]; exists {
		existing := m.order[idx]
		switch {
		case id.Priority < existing.id.Priority:
			m.order[idx] = inst
			return nil
		case id.Priority == existing.id.Priority:
			return &module.AmbiguousInstantiationError{UniqueName: id.UniqueName()}
		default:
			return nil // lower priority: existing instance wins, discard this one
		}
	}

	m.byUnique[id.UniqueName()] = len(m.order)
	m.order = append(m.order, inst)
	return nil
}

// applyLogOverrides applies a module's log_level/log_format configuration
// keys (if present) to logger and returns a function restoring the
// previous values (spec.md §4.5.3, mirrors
// ModuleManager::set_module_before/after).
func (m *Manager) applyLogOverrides(logger *telemetry.Logger, cfg *config.Section) func() {
	var restoreLevel func()
	var restoreFormat func()

	if cfg.Has("log_level") {
		raw, _ := cfg.GetString("log_level")
		if level, ok := telemetry.LevelFromString(raw); ok {
			prev := logger.SetLevel(level)
			restoreLevel = func() { logger.SetLevel(prev) }
		}
	}
	if cfg.Has("log_format") {
		raw, _ := cfg.GetString("log_format")
		if format, ok := telemetry.FormatFromString(raw); ok {
			prev := logger.SetFormat(format)
			restoreFormat = func() { logger.SetFormat(prev) }
		}
	}

	return func() {
		if restoreLevel != nil {
			restoreLevel()
		}
		if restoreFormat != nil {
			restoreFormat()
		}
	}
}

// ParallelSafe reports whether every instantiated module declared itself
// safe to run in parallel (spec.md §4.5.4): if false, the engine forces
// its worker count to 1.
func (m *Manager) ParallelSafe() bool {
	for _, inst := range m.order {
		if !inst.parallelSafe {
			return false
		}
	}
	return true
}

// NumberOfEvents reads number_of_events from the global configuration,
// defaulting to 1.
func (m *Manager) NumberOfEvents() (int64, error) {
	return m.global.GetIntDefault("number_of_events", 1)
}

// Global returns the merged global configuration section.
func (m *Manager) Global() *config.Section { return m.global }

// PurgeOutputDirectory reports whether the output root should be purged
// before the run (spec.md §6 Per-run output layout).
func (m *Manager) PurgeOutputDirectory() bool { return m.purge }

// OutputRoot returns the configured output root directory.
func (m *Manager) OutputRoot() string { return m.outputRoot }

// Len returns the number of instantiated modules.
func (m *Manager) Len() int { return len(m.order) }

// OutputDirectories returns every instantiated module's output directory,
// in declaration order, for the engine to create before the event loop.
func (m *Manager) OutputDirectories() []string {
	out := make([]string, len(m.order))
	for i, inst := range m.order {
		out[i] = inst.outputDir
	}
	return out
}

// ModuleNames returns every instantiated module's unique name, in
// declaration order, for run summaries.
func (m *Manager) ModuleNames() []string {
	out := make([]string, len(m.order))
	for i, inst := range m.order {
		out[i] = inst.id.UniqueName()
	}
	return out
}

// Initialize runs every module's Initialize() once, in declaration order,
// bracketed by log-section scoping and log_level/log_format overrides.
func (m *Manager) Initialize() error {
	for _, inst := range m.order {
		section := m.logger.Section("I:" + inst.id.UniqueName())
		restore := m.applyLogOverrides(section, inst.cfg)
		section.Debug("initializing module")
		err := inst.mod.Initialize()
		restore()
		if err != nil {
			return fmt.Errorf("module %s: initialize: %w", inst.id.UniqueName(), err)
		}
	}
	return nil
}

// RunEvent executes every module's Run(event) once, in declaration order,
// skipping modules whose REQUIRED delegates are unsatisfied. seed is the
// module-stream seed drawn for this event; it is assigned to every module
// uniformly here, and each module further derives its own per-event value
// from it if it needs more than one draw. A module returning EndOfRunError
// does not cut the event short: the remaining modules still run, and the
// end-of-run request is returned once the event has completed.
func (m *Manager) RunEvent(event int, seed uint64) error {
	var endOfRun error
	for _, inst := range m.order {
		if base, ok := inst.mod.(interface{ SetSeed(uint64) }); ok {
			base.SetSeed(seed)
		}
		if !m.messenger.Satisfied(inst.id.UniqueName()) {
			if m.metrics != nil {
				m.metrics.EventsSkipped.Inc()
			}
			continue
		}

		section := m.logger.Section("R:" + inst.id.UniqueName())
		restore := m.applyLogOverrides(section, inst.cfg)
		start := time.Now()
		err := inst.mod.Run(event)
		if m.metrics != nil {
			m.metrics.ModuleDuration.WithLabelValues(inst.id.UniqueName()).Observe(time.Since(start).Seconds())
		}
		restore()
		if err != nil {
			if module.IsEndOfRun(err) {
				if endOfRun == nil {
					endOfRun = &module.EndOfRunError{Module: inst.id.UniqueName()}
				}
				continue
			}
			return fmt.Errorf("module %s: run(%d): %w", inst.id.UniqueName(), event, err)
		}
	}
	m.runMu.Lock()
	m.eventsRun++
	m.runMu.Unlock()
	m.messenger.Reset()
	return endOfRun
}

// Finalize runs every module's Finalize() once, in declaration order, but
// only if at least one event actually ran (spec.md §4.5.3).
func (m *Manager) Finalize() error {
	if m.eventsRun == 0 {
		return nil
	}
	for _, inst := range m.order {
		section := m.logger.Section("F:" + inst.id.UniqueName())
		restore := m.applyLogOverrides(section, inst.cfg)
		err := inst.mod.Finalize()
		restore()
		if err != nil {
			return fmt.Errorf("module %s: finalize: %w", inst.id.UniqueName(), err)
		}
	}
	return nil
}
