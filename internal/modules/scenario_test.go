package modules

import (
	"context"
	"strings"
	"testing"

	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/engine"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/manager"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/nmxmxh/pixelsim/internal/module"
	"github.com/nmxmxh/pixelsim/internal/options"
	"github.com/nmxmxh/pixelsim/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, text string, globalNames []string) *config.Document {
	t.Helper()
	r := config.NewReader()
	require.NoError(t, r.Add(strings.NewReader(text), "/cfg/run.conf"))
	return config.NewDocument(r.Sections(), globalNames, []string{"Ignore"})
}

// collector subscribes to StringMessage and appends every message it sees
// this event to a shared slice, so the test can inspect what EchoModule
// dispatched before Reset clears the delegate at end of event.
type collector struct {
	module.Base
	delegate *messaging.MultiDelegate[messaging.StringMessage]
	seen     *[]string
}

func newCollectorFactory(seen *[]string) module.Factory {
	return func(id module.Identifier, cfg *config.Section, messenger *messaging.Messenger, geo *geometry.Registry, det *geometry.Detector, outputDir string) (module.Module, error) {
		d := messaging.BindMulti[messaging.StringMessage](messenger, id.UniqueName(), "", "", false, messaging.None)
		return &collector{Base: module.NewBase(id, cfg, det, outputDir), delegate: d, seen: seen}, nil
	}
}

func (c *collector) Run(event int) error {
	for _, msg := range c.delegate.Get() {
		*c.seen = append(*c.seen, msg.Text)
	}
	return nil
}

// Scenario 1: minimal run (spec.md §8).
func TestScenario_MinimalRun(t *testing.T) {
	classes := module.NewRegistry()
	classes.Register("EchoModule", module.ClassEntry{Unique: true, ParallelSafe: true, Factory: NewEchoModule})
	var seen []string
	classes.Register("Collector", module.ClassEntry{Unique: true, ParallelSafe: true, Factory: newCollectorFactory(&seen)})

	doc := buildDoc(t, `
[Allpix]
number_of_events = 3
random_seed = 42

[EchoModule]
message = "hello"

[Collector]
`, []string{"Allpix"})

	m := manager.New(telemetry.Global(), classes, geometry.NewRegistry(), messaging.NewMessenger(), config.NewDefaultUnits(), t.TempDir())
	require.NoError(t, m.Load(doc, options.NewParser()))

	eng := engine.New(m, telemetry.NewMetrics(), telemetry.Global(), 1)
	summary, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.EventsCompleted)
	assert.Equal(t, []string{"hello", "hello", "hello"}, seen)

	seed, err := m.Global().GetInt("random_seed")
	require.NoError(t, err)
	assert.Equal(t, int64(42), seed)
}

func threeDetectorGeometry(t *testing.T) *geometry.Registry {
	t.Helper()
	geo := geometry.NewRegistry()
	require.NoError(t, geo.AddModel(geometry.NewDetectorModel("X", [2]int64{256, 256}, [2]float64{0.055, 0.055}, 0.3, nil)))
	require.NoError(t, geo.AddModel(geometry.NewDetectorModel("Y", [2]int64{128, 128}, [2]float64{0.1, 0.1}, 0.3, nil)))
	require.NoError(t, geo.AddDetector(geometry.NewDetector("A", "X", [3]float64{}, [3]float64{})))
	require.NoError(t, geo.AddDetector(geometry.NewDetector("B", "X", [3]float64{}, [3]float64{})))
	require.NoError(t, geo.AddDetector(geometry.NewDetector("C", "Y", [3]float64{}, [3]float64{})))
	return geo
}

// Scenario 2: detector expansion (spec.md §8).
func TestScenario_DetectorExpansion(t *testing.T) {
	classes := module.NewRegistry()
	classes.Register("Digitizer", module.ClassEntry{ParallelSafe: true, Factory: NewDigitizer})

	doc := buildDoc(t, `
[Allpix]
number_of_events = 1

[Digitizer]
type = "X"
threshold = 500e
`, []string{"Allpix"})

	m := manager.New(telemetry.Global(), classes, threeDetectorGeometry(t), messaging.NewMessenger(), config.NewDefaultUnits(), t.TempDir())
	require.NoError(t, m.Load(doc, options.NewParser()))

	names := m.ModuleNames()
	assert.ElementsMatch(t, []string{"Digitizer:A", "Digitizer:B"}, names)
}

// Scenario 3: priority override (spec.md §8).
func TestScenario_PriorityOverride(t *testing.T) {
	classes := module.NewRegistry()
	classes.Register("Digitizer", module.ClassEntry{ParallelSafe: true, Factory: NewDigitizer})

	doc := buildDoc(t, `
[Allpix]
number_of_events = 1

[Digitizer]

[Digitizer]
name = "A"
threshold = 1000e
`, []string{"Allpix"})

	m := manager.New(telemetry.Global(), classes, threeDetectorGeometry(t), messaging.NewMessenger(), config.NewDefaultUnits(), t.TempDir())
	require.NoError(t, m.Load(doc, options.NewParser()))

	assert.ElementsMatch(t, []string{"Digitizer:A", "Digitizer:B", "Digitizer:C"}, m.ModuleNames())
}
