package module

import (
	"testing"

	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier_UniqueName(t *testing.T) {
	assert.Equal(t, "GeometryBuilder", Identifier{Class: "GeometryBuilder"}.UniqueName())
	assert.Equal(t, "Digitizer:A", Identifier{Class: "Digitizer", Instance: "A"}.UniqueName())
}

func TestIdentifier_EqualIgnoresPriority(t *testing.T) {
	a := Identifier{Class: "Digitizer", Instance: "A", Priority: 0}
	b := Identifier{Class: "Digitizer", Instance: "A", Priority: 2}
	assert.True(t, a.Equal(b))
}

type echoModule struct {
	Base
	ran bool
}

func (m *echoModule) Run(event int) error {
	m.ran = true
	return nil
}

func TestRegistry_LookupAndFactory(t *testing.T) {
	r := NewRegistry()
	r.Register("Echo", ClassEntry{
		Unique: true,
		Factory: func(id Identifier, cfg *config.Section, messenger *messaging.Messenger, geo *geometry.Registry, detector *geometry.Detector, outputDir string) (Module, error) {
			return nil, nil
		},
	})
	_, err := r.Lookup("Echo")
	require.NoError(t, err)

	_, err = r.Lookup("Missing")
	var unknown *UnknownClassError
	require.ErrorAs(t, err, &unknown)
}

func TestBase_DefaultsAreNoOps(t *testing.T) {
	b := NewBase(Identifier{Class: "Echo"}, nil, nil, "/tmp/out")
	require.NoError(t, b.Initialize())
	require.NoError(t, b.Run(1))
	require.NoError(t, b.Finalize())
	assert.Equal(t, "/tmp/out/hits.csv", b.OutputPath("hits.csv"))
}

func TestModule_EmbedderOverridesRun(t *testing.T) {
	m := &echoModule{Base: NewBase(Identifier{Class: "Echo"}, nil, nil, "/tmp")}
	require.NoError(t, m.Run(1))
	assert.True(t, m.ran)
}
