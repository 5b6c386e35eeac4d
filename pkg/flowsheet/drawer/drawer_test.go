package drawer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
)

func newTestSystem(t *testing.T) *flowsheet.System {
	t.Helper()

	sys := flowsheet.NewSystem("test plant", 1.0e6, 20.0)
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("device a", "")))
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("device b", "")))
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("device c", "")))

	assert.NoError(t, sys.AddFlow("device a", "device c", species.NewDummyMixture("h2 rich gas")))
	assert.NoError(t, sys.AddFlow("device a", "device b", species.NewDummyMixture("steel")))
	assert.NoError(t, sys.AddInput("device a", flowsheet.NewEnergyFlow("base electricity", 0)))
	assert.NoError(t, sys.AddOutput("device b", flowsheet.NewEnergyFlow("losses", 0)))

	return sys
}

func TestRender(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	path, err := Render(sys, t.TempDir())
	assert.NoError(t, err)
	assert.Equal(t, "test_plant.dot", filepath.Base(path))

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	dot := string(raw)

	assert.Contains(t, dot, `"device a" -> "device b"`)
	assert.Contains(t, dot, `"device a" -> "device c"`)
	assert.Contains(t, dot, "h2 rich gas")
	assert.Contains(t, dot, "#daa520") // electricity edges are gold
	assert.Contains(t, dot, "#d62728") // loss edges are red
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	first, err := Render(sys, t.TempDir())
	assert.NoError(t, err)
	second, err := Render(sys, t.TempDir())
	assert.NoError(t, err)

	a, err := os.ReadFile(first)
	assert.NoError(t, err)
	b, err := os.ReadFile(second)
	assert.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// Edges out of the same device come out in sorted target order.
	dot := string(a)
	assert.Less(t, strings.Index(dot, `"device a" -> "device b"`), strings.Index(dot, `"device a" -> "device c"`))
}
