package plants

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
)

func TestNewPlasmaSystem(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts        Options
		wantDevices []string
		absent      []string
	}{
		"default": {
			opts:        DefaultOptions(),
			wantDevices: []string{"water electrolysis", "h2 storage", "plasma torch", "plasma smelter", "join 1"},
			absent:      []string{"bof", "eaf", "fluidized bed 1"},
		},
		"bought hydrogen": {
			opts: func() Options {
				o := DefaultOptions()
				o.OnPremisesH2Production = false

				return o
			}(),
			wantDevices: []string{"plasma smelter"},
			absent:      []string{"water electrolysis", "h2 storage"},
		},
		"no storage": {
			opts: func() Options {
				o := DefaultOptions()
				o.H2StorageMethod = ""

				return o
			}(),
			wantDevices: []string{"water electrolysis"},
			absent:      []string{"h2 storage"},
		},
		"bof steelmaking": {
			opts: func() Options {
				o := DefaultOptions()
				o.BOFSteelmaking = true

				return o
			}(),
			wantDevices: []string{"plasma smelter", "bof"},
			absent:      []string{"eaf"},
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sys, err := NewPlasmaSystem("Plasma", tc.opts)
			assert.NoError(t, err)
			assert.Equal(t, "Plasma", sys.Name())
			assert.Equal(t, tc.opts.AnnualCapacityTonnes, sys.AnnualCapacity())
			assert.Equal(t, tc.opts.PlantLifetimeYears, sys.LifetimeYears())

			for _, d := range tc.wantDevices {
				assert.True(t, sys.HasDevice(d), "missing device %s", d)
			}
			for _, d := range tc.absent {
				assert.False(t, sys.HasDevice(d), "unexpected device %s", d)
			}
		})
	}
}

func TestPlasmaSystemVars(t *testing.T) {
	t.Parallel()

	sys, err := NewPlasmaSystem("Plasma", DefaultOptions())
	assert.NoError(t, err)

	temp, err := sys.FloatVar("plasma temp K")
	assert.NoError(t, err)
	assert.Equal(t, 2750.0, temp)

	steelmaking, err := sys.StringVar("steelmaking device name")
	assert.NoError(t, err)
	assert.Equal(t, "plasma smelter", steelmaking)

	// The plasma composition is precomputed from the plasma temperature.
	assert.True(t, sys.HasVar("plasma h fraction (excl. Ar and H2O)"))

	onPremises, err := sys.BoolVar("on premises h2 production")
	assert.NoError(t, err)
	assert.True(t, onPremises)
}

func TestPlasmaSystemBOFVars(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.BOFSteelmaking = true
	sys, err := NewPlasmaSystem("Plasma BOF", opts)
	assert.NoError(t, err)

	steelmaking, err := sys.StringVar("steelmaking device name")
	assert.NoError(t, err)
	assert.Equal(t, "bof", steelmaking)
	assert.True(t, sys.HasVar("bof feo in slag perc"))
	assert.True(t, sys.HasVar("bof hot metal C perc"))
}

func TestNewDRIEAFSystem(t *testing.T) {
	t.Parallel()

	sys, err := NewDRIEAFSystem("DRI-EAF", DefaultOptions())
	assert.NoError(t, err)

	for _, d := range []string{"fluidized bed 1", "briquetting", "eaf", "ore heater", "water electrolysis"} {
		assert.True(t, sys.HasDevice(d), "missing device %s", d)
	}
	assert.False(t, sys.HasDevice("plasma smelter"))
	assert.False(t, sys.HasDevice("plasma torch"))

	names, err := stringSliceSystemVar(sys, "ironmaking device names")
	assert.NoError(t, err)
	assert.Equal(t, []string{"fluidized bed 1"}, names)

	steelmaking, err := sys.StringVar("steelmaking device name")
	assert.NoError(t, err)
	assert.Equal(t, "eaf", steelmaking)
}

func TestNewHybridSystem(t *testing.T) {
	t.Parallel()

	sys, err := NewHybridSystem("Hybrid 33", 33.33, DefaultOptions())
	assert.NoError(t, err)

	for _, d := range []string{"fluidized bed 1", "plasma torch", "plasma smelter", "join 3"} {
		assert.True(t, sys.HasDevice(d), "missing device %s", d)
	}
	assert.False(t, sys.HasDevice("eaf"))

	perc, err := sys.FloatVar("fluidized beds reduction percent")
	assert.NoError(t, err)
	assert.Equal(t, 33.33, perc)

	consumers, err := stringSliceSystemVar(sys, "h2 consuming device names")
	assert.NoError(t, err)
	assert.Equal(t, []string{"fluidized bed 1", "plasma smelter"}, consumers)
}

func TestBoughtHydrogenInputDevice(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.OnPremisesH2Production = false
	sys, err := NewPlasmaSystem("Plasma", opts)
	assert.NoError(t, err)

	deviceName, err := sys.StringVar("input h2 device name")
	assert.NoError(t, err)
	assert.Equal(t, "join 1", deviceName)

	_, err = sys.GetInput(deviceName, "h2 rich gas")
	assert.NoError(t, err)
}

func TestPlasmaTorchWiring(t *testing.T) {
	t.Parallel()

	sys, err := NewPlasmaSystem("Plasma", DefaultOptions())
	assert.NoError(t, err)

	// The torch feeds hot plasma to the smelter and draws electricity.
	_, err = sys.GetFlow("plasma torch", "plasma smelter", "plasma h2 rich gas")
	assert.NoError(t, err)
	_, err = sys.GetInput("plasma torch", "base electricity")
	assert.NoError(t, err)
	_, err = sys.GetOutput("plasma smelter", "steel")
	assert.NoError(t, err)
}

func stringSliceSystemVar(sys *flowsheet.System, name string) ([]string, error) {
	v, ok := sys.Var(name)
	if !ok {
		return nil, flowsheet.ErrVarNotFound
	}
	names, ok := v.([]string)
	if !ok {
		return nil, flowsheet.ErrVarWrongType
	}

	return names, nil
}
