package flowsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yvonnelund/steeltea/pkg/species"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()

	sys := NewSystem("test system", 1.0e6, 20.0)
	assert.NoError(t, sys.AddDevice(NewDevice("device a", "")))
	assert.NoError(t, sys.AddDevice(NewDevice("device b", "")))
	assert.NoError(t, sys.AddDevice(NewDevice("device c", "eaf")))

	return sys
}

func TestSystemDevices(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	assert.Equal(t, []string{"device a", "device b", "device c"}, sys.DeviceNames())
	assert.True(t, sys.HasDevice("device b"))
	assert.False(t, sys.HasDevice("device d"))

	_, err := sys.Device("device d")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	err = sys.AddDevice(NewDevice("device a", ""))
	assert.ErrorIs(t, err, ErrDeviceExists)

	assert.Equal(t, []string{"device a", "device b", "device c"}, sys.DevicesContainingName("device"))
	assert.Equal(t, []string{"device b"}, sys.DevicesContainingName("B"))
	assert.Empty(t, sys.DevicesContainingName("torch"))
}

func TestRemoveDevice(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	gas := species.NewDummyMixture("h2 rich gas")
	assert.NoError(t, sys.AddFlow("device a", "device b", gas))
	assert.NoError(t, sys.AddInput("device b", NewEnergyFlow("base electricity", 100.0)))
	steel := species.NewDummyMixture("steel")
	assert.NoError(t, sys.AddFlow("device b", "device c", steel))

	assert.NoError(t, sys.RemoveDevice("device b"))
	assert.False(t, sys.HasDevice("device b"))
	assert.Equal(t, []string{"device a", "device c"}, sys.DeviceNames())
	assert.Empty(t, sys.Flows())

	// The neighbours no longer see the dropped flows.
	a, err := sys.Device("device a")
	assert.NoError(t, err)
	assert.Empty(t, a.Outputs())
	c, err := sys.Device("device c")
	assert.NoError(t, err)
	assert.Empty(t, c.Inputs())

	assert.ErrorIs(t, sys.RemoveDevice("device b"), ErrDeviceNotFound)
}

func TestSystemFlows(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)

	gas := species.NewDummyMixture("h2 rich gas")
	assert.NoError(t, sys.AddFlow("device a", "device b", gas))
	electricity := NewEnergyFlow("base electricity", 100.0)
	assert.NoError(t, sys.AddInput("device a", electricity))
	steel := species.NewDummyMixture("steel")
	assert.NoError(t, sys.AddOutput("device c", steel))

	f, err := sys.GetFlow("device a", "device b", "h2 rich gas")
	assert.NoError(t, err)
	assert.Same(t, Flow(gas), f)

	_, err = sys.GetFlow("device b", "device a", "h2 rich gas")
	assert.ErrorIs(t, err, ErrFlowNotFound)

	in, err := sys.GetInput("device a", "base electricity")
	assert.NoError(t, err)
	assert.Same(t, Flow(electricity), in)

	out, err := sys.GetOutput("device c", "steel")
	assert.NoError(t, err)
	assert.Same(t, Flow(steel), out)

	err = sys.AddFlow("device a", "device d", species.NewDummyMixture("nowhere"))
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	assert.Len(t, sys.Flows(), 3)
}

func TestModifySharedFlow(t *testing.T) {
	t.Parallel()

	// The system and both devices share the same flow object.
	sys := newTestSystem(t)
	h2 := species.NewH2()
	h2.SetName("h2 rich gas")
	assert.NoError(t, h2.SetMass(1.0))
	assert.NoError(t, sys.AddFlow("device a", "device b", h2))

	a, err := sys.Device("device a")
	assert.NoError(t, err)
	out, ok := a.Output("h2 rich gas")
	assert.True(t, ok)
	assert.NoError(t, out.(*species.Species).SetMass(2.0))

	f, err := sys.GetFlow("device a", "device b", "h2 rich gas")
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, f.Mass(), 1e-12)
}

func TestFlowLookupSurvivesRename(t *testing.T) {
	t.Parallel()

	// Solvers rename flow objects in place. Lookups use the registration key.
	sys := newTestSystem(t)
	gas := species.NewDummyMixture("h2 rich gas")
	assert.NoError(t, sys.AddFlow("device a", "device b", gas))

	gas.SetName("recycled h2 rich gas")

	f, err := sys.GetFlow("device a", "device b", "h2 rich gas")
	assert.NoError(t, err)
	assert.Equal(t, "recycled h2 rich gas", f.Name())
}

func TestDeviceFirstFlowContaining(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	assert.NoError(t, sys.AddInput("device a", species.NewDummyMixture("plasma h2 rich gas")))
	assert.NoError(t, sys.AddInput("device a", NewEnergyFlow("base electricity", 0)))

	a, err := sys.Device("device a")
	assert.NoError(t, err)

	f, err := a.FirstInputContaining("H2 RICH GAS")
	assert.NoError(t, err)
	assert.Equal(t, "plasma h2 rich gas", f.Name())

	_, err = a.FirstInputContaining("losses")
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestDeviceBalances(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)

	in := species.NewFe()
	in.SetName("iron in")
	assert.NoError(t, in.SetMass(2.0))
	in.SetTemperature(298.15)
	assert.NoError(t, sys.AddInput("device a", in))

	out := species.NewFe()
	out.SetName("iron out")
	assert.NoError(t, out.SetMass(1.5))
	out.SetTemperature(298.15)
	assert.NoError(t, sys.AddOutput("device a", out))

	electricity := NewEnergyFlow("base electricity", 1000.0)
	assert.NoError(t, sys.AddInput("device a", electricity))

	a, err := sys.Device("device a")
	assert.NoError(t, err)

	assert.InDelta(t, -0.5, a.MassBalance(), 1e-12)

	// Material flows at ambient carry no sensible heat, so the full balance
	// only sees the electricity.
	eb, err := a.EnergyBalance()
	assert.NoError(t, err)
	assert.InDelta(t, -1000.0, eb, 1e-9)

	// The thermal balance skips energy flows entirely.
	teb, err := a.ThermalEnergyBalance()
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, teb, 1e-9)
}

func TestSystemVars(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	sys.SetVar("plasma temp K", 2800.0)
	sys.SetVar("ore name", "IOC")
	sys.SetVar("on premises h2 production", true)

	v, err := sys.FloatVar("plasma temp K")
	assert.NoError(t, err)
	assert.Equal(t, 2800.0, v)

	_, err = sys.FloatVar("missing")
	assert.ErrorIs(t, err, ErrVarNotFound)
	_, err = sys.FloatVar("ore name")
	assert.ErrorIs(t, err, ErrVarWrongType)
	assert.Equal(t, 1.0, sys.FloatVarOr("missing", 1.0))

	s, err := sys.StringVar("ore name")
	assert.NoError(t, err)
	assert.Equal(t, "IOC", s)

	b, err := sys.BoolVar("on premises h2 production")
	assert.NoError(t, err)
	assert.True(t, b)
	assert.False(t, sys.BoolVarOr("missing", false))

	assert.True(t, sys.HasVar("ore name"))
	assert.False(t, sys.HasVar("missing"))
}

func TestSystemAggregation(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)

	ore := species.NewDummyMixture("ore")
	assert.NoError(t, sys.AddInput("device a", ore))

	h2 := species.NewH2()
	assert.NoError(t, h2.SetMass(2.0))
	h2.SetTemperature(298.15)
	h2o := species.NewH2O()
	assert.NoError(t, h2o.SetMass(1.0))
	h2o.SetTemperature(298.15)
	gas := species.NewMixture("h2 rich gas", []*species.Species{h2, h2o})
	assert.NoError(t, sys.AddInput("device a", gas))

	air := species.NewAir(3.0)
	air.SetName("infiltrated air")
	assert.NoError(t, sys.AddInput("device b", air))

	electricity := NewEnergyFlow("base electricity", 500.0)
	assert.NoError(t, sys.AddInput("device a", electricity))

	steel := species.NewFe()
	steel.SetName("steel")
	assert.NoError(t, steel.SetMass(4.0))
	assert.NoError(t, sys.AddOutput("device c", steel))

	inputs, err := sys.SystemInputs(AggregateOptions{
		IgnoreFlowsNamed:      []string{"infiltrated air"},
		SeparateMixturesNamed: []string{"h2 rich gas"},
		MassFlowOnly:          true,
	})
	assert.NoError(t, err)
	assert.NotContains(t, inputs, "infiltrated air")
	assert.NotContains(t, inputs, "base electricity")
	assert.NotContains(t, inputs, "h2 rich gas")
	assert.InDelta(t, 2.0, inputs["H2"], 1e-12)
	assert.InDelta(t, 1.0, inputs["H2O"], 1e-12)
	assert.InDelta(t, 0.0, inputs["ore"], 1e-12)

	inputsWithEnergy, err := sys.SystemInputs(AggregateOptions{})
	assert.NoError(t, err)
	assert.InDelta(t, 500.0, inputsWithEnergy["base electricity"], 1e-9)

	outputs, err := sys.SystemOutputs(AggregateOptions{MassFlowOnly: true})
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, outputs["steel"], 1e-12)
	assert.Len(t, outputs, 1)
}

func TestSystemClone(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	sys.SetVar("plasma temp K", 2800.0)
	sys.SetSolveFunc(func(*System) error { return nil })

	gas := species.NewDummyMixture("h2 rich gas")
	assert.NoError(t, sys.AddFlow("device a", "device b", gas))
	c, err := sys.Device("device c")
	assert.NoError(t, err)
	c.SetCapex(1.0e6)

	clone, err := sys.Clone()
	assert.NoError(t, err)
	assert.Equal(t, sys.DeviceNames(), clone.DeviceNames())
	assert.NotNil(t, clone.SolveFunc())

	clonedC, err := clone.Device("device c")
	assert.NoError(t, err)
	assert.Equal(t, 1.0e6, clonedC.Capex())

	// Vars and flows are independent copies.
	clone.SetVar("plasma temp K", 3000.0)
	v, err := sys.FloatVar("plasma temp K")
	assert.NoError(t, err)
	assert.Equal(t, 2800.0, v)

	clonedGas, err := clone.GetFlow("device a", "device b", "h2 rich gas")
	assert.NoError(t, err)
	clonedGas.SetName("renamed")
	assert.Equal(t, "h2 rich gas", gas.Name())

	// Flow sharing between devices survives the clone.
	a, err := clone.Device("device a")
	assert.NoError(t, err)
	out, ok := a.Output("h2 rich gas")
	assert.True(t, ok)
	assert.Same(t, Flow(clonedGas), out)
}

func TestEnergyFlow(t *testing.T) {
	t.Parallel()

	f := NewEnergyFlow("losses", 10.0)
	f.AddEnergy(5.0)
	assert.Equal(t, 15.0, f.EnergyValue())
	assert.Zero(t, f.Mass())

	clone := f.Clone()
	clone.SetEnergy(1.0)
	assert.Equal(t, 15.0, f.EnergyValue())

	other := NewEnergyFlow("electricity", 3.0)
	assert.NoError(t, SetFlowFrom(f, other))
	assert.Equal(t, 3.0, f.EnergyValue())
	assert.Equal(t, "electricity", f.Name())

	err := SetFlowFrom(f, species.NewDummyMixture("gas"))
	assert.ErrorIs(t, err, ErrFlowTypeMismatch)
}

func TestSetLCOPBreakdown(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	sys.SetLCOPBreakdown(map[string]float64{"capex": 100.0, "ore": 50.0})
	assert.InDelta(t, 150.0, sys.LCOP(), 1e-9)
	assert.Equal(t, 50.0, sys.LCOPBreakdown()["ore"])
}
