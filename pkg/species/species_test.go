package species

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yvonnelund/steeltea/pkg/thermo"
)

func TestSpeciesMassMolesConversion(t *testing.T) {
	t.Parallel()

	h2o := NewH2O()
	assert.NoError(t, h2o.SetMass(0.01801528))
	assert.InDelta(t, 1.0, h2o.Moles(), 1e-9)
	assert.InDelta(t, 0.01801528, h2o.Mass(), 1e-12)

	assert.NoError(t, h2o.SetMoles(2.0))
	assert.InDelta(t, 2*0.01801528, h2o.Mass(), 1e-12)

	assert.ErrorIs(t, h2o.SetMass(-1.0), ErrNegativeMass)
	assert.ErrorIs(t, h2o.SetMoles(-1.0), ErrNegativeMoles)
}

func TestSpeciesClone(t *testing.T) {
	t.Parallel()

	fe := NewFe()
	assert.NoError(t, fe.SetMass(1.0))
	fe.SetTemperature(1000)

	clone := fe.Clone()
	clone.SetTemperature(2000)
	assert.NoError(t, clone.SetMass(5.0))

	assert.Equal(t, 1000.0, fe.Temperature())
	assert.InDelta(t, 1.0, fe.Mass(), 1e-12)
	assert.Equal(t, 2000.0, clone.Temperature())
}

func TestH2OHeatCapacity(t *testing.T) {
	t.Parallel()

	h2o := NewH2O()
	assert.NoError(t, h2o.SetMoles(1.0))
	h2o.SetTemperature(thermo.CelsiusToKelvin(25))

	molarCp, err := h2o.Cp()
	assert.NoError(t, err)
	assert.InDelta(t, 75.4, molarCp, 0.1)

	specificCp, err := h2o.CpMass()
	assert.NoError(t, err)
	assert.InDelta(t, 4.18, specificCp, 0.01)
}

func TestAirHeatEnergy(t *testing.T) {
	t.Parallel()

	air := NewAir(1.0)
	air.SetTemperature(thermo.CelsiusToKelvin(100))

	temp, err := air.Temperature()
	assert.NoError(t, err)

	// Reference values from a NASA polynomial gas model. The Shomate fits
	// used here agree to within 4%.
	heatEnergy, err := air.HeatEnergy(temp + 1)
	assert.NoError(t, err)
	assert.InDelta(t, 1015.4, heatEnergy, 40.0)

	heatEnergy, err = air.HeatEnergy(temp + 700)
	assert.NoError(t, err)
	assert.InDelta(t, 732417.1, heatEnergy, 30000.0)
}

func TestIronHeatEnergy(t *testing.T) {
	t.Parallel()

	fe := NewFe()
	assert.NoError(t, fe.SetMass(0.001))
	fe.SetTemperature(thermo.CelsiusToKelvin(1000))

	heatEnergy, err := fe.HeatEnergy(fe.Temperature() + 1)
	assert.NoError(t, err)
	assert.InDelta(t, 0.62, heatEnergy, 0.05)
}

func TestMixtureSpeciesLookup(t *testing.T) {
	t.Parallel()

	m := NewMixture("gas", []*Species{NewH2(), NewH2O()})
	assert.Equal(t, 2, m.NumSpecies())

	h2, ok := m.Species("H2")
	assert.True(t, ok)
	assert.Equal(t, "H2", h2.Name())

	_, ok = m.Species("CO")
	assert.False(t, ok)
	_, err := m.MustSpecies("CO")
	assert.ErrorIs(t, err, ErrSpeciesNotFound)

	// Removing an absent species is a no-op.
	m.RemoveSpecies("CO")
	assert.Equal(t, 2, m.NumSpecies())
	m.RemoveSpecies("H2O")
	assert.Equal(t, 1, m.NumSpecies())
}

func TestMixtureConstructorClones(t *testing.T) {
	t.Parallel()

	h2 := NewH2()
	assert.NoError(t, h2.SetMass(1.0))
	m := NewMixture("gas", []*Species{h2})

	// The mixture holds its own copy of the species.
	assert.NoError(t, h2.SetMass(5.0))
	assert.InDelta(t, 1.0, m.Mass(), 1e-12)
}

func TestMixtureTemperature(t *testing.T) {
	t.Parallel()

	h2 := NewH2()
	h2.SetTemperature(500)
	h2o := NewH2O()
	h2o.SetTemperature(600)

	m := NewMixture("gas", []*Species{h2, h2o})
	_, err := m.Temperature()
	assert.ErrorIs(t, err, ErrMixedTemperatures)

	m.SetTemperature(700)
	temp, err := m.Temperature()
	assert.NoError(t, err)
	assert.Equal(t, 700.0, temp)
}

func TestMixtureMerge(t *testing.T) {
	t.Parallel()

	steam := NewH2O()
	assert.NoError(t, steam.SetMass(1.0))
	steam.SetTemperature(1000)
	oxygen := NewO2()
	assert.NoError(t, oxygen.SetMass(1.0))
	oxygen.SetTemperature(1200)

	steamMixture := NewMixture("steam", []*Species{steam})
	oxygenMixture := NewMixture("oxygen", []*Species{oxygen})
	assert.NoError(t, steamMixture.Merge(oxygenMixture))

	assert.InDelta(t, 2.0, steamMixture.Mass(), 1e-9)
	temp, err := steamMixture.Temperature()
	assert.NoError(t, err)
	assert.InDelta(t, 1066.3, temp, 2.0)
}

func TestMixtureMergeEmptyOther(t *testing.T) {
	t.Parallel()

	steam := NewH2O()
	assert.NoError(t, steam.SetMass(1.0))
	steam.SetTemperature(1000)
	m := NewMixture("steam", []*Species{steam})

	assert.NoError(t, m.Merge(NewMixture("empty", nil)))
	assert.InDelta(t, 1.0, m.Mass(), 1e-12)
	temp, err := m.Temperature()
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, temp)
}

func TestMixtureMergeSameSpecies(t *testing.T) {
	t.Parallel()

	a := NewH2()
	assert.NoError(t, a.SetMass(1.0))
	a.SetTemperature(600)
	b := NewH2()
	assert.NoError(t, b.SetMass(1.0))
	b.SetTemperature(600)

	m := NewMixture("h2", []*Species{a})
	assert.NoError(t, m.MergeSpecies(b))

	// Same species at the same temperature collapses into one entry.
	assert.Equal(t, 1, m.NumSpecies())
	assert.InDelta(t, 2.0, m.Mass(), 1e-9)
	temp, err := m.Temperature()
	assert.NoError(t, err)
	assert.InDelta(t, 600.0, temp, 1e-6)
}

func TestMixtureMergeBelowReference(t *testing.T) {
	t.Parallel()

	cold := NewO2()
	assert.NoError(t, cold.SetMass(1.0))
	cold.SetTemperature(200)

	steam := NewH2O()
	assert.NoError(t, steam.SetMass(1.0))
	steam.SetTemperature(1000)
	m := NewMixture("steam", []*Species{steam})

	assert.ErrorIs(t, m.MergeSpecies(cold), ErrMergeBelowRefTemp)
}

func TestMixtureSetFrom(t *testing.T) {
	t.Parallel()

	src := NewMixture("gas", []*Species{NewH2(), NewH2O()})
	src.SetTemperature(800)

	dst := NewDummyMixture("placeholder")
	dst.SetFrom(src)

	assert.Equal(t, "gas", dst.Name())
	assert.Equal(t, 2, dst.NumSpecies())

	// The copy is deep.
	h2, ok := src.Species("H2")
	assert.True(t, ok)
	assert.NoError(t, h2.SetMass(3.0))
	assert.Zero(t, dst.Mass())
}

func TestReactionEnthalpies(t *testing.T) {
	t.Parallel()

	// Halloran (2015), Natural Resources 6, 115-122.
	deltaH, err := EnthalpyCCombustionToCO2(thermo.AmbientKelvin)
	assert.NoError(t, err)
	assert.InDelta(t, -393510.0, deltaH, 1.0)

	tempKelvin := thermo.CelsiusToKelvin(25)

	deltaH, err = EnthalpyHematiteToMagnetiteH2(tempKelvin)
	assert.NoError(t, err)
	assert.Negative(t, deltaH)

	deltaH, err = EnthalpyMagnetiteToWustiteH2(tempKelvin)
	assert.NoError(t, err)
	assert.Positive(t, deltaH)

	// Negative on the liquid water basis used by the formation enthalpies:
	// the H2O condensation heat outweighs the endothermic FeO reduction.
	deltaH, err = EnthalpyWustiteToIronH2(tempKelvin)
	assert.NoError(t, err)
	assert.Negative(t, deltaH)

	// The monatomic hydrogen route gains the H2 dissociation energy, so it
	// sits far below the molecular route.
	h2Route, err := EnthalpyWustiteToIronH2(tempKelvin)
	assert.NoError(t, err)
	hRoute, err := EnthalpyWustiteToIronH(tempKelvin)
	assert.NoError(t, err)
	assert.Less(t, hRoute, h2Route)
}

func TestEquilibriumH2HFractions(t *testing.T) {
	t.Parallel()

	// Cold hydrogen stays molecular.
	h2Frac, hFrac, err := EquilibriumH2HFractions(1000)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, h2Frac, 1e-3)
	assert.InDelta(t, 0.0, hFrac, 1e-3)
	assert.InDelta(t, 1.0, h2Frac+hFrac, 1e-9)

	// Dissociation increases monotonically with temperature.
	_, hMid, err := EquilibriumH2HFractions(3000)
	assert.NoError(t, err)
	_, hHot, err := EquilibriumH2HFractions(5000)
	assert.NoError(t, err)
	assert.Greater(t, hHot, hMid)
	assert.Greater(t, hMid, 0.0)
}
