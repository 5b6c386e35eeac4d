package thermo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Shomate coefficients of gaseous H2O between 500K and 1700K, NIST webbook.
var h2oGasCoeffs = ShomateCoeffs{
	A: 30.09200, B: 6.832514, C: 6.793435, D: -2.534480,
	E: 0.082139, F: -250.8810, G: 223.3967, H: -241.8264,
}

func TestTempConversion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 273.15, CelsiusToKelvin(0))
	assert.Equal(t, 2726.85, KelvinToCelsius(3000))
}

func TestShomateEquationRange(t *testing.T) {
	t.Parallel()

	_, err := NewShomateEquation(1700, 500, h2oGasCoeffs)
	assert.ErrorIs(t, err, ErrInvalidTempRange)

	se, err := NewShomateEquation(500, 1700, h2oGasCoeffs)
	assert.NoError(t, err)
	assert.Equal(t, 500.0, se.MinKelvin())
	assert.Equal(t, 1700.0, se.MaxKelvin())

	_, err = se.Cp(400)
	assert.ErrorIs(t, err, ErrTempOutOfRange)
	_, err = se.DeltaH(1.0, 600, 1800)
	assert.ErrorIs(t, err, ErrTempOutOfRange)
}

func TestShomateEquationCp(t *testing.T) {
	t.Parallel()

	se, err := NewShomateEquation(500, 1700, h2oGasCoeffs)
	assert.NoError(t, err)

	// NIST tabulates 41.27 J/mol.K for water vapour at 1000K.
	cp, err := se.Cp(1000)
	assert.NoError(t, err)
	assert.InDelta(t, 41.27, cp, 0.05)
}

func TestShomateEquationDeltaH(t *testing.T) {
	t.Parallel()

	se, err := NewShomateEquation(500, 1700, h2oGasCoeffs)
	assert.NoError(t, err)

	// NIST tabulates H-H(298.15) = 26.000 kJ/mol at 1000K and 6.925 kJ/mol
	// at 500K for water vapour.
	dh, err := se.DeltaH(1.0, 500, 1000)
	assert.NoError(t, err)
	assert.InDelta(t, 19078.0, dh, 10.0)

	// Cooling is the exact negation of heating.
	dhDown, err := se.DeltaH(1.0, 1000, 500)
	assert.NoError(t, err)
	assert.InDelta(t, -dh, dhDown, 1e-9)

	// Doubling the moles doubles the enthalpy.
	dh2, err := se.DeltaH(2.0, 500, 1000)
	assert.NoError(t, err)
	assert.InDelta(t, 2*dh, dh2, 1e-6)
}

func TestSimpleHeatCapacity(t *testing.T) {
	t.Parallel()

	hc, err := NewSimpleHeatCapacity(298, 2000, 20.8)
	assert.NoError(t, err)

	cp, err := hc.Cp(1000)
	assert.NoError(t, err)
	assert.Equal(t, 20.8, cp)

	dh, err := hc.DeltaH(3.0, 300, 400)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0*20.8*100, dh, 1e-9)

	_, err = hc.DeltaH(1.0, 100, 400)
	assert.ErrorIs(t, err, ErrTempOutOfRange)
}

func TestThermoDataContiguous(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		ranges  [][2]float64
		wantErr error
	}{
		"single range":  {ranges: [][2]float64{{298, 2000}}},
		"two adjoining": {ranges: [][2]float64{{298, 1000}, {1000, 2000}}},
		"gap":           {ranges: [][2]float64{{298, 900}, {1000, 2000}}, wantErr: ErrNonContiguous},
		"overlap":       {ranges: [][2]float64{{298, 1100}, {1000, 2000}}, wantErr: ErrNonContiguous},
		"empty":         {ranges: nil, wantErr: ErrNoHeatCapacities},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var hcs []HeatCapacity
			for _, r := range tc.ranges {
				hc, err := NewSimpleHeatCapacity(r[0], r[1], 30.0)
				assert.NoError(t, err)
				hcs = append(hcs, hc)
			}

			_, err := NewThermoData(hcs, nil)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestThermoDataDeltaHAcrossRanges(t *testing.T) {
	t.Parallel()

	low, err := NewSimpleHeatCapacity(298, 1000, 25.0)
	assert.NoError(t, err)
	high, err := NewSimpleHeatCapacity(1000, 2000, 35.0)
	assert.NoError(t, err)

	td, err := NewThermoData([]HeatCapacity{high, low}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 298.0, td.MinKelvin())
	assert.Equal(t, 2000.0, td.MaxKelvin())

	dh, err := td.DeltaH(2.0, 500, 1500)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0*(25.0*500+35.0*500), dh, 1e-6)

	dhDown, err := td.DeltaH(2.0, 1500, 500)
	assert.NoError(t, err)
	assert.InDelta(t, -dh, dhDown, 1e-6)

	dhZero, err := td.DeltaH(0.0, 500, 1500)
	assert.NoError(t, err)
	assert.Zero(t, dhZero)
}

func TestThermoDataLatentHeat(t *testing.T) {
	t.Parallel()

	hc, err := NewSimpleHeatCapacity(298, 2500, 30.0)
	assert.NoError(t, err)
	melting := LatentHeat{TempKelvin: 1811, LatentHeatJoules: 13810}

	td, err := NewThermoData([]HeatCapacity{hc}, []LatentHeat{melting})
	assert.NoError(t, err)

	below, err := td.DeltaH(1.0, 1700, 1800)
	assert.NoError(t, err)
	assert.InDelta(t, 30.0*100, below, 1e-9)

	across, err := td.DeltaH(1.0, 1800, 1900)
	assert.NoError(t, err)
	assert.InDelta(t, 30.0*100+13810, across, 1e-9)

	// Cooling back across the transition releases the latent heat again.
	down, err := td.DeltaH(1.0, 1900, 1800)
	assert.NoError(t, err)
	assert.InDelta(t, -across, down, 1e-9)

	outside := LatentHeat{TempKelvin: 3000, LatentHeatJoules: 1000}
	_, err = NewThermoData([]HeatCapacity{hc}, []LatentHeat{outside})
	assert.ErrorIs(t, err, ErrLatentHeatOutside)
}

func TestThermoDataClampNearAmbient(t *testing.T) {
	t.Parallel()

	// Data starting at 300K should still answer requests from 298.15K.
	hc, err := NewSimpleHeatCapacity(300, 2000, 30.0)
	assert.NoError(t, err)
	td, err := NewThermoData([]HeatCapacity{hc}, nil)
	assert.NoError(t, err)

	dh, err := td.DeltaH(1.0, 298.15, 500)
	assert.NoError(t, err)
	assert.InDelta(t, 30.0*200, dh, 1e-9)

	_, err = td.DeltaH(1.0, 200, 500)
	assert.ErrorIs(t, err, ErrTempOutOfRange)
}
