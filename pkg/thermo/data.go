package thermo

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ThermoData is an ordered list of heat capacities forming one contiguous
// temperature span, plus the latent heats of any phase changes inside it.
type ThermoData struct {
	heatCapacities []HeatCapacity
	latentHeats    []LatentHeat
	minKelvin      float64
	maxKelvin      float64
}

// NewThermoData validates that the heat capacity ranges are contiguous and
// that every latent heat lies inside the covered span. Both slices are
// copied.
func NewThermoData(heatCapacities []HeatCapacity, latentHeats []LatentHeat) (*ThermoData, error) {
	if len(heatCapacities) == 0 {
		return nil, ErrNoHeatCapacities
	}

	hcs := make([]HeatCapacity, len(heatCapacities))
	copy(hcs, heatCapacities)
	sort.Slice(hcs, func(i, j int) bool { return hcs[i].MinKelvin() < hcs[j].MinKelvin() })

	for i := 0; i < len(hcs)-1; i++ {
		if !isClose(hcs[i].MaxKelvin(), hcs[i+1].MinKelvin()) {
			return nil, errors.Wrapf(ErrNonContiguous, "%.2fK vs %.2fK", hcs[i].MaxKelvin(), hcs[i+1].MinKelvin())
		}
	}

	td := &ThermoData{
		heatCapacities: hcs,
		minKelvin:      hcs[0].MinKelvin(),
		maxKelvin:      hcs[len(hcs)-1].MaxKelvin(),
	}

	lhs := make([]LatentHeat, len(latentHeats))
	copy(lhs, latentHeats)
	sort.Slice(lhs, func(i, j int) bool { return lhs[i].TempKelvin < lhs[j].TempKelvin })
	for _, lh := range lhs {
		if lh.TempKelvin < td.minKelvin || lh.TempKelvin > td.maxKelvin {
			return nil, errors.Wrapf(ErrLatentHeatOutside, "%.2fK", lh.TempKelvin)
		}
	}
	td.latentHeats = lhs

	return td, nil
}

func (td *ThermoData) MinKelvin() float64 { return td.minKelvin }
func (td *ThermoData) MaxKelvin() float64 { return td.maxKelvin }

// LatentHeats returns the phase changes in ascending temperature order.
func (td *ThermoData) LatentHeats() []LatentHeat { return td.latentHeats }

// DeltaH returns the change in enthalpy [J] heating the given amount of moles
// between the two temperatures, crossing latent heats on the way.
func (td *ThermoData) DeltaH(moles, tInitial, tFinal float64) (float64, error) {
	tInitial, tFinal, err := td.clampNearAmbient(tInitial, tFinal)
	if err != nil {
		return 0, err
	}

	if isCloseAbs(moles, 0.0) {
		return 0, nil
	}

	// Keep the maths simple: integrate upwards, flip the sign at the end.
	flip := tFinal < tInitial
	if flip {
		tInitial, tFinal = tFinal, tInitial
	}

	deltaH := 0.0
	for _, lh := range td.latentHeats {
		if tInitial <= lh.TempKelvin && lh.TempKelvin < tFinal {
			deltaH += lh.DeltaH(moles)
		}
	}

	tLow := tInitial
	for _, hc := range td.heatCapacities {
		if hc.MinKelvin() <= tLow && tLow <= hc.MaxKelvin() {
			if tFinal <= hc.MaxKelvin() {
				dh, err := hc.DeltaH(moles, tLow, tFinal)
				if err != nil {
					return 0, err
				}
				deltaH += dh

				break
			}

			dh, err := hc.DeltaH(moles, tLow, hc.MaxKelvin())
			if err != nil {
				return 0, err
			}
			deltaH += dh
			tLow = hc.MaxKelvin()
		}
	}

	if flip {
		deltaH = -deltaH
	}

	return deltaH, nil
}

// Cp returns the molar heat capacity [J/mol.K] at the given temperature.
func (td *ThermoData) Cp(tKelvin float64) (float64, error) {
	for _, hc := range td.heatCapacities {
		if hc.MinKelvin() <= tKelvin && tKelvin <= hc.MaxKelvin() {
			return hc.Cp(tKelvin)
		}
	}

	return 0, errors.Wrapf(ErrTempOutOfRange, "thermo data cp %.2fK", tKelvin)
}

// S returns the standard molar entropy [J/mol.K] at the given temperature.
// Only available when the covering range is a Shomate equation.
func (td *ThermoData) S(tKelvin float64) (float64, error) {
	for _, hc := range td.heatCapacities {
		if hc.MinKelvin() <= tKelvin && tKelvin <= hc.MaxKelvin() {
			se, ok := hc.(*ShomateEquation)
			if !ok {
				return 0, errors.Errorf("no entropy data available at %.2fK", tKelvin)
			}

			return se.S(tKelvin)
		}
	}

	return 0, errors.Wrapf(ErrTempOutOfRange, "thermo data entropy %.2fK", tKelvin)
}

// clampNearAmbient tolerates requests a degree or two below a range starting
// just above 298 K, which happens for species whose data starts at 300 K.
func (td *ThermoData) clampNearAmbient(tInitial, tFinal float64) (float64, float64, error) {
	inRange := func(t float64) bool { return td.minKelvin <= t && t <= td.maxKelvin }
	if inRange(tInitial) && inRange(tFinal) {
		return tInitial, tFinal, nil
	}
	if 298 < tInitial && tInitial <= 300.0 && 298 < td.minKelvin && td.minKelvin <= 300.0 {
		return td.minKelvin, tFinal, nil
	}
	if 298 < tFinal && tFinal <= 300.0 && 298 < td.minKelvin && td.minKelvin <= 300.0 {
		return tInitial, td.minKelvin, nil
	}

	return 0, 0, errors.Wrapf(ErrTempOutOfRange,
		"thermo data covers %.2fK-%.2fK, requested %.2fK-%.2fK", td.minKelvin, td.maxKelvin, tInitial, tFinal)
}

const (
	relTolerance = 1e-9
	absTolerance = 1e-12
)

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}

func isCloseAbs(a, b float64) bool {
	return math.Abs(a-b) <= math.Max(relTolerance*math.Max(math.Abs(a), math.Abs(b)), absTolerance)
}
