package species

import (
	"math"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/thermo"
)

const (
	gasConstant = 8.314462618 // J/mol.K

	// Standard molar entropy of monatomic hydrogen at 298.15 K, CRC Handbook.
	entropyH298 = 114.716 // J/mol.K
	cpH         = 20.78603
)

// EquilibriumH2HFractions returns the molar fractions of H2 and H in
// hydrogen plasma equilibrated at the given temperature and 1 atm. Ionised
// species are negligible below roughly 4000 K, so the gas is treated as a
// two species H2 / H equilibrium.
func EquilibriumH2HFractions(tempKelvin float64) (h2Fraction, hFraction float64, err error) {
	h2 := NewH2()

	// H2 -> 2H
	dhH2, err := h2.ThermoData().DeltaH(1.0, thermo.AmbientKelvin, tempKelvin)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to compute plasma dissociation enthalpy")
	}
	reactionH := 2*(217.998e3+cpH*(tempKelvin-thermo.AmbientKelvin)) - dhH2

	entropyH2, err := h2.ThermoData().S(tempKelvin)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to compute plasma dissociation entropy")
	}
	entropyH := entropyH298 + cpH*math.Log(tempKelvin/thermo.AmbientKelvin)
	reactionS := 2*entropyH - entropyH2

	reactionG := reactionH - tempKelvin*reactionS
	k := math.Exp(-reactionG / (gasConstant * tempKelvin))

	// At 1 atm: x_H^2 / x_H2 = K.
	hFraction = (-k + math.Sqrt(k*k+4*k)) / 2

	return 1 - hFraction, hFraction, nil
}
