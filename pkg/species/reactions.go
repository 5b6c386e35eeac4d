package species

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// ReactionEnthalpy returns the enthalpy change [J] of a reaction at the
// given temperature, from the enthalpies of formation at 298.15 K plus the
// sensible heat of reactants and products up to the reaction temperature.
// The moles of each species set the stoichiometry.
func ReactionEnthalpy(reactants, products []*Species, tempKelvin float64) (float64, error) {
	for _, s := range append(append([]*Species{}, reactants...), products...) {
		s.SetTemperature(thermo.AmbientKelvin)
	}

	sideEnthalpy := func(side []*Species) (float64, error) {
		enthalpy := 0.0
		for _, s := range side {
			formationH, err := s.FormationEnthalpy()
			if err != nil {
				return 0, err
			}
			enthalpy += s.Moles() * formationH

			heat, err := s.HeatEnergy(tempKelvin)
			if err != nil {
				return 0, err
			}
			enthalpy += heat
		}

		return enthalpy, nil
	}

	reactantEnthalpy, err := sideEnthalpy(reactants)
	if err != nil {
		return 0, errors.Wrap(err, "unable to compute reactant enthalpy")
	}
	productEnthalpy, err := sideEnthalpy(products)
	if err != nil {
		return 0, errors.Wrap(err, "unable to compute product enthalpy")
	}

	return productEnthalpy - reactantEnthalpy, nil
}

func withMoles(s *Species, moles float64) *Species {
	s.moles = moles

	return s
}

// EnthalpyFeOxidation returns the enthalpy [J] of 2Fe + O2 -> 2FeO.
func EnthalpyFeOxidation(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFe(), 2), withMoles(NewO2(), 1)},
		[]*Species{withMoles(NewFeO(), 2)},
		tempKelvin)
}

// EnthalpyCCombustionToCO2 returns the enthalpy [J] of C + O2 -> CO2.
func EnthalpyCCombustionToCO2(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewC(), 1), withMoles(NewO2(), 1)},
		[]*Species{withMoles(NewCO2(), 1)},
		tempKelvin)
}

// EnthalpyCCombustionToCO returns the enthalpy [J] of 2C + O2 -> 2CO.
func EnthalpyCCombustionToCO(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewC(), 2), withMoles(NewO2(), 1)},
		[]*Species{withMoles(NewCO(), 2)},
		tempKelvin)
}

// EnthalpyMethanation returns the enthalpy [J] of C + 2H2 -> CH4.
func EnthalpyMethanation(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewC(), 1), withMoles(NewH2(), 2)},
		[]*Species{withMoles(NewCH4(), 1)},
		tempKelvin)
}

// EnthalpySiOxidation returns the enthalpy [J] of Si + O2 -> SiO2.
func EnthalpySiOxidation(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewSi(), 1), withMoles(NewO2(), 1)},
		[]*Species{withMoles(NewSiO2(), 1)},
		tempKelvin)
}

// EnthalpySiO2ReductionH2 returns the enthalpy [J] of SiO2 + 2H2 -> Si + 2H2O.
func EnthalpySiO2ReductionH2(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewSiO2(), 1), withMoles(NewH2(), 2)},
		[]*Species{withMoles(NewSi(), 1), withMoles(NewH2O(), 2)},
		tempKelvin)
}

// EnthalpyFeOCarbothermic returns the enthalpy [J] of FeO + C -> Fe + CO.
func EnthalpyFeOCarbothermic(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFeO(), 1), withMoles(NewC(), 1)},
		[]*Species{withMoles(NewFe(), 1), withMoles(NewCO(), 1)},
		tempKelvin)
}

// EnthalpyHematiteToMagnetiteH2 returns the enthalpy [J] of
// 3Fe2O3 + H2 -> 2Fe3O4 + H2O.
func EnthalpyHematiteToMagnetiteH2(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFe2O3(), 3), withMoles(NewH2(), 1)},
		[]*Species{withMoles(NewFe3O4(), 2), withMoles(NewH2O(), 1)},
		tempKelvin)
}

// EnthalpyMagnetiteToWustiteH2 returns the enthalpy [J] of
// Fe3O4 + H2 -> 3FeO + H2O.
func EnthalpyMagnetiteToWustiteH2(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFe3O4(), 1), withMoles(NewH2(), 1)},
		[]*Species{withMoles(NewFeO(), 3), withMoles(NewH2O(), 1)},
		tempKelvin)
}

// EnthalpyWustiteToIronH2 returns the enthalpy [J] of FeO + H2 -> Fe + H2O.
func EnthalpyWustiteToIronH2(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFeO(), 1), withMoles(NewH2(), 1)},
		[]*Species{withMoles(NewFe(), 1), withMoles(NewH2O(), 1)},
		tempKelvin)
}

// EnthalpyHematiteToMagnetiteH returns the enthalpy [J] of the monatomic
// hydrogen reduction 3Fe2O3 + 2H -> 2Fe3O4 + H2O.
func EnthalpyHematiteToMagnetiteH(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFe2O3(), 3), withMoles(NewH(), 2)},
		[]*Species{withMoles(NewFe3O4(), 2), withMoles(NewH2O(), 1)},
		tempKelvin)
}

// EnthalpyMagnetiteToWustiteH returns the enthalpy [J] of the monatomic
// hydrogen reduction Fe3O4 + 2H -> 3FeO + H2O.
func EnthalpyMagnetiteToWustiteH(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFe3O4(), 1), withMoles(NewH(), 2)},
		[]*Species{withMoles(NewFeO(), 3), withMoles(NewH2O(), 1)},
		tempKelvin)
}

// EnthalpyWustiteToIronH returns the enthalpy [J] of the monatomic hydrogen
// reduction FeO + 2H -> Fe + H2O.
func EnthalpyWustiteToIronH(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFeO(), 1), withMoles(NewH(), 2)},
		[]*Species{withMoles(NewFe(), 1), withMoles(NewH2O(), 1)},
		tempKelvin)
}

// EnthalpyHematiteToIronH2 returns the enthalpy [J] of
// Fe2O3 + 3H2 -> 2Fe + 3H2O.
func EnthalpyHematiteToIronH2(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewFe2O3(), 1), withMoles(NewH2(), 3)},
		[]*Species{withMoles(NewFe(), 2), withMoles(NewH2O(), 3)},
		tempKelvin)
}

// EnthalpyWaterElectrolysis returns the enthalpy [J] of 2H2O -> 2H2 + O2.
func EnthalpyWaterElectrolysis(tempKelvin float64) (float64, error) {
	return ReactionEnthalpy(
		[]*Species{withMoles(NewH2O(), 2)},
		[]*Species{withMoles(NewH2(), 2), withMoles(NewO2(), 1)},
		tempKelvin)
}
