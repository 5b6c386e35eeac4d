package massenergy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// coToCO2ReactionRatio splits the injected oxygen between CO and CO2
// formation, roughly matching the 10% / 24% energy split reported for
// oxy-fuel burners in arc furnaces. hornby2021.
const coToCO2ReactionRatio = 2.348

// steelSurfaceRadiationLosses returns the radiation losses from the open
// steel bath per tonne of liquid steel [J/tonne]. dutta pg 425.
func steelSurfaceRadiationLosses(surfaceAreaM2, steelTempK, refractoryTempK, capacityTonnes, tapToTapSecs float64) float64 {
	const emissivity = 0.28           // liquid steel
	const boltzmannConstant = 5.67e-8 // W / m^2 K^4
	qWatts := emissivity * boltzmannConstant * surfaceAreaM2 * (math.Pow(steelTempK, 4) - math.Pow(refractoryTempK, 4))

	return qWatts * tapToTapSecs / capacityTonnes
}

// addEAFFlowsFinal melts the hot briquetted iron and finishes the steel:
// carbon and oxygen injection, the carbon off gas, infiltrated air and the
// electrical demand of the arc.
func addEAFFlowsFinal(sys *flowsheet.System) error {
	c := &calc{}
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))
	steelBathTemp := c.val(sys.FloatVar("steel exit temp K"))
	reactionTemp := steelBathTemp

	eaf := c.device(sys, steelmakingDeviceName)
	hbi := c.asMixture(inputFlow(eaf, "hbi"))
	if c.species(hbi, "Fe3O4").Moles() > 0 || c.species(hbi, "Fe2O3").Moles() > 0 {
		return errors.New("hbi contains magnetite or hematite, which the eaf cannot reduce")
	}

	steelOut := c.asMixture(outputFlow(eaf, "steel"))
	cAlloy := c.species(steelOut, "C").Clone()

	slagOut := c.asMixture(outputFlow(eaf, "slag"))
	feoSlag := c.species(slagOut, "FeO")
	feoDRI := c.species(hbi, "FeO")

	o2Oxidation := species.NewO2()
	cReduction := species.NewC()

	chemicalEnergy := 0.0
	if feoSlag.Moles() > feoDRI.Moles() {
		// metallic iron is oxidised by the injected oxygen
		c.setMoles(o2Oxidation, 0.5*(feoSlag.Moles()-feoDRI.Moles()))
		chemicalEnergy = -o2Oxidation.Moles() * c.val(species.EnthalpyFeOxidation(reactionTemp))
	} else {
		// wustite is reduced by the injected carbon, none by CO gas
		c.setMoles(cReduction, feoDRI.Moles()-feoSlag.Moles())
		chemicalEnergy = -cReduction.Moles() * c.val(species.EnthalpyFeOCarbothermic(reactionTemp))
	}

	totalO2InjectedMass := c.val(sys.FloatVar("o2 injection kg"))
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the final eaf flows")
	}
	if totalO2InjectedMass < o2Oxidation.Mass() && !closeTo(totalO2InjectedMass, o2Oxidation.Mass()) {
		return ErrIncreaseInjectedO2
	}

	// All injected oxygen is consumed in oxidation or combustion.
	o2Combustion := species.NewO2()
	c.setMass(o2Combustion, totalO2InjectedMass-o2Oxidation.Mass())
	numCOReactions := o2Combustion.Moles() / coToCO2ReactionRatio
	numCO2Reactions := o2Combustion.Moles() - numCOReactions

	chemicalEnergy += -numCOReactions*c.val(species.EnthalpyCCombustionToCO(reactionTemp)) -
		numCO2Reactions*c.val(species.EnthalpyCCombustionToCO2(reactionTemp))
	c.asEnergy(inputFlow(eaf, "chemical")).SetEnergy(chemicalEnergy)

	cCombustionMoles := 2*numCOReactions + numCO2Reactions

	electrode := c.asSpecies(inputFlow(eaf, "electrode"))
	cInjected := species.NewC()
	c.setMoles(cInjected, cCombustionMoles+cReduction.Moles()+cAlloy.Moles()-electrode.Moles())
	cInjected.SetTemperature(thermo.CelsiusToKelvin(25))
	carbonIn := c.asSpecies(inputFlow(eaf, "carbon"))
	carbonIn.SetFrom(cInjected)

	o2Injected := species.NewO2()
	c.setMoles(o2Injected, o2Combustion.Moles()+o2Oxidation.Moles())
	o2Injected.SetTemperature(thermo.CelsiusToKelvin(25))
	o2In := c.asSpecies(inputFlow(eaf, "O2"))
	o2In.SetFrom(o2Injected)

	co := species.NewCO()
	c.setMoles(co, 2*numCOReactions+cReduction.Moles())
	co2 := species.NewCO2()
	c.setMoles(co2, numCO2Reactions)
	offGas := species.NewMixture("carbon gas", []*species.Species{co, co2})
	offGas.SetTemperature(reactionTemp - 200.0)
	c.setFrom(c.asMixture(outputFlow(eaf, "carbon gas")), offGas)

	// Air infiltrated through the furnace openings. pfeifer2022.
	const infiltratedAirMass = 200.0
	infiltratedAir := species.NewAir(infiltratedAirMass)
	infiltratedAir.SetName("infiltrated air")
	infiltratedAir.SetTemperature(thermo.CelsiusToKelvin(25))
	c.setFrom(c.asMixture(inputFlow(eaf, "infiltrated air")), infiltratedAir)

	infiltratedAir.SetTemperature(reactionTemp - 200.0)
	c.setFrom(c.asMixture(outputFlow(eaf, "infiltrated air")), infiltratedAir)

	const electricArcEff = 0.8 // makarov2022
	electricalEnergy := c.val(eaf.EnergyBalance()) / electricArcEff
	electricity := c.asEnergy(inputFlow(eaf, "base electricity"))
	electricity.SetEnergy(electricalEnergy)
	losses := c.asEnergy(outputFlow(eaf, "losses"))
	losses.SetEnergy(electricalEnergy * (1 - electricArcEff))

	const eafSurfaceRadius = 3.8
	const capacityTonnes = 180.0
	const tapToTapSecs = 60.0 * 60.0
	radiationLosses := steelSurfaceRadiationLosses(math.Pi*eafSurfaceRadius*eafSurfaceRadius,
		steelBathTemp, thermo.CelsiusToKelvin(25), capacityTonnes, tapToTapSecs)
	losses.AddEnergy(radiationLosses)
	electricity.AddEnergy(radiationLosses)

	return errors.Wrap(c.Err(), "unable to add the final eaf flows")
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func closeToAbs(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// clampTinyNegative flattens floating point residue left after subtracting
// nearly equal mole counts.
func clampTinyNegative(n float64) float64 {
	if n < 0 && n > -1e-9 {
		return 0.0
	}

	return n
}
