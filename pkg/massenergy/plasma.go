package massenergy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// addPlasmaFlowsFinal finishes the plasma smelter: hydrogen plasma
// reduction, carbon and oxygen injection, the argon carrier gas and the off
// gas temperature that closes the energy balance.
func addPlasmaFlowsFinal(sys *flowsheet.System) error {
	c := &calc{}
	reductionDegree := c.val(sys.FloatVar("plasma reduction percent")) * 0.01
	plasmaTemp := c.val(sys.FloatVar("plasma temp K"))
	excessH2Ratio := c.val(sys.FloatVar("plasma h2 excess ratio"))
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))
	steelBathTemp := c.val(sys.FloatVar("steel exit temp K"))
	argonPercInPlasma := sys.FloatVarOr("argon molar percent in h2 plasma", 0.0)
	hReactionFrac := c.val(sys.FloatVar("plasma h fraction (excl. Ar and H2O)"))

	ironmakingDeviceNames, err := stringSliceVar(sys, "ironmaking device names")
	if err != nil {
		return errors.Wrap(err, "unable to add the final plasma flows")
	}
	comp, err := compositionVar(sys, "ore composition simple LOI removed")
	if err != nil {
		return errors.Wrap(err, "unable to add the final plasma flows")
	}
	if c.Err() == nil && excessH2Ratio < 1.0 {
		return errors.Errorf("plasma h2 excess ratio %g must be at least 1", excessH2Ratio)
	}

	plasmaSmelter := c.device(sys, steelmakingDeviceName)
	plasmaTorch := c.device(sys, "plasma torch")

	// The smelter takes hot briquetted iron in the hybrid plant and ore
	// fines in the pure plasma plant.
	ironbearingFlow, ok := plasmaSmelter.Input("hbi")
	if !ok {
		ironbearingFlow, ok = plasmaSmelter.Input("ore")
	}
	if !ok {
		return errors.New("no iron bearing material in the input mass of the plasma smelter")
	}
	ironbearing, isMixture := ironbearingFlow.(*species.Mixture)
	if !isMixture {
		return errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "%s: want mixture, got %T", ironbearingFlow.Name(), ironbearingFlow)
	}

	ironmakingDevice := c.device(sys, ironmakingDeviceNames[0])
	oreMass := c.asMixture(inputFlow(ironmakingDevice, "ore")).Mass()
	feTarget, feoTarget, fe3o4Target, fe2o3Target, err := ironSpeciesFromReductionDegree(reductionDegree, oreMass, comp)
	if err != nil {
		return errors.Wrap(err, "unable to add the final plasma flows")
	}
	if math.Abs(fe3o4Target.Moles()) > 1e-12 || math.Abs(fe2o3Target.Moles()) > 1e-12 {
		return errors.New("plasma hydrogen reduction must completely reduce magnetite and hematite")
	}

	deltaFe := feTarget.Moles() - c.species(ironbearing, "Fe").Moles()
	deltaFeO := feoTarget.Moles() - c.species(ironbearing, "FeO").Moles()
	deltaFe3O4 := fe3o4Target.Moles() - c.species(ironbearing, "Fe3O4").Moles()

	numFeFormations := deltaFe
	numFeOFormations := (numFeFormations + deltaFeO) / 3
	numFe3O4Formations := (numFeOFormations + deltaFe3O4) / 2

	numSiFormations := 0.0
	steelOut := c.asMixture(outputFlow(plasmaSmelter, "steel"))
	if siInSteel, ok := steelOut.Species("Si"); ok {
		numSiFormations = siInSteel.Moles()
	}

	// The plasma is partly dissociated, so a fraction of the reduction runs
	// over monatomic hydrogen.
	h2ReactionFrac := 1 - hReactionFrac*0.5
	chemicalEnergy := -numFeFormations*(h2ReactionFrac*c.val(species.EnthalpyWustiteToIronH2(plasmaTemp))+hReactionFrac*c.val(species.EnthalpyWustiteToIronH(plasmaTemp))) -
		numFeOFormations*(h2ReactionFrac*c.val(species.EnthalpyMagnetiteToWustiteH2(plasmaTemp))+hReactionFrac*c.val(species.EnthalpyMagnetiteToWustiteH(plasmaTemp))) -
		numFe3O4Formations*(h2ReactionFrac*c.val(species.EnthalpyHematiteToMagnetiteH2(plasmaTemp))+hReactionFrac*c.val(species.EnthalpyHematiteToMagnetiteH(plasmaTemp))) -
		numSiFormations*c.val(species.EnthalpySiO2ReductionH2(plasmaTemp))

	h2o := species.NewH2O()
	c.setMoles(h2o, numFeFormations+numFeOFormations+numFe3O4Formations+2*numSiFormations)
	h2ConsumedMoles := h2o.Moles()

	h2Excess := species.NewH2()
	c.setMoles(h2Excess, h2ConsumedMoles*(excessH2Ratio-1))

	h2Total := species.NewH2()
	c.setMoles(h2Total, h2ConsumedMoles+h2Excess.Moles())

	hydrogenFracInPlasma := 1.0 - 0.01*argonPercInPlasma
	argon := species.NewAr()
	c.setMoles(argon, h2Total.Moles()/hydrogenFracInPlasma-h2Total.Moles())
	h2RichGas := species.NewMixture("h2 rich gas", []*species.Species{h2Total, argon})

	// The torch inlet temp is revisited once the heat exchanger exit temp
	// is known.
	h2InputTemp := c.val(sys.FloatVar("max heat exchanger temp K")) - 300.0
	h2RichGas.SetTemperature(h2InputTemp)

	torchGasIn := c.asMixture(plasmaTorch.FirstInputContaining("h2 rich gas"))
	c.setFrom(torchGasIn, h2RichGas)
	h2RichGas.SetTemperature(plasmaTemp)
	torchGasOut := c.asMixture(plasmaTorch.FirstOutputContaining("h2 rich gas"))
	c.setFrom(torchGasOut, h2RichGas)

	plasmaTorchEff := c.val(sys.FloatVar("plasma torch electro-thermal eff percent")) * 0.01
	electricalEnergy := c.val(plasmaTorch.EnergyBalance()) / plasmaTorchEff
	c.asEnergy(inputFlow(plasmaTorch, "base electricity")).SetEnergy(electricalEnergy)
	c.asEnergy(outputFlow(plasmaTorch, "losses")).SetEnergy(electricalEnergy * (1 - plasmaTorchEff))

	smelterGasIn := c.asMixture(plasmaSmelter.FirstInputContaining("h2 rich gas"))
	c.setFrom(smelterGasIn, h2RichGas)

	cAlloy := c.species(steelOut, "C").Clone()
	feoSlag := c.species(c.asMixture(outputFlow(plasmaSmelter, "slag")), "FeO")

	o2Oxidation := species.NewO2()
	cReduction := species.NewC()
	chemical := c.asEnergy(inputFlow(plasmaSmelter, "chemical"))

	switch {
	case math.Abs(feoSlag.Moles()-feoTarget.Moles()) <= 1e-9:
		// no oxidation or reduction of the slag FeO required
	case feoSlag.Moles() > feoTarget.Moles():
		// metallic iron is oxidised by the injected oxygen
		c.setMoles(o2Oxidation, 0.5*(feoSlag.Moles()-feoTarget.Moles()))
		chemical.AddEnergy(-o2Oxidation.Moles() * c.val(species.EnthalpyFeOxidation(plasmaTemp)))
	default:
		// slag FeO is reduced by the injected carbon
		c.setMoles(cReduction, feoTarget.Moles()-feoSlag.Moles())
		chemicalEnergy += -cReduction.Moles() * c.val(species.EnthalpyFeOCarbothermic(plasmaTemp))
	}

	totalO2InjectedMass := c.val(sys.FloatVar("o2 injection kg"))
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the final plasma flows")
	}
	if totalO2InjectedMass < o2Oxidation.Mass() && !closeTo(totalO2InjectedMass, o2Oxidation.Mass()) {
		return ErrIncreaseInjectedO2
	}

	// Oxygen oxidises iron up to the FeO solubility limit of the slag
	// before it combusts with the carbon.
	o2Combustion := species.NewO2()
	c.setMass(o2Combustion, totalO2InjectedMass-o2Oxidation.Mass())
	numCOReactions := o2Combustion.Moles() / coToCO2ReactionRatio
	numCO2Reactions := o2Combustion.Moles() - numCOReactions

	chemicalEnergy += -numCOReactions*c.val(species.EnthalpyCCombustionToCO(plasmaTemp)) -
		numCO2Reactions*c.val(species.EnthalpyCCombustionToCO2(plasmaTemp))
	chemical.AddEnergy(chemicalEnergy)

	cInjected := species.NewC()
	c.setMoles(cInjected, 2*numCOReactions+numCO2Reactions+cReduction.Moles()+cAlloy.Moles())
	cInjected.SetTemperature(thermo.CelsiusToKelvin(25))
	c.asSpecies(inputFlow(plasmaSmelter, "carbon")).SetFrom(cInjected)

	o2Injected := species.NewO2()
	c.setMoles(o2Injected, o2Combustion.Moles()+o2Oxidation.Moles())
	o2Injected.SetTemperature(thermo.CelsiusToKelvin(25))
	c.asSpecies(inputFlow(plasmaSmelter, "O2")).SetFrom(o2Injected)

	if loi, ok := ironbearing.Species("H2O"); ok {
		// loss on ignition water still in the ore or dri
		c.setMoles(h2o, h2o.Moles()+loi.Moles())
	}

	// No infiltrated air: the smelter needs a controlled atmosphere, so the
	// vessel is assumed air tight.
	const plasmaSurfaceRadius = 3.8 * 0.5
	const capacityTonnes = 180.0 * 0.5
	const bathResidenceSecs = 60.0 * 60.0 * 0.5
	bathRadiationLosses := steelSurfaceRadiationLosses(math.Pi*plasmaSurfaceRadius*plasmaSurfaceRadius,
		steelBathTemp, thermo.CelsiusToKelvin(25), capacityTonnes, bathResidenceSecs)
	losses := c.asEnergy(outputFlow(plasmaSmelter, "losses"))
	losses.SetEnergy(bathRadiationLosses)

	co := species.NewCO()
	c.setMoles(co, 2*numCOReactions+cReduction.Moles())
	co2 := species.NewCO2()
	c.setMoles(co2, numCO2Reactions)
	offGasMixture := species.NewMixture("off gas", []*species.Species{co, co2, h2o, h2Excess, argon})

	// Solve for the off gas temp that closes the energy balance, starting
	// from the maximum safe heat exchanger inlet temp.
	initialWorkingGasTemp := c.val(smelterGasIn.Temperature())
	maxHeatExchangerTemp := c.val(sys.FloatVar("max heat exchanger temp K"))
	offGasMixture.SetTemperature(maxHeatExchangerTemp)
	offGas := c.asMixture(plasmaSmelter.FirstOutputContaining("h2 rich gas"))
	c.setFrom(offGas, offGasMixture)

	plasmaToMeltEff := c.val(sys.FloatVar("plasma energy to melt eff percent")) * 0.01
	plasmaToMeltLosses := (1 - plasmaToMeltEff) * c.val(offGas.HeatEnergy(initialWorkingGasTemp))
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the final plasma flows")
	}

	for i := 0; ; i++ {
		reactorEnergyBalance := c.val(plasmaSmelter.EnergyBalance()) + plasmaToMeltLosses
		if c.Err() != nil {
			return errors.Wrap(c.Err(), "unable to add the final plasma flows")
		}
		if math.Abs(reactorEnergyBalance) < 2e-5 {
			break
		}
		if i > 100 {
			return errors.New("plasma smelter off gas exit temp did not converge")
		}

		temp := c.val(offGas.Temperature())
		joulesPerKelvin := c.val(offGas.HeatEnergy(temp + 1))
		dT := -reactorEnergyBalance / joulesPerKelvin
		if temp+dT < steelBathTemp {
			return ErrIncreaseExcessHydrogenPlasma
		}

		offGas.SetTemperature(temp + dT)
		plasmaToMeltLosses = (1 - plasmaToMeltEff) * c.val(offGas.HeatEnergy(initialWorkingGasTemp))
	}

	losses.AddEnergy(plasmaToMeltLosses)

	if temp := c.val(offGas.Temperature()); temp > maxHeatExchangerTemp {
		// Excess off gas heat could preheat scrap in a real plant. Treat it
		// as losses for now.
		offGas.SetTemperature(maxHeatExchangerTemp)
		losses.AddEnergy(-c.val(plasmaSmelter.EnergyBalance()))
	}

	return errors.Wrap(c.Err(), "unable to add the final plasma flows")
}

// adjustPlasmaTorchElectricity trues up the torch electricity once the heat
// exchanger exit temperature of the hydrogen is known exactly.
func adjustPlasmaTorchElectricity(sys *flowsheet.System) error {
	c := &calc{}
	plasmaTorch := c.device(sys, "plasma torch")
	balance := c.val(plasmaTorch.EnergyBalance())
	c.asEnergy(inputFlow(plasmaTorch, "base electricity")).AddEnergy(balance)

	return errors.Wrap(c.Err(), "unable to adjust the plasma torch electricity")
}
