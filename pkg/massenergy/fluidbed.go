package massenergy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// addFluidizedBedFlows reduces the preheated ore with hydrogen in the first
// fluidized bed and solves the off gas temperature that closes the energy
// balance. All the reduction happens in the first bed, later beds pass the
// flows through.
func addFluidizedBedFlows(sys *flowsheet.System) error {
	c := &calc{}
	ironmakingDeviceNames, err := stringSliceVar(sys, "ironmaking device names")
	if err != nil {
		return errors.Wrap(err, "unable to add the fluidized bed flows")
	}
	if len(ironmakingDeviceNames) == 0 {
		return errors.New("at least one ironmaking device is required")
	}
	excessH2Ratio := c.val(sys.FloatVar("fluidized beds h2 excess ratio"))
	reductionDegree := c.val(sys.FloatVar("fluidized beds reduction percent")) * 0.01
	if c.Err() == nil && excessH2Ratio < 1.0 {
		return errors.Errorf("fluidized beds h2 excess ratio %g must be at least 1", excessH2Ratio)
	}

	inGasTemp := thermo.CelsiusToKelvin(900)
	reactionTemp := thermo.CelsiusToKelvin(775)
	minimumOffGasTemp := thermo.CelsiusToKelvin(650)

	ironmakingDevice := c.device(sys, ironmakingDeviceNames[0])
	ore := c.asMixture(inputFlow(ironmakingDevice, "ore"))

	comp, err := compositionVar(sys, "ore composition simple LOI removed")
	if err != nil {
		return errors.Wrap(err, "unable to add the fluidized bed flows")
	}
	feDRI, feoDRI, fe3o4DRI, fe2o3DRI, err := ironSpeciesFromReductionDegree(reductionDegree, ore.Mass(), comp)
	if err != nil {
		return errors.Wrap(err, "unable to add the fluidized bed flows")
	}

	dri := species.NewMixture("dri fines", []*species.Species{
		feDRI, feoDRI, fe3o4DRI, fe2o3DRI,
		c.species(ore, "CaO").Clone(),
		c.species(ore, "MgO").Clone(),
		c.species(ore, "SiO2").Clone(),
		c.species(ore, "Al2O3").Clone(),
	})
	dri.SetTemperature(inGasTemp - 50)
	driOut := c.asMixture(outputFlow(ironmakingDevice, "dri"))
	c.setFrom(driOut, dri)

	deltaFe := feDRI.Moles() - c.species(ore, "Fe").Moles()
	deltaFeO := feoDRI.Moles() - c.species(ore, "FeO").Moles()
	deltaFe3O4 := fe3o4DRI.Moles() - c.species(ore, "Fe3O4").Moles()

	numFeFormations := deltaFe
	numFeOFormations := (numFeFormations + deltaFeO) / 3
	numFe3O4Formations := (numFeOFormations + deltaFe3O4) / 2

	chemicalEnergy := -numFeFormations*c.val(species.EnthalpyWustiteToIronH2(reactionTemp)) -
		numFeOFormations*c.val(species.EnthalpyMagnetiteToWustiteH2(reactionTemp)) -
		numFe3O4Formations*c.val(species.EnthalpyHematiteToMagnetiteH2(reactionTemp))
	chemical := c.asEnergy(inputFlow(ironmakingDevice, "chemical"))
	chemical.SetName("chemical energy")
	chemical.SetEnergy(chemicalEnergy)

	h2Consumed := species.NewH2()
	c.setMoles(h2Consumed, 1.5*feDRI.Moles()+0.5*feoDRI.Moles()+0.5*fe3o4DRI.Moles())

	h2o := species.NewH2O()
	c.setMoles(h2o, h2Consumed.Moles())
	if loi, ok := ore.Species("H2O"); ok {
		// loss on ignition water still in the ore
		c.setMoles(h2o, h2o.Moles()+loi.Moles())
	}

	h2Excess := h2Consumed.Clone()
	c.setMoles(h2Excess, (excessH2Ratio-1)*h2Consumed.Moles())

	h2Total := species.NewH2()
	c.setMoles(h2Total, h2Consumed.Moles()+h2Excess.Moles())

	hydrogen := species.NewMixture("H2", []*species.Species{h2Total})
	hydrogen.SetTemperature(inGasTemp)
	gasIn := c.asMixture(ironmakingDevice.FirstInputContaining("h2 rich gas"))
	c.setFrom(gasIn, hydrogen)

	// First guess for the off gas temp, then iterate on the energy balance.
	offGas := species.NewMixture("H2 H2O", []*species.Species{h2o, h2Excess})
	offGas.SetTemperature(minimumOffGasTemp)
	gasOut := c.asMixture(ironmakingDevice.FirstOutputContaining("h2 rich gas"))
	c.setFrom(gasOut, offGas)
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the fluidized bed flows")
	}

	// Convection and conduction losses, 4% of the input heat. dutta pg 425.
	const thermalLossesFrac = 0.04

	thermalLosses := 0.0
	for i := 0; ; i++ {
		thermalLosses = -thermalLossesFrac * c.val(ironmakingDevice.ThermalEnergyBalance())
		energyBalance := c.val(ironmakingDevice.EnergyBalance()) + thermalLosses
		if c.Err() != nil {
			return errors.Wrap(c.Err(), "unable to add the fluidized bed flows")
		}
		if math.Abs(energyBalance) < 2e-6 {
			break
		}
		if i > 1000 {
			return errors.Errorf("fluidized bed off gas temp did not converge with excess h2 ratio %g", excessH2Ratio)
		}

		temp := c.val(gasOut.Temperature())
		joulesPerKelvin := c.val(gasOut.HeatEnergy(temp + 1))
		newOutTemp := temp - energyBalance/joulesPerKelvin
		if c.Err() != nil {
			return errors.Wrap(c.Err(), "unable to add the fluidized bed flows")
		}

		if newOutTemp < minimumOffGasTemp {
			return ErrIncreaseExcessHydrogenFluidizedBeds
		}
		gasOut.SetTemperature(newOutTemp)
	}

	losses := c.asEnergy(outputFlow(ironmakingDevice, "losses"))
	losses.SetName("thermal losses")
	losses.SetEnergy(thermalLosses)

	// Later beds are passthroughs until the reduction is split across them.
	for _, deviceName := range ironmakingDeviceNames[1:] {
		device := c.device(sys, deviceName)
		c.setFlowFrom(c.flow(inputFlow(device, "dri")), dri)
		c.setFlowFrom(c.flow(outputFlow(device, "dri")), dri)
		c.setFlowFrom(c.flow(device.FirstInputContaining("h2 rich gas")), hydrogen)
		c.setFlowFrom(c.flow(device.FirstOutputContaining("h2 rich gas")), hydrogen)
		c.asEnergy(outputFlow(device, "losses")).SetEnergy(0.0)
		c.asEnergy(inputFlow(device, "chemical")).SetEnergy(0.0)
	}

	return errors.Wrap(c.Err(), "unable to add the fluidized bed flows")
}

// addBriquettingFlows compacts the DRI fines to briquettes. No heating is
// assumed, so the stage only renames the flow.
func addBriquettingFlows(sys *flowsheet.System) error {
	if !sys.HasDevice("briquetting") {
		return nil
	}

	c := &calc{}
	ironmakingDeviceNames, err := stringSliceVar(sys, "ironmaking device names")
	if err != nil {
		return errors.Wrap(err, "unable to add the briquetting flows")
	}

	finalIronmakingDevice := c.device(sys, ironmakingDeviceNames[len(ironmakingDeviceNames)-1])
	hbi := c.asMixture(outputFlow(finalIronmakingDevice, "dri")).Clone()
	hbi.SetName("hbi")

	hbiOut := c.asMixture(sys.GetOutput("briquetting", "hbi"))
	c.setFrom(hbiOut, hbi)

	return errors.Wrap(c.Err(), "unable to add the briquetting flows")
}
