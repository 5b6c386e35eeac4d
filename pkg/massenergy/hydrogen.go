package massenergy

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// findConsumedH2Moles sums the hydrogen consumed by the named devices, the
// difference between the hydrogen rich gas flowing in and out of each.
func findConsumedH2Moles(sys *flowsheet.System, deviceNames []string) (float64, error) {
	c := &calc{}
	h2Moles := 0.0
	for _, deviceName := range deviceNames {
		device := c.device(sys, deviceName)
		inMoles := c.h2Moles(c.flow(device.FirstInputContaining("h2 rich gas")))
		outMoles := c.h2Moles(c.flow(device.FirstOutputContaining("h2 rich gas")))
		if c.Err() != nil {
			return 0.0, c.Err()
		}
		if inMoles < outMoles {
			return 0.0, errors.Errorf("device %s produces hydrogen", deviceName)
		}
		h2Moles += inMoles - outMoles
	}

	return h2Moles, nil
}

// addInputH2Flows supplies the consumed hydrogen over the fence, for plants
// without an on site electrolyser.
func addInputH2Flows(sys *flowsheet.System) error {
	c := &calc{}
	consumingDeviceNames, err := stringSliceVar(sys, "h2 consuming device names")
	if err != nil {
		return errors.Wrap(err, "unable to add the h2 input flows")
	}
	h2Moles, err := findConsumedH2Moles(sys, consumingDeviceNames)
	if err != nil {
		return errors.Wrap(err, "unable to add the h2 input flows")
	}

	h2 := species.NewH2()
	h2.SetTemperature(thermo.CelsiusToKelvin(25))
	c.setMoles(h2, h2Moles)

	inputDeviceName := c.str(sys.StringVar("input h2 device name"))
	inputDevice := c.device(sys, inputDeviceName)
	gasIn := c.asMixture(inputFlow(inputDevice, "h2 rich gas"))
	c.setFrom(gasIn, species.NewMixture("h2 rich gas", []*species.Species{h2}))

	return errors.Wrap(c.Err(), "unable to add the h2 input flows")
}

// addElectrolysisFlows sizes the water electrolyser to the hydrogen demand
// of the plant.
func addElectrolysisFlows(sys *flowsheet.System) error {
	c := &calc{}
	waterInputTemp := thermo.CelsiusToKelvin(25)
	gasOutputTemp := thermo.CelsiusToKelvin(70)

	consumingDeviceNames, err := stringSliceVar(sys, "h2 consuming device names")
	if err != nil {
		return errors.Wrap(err, "unable to add the electrolysis flows")
	}
	h2Moles, err := findConsumedH2Moles(sys, consumingDeviceNames)
	if err != nil {
		return errors.Wrap(err, "unable to add the electrolysis flows")
	}

	electrolyser := c.device(sys, "water electrolysis")

	h2 := species.NewH2()
	h2.SetTemperature(gasOutputTemp)
	c.setMoles(h2, h2Moles)
	c.asSpecies(outputFlow(electrolyser, "h2 rich gas")).SetFrom(h2)
	if c.Err() == nil && (h2.Mass() < 20.0 || h2.Mass() > 70.0) {
		// Expect around 55 kg of H2 per tonne of steel, lower with scrap.
		return errors.Errorf("unexpected h2 demand of %.1f kg per tonne of steel", h2.Mass())
	}

	o2 := species.NewO2()
	c.setMoles(o2, h2.Moles()*0.5)
	o2.SetTemperature(gasOutputTemp)
	c.asSpecies(outputFlow(electrolyser, "O2")).SetFrom(o2)

	h2o := species.NewH2O()
	c.setMoles(h2o, h2.Moles())
	h2o.SetTemperature(waterInputTemp)
	c.asSpecies(inputFlow(electrolyser, "H2O")).SetFrom(h2o)

	// With storage the electrolyser is oversized so it can run on the cheap
	// spot hours only.
	electricalEnergySource := "base electricity"
	electrolyser.DeviceVars()["oversize factor"] = 1.0
	if sys.HasDevice("h2 storage") {
		electricalEnergySource = "cheap electricity"
		cheapHours := c.val(sys.FloatVar("cheap electricity hours"))
		oversizeFactor := 24.0 / cheapHours
		if c.Err() == nil && oversizeFactor < 1.0 {
			return errors.Errorf("electrolyser oversize factor %g must be at least 1", oversizeFactor)
		}
		electrolyser.DeviceVars()["oversize factor"] = oversizeFactor
	}

	lhvEfficiency := c.val(sys.FloatVar("electrolysis lhv efficiency percent")) * 0.01
	const h2LHV = 120e6 // J/kg
	electricalEnergy := h2.Mass() * h2LHV / lhvEfficiency
	electricity := c.asEnergy(inputFlow(electrolyser, electricalEnergySource))
	electricity.AddEnergy(electricalEnergy)
	c.asEnergy(outputFlow(electrolyser, "losses")).SetEnergy(electricalEnergy * (1 - lhvEfficiency))
	c.asEnergy(outputFlow(electrolyser, "chemical")).SetEnergy(h2.Mass() * h2LHV)

	// The energy above performs electrolysis at 25C. Heating the gas to the
	// output temp draws extra electricity, assumed lossless.
	electricity.AddEnergy(c.val(electrolyser.ThermalEnergyBalance()))

	return errors.Wrap(c.Err(), "unable to add the electrolysis flows")
}

// addH2StorageFlows compresses the hydrogen produced during the cheap
// electricity hours into storage. Hydrogen leakage is neglected.
func addH2StorageFlows(sys *flowsheet.System) error {
	if !sys.HasDevice("h2 storage") {
		return nil
	}

	c := &calc{}
	storage := c.device(sys, "h2 storage")
	gasIn := c.asSpecies(inputFlow(storage, "h2 rich gas"))
	c.setFlowFrom(c.flow(outputFlow(storage, "h2 rich gas")), gasIn)

	// Only the hydrogen produced outside the operating hours of the grid
	// connection passes through storage, the rest flows straight on.
	storedH2Frac := c.val(sys.FloatVar("h2 storage hours of operation")) / 24.0
	storedH2Mass := storedH2Frac * gasIn.Mass()
	const h2HHV = 142.0e6 // J/kg

	storageMethod := c.str(sys.StringVar("h2 storage method"))
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the h2 storage flows")
	}

	var compressorEnergy float64
	switch strings.ToLower(storageMethod) {
	case "salt caverns":
		// ~100 bar, mixed isothermal and adiabatic compression.
		// elberry2021 fig 6.
		compressorEnergy = 0.06 * storedH2Mass * h2HHV
	case "compressed gas vessels":
		// ~160 bar. elberry2021 fig 6.
		compressorEnergy = 0.07 * storedH2Mass * h2HHV
	default:
		return errors.Errorf("unknown h2 storage method %q", storageMethod)
	}

	// Storage is only filled on low spot prices.
	c.asEnergy(inputFlow(storage, "cheap electricity")).SetEnergy(compressorEnergy)
	c.asEnergy(outputFlow(storage, "losses")).SetEnergy(compressorEnergy)

	return errors.Wrap(c.Err(), "unable to add the h2 storage flows")
}

// addH2HeaterFlows trues up the gas heaters between the heat exchangers and
// the fluidized beds once the rest of the loop is known.
func addH2HeaterFlows(sys *flowsheet.System) error {
	heaterNames := sys.DevicesContainingName("h2 heater")
	if len(heaterNames) == 0 {
		return nil
	}

	c := &calc{}
	for _, heaterName := range heaterNames {
		heater := c.device(sys, heaterName)

		if massBalance := heater.MassBalance(); !closeToAbs(massBalance, 0.0, 1e-9) {
			gasOut := c.flow(heater.FirstOutputContaining("h2 rich gas"))
			gasIn := c.flow(heater.FirstInputContaining("h2 rich gas"))
			if c.Err() != nil {
				return errors.Wrap(c.Err(), "unable to add the h2 heater flows")
			}

			switch {
			case closeTo(gasOut.Mass(), gasIn.Mass()):
			case gasOut.Mass() > gasIn.Mass():
				c.setGasMass(gasIn, gasOut.Mass())
			default:
				c.setGasMass(gasOut, gasIn.Mass())
			}
		}

		if energyBalance := c.val(heater.EnergyBalance()); !closeToAbs(energyBalance, 0.0, 1e-9) {
			const efficiency = 0.98
			requiredThermalEnergy := c.val(heater.ThermalEnergyBalance())
			losses := c.asEnergy(outputFlow(heater, "losses"))
			if requiredThermalEnergy >= 0 {
				c.asEnergy(inputFlow(heater, "base electricity")).AddEnergy(requiredThermalEnergy / efficiency)
				losses.AddEnergy(requiredThermalEnergy * (1 - efficiency) / efficiency)
			} else {
				// The heat exchanger supplied all the heat, the surplus has
				// to be cooled off.
				losses.AddEnergy(-requiredThermalEnergy)
			}
		}
	}

	return errors.Wrap(c.Err(), "unable to add the h2 heater flows")
}

// setGasMass resizes a hydrogen rich gas flow that is either a pure hydrogen
// species or a mixture with an H2 component.
func (c *calc) setGasMass(f flowsheet.Flow, massKg float64) {
	switch v := f.(type) {
	case *species.Species:
		c.setMass(v, massKg)
	case *species.Mixture:
		c.setMass(c.species(v, "H2"), massKg)
	default:
		c.fail(errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "%s: want species or mixture, got %T", f.Name(), f))
	}
}
