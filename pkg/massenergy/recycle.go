package massenergy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// mergeJoin recomputes the single output of a join device from its inputs.
// Joins only merge flows, they never split them.
func mergeJoin(joinDeviceName string) func(*flowsheet.System) error {
	return func(sys *flowsheet.System) error {
		c := &calc{}
		join := c.device(sys, joinDeviceName)
		outputs := join.Outputs()
		if c.Err() == nil && len(outputs) != 1 {
			return errors.Errorf("join device %s has %d outputs, want 1", joinDeviceName, len(outputs))
		}
		if c.Err() != nil {
			return errors.Wrapf(c.Err(), "unable to merge the flows of %s", joinDeviceName)
		}

		switch out := outputs[0].(type) {
		case *species.Species:
			merged := species.NewMixture("tmp", nil)
			for _, in := range join.Inputs() {
				s, ok := in.(*species.Species)
				if !ok {
					return errors.Wrapf(flowsheet.ErrFlowTypeMismatch,
						"unable to merge the flows of %s: input %s is %T, want species", joinDeviceName, in.Name(), in)
				}
				c.mergeSpecies(merged, s)
			}
			if c.Err() == nil && merged.NumSpecies() != 1 {
				return errors.Errorf("join device %s merges %d species into a pure flow", joinDeviceName, merged.NumSpecies())
			}
			if c.Err() == nil {
				out.SetFrom(merged.SpeciesList()[0])
			}
		case *species.Mixture:
			c.setFrom(out, species.NewMixture(out.Name(), nil))
			for _, in := range join.Inputs() {
				switch v := in.(type) {
				case *species.Species:
					c.mergeSpecies(out, v)
				case *species.Mixture:
					c.merge(out, v)
				default:
					return errors.Wrapf(flowsheet.ErrFlowTypeMismatch,
						"unable to merge the flows of %s: input %s is %T", joinDeviceName, in.Name(), in)
				}
			}
		default:
			return errors.Wrapf(flowsheet.ErrFlowTypeMismatch,
				"unable to merge the flows of %s: output %s is %T", joinDeviceName, outputs[0].Name(), outputs[0])
		}

		return errors.Wrapf(c.Err(), "unable to merge the flows of %s", joinDeviceName)
	}
}

// balanceJoin3Flows splits the fresh hydrogen of the hybrid plant between
// the fluidized bed loop and the plasma smelter loop.
func balanceJoin3Flows(sys *flowsheet.System) error {
	c := &calc{}
	join3 := c.device(sys, "join 3")
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))
	ironmakingDeviceNames, err := stringSliceVar(sys, "ironmaking device names")
	if err != nil {
		return errors.Wrap(err, "unable to balance the join 3 flows")
	}

	inTemp := 0.0
	switch in := c.flow(join3.FirstInputContaining("h2 rich gas")).(type) {
	case *species.Species:
		inTemp = in.Temperature()
	case *species.Mixture:
		inTemp = c.val(in.Temperature())
	default:
		return errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "unable to balance the join 3 flows: %T", in)
	}

	steelmakingDevice := c.device(sys, steelmakingDeviceName)
	h2Loop2 := species.NewH2()
	h2Loop2.SetTemperature(inTemp)
	c.setMoles(h2Loop2,
		c.h2Moles(c.flow(steelmakingDevice.FirstInputContaining("h2 rich gas")))-
			c.h2Moles(c.flow(steelmakingDevice.FirstOutputContaining("h2 rich gas"))))

	h2Loop1 := species.NewH2()
	h2Loop1.SetTemperature(inTemp)
	loop1Moles := 0.0
	for _, deviceName := range ironmakingDeviceNames {
		device := c.device(sys, deviceName)
		loop1Moles += c.h2Moles(c.flow(device.FirstInputContaining("h2 rich gas"))) -
			c.h2Moles(c.flow(device.FirstOutputContaining("h2 rich gas")))
	}
	c.setMoles(h2Loop1, loop1Moles)

	c.setFrom(c.asMixture(outputFlow(join3, "h2 rich gas 1")),
		species.NewMixture("h2 rich gas 1", []*species.Species{h2Loop1}))
	c.setFrom(c.asMixture(outputFlow(join3, "h2 rich gas 2")),
		species.NewMixture("h2 rich gas 2", []*species.Species{h2Loop2}))

	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to balance the join 3 flows")
	}
	if math.Abs(join3.MassBalance()) > 1e-8 || math.Abs(c.val(join3.EnergyBalance())) > 1e-8 {
		return errors.New("unable to balance the join 3 flows: mass or energy balance not zero")
	}

	return errors.Wrap(c.Err(), "unable to balance the join 3 flows")
}

// heatExchangerInitial passes the hot gas masses through, so the condenser
// can remove the condensables before the energy balance is solved.
func heatExchangerInitial(heatExchangerDeviceName string) func(*flowsheet.System) error {
	return func(sys *flowsheet.System) error {
		c := &calc{}
		heatExchanger := c.device(sys, heatExchangerDeviceName)
		c.setFlowFrom(c.flow(outputFlow(heatExchanger, "recycled h2 rich gas")),
			c.flow(inputFlow(heatExchanger, "recycled h2 rich gas")))

		return errors.Wrapf(c.Err(), "unable to add the initial flows of %s", heatExchangerDeviceName)
	}
}

// condenserInitial passes the recycled gas through with the condensables
// removed, so the loop masses close before the energy balance is solved.
func condenserInitial(condenserDeviceName string) func(*flowsheet.System) error {
	return func(sys *flowsheet.System) error {
		c := &calc{}
		condenser := c.device(sys, condenserDeviceName)
		gasOut := c.asMixture(outputFlow(condenser, "recycled h2 rich gas"))
		c.setFrom(gasOut, c.asMixture(inputFlow(condenser, "recycled h2 rich gas")))
		if c.Err() == nil {
			gasOut.RemoveSpecies("H2O")
			gasOut.RemoveSpecies("CO")
			gasOut.RemoveSpecies("CO2")
			gasOut.SetTemperature(thermo.CelsiusToKelvin(70))
		}

		return errors.Wrapf(c.Err(), "unable to add the initial flows of %s", condenserDeviceName)
	}
}

// heatExchangerFinal solves the counterflow heat exchange between the hot
// recycled gas and the cold fresh gas.
func heatExchangerFinal(heatExchangerDeviceName string) func(*flowsheet.System) error {
	return func(sys *flowsheet.System) error {
		c := &calc{}
		heatExchanger := c.device(sys, heatExchangerDeviceName)

		// The maximum possible efficiency. The realised efficiency is lower
		// when the cold gas exit temp is capped by the hot gas inlet temp.
		heatExchangerEff := c.val(sys.FloatVar("max heat exchanger eff perc")) * 0.01
		if c.Err() == nil && (heatExchangerEff < 0.30 || heatExchangerEff > 1.00) {
			return errors.Errorf("heat exchanger efficiency %g must be between 30%% and 100%%", heatExchangerEff)
		}

		coldGasFlow := c.asMixture(inputFlow(heatExchanger, "h2 rich gas"))
		initialColdGasTemp := c.val(coldGasFlow.Temperature())

		hotGasIn := c.asMixture(inputFlow(heatExchanger, "recycled h2 rich gas")).Clone()
		coldGasIn := coldGasFlow.Clone()
		initialHotGasTemp := c.val(hotGasIn.Temperature())

		// Exit temp before the condenser, just above the water condensation
		// point.
		finalHotGasTemp := thermo.CelsiusToKelvin(101)
		if c.Err() == nil && finalHotGasTemp > initialHotGasTemp {
			return errors.Errorf("hot gas enters the heat exchanger at %.0fK, below the exit temp", initialHotGasTemp)
		}
		heatExchanged := -c.val(hotGasIn.HeatEnergy(finalHotGasTemp)) * heatExchangerEff
		hotGasIn.SetTemperature(finalHotGasTemp)
		c.setFrom(c.asMixture(outputFlow(heatExchanger, "recycled h2 rich gas")), hotGasIn)

		// First estimate of the cold gas exit temp assumes a constant heat
		// capacity, then iterate.
		coldGasTemp := c.val(coldGasIn.Temperature())
		joulesPerKelvin := c.val(coldGasIn.HeatEnergy(coldGasTemp + 1))
		coldGasIn.SetTemperature(coldGasTemp + heatExchanged/joulesPerKelvin)
		if c.Err() != nil {
			return errors.Wrapf(c.Err(), "unable to add the final flows of %s", heatExchangerDeviceName)
		}

		for i := 0; ; i++ {
			energyGainedByColdGas := -c.val(coldGasIn.HeatEnergy(initialColdGasTemp))
			if c.Err() != nil {
				return errors.Wrapf(c.Err(), "unable to add the final flows of %s", heatExchangerDeviceName)
			}
			if math.Abs((energyGainedByColdGas-heatExchanged)/energyGainedByColdGas) < 1e-12 {
				break
			}
			if i > 100 {
				return errors.Errorf("cold gas exit temp of %s did not converge", heatExchangerDeviceName)
			}

			coldGasTemp = c.val(coldGasIn.Temperature())
			joulesPerKelvin = c.val(coldGasIn.HeatEnergy(coldGasTemp + 1))
			coldGasIn.SetTemperature(coldGasTemp + (heatExchanged-energyGainedByColdGas)/joulesPerKelvin)
		}

		coldGasOut := c.asMixture(outputFlow(heatExchanger, "h2 rich gas"))
		c.setFrom(coldGasOut, coldGasIn)

		// The cold gas cannot exit hotter than the hot gas entered.
		if c.Err() == nil && c.val(coldGasOut.Temperature()) > initialHotGasTemp {
			coldGasOut.SetTemperature(initialHotGasTemp)
		}

		c.asEnergy(outputFlow(heatExchanger, "losses")).SetEnergy(-c.val(heatExchanger.ThermalEnergyBalance()))

		return errors.Wrapf(c.Err(), "unable to add the final flows of %s", heatExchangerDeviceName)
	}
}

// condenserFinal condenses the water out of the recycled gas and scrubs the
// carbon gases, closing the energy balance of the loop.
func condenserFinal(condenserDeviceName string) func(*flowsheet.System) error {
	return func(sys *flowsheet.System) error {
		c := &calc{}
		condenser := c.device(sys, condenserDeviceName)
		condenserTemp := thermo.CelsiusToKelvin(70)

		gasIn := c.asMixture(inputFlow(condenser, "recycled h2 rich gas"))
		gasOut := c.asMixture(outputFlow(condenser, "recycled h2 rich gas"))
		c.setFrom(gasOut, gasIn)
		if c.Err() != nil {
			return errors.Wrapf(c.Err(), "unable to add the final flows of %s", condenserDeviceName)
		}
		gasOut.RemoveSpecies("H2O")
		gasOut.RemoveSpecies("CO")
		gasOut.RemoveSpecies("CO2")
		gasOut.SetTemperature(condenserTemp)

		h2oOut := c.species(gasIn, "H2O").Clone()
		h2oOut.SetTemperature(condenserTemp)
		c.asSpecies(outputFlow(condenser, "H2O")).SetFrom(h2oOut)

		co, hasCO := gasIn.Species("CO")
		co2, hasCO2 := gasIn.Species("CO2")
		if hasCO && hasCO2 {
			carbonGas := species.NewMixture("carbon gas", []*species.Species{co.Clone(), co2.Clone()})
			carbonGas.SetTemperature(condenserTemp)
			c.setFrom(c.asMixture(outputFlow(condenser, "carbon gas")), carbonGas)
		}

		// No useful energy is recovered from the condenser.
		c.asEnergy(outputFlow(condenser, "losses")).SetEnergy(-c.val(condenser.ThermalEnergyBalance()))

		return errors.Wrapf(c.Err(), "unable to add the final flows of %s", condenserDeviceName)
	}
}
