package massenergy

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
)

// ElectricityDemandPerMajorDevice sums the electrical inputs of a solved
// system per major device group [J per tonne of steel].
func ElectricityDemandPerMajorDevice(sys *flowsheet.System) (map[string]float64, error) {
	electricity := map[string]float64{
		"water electrolysis": 0.0,
		"h2 storage":         0.0,
		"h2 heater":          0.0,
		"ore heater":         deviceElectricity(sys, "ore heater", "base electricity"),
		"plasma or eaf":      0.0,
	}

	if sys.HasDevice("water electrolysis") {
		electricity["water electrolysis"] += deviceElectricity(sys, "water electrolysis", "cheap electricity")
		electricity["water electrolysis"] += deviceElectricity(sys, "water electrolysis", "base electricity")
	}
	if sys.HasDevice("h2 storage") {
		electricity["h2 storage"] += deviceElectricity(sys, "h2 storage", "cheap electricity")
	}
	for _, heaterName := range sys.DevicesContainingName("h2 heater") {
		electricity["h2 heater"] += deviceElectricity(sys, heaterName, "base electricity")
	}

	switch {
	case sys.HasDevice("plasma smelter"):
		electricity["plasma or eaf"] += deviceElectricity(sys, "plasma smelter", "base electricity")
		electricity["plasma or eaf"] += deviceElectricity(sys, "plasma torch", "base electricity")
	case sys.HasDevice("eaf"):
		electricity["plasma or eaf"] += deviceElectricity(sys, "eaf", "base electricity")
	default:
		return nil, errors.Errorf("system %s has neither a plasma smelter nor an eaf", sys.Name())
	}

	return electricity, nil
}

func deviceElectricity(sys *flowsheet.System, deviceName, flowName string) float64 {
	device, err := sys.Device(deviceName)
	if err != nil {
		return 0.0
	}
	f, ok := device.Input(flowName)
	if !ok {
		return 0.0
	}
	e, ok := f.(*flowsheet.EnergyFlow)
	if !ok {
		return 0.0
	}

	return e.EnergyValue()
}

// SlagComposition returns the weight fractions of the slag leaving the named
// device, or false if the device has no slag output.
func SlagComposition(sys *flowsheet.System, deviceName string) (map[string]float64, bool) {
	device, err := sys.Device(deviceName)
	if err != nil {
		return nil, false
	}
	f, ok := device.Output("slag")
	if !ok {
		return nil, false
	}
	slag, ok := f.(*species.Mixture)
	if !ok || slag.Mass() <= 0 {
		return nil, false
	}

	composition := make(map[string]float64, slag.NumSpecies())
	for _, s := range slag.SpeciesList() {
		composition[s.Name()] = s.Mass() / slag.Mass()
	}

	return composition, true
}

// SlagCompositions collects the slag compositions of the ironmaking and
// steelmaking devices of a solved system, keyed by device name.
func SlagCompositions(sys *flowsheet.System) (map[string]map[string]float64, error) {
	c := &calc{}
	compositions := make(map[string]map[string]float64)

	if name, ok := sys.Var("ironmaking device name"); ok {
		if deviceName, ok := name.(string); ok {
			if composition, ok := SlagComposition(sys, deviceName); ok {
				compositions[deviceName] = composition
			}
		}
	}

	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))
	if c.Err() != nil {
		return nil, errors.Wrap(c.Err(), "unable to report the slag composition")
	}
	if composition, ok := SlagComposition(sys, steelmakingDeviceName); ok {
		compositions[steelmakingDeviceName] = composition
	}

	if len(compositions) == 0 {
		return nil, errors.Errorf("system %s has no slag in any device", sys.Name())
	}

	return compositions, nil
}
