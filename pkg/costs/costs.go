package costs

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
)

// AddSteelPlantLCOP prices every device and input of a solved system and
// stores the itemised levelised cost of production [USD per tonne of steel]
// on the system.
func AddSteelPlantLCOP(sys *flowsheet.System, prices Prices, log *zap.SugaredLogger) error {
	if err := AddSteelPlantCapex(sys, prices); err != nil {
		return errors.Wrapf(err, "unable to calculate the lcop of system %s", sys.Name())
	}

	annualFixedOpex, err := sys.FloatVar("annual fixed opex USD")
	if err != nil {
		return errors.Wrapf(err, "unable to calculate the lcop of system %s", sys.Name())
	}
	annualProduction := sys.AnnualCapacity() * sys.FloatVarOr("capacity factor", 1.0)

	lcopItemised := map[string]float64{
		"capex": lcopCapexOnly(systemCapex(sys), annualFixedOpex, annualProduction, sys.LifetimeYears()),
	}

	inputs, err := sys.SystemInputs(flowsheet.AggregateOptions{
		IgnoreFlowsNamed:      []string{"infiltrated air"},
		SeparateMixturesNamed: []string{"flux", "h2 rich gas"},
	})
	if err != nil {
		return errors.Wrapf(err, "unable to calculate the lcop of system %s", sys.Name())
	}

	spotElectricityHours := sys.FloatVarOr("cheap electricity hours", 8.0)
	operatingCosts, err := OperatingCostPerTonne(inputs, prices, spotElectricityHours, log)
	if err != nil {
		return errors.Wrapf(err, "unable to calculate the lcop of system %s", sys.Name())
	}
	for name, costPerTonne := range operatingCosts {
		lcopItemised[name] = costPerTonne
	}

	sys.SetLCOPBreakdown(lcopItemised)

	return nil
}

// CO2ePerTonneSteel returns the CO2 equivalent emissions of the system
// [kg CO2e per tonne of steel]. The global warming potential of CO is taken
// from IPCC AR4 WG1.
func CO2ePerTonneSteel(sys *flowsheet.System) (float64, error) {
	outputs, err := sys.SystemOutputs(flowsheet.AggregateOptions{
		SeparateMixturesNamed: []string{"carbon gas"},
		MassFlowOnly:          true,
	})
	if err != nil {
		return 0.0, errors.Wrapf(err, "unable to calculate the emissions of system %s", sys.Name())
	}

	const coGlobalWarmingPotential = 1.9

	return outputs["CO2"] + outputs["CO"]*coGlobalWarmingPotential, nil
}

// BreakevenCO2ePrice returns the carbon price [USD per tonne CO2e] at which
// the plant breaks even with a conventional BF-BOF plant. BF-BOF cost and
// emissions from zang2023.
func BreakevenCO2ePrice(sys *flowsheet.System) (float64, error) {
	const lcopBFBOF = 439.0           // USD / tonne steel
	const co2EquivalentsBFBOF = 2.0e3 // kg CO2e / tonne steel

	lcop := sys.LCOP()
	if math.Abs(lcop) < 0.01 {
		return 0.0, errors.Errorf("system %s has no lcop, calculate it first", sys.Name())
	}

	co2e, err := CO2ePerTonneSteel(sys)
	if err != nil {
		return 0.0, err
	}

	// USD / kg to USD / tonne.
	return (lcop - lcopBFBOF) / (co2EquivalentsBFBOF - co2e) * 1e3, nil
}

// OperatingCostPerTonne prices the aggregated system inputs
// [USD per tonne of steel].
func OperatingCostPerTonne(inputs map[string]float64, prices Prices, spotElectricityHours float64, log *zap.SugaredLogger) (map[string]float64, error) {
	inputsLower := make(map[string]float64, len(inputs))
	for k, v := range inputs {
		inputsLower[strings.ToLower(k)] = v
	}
	if len(inputsLower) != len(inputs) {
		return nil, errors.New("input names clash when compared case insensitively")
	}

	pricesLower, err := prices.lower()
	if err != nil {
		return nil, err
	}

	cheapSpot, hasCheapSpot := pricesLower["cheap spot electricity"]
	expensiveSpot, hasExpensiveSpot := pricesLower["expensive spot electricity"]
	switch {
	case hasCheapSpot && hasExpensiveSpot:
		baseElectricityUSDPerMWh := (spotElectricityHours*cheapSpot.PriceUSD +
			(24.0-spotElectricityHours)*expensiveSpot.PriceUSD) / 24.0
		pricesLower["base electricity"] = PriceEntry{
			Name: "base electricity", PriceUSD: baseElectricityUSDPerMWh, Units: PerMegaWattHour,
		}
	case pricesLower.has("base electricity"):
		pricesLower["cheap spot electricity"] = PriceEntry{
			Name: "cheap spot electricity", PriceUSD: pricesLower["base electricity"].PriceUSD, Units: PerMegaWattHour,
		}
	default:
		return nil, errors.New("no electricity prices set, need base electricity or both spot electricity entries")
	}

	operatingCosts := map[string]float64{}

	// Costs charged per tonne of product regardless of any input flow,
	// mainly labour.
	for name, price := range pricesLower {
		if price.Units == PerTonneOfProduct {
			operatingCosts[name] = price.PriceUSD
		}
	}

	for inputName, inputAmount := range inputsLower {
		price, ok := pricesLower[inputName]
		if !ok {
			log.Warnw("no price found for input", "input", inputName)

			continue
		}

		switch price.Units {
		case PerKilogram:
			operatingCosts[inputName] = inputAmount * price.PriceUSD
		case PerTonne:
			operatingCosts[inputName] = inputAmount * price.PriceUSD / 1000.0
		case PerMegaWattHour:
			operatingCosts[inputName] = inputAmount * price.PriceUSD / 3.6e9
		case PerTonneOfProduct:
			operatingCosts[inputName] = inputAmount * price.PriceUSD
		default:
			return nil, errors.Errorf("price units %s are invalid for the consumable %s", price.Units, inputName)
		}
	}

	return operatingCosts, nil
}

// AddSteelPlantCapex sets the capex of every device from its capex label.
func AddSteelPlantCapex(sys *flowsheet.System, prices Prices) error {
	pricesLower, err := prices.lower()
	if err != nil {
		return err
	}

	if sys.HasDevice("h2 storage") {
		if err := addH2StorageCapex(sys, pricesLower); err != nil {
			return err
		}
	}
	if sys.HasDevice("water electrolysis") {
		if err := addElectrolyserCapex(sys, pricesLower); err != nil {
			return err
		}
	}

	for _, deviceName := range sys.DeviceNames() {
		device, err := sys.Device(deviceName)
		if err != nil {
			return err
		}
		capexLabel := strings.ToLower(device.CapexLabel())
		if capexLabel == "" {
			// joins, torches and other devices folded into another capex item
			continue
		}
		if deviceName == "h2 storage" || deviceName == "water electrolysis" {
			// sized above
			continue
		}

		price, ok := pricesLower[capexLabel]
		if !ok {
			return errors.Errorf("no price with label %q for device %s in system %s",
				device.CapexLabel(), deviceName, sys.Name())
		}

		switch price.Units {
		case PerDevice:
			device.SetCapex(price.PriceUSD)
		case PerTonneOfAnnualCapacity:
			device.SetCapex(price.PriceUSD * sys.AnnualCapacity())
		default:
			return errors.Errorf("price units %s are invalid for the capex of device %s", price.Units, deviceName)
		}
	}

	return nil
}

// addH2StorageCapex sizes the hydrogen storage from the overnight production
// of the electrolyser.
func addH2StorageCapex(sys *flowsheet.System, pricesLower Prices) error {
	storageMethod, err := sys.StringVar("h2 storage method")
	if err != nil {
		return err
	}
	hoursOfOperation, err := sys.FloatVar("h2 storage hours of operation")
	if err != nil {
		return err
	}

	storage, err := sys.Device("h2 storage")
	if err != nil {
		return err
	}
	price, ok := pricesLower[strings.ToLower(storage.CapexLabel())]
	if !ok {
		return errors.Errorf("no price with label %q for the h2 storage", storage.CapexLabel())
	}
	if price.Units != PerKilogramOfCapacity {
		return errors.Errorf("price units %s are invalid for h2 storage, want %s", price.Units, PerKilogramOfCapacity)
	}

	electrolyser, err := sys.Device("water electrolysis")
	if err != nil {
		return err
	}
	h2Out, err := electrolyser.FirstOutputContaining("h2")
	if err != nil {
		return err
	}

	massH2PerTonneSteel := h2Out.Mass()
	tonnesSteelPerHour := sys.AnnualCapacity() / (365.25 * 24)
	storageRequiredKg := tonnesSteelPerHour * massH2PerTonneSteel * hoursOfOperation
	storage.DeviceVars()["h2 storage size [kg]"] = storageRequiredKg
	storage.DeviceVars()["h2 storage type"] = storageMethod

	switch strings.ToLower(storageMethod) {
	case "salt caverns":
		// Smaller than a typical salt cavern, the capacity would be shared
		// with other users.
		storage.SetCapex(storageRequiredKg * price.PriceUSD)
	case "compressed gas vessels":
		storage.SetCapex(storageRequiredKg * price.PriceUSD)
		storage.DeviceVars()["num h2 storage vessels"] = int(math.Ceil(storageRequiredKg / 300.0))
	default:
		return errors.Errorf("unknown h2 storage method %q", storageMethod)
	}

	return nil
}

// addElectrolyserCapex sizes the electrolyser from the hydrogen demand and
// the oversizing needed to run on cheap spot hours only.
func addElectrolyserCapex(sys *flowsheet.System, pricesLower Prices) error {
	electrolyser, err := sys.Device("water electrolysis")
	if err != nil {
		return err
	}
	price, ok := pricesLower[strings.ToLower(electrolyser.CapexLabel())]
	if !ok {
		return errors.Errorf("no price with label %q for the electrolyser", electrolyser.CapexLabel())
	}
	if price.Units != PerKiloWattOfCapacity {
		return errors.Errorf("price units %s are invalid for an electrolyser, want %s", price.Units, PerKiloWattOfCapacity)
	}

	effPerc, err := sys.FloatVar("electrolysis lhv efficiency percent")
	if err != nil {
		return err
	}
	hoursOfOperation := sys.FloatVarOr("cheap electricity hours", 24.0)

	h2Out, err := electrolyser.FirstOutputContaining("h2")
	if err != nil {
		return err
	}

	const h2LHVkWhPerKg = 33.33
	kilowattsPerKgH2 := h2LHVkWhPerKg / (effPerc * 0.01)
	tonnesSteelPerHour := sys.AnnualCapacity() / (365.25 * 24)
	capacityForConstantOperationKW := kilowattsPerKgH2 * h2Out.Mass() * tonnesSteelPerHour
	oversizeFactor := 24.0 / hoursOfOperation
	electrolyser.SetCapex(capacityForConstantOperationKW * oversizeFactor * price.PriceUSD)

	return nil
}

func systemCapex(sys *flowsheet.System) float64 {
	total := 0.0
	for _, deviceName := range sys.DeviceNames() {
		if device, err := sys.Device(deviceName); err == nil {
			total += device.Capex()
		}
	}

	return total
}

// capexDirectAndIndirect adds contingency and construction costs to the
// purchase cost.
func capexDirectAndIndirect(capexPurchaseCost float64) float64 {
	const contingencyCoeff = 0.1
	const constructionCoeff = 0.09
	direct := (1 + contingencyCoeff) * capexPurchaseCost

	return direct + constructionCoeff*direct
}

// costRecoveryFactor annualises the capex over the plant lifetime at a
// constant real discount rate.
func costRecoveryFactor(years float64) float64 {
	const nominalDiscountRate = 0.07
	const inflationRate = 0.025
	realDiscountRate := (1+nominalDiscountRate)/(1+inflationRate) - 1
	compounded := math.Pow(1+realDiscountRate, years)

	return realDiscountRate * compounded / (compounded - 1)
}

func lcopCapexOnly(capex, annualFixedOpex, annualProduction, lifetimeYears float64) float64 {
	return (costRecoveryFactor(lifetimeYears)*capexDirectAndIndirect(capex) + annualFixedOpex) / annualProduction
}

func (p Prices) has(name string) bool {
	_, ok := p[name]

	return ok
}
