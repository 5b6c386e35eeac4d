package costs

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
)

func TestPriceUnitsValidate(t *testing.T) {
	t.Parallel()

	for _, u := range []PriceUnits{
		PerKilogram, PerTonne, PerMegaWattHour, PerDevice,
		PerTonneOfAnnualCapacity, PerTonneOfProduct,
		PerKilogramOfCapacity, PerKiloWattOfCapacity,
	} {
		assert.NoError(t, u.Validate())
	}
	assert.ErrorIs(t, PriceUnits("PerFurlong").Validate(), ErrUnknownPriceUnits)
}

func TestLoadPrices(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.yaml")
	contents := `
- {name: Ore, price_usd: 110.0, units: PerTonne}
- {name: H2, price_usd: 4.5, units: PerKilogram}
`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	prices, err := LoadPrices(path)
	assert.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, 110.0, prices["Ore"].PriceUSD)
	assert.Equal(t, PerKilogram, prices["H2"].Units)

	clone := prices.Clone()
	clone["Ore"] = PriceEntry{Name: "Ore", PriceUSD: 99.0, Units: PerTonne}
	assert.Equal(t, 110.0, prices["Ore"].PriceUSD)
}

func TestLoadPricesRejectsUnknownUnits(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.yaml")
	contents := "- {name: Ore, price_usd: 110.0, units: PerFurlong}\n"
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	_, err := LoadPrices(path)
	assert.ErrorIs(t, err, ErrUnknownPriceUnits)
}

func TestPricesLowerClash(t *testing.T) {
	t.Parallel()

	p := Prices{
		"Ore": {Name: "Ore", PriceUSD: 110.0, Units: PerTonne},
		"ORE": {Name: "ORE", PriceUSD: 120.0, Units: PerTonne},
	}
	_, err := p.lower()
	assert.Error(t, err)
}

func TestCostRecoveryFactor(t *testing.T) {
	t.Parallel()

	// 7% nominal, 2.5% inflation over 20 years.
	assert.InDelta(t, 0.07615, costRecoveryFactor(20.0), 1e-4)

	// The factor always exceeds straight line depreciation and approaches
	// the real discount rate for very long lifetimes.
	realRate := 1.07/1.025 - 1
	assert.Greater(t, costRecoveryFactor(20.0), 1.0/20.0)
	assert.InDelta(t, realRate, costRecoveryFactor(1000.0), 1e-6)
}

func TestCapexDirectAndIndirect(t *testing.T) {
	t.Parallel()

	// 10% contingency on the purchase cost, 9% construction on the direct.
	assert.InDelta(t, 119.9, capexDirectAndIndirect(100.0), 1e-9)
	assert.Zero(t, capexDirectAndIndirect(0.0))
}

func TestLCOPCapexOnly(t *testing.T) {
	t.Parallel()

	capex := 500.0e6
	annualFixedOpex := 3.5e6
	annualProduction := 1.5e6
	want := (costRecoveryFactor(20.0)*capexDirectAndIndirect(capex) + annualFixedOpex) / annualProduction
	assert.InDelta(t, want, lcopCapexOnly(capex, annualFixedOpex, annualProduction, 20.0), 1e-9)
}

func testPrices() Prices {
	return Prices{
		"Ore":                        {Name: "Ore", PriceUSD: 110.0, Units: PerTonne},
		"H2":                         {Name: "H2", PriceUSD: 4.5, Units: PerKilogram},
		"Labour":                     {Name: "Labour", PriceUSD: 40.0, Units: PerTonneOfProduct},
		"Cheap Spot Electricity":     {Name: "Cheap Spot Electricity", PriceUSD: 31.0, Units: PerMegaWattHour},
		"Expensive Spot Electricity": {Name: "Expensive Spot Electricity", PriceUSD: 93.0, Units: PerMegaWattHour},
	}
}

func TestOperatingCostPerTonne(t *testing.T) {
	t.Parallel()

	inputs := map[string]float64{
		"Ore":                  1600.0, // kg / tonne steel
		"H2":                   50.0,
		"base electricity":     3.6e9, // J, one MWh
		"unpriced slag former": 10.0,
	}

	costs, err := OperatingCostPerTonne(inputs, testPrices(), 8.0, zap.NewNop().Sugar())
	assert.NoError(t, err)

	assert.InDelta(t, 1600.0*110.0/1000.0, costs["ore"], 1e-9)
	assert.InDelta(t, 50.0*4.5, costs["h2"], 1e-9)

	// Base electricity blends the cheap and expensive spot hours.
	wantBasePerMWh := (8.0*31.0 + 16.0*93.0) / 24.0
	assert.InDelta(t, wantBasePerMWh, costs["base electricity"], 1e-9)

	// Labour is charged per tonne of product without a matching input flow.
	assert.InDelta(t, 40.0, costs["labour"], 1e-9)

	// Inputs without a price are skipped with a warning.
	assert.NotContains(t, costs, "unpriced slag former")
}

func TestOperatingCostPerTonneElectricityFallback(t *testing.T) {
	t.Parallel()

	prices := Prices{
		"base electricity": {Name: "base electricity", PriceUSD: 60.0, Units: PerMegaWattHour},
	}
	inputs := map[string]float64{"base electricity": 3.6e9}

	costs, err := OperatingCostPerTonne(inputs, prices, 8.0, zap.NewNop().Sugar())
	assert.NoError(t, err)
	assert.InDelta(t, 60.0, costs["base electricity"], 1e-9)

	// No electricity price at all is an error.
	_, err = OperatingCostPerTonne(inputs, Prices{}, 8.0, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func buildCapexTestSystem(t *testing.T) *flowsheet.System {
	t.Helper()

	sys := flowsheet.NewSystem("test", 1.5e6, 20.0)
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("water electrolysis", "electrolyser")))
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("h2 storage", "salt caverns")))
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("eaf", "eaf")))
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("join 1", "")))

	h2 := species.NewH2()
	h2.SetName("h2 rich gas")
	assert.NoError(t, h2.SetMass(50.0))
	assert.NoError(t, sys.AddFlow("water electrolysis", "h2 storage", h2))

	sys.SetVar("h2 storage method", "salt caverns")
	sys.SetVar("h2 storage hours of operation", 16.0)
	sys.SetVar("electrolysis lhv efficiency percent", 70.0)
	sys.SetVar("cheap electricity hours", 8.0)

	return sys
}

func TestAddSteelPlantCapex(t *testing.T) {
	t.Parallel()

	sys := buildCapexTestSystem(t)
	prices := Prices{
		"Electrolyser": {Name: "Electrolyser", PriceUSD: 1000.0, Units: PerKiloWattOfCapacity},
		"Salt Caverns": {Name: "Salt Caverns", PriceUSD: 2.08, Units: PerKilogramOfCapacity},
		"EAF":          {Name: "EAF", PriceUSD: 184.0, Units: PerTonneOfAnnualCapacity},
	}

	assert.NoError(t, AddSteelPlantCapex(sys, prices))

	eaf, err := sys.Device("eaf")
	assert.NoError(t, err)
	assert.InDelta(t, 184.0*1.5e6, eaf.Capex(), 1e-6)

	tonnesSteelPerHour := 1.5e6 / (365.25 * 24)

	storage, err := sys.Device("h2 storage")
	assert.NoError(t, err)
	wantStorageKg := tonnesSteelPerHour * 50.0 * 16.0
	assert.InDelta(t, wantStorageKg*2.08, storage.Capex(), 1e-6)
	assert.InDelta(t, wantStorageKg, storage.DeviceVars()["h2 storage size [kg]"].(float64), 1e-9)

	electrolyser, err := sys.Device("water electrolysis")
	assert.NoError(t, err)
	wantKW := 33.33 / 0.7 * 50.0 * tonnesSteelPerHour
	assert.InDelta(t, wantKW*3.0*1000.0, electrolyser.Capex(), 1e-3)

	join, err := sys.Device("join 1")
	assert.NoError(t, err)
	assert.Zero(t, join.Capex())

	assert.InDelta(t, eaf.Capex()+storage.Capex()+electrolyser.Capex(), systemCapex(sys), 1e-6)
}

func TestAddSteelPlantCapexMissingPrice(t *testing.T) {
	t.Parallel()

	sys := flowsheet.NewSystem("test", 1.5e6, 20.0)
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("eaf", "eaf")))

	err := AddSteelPlantCapex(sys, Prices{})
	assert.Error(t, err)

	// Consumable units make no sense for a device capex.
	err = AddSteelPlantCapex(sys, Prices{"EAF": {Name: "EAF", PriceUSD: 184.0, Units: PerKilogram}})
	assert.Error(t, err)
}

func TestCO2ePerTonneSteel(t *testing.T) {
	t.Parallel()

	sys := flowsheet.NewSystem("test", 1.5e6, 20.0)
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("eaf", "eaf")))

	co := species.NewCO()
	assert.NoError(t, co.SetMass(10.0))
	co.SetTemperature(298.15)
	co2 := species.NewCO2()
	assert.NoError(t, co2.SetMass(20.0))
	co2.SetTemperature(298.15)
	carbonGas := species.NewMixture("carbon gas", []*species.Species{co, co2})
	assert.NoError(t, sys.AddOutput("eaf", carbonGas))

	co2e, err := CO2ePerTonneSteel(sys)
	assert.NoError(t, err)
	assert.InDelta(t, 20.0+10.0*1.9, co2e, 1e-9)
}

func TestBreakevenCO2ePrice(t *testing.T) {
	t.Parallel()

	sys := flowsheet.NewSystem("test", 1.5e6, 20.0)

	// Without an lcop the breakeven price is undefined.
	_, err := BreakevenCO2ePrice(sys)
	assert.Error(t, err)

	sys.SetLCOPBreakdown(map[string]float64{"capex": 300.0, "ore": 239.0})

	breakeven, err := BreakevenCO2ePrice(sys)
	assert.NoError(t, err)

	// 100 USD above BF-BOF with zero own emissions against 2 t CO2e.
	assert.InDelta(t, (539.0-439.0)/2.0, breakeven, 1e-9)
}

func TestBreakevenIsConsistentWithEmissions(t *testing.T) {
	t.Parallel()

	sys := flowsheet.NewSystem("test", 1.5e6, 20.0)
	assert.NoError(t, sys.AddDevice(flowsheet.NewDevice("eaf", "eaf")))
	co2 := species.NewCO2()
	assert.NoError(t, co2.SetMass(100.0))
	co2.SetTemperature(298.15)
	carbonGas := species.NewMixture("carbon gas", []*species.Species{co2})
	assert.NoError(t, sys.AddOutput("eaf", carbonGas))
	sys.SetLCOPBreakdown(map[string]float64{"capex": 539.0})

	breakeven, err := BreakevenCO2ePrice(sys)
	assert.NoError(t, err)
	assert.InDelta(t, 100.0/(2000.0-100.0)*1e3, breakeven, 1e-9)
	assert.True(t, math.IsInf(breakeven, 0) == false)
}
