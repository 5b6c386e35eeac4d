// Package plants builds the flowsheets of the analysed steel plants: the
// plasma smelting reduction plant, the DRI-EAF plant and the hybrid plant
// combining fluidized bed prereduction with a plasma smelter. The flowsheets
// start empty; the mass and energy flow calculation fills them in.
package plants

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// Options configures a plant before its flowsheet is built.
type Options struct {
	// OnPremisesH2Production adds a water electrolyser to the plant. When
	// false the plant buys hydrogen.
	OnPremisesH2Production bool

	// H2StorageMethod is "salt caverns" or "compressed gas vessels". Empty
	// means no storage: the electrolyser runs around the clock.
	H2StorageMethod string

	// AnnualCapacityTonnes is in tonnes of liquid steel per year.
	AnnualCapacityTonnes float64

	PlantLifetimeYears float64

	// BOFSteelmaking finishes the high carbon melt in a basic oxygen
	// furnace instead of tapping steel directly.
	BOFSteelmaking bool
}

// DefaultOptions returns the base case plant configuration.
func DefaultOptions() Options {
	return Options{
		OnPremisesH2Production: true,
		H2StorageMethod:        "salt caverns",
		AnnualCapacityTonnes:   1.5e6,
		PlantLifetimeYears:     20.0,
	}
}

// wiring accumulates flowsheet construction errors so the plant builders
// read as straight line wiring.
type wiring struct {
	sys *flowsheet.System
	err error
}

func (w *wiring) device(name, capexLabel string) {
	if w.err != nil {
		return
	}
	w.err = w.sys.AddDevice(flowsheet.NewDevice(name, capexLabel))
}

func (w *wiring) flow(from, to string, f flowsheet.Flow) {
	if w.err != nil {
		return
	}
	w.err = w.sys.AddFlow(from, to, f)
}

func (w *wiring) input(to string, f flowsheet.Flow) {
	if w.err != nil {
		return
	}
	w.err = w.sys.AddInput(to, f)
}

func (w *wiring) output(from string, f flowsheet.Flow) {
	if w.err != nil {
		return
	}
	w.err = w.sys.AddOutput(from, f)
}

// NewPlasmaSystem builds the plasma smelting reduction plant: ore is heated
// and fed directly to a hydrogen plasma smelter.
func NewPlasmaSystem(name string, opts Options) (*flowsheet.System, error) {
	sys := flowsheet.NewSystem(name, opts.AnnualCapacityTonnes, opts.PlantLifetimeYears)
	w := &wiring{sys: sys}

	if opts.OnPremisesH2Production {
		w.device("water electrolysis", "electrolyser")
		if opts.H2StorageMethod != "" {
			w.device("h2 storage", opts.H2StorageMethod)
		}
	}
	w.device("h2 heat exchanger", "gas heat exchanger")
	w.device("condenser and scrubber", "condenser and scrubber")
	w.device("ore heater", "ore heater")
	w.device("plasma torch", "")
	w.device("plasma smelter", "plasma smelter")
	w.device("join 1", "")
	if opts.BOFSteelmaking {
		w.device("bof", "bof")
	}
	if w.err != nil {
		return nil, errors.Wrapf(w.err, "unable to build plasma system %s", name)
	}

	vars := sys.SystemVars()
	vars["annual fixed opex USD"] = 3.5e6
	vars["on premises h2 production"] = opts.OnPremisesH2Production
	vars["bof steelmaking"] = opts.BOFSteelmaking
	vars["cheap electricity hours"] = 8.0
	vars["h2 storage hours of operation"] = 24.0 - 8.0
	vars["feo soluble in slag percent"] = 27.0
	vars["plasma temp K"] = 2750.0
	vars["argon molar percent in h2 plasma"] = 0.0
	vars["plasma reduction percent"] = 95.0
	vars["plasma h2 excess ratio"] = 1.5
	vars["o2 injection kg"] = 0.0
	vars["plasma torch electro-thermal eff percent"] = 80.0 // MacRae1992
	vars["plasma energy to melt eff percent"] = 65.0        // badr2007, fig 21
	vars["steel exit temp K"] = thermo.CelsiusToKelvin(1600)
	vars["steelmaking bath temp K"] = thermo.CelsiusToKelvin(1600)
	vars["b2 basicity"] = 2.0
	vars["b4 basicity"] = 1.8
	vars["slag mgo weight perc"] = 7.0
	vars["ore heater device name"] = "ore heater"
	vars["ore heater temp K"] = thermo.CelsiusToKelvin(1450)
	vars["ironmaking device names"] = []string{"plasma smelter"}
	vars["electrolysis lhv efficiency percent"] = 70.0
	vars["hydrogen loops"] = [][]string{{"plasma smelter"}}
	vars["h2 consuming device names"] = []string{"plasma smelter"}
	vars["scrap perc"] = 0.0
	vars["steel carbon perc"] = 1.0
	vars["max heat exchanger temp K"] = thermo.CelsiusToKelvin(1400)
	vars["max heat exchanger eff perc"] = 75.0
	if opts.H2StorageMethod != "" {
		vars["h2 storage method"] = opts.H2StorageMethod
	}
	if opts.BOFSteelmaking {
		addBOFSystemVars(vars, "plasma smelter", "bof")
	} else {
		vars["steelmaking device name"] = "plasma smelter"
	}
	if err := addH2PlasmaComposition(sys); err != nil {
		return nil, errors.Wrapf(err, "unable to build plasma system %s", name)
	}

	if opts.OnPremisesH2Production {
		addElectrolysisFlows(w, opts)
	}

	// condenser
	w.output("condenser and scrubber", species.NewDummySpecies("H2O"))
	w.output("condenser and scrubber", flowsheet.NewEnergyFlow("losses", 0))
	w.output("condenser and scrubber", species.NewDummyMixture("carbon gas"))
	w.flow("h2 heat exchanger", "condenser and scrubber", species.NewDummyMixture("recycled h2 rich gas"))

	// join
	w.flow("condenser and scrubber", "join 1", species.NewDummyMixture("recycled h2 rich gas"))
	switch {
	case opts.OnPremisesH2Production && opts.H2StorageMethod != "":
		w.flow("h2 storage", "join 1", species.NewDummySpecies("h2 rich gas"))
	case opts.OnPremisesH2Production:
		w.flow("water electrolysis", "join 1", species.NewDummySpecies("h2 rich gas"))
	default:
		w.input("join 1", species.NewDummyMixture("h2 rich gas"))
		vars["input h2 device name"] = "join 1"
	}

	// heat exchanger
	w.flow("join 1", "h2 heat exchanger", species.NewDummyMixture("h2 rich gas"))
	w.flow("plasma smelter", "h2 heat exchanger", species.NewDummyMixture("recycled h2 rich gas"))
	w.output("h2 heat exchanger", flowsheet.NewEnergyFlow("losses", 0))

	addOreHeaterFlows(w)

	// plasma torch
	w.flow("h2 heat exchanger", "plasma torch", species.NewDummyMixture("h2 rich gas"))
	w.input("plasma torch", flowsheet.NewEnergyFlow("base electricity", 0))
	w.output("plasma torch", flowsheet.NewEnergyFlow("losses", 0))

	// plasma smelter
	w.flow("ore heater", "plasma smelter", species.NewDummyMixture("ore"))
	w.flow("plasma torch", "plasma smelter", species.NewDummyMixture("plasma h2 rich gas"))
	w.output("plasma smelter", flowsheet.NewEnergyFlow("losses", 0))
	w.input("plasma smelter", flowsheet.NewEnergyFlow("chemical", 0))
	w.input("plasma smelter", species.NewDummySpecies("carbon"))
	w.input("plasma smelter", species.NewDummyMixture("flux"))
	w.input("plasma smelter", species.NewDummySpecies("O2"))
	w.input("plasma smelter", species.NewDummySpecies("scrap"))
	w.output("plasma smelter", species.NewDummyMixture("slag"))
	if opts.BOFSteelmaking {
		addBOFFlows(w, "plasma smelter", "bof")
	} else {
		w.output("plasma smelter", species.NewDummyMixture("steel"))
	}

	if w.err != nil {
		return nil, errors.Wrapf(w.err, "unable to build plasma system %s", name)
	}

	return sys, nil
}

// NewDRIEAFSystem builds the direct reduction plant: ore is reduced with
// hydrogen in fluidized beds, briquetted, and melted in an electric arc
// furnace.
func NewDRIEAFSystem(name string, opts Options) (*flowsheet.System, error) {
	sys := flowsheet.NewSystem(name, opts.AnnualCapacityTonnes, opts.PlantLifetimeYears)
	w := &wiring{sys: sys}

	if opts.OnPremisesH2Production {
		w.device("water electrolysis", "electrolyser")
		if opts.H2StorageMethod != "" {
			w.device("h2 storage", opts.H2StorageMethod)
		}
	}
	w.device("h2 heat exchanger", "gas heat exchanger")
	w.device("join 1", "")
	w.device("h2 heater 2", "")
	w.device("condenser and scrubber", "condenser and scrubber")
	w.device("ore heater", "ore heater")
	w.device("fluidized bed 1", "fluidized bed")
	w.device("briquetting", "briquetting")
	w.device("eaf", "eaf")
	if w.err != nil {
		return nil, errors.Wrapf(w.err, "unable to build dri-eaf system %s", name)
	}

	vars := sys.SystemVars()
	vars["annual fixed opex USD"] = 3.5e6
	vars["on premises h2 production"] = opts.OnPremisesH2Production
	vars["cheap electricity hours"] = 8.0
	vars["h2 storage hours of operation"] = 24.0 - 8.0
	vars["fluidized beds reduction percent"] = 94.0
	vars["fluidized beds temp range"] = 200.0
	vars["steelmaking device name"] = "eaf"
	vars["feo soluble in slag percent"] = 27.0
	vars["steel exit temp K"] = thermo.CelsiusToKelvin(1600)
	vars["b2 basicity"] = 2.0
	vars["b4 basicity"] = 1.8
	vars["slag mgo weight perc"] = 7.0
	vars["ore heater device name"] = "ore heater"
	vars["ore heater temp K"] = thermo.CelsiusToKelvin(800)
	vars["ironmaking device names"] = []string{"fluidized bed 1"}
	vars["fluidized beds h2 excess ratio"] = 3.84
	vars["o2 injection kg"] = 10.0
	vars["electrolysis lhv efficiency percent"] = 70.0
	vars["hydrogen loops"] = [][]string{{"fluidized bed 1"}}
	vars["h2 consuming device names"] = []string{"fluidized bed 1"}
	vars["scrap perc"] = 0.0
	vars["steel carbon perc"] = 1.0
	vars["max heat exchanger temp K"] = thermo.CelsiusToKelvin(1400)
	vars["max heat exchanger eff perc"] = 75.0
	if opts.H2StorageMethod != "" {
		vars["h2 storage method"] = opts.H2StorageMethod
	}

	if opts.OnPremisesH2Production {
		addElectrolysisFlows(w, opts)
	}

	// condenser
	w.output("condenser and scrubber", species.NewDummySpecies("H2O"))
	w.output("condenser and scrubber", flowsheet.NewEnergyFlow("losses", 0))
	w.flow("h2 heat exchanger", "condenser and scrubber", species.NewDummyMixture("recycled h2 rich gas"))

	// join
	w.flow("condenser and scrubber", "join 1", species.NewDummyMixture("recycled h2 rich gas"))
	switch {
	case opts.OnPremisesH2Production && opts.H2StorageMethod != "":
		w.flow("h2 storage", "join 1", species.NewDummySpecies("h2 rich gas"))
	case opts.OnPremisesH2Production:
		w.flow("water electrolysis", "join 1", species.NewDummySpecies("h2 rich gas"))
	default:
		w.input("join 1", species.NewDummyMixture("h2 rich gas"))
		vars["input h2 device name"] = "join 1"
	}

	// heat exchanger
	w.flow("join 1", "h2 heat exchanger", species.NewDummyMixture("h2 rich gas"))
	w.flow("fluidized bed 1", "h2 heat exchanger", species.NewDummyMixture("recycled h2 rich gas"))
	w.output("h2 heat exchanger", flowsheet.NewEnergyFlow("losses", 0))

	addOreHeaterFlows(w)

	// fluidized bed 1
	w.flow("ore heater", "fluidized bed 1", species.NewDummyMixture("ore"))
	w.flow("h2 heater 2", "fluidized bed 1", species.NewDummyMixture("h2 rich gas"))
	w.input("fluidized bed 1", flowsheet.NewEnergyFlow("chemical", 0))
	w.output("fluidized bed 1", flowsheet.NewEnergyFlow("losses", 0))

	// heater 2
	w.flow("h2 heat exchanger", "h2 heater 2", species.NewDummyMixture("h2 rich gas"))
	w.input("h2 heater 2", flowsheet.NewEnergyFlow("base electricity", 0))
	w.output("h2 heater 2", flowsheet.NewEnergyFlow("losses", 0))

	// briquetting
	w.flow("fluidized bed 1", "briquetting", species.NewDummyMixture("dri"))

	// eaf
	w.flow("briquetting", "eaf", species.NewDummyMixture("hbi"))
	w.input("eaf", flowsheet.NewEnergyFlow("base electricity", 0))
	w.output("eaf", flowsheet.NewEnergyFlow("losses", 0))
	w.input("eaf", species.NewDummySpecies("electrode"))
	w.input("eaf", flowsheet.NewEnergyFlow("chemical", 0))
	w.input("eaf", species.NewDummySpecies("carbon"))
	w.input("eaf", species.NewDummyMixture("flux"))
	w.input("eaf", species.NewDummySpecies("O2"))
	w.input("eaf", species.NewDummyMixture("infiltrated air"))
	w.input("eaf", species.NewDummySpecies("scrap"))
	w.output("eaf", species.NewDummyMixture("infiltrated air"))
	w.output("eaf", species.NewDummyMixture("carbon gas"))
	w.output("eaf", species.NewDummyMixture("slag"))
	w.output("eaf", species.NewDummyMixture("steel"))

	if w.err != nil {
		return nil, errors.Wrapf(w.err, "unable to build dri-eaf system %s", name)
	}

	return sys, nil
}

// NewHybridSystem builds the hybrid plant: fluidized beds prereduce the ore
// to the given percentage and a plasma smelter finishes the reduction.
func NewHybridSystem(name string, prereductionPerc float64, opts Options) (*flowsheet.System, error) {
	sys := flowsheet.NewSystem(name, opts.AnnualCapacityTonnes, opts.PlantLifetimeYears)
	w := &wiring{sys: sys}

	if opts.OnPremisesH2Production {
		w.device("water electrolysis", "electrolyser")
		if opts.H2StorageMethod != "" {
			w.device("h2 storage", opts.H2StorageMethod)
		}
	}
	w.device("h2 heat exchanger 1", "gas heat exchanger")
	w.device("h2 heat exchanger 2", "gas heat exchanger")
	w.device("condenser and scrubber 1", "condenser and scrubber")
	w.device("condenser and scrubber 2", "condenser and scrubber")
	w.device("ore heater", "ore heater")
	w.device("h2 heater 2", "gas heater")
	w.device("fluidized bed 1", "fluidized bed")
	w.device("briquetting", "")
	w.device("plasma torch", "")
	w.device("plasma smelter", "plasma smelter")
	w.device("join 1", "")
	w.device("join 2", "")
	w.device("join 3", "")
	if opts.BOFSteelmaking {
		w.device("bof", "bof")
	}
	if w.err != nil {
		return nil, errors.Wrapf(w.err, "unable to build hybrid system %s", name)
	}

	vars := sys.SystemVars()
	vars["annual fixed opex USD"] = 3.5e6
	vars["on premises h2 production"] = opts.OnPremisesH2Production
	vars["bof steelmaking"] = opts.BOFSteelmaking
	vars["cheap electricity hours"] = 8.0
	vars["h2 storage hours of operation"] = 24.0 - 8.0
	vars["fluidized beds reduction percent"] = prereductionPerc
	vars["fluidized beds temp range"] = 200.0
	vars["feo soluble in slag percent"] = 27.0
	vars["plasma temp K"] = 2750.0
	vars["plasma reduction percent"] = 95.0
	vars["plasma torch electro-thermal eff percent"] = 80.0 // MacRae1992
	vars["plasma energy to melt eff percent"] = 65.0        // badr2007, fig 21
	vars["steel exit temp K"] = thermo.CelsiusToKelvin(1600)
	vars["o2 injection kg"] = 0.0
	vars["plasma h2 excess ratio"] = 1.5
	vars["steelmaking bath temp K"] = thermo.CelsiusToKelvin(1600)
	vars["b2 basicity"] = 2.0
	vars["b4 basicity"] = 1.8
	vars["slag mgo weight perc"] = 7.0
	vars["ore heater device name"] = "ore heater"
	vars["ore heater temp K"] = thermo.CelsiusToKelvin(800)
	vars["ironmaking device names"] = []string{"fluidized bed 1"}
	vars["fluidized beds h2 excess ratio"] = 3.84
	vars["electrolysis lhv efficiency percent"] = 70.0
	vars["hydrogen loops"] = [][]string{{"fluidized bed 1"}, {"plasma smelter"}}
	vars["h2 consuming device names"] = []string{"fluidized bed 1", "plasma smelter"}
	vars["scrap perc"] = 0.0
	vars["steel carbon perc"] = 1.0
	vars["max heat exchanger temp K"] = thermo.CelsiusToKelvin(1400)
	vars["max heat exchanger eff perc"] = 75.0
	if opts.H2StorageMethod != "" {
		vars["h2 storage method"] = opts.H2StorageMethod
	}
	if opts.BOFSteelmaking {
		addBOFSystemVars(vars, "plasma smelter", "bof")
	} else {
		vars["steelmaking device name"] = "plasma smelter"
	}
	if err := addH2PlasmaComposition(sys); err != nil {
		return nil, errors.Wrapf(err, "unable to build hybrid system %s", name)
	}

	if opts.OnPremisesH2Production {
		addElectrolysisFlows(w, opts)
	}

	// join 3 splits the fresh hydrogen between the two loops
	switch {
	case opts.OnPremisesH2Production && opts.H2StorageMethod != "":
		w.flow("h2 storage", "join 3", species.NewDummySpecies("h2 rich gas"))
	case opts.OnPremisesH2Production:
		w.flow("water electrolysis", "join 3", species.NewDummySpecies("h2 rich gas"))
	default:
		w.input("join 3", species.NewDummyMixture("h2 rich gas"))
		vars["input h2 device name"] = "join 3"
	}

	// join 2
	w.flow("condenser and scrubber 2", "join 2", species.NewDummyMixture("recycled h2 rich gas"))
	w.flow("join 3", "join 2", species.NewDummyMixture("h2 rich gas 2"))

	// join 1
	w.flow("condenser and scrubber 1", "join 1", species.NewDummyMixture("recycled h2 rich gas"))
	w.flow("join 3", "join 1", species.NewDummyMixture("h2 rich gas 1"))

	// condenser 2
	w.output("condenser and scrubber 2", species.NewDummySpecies("H2O"))
	w.output("condenser and scrubber 2", flowsheet.NewEnergyFlow("losses", 0))
	w.output("condenser and scrubber 2", species.NewDummyMixture("carbon gas"))
	w.flow("h2 heat exchanger 2", "condenser and scrubber 2", species.NewDummyMixture("recycled h2 rich gas"))

	// condenser 1
	w.output("condenser and scrubber 1", species.NewDummySpecies("H2O"))
	w.output("condenser and scrubber 1", flowsheet.NewEnergyFlow("losses", 0))
	w.output("condenser and scrubber 1", species.NewDummyMixture("carbon gas"))
	w.flow("h2 heat exchanger 1", "condenser and scrubber 1", species.NewDummyMixture("recycled h2 rich gas"))

	// heat exchanger 2
	w.flow("join 2", "h2 heat exchanger 2", species.NewDummyMixture("h2 rich gas"))
	w.flow("plasma smelter", "h2 heat exchanger 2", species.NewDummyMixture("recycled h2 rich gas"))
	w.output("h2 heat exchanger 2", flowsheet.NewEnergyFlow("losses", 0))

	// heat exchanger 1
	w.flow("join 1", "h2 heat exchanger 1", species.NewDummyMixture("h2 rich gas"))
	w.flow("fluidized bed 1", "h2 heat exchanger 1", species.NewDummyMixture("recycled h2 rich gas"))
	w.output("h2 heat exchanger 1", flowsheet.NewEnergyFlow("losses", 0))

	addOreHeaterFlows(w)

	// fluidized bed 1
	w.flow("ore heater", "fluidized bed 1", species.NewDummyMixture("ore"))
	w.flow("h2 heater 2", "fluidized bed 1", species.NewDummyMixture("h2 rich gas"))
	w.input("fluidized bed 1", flowsheet.NewEnergyFlow("chemical", 0))
	w.output("fluidized bed 1", flowsheet.NewEnergyFlow("losses", 0))

	// heater 2
	w.flow("h2 heat exchanger 1", "h2 heater 2", species.NewDummyMixture("h2 rich gas"))
	w.input("h2 heater 2", flowsheet.NewEnergyFlow("base electricity", 0))
	w.output("h2 heater 2", flowsheet.NewEnergyFlow("losses", 0))

	// briquetting
	w.flow("fluidized bed 1", "briquetting", species.NewDummyMixture("dri"))

	// plasma torch
	w.flow("h2 heat exchanger 2", "plasma torch", species.NewDummyMixture("h2 rich gas"))
	w.input("plasma torch", flowsheet.NewEnergyFlow("base electricity", 0))
	w.output("plasma torch", flowsheet.NewEnergyFlow("losses", 0))

	// plasma smelter
	w.flow("briquetting", "plasma smelter", species.NewDummyMixture("hbi"))
	w.flow("plasma torch", "plasma smelter", species.NewDummyMixture("plasma h2 rich gas"))
	w.input("plasma smelter", flowsheet.NewEnergyFlow("chemical", 0))
	w.output("plasma smelter", flowsheet.NewEnergyFlow("losses", 0))
	w.input("plasma smelter", species.NewDummySpecies("carbon"))
	w.input("plasma smelter", species.NewDummyMixture("flux"))
	w.input("plasma smelter", species.NewDummySpecies("O2"))
	w.input("plasma smelter", species.NewDummySpecies("scrap"))
	w.output("plasma smelter", species.NewDummyMixture("slag"))
	if opts.BOFSteelmaking {
		addBOFFlows(w, "plasma smelter", "bof")
	} else {
		w.output("plasma smelter", species.NewDummyMixture("steel"))
	}

	if w.err != nil {
		return nil, errors.Wrapf(w.err, "unable to build hybrid system %s", name)
	}

	return sys, nil
}

func addElectrolysisFlows(w *wiring, opts Options) {
	w.input("water electrolysis", species.NewDummySpecies("H2O"))
	w.output("water electrolysis", species.NewDummySpecies("O2"))
	electricityType := "base electricity"
	if opts.H2StorageMethod != "" {
		electricityType = "cheap electricity"
	}
	w.input("water electrolysis", flowsheet.NewEnergyFlow(electricityType, 0))
	w.output("water electrolysis", flowsheet.NewEnergyFlow("losses", 0))
	w.output("water electrolysis", flowsheet.NewEnergyFlow("chemical", 0))

	if opts.H2StorageMethod != "" {
		w.flow("water electrolysis", "h2 storage", species.NewDummySpecies("h2 rich gas"))
		w.input("h2 storage", flowsheet.NewEnergyFlow("cheap electricity", 0))
		w.output("h2 storage", flowsheet.NewEnergyFlow("losses", 0))
	}
}

func addOreHeaterFlows(w *wiring) {
	w.input("ore heater", species.NewDummyMixture("ore"))
	w.input("ore heater", flowsheet.NewEnergyFlow("base electricity", 0))
	w.output("ore heater", flowsheet.NewEnergyFlow("losses", 0))
	w.output("ore heater", species.NewDummySpecies("h2o"))
}

func addBOFSystemVars(vars map[string]any, ironmakingDeviceName, bofName string) {
	vars["feo soluble in slag percent"] = 1.0
	vars["b2 basicity"] = 1.0
	vars["b4 basicity"] = 1.1
	vars["slag mgo weight perc"] = 7.0
	vars["steelmaking device name"] = bofName
	vars["ironmaking device name"] = ironmakingDeviceName
	vars["bof b2 basicity"] = 2.5
	vars["bof b4 basicity"] = 2.5
	vars["bof slag mgo weight perc"] = 7.0
	vars["bof feo in slag perc"] = 12.5 // turkdogan1996 8.2.1a
	vars["bof hot metal Si perc"] = 0.4 // turkdogan1996 8.2
	vars["bof hot metal C perc"] = 2.0
}

func addBOFFlows(w *wiring, smelterName, bofName string) {
	w.flow(smelterName, bofName, species.NewDummyMixture("steel"))
	w.output(bofName, flowsheet.NewEnergyFlow("losses", 0))
	w.input(bofName, flowsheet.NewEnergyFlow("chemical", 0))
	w.input(bofName, species.NewDummyMixture("flux"))
	w.input(bofName, species.NewDummySpecies("O2"))
	w.input(bofName, species.NewDummySpecies("scrap"))
	w.output(bofName, species.NewDummyMixture("slag"))
	w.output(bofName, species.NewDummyMixture("steel"))
	w.output(bofName, species.NewDummyMixture("carbon gas"))
}

// addH2PlasmaComposition computes the H2 / H split of the plasma at the
// torch temperature and stores it for the smelter calculation.
func addH2PlasmaComposition(sys *flowsheet.System) error {
	plasmaTempKelvin, err := sys.FloatVar("plasma temp K")
	if err != nil {
		return errors.Wrap(err, "unable to add the plasma composition")
	}

	h2Fraction, hFraction, err := species.EquilibriumH2HFractions(plasmaTempKelvin)
	if err != nil {
		return errors.Wrap(err, "unable to add the plasma composition")
	}

	sys.SetVar("plasma h2 fraction (excl. Ar and H2O)", h2Fraction)
	sys.SetVar("plasma h fraction (excl. Ar and H2O)", hFraction)

	return nil
}
