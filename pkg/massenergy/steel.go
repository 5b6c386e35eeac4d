package massenergy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// addSteelOut sets the liquid steel leaving the steelmaking device. All
// flows are per tonne of liquid steel.
func addSteelOut(sys *flowsheet.System) error {
	const steelTargetMass = 1000.0 // kg

	c := &calc{}
	carbonPerc := c.val(sys.FloatVar("steel carbon perc"))
	scrapPerc := c.val(sys.FloatVar("scrap perc"))
	exitTemp := c.val(sys.FloatVar("steel exit temp K"))
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))

	fe := species.NewFe()
	carbon := species.NewC()
	scrap := species.NewScrap()
	c.setMass(fe, steelTargetMass*(1-carbonPerc*0.01)*(1-scrapPerc*0.01))
	c.setMass(carbon, steelTargetMass*(1-scrapPerc*0.01)*carbonPerc*0.01)
	c.setMass(scrap, steelTargetMass*scrapPerc*0.01)
	scrap.SetName("scrap")
	scrap.SetTemperature(thermo.CelsiusToKelvin(25))

	steel := species.NewMixture("steel", []*species.Species{fe, carbon, scrap})
	steel.SetTemperature(exitTemp)

	steelOut := c.asMixture(sys.GetOutput(steelmakingDeviceName, "steel"))
	c.setFrom(steelOut, steel)
	scrapIn := c.asSpecies(sys.GetInput(steelmakingDeviceName, "scrap"))
	scrapIn.SetFrom(scrap)

	return errors.Wrap(c.Err(), "unable to add the steel output")
}

// addSlagAndFluxMass iteratively solves the ore, slag and flux masses that
// yield a tonne of steel at the target basicities and FeO solubility.
func addSlagAndFluxMass(sys *flowsheet.System) error {
	c := &calc{}
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))
	b2Basicity := c.val(sys.FloatVar("b2 basicity"))
	b4Basicity := c.val(sys.FloatVar("b4 basicity"))
	mgoInSlagPerc := c.val(sys.FloatVar("slag mgo weight perc"))
	exitTemp := c.val(sys.FloatVar("steel exit temp K"))
	maxFeOInSlagPerc := c.val(sys.FloatVar("feo soluble in slag percent"))
	useMgOSlagWeightPerc := sys.BoolVarOr("use mgo slag weight perc", false)

	comp, err := compositionVar(sys, "ore composition simple LOI removed")
	if err != nil {
		return errors.Wrap(err, "unable to add the slag and flux mass")
	}

	finalReductionDegree := 0.0
	if sys.HasVar("plasma reduction percent") {
		finalReductionDegree = c.val(sys.FloatVar("plasma reduction percent")) * 0.01
	} else {
		finalReductionDegree = c.val(sys.FloatVar("fluidized beds reduction percent")) * 0.01
	}
	o2InjectionMoles := c.val(sys.FloatVar("o2 injection kg")) / species.NewO2().MolarMass()

	feoSlag := species.NewFeO()
	sio2Gangue := species.NewSiO2()
	al2o3Gangue := species.NewAl2O3()
	caoGangue := species.NewCaO()
	mgoGangue := species.NewMgO()
	caoFlux := species.NewCaO()
	mgoFlux := species.NewMgO()
	sio2Slag := species.NewSiO2()
	al2o3Slag := species.NewAl2O3()
	caoSlag := species.NewCaO()
	mgoSlag := species.NewMgO()

	steelmakingDevice := c.device(sys, steelmakingDeviceName)
	steelOut := c.asMixture(outputFlow(steelmakingDevice, "steel"))
	fe := c.species(steelOut, "Fe")

	siInSteel, ok := steelOut.Species("Si")
	if !ok {
		siInSteel = species.NewSi()
	}
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the slag and flux mass")
	}

	oreMass := 1666.0 // kg, initial guess
	for i := 0; i < 10; i++ {
		_, feoAfterReduction, _, _, err := ironSpeciesFromReductionDegree(finalReductionDegree, oreMass, comp)
		if err != nil {
			return errors.Wrap(err, "unable to add the slag and flux mass")
		}
		c.setMass(feoSlag, feoAfterReduction.Mass()+feoSlag.MolarMass()*2*o2InjectionMoles)

		c.setMass(sio2Gangue, oreMass*comp["SiO2"]*0.01)
		c.setMass(al2o3Gangue, oreMass*comp["Al2O3"]*0.01)
		c.setMass(caoGangue, oreMass*comp["CaO"]*0.01)
		c.setMass(mgoGangue, oreMass*comp["MgO"]*0.01)
		if c.Err() != nil {
			return errors.Wrap(c.Err(), "unable to add the slag and flux mass")
		}

		if siInSteel.Moles() > sio2Gangue.Moles() {
			return ErrDecreaseSiInHotMetal
		}

		c.setMoles(sio2Slag, sio2Gangue.Moles()-siInSteel.Moles())
		c.setMoles(al2o3Slag, al2o3Gangue.Moles())

		c.setMass(caoFlux, math.Max(b2Basicity*sio2Slag.Mass()-caoGangue.Mass(), 0.0))
		c.setMoles(caoSlag, caoGangue.Moles()+caoFlux.Moles())

		if !useMgOSlagWeightPerc {
			mgoFluxMass := b4Basicity*(al2o3Slag.Mass()+sio2Slag.Mass()) - caoGangue.Mass() - caoFlux.Mass() - mgoGangue.Mass()
			c.setMass(mgoFlux, math.Max(mgoFluxMass, 0.0))
			c.setMoles(mgoSlag, mgoGangue.Moles()+mgoFlux.Moles())
		}

		slagMass := 0.0
		for j := 0; j < 10; j++ {
			if useMgOSlagWeightPerc {
				slagMass = (sio2Slag.Mass() + al2o3Slag.Mass() + caoSlag.Mass() + feoSlag.Mass()) /
					(1.0 - mgoInSlagPerc*0.01)
				c.setMass(mgoSlag, math.Max(slagMass*mgoInSlagPerc*0.01, mgoGangue.Mass()))
				c.setMoles(mgoFlux, mgoSlag.Moles()-mgoGangue.Moles())
			} else {
				slagMass = sio2Slag.Mass() + al2o3Slag.Mass() + caoSlag.Mass() + mgoSlag.Mass() + feoSlag.Mass()
			}

			// FeO saturates in the slag, so another pass with the capped
			// mass may be needed.
			if feoSlag.Mass() > maxFeOInSlagPerc*slagMass*0.01 {
				c.setMass(feoSlag, maxFeOInSlagPerc*slagMass*0.01)
			} else {
				break
			}
		}

		feTotalMass := fe.Mass() + feoSlag.Mass()*fe.MolarMass()/feoSlag.MolarMass()
		oreMass = feTotalMass / (comp["Fe"] * 0.01)
		if c.Err() != nil {
			return errors.Wrap(c.Err(), "unable to add the slag and flux mass")
		}
	}

	flux := species.NewMixture("flux", []*species.Species{caoFlux, mgoFlux})
	flux.SetTemperature(exitTemp)
	fluxIn := c.asMixture(inputFlow(steelmakingDevice, "flux"))
	c.setFrom(fluxIn, flux)

	slag := species.NewMixture("slag", []*species.Species{feoSlag, sio2Slag, al2o3Slag, caoSlag, mgoSlag})
	slag.SetTemperature(exitTemp)
	slagOut := c.asMixture(outputFlow(steelmakingDevice, "slag"))
	c.setFrom(slagOut, slag)

	return errors.Wrap(c.Err(), "unable to add the slag and flux mass")
}

// addEAFFlowsInitial sets the slag and flux requirements of the EAF together
// with the graphite electrode consumption.
func addEAFFlowsInitial(sys *flowsheet.System) error {
	if err := addSlagAndFluxMass(sys); err != nil {
		return err
	}

	c := &calc{}
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))

	electrode := species.NewC()
	c.setMass(electrode, 5.5) // kg / tonne steel, dutta pg 409
	electrode.SetTemperature(thermo.CelsiusToKelvin(1750))

	electrodeIn := c.asSpecies(sys.GetInput(steelmakingDeviceName, "electrode"))
	electrodeIn.SetFrom(electrode)

	return errors.Wrap(c.Err(), "unable to add the initial eaf flows")
}

// addPlasmaFlowsInitial sets the slag and flux requirements of the plasma
// smelter.
func addPlasmaFlowsInitial(sys *flowsheet.System) error {
	return addSlagAndFluxMass(sys)
}

// addOre works the ore requirement back from the slag and steel yield, and
// heats it in the ore heater.
func addOre(sys *flowsheet.System) error {
	c := &calc{}
	oreInitialTemp := thermo.CelsiusToKelvin(25)
	orePreheatingTemp := c.val(sys.FloatVar("ore heater temp K"))
	steelmakingDeviceName := c.str(sys.StringVar("steelmaking device name"))
	oreHeaterDeviceName := c.str(sys.StringVar("ore heater device name"))

	comp, err := compositionVar(sys, "ore composition simple")
	if err != nil {
		return errors.Wrap(err, "unable to add the ore flows")
	}

	steelmakingDevice := c.device(sys, steelmakingDeviceName)
	slagMixture := c.asMixture(outputFlow(steelmakingDevice, "slag"))
	fluxMixture := c.asMixture(inputFlow(steelmakingDevice, "flux"))

	caoGangue := species.NewCaO()
	c.setMass(caoGangue, c.species(slagMixture, "CaO").Mass()-c.species(fluxMixture, "CaO").Mass())
	mgoGangue := species.NewMgO()
	c.setMass(mgoGangue, c.species(slagMixture, "MgO").Mass()-c.species(fluxMixture, "MgO").Mass())
	sio2Gangue := c.species(slagMixture, "SiO2").Clone()
	al2o3Gangue := c.species(slagMixture, "Al2O3").Clone()

	steelOut := c.asMixture(outputFlow(steelmakingDevice, "steel"))
	if siInSteel, ok := steelOut.Species("Si"); ok {
		// silicon that ends up in the hot metal of the BOF systems
		c.setMoles(sio2Gangue, sio2Gangue.Moles()+siInSteel.Moles())
	}

	gangueMass := sio2Gangue.Mass() + al2o3Gangue.Mass() + caoGangue.Mass() + mgoGangue.Mass()
	oreMass := gangueMass / (comp["gangue"] * 0.01)

	fe2o3Ore := species.NewFe2O3()
	c.setMass(fe2o3Ore, oreMass*comp["hematite"]*0.01)
	fe3o4 := species.NewFe3O4()
	feo := species.NewFeO()
	fe := species.NewFe()

	waterLOI := species.NewH2O()
	c.setMass(waterLOI, oreMass*comp["LOI"]*0.01)

	ore := species.NewMixture("ore", []*species.Species{
		fe2o3Ore, fe3o4, feo, fe,
		caoGangue, mgoGangue, sio2Gangue, al2o3Gangue,
		waterLOI,
	})
	ore.SetTemperature(oreInitialTemp)
	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the ore flows")
	}

	oreHeater := c.device(sys, oreHeaterDeviceName)
	oreIn := c.asMixture(inputFlow(oreHeater, "ore"))
	c.setFrom(oreIn, ore)
	ore.SetTemperature(orePreheatingTemp)

	goethiteDehydrationTemp := thermo.CelsiusToKelvin(375)
	if orePreheatingTemp <= goethiteDehydrationTemp {
		return errors.Errorf("ore heater temp %.2fK is too low to boil off the loss on ignition", orePreheatingTemp)
	}
	waterLOI.SetTemperature(goethiteDehydrationTemp)
	h2oOut := c.asSpecies(outputFlow(oreHeater, "h2o"))
	h2oOut.SetFrom(waterLOI)
	ore.RemoveSpecies("H2O")

	oreOut := c.asMixture(outputFlow(oreHeater, "ore"))
	c.setFrom(oreOut, ore)

	// Electrical heating, no thermal losses beyond the conversion
	// efficiency.
	const electricalHeatEff = 0.98
	balance := c.val(oreHeater.EnergyBalance())
	electricity := c.asEnergy(inputFlow(oreHeater, "base electricity"))
	electricity.SetEnergy(balance / electricalHeatEff)
	losses := c.asEnergy(outputFlow(oreHeater, "losses"))
	losses.SetEnergy(electricity.EnergyValue() * (1 - electricalHeatEff))

	return errors.Wrap(c.Err(), "unable to add the ore flows")
}
