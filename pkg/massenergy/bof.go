package massenergy

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// addBOFFlows blows the high carbon hot metal from the smelter down to
// finished steel in a basic oxygen furnace. Runs before the rest of the
// plant calculation, so the smelter can target the hot metal composition.
func addBOFFlows(sys *flowsheet.System) error {
	c := &calc{}
	initialCPerc := c.val(sys.FloatVar("bof hot metal C perc"))
	initialSiPerc := c.val(sys.FloatVar("bof hot metal Si perc"))
	feoInSlagPerc := c.val(sys.FloatVar("bof feo in slag perc"))
	b2Basicity := c.val(sys.FloatVar("bof b2 basicity"))
	b4Basicity := c.val(sys.FloatVar("bof b4 basicity"))
	mgoInSlagPerc := c.val(sys.FloatVar("bof slag mgo weight perc"))
	useMgOSlagWeightPerc := sys.BoolVarOr("use mgo slag weight perc", false)

	bof := c.device(sys, c.str(sys.StringVar("steelmaking device name")))
	steel := c.asMixture(outputFlow(bof, "steel"))
	hotMetal := steel.Clone()
	hotMetalTemp := c.val(hotMetal.Temperature())

	// Simplification: the C and Si masses are fractions of the final steel
	// mass rather than of the hot metal mass.
	c.setMass(c.species(hotMetal, "C"), initialCPerc*0.01*hotMetal.Mass())
	siHotMetal := species.NewSi()
	c.setMass(siHotMetal, initialSiPerc*0.01*hotMetal.Mass())
	siHotMetal.SetTemperature(hotMetalTemp)
	c.mergeSpecies(hotMetal, siHotMetal)

	sio2Slag := species.NewSiO2()
	c.setMoles(sio2Slag, siHotMetal.Moles())
	sio2Slag.SetTemperature(hotMetalTemp)

	caoFlux := species.NewCaO()
	c.setMoles(caoFlux, b2Basicity*sio2Slag.Moles())
	caoSlag := species.NewCaO()
	c.setMoles(caoSlag, caoFlux.Moles())

	mgoSlag := species.NewMgO()
	var totalSlagMass float64
	if useMgOSlagWeightPerc {
		totalSlagMass = (caoSlag.Mass() + sio2Slag.Mass()) / (1 - (feoInSlagPerc+mgoInSlagPerc)*0.01)
		c.setMass(mgoSlag, mgoInSlagPerc*0.01*totalSlagMass)
	} else {
		c.setMoles(mgoSlag, b4Basicity*sio2Slag.Moles())
		totalSlagMass = (caoSlag.Mass() + sio2Slag.Mass()) / (1 - feoInSlagPerc*0.01)
	}
	mgoFlux := species.NewMgO()
	c.setMoles(mgoFlux, mgoSlag.Moles())

	caoFlux.SetTemperature(thermo.CelsiusToKelvin(25))
	mgoFlux.SetTemperature(thermo.CelsiusToKelvin(25))
	caoSlag.SetTemperature(hotMetalTemp)
	mgoSlag.SetTemperature(hotMetalTemp)

	feoSlag := species.NewFeO()
	c.setMass(feoSlag, feoInSlagPerc*0.01*totalSlagMass)
	feoSlag.SetTemperature(hotMetalTemp)

	// The iron lost to the slag comes out of the hot metal.
	fe := c.species(hotMetal, "Fe")
	c.setMoles(fe, fe.Moles()+feoSlag.Moles())

	flux := species.NewMixture("flux", []*species.Species{caoFlux, mgoFlux})
	flux.SetTemperature(thermo.CelsiusToKelvin(25))
	c.setFrom(c.asMixture(inputFlow(bof, "flux")), flux)

	slag := species.NewMixture("slag", []*species.Species{sio2Slag, caoSlag, mgoSlag, feoSlag})
	slag.SetTemperature(hotMetalTemp)
	c.setFrom(c.asMixture(outputFlow(bof, "slag")), slag)

	// Decarburisation is assumed to produce pure CO.
	coEmitted := species.NewCO()
	c.setMoles(coEmitted, c.species(hotMetal, "C").Moles()-c.species(steel, "C").Moles())
	coEmitted.SetTemperature(hotMetalTemp - 200.0)
	carbonGas := species.NewMixture("carbon gas", []*species.Species{coEmitted})
	carbonGas.SetTemperature(hotMetalTemp - 200.0)
	c.setFrom(c.asMixture(outputFlow(bof, "carbon gas")), carbonGas)

	o2Injected := species.NewO2()
	c.setMoles(o2Injected, 0.5*coEmitted.Moles()+0.5*feoSlag.Moles()+sio2Slag.Moles())
	o2Injected.SetTemperature(thermo.CelsiusToKelvin(25))
	c.asSpecies(inputFlow(bof, "O2")).SetFrom(o2Injected)

	c.setFrom(c.asMixture(inputFlow(bof, "steel")), hotMetal)

	reactionTemp := hotMetalTemp
	chemicalEnergy := -c.val(species.EnthalpyCCombustionToCO(reactionTemp))*coEmitted.Moles()*0.5 -
		c.val(species.EnthalpyFeOxidation(reactionTemp))*feoSlag.Moles()*0.5 -
		c.val(species.EnthalpySiOxidation(reactionTemp))*sio2Slag.Moles()
	c.asEnergy(inputFlow(bof, "chemical")).SetEnergy(chemicalEnergy)

	if c.Err() != nil {
		return errors.Wrap(c.Err(), "unable to add the bof flows")
	}
	if c.val(bof.EnergyBalance()) > 0 {
		// The oxidation reactions must carry the heating of the flux and
		// scrap on their own.
		return ErrIncreaseCInHotMetal
	}

	c.asEnergy(outputFlow(bof, "losses")).SetEnergy(-c.val(bof.EnergyBalance()))

	return errors.Wrap(c.Err(), "unable to add the bof flows")
}
