package massenergy

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
)

// ironToHematiteRatio is the mass fraction of iron in pure hematite,
// 2 M(Fe) / M(Fe2O3).
const ironToHematiteRatio = 0.6994255054537529

var (
	ErrNotHematiteOre = errors.New("ore iron content does not match a hematite, goethite or limonite ore")
	ErrOreOutOfRange  = errors.New("ore iron content is outside the supported range")
	ErrBadOreCSV      = errors.New("malformed ore composition csv")
	ErrCompositionSum = errors.New("ore composition does not sum to 100%")
)

// OreComposition maps species names to their weight percent of dry ore.
// Derived entries "gangue" and "hematite" are filled in by
// addOreComposition.
type OreComposition map[string]float64

func (c OreComposition) clone() OreComposition {
	clone := make(OreComposition, len(c))
	for k, v := range c {
		clone[k] = v
	}

	return clone
}

func (c OreComposition) sum() float64 {
	total := 0.0
	for _, v := range c {
		total += v
	}

	return total
}

// namedOreComposition returns the full composition of one of the built in
// ore grades. Weight percents of dry ore, the remainder being the oxygen of
// the iron oxide.
func namedOreComposition(oreName string) (OreComposition, bool) {
	switch strings.ToUpper(oreName) {
	case "IOA":
		return OreComposition{
			"Fe": 66.31, "TiO2": 0.15, "Al2O3": 2.5, "SiO2": 2.5,
			"CaO": 0.0, "MgO": 0.0, "S": 0.01, "P2O5": 0.03,
		}, true
	case "IOB":
		return OreComposition{
			"Fe": 65.47, "NiO": 0.04, "TiO2": 1.07, "V2O5": 0.68,
			"Al2O3": 0.3, "SiO2": 1.94, "MgO": 2.17, "CaO": 0.12,
			"S": 0.06, "P2O5": 0.02,
		}, true
	case "IOC":
		return OreComposition{
			"Fe": 58.42, "Al2O3": 2.57, "SiO2": 5.97, "MgO": 0.0,
			"CaO": 0.0, "S": 0.03, "P2O5": 0.19, "Mn": 0.51, "LOI": 7.2,
		}, true
	case "IOD":
		return OreComposition{
			"Fe": 56.71, "Al2O3": 3.28, "SiO2": 6.56, "MgO": 0.0,
			"CaO": 0.0, "S": 0.03, "P2O5": 0.14, "Mn": 0.72, "LOI": 8.2,
		}, true
	case "IOE":
		return OreComposition{
			"Fe": 56.41, "Al2O3": 3.01, "SiO2": 6.71, "MgO": 0.0,
			"CaO": 0.04, "S": 0.04, "P2O5": 0.06, "Mn": 0.40, "LOI": 8.8,
		}, true
	default:
		return nil, false
	}
}

func defaultOreComposition() OreComposition {
	return OreComposition{
		"Fe": 65.263, "SiO2": 3.814, "Al2O3": 2.437, "TiO2": 0.095,
		"Mn": 0.148, "CaO": 0.032, "MgO": 0.085, "Na2O": 0.012,
		"K2O": 0.011, "P": 0.109, "S": 0.024,
	}
}

// hematiteNormalise adjusts the Fe% so that all the iron sits in hematite,
// which the reduction calculation assumes.
func hematiteNormalise(comp OreComposition) (OreComposition, error) {
	hematitePerc := 100.0 - comp["gangue"] - comp["LOI"]
	ironPerc := hematitePerc * ironToHematiteRatio
	if math.Abs(comp["Fe"]-ironPerc) > 1.0 {
		return nil, errors.Wrapf(ErrNotHematiteOre, "Fe %.3f%% vs %.3f%% expected", comp["Fe"], ironPerc)
	}
	comp["Fe"] = ironPerc

	return comp, nil
}

// feContentToHematite builds a full composition from just the Fe and LOI
// percent, filling the gangue with the template's impurity ratios.
func feContentToHematite(fePerc, loiPerc float64, template OreComposition) (OreComposition, error) {
	gangueInOre := 100.0 - fePerc/ironToHematiteRatio - loiPerc
	gangueInTemplate := template.sum() - template["Fe"] - template["LOI"] - template["gangue"]

	comp := OreComposition{"Fe": fePerc, "LOI": loiPerc}
	for k, v := range template {
		if _, ok := comp[k]; !ok {
			comp[k] = v * gangueInOre / gangueInTemplate
		}
	}

	maxFePerc := ironToHematiteRatio * (100.0 - comp["LOI"])
	if comp["Fe"] > maxFePerc {
		return nil, errors.Wrapf(ErrOreOutOfRange, "Fe %.3f%% exceeds the hematite maximum %.3f%%", comp["Fe"], maxFePerc)
	}

	return comp, nil
}

// readOreCompositionFromCSV reads an ore composition of the form
//
//	species,weight perc
//	Fe,64.3
//	SiO2,3.8
//
// A file with just Fe and LOI rows uses the template's impurity ratios for
// the gangue.
func readOreCompositionFromCSV(filename string, template OreComposition) (OreComposition, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read ore composition from %s", filename)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read ore composition from %s", filename)
	}
	if len(rows) < 2 {
		return nil, errors.Wrap(ErrBadOreCSV, filename)
	}

	fileContents := make(OreComposition)
	for _, row := range rows[1:] {
		if len(row) != 2 {
			return nil, errors.Wrap(ErrBadOreCSV, filename)
		}
		perc, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrBadOreCSV, "%s: %v", filename, err)
		}
		fileContents[strings.TrimSpace(row[0])] = perc
	}

	var comp OreComposition
	_, hasFe := fileContents["Fe"]
	_, hasLOI := fileContents["LOI"]
	switch {
	case len(fileContents) == 2 && hasFe && hasLOI:
		comp, err = feContentToHematite(fileContents["Fe"], fileContents["LOI"], template)
		if err != nil {
			return nil, err
		}
	case len(fileContents) > 4 && hasFe && hasKeys(fileContents, "SiO2", "CaO", "MgO", "Al2O3"):
		comp = fileContents
	default:
		return nil, errors.Wrap(ErrBadOreCSV, filename)
	}

	maxFePerc := ironToHematiteRatio * (100.0 - comp["LOI"])
	if comp["Fe"] > maxFePerc {
		return nil, errors.Wrapf(ErrOreOutOfRange, "Fe %.3f%% exceeds the hematite maximum %.3f%%", comp["Fe"], maxFePerc)
	}

	return comp, nil
}

func hasKeys(comp OreComposition, keys ...string) bool {
	for _, k := range keys {
		if _, ok := comp[k]; !ok {
			return false
		}
	}

	return true
}

// addOreComposition stores the full and simplified ore compositions in
// the system variables. The simplified composition keeps only the SiO2,
// Al2O3, CaO and MgO impurities, spreading the neglected species over them.
func addOreComposition(sys *flowsheet.System, log *zap.SugaredLogger) error {
	oreName := "default"
	if name, err := sys.StringVar("ore name"); err == nil {
		oreName = name
	}

	complexOre := defaultOreComposition()
	switch {
	case strings.Contains(strings.ToLower(oreName), ".csv"):
		comp, err := readOreCompositionFromCSV(oreName, complexOre)
		if err != nil {
			return err
		}
		complexOre = comp
	case strings.EqualFold(oreName, "fe content"):
		fePerc, err := sys.FloatVar("ore fe content weight perc")
		if err != nil {
			return err
		}
		loiPerc, err := sys.FloatVar("ore loi content weight perc")
		if err != nil {
			return err
		}
		comp, err := feContentToHematite(fePerc, loiPerc, complexOre)
		if err != nil {
			return err
		}
		complexOre = comp
	default:
		if comp, ok := namedOreComposition(oreName); ok {
			complexOre = comp
		} else if !strings.EqualFold(oreName, "default") {
			log.Warnw("ore not recognised, using the default composition", "ore", oreName, "system", sys.Name())
		}
	}

	log.Debugw("ore composition selected", "ore", oreName, "system", sys.Name())

	if complexOre["Fe"] > 70.0 {
		return errors.Wrapf(ErrOreOutOfRange, "Fe %.3f%% is above the maximum for pure hematite", complexOre["Fe"])
	}
	if complexOre["Fe"] < 20.0 {
		return errors.Wrapf(ErrOreOutOfRange, "Fe %.3f%% is too low for iron and steelmaking", complexOre["Fe"])
	}

	complexOre["gangue"] = complexOre.sum() - complexOre["Fe"] - complexOre["LOI"] - complexOre["gangue"]
	complexOre["hematite"] = 100.0 - complexOre["gangue"] - complexOre["LOI"]
	complexOre, err := hematiteNormalise(complexOre)
	if err != nil {
		return err
	}

	neglected := complexOre.sum() - complexOre["gangue"] - complexOre["hematite"] -
		complexOre["Fe"] - complexOre["SiO2"] - complexOre["Al2O3"] -
		complexOre["CaO"] - complexOre["MgO"] - complexOre["LOI"]

	simpleOre := OreComposition{
		"Fe":    complexOre["Fe"],
		"SiO2":  complexOre["SiO2"] + neglected*0.25,
		"Al2O3": complexOre["Al2O3"] + neglected*0.25,
		"CaO":   complexOre["CaO"] + neglected*0.25,
		"MgO":   complexOre["MgO"] + neglected*0.25,
	}
	if loi, ok := complexOre["LOI"]; ok {
		simpleOre["LOI"] = loi
	}
	simpleOre["gangue"] = simpleOre.sum() - simpleOre["Fe"] - complexOre["LOI"]
	simpleOre["hematite"] = 100.0 - simpleOre["gangue"] - complexOre["LOI"]
	simpleOre, err = hematiteNormalise(simpleOre)
	if err != nil {
		return err
	}

	complexNoLOI, err := removeLOIFromComposition(complexOre)
	if err != nil {
		return err
	}
	simpleNoLOI, err := removeLOIFromComposition(simpleOre)
	if err != nil {
		return err
	}

	sys.SetVar("ore composition", complexOre)
	sys.SetVar("ore composition simple", simpleOre)
	sys.SetVar("ore composition LOI removed", complexNoLOI)
	sys.SetVar("ore composition simple LOI removed", simpleNoLOI)

	return nil
}

// removeLOIFromComposition rescales the composition to the dry, calcined ore
// after the loss on ignition species have boiled off.
func removeLOIFromComposition(comp OreComposition) (OreComposition, error) {
	tmp := comp.clone()
	if _, ok := tmp["LOI"]; !ok {
		return tmp, nil
	}
	delete(tmp, "Fe")
	delete(tmp, "gangue")

	totalWithLOI := tmp.sum()
	if math.Abs(totalWithLOI-100.0) > 1e-9 {
		return nil, errors.Wrapf(ErrCompositionSum, "with LOI: %.6f%%", totalWithLOI)
	}
	delete(tmp, "LOI")
	totalWithoutLOI := tmp.sum()

	rescaled := make(OreComposition, len(tmp)+2)
	for k, v := range tmp {
		rescaled[k] = v / totalWithoutLOI * totalWithLOI
	}
	if math.Abs(rescaled.sum()-100.0) > 1e-9 {
		return nil, errors.Wrapf(ErrCompositionSum, "LOI removed: %.6f%%", rescaled.sum())
	}

	rescaled["gangue"] = 100.0 - rescaled["hematite"]
	rescaled["Fe"] = rescaled["hematite"] * ironToHematiteRatio

	return hematiteNormalise(rescaled)
}

func compositionVar(sys *flowsheet.System, name string) (OreComposition, error) {
	v, ok := sys.Var(name)
	if !ok {
		return nil, errors.Wrap(flowsheet.ErrVarNotFound, name)
	}
	comp, ok := v.(OreComposition)
	if !ok {
		return nil, errors.Wrapf(flowsheet.ErrVarWrongType, "%s is %T, want OreComposition", name, v)
	}

	return comp, nil
}

// ironSpeciesFromReductionDegree returns the iron species mix at the given
// reduction degree, assuming the iron in the ore starts as pure hematite and
// that hematite fully reduces to magnetite before wustite forms, and
// magnetite fully reduces to wustite before metallic iron forms.
func ironSpeciesFromReductionDegree(reductionDegree, initialOreMass float64, comp OreComposition) (fe, feo, fe3o4, fe2o3 *species.Species, err error) {
	fe2o3 = species.NewFe2O3()
	fe3o4 = species.NewFe3O4()
	feo = species.NewFeO()
	fe = species.NewFe()

	nHematite := initialOreMass * comp["hematite"] * 0.01 / fe2o3.MolarMass()
	nFeTotal := initialOreMass * comp["Fe"] * 0.01 / fe.MolarMass()

	c := &calc{}
	switch {
	case 1.0/3.0 <= reductionDegree && reductionDegree <= 1.0:
		c.setMoles(feo, clampTinyNegative(3*nHematite*(1-reductionDegree)))
		c.setMoles(fe, clampTinyNegative(nFeTotal-feo.Moles()))
	case 1.0/9.0 <= reductionDegree && reductionDegree < 1.0/3.0:
		c.setMoles(fe3o4, clampTinyNegative(3*nHematite*(1-reductionDegree)-nFeTotal))
		c.setMoles(feo, clampTinyNegative(3*nHematite*(1-reductionDegree)-4*fe3o4.Moles()))
	case 0 <= reductionDegree && reductionDegree < 1.0/9.0:
		c.setMoles(fe2o3, clampTinyNegative(9*nHematite*(1-reductionDegree)-4*nFeTotal))
		c.setMoles(fe3o4, clampTinyNegative((3*nHematite*(1-reductionDegree)-3*fe2o3.Moles())/4))
	default:
		return nil, nil, nil, nil, errors.Errorf("reduction degree %g is outside [0, 1]", reductionDegree)
	}
	if c.Err() != nil {
		return nil, nil, nil, nil, errors.Wrap(c.Err(), "unable to compute the iron species from the reduction degree")
	}

	return fe, feo, fe3o4, fe2o3, nil
}
