// Package massenergy fills in the mass and energy flows of a steel plant
// flowsheet. The calculation walks the devices from the steel exit backwards
// to the raw material inputs, then forwards again through the hydrogen
// recycle loop, iterating on the steering variables until every device
// closes its mass and energy balance.
package massenergy

import (
	"maps"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
)

// Recoverable convergence failures. The solver catches these, nudges the
// responsible steering variable and starts over from a pristine flowsheet.
var (
	ErrIncreaseExcessHydrogenPlasma        = errors.New("not enough excess hydrogen in the plasma smelter")
	ErrIncreaseExcessHydrogenFluidizedBeds = errors.New("not enough excess hydrogen in the fluidized beds")
	ErrIncreaseCInHotMetal                 = errors.New("not enough carbon in the hot metal")
	ErrDecreaseSiInHotMetal                = errors.New("too much silicon in the hot metal")
	ErrIncreaseInjectedO2                  = errors.New("not enough injected oxygen")
)

const maxSolveIterations = 1000

// Solve runs the system's mass and energy flow routine until it converges,
// then validates the balances. Each attempt starts from a deep copy so a
// failed attempt leaves no partial flows behind.
func Solve(sys *flowsheet.System, log *zap.SugaredLogger) error {
	calculate := sys.SolveFunc()
	if calculate == nil {
		return errors.Errorf("no mass and energy flow routine attached to system %s", sys.Name())
	}

	for i := 0; i < maxSolveIterations; i++ {
		trial, err := sys.Clone()
		if err != nil {
			return errors.Wrapf(err, "unable to solve system %s", sys.Name())
		}

		solveErr := calculate(trial)
		if solveErr == nil {
			maps.Copy(sys.SystemVars(), trial.SystemVars())
			if err := calculate(sys); err != nil {
				return errors.Wrapf(err, "unable to solve system %s", sys.Name())
			}

			const tolerance = 1e-4
			if err := sys.ValidateEnergyBalance(tolerance); err != nil {
				return err
			}
			if err := sys.ValidateMassBalance(tolerance); err != nil {
				return err
			}

			return nil
		}

		if err := adjustSteeringVars(sys, solveErr, log); err != nil {
			return errors.Wrapf(err, "unable to solve system %s", sys.Name())
		}
	}

	return errors.Errorf("unable to solve system %s: max iterations reached", sys.Name())
}

func adjustSteeringVars(sys *flowsheet.System, solveErr error, log *zap.SugaredLogger) error {
	switch {
	case errors.Is(solveErr, ErrIncreaseExcessHydrogenPlasma):
		return scaleVar(sys, "plasma h2 excess ratio", 1.05, log)
	case errors.Is(solveErr, ErrIncreaseExcessHydrogenFluidizedBeds):
		return scaleVar(sys, "fluidized beds h2 excess ratio", 1.05, log)
	case errors.Is(solveErr, ErrIncreaseCInHotMetal):
		return scaleVar(sys, "bof hot metal C perc", 1.05, log)
	case errors.Is(solveErr, ErrDecreaseSiInHotMetal):
		return scaleVar(sys, "bof hot metal Si perc", 0.95, log)
	case errors.Is(solveErr, ErrIncreaseInjectedO2):
		o2, err := sys.FloatVar("o2 injection kg")
		if err != nil {
			return err
		}
		if o2 == 0.0 {
			o2 = 0.1
		} else {
			o2 *= 1.05
		}
		sys.SetVar("o2 injection kg", o2)
		log.Debugw("system did not converge, increasing injected o2",
			"system", sys.Name(), "o2 injection kg", o2)

		return nil
	default:
		return solveErr
	}
}

func scaleVar(sys *flowsheet.System, name string, factor float64, log *zap.SugaredLogger) error {
	v, err := sys.FloatVar(name)
	if err != nil {
		return err
	}
	sys.SetVar(name, v*factor)
	log.Debugw("system did not converge, adjusting steering variable",
		"system", sys.Name(), "var", name, "value", v*factor)

	return nil
}

// PlasmaSolver returns the flow routine of the plasma smelting reduction
// plant.
func PlasmaSolver(log *zap.SugaredLogger) flowsheet.SolveFunc {
	return func(sys *flowsheet.System) error {
		return addPlasmaMassAndEnergy(sys, log)
	}
}

// DRIEAFSolver returns the flow routine of the DRI-EAF plant.
func DRIEAFSolver(log *zap.SugaredLogger) flowsheet.SolveFunc {
	return func(sys *flowsheet.System) error {
		return addDRIEAFMassAndEnergy(sys, log)
	}
}

// HybridSolver returns the flow routine of the hybrid fluidized bed and
// plasma smelter plant.
func HybridSolver(log *zap.SugaredLogger) flowsheet.SolveFunc {
	return func(sys *flowsheet.System) error {
		return addHybridMassAndEnergy(sys, log)
	}
}

// run chains the device level calculations, stopping at the first error.
func run(sys *flowsheet.System, steps ...func(*flowsheet.System) error) error {
	for _, step := range steps {
		if err := step(sys); err != nil {
			return err
		}
	}

	return nil
}

func addPlasmaMassAndEnergy(sys *flowsheet.System, log *zap.SugaredLogger) error {
	bof := sys.BoolVarOr("bof steelmaking", false)

	if err := addOreComposition(sys, log); err != nil {
		return err
	}
	if err := addSteelOut(sys); err != nil {
		return err
	}
	if bof {
		if err := addBOFFlows(sys); err != nil {
			return err
		}
		// The rest of the calculation treats the smelter as the steelmaking
		// device, making hot metal instead of finished steel.
		sys.SetVar("steelmaking device name", "plasma smelter")
	}

	err := run(sys,
		addPlasmaFlowsInitial,
		addOre,
		addPlasmaFlowsFinal,
		addH2SupplyFlows,
		mergeJoin("join 1"),
		heatExchangerInitial("h2 heat exchanger"),
		condenserInitial("condenser and scrubber"),
		mergeJoin("join 1"),
		heatExchangerFinal("h2 heat exchanger"),
		condenserFinal("condenser and scrubber"),
		mergeJoin("join 1"),
		adjustPlasmaTorchElectricity,
	)

	if bof {
		sys.SetVar("steelmaking device name", "bof")
	}

	return err
}

func addDRIEAFMassAndEnergy(sys *flowsheet.System, log *zap.SugaredLogger) error {
	if err := addOreComposition(sys, log); err != nil {
		return err
	}

	return run(sys,
		addSteelOut,
		addEAFFlowsInitial,
		addOre,
		addFluidizedBedFlows,
		addBriquettingFlows,
		addEAFFlowsFinal,
		addH2SupplyFlows,
		mergeJoin("join 1"),
		heatExchangerInitial("h2 heat exchanger"),
		condenserInitial("condenser and scrubber"),
		mergeJoin("join 1"),
		heatExchangerFinal("h2 heat exchanger"),
		condenserFinal("condenser and scrubber"),
		mergeJoin("join 1"),
		addH2HeaterFlows,
	)
}

func addHybridMassAndEnergy(sys *flowsheet.System, log *zap.SugaredLogger) error {
	bof := sys.BoolVarOr("bof steelmaking", false)

	if err := addOreComposition(sys, log); err != nil {
		return err
	}
	if err := addSteelOut(sys); err != nil {
		return err
	}
	if bof {
		if err := addBOFFlows(sys); err != nil {
			return err
		}
		sys.SetVar("steelmaking device name", "plasma smelter")
	}

	err := run(sys,
		addPlasmaFlowsInitial,
		addOre,
		addFluidizedBedFlows,
		addBriquettingFlows,
		addPlasmaFlowsFinal,
		addH2SupplyFlows,
		balanceJoin3Flows,
		mergeJoin("join 1"),
		mergeJoin("join 2"),
		heatExchangerInitial("h2 heat exchanger 1"),
		condenserInitial("condenser and scrubber 1"),
		heatExchangerInitial("h2 heat exchanger 2"),
		condenserInitial("condenser and scrubber 2"),
		mergeJoin("join 1"),
		mergeJoin("join 2"),
		heatExchangerFinal("h2 heat exchanger 1"),
		condenserFinal("condenser and scrubber 1"),
		heatExchangerFinal("h2 heat exchanger 2"),
		condenserFinal("condenser and scrubber 2"),
		mergeJoin("join 1"),
		mergeJoin("join 2"),
		adjustPlasmaTorchElectricity,
		addH2HeaterFlows,
	)

	if bof {
		sys.SetVar("steelmaking device name", "bof")
	}

	return err
}

// addH2SupplyFlows feeds the plant with hydrogen, either from the on site
// electrolyser and its storage or bought over the fence.
func addH2SupplyFlows(sys *flowsheet.System) error {
	if sys.BoolVarOr("on premises h2 production", true) {
		if err := addElectrolysisFlows(sys); err != nil {
			return err
		}

		return addH2StorageFlows(sys)
	}

	return addInputH2Flows(sys)
}
