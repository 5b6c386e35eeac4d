// Package config loads the run configuration and builds the standard set of
// analysed steel plants.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/massenergy"
	"github.com/yvonnelund/steeltea/pkg/plants"
)

// RunConfig is the per-system variable overrides loaded from the yaml run
// configuration. The "all" section applies to every system, a section named
// after a system applies to that system only. Section and variable names are
// lower cased.
type RunConfig map[string]map[string]any

// Load reads the run configuration from a yaml file. An empty path returns
// an empty configuration.
func Load(path string) (RunConfig, error) {
	if path == "" {
		return RunConfig{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "unable to load the run configuration")
	}

	cfg := RunConfig{}
	for section, settings := range v.AllSettings() {
		vars, ok := settings.(map[string]any)
		if !ok {
			return nil, errors.Errorf("unable to load the run configuration: section %q is %T, want a map", section, settings)
		}
		cfg[strings.ToLower(section)] = vars
	}

	return cfg, nil
}

func (c RunConfig) section(name string) map[string]any {
	return c[strings.ToLower(name)]
}

func (c RunConfig) plantOptions(systemName string) plants.Options {
	opts := plants.Options{
		OnPremisesH2Production: false,
		H2StorageMethod:        "salt caverns",
		AnnualCapacityTonnes:   1.5e6,
		PlantLifetimeYears:     20.0,
	}

	lookup := func(name string) (any, bool) {
		if v, ok := c.section(systemName)[name]; ok {
			return v, true
		}
		v, ok := c.section("all")[name]

		return v, ok
	}

	if v, ok := lookup("on premises h2 production"); ok {
		if b, ok := v.(bool); ok {
			opts.OnPremisesH2Production = b
		}
	}
	if v, ok := lookup("h2 storage type"); ok {
		if s, ok := v.(string); ok {
			opts.H2StorageMethod = s
		}
	}
	if v, ok := lookup("annual steel production tonnes"); ok {
		if f, ok := toFloat(v); ok {
			opts.AnnualCapacityTonnes = f
		}
	}
	if v, ok := lookup("plant lifetime years"); ok {
		if f, ok := toFloat(v); ok {
			opts.PlantLifetimeYears = f
		}
	}

	return opts
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0.0, false
	}
}

// BuildStandardSystems creates the nine analysed plants with their reference
// steering variables and applies the configuration overrides.
func BuildStandardSystems(cfg RunConfig, log *zap.SugaredLogger) ([]*flowsheet.System, error) {
	type plantSpec struct {
		name           string
		build          func(name string, opts plants.Options) (*flowsheet.System, error)
		solver         flowsheet.SolveFunc
		bof            bool
		plasmaH2Excess float64
		argonMolarPerc float64
	}

	hybrid := func(prereductionPerc float64) func(string, plants.Options) (*flowsheet.System, error) {
		return func(name string, opts plants.Options) (*flowsheet.System, error) {
			return plants.NewHybridSystem(name, prereductionPerc, opts)
		}
	}

	// The excess hydrogen ratios are initial guesses only, the solver raises
	// them until the heat balance of the smelter closes.
	specs := []plantSpec{
		{name: "Plasma", build: plants.NewPlasmaSystem, solver: massenergy.PlasmaSolver(log), plasmaH2Excess: 2.5},
		{name: "Plasma Ar-H2", build: plants.NewPlasmaSystem, solver: massenergy.PlasmaSolver(log), plasmaH2Excess: 1.0, argonMolarPerc: 10.0},
		{name: "Plasma BOF", build: plants.NewPlasmaSystem, solver: massenergy.PlasmaSolver(log), bof: true, plasmaH2Excess: 2.5},
		{name: "DRI-EAF", build: plants.NewDRIEAFSystem, solver: massenergy.DRIEAFSolver(log)},
		{name: "Hybrid 33", build: hybrid(33.33), solver: massenergy.HybridSolver(log), plasmaH2Excess: 4.0},
		{name: "Hybrid 33 Ar-H2", build: hybrid(33.33), solver: massenergy.HybridSolver(log), plasmaH2Excess: 3.5, argonMolarPerc: 10.0},
		{name: "Hybrid 33 BOF", build: hybrid(33.33), solver: massenergy.HybridSolver(log), bof: true, plasmaH2Excess: 4.0},
		{name: "Hybrid 55", build: hybrid(55.0), solver: massenergy.HybridSolver(log), plasmaH2Excess: 5.5},
		{name: "Hybrid 90", build: hybrid(90.0), solver: massenergy.HybridSolver(log), plasmaH2Excess: 30.0},
	}

	systems := make([]*flowsheet.System, 0, len(specs))
	for _, spec := range specs {
		opts := cfg.plantOptions(spec.name)
		opts.BOFSteelmaking = spec.bof

		sys, err := spec.build(spec.name, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to build system %s", spec.name)
		}
		sys.SetSolveFunc(spec.solver)

		// Reference case steering variables.
		sys.SetVar("scrap perc", 0.0)
		sys.SetVar("ore name", "IOC")
		sys.SetVar("report slag composition", true)
		sys.SetVar("use mgo slag weight perc", true)
		sys.SetVar("capacity factor", 1.0)
		if spec.plasmaH2Excess > 0 {
			sys.SetVar("plasma h2 excess ratio", spec.plasmaH2Excess)
		}
		if spec.argonMolarPerc > 0 {
			sys.SetVar("argon molar percent in h2 plasma", spec.argonMolarPerc)
		}

		for name, value := range cfg.section("all") {
			sys.SetVar(name, value)
		}
		for name, value := range cfg.section(spec.name) {
			sys.SetVar(name, value)
		}

		systems = append(systems, sys)
	}

	return systems, nil
}
