package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yvonnelund/steeltea/pkg/costs"
	"github.com/yvonnelund/steeltea/pkg/massenergy"
)

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
all:
  on premises h2 production: true
  annual steel production tonnes: 2.0e6

plasma ar-h2:
  argon molar percent in h2 plasma: 15.0
`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, cfg, 2)
	assert.Equal(t, true, cfg.section("all")["on premises h2 production"])
	assert.Equal(t, 15.0, cfg.section("Plasma Ar-H2")["argon molar percent in h2 plasma"])
}

func TestPlantOptionsDefaults(t *testing.T) {
	t.Parallel()

	opts := RunConfig{}.plantOptions("Plasma")
	assert.False(t, opts.OnPremisesH2Production)
	assert.Equal(t, "salt caverns", opts.H2StorageMethod)
	assert.Equal(t, 1.5e6, opts.AnnualCapacityTonnes)
	assert.Equal(t, 20.0, opts.PlantLifetimeYears)
}

func TestPlantOptionsOverrides(t *testing.T) {
	t.Parallel()

	cfg := RunConfig{
		"all": {
			"on premises h2 production": true,
			"plant lifetime years":      25.0,
		},
		"plasma": {
			"h2 storage type": "compressed gas vessels",
		},
	}

	// The per-system section wins over the "all" section.
	opts := cfg.plantOptions("Plasma")
	assert.True(t, opts.OnPremisesH2Production)
	assert.Equal(t, "compressed gas vessels", opts.H2StorageMethod)
	assert.Equal(t, 25.0, opts.PlantLifetimeYears)

	opts = cfg.plantOptions("DRI-EAF")
	assert.Equal(t, "salt caverns", opts.H2StorageMethod)
}

func TestBuildStandardSystems(t *testing.T) {
	t.Parallel()

	systems, err := BuildStandardSystems(RunConfig{}, zap.NewNop().Sugar())
	assert.NoError(t, err)
	assert.Len(t, systems, 9)

	names := make([]string, 0, len(systems))
	for _, sys := range systems {
		names = append(names, sys.Name())

		assert.NotNil(t, sys.SolveFunc(), "system %s has no solver", sys.Name())

		oreName, err := sys.StringVar("ore name")
		assert.NoError(t, err)
		assert.Equal(t, "IOC", oreName)
		assert.Equal(t, 1.0, sys.FloatVarOr("capacity factor", 0.0))
	}
	assert.Equal(t, []string{
		"Plasma", "Plasma Ar-H2", "Plasma BOF", "DRI-EAF",
		"Hybrid 33", "Hybrid 33 Ar-H2", "Hybrid 33 BOF", "Hybrid 55", "Hybrid 90",
	}, names)
}

func TestBuildStandardSystemsReferenceVars(t *testing.T) {
	t.Parallel()

	systems, err := BuildStandardSystems(RunConfig{}, zap.NewNop().Sugar())
	assert.NoError(t, err)

	bySystem := make(map[string]int, len(systems))
	for i, sys := range systems {
		bySystem[sys.Name()] = i
	}

	argon, err := systems[bySystem["Plasma Ar-H2"]].FloatVar("argon molar percent in h2 plasma")
	assert.NoError(t, err)
	assert.Equal(t, 10.0, argon)

	excess, err := systems[bySystem["Hybrid 90"]].FloatVar("plasma h2 excess ratio")
	assert.NoError(t, err)
	assert.Equal(t, 30.0, excess)

	assert.True(t, systems[bySystem["Plasma BOF"]].HasDevice("bof"))
	assert.False(t, systems[bySystem["Plasma"]].HasDevice("bof"))
	assert.True(t, systems[bySystem["DRI-EAF"]].HasDevice("eaf"))

	prereduction, err := systems[bySystem["Hybrid 55"]].FloatVar("fluidized beds reduction percent")
	assert.NoError(t, err)
	assert.Equal(t, 55.0, prereduction)
}

func TestSolveAndPriceStandardSystems(t *testing.T) {
	t.Parallel()

	prices, err := costs.LoadPrices(filepath.Join("..", "..", "prices.yaml"))
	assert.NoError(t, err)

	systems, err := BuildStandardSystems(RunConfig{}, zap.NewNop().Sugar())
	assert.NoError(t, err)

	for _, sys := range systems {
		sys := sys
		t.Run(sys.Name(), func(t *testing.T) {
			t.Parallel()

			log := zap.NewNop().Sugar()
			assert.NoError(t, massenergy.Solve(sys, log))

			// A solved system closes every device balance.
			assert.NoError(t, sys.ValidateEnergyBalance(1e-4))
			assert.NoError(t, sys.ValidateMassBalance(1e-4))

			assert.NoError(t, costs.AddSteelPlantLCOP(sys, prices.Clone(), log))

			breakdown := sys.LCOPBreakdown()
			assert.NotEmpty(t, breakdown)
			total := 0.0
			for _, item := range breakdown {
				total += item
			}
			assert.InDelta(t, total, sys.LCOP(), 1e-9)
			assert.Greater(t, sys.LCOP(), 300.0)
			assert.Less(t, sys.LCOP(), 1500.0)
		})
	}
}

func TestBuildStandardSystemsAppliesConfig(t *testing.T) {
	t.Parallel()

	cfg := RunConfig{
		"all":     {"scrap perc": 5.0},
		"dri-eaf": {"fluidized beds h2 excess ratio": 1.4},
	}

	systems, err := BuildStandardSystems(cfg, zap.NewNop().Sugar())
	assert.NoError(t, err)

	for _, sys := range systems {
		scrap, err := sys.FloatVar("scrap perc")
		assert.NoError(t, err)
		assert.Equal(t, 5.0, scrap)

		if sys.Name() == "DRI-EAF" {
			ratio, err := sys.FloatVar("fluidized beds h2 excess ratio")
			assert.NoError(t, err)
			assert.Equal(t, 1.4, ratio)
		}
	}
}
