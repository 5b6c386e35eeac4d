package sensitivity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yvonnelund/steeltea/pkg/costs"
	"github.com/yvonnelund/steeltea/pkg/flowsheet"
)

func TestParameterTypeValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Price.Validate())
	assert.NoError(t, SystemVar.Validate())
	assert.NoError(t, BoolSystemVar.Validate())
	assert.ErrorIs(t, ParameterType("Tarot").Validate(), ErrUnknownParameterType)
}

func TestLoadCases(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cases.yaml")
	contents := `
- system_name: ALL
  parameter_name: Electrolyser
  parameter_type: Price
  x_min: 1500.0
  x_max: 500.0
- system_name: Plasma
  parameter_name: plasma temp K
  parameter_type: SystemVar
  x_min: 2500.0
  x_max: 3000.0
  num_increments: 5
  elasticity_perc_change: 2.0
`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cases, err := LoadCases(path)
	assert.NoError(t, err)
	assert.Len(t, cases, 2)

	// Swapped bounds are put back in order, defaults are filled in.
	assert.Equal(t, 500.0, cases[0].XMin)
	assert.Equal(t, 1500.0, cases[0].XMax)
	assert.Equal(t, 11, cases[0].NumIncrements)
	assert.Equal(t, 3.0, cases[0].ElasticityPercChange)

	assert.Equal(t, 5, cases[1].NumIncrements)
	assert.Equal(t, 2.0, cases[1].ElasticityPercChange)
}

func TestLoadCasesRejectsUnknownType(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cases.yaml")
	contents := "- {system_name: ALL, parameter_name: Ore, parameter_type: Tarot}\n"
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	_, err := LoadCases(path)
	assert.ErrorIs(t, err, ErrUnknownParameterType)
}

func TestLinspace(t *testing.T) {
	t.Parallel()

	vals := linspace(0.0, 10.0, 5)
	assert.Equal(t, []float64{0.0, 2.5, 5.0, 7.5, 10.0}, vals)

	assert.Equal(t, []float64{3.0}, linspace(3.0, 7.0, 1))
}

func TestMinMaxIndex(t *testing.T) {
	t.Parallel()

	idx, err := MinMaxIndex([]float64{100.0, 150.0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, idx, 1e-12)

	_, err = MinMaxIndex([]float64{100.0})
	assert.Error(t, err)
}

func TestElasticityIndex(t *testing.T) {
	t.Parallel()

	// A 1:1 proportional response has unit elasticity.
	idx, err := ElasticityIndex([]float64{90.0, 110.0}, []float64{90.0, 110.0})
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, idx, 1e-12)

	// A flat response has zero elasticity.
	idx, err = ElasticityIndex([]float64{90.0, 110.0}, []float64{100.0, 100.0})
	assert.NoError(t, err)
	assert.Zero(t, idx)

	_, err = ElasticityIndex([]float64{90.0}, []float64{100.0, 100.0})
	assert.Error(t, err)
}

func TestCaseIndicators(t *testing.T) {
	t.Parallel()

	sys := flowsheet.NewSystem("Plasma", 1.5e6, 20.0)
	sys.SetVar("plasma temp K", 2750.0)
	sys.SetVar("on premises h2 production", true)
	sys.SetLCOPBreakdown(map[string]float64{"capex": 400.0})
	prices := costs.Prices{
		"Electrolyser": {Name: "Electrolyser", PriceUSD: 1000.0, Units: costs.PerKiloWattOfCapacity},
	}

	tcs := map[string]struct {
		c        Case
		wantNil  bool
		wantName string
		wantBase float64
		wantVals int
		wantErr  bool
	}{
		"other system": {
			c:       Case{SystemName: "DRI-EAF", ParameterName: "plasma temp K", ParameterType: SystemVar},
			wantNil: true,
		},
		"price spider": {
			c: Case{
				SystemName: "ALL", ParameterName: "Electrolyser", ParameterType: Price,
				XMin: 500.0, XMax: 1500.0, NumIncrements: 11,
			},
			wantName: "SpiderPlot",
			wantBase: 1000.0,
			wantVals: 11,
		},
		"missing price": {
			c:       Case{SystemName: "ALL", ParameterName: "Moon Dust", ParameterType: Price},
			wantErr: true,
		},
		"system var spider": {
			c: Case{
				SystemName: "Plasma", ParameterName: "plasma temp K", ParameterType: SystemVar,
				XMin: 2500.0, XMax: 3000.0, NumIncrements: 5,
			},
			wantName: "SpiderPlot",
			wantBase: 2750.0,
			wantVals: 5,
		},
		"absent system var": {
			c:       Case{SystemName: "Plasma", ParameterName: "warp factor", ParameterType: SystemVar},
			wantNil: true,
		},
		"bool flip": {
			c:        Case{SystemName: "ALL", ParameterName: "on premises h2 production", ParameterType: BoolSystemVar},
			wantName: "BooleanMinMax",
			wantBase: 1.0,
			wantVals: 2,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			indicators, err := tc.c.indicators(sys, prices)
			if tc.wantErr {
				assert.Error(t, err)

				return
			}
			assert.NoError(t, err)
			if tc.wantNil {
				assert.Nil(t, indicators)

				return
			}
			assert.Len(t, indicators, 1)
			ind := indicators[0]
			assert.Equal(t, tc.wantName, ind.Name)
			assert.Equal(t, "Plasma", ind.SystemName)
			assert.Equal(t, tc.wantBase, ind.BaseParameterVal)
			assert.Len(t, ind.ParameterVals, tc.wantVals)
			assert.Equal(t, 400.0, ind.BaseResultVal)
		})
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	indicators := []*Indicator{
		{
			Name:             "SpiderPlot",
			SystemName:       "Plasma BOF",
			ParameterName:    "Electrolyser",
			ParameterType:    Price,
			BaseParameterVal: 1000.0,
			BaseResultVal:    400.0,
			ParameterVals:    []float64{500.0, 1500.0},
			ResultVals:       []float64{380.0, 420.0},
		},
		{
			Name:          "SpiderPlot",
			SystemName:    "Plasma BOF",
			ParameterName: "plasma temp K",
			ParameterType: SystemVar,
			Failed:        true,
			FailureMsg:    "did not converge",
		},
	}

	path, err := WriteReport(dir, "Plasma BOF", indicators)
	assert.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "Plasma_BOF.csv"), path)

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "parameter_name")
	assert.Contains(t, string(raw), "Electrolyser")
	assert.Contains(t, string(raw), "FAILED")
}
