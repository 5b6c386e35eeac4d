// Package sensitivity perturbs prices and system variables of a solved
// plant, re-solves and reports how the levelised cost of production moves.
package sensitivity

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yvonnelund/steeltea/pkg/costs"
	"github.com/yvonnelund/steeltea/pkg/flowsheet"
)

// ParameterType says where in the model the analysed parameter lives.
type ParameterType string

const (
	// Price perturbs an entry of the price list.
	Price ParameterType = "Price"

	// SystemVar perturbs a numeric system variable.
	SystemVar ParameterType = "SystemVar"

	// BoolSystemVar flips a boolean system variable.
	BoolSystemVar ParameterType = "BoolSystemVar"
)

var ErrUnknownParameterType = errors.New("unknown parameter type")

func (t ParameterType) Validate() error {
	switch t {
	case Price, SystemVar, BoolSystemVar:
		return nil
	default:
		return errors.Wrapf(ErrUnknownParameterType, "%q", string(t))
	}
}

// Case is one parameter to analyse. SystemName selects the plant, or "ALL"
// for every plant.
type Case struct {
	SystemName           string        `yaml:"system_name"`
	ParameterName        string        `yaml:"parameter_name"`
	ParameterType        ParameterType `yaml:"parameter_type"`
	XMin                 float64       `yaml:"x_min"`
	XMax                 float64       `yaml:"x_max"`
	NumIncrements        int           `yaml:"num_increments"`
	ElasticityPercChange float64       `yaml:"elasticity_perc_change"`
}

// LoadCases reads the sensitivity cases from a yaml file.
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load the sensitivity cases")
	}

	var cases []Case
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		return nil, errors.Wrap(err, "unable to load the sensitivity cases")
	}

	for i := range cases {
		if err := cases[i].ParameterType.Validate(); err != nil {
			return nil, errors.Wrapf(err, "unable to load the sensitivity case for %s", cases[i].ParameterName)
		}
		if cases[i].XMin > cases[i].XMax {
			cases[i].XMin, cases[i].XMax = cases[i].XMax, cases[i].XMin
		}
		if cases[i].NumIncrements == 0 {
			cases[i].NumIncrements = 11
		}
		if cases[i].ElasticityPercChange == 0 {
			cases[i].ElasticityPercChange = 3.0
		}
	}

	return cases, nil
}

// Indicator is one sensitivity indicator for one parameter of one system:
// the parameter values that were run and the resulting cost of production.
type Indicator struct {
	Name             string
	SystemName       string
	ParameterName    string
	ParameterType    ParameterType
	BaseParameterVal float64
	BaseResultVal    float64
	ParameterVals    []float64
	ResultVals       []float64
	Failed           bool
	FailureMsg       string
}

// MinMaxIndex is the relative change of the result between the two runs.
func MinMaxIndex(resultVals []float64) (float64, error) {
	if len(resultVals) != 2 {
		return 0.0, errors.Errorf("min max indicator needs two result values, got %d", len(resultVals))
	}

	return (resultVals[1] - resultVals[0]) / resultVals[0], nil
}

// ElasticityIndex is the midpoint elasticity of the result with respect to
// the parameter.
func ElasticityIndex(parameterVals, resultVals []float64) (float64, error) {
	if len(parameterVals) != 2 || len(resultVals) != 2 {
		return 0.0, errors.Errorf("elasticity indicator needs two parameter and two result values, got %d and %d",
			len(parameterVals), len(resultVals))
	}

	x := (parameterVals[0] + parameterVals[1]) * 0.5
	y := (resultVals[0] + resultVals[1]) * 0.5

	return (resultVals[1] - resultVals[0]) / (parameterVals[1] - parameterVals[0]) * (x / y), nil
}

// indicators builds the indicators of this case for one solved system.
// Returns nil when the case does not apply to the system.
func (c Case) indicators(sys *flowsheet.System, prices costs.Prices) ([]*Indicator, error) {
	if sys.Name() != c.SystemName && c.SystemName != "ALL" {
		return nil, nil
	}

	switch c.ParameterType {
	case BoolSystemVar:
		v, ok := sys.Var(c.ParameterName)
		if !ok {
			return nil, nil
		}
		base, ok := v.(bool)
		if !ok {
			return nil, errors.Errorf("system var %s is %T, want bool", c.ParameterName, v)
		}

		indicator := &Indicator{
			Name:          "BooleanMinMax",
			SystemName:    sys.Name(),
			ParameterName: c.ParameterName,
			ParameterType: c.ParameterType,
			BaseResultVal: sys.LCOP(),
			ParameterVals: []float64{0, 1},
		}
		if base {
			indicator.BaseParameterVal = 1
		}

		return []*Indicator{indicator}, nil
	case Price:
		entry, ok := prices[c.ParameterName]
		if !ok {
			return nil, errors.Errorf("no price named %s", c.ParameterName)
		}

		return []*Indicator{c.spiderPlot(sys, entry.PriceUSD)}, nil
	case SystemVar:
		v, ok := sys.Var(c.ParameterName)
		if !ok {
			return nil, nil
		}
		base, err := floatValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "system var %s", c.ParameterName)
		}

		return []*Indicator{c.spiderPlot(sys, base)}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownParameterType, "%q", string(c.ParameterType))
	}
}

func (c Case) spiderPlot(sys *flowsheet.System, baseParameterVal float64) *Indicator {
	return &Indicator{
		Name:             "SpiderPlot",
		SystemName:       sys.Name(),
		ParameterName:    c.ParameterName,
		ParameterType:    c.ParameterType,
		BaseParameterVal: baseParameterVal,
		BaseResultVal:    sys.LCOP(),
		ParameterVals:    linspace(c.XMin, c.XMax, c.NumIncrements),
	}
}

func linspace(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}

	vals := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}

	return vals
}

func floatValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0.0, errors.Errorf("value is %T, want a numeric type", v)
	}
}
