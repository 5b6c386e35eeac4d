package sensitivity

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yvonnelund/steeltea/pkg/costs"
	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/massenergy"
)

// Runner runs every sensitivity case against every solved system.
type Runner struct {
	Cases   []Case
	Systems []*flowsheet.System
}

// Run re-solves each system once per parameter value and collects the cost
// of production. Systems run concurrently, the runs of a single indicator
// stay sequential so a failed run can cut the rest of its sweep short.
func (r *Runner) Run(prices costs.Prices, log *zap.SugaredLogger) (map[string][]*Indicator, error) {
	indicatorsBySystem := make(map[string][]*Indicator, len(r.Systems))
	var mu sync.Mutex

	var g errgroup.Group
	for _, sys := range r.Systems {
		sys := sys
		g.Go(func() error {
			indicators, err := r.runSystem(sys, prices, log)
			if err != nil {
				return err
			}

			mu.Lock()
			indicatorsBySystem[sys.Name()] = indicators
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return indicatorsBySystem, nil
}

func (r *Runner) runSystem(sys *flowsheet.System, prices costs.Prices, log *zap.SugaredLogger) ([]*Indicator, error) {
	var indicators []*Indicator
	for _, sensitivityCase := range r.Cases {
		caseIndicators, err := sensitivityCase.indicators(sys, prices)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to run the sensitivity analysis of system %s", sys.Name())
		}

		for _, indicator := range caseIndicators {
			r.sweep(sys, prices, indicator, log)
			indicators = append(indicators, indicator)
		}
	}

	return indicators, nil
}

// sweep runs one indicator over its parameter values. Failures are recorded
// on the indicator rather than returned, so one diverging case does not sink
// the whole analysis.
func (r *Runner) sweep(sys *flowsheet.System, prices costs.Prices, indicator *Indicator, log *zap.SugaredLogger) {
	for _, parameterVal := range indicator.ParameterVals {
		trial, err := sys.Clone()
		if err != nil {
			indicator.Failed = true
			indicator.FailureMsg = err.Error()

			return
		}
		trialPrices := prices.Clone()

		switch indicator.ParameterType {
		case Price:
			entry := trialPrices[indicator.ParameterName]
			entry.PriceUSD = parameterVal
			trialPrices[indicator.ParameterName] = entry
		case SystemVar:
			trial.SetVar(indicator.ParameterName, parameterVal)
		case BoolSystemVar:
			trial.SetVar(indicator.ParameterName, parameterVal != 0)
		}

		trial.SetName(fmt.Sprintf("%s_SA_%s_%g", sys.Name(), indicator.ParameterName, parameterVal))

		if err := massenergy.Solve(trial, log); err != nil {
			indicator.Failed = true
			indicator.FailureMsg = err.Error()

			return
		}
		if err := costs.AddSteelPlantLCOP(trial, trialPrices, log); err != nil {
			indicator.Failed = true
			indicator.FailureMsg = err.Error()

			return
		}

		indicator.ResultVals = append(indicator.ResultVals, trial.LCOP())
	}
}

// WriteReport writes the indicators of one system to <system name>.csv in
// the output directory, spaces in the name replaced by underscores.
func WriteReport(outputDir, systemName string, indicators []*Indicator) (string, error) {
	path := filepath.Join(outputDir, strings.ReplaceAll(systemName, " ", "_")+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to report the sensitivity analysis of system %s", systemName)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"parameter_name", "indicator_name", "parameter_value", "perc_change_from_base", "result"}); err != nil {
		return "", errors.Wrapf(err, "unable to report the sensitivity analysis of system %s", systemName)
	}

	for _, indicator := range indicators {
		if indicator.SystemName != systemName {
			return "", errors.Errorf("indicator for system %s in the report of system %s", indicator.SystemName, systemName)
		}

		if indicator.Failed {
			if err := w.Write([]string{indicator.ParameterName, indicator.Name, "FAILED", indicator.FailureMsg, ""}); err != nil {
				return "", errors.Wrapf(err, "unable to report the sensitivity analysis of system %s", systemName)
			}

			continue
		}

		for i, parameterVal := range indicator.ParameterVals {
			if i >= len(indicator.ResultVals) {
				break
			}
			percChange := 0.0
			if indicator.BaseParameterVal != 0 {
				percChange = (parameterVal - indicator.BaseParameterVal) / indicator.BaseParameterVal * 100
			}
			row := []string{
				indicator.ParameterName,
				fmt.Sprintf("%s_%d", indicator.Name, i),
				fmt.Sprintf("%.2f", parameterVal),
				fmt.Sprintf("%.2f", percChange),
				fmt.Sprintf("%.2f", indicator.ResultVals[i]),
			}
			if err := w.Write(row); err != nil {
				return "", errors.Wrapf(err, "unable to report the sensitivity analysis of system %s", systemName)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrapf(err, "unable to report the sensitivity analysis of system %s", systemName)
	}

	return path, nil
}
