// Command tea runs the technoeconomic analysis of hydrogen plasma based low
// emission steel plants and reports the levelised cost of liquid steel.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yvonnelund/steeltea/internal/config"
	"github.com/yvonnelund/steeltea/internal/report"
	"github.com/yvonnelund/steeltea/pkg/costs"
	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/flowsheet/drawer"
	"github.com/yvonnelund/steeltea/pkg/massenergy"
	"github.com/yvonnelund/steeltea/pkg/sensitivity"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	pricesPath := flag.StringP("prices", "p", "prices.yaml", "path to the yaml file with capex and commodity prices")
	configPath := flag.StringP("config", "c", "", "path to the yaml file with the system configuration")
	renderDir := flag.StringP("render-dir", "r", "", "directory to render the plant flowsheet diagrams to")
	sensitivityPath := flag.StringP("sensitivity", "s", "", "path to the yaml file with the sensitivity analysis cases")
	massFlow := flag.BoolP("mass-flow", "m", false, "report the system boundary mass flows")
	energyFlow := flag.BoolP("energy-flow", "e", false, "report the electricity demand per device")
	verbose := flag.BoolP("verbose", "v", false, "log debug messages")
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	prices, err := costs.LoadPrices(*pricesPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	systems, err := config.BuildStandardSystems(cfg, log)
	if err != nil {
		return err
	}

	if *renderDir != "" {
		for _, sys := range systems {
			path, err := drawer.Render(sys, *renderDir)
			if err != nil {
				return err
			}
			log.Infow("rendered flowsheet", "system", sys.Name(), "path", path)
		}
	}

	log.Info("solving mass and energy flows and calculating costs")
	var g errgroup.Group
	for _, sys := range systems {
		sys := sys
		g.Go(func() error {
			if err := massenergy.Solve(sys, log); err != nil {
				return err
			}

			return costs.AddSteelPlantLCOP(sys, prices, log)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if *sensitivityPath != "" {
		return runSensitivityAnalysis(*sensitivityPath, systems, prices, log)
	}

	for _, sys := range systems {
		sys := sys
		if err := report.LCOP(os.Stdout, sys); err != nil {
			return err
		}
		if err := report.Emissions(os.Stdout, sys); err != nil {
			return err
		}
		if *massFlow {
			if err := report.MassFlows(os.Stdout, sys); err != nil {
				return err
			}
		}
		if *energyFlow {
			if err := report.ElectricityDemand(os.Stdout, sys); err != nil {
				return err
			}
		}
		if *verbose && sys.BoolVarOr("report slag composition", false) {
			if err := report.SlagComposition(os.Stdout, sys); err != nil {
				return err
			}
		}
	}

	return nil
}

func runSensitivityAnalysis(casesPath string, systems []*flowsheet.System, prices costs.Prices, log *zap.SugaredLogger) error {
	cases, err := sensitivity.LoadCases(casesPath)
	if err != nil {
		return err
	}

	runner := &sensitivity.Runner{Cases: cases, Systems: systems}
	log.Info("running sensitivity analysis")
	indicators, err := runner.Run(prices, log)
	if err != nil {
		return err
	}

	outputDir, err := os.MkdirTemp("", "steeltea_sa_")
	if err != nil {
		return err
	}
	for _, sys := range systems {
		sys := sys
		path, err := sensitivity.WriteReport(outputDir, sys.Name(), indicators[sys.Name()])
		if err != nil {
			return err
		}
		log.Infow("sensitivity report written", "system", sys.Name(), "path", path)
	}
	fmt.Printf("sensitivity analysis results saved to %s\n", outputDir)

	return nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}
