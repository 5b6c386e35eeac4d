// Package report prints the analysis results as text tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/yvonnelund/steeltea/pkg/costs"
	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/massenergy"
)

// LCOP prints the levelised cost of production breakdown of a solved and
// priced system [USD per tonne of liquid steel].
func LCOP(w io.Writer, sys *flowsheet.System) error {
	if _, err := fmt.Fprintf(w, "%s total lcop [USD/tonne] = %.2f\n", sys.Name(), sys.LCOP()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(sys.LCOPBreakdown()) {
		fmt.Fprintf(tw, "    %s\t%.2f\n", name, sys.LCOPBreakdown()[name])
	}

	return tw.Flush()
}

// Emissions prints the CO2 equivalent emissions and the carbon price at
// which the plant breaks even with a conventional BF-BOF plant.
func Emissions(w io.Writer, sys *flowsheet.System) error {
	co2e, err := costs.CO2ePerTonneSteel(sys)
	if err != nil {
		return err
	}
	breakeven, err := costs.BreakevenCO2ePrice(sys)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s emissions = %.1f kg CO2e/tonne, breakeven carbon price = %.2f USD/tonne CO2e\n",
		sys.Name(), co2e, breakeven)

	return err
}

// MassFlows prints the aggregated system boundary mass flows
// [kg per tonne of liquid steel].
func MassFlows(w io.Writer, sys *flowsheet.System) error {
	inputs, err := sys.SystemInputs(flowsheet.AggregateOptions{
		IgnoreFlowsNamed:      []string{"infiltrated air"},
		SeparateMixturesNamed: []string{"h2 rich gas"},
		MassFlowOnly:          true,
	})
	if err != nil {
		return err
	}
	outputs, err := sys.SystemOutputs(flowsheet.AggregateOptions{
		IgnoreFlowsNamed: []string{"infiltrated air"},
		MassFlowOnly:     true,
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s mass flows [kg/tonne]\n", sys.Name()); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(inputs) {
		fmt.Fprintf(tw, "    in\t%s\t%.1f\n", name, inputs[name])
	}
	for _, name := range sortedKeys(outputs) {
		fmt.Fprintf(tw, "    out\t%s\t%.1f\n", name, outputs[name])
	}

	return tw.Flush()
}

// ElectricityDemand prints the electricity demand per major device group
// [GJ per tonne of liquid steel].
func ElectricityDemand(w io.Writer, sys *flowsheet.System) error {
	demand, err := massenergy.ElectricityDemandPerMajorDevice(sys)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s electricity demand [GJ/tonne]\n", sys.Name()); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(demand) {
		fmt.Fprintf(tw, "    %s\t%.2f\n", name, demand[name]/1e9)
	}

	return tw.Flush()
}

// SlagComposition prints the slag weight composition of the ironmaking and
// steelmaking devices.
func SlagComposition(w io.Writer, sys *flowsheet.System) error {
	compositions, err := massenergy.SlagCompositions(sys)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s slag composition\n", sys.Name()); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, deviceName := range sortedKeys(compositions) {
		fmt.Fprintf(tw, "    %s\n", deviceName)
		composition := compositions[deviceName]
		for _, speciesName := range sortedKeys(composition) {
			fmt.Fprintf(tw, "        %s\t%.2f%%\n", speciesName, composition[speciesName]*100)
		}
	}

	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
