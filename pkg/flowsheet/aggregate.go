package flowsheet

import (
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/species"
)

// AggregateOptions controls how boundary flows are rolled up into a single
// table of consumables or products.
type AggregateOptions struct {
	// IgnoreFlowsNamed drops flows by exact name, such as infiltrated air
	// that carries no cost.
	IgnoreFlowsNamed []string

	// SeparateMixturesNamed breaks the named mixtures into one entry per
	// species, keyed by species name, so the components can be priced
	// individually.
	SeparateMixturesNamed []string

	// MassFlowOnly drops energy flows from the result.
	MassFlowOnly bool
}

// SystemInputs aggregates all flows crossing into the system. Material flows
// contribute their mass [kg], energy flows their energy [J].
func (s *System) SystemInputs(opts AggregateOptions) (map[string]float64, error) {
	return s.aggregateBoundary(opts, func(r FlowRecord) bool { return r.From == InputBoundary })
}

// SystemOutputs aggregates all flows crossing out of the system.
func (s *System) SystemOutputs(opts AggregateOptions) (map[string]float64, error) {
	return s.aggregateBoundary(opts, func(r FlowRecord) bool { return r.To == OutputBoundary })
}

func (s *System) aggregateBoundary(opts AggregateOptions, keep func(FlowRecord) bool) (map[string]float64, error) {
	totals := make(map[string]float64)
	for _, r := range s.flows {
		if !keep(r) || slices.Contains(opts.IgnoreFlowsNamed, r.Flow.Name()) {
			continue
		}

		if mix, ok := r.Flow.(*species.Mixture); ok && slices.Contains(opts.SeparateMixturesNamed, mix.Name()) {
			for _, sp := range mix.SpeciesList() {
				totals[sp.Name()] += sp.Mass()
			}

			continue
		}

		if _, ok := r.Flow.(*EnergyFlow); ok {
			if opts.MassFlowOnly {
				continue
			}
			e, err := r.Flow.Energy()
			if err != nil {
				return nil, errors.Wrapf(err, "unable to aggregate boundary flow %s", r.Flow.Name())
			}
			totals[r.Flow.Name()] += e

			continue
		}

		totals[r.Flow.Name()] += r.Flow.Mass()
	}

	return totals, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
