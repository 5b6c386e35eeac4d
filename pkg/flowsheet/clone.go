package flowsheet

import (
	"maps"

	"github.com/pkg/errors"
)

// Clone deep copies the system so it can be re-solved with modified
// variables without disturbing the original. Flow sharing between devices is
// preserved in the copy.
func (s *System) Clone() (*System, error) {
	clone := NewSystem(s.name, s.annualCapacity, s.lifetimeYears)
	maps.Copy(clone.systemVars, s.systemVars)
	clone.solveFunc = s.solveFunc
	if s.lcopBreakdown != nil {
		clone.lcopBreakdown = maps.Clone(s.lcopBreakdown)
	}

	for _, name := range s.deviceOrder {
		original := s.devices[name]
		d := NewDevice(original.name, original.capexLabel)
		d.capex = original.capex
		maps.Copy(d.deviceVars, original.deviceVars)
		if err := clone.AddDevice(d); err != nil {
			return nil, errors.Wrapf(err, "unable to clone system %s", s.name)
		}
	}

	for _, r := range s.flows {
		f, err := CloneFlow(r.Flow)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to clone system %s", s.name)
		}
		record := FlowRecord{From: r.From, To: r.To, Key: r.Key, Flow: f}
		if err := clone.registerFlow(record); err != nil {
			return nil, errors.Wrapf(err, "unable to clone system %s", s.name)
		}
	}

	return clone, nil
}
