// Package flowsheet models a steel plant as a directed graph of devices
// connected by flows of matter and energy. Each device must close its mass
// and energy balance once the plant model is solved.
package flowsheet

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/species"
)

// Flow is anything that moves between two devices or across the system
// boundary: an amount of a substance, a mixture, or pure energy.
//
// Implemented by *species.Species, *species.Mixture and *EnergyFlow.
type Flow interface {
	Name() string
	SetName(name string)

	// Mass returns the mass of the flow [kg]. Zero for energy flows.
	Mass() float64

	// Energy returns the energy content of the flow [J]. For material flows
	// this is the sensible heat relative to ambient temperature, for energy
	// flows the face value.
	Energy() (float64, error)
}

// EnergyFlow is a massless flow of energy: electricity, chemical energy,
// thermal losses.
type EnergyFlow struct {
	name   string
	energy float64
}

func NewEnergyFlow(name string, energyJoules float64) *EnergyFlow {
	return &EnergyFlow{name: name, energy: energyJoules}
}

func (f *EnergyFlow) Name() string        { return f.name }
func (f *EnergyFlow) SetName(name string) { f.name = name }

func (f *EnergyFlow) Mass() float64 { return 0 }

func (f *EnergyFlow) Energy() (float64, error) { return f.energy, nil }

// EnergyValue returns the energy [J] without the error the Flow interface
// carries for material flows.
func (f *EnergyFlow) EnergyValue() float64 { return f.energy }

func (f *EnergyFlow) SetEnergy(energyJoules float64) { f.energy = energyJoules }

// AddEnergy accumulates onto the flow.
func (f *EnergyFlow) AddEnergy(energyJoules float64) { f.energy += energyJoules }

func (f *EnergyFlow) Clone() *EnergyFlow {
	clone := *f

	return &clone
}

// SetFrom overwrites this flow with the state of another, preserving the
// identity of the flow shared between two devices.
func (f *EnergyFlow) SetFrom(other *EnergyFlow) { *f = *other }

// CloneFlow deep copies a flow of any supported concrete type.
func CloneFlow(f Flow) (Flow, error) {
	switch v := f.(type) {
	case *EnergyFlow:
		return v.Clone(), nil
	case *species.Species:
		return v.Clone(), nil
	case *species.Mixture:
		return v.Clone(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFlowType, "%T", f)
	}
}

// SetFlowFrom overwrites dst with the state of src in place, so that both
// devices sharing dst observe the update. The concrete types must match.
func SetFlowFrom(dst, src Flow) error {
	switch d := dst.(type) {
	case *EnergyFlow:
		s, ok := src.(*EnergyFlow)
		if !ok {
			return errors.Wrapf(ErrFlowTypeMismatch, "%s: %T to %T", dst.Name(), src, dst)
		}
		d.SetFrom(s)
	case *species.Species:
		s, ok := src.(*species.Species)
		if !ok {
			return errors.Wrapf(ErrFlowTypeMismatch, "%s: %T to %T", dst.Name(), src, dst)
		}
		d.SetFrom(s)
	case *species.Mixture:
		s, ok := src.(*species.Mixture)
		if !ok {
			return errors.Wrapf(ErrFlowTypeMismatch, "%s: %T to %T", dst.Name(), src, dst)
		}
		d.SetFrom(s)
	default:
		return errors.Wrapf(ErrUnsupportedFlowType, "%T", dst)
	}

	return nil
}
