package massenergy

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/flowsheet"
	"github.com/yvonnelund/steeltea/pkg/species"
)

// calc records the first error hit during a device calculation so the flow
// arithmetic reads as straight line code. Callers must check Err at the end
// of the calculation and at any point where a wrong intermediate value would
// change control flow.
type calc struct {
	err error
}

func (c *calc) Err() error { return c.err }

func (c *calc) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *calc) setMoles(s *species.Species, moles float64) {
	if c.err != nil {
		return
	}
	c.err = s.SetMoles(moles)
}

func (c *calc) setMass(s *species.Species, massKg float64) {
	if c.err != nil {
		return
	}
	c.err = s.SetMass(massKg)
}

// val unwraps a (value, error) pair, recording the error.
func (c *calc) val(v float64, err error) float64 {
	if c.err == nil && err != nil {
		c.err = err
	}

	return v
}

func (c *calc) str(v string, err error) string {
	if c.err == nil && err != nil {
		c.err = err
	}

	return v
}

// setFrom overwrites a shared mixture flow in place.
func (c *calc) setFrom(dst, src *species.Mixture) {
	if c.err != nil {
		return
	}
	dst.SetFrom(src)
}

func (c *calc) merge(m *species.Mixture, other *species.Mixture) {
	if c.err != nil {
		return
	}
	c.err = m.Merge(other)
}

func (c *calc) mergeSpecies(m *species.Mixture, s *species.Species) {
	if c.err != nil {
		return
	}
	c.err = m.MergeSpecies(s)
}

// species returns the named species of a mixture, or a zero amount dummy on
// failure so the calculation can continue to the next error check.
func (c *calc) species(m *species.Mixture, name string) *species.Species {
	s, err := m.MustSpecies(name)
	if err != nil {
		c.fail(err)

		return species.NewDummySpecies(name)
	}

	return s
}

func (c *calc) asMixture(f flowsheet.Flow, err error) *species.Mixture {
	if err != nil {
		c.fail(err)

		return species.NewDummyMixture("")
	}
	m, ok := f.(*species.Mixture)
	if !ok {
		c.fail(errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "%s: want mixture, got %T", f.Name(), f))

		return species.NewDummyMixture("")
	}

	return m
}

func (c *calc) asSpecies(f flowsheet.Flow, err error) *species.Species {
	if err != nil {
		c.fail(err)

		return species.NewDummySpecies("")
	}
	s, ok := f.(*species.Species)
	if !ok {
		c.fail(errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "%s: want species, got %T", f.Name(), f))

		return species.NewDummySpecies("")
	}

	return s
}

func (c *calc) asEnergy(f flowsheet.Flow, err error) *flowsheet.EnergyFlow {
	if err != nil {
		c.fail(err)

		return flowsheet.NewEnergyFlow("", 0)
	}
	e, ok := f.(*flowsheet.EnergyFlow)
	if !ok {
		c.fail(errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "%s: want energy flow, got %T", f.Name(), f))

		return flowsheet.NewEnergyFlow("", 0)
	}

	return e
}

// flow unwraps a (flow, error) pair, recording the error.
func (c *calc) flow(f flowsheet.Flow, err error) flowsheet.Flow {
	if err != nil {
		c.fail(err)

		return flowsheet.NewEnergyFlow("", 0)
	}

	return f
}

func (c *calc) device(sys *flowsheet.System, name string) *flowsheet.Device {
	d, err := sys.Device(name)
	if err != nil {
		c.fail(err)

		return flowsheet.NewDevice(name, "")
	}

	return d
}

// h2Moles returns the moles of H2 carried by a flow that is either a pure
// hydrogen species or a hydrogen rich mixture.
func (c *calc) h2Moles(f flowsheet.Flow) float64 {
	switch v := f.(type) {
	case *species.Species:
		return v.Moles()
	case *species.Mixture:
		h2, ok := v.Species("H2")
		if !ok {
			return 0.0
		}

		return h2.Moles()
	default:
		c.fail(errors.Wrapf(flowsheet.ErrFlowTypeMismatch, "%s: want species or mixture, got %T", f.Name(), f))

		return 0.0
	}
}

func (c *calc) setFlowFrom(dst, src flowsheet.Flow) {
	if c.err != nil {
		return
	}
	c.err = flowsheet.SetFlowFrom(dst, src)
}

func stringSliceVar(sys *flowsheet.System, name string) ([]string, error) {
	v, ok := sys.Var(name)
	if !ok {
		return nil, errors.Wrap(flowsheet.ErrVarNotFound, name)
	}
	s, ok := v.([]string)
	if !ok {
		return nil, errors.Wrapf(flowsheet.ErrVarWrongType, "%s is %T, want []string", name, v)
	}

	return s, nil
}

// inputFlow and outputFlow look flows up by the name they were registered
// under when the plant was wired.
func inputFlow(d *flowsheet.Device, name string) (flowsheet.Flow, error) {
	f, ok := d.Input(name)
	if !ok {
		return nil, errors.Wrapf(flowsheet.ErrFlowNotFound, "input %s on device %s", name, d.Name())
	}

	return f, nil
}

func outputFlow(d *flowsheet.Device, name string) (flowsheet.Flow, error) {
	f, ok := d.Output(name)
	if !ok {
		return nil, errors.Wrapf(flowsheet.ErrFlowNotFound, "output %s on device %s", name, d.Name())
	}

	return f, nil
}
