package species

import (
	"math"

	"github.com/pkg/errors"
)

// mergeRefKelvin is the reference temperature the thermodynamic mixing
// calculation cools both sides down to.
const mergeRefKelvin = 298.0

// Mixture is a list of species: a gas mix, a metal alloy, slag and so on.
type Mixture struct {
	name    string
	species []*Species
}

// NewMixture returns a mixture over deep copies of the given species.
func NewMixture(name string, speciesList []*Species) *Mixture {
	cloned := make([]*Species, len(speciesList))
	for i, s := range speciesList {
		cloned[i] = s.Clone()
	}

	return &Mixture{name: name, species: cloned}
}

func (m *Mixture) Name() string        { return m.name }
func (m *Mixture) SetName(name string) { m.name = name }

// Species returns the named species, or false when not present. The returned
// pointer aliases the mixture's own copy.
func (m *Mixture) Species(name string) (*Species, bool) {
	for _, s := range m.species {
		if s.name == name {
			return s, true
		}
	}

	return nil, false
}

// MustSpecies returns the named species or an error.
func (m *Mixture) MustSpecies(name string) (*Species, error) {
	s, ok := m.Species(name)
	if !ok {
		return nil, errors.Wrapf(ErrSpeciesNotFound, "%s in %s", name, m.name)
	}

	return s, nil
}

// AddSpecies appends a deep copy of the species to the mixture.
func (m *Mixture) AddSpecies(s *Species) {
	m.species = append(m.species, s.Clone())
}

// RemoveSpecies removes the named species. Removing an absent species is a
// no-op.
func (m *Mixture) RemoveSpecies(name string) {
	for i, s := range m.species {
		if s.name == name {
			m.species = append(m.species[:i], m.species[i+1:]...)

			return
		}
	}
}

// SpeciesList returns the species in order. The slice aliases the mixture.
func (m *Mixture) SpeciesList() []*Species { return m.species }

func (m *Mixture) NumSpecies() int { return len(m.species) }

// Mass returns the total mass [kg].
func (m *Mixture) Mass() float64 {
	mass := 0.0
	for _, s := range m.species {
		mass += s.Mass()
	}

	return mass
}

// Moles returns the total amount [mol].
func (m *Mixture) Moles() float64 {
	moles := 0.0
	for _, s := range m.species {
		moles += s.moles
	}

	return moles
}

// Temperature returns the common temperature of the species.
func (m *Mixture) Temperature() (float64, error) {
	temp := 0.0
	for i, s := range m.species {
		if i == 0 {
			temp = s.tempKelvin

			continue
		}
		if s.tempKelvin != temp {
			return 0, errors.Wrap(ErrMixedTemperatures, m.name)
		}
	}

	return temp, nil
}

// SetTemperature sets every species to the given temperature.
func (m *Mixture) SetTemperature(tKelvin float64) {
	for _, s := range m.species {
		s.tempKelvin = tKelvin
	}
}

// HeatEnergy returns the enthalpy change [J] required to bring the mixture to
// the final temperature. The mixture is not modified.
func (m *Mixture) HeatEnergy(tFinalKelvin float64) (float64, error) {
	energy := 0.0
	for _, s := range m.species {
		dh, err := s.HeatEnergy(tFinalKelvin)
		if err != nil {
			return 0, errors.Wrapf(err, "unable to heat mixture %s", m.name)
		}
		energy += dh
	}

	return energy, nil
}

// Energy returns the sensible heat [J] relative to the ambient reference
// temperature.
func (m *Mixture) Energy() (float64, error) {
	energy := 0.0
	for _, s := range m.species {
		e, err := s.Energy()
		if err != nil {
			return 0, errors.Wrapf(err, "unable to compute sensible heat of mixture %s", m.name)
		}
		energy += e
	}

	return energy, nil
}

// HeatCapacity returns the total heat capacity of the mixture [J/K] at its
// current temperature.
func (m *Mixture) HeatCapacity() (float64, error) {
	temp, err := m.Temperature()
	if err != nil {
		return 0, err
	}

	return m.HeatEnergy(temp + 1)
}

// MergeSpecies merges a single species into the mixture.
func (m *Mixture) MergeSpecies(s *Species) error {
	return m.Merge(NewMixture("tmp", []*Species{s}))
}

// Merge combines another mixture into this one and calculates the new
// temperature from thermodynamic mixing: total enthalpy before and after is
// constant.
func (m *Mixture) Merge(other *Mixture) error {
	if isCloseToZero(other.Mass()) {
		return nil
	}

	initial := m.Clone()

	merged := make([]*Species, 0, len(m.species)+len(other.species))
	totalDH := 0.0
	totalHeatCapacity := 0.0

	addToMerged := func(s *Species) {
		for _, existing := range merged {
			if existing.name == s.name {
				existing.moles += s.moles

				return
			}
		}
		merged = append(merged, s.Clone())
	}

	for _, s := range append(append([]*Species{}, m.species...), other.species...) {
		addToMerged(s)

		if s.tempKelvin < mergeRefKelvin {
			return errors.Wrapf(ErrMergeBelowRefTemp, "%s at %.2fK", s.name, s.tempKelvin)
		}

		// Negative because cooling down to the reference temperature should
		// give a positive enthalpy here.
		dh, err := s.HeatEnergy(mergeRefKelvin)
		if err != nil {
			return errors.Wrapf(err, "unable to merge into %s", m.name)
		}
		dh = -dh
		totalDH += dh
		if s.tempKelvin > mergeRefKelvin {
			totalHeatCapacity += dh / (s.tempKelvin - mergeRefKelvin)
		}
	}

	m.species = merged
	m.SetTemperature(mergeRefKelvin + totalDH/totalHeatCapacity)

	// The first guess assumes a constant molar heat capacity. Refine the
	// temperature until enthalpy is conserved.
	const maxIter = 10
	for i := 0; ; i++ {
		temp, err := m.Temperature()
		if err != nil {
			return err
		}
		heatCapacity, err := m.HeatEnergy(temp + 1)
		if err != nil {
			return err
		}

		initialHeat, err := initial.HeatEnergy(mergeRefKelvin)
		if err != nil {
			return err
		}
		otherHeat, err := other.HeatEnergy(mergeRefKelvin)
		if err != nil {
			return err
		}
		energyIn := -initialHeat - otherHeat

		mergedHeat, err := m.HeatEnergy(mergeRefKelvin)
		if err != nil {
			return err
		}
		energyOut := -mergedHeat

		if math.Abs((energyIn-energyOut)/energyIn) < 1e-12 {
			return nil
		}

		m.SetTemperature(temp + (energyIn-energyOut)/heatCapacity)

		if i >= maxIter {
			return errors.Wrap(ErrMergeNotConverging, m.name)
		}
	}
}

// Clone returns a deep copy.
func (m *Mixture) Clone() *Mixture {
	return NewMixture(m.name, m.species)
}

// SetFrom overwrites this mixture with the state of another. Used to update
// a flow shared between two devices in place.
func (m *Mixture) SetFrom(other *Mixture) {
	m.name = other.name
	m.species = make([]*Species, len(other.species))
	for i, s := range other.species {
		m.species[i] = s.Clone()
	}
}

func isCloseToZero(v float64) bool {
	return math.Abs(v) < 1e-12
}
