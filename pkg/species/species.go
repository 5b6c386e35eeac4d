// Package species models amounts of chemical substances and mixtures of
// them, together with the thermochemical data needed to heat, cool and react
// them. Heat capacity data comes from the NIST webbook, latent heats and
// enthalpies of formation from the CRC Handbook of Chemistry and Physics.
package species

import (
	"github.com/pkg/errors"

	"github.com/yvonnelund/steeltea/pkg/thermo"
)

var (
	ErrNegativeMoles      = errors.New("moles cannot be negative")
	ErrNegativeMass       = errors.New("mass cannot be negative")
	ErrNoFormationData    = errors.New("enthalpy of formation is not set")
	ErrSpeciesNotFound    = errors.New("no species with that name in the mixture")
	ErrMixedTemperatures  = errors.New("species temperatures in the mixture do not match")
	ErrMergeBelowRefTemp  = errors.New("cannot merge a species below the reference temperature")
	ErrMergeNotConverging = errors.New("mixing temperature did not converge")
)

// Species is an amount of an element or compound at a temperature.
type Species struct {
	name       string
	moles      float64
	tempKelvin float64
	molarMass  float64
	data       *thermo.ThermoData

	formationH    float64
	hasFormationH bool
}

// NewSpecies returns an empty amount of a substance.
//
// molarMass is in kg/mol. The enthalpy of formation [J/mol at 298.15 K] is
// optional and only required for species taking part in reactions.
func NewSpecies(name string, molarMass float64, data *thermo.ThermoData) *Species {
	return &Species{name: name, molarMass: molarMass, data: data}
}

// WithFormationEnthalpy sets the enthalpy of formation [J/mol at 298.15 K].
func (s *Species) WithFormationEnthalpy(deltaH float64) *Species {
	s.formationH = deltaH
	s.hasFormationH = true

	return s
}

func (s *Species) Name() string        { return s.name }
func (s *Species) SetName(name string) { s.name = name }

func (s *Species) Moles() float64 { return s.moles }

func (s *Species) SetMoles(moles float64) error {
	if moles < 0 {
		return errors.Wrapf(ErrNegativeMoles, "%s %g mol", s.name, moles)
	}
	s.moles = moles

	return nil
}

// Mass returns the mass [kg].
func (s *Species) Mass() float64 { return s.moles * s.molarMass }

func (s *Species) SetMass(massKg float64) error {
	if massKg < 0 {
		return errors.Wrapf(ErrNegativeMass, "%s %g kg", s.name, massKg)
	}
	s.moles = massKg / s.molarMass

	return nil
}

// MolarMass returns the molar mass [kg/mol].
func (s *Species) MolarMass() float64 { return s.molarMass }

func (s *Species) Temperature() float64 { return s.tempKelvin }

func (s *Species) SetTemperature(tKelvin float64) { s.tempKelvin = tKelvin }

// FormationEnthalpy returns the enthalpy of formation [J/mol at 298.15 K].
func (s *Species) FormationEnthalpy() (float64, error) {
	if !s.hasFormationH {
		return 0, errors.Wrap(ErrNoFormationData, s.name)
	}

	return s.formationH, nil
}

// ThermoData exposes the underlying heat capacity data.
func (s *Species) ThermoData() *thermo.ThermoData { return s.data }

// HeatEnergy returns the enthalpy change [J] required to bring the species to
// the final temperature. The species itself is not modified.
func (s *Species) HeatEnergy(tFinalKelvin float64) (float64, error) {
	dh, err := s.data.DeltaH(s.moles, s.tempKelvin, tFinalKelvin)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to heat %s from %.2fK to %.2fK", s.name, s.tempKelvin, tFinalKelvin)
	}

	return dh, nil
}

// Energy returns the sensible heat [J] relative to the ambient reference
// temperature.
func (s *Species) Energy() (float64, error) {
	dh, err := s.data.DeltaH(s.moles, thermo.AmbientKelvin, s.tempKelvin)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to compute sensible heat of %s", s.name)
	}

	return dh, nil
}

// Cp returns the molar heat capacity [J/mol.K] at the current temperature,
// including any latent heat crossed in the next degree.
func (s *Species) Cp() (float64, error) {
	return s.data.DeltaH(1.0, s.tempKelvin, s.tempKelvin+1)
}

// CpMass returns the specific heat capacity [J/g.K] at the current
// temperature.
func (s *Species) CpMass() (float64, error) {
	return s.data.DeltaH(0.001/s.molarMass, s.tempKelvin, s.tempKelvin+1)
}

// Clone returns a deep copy. The thermo data is immutable and shared.
func (s *Species) Clone() *Species {
	clone := *s

	return &clone
}

// SetFrom overwrites this species with the state of another. Used to update
// a flow shared between two devices in place.
func (s *Species) SetFrom(other *Species) {
	*s = *other
}
