package flowsheet

import (
	"math"

	"github.com/pkg/errors"
)

// ValidateEnergyBalance checks that every device conserves energy to within
// the given tolerance [J].
func (s *System) ValidateEnergyBalance(toleranceJoules float64) error {
	for _, name := range s.deviceOrder {
		balance, err := s.devices[name].EnergyBalance()
		if err != nil {
			return err
		}
		if math.Abs(balance) > toleranceJoules {
			return errors.Wrapf(ErrEnergyBalance, "%s in system %s: %g J", name, s.name, balance)
		}
	}

	return nil
}

// ValidateMassBalance checks that every device conserves mass to within the
// given tolerance [kg].
func (s *System) ValidateMassBalance(toleranceKg float64) error {
	for _, name := range s.deviceOrder {
		balance := s.devices[name].MassBalance()
		if math.Abs(balance) > toleranceKg {
			return errors.Wrapf(ErrMassBalance, "%s in system %s: %g kg", name, s.name, balance)
		}
	}

	return nil
}
