// Package thermo provides the thermochemical primitives used by the mass and
// energy flow calculations: molar heat capacities (Shomate equation or
// constant cp), latent heats of phase changes and piecewise thermo data
// covering a continuous temperature span.
//
// Units follow the convention of the NIST webbook: temperatures in Kelvin,
// molar heat capacities in J/mol.K, enthalpies returned in J.
package thermo

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrTempOutOfRange    = errors.New("temperature outside the heat capacity range")
	ErrInvalidTempRange  = errors.New("min temperature must be below max temperature")
	ErrNonContiguous     = errors.New("gap or overlap between heat capacity ranges")
	ErrNoHeatCapacities  = errors.New("at least one heat capacity must be set")
	ErrLatentHeatOutside = errors.New("latent heat temperature outside the heat capacity range")
)

// HeatCapacity is a molar heat capacity valid over a closed temperature range.
type HeatCapacity interface {
	MinKelvin() float64
	MaxKelvin() float64
	// Cp returns the molar heat capacity [J/mol.K] at the given temperature.
	Cp(tKelvin float64) (float64, error)
	// DeltaH returns the change in enthalpy [J] heating the given amount of
	// moles between the two temperatures.
	DeltaH(moles, tInitial, tFinal float64) (float64, error)
}

// ShomateCoeffs are the eight coefficients (A..H) of the Shomate equation as
// published by the NIST webbook.
type ShomateCoeffs struct {
	A, B, C, D, E, F, G, H float64
}

// ShomateEquation calculates molar heat capacity, enthalpy and entropy from
// Shomate coefficients.
type ShomateEquation struct {
	minKelvin float64
	maxKelvin float64
	coeffs    ShomateCoeffs
}

// NewShomateEquation returns a Shomate heat capacity valid between the two
// temperatures.
func NewShomateEquation(minKelvin, maxKelvin float64, coeffs ShomateCoeffs) (*ShomateEquation, error) {
	if minKelvin >= maxKelvin {
		return nil, errors.Wrapf(ErrInvalidTempRange, "%.2fK-%.2fK", minKelvin, maxKelvin)
	}

	return &ShomateEquation{minKelvin: minKelvin, maxKelvin: maxKelvin, coeffs: coeffs}, nil
}

func (s *ShomateEquation) MinKelvin() float64 { return s.minKelvin }
func (s *ShomateEquation) MaxKelvin() float64 { return s.maxKelvin }

func (s *ShomateEquation) DeltaH(moles, tInitial, tFinal float64) (float64, error) {
	if !s.covers(tInitial) || !s.covers(tFinal) {
		return 0, errors.Wrapf(ErrTempOutOfRange, "shomate delta h %.2fK-%.2fK", tInitial, tFinal)
	}
	ti := tInitial / 1000
	tf := tFinal / 1000

	// NIST publishes the integrated form in kJ/mol.
	energyKJ := moles * (s.coeffs.A*(tf-ti) +
		s.coeffs.B/2*(tf*tf-ti*ti) +
		s.coeffs.C/3*(tf*tf*tf-ti*ti*ti) +
		s.coeffs.D/4*(tf*tf*tf*tf-ti*ti*ti*ti) -
		s.coeffs.E*(1/tf-1/ti))

	return energyKJ * 1000, nil
}

func (s *ShomateEquation) Cp(tKelvin float64) (float64, error) {
	if !s.covers(tKelvin) {
		return 0, errors.Wrapf(ErrTempOutOfRange, "shomate cp %.2fK", tKelvin)
	}
	t := tKelvin / 1000

	return s.coeffs.A + s.coeffs.B*t + s.coeffs.C*t*t + s.coeffs.D*t*t*t + s.coeffs.E/(t*t), nil
}

// S returns the standard molar entropy [J/mol.K] at the given temperature.
func (s *ShomateEquation) S(tKelvin float64) (float64, error) {
	if !s.covers(tKelvin) {
		return 0, errors.Wrapf(ErrTempOutOfRange, "shomate entropy %.2fK", tKelvin)
	}
	t := tKelvin / 1000

	return s.coeffs.A*math.Log(t) + s.coeffs.B*t + s.coeffs.C*t*t/2 + s.coeffs.D*t*t*t/3 - s.coeffs.E/(2*t*t) + s.coeffs.G, nil
}

// H returns the molar enthalpy relative to 298.15 K [J/mol].
func (s *ShomateEquation) H(tKelvin float64) (float64, error) {
	if !s.covers(tKelvin) {
		return 0, errors.Wrapf(ErrTempOutOfRange, "shomate enthalpy %.2fK", tKelvin)
	}
	t := tKelvin / 1000

	kJ := s.coeffs.A*t + s.coeffs.B*t*t/2 + s.coeffs.C*t*t*t/3 + s.coeffs.D*t*t*t*t/4 - s.coeffs.E/t + s.coeffs.F - s.coeffs.H

	return kJ * 1000, nil
}

func (s *ShomateEquation) covers(tKelvin float64) bool {
	return s.minKelvin <= tKelvin && tKelvin <= s.maxKelvin
}

// SimpleHeatCapacity is a constant molar heat capacity over a range.
type SimpleHeatCapacity struct {
	minKelvin float64
	maxKelvin float64
	cp        float64
}

// NewSimpleHeatCapacity returns a constant heat capacity [J/mol.K] valid
// between the two temperatures.
func NewSimpleHeatCapacity(minKelvin, maxKelvin, cp float64) (*SimpleHeatCapacity, error) {
	if minKelvin >= maxKelvin {
		return nil, errors.Wrapf(ErrInvalidTempRange, "%.2fK-%.2fK", minKelvin, maxKelvin)
	}

	return &SimpleHeatCapacity{minKelvin: minKelvin, maxKelvin: maxKelvin, cp: cp}, nil
}

func (s *SimpleHeatCapacity) MinKelvin() float64 { return s.minKelvin }
func (s *SimpleHeatCapacity) MaxKelvin() float64 { return s.maxKelvin }

func (s *SimpleHeatCapacity) DeltaH(moles, tInitial, tFinal float64) (float64, error) {
	if !s.covers(tInitial) || !s.covers(tFinal) {
		return 0, errors.Wrapf(ErrTempOutOfRange, "simple delta h %.2fK-%.2fK", tInitial, tFinal)
	}

	return moles * s.cp * (tFinal - tInitial), nil
}

func (s *SimpleHeatCapacity) Cp(tKelvin float64) (float64, error) {
	if !s.covers(tKelvin) {
		return 0, errors.Wrapf(ErrTempOutOfRange, "simple cp %.2fK", tKelvin)
	}

	return s.cp, nil
}

func (s *SimpleHeatCapacity) covers(tKelvin float64) bool {
	return s.minKelvin <= tKelvin && tKelvin <= s.maxKelvin
}

// LatentHeat is the heat absorbed during a phase change, typically melting or
// boiling.
type LatentHeat struct {
	TempKelvin float64
	// LatentHeatJoules is the heat of the transition in J/mol.
	LatentHeatJoules float64
}

// DeltaH returns the enthalpy [J] absorbed by the given amount of moles
// crossing the transition upwards.
func (l LatentHeat) DeltaH(moles float64) float64 {
	return moles * l.LatentHeatJoules
}
