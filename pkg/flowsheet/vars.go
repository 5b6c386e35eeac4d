package flowsheet

import "github.com/pkg/errors"

// SystemVars returns the raw variable map steering the mass and energy flow
// calculation. Mutating it mutates the system.
func (s *System) SystemVars() map[string]any { return s.systemVars }

// SetVar sets a system variable.
func (s *System) SetVar(name string, value any) { s.systemVars[name] = value }

// Var returns a system variable.
func (s *System) Var(name string) (any, bool) {
	v, ok := s.systemVars[name]

	return v, ok
}

func (s *System) HasVar(name string) bool {
	_, ok := s.systemVars[name]

	return ok
}

// FloatVar returns a numeric system variable.
func (s *System) FloatVar(name string) (float64, error) {
	v, ok := s.systemVars[name]
	if !ok {
		return 0, errors.Wrapf(ErrVarNotFound, "%s in system %s", name, s.name)
	}
	switch f := v.(type) {
	case float64:
		return f, nil
	case int:
		return float64(f), nil
	default:
		return 0, errors.Wrapf(ErrVarWrongType, "%s: want number, got %T", name, v)
	}
}

// FloatVarOr returns a numeric system variable, or the fallback when unset.
func (s *System) FloatVarOr(name string, fallback float64) float64 {
	if !s.HasVar(name) {
		return fallback
	}
	v, err := s.FloatVar(name)
	if err != nil {
		return fallback
	}

	return v
}

// BoolVar returns a boolean system variable.
func (s *System) BoolVar(name string) (bool, error) {
	v, ok := s.systemVars[name]
	if !ok {
		return false, errors.Wrapf(ErrVarNotFound, "%s in system %s", name, s.name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Wrapf(ErrVarWrongType, "%s: want bool, got %T", name, v)
	}

	return b, nil
}

// BoolVarOr returns a boolean system variable, or the fallback when unset.
func (s *System) BoolVarOr(name string, fallback bool) bool {
	b, err := s.BoolVar(name)
	if err != nil {
		return fallback
	}

	return b
}

// StringVar returns a string system variable.
func (s *System) StringVar(name string) (string, error) {
	v, ok := s.systemVars[name]
	if !ok {
		return "", errors.Wrapf(ErrVarNotFound, "%s in system %s", name, s.name)
	}
	str, ok := v.(string)
	if !ok {
		return "", errors.Wrapf(ErrVarWrongType, "%s: want string, got %T", name, v)
	}

	return str, nil
}

// SetLCOPBreakdown stores the itemised levelised cost of production
// [USD / tonne of steel].
func (s *System) SetLCOPBreakdown(breakdown map[string]float64) {
	s.lcopBreakdown = breakdown
}

// LCOPBreakdown returns the itemised levelised cost of production, or nil
// when the costing has not run yet.
func (s *System) LCOPBreakdown() map[string]float64 { return s.lcopBreakdown }

// LCOP returns the total levelised cost of production [USD / tonne of steel].
func (s *System) LCOP() float64 {
	total := 0.0
	for _, v := range s.lcopBreakdown {
		total += v
	}

	return total
}
