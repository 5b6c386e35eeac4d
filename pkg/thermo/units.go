package thermo

// AmbientKelvin is the reference temperature for sensible heat and enthalpy
// of formation values.
const AmbientKelvin = 298.15

// CelsiusToKelvin converts a temperature in degrees Celsius to Kelvin.
func CelsiusToKelvin(c float64) float64 {
	return c + 273.15
}

// KelvinToCelsius converts a temperature in Kelvin to degrees Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - 273.15
}
