package species

import (
	"github.com/yvonnelund/steeltea/pkg/thermo"
)

// Master copies of the species used across the plants.
// Shomate equation data from the NIST Chemistry Webbook.
// Latent heat data from the CRC Handbook of Chemistry and Physics,
// Enthalpy of Fusion, 6-146.
// Enthalpy of formation data from the CRC Handbook of Chemistry and Physics,
// Enthalpy of Formation, 5-1.

func mustShomate(minKelvin, maxKelvin float64, coeffs thermo.ShomateCoeffs) thermo.HeatCapacity {
	s, err := thermo.NewShomateEquation(minKelvin, maxKelvin, coeffs)
	if err != nil {
		panic(err)
	}

	return s
}

func mustSimpleCp(minKelvin, maxKelvin, cp float64) thermo.HeatCapacity {
	s, err := thermo.NewSimpleHeatCapacity(minKelvin, maxKelvin, cp)
	if err != nil {
		panic(err)
	}

	return s
}

func mustThermoData(heatCapacities []thermo.HeatCapacity, latentHeats ...thermo.LatentHeat) *thermo.ThermoData {
	td, err := thermo.NewThermoData(heatCapacities, latentHeats)
	if err != nil {
		panic(err)
	}

	return td
}

// NewDummySpecies returns a placeholder species used to initialise flows
// before the solver fills them in.
func NewDummySpecies(name string) *Species {
	s := NewSpecies(name, 1.0, mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 6000.0, 1.0),
	}))
	s.SetTemperature(thermo.AmbientKelvin)

	return s
}

// NewDummyMixture returns a placeholder mixture used to initialise flows
// before the solver fills them in.
func NewDummyMixture(name string) *Mixture {
	return NewMixture(name, []*Species{NewDummySpecies("a species")})
}

func NewH2() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		// Start temp shifted slightly below the published 298 K.
		mustShomate(273.15, 1000.0, thermo.ShomateCoeffs{
			A: 33.066178, B: -11.363417, C: 11.432816, D: -2.772874,
			E: -0.158558, F: -9.980797, G: 172.707974, H: 0.0,
		}),
		mustShomate(1000.0, 2500.0, thermo.ShomateCoeffs{
			A: 18.563083, B: 12.257357, C: -2.859786, D: 0.268238,
			E: 1.977990, F: -1.147438, G: 156.288133, H: 0.0,
		}),
		mustShomate(2500.0, 6000.0, thermo.ShomateCoeffs{
			A: 43.413560, B: -4.293079, C: 1.272428, D: -0.096876,
			E: -20.533862, F: -38.515158, G: 162.081354, H: 0.0,
		}),
	})

	return NewSpecies("H2", 0.00201588, td).WithFormationEnthalpy(0.0)
}

func NewH() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 6000.0, 20.78603),
	})

	return NewSpecies("H", 0.00100794, td).WithFormationEnthalpy(217.998e3)
}

func NewO2() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustShomate(100.0, 700.0, thermo.ShomateCoeffs{
			A: 31.32234, B: -20.23531, C: 57.86644, D: -36.50624,
			E: -0.007374, F: -8.903471, G: 246.7945, H: 0.0,
		}),
		mustShomate(700.0, 2000.0, thermo.ShomateCoeffs{
			A: 30.03235, B: 8.772972, C: -3.988133, D: 0.788313,
			E: -0.741599, F: -11.32468, G: 236.1663, H: 0.0,
		}),
		mustShomate(2000.0, 6000.0, thermo.ShomateCoeffs{
			A: 20.91111, B: 10.72071, C: -2.020498, D: 0.146449,
			E: 9.245722, F: 5.337651, G: 237.6185, H: 0.0,
		}),
	})

	return NewSpecies("O2", 0.0319988, td).WithFormationEnthalpy(0.0)
}

func NewH2O() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 373.15, 75.36), // liquid water
		mustSimpleCp(373.15, 500.0, 36.57),
		mustShomate(500.0, 1700.0, thermo.ShomateCoeffs{
			A: 30.09200, B: 6.832514, C: 6.793435, D: -2.534480,
			E: 0.082139, F: -250.8810, G: 223.3967, H: -241.8264,
		}),
		mustShomate(1700.0, 6000.0, thermo.ShomateCoeffs{
			A: 41.96426, B: 8.622053, C: -1.499780, D: 0.098119,
			E: -11.15764, F: -272.1797, G: 219.7809, H: -241.8264,
		}),
	}, thermo.LatentHeat{TempKelvin: 373.15, LatentHeatJoules: 40660.0})

	// Liquid water enthalpy of formation.
	return NewSpecies("H2O", 0.00201588+0.0319988*0.5, td).WithFormationEnthalpy(-285.83e3)
}

func NewN2() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustShomate(100.0, 500.0, thermo.ShomateCoeffs{
			A: 28.98641, B: 1.853978, C: -9.647459, D: 16.63537,
			E: 0.000117, F: -8.671914, G: 226.4168, H: 0.0,
		}),
		mustShomate(500.0, 2000.0, thermo.ShomateCoeffs{
			A: 19.50583, B: 19.88705, C: -8.598535, D: 1.369784,
			E: 0.527601, F: -4.935202, G: 212.3900, H: 0.0,
		}),
		mustShomate(2000.0, 6000.0, thermo.ShomateCoeffs{
			A: 35.51872, B: 1.128728, C: -0.196103, D: 0.014662,
			E: -4.553760, F: -18.97091, G: 224.9810, H: 0.0,
		}),
	})

	return NewSpecies("N2", 0.0280134, td)
}

func NewAr() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 6000.0, 20.786),
	})

	return NewSpecies("Ar", 0.039948, td)
}

func NewFe() *Species {
	// NIST data is very conflicting for iron. Using simplified data.
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 25.09),
		mustShomate(298.0, 1809.0, thermo.ShomateCoeffs{
			A: 23.97449, B: 8.367750, C: 0.000277, D: -0.000086,
			E: -0.000005, F: 0.268027, G: 62.06336, H: 7.788015,
		}),
		mustSimpleCp(1809.0, 3133.345, 46.02400),
	}, thermo.LatentHeat{TempKelvin: 1811.15, LatentHeatJoules: 13810.0})

	return NewSpecies("Fe", 0.055845, td).WithFormationEnthalpy(0.0)
}

func NewFeO() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 49.93),
		mustShomate(298.0, 1650.0, thermo.ShomateCoeffs{
			A: 45.75120, B: 18.78553, C: -5.952201, D: 0.852779,
			E: -0.081265, F: -286.7429, G: 110.3120, H: -272.0441,
		}),
		mustShomate(1650.0, 5000.0, thermo.ShomateCoeffs{
			A: 68.19920, F: -281.4326, G: 137.8377, H: -249.5321,
		}),
	}, thermo.LatentHeat{TempKelvin: 1650.15, LatentHeatJoules: 24100.0})

	return NewSpecies("FeO", 0.055845+0.0319988*0.5, td).WithFormationEnthalpy(-272.0e3)
}

func NewFe3O4() *Species {
	// The published Shomate fit looks odd, but running with it.
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 147.183),
		mustShomate(298.0, 900.0, thermo.ShomateCoeffs{
			A: 104.2096, B: 178.5108, C: 10.61510, D: 1.132534,
			E: -0.994202, F: -1163.336, G: 212.0585, H: -1120.894,
		}),
		mustSimpleCp(900.0, 3000.1, 200.823),
	}, thermo.LatentHeat{TempKelvin: 1870.15, LatentHeatJoules: 138000})

	return NewSpecies("Fe3O4", 0.055845*3+0.0319988*2.0, td).WithFormationEnthalpy(-1118.4e3)
}

func NewFe2O3() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 103.7443),
		mustShomate(298.0, 950.0, thermo.ShomateCoeffs{
			A: 93.43834, B: 108.3577, C: -50.86447, D: 25.58683,
			E: -1.611330, F: -863.2094, G: 161.0719, H: -825.5032,
		}),
		mustSimpleCp(950.0, 1050.0, 150.6240),
		// Published max was 2500 K, extended to 3000 K.
		mustShomate(1050.0, 3000.1, thermo.ShomateCoeffs{
			A: 110.9362, B: 32.04714, C: -9.192333, D: 0.901506,
			E: 5.433677, F: -843.1471, G: 228.3548, H: -825.5032,
		}),
	}, thermo.LatentHeat{TempKelvin: 1838.15, LatentHeatJoules: 87000})

	return NewSpecies("Fe2O3", 0.055845*2+0.0319988*1.5, td).WithFormationEnthalpy(-824.2e3)
}

func NewC() *Species {
	// Simplified, but not a large input material.
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 3000.1, 10.68),
	})

	// Graphite enthalpy of formation.
	return NewSpecies("C", 0.012011, td).WithFormationEnthalpy(0.0)
}

func NewCO() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 29.15),
		mustShomate(298.0, 1300.0, thermo.ShomateCoeffs{
			A: 25.56759, B: 6.096130, C: 4.054656, D: -2.671301,
			E: 0.131021, F: -118.0089, G: 227.3665, H: -110.5271,
		}),
		mustShomate(1300.0, 6000.0, thermo.ShomateCoeffs{
			A: 35.15070, B: 1.300095, C: -0.205921, D: 0.013550,
			E: -3.282780, F: -127.8375, G: 231.7120, H: -110.5271,
		}),
	})

	return NewSpecies("CO", 0.012011+0.0319988*0.5, td).WithFormationEnthalpy(-110.53e3)
}

func NewCO2() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustShomate(273.15, 1200.0, thermo.ShomateCoeffs{
			A: 24.99735, B: 55.18696, C: 55.18696, D: -33.69137,
			E: 7.948387, F: -0.136638, G: -403.6075, H: 228.2431,
		}),
		mustShomate(1200.0, 6000.0, thermo.ShomateCoeffs{
			A: 58.16639, B: 2.720074, C: -0.492289, D: 0.038844,
			E: -6.447293, F: -425.9186, G: 263.6125, H: -393.5224,
		}),
	})

	return NewSpecies("CO2", 0.012011+0.0319988, td).WithFormationEnthalpy(-393.51e3)
}

func NewAl2O3() *Species {
	// Adding flux should reduce the melting point, and possibly affect the
	// latent heat value as well.
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 81.0885),
		mustShomate(298.0, 2327.0, thermo.ShomateCoeffs{
			A: 106.9180, B: 36.62190, C: -13.97590, D: 2.157990,
			E: -3.157761, F: -1710.500, G: 151.7920, H: -1666.490,
		}),
		mustSimpleCp(2327.0, 4000.0, 192.4640),
	}, thermo.LatentHeat{TempKelvin: 2345.15, LatentHeatJoules: 111100})

	return NewSpecies("Al2O3", 0.101961, td)
}

func NewSi() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 44.57),
		mustShomate(298.0, 1685.0, thermo.ShomateCoeffs{
			A: 22.81719, B: 3.899510, C: -0.082885, D: 0.042111,
			E: -0.354063, F: -8.163946, G: 43.27846, H: 0.0,
		}),
		mustSimpleCp(1685.0, 3504.616, 27.19604),
	}, thermo.LatentHeat{TempKelvin: 1414.0, LatentHeatJoules: 50210})

	return NewSpecies("Si", 0.0280855, td).WithFormationEnthalpy(0.0)
}

func NewSiO2() *Species {
	// Adding flux should reduce the melting point, and possibly affect the
	// latent heat value as well.
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 44.57),
		mustShomate(298.0, 847.0, thermo.ShomateCoeffs{
			A: -6.076591, B: 251.6755, C: -324.7964, D: 168.5604,
			E: 0.002548, F: -917.6893, G: -27.96962, H: -910.8568,
		}),
		mustShomate(847.0, 1996.0, thermo.ShomateCoeffs{
			A: 58.75340, B: 10.27925, C: -0.131384, D: 0.025210,
			E: 0.025601, F: -929.3292, G: 105.8092, H: -910.8568,
		}),
		mustSimpleCp(1996.0, 3000.1, 77.99), // NIST data does not go higher
	}, thermo.LatentHeat{TempKelvin: 1983.15, LatentHeatJoules: 9600})

	return NewSpecies("SiO2", 0.060084, td).WithFormationEnthalpy(-910.7e3)
}

func NewCaO() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 42.09),
		mustShomate(298.0, 3200.0, thermo.ShomateCoeffs{ // solid phase
			A: 49.95403, B: 4.887916, C: -0.352056, D: 0.046187,
			E: -0.825097, F: -652.9718, G: 92.56096, H: -635.0894,
		}),
		mustSimpleCp(3200.0, 4500.0, 62.76000), // liquid phase
	}, thermo.LatentHeat{TempKelvin: 2845.15, LatentHeatJoules: 80000})

	return NewSpecies("CaO", 0.0560774, td)
}

func NewMgO() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustSimpleCp(273.15, 298.0, 37.01),
		mustShomate(298.0, 3105.0, thermo.ShomateCoeffs{ // solid phase
			A: 47.25995, B: 5.681621, C: -0.872665, D: 0.104300,
			E: -1.053955, F: -619.1316, G: 76.46176, H: -601.2408,
		}),
		mustSimpleCp(3105.0, 5000.0, 66.944), // liquid phase
	}, thermo.LatentHeat{TempKelvin: 3098.15, LatentHeatJoules: 77000})

	return NewSpecies("MgO", 0.0403044, td)
}

func NewCH4() *Species {
	td := mustThermoData([]thermo.HeatCapacity{
		mustShomate(273.15, 1300.0, thermo.ShomateCoeffs{
			A: -0.703029, B: 108.4773, C: -42.52157, D: 5.862788,
			E: 0.678565, F: -76.84376, G: 158.7163, H: -74.87310,
		}),
		mustShomate(1300.0, 6000.0, thermo.ShomateCoeffs{
			A: 85.81217, B: 11.26467, C: -2.114146, D: 0.138190,
			E: -26.42221, F: -153.5327, G: 224.4143, H: -95.74984,
		}),
	})

	return NewSpecies("CH4", 0.012011+2.0*0.00201588, td).WithFormationEnthalpy(-74.6e3)
}

// NewScrap returns steel scrap, approximated with iron data.
func NewScrap() *Species {
	s := NewFe()
	s.SetName("Scrap")

	return s
}

// NewAir returns an air mixture of the given total mass.
func NewAir(massKg float64) *Mixture {
	n2 := NewN2()
	_ = n2.SetMass(massKg * 0.7812)
	o2 := NewO2()
	_ = o2.SetMass(massKg * 0.2095)
	ar := NewAr()
	_ = ar.SetMass(massKg * 0.0093)

	return NewMixture("Air", []*Species{n2, o2, ar})
}
