// Package costs turns a solved plant flowsheet into a levelised cost of
// production: capex of every device, operating costs from the system inputs
// and the CO2 equivalent emissions from the system outputs.
package costs

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PriceUnits is the unit a price entry is quoted in.
type PriceUnits string

const (
	PerKilogram              PriceUnits = "PerKilogram"
	PerTonne                 PriceUnits = "PerTonne"
	PerMegaWattHour          PriceUnits = "PerMegaWattHour"
	PerDevice                PriceUnits = "PerDevice"
	PerTonneOfAnnualCapacity PriceUnits = "PerTonneOfAnnualCapacity"
	PerTonneOfProduct        PriceUnits = "PerTonneOfProduct"
	PerKilogramOfCapacity    PriceUnits = "PerKilogramOfCapacity"
	PerKiloWattOfCapacity    PriceUnits = "PerKiloWattOfCapacity"
)

var ErrUnknownPriceUnits = errors.New("unknown price units")

func (u PriceUnits) Validate() error {
	switch u {
	case PerKilogram, PerTonne, PerMegaWattHour, PerDevice, PerTonneOfAnnualCapacity,
		PerTonneOfProduct, PerKilogramOfCapacity, PerKiloWattOfCapacity:
		return nil
	default:
		return errors.Wrapf(ErrUnknownPriceUnits, "%q", string(u))
	}
}

// PriceEntry is the price of one commodity, consumable or device.
type PriceEntry struct {
	Name     string     `yaml:"name"`
	PriceUSD float64    `yaml:"price_usd"`
	Units    PriceUnits `yaml:"units"`
}

// Prices maps the name of a commodity, consumable or capex label to its
// price. Lookups are case insensitive.
type Prices map[string]PriceEntry

// LoadPrices reads a price list from a yaml file.
func LoadPrices(path string) (Prices, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load the prices")
	}

	var entries []PriceEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "unable to load the prices")
	}

	prices := make(Prices, len(entries))
	for _, entry := range entries {
		if err := entry.Units.Validate(); err != nil {
			return nil, errors.Wrapf(err, "unable to load the price of %s", entry.Name)
		}
		prices[entry.Name] = entry
	}

	return prices, nil
}

// Clone deep copies the price list, so sensitivity runs can perturb a price
// without touching the base case.
func (p Prices) Clone() Prices {
	clone := make(Prices, len(p))
	for k, v := range p {
		clone[k] = v
	}

	return clone
}

// lower returns a copy keyed by the lower cased names, erroring on clashes.
func (p Prices) lower() (Prices, error) {
	lowered := make(Prices, len(p))
	for k, v := range p {
		lowered[strings.ToLower(k)] = v
	}
	if len(lowered) != len(p) {
		return nil, errors.New("price names clash when compared case insensitively")
	}

	return lowered, nil
}
