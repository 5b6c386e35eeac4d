package flowsheet

import (
	"strings"

	"github.com/pkg/errors"
)

// flowEntry pins a flow to the name it was registered under. Calculations
// may rename the flow object itself, lookups always use the registration
// key.
type flowEntry struct {
	key  string
	flow Flow
}

// Device is a unit of the plant: a furnace, a heat exchanger, an
// electrolyser. Flows in and out are registered by the System when the
// devices are connected.
type Device struct {
	name       string
	capexLabel string
	capex      float64

	inputs  []flowEntry
	outputs []flowEntry

	deviceVars map[string]any
}

// NewDevice returns a device. capexLabel names the entry in the price table
// used to cost the device, and may be empty for devices costed elsewhere or
// not at all.
func NewDevice(name, capexLabel string) *Device {
	return &Device{
		name:       name,
		capexLabel: capexLabel,
		deviceVars: make(map[string]any),
	}
}

func (d *Device) Name() string { return d.name }

func (d *Device) CapexLabel() string { return d.capexLabel }

// Capex returns the purchase cost of the device [USD].
func (d *Device) Capex() float64 { return d.capex }

func (d *Device) SetCapex(usd float64) { d.capex = usd }

// DeviceVars holds sizing results and other per-device metadata.
func (d *Device) DeviceVars() map[string]any { return d.deviceVars }

func (d *Device) addInput(key string, f Flow) {
	d.inputs = append(d.inputs, flowEntry{key: key, flow: f})
}

func (d *Device) addOutput(key string, f Flow) {
	d.outputs = append(d.outputs, flowEntry{key: key, flow: f})
}

func (d *Device) removeInput(key string) {
	for i, e := range d.inputs {
		if e.key == key {
			d.inputs = append(d.inputs[:i], d.inputs[i+1:]...)

			return
		}
	}
}

func (d *Device) removeOutput(key string) {
	for i, e := range d.outputs {
		if e.key == key {
			d.outputs = append(d.outputs[:i], d.outputs[i+1:]...)

			return
		}
	}
}

// Inputs returns the input flows in the order they were connected.
func (d *Device) Inputs() []Flow {
	flows := make([]Flow, len(d.inputs))
	for i, e := range d.inputs {
		flows[i] = e.flow
	}

	return flows
}

func (d *Device) Outputs() []Flow {
	flows := make([]Flow, len(d.outputs))
	for i, e := range d.outputs {
		flows[i] = e.flow
	}

	return flows
}

// Input returns the input flow registered under the given name.
func (d *Device) Input(name string) (Flow, bool) {
	for _, e := range d.inputs {
		if e.key == name {
			return e.flow, true
		}
	}

	return nil, false
}

func (d *Device) Output(name string) (Flow, bool) {
	for _, e := range d.outputs {
		if e.key == name {
			return e.flow, true
		}
	}

	return nil, false
}

// FirstInputContaining returns the first input flow whose registered name
// contains the given substring, ignoring case.
func (d *Device) FirstInputContaining(substr string) (Flow, error) {
	for _, e := range d.inputs {
		if strings.Contains(strings.ToLower(e.key), strings.ToLower(substr)) {
			return e.flow, nil
		}
	}

	return nil, errors.Wrapf(ErrFlowNotFound, "input containing %q on device %s", substr, d.name)
}

func (d *Device) FirstOutputContaining(substr string) (Flow, error) {
	for _, e := range d.outputs {
		if strings.Contains(strings.ToLower(e.key), strings.ToLower(substr)) {
			return e.flow, nil
		}
	}

	return nil, errors.Wrapf(ErrFlowNotFound, "output containing %q on device %s", substr, d.name)
}

// EnergyBalance returns energy out minus energy in [J] over all flows.
// Zero once the device is fully solved.
func (d *Device) EnergyBalance() (float64, error) {
	out, err := sumEnergy(d.outputs)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to compute energy balance of %s", d.name)
	}
	in, err := sumEnergy(d.inputs)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to compute energy balance of %s", d.name)
	}

	return out - in, nil
}

// ThermalEnergyBalance is the energy balance over the material flows only,
// ignoring electricity, chemical energy and losses.
func (d *Device) ThermalEnergyBalance() (float64, error) {
	out, err := sumThermalEnergy(d.outputs)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to compute thermal energy balance of %s", d.name)
	}
	in, err := sumThermalEnergy(d.inputs)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to compute thermal energy balance of %s", d.name)
	}

	return out - in, nil
}

// MassBalance returns mass out minus mass in [kg].
func (d *Device) MassBalance() float64 {
	balance := 0.0
	for _, e := range d.outputs {
		balance += e.flow.Mass()
	}
	for _, e := range d.inputs {
		balance -= e.flow.Mass()
	}

	return balance
}

func sumEnergy(entries []flowEntry) (float64, error) {
	total := 0.0
	for _, e := range entries {
		energy, err := e.flow.Energy()
		if err != nil {
			return 0, errors.Wrapf(err, "flow %s", e.key)
		}
		total += energy
	}

	return total, nil
}

func sumThermalEnergy(entries []flowEntry) (float64, error) {
	total := 0.0
	for _, e := range entries {
		if _, ok := e.flow.(*EnergyFlow); ok {
			continue
		}
		energy, err := e.flow.Energy()
		if err != nil {
			return 0, errors.Wrapf(err, "flow %s", e.key)
		}
		total += energy
	}

	return total, nil
}
