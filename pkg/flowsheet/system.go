package flowsheet

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Boundary vertex names. Flows from InputBoundary or to OutputBoundary cross
// the system boundary and count towards the plant's consumables and products.
const (
	InputBoundary  = "system input"
	OutputBoundary = "system output"
)

// FlowRecord ties a flow to the edge it travels along. Key is the name the
// flow was registered under, which stays fixed even when the flow object is
// renamed during the calculation.
type FlowRecord struct {
	From string
	To   string
	Key  string
	Flow Flow
}

// SolveFunc populates the mass and energy flows of a system from its system
// variables.
type SolveFunc func(*System) error

// System is a steel plant flowsheet: devices, the flows between them, and
// the variables steering the mass and energy flow calculation.
type System struct {
	name           string
	annualCapacity float64
	lifetimeYears  float64

	devices     map[string]*Device
	deviceOrder []string
	flows       []FlowRecord
	graph       graph.Graph[string, string]

	systemVars    map[string]any
	lcopBreakdown map[string]float64
	solveFunc     SolveFunc
}

// NewSystem returns an empty system. annualCapacity is in tonnes of liquid
// steel per year.
func NewSystem(name string, annualCapacity, lifetimeYears float64) *System {
	g := graph.New(graph.StringHash, graph.Directed())
	_ = g.AddVertex(InputBoundary)
	_ = g.AddVertex(OutputBoundary)

	return &System{
		name:           name,
		annualCapacity: annualCapacity,
		lifetimeYears:  lifetimeYears,
		devices:        make(map[string]*Device),
		graph:          g,
		systemVars:     make(map[string]any),
	}
}

func (s *System) Name() string        { return s.name }
func (s *System) SetName(name string) { s.name = name }

// AnnualCapacity returns the plant capacity [tonnes of steel / year].
func (s *System) AnnualCapacity() float64 { return s.annualCapacity }

func (s *System) LifetimeYears() float64 { return s.lifetimeYears }

// SolveFunc returns the mass and energy flow routine attached to the system.
func (s *System) SolveFunc() SolveFunc { return s.solveFunc }

func (s *System) SetSolveFunc(f SolveFunc) { s.solveFunc = f }

// AddDevice registers a device. Device names must be unique.
func (s *System) AddDevice(d *Device) error {
	if _, ok := s.devices[d.name]; ok {
		return errors.Wrap(ErrDeviceExists, d.name)
	}
	if err := s.graph.AddVertex(d.name); err != nil {
		return errors.Wrapf(err, "unable to add device %s", d.name)
	}
	s.devices[d.name] = d
	s.deviceOrder = append(s.deviceOrder, d.name)

	return nil
}

// RemoveDevice disconnects and deletes a device. Every flow to or from it is
// dropped from the system and detached from the connected devices.
func (s *System) RemoveDevice(name string) error {
	if _, ok := s.devices[name]; !ok {
		return errors.Wrap(ErrDeviceNotFound, name)
	}

	kept := s.flows[:0]
	for _, r := range s.flows {
		if r.From != name && r.To != name {
			kept = append(kept, r)

			continue
		}
		if r.From != name {
			if other, ok := s.devices[r.From]; ok {
				other.removeOutput(r.Key)
			}
		}
		if r.To != name {
			if other, ok := s.devices[r.To]; ok {
				other.removeInput(r.Key)
			}
		}
		if err := s.removeEdge(r.From, r.To); err != nil {
			return errors.Wrapf(err, "unable to remove device %s", name)
		}
	}
	s.flows = kept

	if err := s.graph.RemoveVertex(name); err != nil {
		return errors.Wrapf(err, "unable to remove device %s", name)
	}
	delete(s.devices, name)
	for i, n := range s.deviceOrder {
		if n == name {
			s.deviceOrder = append(s.deviceOrder[:i], s.deviceOrder[i+1:]...)

			break
		}
	}

	return nil
}

// Device returns the named device.
func (s *System) Device(name string) (*Device, error) {
	d, ok := s.devices[name]
	if !ok {
		return nil, errors.Wrap(ErrDeviceNotFound, name)
	}

	return d, nil
}

// HasDevice reports whether the named device exists.
func (s *System) HasDevice(name string) bool {
	_, ok := s.devices[name]

	return ok
}

// DeviceNames returns the device names in the order they were added.
func (s *System) DeviceNames() []string {
	names := make([]string, len(s.deviceOrder))
	copy(names, s.deviceOrder)

	return names
}

// DevicesContainingName returns the names of all devices whose name contains
// the given substring, in the order they were added.
func (s *System) DevicesContainingName(substr string) []string {
	var names []string
	for _, name := range s.deviceOrder {
		if containsFold(name, substr) {
			names = append(names, name)
		}
	}

	return names
}

// AddFlow connects two devices with a flow. The flow object is shared: the
// upstream device sees it as an output, the downstream device as an input,
// and updating it in place updates both.
func (s *System) AddFlow(from, to string, f Flow) error {
	return s.registerFlow(FlowRecord{From: from, To: to, Key: f.Name(), Flow: f})
}

// AddInput connects a flow from the system boundary to a device.
func (s *System) AddInput(to string, f Flow) error {
	return s.registerFlow(FlowRecord{From: InputBoundary, To: to, Key: f.Name(), Flow: f})
}

// AddOutput connects a flow from a device to the system boundary.
func (s *System) AddOutput(from string, f Flow) error {
	return s.registerFlow(FlowRecord{From: from, To: OutputBoundary, Key: f.Name(), Flow: f})
}

func (s *System) registerFlow(r FlowRecord) error {
	var fromDevice, toDevice *Device
	var err error
	if r.From != InputBoundary {
		fromDevice, err = s.Device(r.From)
		if err != nil {
			return errors.Wrapf(err, "unable to add flow %s", r.Key)
		}
	}
	if r.To != OutputBoundary {
		toDevice, err = s.Device(r.To)
		if err != nil {
			return errors.Wrapf(err, "unable to add flow %s", r.Key)
		}
	}

	if err := s.addEdge(r.From, r.To); err != nil {
		return errors.Wrapf(err, "unable to add flow %s", r.Key)
	}

	if fromDevice != nil {
		fromDevice.addOutput(r.Key, r.Flow)
	}
	if toDevice != nil {
		toDevice.addInput(r.Key, r.Flow)
	}
	s.flows = append(s.flows, r)

	return nil
}

// Parallel flows between the same pair of devices share a single graph edge.
func (s *System) addEdge(from, to string) error {
	err := s.graph.AddEdge(from, to)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return err
	}

	return nil
}

func (s *System) removeEdge(from, to string) error {
	err := s.graph.RemoveEdge(from, to)
	if err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
		return err
	}

	return nil
}

// GetFlow returns the flow registered under the given name travelling from
// one device to another.
func (s *System) GetFlow(from, to, name string) (Flow, error) {
	for _, r := range s.flows {
		if r.From == from && r.To == to && r.Key == name {
			return r.Flow, nil
		}
	}

	return nil, errors.Wrapf(ErrFlowNotFound, "%s from %s to %s", name, from, to)
}

// GetInput returns the named input flow of a device, from any source.
func (s *System) GetInput(device, name string) (Flow, error) {
	d, err := s.Device(device)
	if err != nil {
		return nil, err
	}
	f, ok := d.Input(name)
	if !ok {
		return nil, errors.Wrapf(ErrFlowNotFound, "input %s on device %s", name, device)
	}

	return f, nil
}

// GetOutput returns the named output flow of a device, to any target.
func (s *System) GetOutput(device, name string) (Flow, error) {
	d, err := s.Device(device)
	if err != nil {
		return nil, err
	}
	f, ok := d.Output(name)
	if !ok {
		return nil, errors.Wrapf(ErrFlowNotFound, "output %s on device %s", name, device)
	}

	return f, nil
}

// Flows returns every flow record in the order the flows were connected.
// The records alias the live flow objects.
func (s *System) Flows() []FlowRecord {
	records := make([]FlowRecord, len(s.flows))
	copy(records, s.flows)

	return records
}

// Graph exposes the device connectivity for rendering.
func (s *System) Graph() graph.Graph[string, string] { return s.graph }
