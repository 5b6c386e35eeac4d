package flowsheet

import "github.com/pkg/errors"

var (
	ErrDeviceNotFound      = errors.New("no device with that name in the system")
	ErrDeviceExists        = errors.New("a device with that name already exists")
	ErrFlowNotFound        = errors.New("no flow with that name")
	ErrUnsupportedFlowType = errors.New("unsupported flow type")
	ErrFlowTypeMismatch    = errors.New("flow types do not match")
	ErrVarNotFound         = errors.New("system variable is not set")
	ErrVarWrongType        = errors.New("system variable has the wrong type")
	ErrEnergyBalance       = errors.New("device energy balance is not closed")
	ErrMassBalance         = errors.New("device mass balance is not closed")
)
