package device

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

// nvmlThermalProbe reads the GPU core temperature through NVML. On hosts
// with a discrete GPU this is usually the hottest component and the best
// stand-in for the device temperature.
type nvmlThermalProbe struct {
	device      nvml.Device
	initialized bool
}

// NewNVMLThermalProbe initializes NVML and binds to the first device.
func NewNVMLThermalProbe() (ThermalProbe, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); !isNVMLSuccess(ret) {
		return nil, errFactory.Wrap(ErrNVMLInitFailed, newNVMLError(ret))
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if !isNVMLSuccess(ret) {
		_ = nvml.Shutdown()
		return nil, errFactory.Wrap(ErrNVMLDeviceNotFound, newNVMLError(ret))
	}

	if name, ret := device.GetName(); isNVMLSuccess(ret) {
		logger.Info().Msgf("Detected GPU: %v", name)
	}

	return &nvmlThermalProbe{device: device, initialized: true}, nil
}

func (p *nvmlThermalProbe) ReadTemperature() (float64, error) {
	errFactory := errors.New()

	if !p.initialized {
		return 0, errFactory.New(ErrNVMLReadFailed)
	}

	temp, ret := p.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if !isNVMLSuccess(ret) {
		return 0, errFactory.Wrap(ErrNVMLReadFailed, newNVMLError(ret))
	}

	return float64(temp), nil
}

func (p *nvmlThermalProbe) Close() error {
	errFactory := errors.New()

	if !p.initialized {
		return nil
	}
	p.initialized = false

	if ret := nvml.Shutdown(); !isNVMLSuccess(ret) {
		return errFactory.Wrap(ErrNVMLShutdownFailed, newNVMLError(ret))
	}

	return nil
}

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

func (e *nvmlError) Error() string {
	return nvml.ErrorString(e.ret)
}

func newNVMLError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return &nvmlError{ret: ret}
}

func isNVMLSuccess(ret nvml.Return) bool {
	return ret == nvml.SUCCESS
}
