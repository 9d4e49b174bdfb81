package device

import "github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"

const (
	// Probe discovery errors
	ErrNoThermalZone = errors.ErrorCode("device_no_thermal_zone")
	ErrNoBattery     = errors.ErrorCode("device_no_battery")

	// Read errors
	ErrThermalReadFailed = errors.ErrorCode("device_thermal_read_failed")
	ErrBatteryReadFailed = errors.ErrorCode("device_battery_read_failed")

	// NVML errors
	ErrNVMLInitFailed     = errors.ErrorCode("device_nvml_init_failed")
	ErrNVMLDeviceNotFound = errors.ErrorCode("device_nvml_device_not_found")
	ErrNVMLReadFailed     = errors.ErrorCode("device_nvml_read_failed")
	ErrNVMLShutdownFailed = errors.ErrorCode("device_nvml_shutdown_failed")
)
