package device

// BatteryReading is a single observation of the battery state.
type BatteryReading struct {
	Level    float64 // fraction of full charge in [0, 1]
	Charging bool
}

// ThermalProbe reads the device temperature in degrees Celsius.
// Reads may fail on platforms without an exposed sensor; callers are
// expected to carry forward the last known value.
type ThermalProbe interface {
	ReadTemperature() (float64, error)
	Close() error
}

// BatteryProbe reads the battery level and charging state.
type BatteryProbe interface {
	ReadBattery() (BatteryReading, error)
	Close() error
}

// MemoryProbe reads the currently allocated heap bytes.
type MemoryProbe interface {
	ReadAllocated() (uint64, error)
}
