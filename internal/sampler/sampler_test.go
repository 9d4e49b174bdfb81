package sampler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/device"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/sampler"
)

type fakeThermal struct {
	temp float64
	err  error
}

func (f *fakeThermal) ReadTemperature() (float64, error) { return f.temp, f.err }
func (f *fakeThermal) Close() error                      { return nil }

type fakeBattery struct {
	reading device.BatteryReading
	err     error
}

func (f *fakeBattery) ReadBattery() (device.BatteryReading, error) { return f.reading, f.err }
func (f *fakeBattery) Close() error                                { return nil }

type fakeMemory struct {
	allocated uint64
	err       error
}

func (f *fakeMemory) ReadAllocated() (uint64, error) { return f.allocated, f.err }

func TestAverageFrameTime(t *testing.T) {
	s := sampler.New(4, 25, nil, nil, nil)
	now := time.Now()

	s.RecordFrame(now, 10*time.Millisecond)
	s.RecordFrame(now, 20*time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, s.AverageFrameTime())

	s.RecordFrame(now, 30*time.Millisecond)
	s.RecordFrame(now, 40*time.Millisecond)
	assert.Equal(t, 25*time.Millisecond, s.AverageFrameTime())
	assert.Equal(t, 4, s.Len())
}

func TestRingOverwritesOldest(t *testing.T) {
	s := sampler.New(3, 25, nil, nil, nil)
	now := time.Now()

	s.RecordFrame(now, 10*time.Millisecond)
	s.RecordFrame(now, 10*time.Millisecond)
	s.RecordFrame(now, 10*time.Millisecond)

	// A fourth sample must push the first one out of the running sum.
	s.RecordFrame(now, 40*time.Millisecond)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 20*time.Millisecond, s.AverageFrameTime())
}

func TestSampleSlowReadsProbes(t *testing.T) {
	thermal := &fakeThermal{temp: 38.5}
	battery := &fakeBattery{reading: device.BatteryReading{Level: 0.42, Charging: true}}
	memory := &fakeMemory{allocated: 128 << 20}

	s := sampler.New(8, 25, thermal, battery, memory)
	s.SampleSlow()

	latest := s.Latest()
	assert.InDelta(t, 38.5, latest.DeviceTempC, 0.001)
	assert.InDelta(t, 0.42, latest.BatteryLevel, 0.001)
	assert.True(t, latest.IsCharging)
	assert.Equal(t, uint64(128<<20), latest.AllocatedBytes)
}

func TestSampleSlowCarriesForwardOnError(t *testing.T) {
	errFactory := errors.New()
	thermal := &fakeThermal{temp: 40}
	battery := &fakeBattery{reading: device.BatteryReading{Level: 0.5}}
	memory := &fakeMemory{allocated: 64 << 20}

	s := sampler.New(8, 25, thermal, battery, memory)
	s.SampleSlow()
	require.InDelta(t, 40.0, s.Latest().DeviceTempC, 0.001)

	// Subsequent failures must not disturb the last known values.
	thermal.err = errFactory.New(device.ErrThermalReadFailed)
	battery.err = errFactory.New(device.ErrBatteryReadFailed)
	thermal.temp = 90
	battery.reading.Level = 0.01

	s.SampleSlow()
	latest := s.Latest()
	assert.InDelta(t, 40.0, latest.DeviceTempC, 0.001)
	assert.InDelta(t, 0.5, latest.BatteryLevel, 0.001)
}

func TestInitialSeedValues(t *testing.T) {
	s := sampler.New(8, 31.5, nil, nil, nil)

	latest := s.Latest()
	assert.InDelta(t, 31.5, latest.DeviceTempC, 0.001, "device temperature seeds at ambient")
	assert.InDelta(t, 1.0, latest.BatteryLevel, 0.001, "battery seeds at full")
	assert.False(t, latest.IsCharging)
}

func TestPeakAllocated(t *testing.T) {
	memory := &fakeMemory{allocated: 10}
	s := sampler.New(4, 25, nil, nil, memory)
	now := time.Now()

	for _, allocated := range []uint64{10, 50, 30} {
		memory.allocated = allocated
		s.SampleSlow()
		s.RecordFrame(now, 16*time.Millisecond)
	}

	assert.Equal(t, uint64(50), s.PeakAllocated())
	assert.Equal(t, uint64(30), s.AverageAllocated())
}
