// Package sampler collects raw device metrics into a fixed-size ring
// buffer and maintains incrementally-updated aggregates. All methods are
// called from the single control goroutine; probe reads are fail-soft and
// carry the last known value forward on error.
package sampler

import (
	"time"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/device"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

const DefaultWindowSize = 60

// MetricSample is an immutable record of all tracked metrics at one instant.
type MetricSample struct {
	Timestamp      time.Time
	FrameTime      time.Duration
	AllocatedBytes uint64
	BatteryLevel   float64
	IsCharging     bool
	DeviceTempC    float64
}

// Sampler owns the ring buffer exclusively; consumers receive value
// snapshots, never buffer handles.
type Sampler struct {
	thermal device.ThermalProbe
	battery device.BatteryProbe
	memory  device.MemoryProbe

	ring  []MetricSample
	head  int
	count int

	frameSum time.Duration
	allocSum uint64

	last MetricSample
}

// New creates a sampler with the given window capacity. The ambient
// temperature seeds the thermal reading so the throttle curve starts at
// full performance before the first probe completes.
func New(window int, ambientTempC float64, thermal device.ThermalProbe, battery device.BatteryProbe, memory device.MemoryProbe) *Sampler {
	if window <= 0 {
		window = DefaultWindowSize
	}

	return &Sampler{
		thermal: thermal,
		battery: battery,
		memory:  memory,
		ring:    make([]MetricSample, window),
		last: MetricSample{
			BatteryLevel: 1.0,
			DeviceTempC:  ambientTempC,
		},
	}
}

// RecordFrame records one frame's timing, combined with the last known
// slow-path readings. The oldest slot is overwritten once the window fills.
func (s *Sampler) RecordFrame(now time.Time, frameTime time.Duration) {
	sample := s.last
	sample.Timestamp = now
	sample.FrameTime = frameTime

	if s.count == len(s.ring) {
		evicted := s.ring[s.head]
		s.frameSum -= evicted.FrameTime
		s.allocSum -= evicted.AllocatedBytes
	} else {
		s.count++
	}

	s.ring[s.head] = sample
	s.head = (s.head + 1) % len(s.ring)
	s.frameSum += frameTime
	s.allocSum += sample.AllocatedBytes

	s.last = sample
}

// SampleSlow reads the battery, thermal, and memory probes. Each read is
// fail-soft: on error the previous value is carried forward.
func (s *Sampler) SampleSlow() {
	if s.thermal != nil {
		if temp, err := s.thermal.ReadTemperature(); err == nil {
			s.last.DeviceTempC = temp
		} else {
			logger.Debug().Err(err).Msg("Thermal probe read failed, carrying forward last value")
		}
	}

	if s.battery != nil {
		if reading, err := s.battery.ReadBattery(); err == nil {
			s.last.BatteryLevel = reading.Level
			s.last.IsCharging = reading.Charging
		} else {
			logger.Debug().Err(err).Msg("Battery probe read failed, carrying forward last value")
		}
	}

	if s.memory != nil {
		if allocated, err := s.memory.ReadAllocated(); err == nil {
			s.last.AllocatedBytes = allocated
		} else {
			logger.Debug().Err(err).Msg("Memory probe read failed, carrying forward last value")
		}
	}
}

// AverageFrameTime returns the mean frame time over the window in O(1).
func (s *Sampler) AverageFrameTime() time.Duration {
	if s.count == 0 {
		return 0
	}

	return s.frameSum / time.Duration(s.count)
}

// AverageAllocated returns the mean allocated bytes over the window.
func (s *Sampler) AverageAllocated() uint64 {
	if s.count == 0 {
		return 0
	}

	return s.allocSum / uint64(s.count)
}

// PeakAllocated scans the window for the highest allocation seen.
func (s *Sampler) PeakAllocated() uint64 {
	var peak uint64
	for i := 0; i < s.count; i++ {
		if s.ring[i].AllocatedBytes > peak {
			peak = s.ring[i].AllocatedBytes
		}
	}

	return peak
}

// Latest returns a copy of the most recent sample.
func (s *Sampler) Latest() MetricSample {
	return s.last
}

// Len returns the number of samples currently held.
func (s *Sampler) Len() int {
	return s.count
}

// Close releases the underlying probes.
func (s *Sampler) Close() {
	if s.thermal != nil {
		if err := s.thermal.Close(); err != nil {
			logger.Debug().Err(err).Msg("Failed to close thermal probe")
		}
	}
	if s.battery != nil {
		if err := s.battery.Close(); err != nil {
			logger.Debug().Err(err).Msg("Failed to close battery probe")
		}
	}
}
