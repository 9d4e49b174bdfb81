// Package profiler keeps a bounded history of metric snapshots, flags
// threshold violations, and renders summary reports. It observes the metric
// stream passively and never actuates anything.
package profiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/quality"
)

const DefaultHistorySize = 120

// Analytics receives violation and change events, fire-and-forget.
type Analytics interface {
	LogPerformanceEvent(name string, value float64)
	LogCustomEvent(name string, fields map[string]any)
}

// Snapshot is a denormalized copy of all tracked metrics plus context,
// immutable once captured.
type Snapshot struct {
	Timestamp       time.Time
	SceneID         string
	QualityLevel    quality.Level
	FrameTime       time.Duration
	AvgFrameTime    time.Duration
	AllocatedBytes  uint64
	BatteryLevel    float64
	IsCharging      bool
	DeviceTempC     float64
	ThrottleFactor  float64
	EmergencyActive bool
}

// Violation is one detected threshold breach.
type Violation struct {
	Kind  string
	Value float64
}

// Thresholds are fixed at construction for the session.
type Thresholds struct {
	MaxFrameTime      time.Duration
	MaxAllocatedBytes uint64
	MinBatteryLevel   float64
}

// Profiler holds the bounded FIFO history. Oldest snapshots are dropped
// first; recency of telemetry is what matters.
type Profiler struct {
	capacity   int
	thresholds Thresholds
	analytics  Analytics

	history []Snapshot
	sceneID string

	violations uint64
}

func New(capacity int, thresholds Thresholds, analytics Analytics) *Profiler {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}

	return &Profiler{
		capacity:   capacity,
		thresholds: thresholds,
		analytics:  analytics,
		history:    make([]Snapshot, 0, capacity),
	}
}

// SetScene tags subsequent snapshots with the active scene.
func (p *Profiler) SetScene(id string) {
	p.sceneID = id
}

// CaptureSnapshot records the snapshot into the history and reports any
// violations it contains. It returns the snapshot as stored, with the
// scene tag applied. Never fails.
func (p *Profiler) CaptureSnapshot(snap Snapshot) Snapshot {
	snap.SceneID = p.sceneID

	if len(p.history) == p.capacity {
		p.history = p.history[1:]
	}
	p.history = append(p.history, snap)

	for _, v := range p.DetectViolations(snap) {
		p.violations++
		logger.Warn().Str("kind", v.Kind).Float64("value", v.Value).Msg("Performance threshold violated")
		if p.analytics != nil {
			p.analytics.LogPerformanceEvent("violation_"+v.Kind, v.Value)
		}
	}

	return snap
}

// DetectViolations compares one snapshot against the fixed thresholds. It
// reports breaches, never errors.
func (p *Profiler) DetectViolations(snap Snapshot) []Violation {
	var violations []Violation

	if p.thresholds.MaxFrameTime > 0 && snap.FrameTime > p.thresholds.MaxFrameTime {
		violations = append(violations, Violation{
			Kind:  "frame_time",
			Value: float64(snap.FrameTime.Milliseconds()),
		})
	}
	if p.thresholds.MaxAllocatedBytes > 0 && snap.AllocatedBytes > p.thresholds.MaxAllocatedBytes {
		violations = append(violations, Violation{
			Kind:  "memory",
			Value: float64(snap.AllocatedBytes),
		})
	}
	if p.thresholds.MinBatteryLevel > 0 && snap.BatteryLevel < p.thresholds.MinBatteryLevel {
		violations = append(violations, Violation{
			Kind:  "battery",
			Value: snap.BatteryLevel,
		})
	}

	return violations
}

// QualityChanged implements quality.ChangeObserver so level transitions
// land in the event stream.
func (p *Profiler) QualityChanged(previous, current quality.Level, reason string) {
	if p.analytics == nil {
		return
	}

	p.analytics.LogCustomEvent("quality_changed", map[string]any{
		"from":   previous.String(),
		"to":     current.String(),
		"reason": reason,
	})
}

// History returns a copy of the retained snapshots, oldest first.
func (p *Profiler) History() []Snapshot {
	out := make([]Snapshot, len(p.history))
	copy(out, p.history)

	return out
}

// Len returns the number of retained snapshots.
func (p *Profiler) Len() int {
	return len(p.history)
}

// Report aggregates the most recent snapshots.
type Report struct {
	Snapshots     int
	Window        time.Duration
	AvgFrameTime  time.Duration
	PeakFrameTime time.Duration
	AvgAllocated  uint64
	PeakAllocated uint64
	MinBattery    float64
	AvgThrottle   float64
	PeakTempC     float64
	Violations    uint64
	QualityLevel  quality.Level
}

// GenerateReport summarises the most recent k snapshots (all when k <= 0 or
// larger than the history).
func (p *Profiler) GenerateReport(k int) Report {
	n := len(p.history)
	if k <= 0 || k > n {
		k = n
	}

	report := Report{Snapshots: k, Violations: p.violations, MinBattery: 1.0}
	if k == 0 {
		return report
	}

	recent := p.history[n-k:]
	var frameSum time.Duration
	var allocSum uint64
	var throttleSum float64

	for _, snap := range recent {
		frameSum += snap.FrameTime
		allocSum += snap.AllocatedBytes
		throttleSum += snap.ThrottleFactor

		if snap.FrameTime > report.PeakFrameTime {
			report.PeakFrameTime = snap.FrameTime
		}
		if snap.AllocatedBytes > report.PeakAllocated {
			report.PeakAllocated = snap.AllocatedBytes
		}
		if snap.BatteryLevel < report.MinBattery {
			report.MinBattery = snap.BatteryLevel
		}
		if snap.DeviceTempC > report.PeakTempC {
			report.PeakTempC = snap.DeviceTempC
		}
	}

	report.AvgFrameTime = frameSum / time.Duration(k)
	report.AvgAllocated = allocSum / uint64(k)
	report.AvgThrottle = throttleSum / float64(k)
	report.Window = recent[k-1].Timestamp.Sub(recent[0].Timestamp)
	report.QualityLevel = recent[k-1].QualityLevel

	return report
}

// String renders the report for humans.
func (r Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "performance report (%d snapshots over %s)\n", r.Snapshots, r.Window.Round(time.Second))
	fmt.Fprintf(&b, "  quality level:  %s\n", r.QualityLevel)
	fmt.Fprintf(&b, "  frame time:     avg %.2fms, peak %.2fms\n",
		float64(r.AvgFrameTime.Microseconds())/1000, float64(r.PeakFrameTime.Microseconds())/1000)
	fmt.Fprintf(&b, "  allocated:      avg %.1fMB, peak %.1fMB\n",
		float64(r.AvgAllocated)/(1<<20), float64(r.PeakAllocated)/(1<<20))
	fmt.Fprintf(&b, "  battery floor:  %.0f%%\n", r.MinBattery*100)
	fmt.Fprintf(&b, "  avg throttle:   %.2f\n", r.AvgThrottle)
	fmt.Fprintf(&b, "  peak temp:      %.1f°C\n", r.PeakTempC)
	fmt.Fprintf(&b, "  violations:     %d\n", r.Violations)

	return b.String()
}
