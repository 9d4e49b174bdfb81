package telemetry

import (
	"context"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/profiler"
)

// Collector defines the core domain interface. The event methods satisfy
// the analytics collaborator contract: best-effort, failures swallowed.
type Collector interface {
	RecordSnapshot(ctx context.Context, snap *profiler.Snapshot) error
	LogPerformanceEvent(name string, value float64)
	LogCustomEvent(name string, fields map[string]any)
	Close() error
}

// Repository defines the interface for telemetry data storage
type Repository interface {
	Store(snap *profiler.Snapshot) error
	StoreEvent(name string, value float64, fields map[string]any) error
	Summary(ctx context.Context, lastN int) (*Summary, error)
	Close() error
}

// Summary is the aggregate view over the most recent snapshots, computed
// by SQL aggregates for the report command.
type Summary struct {
	Snapshots       int
	AvgFrameTimeUs  float64
	PeakFrameTimeUs int64
	AvgAllocated    float64
	PeakAllocated   int64
	MinBattery      float64
	AvgThrottle     float64
	PeakTempC       float64
	Events          int
}
