// Package governor wires the sampler, thermal evaluator, quality
// controller, and the battery and memory governors into a single aggregate
// driven by the host loop. All periodic work is dispatched from Tick via
// elapsed-time and frame-count checks; nothing here runs on its own
// goroutine except the thermal worker.
package governor

import (
	"context"
	"time"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/battery"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/config"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/device"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/memgov"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/profiler"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/quality"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/sampler"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/telemetry"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/thermal"
)

// Probes are the device metric sources. Any of them may be nil on
// platforms without the corresponding sensor; sampling degrades to
// carrying the last known value forward.
type Probes struct {
	Thermal device.ThermalProbe
	Battery device.BatteryProbe
	Memory  device.MemoryProbe
}

// Collaborators are the external actuation surfaces. Nil fields are
// replaced with no-ops.
type Collaborators struct {
	Renderer  quality.RendererKnob
	Audio     battery.AudioKnob
	Particles battery.ParticleKnob
	Haptics   battery.HapticsKnob
	Persist   battery.Persistence
	Alerter   battery.Alerter
	Unload    func()
}

// Governor is created once per session and owns every component for its
// duration.
type Governor struct {
	cfg *config.Config

	samples    *sampler.Sampler
	evaluator  *thermal.Evaluator
	memory     *memgov.Governor
	power      *battery.Governor
	controller *quality.Controller
	prof       *profiler.Profiler
	collector  telemetry.Collector
	latch      *quality.EmergencyLatch
	alerter    battery.Alerter

	monitor    bool
	frameCount int
	throttle   float64

	lastSlow     time.Time
	lastQuality  time.Time
	lastBattery  time.Time
	lastSnapshot time.Time
}

// New constructs the aggregate with explicit dependency injection. The
// collector doubles as the analytics collaborator.
func New(cfg *config.Config, probes Probes, collab Collaborators, collector telemetry.Collector) *Governor {
	if collab.Renderer == nil {
		collab.Renderer = quality.NopRenderer{}
	}
	if collab.Alerter == nil {
		collab.Alerter = battery.NopAlerter{}
	}
	if collector == nil {
		collector = mustNoopCollector()
	}

	target := time.Duration(cfg.TargetFrameTime * float64(time.Millisecond))

	latch := &quality.EmergencyLatch{}

	prof := profiler.New(cfg.HistorySize, profiler.Thresholds{
		MaxFrameTime:      target * 2,
		MaxAllocatedBytes: uint64(cfg.TotalBudgetMB) << 20,
		MinBatteryLevel:   cfg.CriticalLevel,
	}, collector)

	controller := quality.NewController(target, collab.Renderer, prof)

	memory := memgov.NewGovernor(memgov.GovernorOptions{
		Budget: memgov.Budget{
			TotalBytes:   uint64(cfg.TotalBudgetMB) << 20,
			TextureBytes: uint64(cfg.TextureBudgetMB) << 20,
			AudioBytes:   uint64(cfg.AudioBudgetMB) << 20,
		},
		GCFrameInterval: cfg.GCFrameInterval,
		Latch:           latch,
		Controller:      controller,
		Analytics:       collector,
		Unload:          collab.Unload,
	})

	power := battery.NewGovernor(battery.Options{
		LowPowerThreshold: cfg.LowPowerLevel,
		CriticalThreshold: cfg.CriticalLevel,
		NormalFrameRate:   int(1000.0/cfg.TargetFrameTime + 0.5),
		Latch:             latch,
		Controller:        controller,
		Audio:             collab.Audio,
		Particles:         collab.Particles,
		Haptics:           collab.Haptics,
		Persist:           collab.Persist,
		Alerter:           collab.Alerter,
		Defrag:            memory,
	})

	g := &Governor{
		cfg:        cfg,
		samples:    sampler.New(cfg.SampleWindow, cfg.AmbientTemp, probes.Thermal, probes.Battery, probes.Memory),
		memory:     memory,
		power:      power,
		controller: controller,
		prof:       prof,
		collector:  collector,
		latch:      latch,
		alerter:    collab.Alerter,
		monitor:    cfg.Monitor,
		throttle:   thermal.MaxThrottleFactor,
	}

	g.evaluator = thermal.NewEvaluator(cfg.AmbientTemp, cfg.CriticalTemp, g.onThermalCritical)

	return g
}

// Tick runs one control cycle for a frame that took frameTime to produce.
// Within a cycle the order is structural: sampling completes before
// evaluation, evaluation before actuation.
func (g *Governor) Tick(now time.Time, frameTime time.Duration) {
	g.frameCount++

	// Sampling. Slow readings land before the frame is recorded so the
	// ring never holds a frame paired with stale probe data.
	slowDue := g.due(&g.lastSlow, now, g.cfg.SampleInterval)
	if slowDue {
		g.samples.SampleSlow()
		g.evaluator.Submit(g.samples.Latest().DeviceTempC)
	}

	if frameTime > 0 {
		g.samples.RecordFrame(now, frameTime)
	}

	// Evaluation.
	if factor, fresh := g.evaluator.Poll(); fresh {
		g.throttle = factor
	}

	// Actuation.
	g.memory.OnFrame()

	if g.monitor {
		g.maybeSnapshot(now)
		return
	}

	if slowDue {
		g.memory.EnforceBudgets(g.samples.PeakAllocated())
	}

	if g.due(&g.lastBattery, now, g.cfg.BatteryInterval) {
		latest := g.samples.Latest()
		g.power.Check(latest.BatteryLevel, latest.IsCharging)
	}

	if g.due(&g.lastQuality, now, g.cfg.QualityInterval) {
		g.controller.Evaluate(g.samples.AverageFrameTime(), g.throttle)
	}

	g.maybeSnapshot(now)
}

// onThermalCritical is the immediate emergency path for a critical device
// temperature. It runs synchronously on the control goroutine during
// Submit, never on the thermal worker.
func (g *Governor) onThermalCritical(deviceTempC float64) {
	if g.monitor {
		return
	}
	if !g.latch.TrySet("thermal_critical") {
		return
	}

	g.controller.ForceCritical("thermal_critical")
	g.memory.EmergencyCollect()
	g.alerter.ShowLowResourceWarning()
	g.collector.LogPerformanceEvent("thermal_critical", deviceTempC)
}

func (g *Governor) maybeSnapshot(now time.Time) {
	if !g.due(&g.lastSnapshot, now, g.cfg.SnapshotInterval) {
		return
	}

	latest := g.samples.Latest()
	snap := profiler.Snapshot{
		Timestamp:       now,
		QualityLevel:    g.controller.Current(),
		FrameTime:       latest.FrameTime,
		AvgFrameTime:    g.samples.AverageFrameTime(),
		AllocatedBytes:  latest.AllocatedBytes,
		BatteryLevel:    latest.BatteryLevel,
		IsCharging:      latest.IsCharging,
		DeviceTempC:     latest.DeviceTempC,
		ThrottleFactor:  g.throttle,
		EmergencyActive: g.latch.Active(),
	}

	captured := g.prof.CaptureSnapshot(snap)
	if err := g.collector.RecordSnapshot(context.Background(), &captured); err != nil {
		logger.Debug().Err(err).Msg("Dropped telemetry snapshot")
	}
}

// due reports whether the interval has elapsed since *last and advances it.
func (g *Governor) due(last *time.Time, now time.Time, intervalSeconds int) bool {
	if !last.IsZero() && now.Sub(*last) < time.Duration(intervalSeconds)*time.Second {
		return false
	}
	*last = now

	return true
}

// SetScene tags profiler snapshots with the active scene.
func (g *Governor) SetScene(id string) {
	g.prof.SetScene(id)
}

// ResetEmergency is the operator recovery path.
func (g *Governor) ResetEmergency() {
	g.power.ResetEmergency()
}

// Quality returns the level currently in effect.
func (g *Governor) Quality() quality.Level {
	return g.controller.Current()
}

// ThrottleFactor returns the last observed thermal throttle factor.
func (g *Governor) ThrottleFactor() float64 {
	return g.throttle
}

// FrameRateTarget returns the battery governor's current frame-rate cap.
func (g *Governor) FrameRateTarget() int {
	return g.power.FrameRateTarget()
}

// EmergencyActive reports the latch state.
func (g *Governor) EmergencyActive() bool {
	return g.latch.Active()
}

// Memory exposes the memory governor for the loading path (texture cache,
// pools).
func (g *Governor) Memory() *memgov.Governor {
	return g.memory
}

// Report aggregates the most recent k profiler snapshots.
func (g *Governor) Report(k int) profiler.Report {
	return g.prof.GenerateReport(k)
}

// Close stops the thermal worker and releases probes. Periodic work simply
// stops being scheduled when the host loop stops calling Tick.
func (g *Governor) Close() {
	g.evaluator.Close()
	g.samples.Close()
}

func mustNoopCollector() telemetry.Collector {
	collector, err := telemetry.NewService(telemetry.Config{})
	if err != nil {
		// Disabled config cannot fail validation.
		panic(err)
	}
	return collector
}
