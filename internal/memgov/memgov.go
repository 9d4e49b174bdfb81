// Package memgov enforces the session memory budgets: it owns the texture
// cache and object pools, schedules collection passes, and escalates to the
// emergency path when allocation pressure crosses the budget ceiling.
package memgov

import (
	"runtime"
	"runtime/debug"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/quality"
)

const (
	DefaultGCFrameInterval = 1800 // one pass every ~30s at 60fps

	// Fraction of the total budget at which the governor escalates.
	pressureRatio = 0.9

	// GOGC applied once the budget ceiling has been crossed. The runtime
	// collects more eagerly for the rest of the session.
	pressureGCPercent = 50
)

// Budget fixes the byte ceilings for the session.
type Budget struct {
	TotalBytes   uint64
	TextureBytes uint64
	AudioBytes   uint64
}

// Analytics receives best-effort budget events. Loss is acceptable.
type Analytics interface {
	LogPerformanceEvent(name string, value float64)
}

// Governor runs on the single control goroutine. Collection scheduling is
// frame-count driven; budget enforcement runs after each averaging pass.
type Governor struct {
	budget     Budget
	cache      *TextureCache
	latch      *quality.EmergencyLatch
	controller *quality.Controller
	analytics  Analytics
	unload     func() // unload-unused-resources pass, may be nil

	gcFrameInterval int
	frameCount      int
}

type GovernorOptions struct {
	Budget          Budget
	GCFrameInterval int
	Latch           *quality.EmergencyLatch
	Controller      *quality.Controller
	Analytics       Analytics
	Unload          func()
}

func NewGovernor(opts GovernorOptions) *Governor {
	if opts.GCFrameInterval <= 0 {
		opts.GCFrameInterval = DefaultGCFrameInterval
	}

	return &Governor{
		budget:          opts.Budget,
		cache:           NewTextureCache(opts.Budget.TextureBytes),
		latch:           opts.Latch,
		controller:      opts.Controller,
		analytics:       opts.Analytics,
		unload:          opts.Unload,
		gcFrameInterval: opts.GCFrameInterval,
	}
}

// OnFrame advances the frame counter and runs the scheduled collection pass
// when due. The pass is a single bounded GC cycle plus the unload hook; it
// never runs a full stop-the-world sweep outside the emergency path.
func (g *Governor) OnFrame() {
	g.frameCount++
	if g.frameCount%g.gcFrameInterval != 0 {
		return
	}

	if g.unload != nil {
		g.unload()
	}
	runtime.GC()

	logger.Debug().Int("frame", g.frameCount).Msg("Scheduled collection pass")
}

// EnforceBudgets runs after each averaging pass over sampled allocations.
// Crossing 90% of the total budget clears the texture cache aggressively
// and escalates to emergency; the texture budget itself is enforced by the
// cache's own eviction.
func (g *Governor) EnforceBudgets(peakAllocated uint64) {
	ceiling := uint64(float64(g.budget.TotalBytes) * pressureRatio)
	if peakAllocated <= ceiling {
		return
	}

	logger.Warn().
		Uint64("peak", peakAllocated).
		Uint64("ceiling", ceiling).
		Msg("Memory pressure over budget, clearing texture cache")

	g.cache.Clear()

	if g.analytics != nil {
		g.analytics.LogPerformanceEvent("memory_budget_exceeded", float64(peakAllocated))
	}

	if g.latch.TrySet("memory_budget") {
		g.controller.ForceCritical("memory_budget")
		debug.SetGCPercent(pressureGCPercent)
		g.EmergencyCollect()
	}
}

// EmergencyCollect is the full, blocking collection used only under
// emergency conditions, where degraded responsiveness is already accepted.
func (g *Governor) EmergencyCollect() {
	if g.unload != nil {
		g.unload()
	}
	runtime.GC()
	debug.FreeOSMemory()

	logger.Info().Msg("Emergency collection completed")
}

// Cache exposes the texture cache to the loading path.
func (g *Governor) Cache() *TextureCache {
	return g.cache
}

// Budget returns the session budget.
func (g *Governor) Budget() Budget {
	return g.budget
}
