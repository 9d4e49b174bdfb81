// Package quality selects the discrete quality level from average frame
// time and the thermal throttle factor, and applies the level's actuation
// set to the rendering collaborator.
package quality

import (
	"time"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

// Level is the global quality setting, totally ordered by capability.
type Level int

const (
	LevelCritical Level = iota
	LevelLow
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Per-level actuation values: shader LOD ceiling and dynamic resolution scale.
var levelSettings = map[Level]struct {
	lodCeiling      int
	resolutionScale float64
}{
	LevelHigh:     {3, 1.0},
	LevelMedium:   {2, 0.85},
	LevelLow:      {1, 0.7},
	LevelCritical: {0, 0.5},
}

// Frame-time multipliers and throttle cut-offs for the decision rule.
const (
	criticalFrameFactor = 1.5
	lowFrameFactor      = 1.2
	mediumFrameFactor   = 1.05

	criticalThrottle = 0.6
	lowThrottle      = 0.75
	mediumThrottle   = 0.85
)

// Decide is the pure decision rule: given the average frame time, the
// target frame budget, and the throttle factor it returns the level the
// rules select. Evaluated in strict priority order.
func Decide(avgFrameTime, target time.Duration, throttleFactor float64) Level {
	avg := float64(avgFrameTime)
	budget := float64(target)

	switch {
	case avg > budget*criticalFrameFactor || throttleFactor < criticalThrottle:
		return LevelCritical
	case avg > budget*lowFrameFactor || throttleFactor < lowThrottle:
		return LevelLow
	case avg > budget*mediumFrameFactor || throttleFactor < mediumThrottle:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Controller holds the current level and applies transitions. All methods
// run on the single control goroutine.
type Controller struct {
	target   time.Duration
	renderer RendererKnob
	observer ChangeObserver

	current Level
	forced  bool
}

// NewController starts at High and applies it immediately so collaborators
// see a consistent initial state.
func NewController(target time.Duration, renderer RendererKnob, observer ChangeObserver) *Controller {
	c := &Controller{
		target:   target,
		renderer: renderer,
		observer: observer,
		current:  LevelHigh,
	}
	c.apply(LevelHigh)

	return c
}

// Evaluate runs the decision rule and transitions if needed. While an
// override is active the rule is suppressed and the current level kept.
func (c *Controller) Evaluate(avgFrameTime time.Duration, throttleFactor float64) Level {
	if c.forced {
		return c.current
	}

	c.set(Decide(avgFrameTime, c.target, throttleFactor), "decision_rule")

	return c.current
}

// ForceCritical is the override path for the battery and memory governors.
// It wins over the decision rule and is idempotent.
func (c *Controller) ForceCritical(reason string) {
	c.forced = true
	c.set(LevelCritical, reason)
}

// Release returns control to the decision rule. The level stays where it
// is until the next Evaluate.
func (c *Controller) Release() {
	c.forced = false
}

// Current returns the level in effect.
func (c *Controller) Current() Level {
	return c.current
}

// set transitions to the new level. Re-setting the same level is a no-op
// so redundant actuation never happens.
func (c *Controller) set(level Level, reason string) {
	if level == c.current {
		return
	}

	previous := c.current
	c.current = level
	c.apply(level)

	logger.Info().
		Str("from", previous.String()).
		Str("to", level.String()).
		Str("reason", reason).
		Msg("Quality level changed")

	if c.observer != nil {
		c.observer.QualityChanged(previous, level, reason)
	}
}

// apply pushes the level's ordered actuation set to the renderer.
func (c *Controller) apply(level Level) {
	if c.renderer == nil {
		return
	}

	settings := levelSettings[level]
	c.renderer.SetQualityTier(level)
	c.renderer.SetShaderLODCeiling(settings.lodCeiling)
	c.renderer.SetResolutionScale(settings.resolutionScale)
}
