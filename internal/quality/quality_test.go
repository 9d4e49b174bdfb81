package quality_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/quality"
)

type recordingRenderer struct {
	tiers  []quality.Level
	lods   []int
	scales []float64
}

func (r *recordingRenderer) SetQualityTier(level quality.Level) { r.tiers = append(r.tiers, level) }
func (r *recordingRenderer) SetShaderLODCeiling(ceiling int)    { r.lods = append(r.lods, ceiling) }
func (r *recordingRenderer) SetResolutionScale(factor float64)  { r.scales = append(r.scales, factor) }

type recordingObserver struct {
	changes []string
}

func (o *recordingObserver) QualityChanged(previous, current quality.Level, reason string) {
	o.changes = append(o.changes, previous.String()+"->"+current.String())
}

const target = 16 * time.Millisecond

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		avg      time.Duration
		throttle float64
		expected quality.Level
	}{
		{"within budget full throttle", 15 * time.Millisecond, 1.0, quality.LevelHigh},
		{"slightly over budget", 17 * time.Millisecond, 1.0, quality.LevelMedium},
		{"well over budget", 20 * time.Millisecond, 1.0, quality.LevelLow},
		{"far over budget", 25 * time.Millisecond, 1.0, quality.LevelCritical},
		{"throttle below medium cutoff", 10 * time.Millisecond, 0.80, quality.LevelMedium},
		{"throttle below low cutoff", 10 * time.Millisecond, 0.70, quality.LevelLow},
		{"throttle at floor", 10 * time.Millisecond, 0.4, quality.LevelCritical},
		{"critical frame time wins over good throttle", 30 * time.Millisecond, 1.0, quality.LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quality.Decide(tt.avg, target, tt.throttle))
		})
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	first := quality.Decide(18*time.Millisecond, target, 0.9)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, quality.Decide(18*time.Millisecond, target, 0.9))
	}
}

func TestThermalScenarioForcesCritical(t *testing.T) {
	// ambient=32, device=48: tempRatio=1.5 -> throttle=0.4 -> rule 1.
	assert.Equal(t, quality.LevelCritical, quality.Decide(10*time.Millisecond, target, 0.4))
}

func TestControllerNoOpOnSameLevel(t *testing.T) {
	renderer := &recordingRenderer{}
	observer := &recordingObserver{}
	c := quality.NewController(target, renderer, observer)

	initialCalls := len(renderer.tiers)

	c.Evaluate(10*time.Millisecond, 1.0)
	c.Evaluate(10*time.Millisecond, 1.0)

	assert.Equal(t, initialCalls, len(renderer.tiers), "re-setting High must not reactuate")
	assert.Empty(t, observer.changes)
}

func TestControllerTransitionActuates(t *testing.T) {
	renderer := &recordingRenderer{}
	observer := &recordingObserver{}
	c := quality.NewController(target, renderer, observer)

	level := c.Evaluate(25*time.Millisecond, 1.0)

	assert.Equal(t, quality.LevelCritical, level)
	assert.Equal(t, quality.LevelCritical, renderer.tiers[len(renderer.tiers)-1])
	assert.Equal(t, 0, renderer.lods[len(renderer.lods)-1])
	assert.InDelta(t, 0.5, renderer.scales[len(renderer.scales)-1], 0.001)
	assert.Equal(t, []string{"high->critical"}, observer.changes)
}

func TestForceCriticalOverridesRule(t *testing.T) {
	c := quality.NewController(target, &recordingRenderer{}, nil)

	c.ForceCritical("battery_critical")
	assert.Equal(t, quality.LevelCritical, c.Current())

	// Good inputs must not lift the override.
	assert.Equal(t, quality.LevelCritical, c.Evaluate(5*time.Millisecond, 1.0))

	c.Release()
	assert.Equal(t, quality.LevelHigh, c.Evaluate(5*time.Millisecond, 1.0))
}

func TestForceCriticalIdempotent(t *testing.T) {
	renderer := &recordingRenderer{}
	c := quality.NewController(target, renderer, nil)

	c.ForceCritical("memory_budget")
	calls := len(renderer.tiers)
	c.ForceCritical("memory_budget")
	c.ForceCritical("battery_critical")

	assert.Equal(t, calls, len(renderer.tiers), "repeated forcing must not reactuate")
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, quality.LevelHigh > quality.LevelMedium)
	assert.True(t, quality.LevelMedium > quality.LevelLow)
	assert.True(t, quality.LevelLow > quality.LevelCritical)
}

func TestEmergencyLatchSticky(t *testing.T) {
	var latch quality.EmergencyLatch

	assert.True(t, latch.TrySet("battery_critical"))
	assert.False(t, latch.TrySet("battery_critical"), "second set must report already latched")
	assert.True(t, latch.Active())
	assert.Equal(t, "battery_critical", latch.Reason())

	// Stays latched until an explicit clear.
	for i := 0; i < 5; i++ {
		assert.True(t, latch.Active())
	}

	latch.Clear()
	assert.False(t, latch.Active())
	assert.Empty(t, latch.Reason())
	assert.True(t, latch.TrySet("thermal_critical"))
}
