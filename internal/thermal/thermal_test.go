package thermal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/thermal"
)

func TestThrottleFactorCurve(t *testing.T) {
	tests := []struct {
		name     string
		ambient  float64
		device   float64
		expected float64
	}{
		{"device tracks ambient", 32, 32, 1.0},
		{"severe throttle hits floor", 32, 48, 0.4},
		{"mild heating", 25, 26.25, 0.9},
		{"device below ambient clamps high", 25, 20, 1.0},
		{"runaway temperature clamps at floor", 25, 80, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, thermal.ThrottleFactor(tt.ambient, tt.device), 0.001)
		})
	}
}

func TestThrottleFactorClampInvariant(t *testing.T) {
	// The factor must stay within [0.4, 1.0] for any temperature pair.
	for device := -20.0; device <= 120.0; device += 2.5 {
		factor := thermal.ThrottleFactor(32, device)
		assert.GreaterOrEqual(t, factor, thermal.MinThrottleFactor, "device=%v", device)
		assert.LessOrEqual(t, factor, thermal.MaxThrottleFactor, "device=%v", device)
	}
}

func TestEvaluatorAsyncCompletion(t *testing.T) {
	e := thermal.NewEvaluator(32, 45, nil)
	defer e.Close()

	e.Submit(40)

	require.Eventually(t, func() bool {
		factor, fresh := e.Poll()
		return fresh && factor < 1.0
	}, time.Second, time.Millisecond, "worker result never observed")

	// tempRatio = 40/32 = 1.25 -> factor = clamp(1 - 0.5) = 0.5
	assert.InDelta(t, 0.5, e.Current(), 0.001)
}

func TestEvaluatorStaleFactorReused(t *testing.T) {
	e := thermal.NewEvaluator(32, 45, nil)
	defer e.Close()

	// No submission: poll returns the initial factor, not fresh.
	factor, fresh := e.Poll()
	assert.False(t, fresh)
	assert.InDelta(t, 1.0, factor, 0.001)
}

func TestEvaluatorCriticalCallbackFiresOncePerCrossing(t *testing.T) {
	var fired int
	e := thermal.NewEvaluator(32, 45, func(float64) { fired++ })
	defer e.Close()

	e.Submit(46)
	e.Submit(47)
	e.Submit(48)
	assert.Equal(t, 1, fired, "sustained critical temperature fires once")

	e.Submit(40)
	e.Submit(46)
	assert.Equal(t, 2, fired, "recrossing fires again")
}
