// Package thermal converts device temperature into a throttle factor via a
// bounded linear degradation curve. Evaluation runs on a worker goroutine;
// the control loop polls for completion and reuses the previous factor
// until a new result lands.
package thermal

import (
	"sync"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
)

const (
	// MinThrottleFactor is the floor of the curve; rendering never fully
	// halts even under severe throttling.
	MinThrottleFactor = 0.4
	MaxThrottleFactor = 1.0

	degradationSlope = 2.0
)

// State is the result of one evaluation cycle.
type State struct {
	AmbientTempC   float64
	DeviceTempC    float64
	ThrottleFactor float64
}

// ThrottleFactor computes the fraction of full performance available at the
// given temperatures. The factor stays at 1.0 while the device tracks
// ambient and decays linearly toward the floor as it heats up.
func ThrottleFactor(ambientTempC, deviceTempC float64) float64 {
	if ambientTempC <= 0 {
		return MaxThrottleFactor
	}

	factor := 1.0 - (deviceTempC/ambientTempC-1.0)*degradationSlope

	return clamp(factor, MinThrottleFactor, MaxThrottleFactor)
}

// Evaluator offloads curve evaluation to a single worker goroutine. The
// result buffer is written once per job by the worker and read by the
// control loop only after the completion flag is observed set.
type Evaluator struct {
	ambientTempC float64
	criticalTemp float64
	onCritical   func(deviceTempC float64)

	jobs chan float64
	wg   sync.WaitGroup

	mu       sync.Mutex
	result   State
	complete bool

	current     float64
	wasCritical bool
}

// NewEvaluator creates an evaluator. onCritical fires synchronously on
// Submit when the device temperature crosses criticalTempC from below; it
// may be nil.
func NewEvaluator(ambientTempC, criticalTempC float64, onCritical func(float64)) *Evaluator {
	e := &Evaluator{
		ambientTempC: ambientTempC,
		criticalTemp: criticalTempC,
		onCritical:   onCritical,
		jobs:         make(chan float64, 1),
		current:      MaxThrottleFactor,
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

// Submit queues an evaluation for the given device temperature. If the
// worker is still busy with the previous job the submission is dropped;
// the stale factor remains in effect until the next cycle. The critical
// threshold check happens here, on the calling goroutine, so the emergency
// path never waits on the worker.
func (e *Evaluator) Submit(deviceTempC float64) {
	if deviceTempC >= e.criticalTemp {
		if !e.wasCritical {
			e.wasCritical = true
			logger.Warn().Float64("temperature", deviceTempC).Msg("Critical device temperature")
			if e.onCritical != nil {
				e.onCritical(deviceTempC)
			}
		}
	} else {
		e.wasCritical = false
	}

	select {
	case e.jobs <- deviceTempC:
	default:
	}
}

// Poll returns the current throttle factor and whether a fresh evaluation
// completed since the last poll. It never blocks.
func (e *Evaluator) Poll() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.complete {
		return e.current, false
	}

	e.complete = false
	e.current = e.result.ThrottleFactor

	return e.current, true
}

// Current returns the last observed throttle factor.
func (e *Evaluator) Current() float64 {
	return e.current
}

// Close stops the worker. Pending results are discarded.
func (e *Evaluator) Close() {
	close(e.jobs)
	e.wg.Wait()
}

func (e *Evaluator) worker() {
	defer e.wg.Done()

	for deviceTempC := range e.jobs {
		state := State{
			AmbientTempC:   e.ambientTempC,
			DeviceTempC:    deviceTempC,
			ThrottleFactor: ThrottleFactor(e.ambientTempC, deviceTempC),
		}

		e.mu.Lock()
		e.result = state
		e.complete = true
		e.mu.Unlock()
	}
}

func clamp(value, minValue, maxValue float64) float64 {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}
