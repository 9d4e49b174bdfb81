// Package battery applies the power conservation policy and owns the
// emergency activation path for critical battery levels.
package battery

import (
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/quality"
)

const (
	DefaultLowPowerThreshold = 0.2
	DefaultCriticalThreshold = 0.1

	lowPowerFrameRate  = 30
	emergencyFrameRate = 20

	lowPowerAudioQuality  = 0.5
	lowPowerParticleScale = 0.5
)

// Governor tracks battery state on a periodic check and degrades frame
// rate, haptics, audio, and particles while power is scarce. It shares the
// emergency latch with the memory governor.
type Governor struct {
	lowThreshold      float64
	criticalThreshold float64
	normalFrameRate   int

	latch      *quality.EmergencyLatch
	controller *quality.Controller
	audio      AudioKnob
	particles  ParticleKnob
	haptics    HapticsKnob
	persist    Persistence
	alerter    Alerter
	defrag     Defragmenter

	lowPower     bool
	frameRateCap int
}

type Options struct {
	LowPowerThreshold float64
	CriticalThreshold float64
	NormalFrameRate   int

	Latch      *quality.EmergencyLatch
	Controller *quality.Controller
	Audio      AudioKnob
	Particles  ParticleKnob
	Haptics    HapticsKnob
	Persist    Persistence
	Alerter    Alerter
	Defrag     Defragmenter
}

func NewGovernor(opts Options) *Governor {
	if opts.LowPowerThreshold <= 0 {
		opts.LowPowerThreshold = DefaultLowPowerThreshold
	}
	if opts.CriticalThreshold <= 0 {
		opts.CriticalThreshold = DefaultCriticalThreshold
	}
	if opts.NormalFrameRate <= 0 {
		opts.NormalFrameRate = 60
	}
	if opts.Audio == nil {
		opts.Audio = NopAudio{}
	}
	if opts.Particles == nil {
		opts.Particles = NopParticles{}
	}
	if opts.Haptics == nil {
		opts.Haptics = NopHaptics{}
	}
	if opts.Persist == nil {
		opts.Persist = NopPersistence{}
	}
	if opts.Alerter == nil {
		opts.Alerter = NopAlerter{}
	}

	return &Governor{
		lowThreshold:      opts.LowPowerThreshold,
		criticalThreshold: opts.CriticalThreshold,
		normalFrameRate:   opts.NormalFrameRate,
		latch:             opts.Latch,
		controller:        opts.Controller,
		audio:             opts.Audio,
		particles:         opts.Particles,
		haptics:           opts.Haptics,
		persist:           opts.Persist,
		alerter:           opts.Alerter,
		defrag:            opts.Defrag,
		frameRateCap:      opts.NormalFrameRate,
	}
}

// Check evaluates one battery reading. Called on the battery cadence from
// the control loop.
func (g *Governor) Check(level float64, charging bool) {
	if g.latch.Active() {
		// Emergency is sticky; a single good reading never clears it.
		if charging && level >= g.lowThreshold {
			g.recover()
		}
		return
	}

	switch {
	case level < g.criticalThreshold:
		g.activateEmergency(level)
	case level < g.lowThreshold:
		g.enterLowPower(level)
	default:
		g.exitLowPower()
	}
}

// activateEmergency runs the full degradation set. The latch guarantees the
// side effects run exactly once per activation.
func (g *Governor) activateEmergency(level float64) {
	if !g.latch.TrySet("battery_critical") {
		return
	}

	logger.Warn().Float64("level", level).Msg("Battery critically low, activating emergency mode")

	g.controller.ForceCritical("battery_critical")
	g.frameRateCap = emergencyFrameRate
	if g.defrag != nil {
		g.defrag.EmergencyCollect()
	}
	g.audio.MuteNonEssential(true)
	g.persist.RequestAutosave()
	g.alerter.ShowLowResourceWarning()
}

func (g *Governor) enterLowPower(level float64) {
	if g.lowPower {
		return
	}
	g.lowPower = true

	logger.Info().Float64("level", level).Msg("Battery low, applying conservation policy")

	g.frameRateCap = lowPowerFrameRate
	g.haptics.SetEnabled(false)
	g.audio.SetAudioQuality(lowPowerAudioQuality)
	g.particles.SetEmissionMultiplier(lowPowerParticleScale)
}

func (g *Governor) exitLowPower() {
	if !g.lowPower {
		return
	}
	g.lowPower = false

	logger.Info().Msg("Battery recovered, reverting conservation policy")

	g.frameRateCap = g.normalFrameRate
	g.haptics.SetEnabled(true)
	g.audio.SetAudioQuality(1.0)
	g.particles.SetEmissionMultiplier(1.0)
}

// recover clears the latch on an explicit recovery signal and returns
// quality control to the decision rule.
func (g *Governor) recover() {
	g.latch.Clear()
	g.controller.Release()
	g.audio.MuteNonEssential(false)
	g.exitLowPower()
	// Emergency can cap frames without the low-power policy ever engaging,
	// so the cap is restored regardless of exitLowPower's guard.
	g.frameRateCap = g.normalFrameRate
}

// ResetEmergency is the operator-equivalent recovery path.
func (g *Governor) ResetEmergency() {
	if !g.latch.Active() {
		return
	}
	g.recover()
}

// FrameRateTarget returns the frame rate cap currently in effect.
func (g *Governor) FrameRateTarget() int {
	return g.frameRateCap
}

// LowPower reports whether the conservation policy is active.
func (g *Governor) LowPower() bool {
	return g.lowPower
}
