package battery

// AudioKnob adjusts audio fidelity. Calls are fire-and-forget.
type AudioKnob interface {
	SetAudioQuality(factor float64)
	MuteNonEssential(mute bool)
}

// ParticleKnob adjusts particle effect density.
type ParticleKnob interface {
	SetEmissionMultiplier(factor float64)
	SetEmissionEnabled(enabled bool)
}

// HapticsKnob toggles vibration feedback.
type HapticsKnob interface {
	SetEnabled(enabled bool)
}

// Persistence requests an autosave before conditions degrade further.
// Failures are swallowed by the collaborator; the governor never observes
// them.
type Persistence interface {
	RequestAutosave()
}

// Alerter shows a low-resource warning to the player. No acknowledgment.
type Alerter interface {
	ShowLowResourceWarning()
}

// Defragmenter is the memory governor's emergency surface.
type Defragmenter interface {
	EmergencyCollect()
}

// No-op collaborators for hosts without the corresponding subsystem.
type (
	NopAudio       struct{}
	NopParticles   struct{}
	NopHaptics     struct{}
	NopPersistence struct{}
	NopAlerter     struct{}
)

func (NopAudio) SetAudioQuality(float64)           {}
func (NopAudio) MuteNonEssential(bool)             {}
func (NopParticles) SetEmissionMultiplier(float64) {}
func (NopParticles) SetEmissionEnabled(bool)       {}
func (NopHaptics) SetEnabled(bool)                 {}
func (NopPersistence) RequestAutosave()            {}
func (NopAlerter) ShowLowResourceWarning()         {}
