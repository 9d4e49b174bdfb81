package quality

// RendererKnob is the actuation surface for rendering fidelity. Setters are
// idempotent, synchronous, and cheap; the controller never verifies that a
// call took effect.
type RendererKnob interface {
	SetQualityTier(level Level)
	SetShaderLODCeiling(ceiling int)
	SetResolutionScale(factor float64)
}

// ChangeObserver is notified after a level transition has been actuated.
type ChangeObserver interface {
	QualityChanged(previous, current Level, reason string)
}

// NopRenderer is used on hosts without a rendering collaborator.
type NopRenderer struct{}

func (NopRenderer) SetQualityTier(Level)       {}
func (NopRenderer) SetShaderLODCeiling(int)    {}
func (NopRenderer) SetResolutionScale(float64) {}
