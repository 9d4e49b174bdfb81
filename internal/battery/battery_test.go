package battery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/battery"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/quality"
)

type fakeCollaborators struct {
	audioQuality   []float64
	muteCalls      []bool
	particleScale  []float64
	hapticsEnabled []bool
	autosaves      int
	warnings       int
	defrags        int
}

func (f *fakeCollaborators) SetAudioQuality(factor float64) {
	f.audioQuality = append(f.audioQuality, factor)
}

func (f *fakeCollaborators) MuteNonEssential(mute bool) {
	f.muteCalls = append(f.muteCalls, mute)
}

func (f *fakeCollaborators) SetEmissionMultiplier(factor float64) {
	f.particleScale = append(f.particleScale, factor)
}

func (f *fakeCollaborators) SetEmissionEnabled(bool) {}

func (f *fakeCollaborators) SetEnabled(enabled bool) {
	f.hapticsEnabled = append(f.hapticsEnabled, enabled)
}

func (f *fakeCollaborators) RequestAutosave()        { f.autosaves++ }
func (f *fakeCollaborators) ShowLowResourceWarning() { f.warnings++ }
func (f *fakeCollaborators) EmergencyCollect()       { f.defrags++ }

func newGovernor(t *testing.T) (*battery.Governor, *fakeCollaborators, *quality.EmergencyLatch, *quality.Controller) {
	t.Helper()

	collab := &fakeCollaborators{}
	latch := &quality.EmergencyLatch{}
	ctrl := quality.NewController(16*time.Millisecond, quality.NopRenderer{}, nil)

	gov := battery.NewGovernor(battery.Options{
		NormalFrameRate: 60,
		Latch:           latch,
		Controller:      ctrl,
		Audio:           collab,
		Particles:       collab,
		Haptics:         collab,
		Persist:         collab,
		Alerter:         collab,
		Defrag:          collab,
	})

	return gov, collab, latch, ctrl
}

func TestEmergencyActivatesExactlyOnce(t *testing.T) {
	gov, collab, latch, ctrl := newGovernor(t)

	// Level drops from 0.25 to 0.08 across consecutive checks.
	gov.Check(0.25, false)
	require.False(t, latch.Active())

	gov.Check(0.08, false)
	assert.True(t, latch.Active())
	assert.Equal(t, quality.LevelCritical, ctrl.Current())
	assert.Equal(t, 20, gov.FrameRateTarget(), "frame rate drops to the emergency floor")
	assert.Equal(t, 1, collab.autosaves, "autosave issued once per activation")
	assert.Equal(t, 1, collab.defrags)
	assert.Equal(t, 1, collab.warnings)

	// Subsequent critical readings must not repeat the side effects.
	gov.Check(0.07, false)
	gov.Check(0.05, false)
	assert.Equal(t, 1, collab.autosaves)
	assert.Equal(t, 1, collab.defrags)
}

func TestEmergencyLatchStickyAcrossNormalReadings(t *testing.T) {
	gov, _, latch, _ := newGovernor(t)

	gov.Check(0.05, false)
	require.True(t, latch.Active())

	// A good reading while discharging never clears the latch.
	gov.Check(0.5, false)
	gov.Check(0.9, false)
	assert.True(t, latch.Active())
}

func TestEmergencyRecoveryOnCharging(t *testing.T) {
	gov, collab, latch, ctrl := newGovernor(t)

	gov.Check(0.05, false)
	require.True(t, latch.Active())

	// Charging below the low threshold is not yet recovery.
	gov.Check(0.12, true)
	assert.True(t, latch.Active())

	gov.Check(0.25, true)
	assert.False(t, latch.Active())
	assert.Equal(t, 60, gov.FrameRateTarget())
	assert.Equal(t, false, collab.muteCalls[len(collab.muteCalls)-1], "non-essential audio unmuted on recovery")

	// Control is back with the decision rule.
	assert.Equal(t, quality.LevelHigh, ctrl.Evaluate(10*time.Millisecond, 1.0))
}

func TestLowPowerPolicyEnterAndExit(t *testing.T) {
	gov, collab, latch, _ := newGovernor(t)

	gov.Check(0.15, false)
	require.False(t, latch.Active())
	assert.True(t, gov.LowPower())
	assert.Equal(t, 30, gov.FrameRateTarget())
	assert.Equal(t, []bool{false}, collab.hapticsEnabled)
	assert.Equal(t, []float64{0.5}, collab.audioQuality)
	assert.Equal(t, []float64{0.5}, collab.particleScale)

	// Repeated low readings must not reapply the policy.
	gov.Check(0.14, false)
	assert.Len(t, collab.hapticsEnabled, 1)

	gov.Check(0.3, false)
	assert.False(t, gov.LowPower())
	assert.Equal(t, 60, gov.FrameRateTarget())
	assert.Equal(t, []bool{false, true}, collab.hapticsEnabled)
	assert.Equal(t, []float64{0.5, 1.0}, collab.audioQuality)
}

func TestRecoveryAfterDirectCriticalDrop(t *testing.T) {
	gov, collab, latch, _ := newGovernor(t)

	// A sudden drop skips the low-power band entirely.
	gov.Check(0.25, false)
	gov.Check(0.08, false)
	require.True(t, latch.Active())
	require.Equal(t, 20, gov.FrameRateTarget())
	require.False(t, gov.LowPower())

	gov.Check(0.5, true)
	assert.False(t, latch.Active())
	assert.Equal(t, 60, gov.FrameRateTarget(), "emergency frame cap reverts on recovery")
	assert.Empty(t, collab.hapticsEnabled, "conservation policy was never applied")
}

func TestResetEmergency(t *testing.T) {
	gov, _, latch, _ := newGovernor(t)

	gov.Check(0.05, false)
	require.True(t, latch.Active())

	gov.ResetEmergency()
	assert.False(t, latch.Active())
	assert.Equal(t, 60, gov.FrameRateTarget())
}
