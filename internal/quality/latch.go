package quality

import "github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"

// EmergencyLatch is the single authoritative emergency-mode flag, shared by
// the battery and memory governors. Once set it stays set across any number
// of normal readings; only an explicit recovery signal clears it. The
// stickiness prevents flapping while a reading hovers near its threshold.
type EmergencyLatch struct {
	active bool
	reason string
}

// TrySet latches emergency mode. Returns false if already latched, so each
// activation's side effects run exactly once.
func (l *EmergencyLatch) TrySet(reason string) bool {
	if l.active {
		return false
	}

	l.active = true
	l.reason = reason
	logger.Warn().Str("reason", reason).Msg("Emergency mode latched")

	return true
}

// Active reports whether emergency mode is in effect.
func (l *EmergencyLatch) Active() bool {
	return l.active
}

// Reason returns what latched the emergency, or "" when inactive.
func (l *EmergencyLatch) Reason() string {
	if !l.active {
		return ""
	}
	return l.reason
}

// Clear releases the latch. Callers invoke this only on an explicit
// recovery signal, never on a single good reading.
func (l *EmergencyLatch) Clear() {
	if !l.active {
		return
	}

	l.active = false
	l.reason = ""
	logger.Info().Msg("Emergency mode cleared")
}
