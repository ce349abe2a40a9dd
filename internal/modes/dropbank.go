package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// DropTargetBank owns one bank of drop targets and its reset coil. Multiple
// independent banks run as separate instances, each with its own name and
// handler set (spec §4.8 "Drop-target bank", supplemented for multi-bank
// machines).
type DropTargetBank struct {
	mode.Base

	targets          []string
	resetCoil        string
	autoResetSeconds float64

	down map[string]bool
}

// NewDropTargetBank constructs a DropTargetBank mode named bankName,
// watching targets and firing resetCoil on Reset.
func NewDropTargetBank(bankName string, targets []string, resetCoil string, autoResetSeconds float64) *DropTargetBank {
	return &DropTargetBank{
		Base:             mode.NewBase(bankName),
		targets:          targets,
		resetCoil:        resetCoil,
		autoResetSeconds: autoResetSeconds,
		down:             make(map[string]bool),
	}
}

func (m *DropTargetBank) Priority() int                   { return 15 }
func (m *DropTargetBank) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleBall }

func (m *DropTargetBank) ModeStarted() {
	m.down = make(map[string]bool)
	for _, sw := range m.targets {
		name := sw
		m.AddHandler(name, core.Active, func() mode.HandlerResult { return m.onTargetHit(name) }, 0)
	}
}

func (m *DropTargetBank) onTargetHit(name string) mode.HandlerResult {
	if m.down[name] {
		return mode.Continue
	}
	m.down[name] = true
	m.Game().Post("drop_target_hit", map[string]any{"target": name})

	if len(m.down) == len(m.targets) {
		m.Game().Post("drop_target_bank_complete", map[string]any{"targets": m.targetNames()})
		if m.autoResetSeconds > 0 {
			m.Delay(m.autoResetSeconds, m.Reset, "drop-bank-auto-reset")
		}
	}
	return mode.Continue
}

func (m *DropTargetBank) targetNames() []string {
	out := make([]string, len(m.targets))
	copy(out, m.targets)
	return out
}

// Reset cancels any pending auto-reset, clears the down set, and pulses
// the reset coil to physically raise the targets.
func (m *DropTargetBank) Reset() {
	m.CancelDelay("drop-bank-auto-reset")
	m.down = make(map[string]bool)
	if coil, err := m.Game().Coils().Get(m.resetCoil); err == nil {
		coil.Pulse(0)
	}
	m.Game().Post("drop_target_bank_reset", nil)
}

var _ mode.Mode = (*DropTargetBank)(nil)
