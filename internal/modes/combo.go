package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// Combo tracks a rolling shot sequence across a set of switches (e.g. ramp
// entries): each activation within windowSeconds of the previous one
// extends the sequence; letting the window lapse breaks it. This is pure
// library code built from ordinary switch handlers and the delay
// scheduler — the "combo window" is just a named delay that cancels the
// in-progress sequence if it fires before the next switch (spec §4.4
// composition, supplemented feature per SPEC_FULL.md).
type Combo struct {
	mode.Base

	switches      []string
	required      int
	windowSeconds float64

	step int
}

// NewCombo constructs a Combo mode. required is the number of hits needed
// to complete the sequence; windowSeconds is how long the mode waits for
// the next hit before breaking the combo.
func NewCombo(switches []string, required int, windowSeconds float64) *Combo {
	if required < 2 {
		required = 2
	}
	if windowSeconds <= 0 {
		windowSeconds = 2
	}
	return &Combo{
		Base:          mode.NewBase("combo"),
		switches:      switches,
		required:      required,
		windowSeconds: windowSeconds,
	}
}

func (m *Combo) Priority() int                   { return 12 }
func (m *Combo) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleBall }

func (m *Combo) ModeStarted() {
	m.step = 0
	for _, sw := range m.switches {
		name := sw
		m.AddHandler(name, core.Active, func() mode.HandlerResult { return m.onHit(name) }, 0)
	}
}

func (m *Combo) onHit(name string) mode.HandlerResult {
	m.step++
	if m.step >= m.required {
		m.CancelDelay("combo-window")
		length := m.step
		m.step = 0
		m.Game().Post("combo_completed", map[string]any{"length": length})
		return mode.Continue
	}
	m.Game().Post("combo_step", map[string]any{"step": m.step, "switch": name})
	m.Delay(m.windowSeconds, m.onWindowExpired, "combo-window")
	return mode.Continue
}

func (m *Combo) onWindowExpired() {
	if m.step == 0 {
		return
	}
	length := m.step
	m.step = 0
	m.Game().Post("combo_broken", map[string]any{"length": length})
}

var _ mode.Mode = (*Combo)(nil)
