package modes

import (
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// FlipperRule is the switch/coil pair a Tilt mode disables when the machine
// goes tilted and restores at the end of the ball.
type FlipperRule struct {
	Switch    string
	Coil      string
	PulseMs   int
	HoldPower float64
}

// Tilt watches the tilt-bob switch, debouncing bounces with a cooldown, and
// the slam-tilt switch. Exceeding the configured warning count disables
// every flipper rule for the rest of the ball (spec §4.8 "Tilt").
type Tilt struct {
	mode.Base

	tiltSwitch string
	slamSwitch string
	cooldown   time.Duration
	allowed    int
	flippers   []FlipperRule

	warnings int
	tilted   bool
	lastHit  time.Time
}

// NewTilt constructs a Tilt mode. cooldown defaults to 500ms, allowed
// defaults to 2 warnings before tilting, matching spec §4.8 defaults.
func NewTilt(tiltSwitch, slamSwitch string, allowed int, cooldown time.Duration, flippers []FlipperRule) *Tilt {
	if cooldown <= 0 {
		cooldown = 500 * time.Millisecond
	}
	if allowed <= 0 {
		allowed = 2
	}
	return &Tilt{
		Base:       mode.NewBase("tilt"),
		tiltSwitch: tiltSwitch,
		slamSwitch: slamSwitch,
		cooldown:   cooldown,
		allowed:    allowed,
		flippers:   flippers,
	}
}

func (m *Tilt) Priority() int                   { return 90 }
func (m *Tilt) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleBall }

func (m *Tilt) ModeStarted() {
	m.warnings = 0
	m.tilted = false
	m.lastHit = time.Time{}

	m.AddHandler(m.tiltSwitch, core.Active, m.onTiltHit, 0)
	if m.slamSwitch != "" {
		m.AddHandler(m.slamSwitch, core.Active, m.onSlamTilt, 0)
	}
}

func (m *Tilt) ModeStopped() {
	if !m.tilted {
		return
	}
	for _, f := range m.flippers {
		m.Game().ConfigureFlipperRule(f.Switch, f.Coil, f.PulseMs, f.HoldPower)
	}
}

func (m *Tilt) onTiltHit() mode.HandlerResult {
	if m.tilted {
		return mode.Continue
	}
	now := m.Game().Clock().Now()
	if !m.lastHit.IsZero() && now.Sub(m.lastHit) < m.cooldown {
		return mode.Continue
	}
	m.lastHit = now

	m.warnings++
	if m.warnings <= m.allowed {
		m.Game().Post("tilt_warning", map[string]any{"warning": m.warnings, "allowed": m.allowed})
		return mode.Continue
	}

	m.tilted = true
	for _, f := range m.flippers {
		m.Game().RemoveHardwareRule(f.Switch)
	}
	m.Game().Post("tilt", nil)
	return mode.Continue
}

func (m *Tilt) onSlamTilt() mode.HandlerResult {
	m.Game().Post("slam_tilt", nil)
	m.Game().EndGame()
	return mode.Stop
}

var _ mode.Mode = (*Tilt)(nil)
