package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// BallSearch watches for playfield activity and, failing to see any for
// idleSeconds, round-robin pulses a list of coils until a playfield switch
// fires again (spec §4.8 "Ball search").
type BallSearch struct {
	mode.Base

	coils        []string
	idleSeconds  float64
	pulseSeconds float64

	searching  bool
	nextCoil   int
	shooterIn  bool
}

// NewBallSearch constructs a BallSearch mode. idleSeconds defaults to 15,
// pulseSeconds to 0.25 (spec §4.8 defaults).
func NewBallSearch(coils []string, idleSeconds, pulseSeconds float64) *BallSearch {
	if idleSeconds <= 0 {
		idleSeconds = 15
	}
	if pulseSeconds <= 0 {
		pulseSeconds = 0.25
	}
	return &BallSearch{
		Base:         mode.NewBase("ball-search"),
		coils:        coils,
		idleSeconds:  idleSeconds,
		pulseSeconds: pulseSeconds,
	}
}

func (m *BallSearch) Priority() int                   { return 10 }
func (m *BallSearch) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleBall }

func (m *BallSearch) ModeStarted() {
	m.searching = false
	m.shooterIn = false

	for _, sw := range m.Game().Switches().All() {
		if !sw.Tags.Any(core.TagPlayfield | core.TagEos) {
			continue
		}
		name := sw.Name
		m.AddHandler(name, core.Active, func() mode.HandlerResult { return m.onActivity() }, 0)
	}
	for _, sw := range m.Game().Switches().All() {
		if !sw.Tags.Has(core.TagShooterLane) {
			continue
		}
		m.AddHandler(sw.Name, core.Active, m.onShooterActive, 0)
		m.AddHandler(sw.Name, core.Inactive, m.onShooterInactive, 0)
	}

	m.resetIdleTimer()
}

func (m *BallSearch) onActivity() mode.HandlerResult {
	if m.searching {
		m.stopSearch()
	}
	m.resetIdleTimer()
	return mode.Continue
}

func (m *BallSearch) onShooterActive() mode.HandlerResult {
	m.shooterIn = true
	m.CancelDelay("ball-search-idle")
	return mode.Continue
}

func (m *BallSearch) onShooterInactive() mode.HandlerResult {
	m.shooterIn = false
	m.resetIdleTimer()
	return mode.Continue
}

func (m *BallSearch) resetIdleTimer() {
	if m.shooterIn {
		return
	}
	m.Delay(m.idleSeconds, m.startSearch, "ball-search-idle")
}

func (m *BallSearch) startSearch() {
	if m.searching || len(m.coils) == 0 {
		return
	}
	m.searching = true
	m.nextCoil = 0
	m.Game().Post("ball_search_started", nil)
	m.pulseNext()
}

func (m *BallSearch) pulseNext() {
	if !m.searching {
		return
	}
	name := m.coils[m.nextCoil%len(m.coils)]
	m.nextCoil++
	if coil, err := m.Game().Coils().Get(name); err == nil {
		coil.Pulse(0)
	}
	m.Delay(m.pulseSeconds, m.pulseNext, "ball-search-pulse")
}

func (m *BallSearch) stopSearch() {
	if !m.searching {
		return
	}
	m.searching = false
	m.CancelDelay("ball-search-pulse")
	m.Game().Post("ball_search_stopped", nil)
}

var _ mode.Mode = (*BallSearch)(nil)
