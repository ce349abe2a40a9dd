package modes

import (
	"github.com/vovakirdan/pinhall/internal/mode"
)

// Bonus accumulates end-of-ball points and multiplier during play, then
// counts them down in fixed steps when StartBonus is called (spec §4.8
// "Bonus countdown").
type Bonus struct {
	mode.Base

	stepPoints  int64
	stepSeconds float64

	bonus      int64
	multiplier int64

	remaining int64
	running   bool
}

// NewBonus constructs a Bonus mode. stepPoints defaults to 1000, stepSeconds
// to 0.1, matching spec §4.8 defaults.
func NewBonus(stepPoints int64, stepSeconds float64) *Bonus {
	if stepPoints <= 0 {
		stepPoints = 1000
	}
	if stepSeconds <= 0 {
		stepSeconds = 0.1
	}
	return &Bonus{
		Base:        mode.NewBase("bonus"),
		stepPoints:  stepPoints,
		stepSeconds: stepSeconds,
	}
}

func (m *Bonus) Priority() int                   { return 20 }
func (m *Bonus) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleBall }

func (m *Bonus) ModeStarted() {
	m.bonus = 0
	m.multiplier = 1
	m.remaining = 0
	m.running = false
}

// AddBonus accumulates bonus points awarded during play.
func (m *Bonus) AddBonus(points int64) { m.bonus += points }

// SetMultiplier sets the bonus multiplier, clamped to a minimum of 1.
func (m *Bonus) SetMultiplier(x int64) {
	if x < 1 {
		x = 1
	}
	m.multiplier = x
}

// StartBonus begins the countdown, awarding bonus*multiplier in fixed
// steps. Ends the ball immediately if there is nothing to award.
func (m *Bonus) StartBonus() {
	total := m.bonus * m.multiplier
	if total <= 0 {
		m.Game().EndBall()
		return
	}
	m.remaining = total
	m.running = true
	m.Game().Post("bonus_started", map[string]any{"bonus": m.bonus, "multiplier": m.multiplier, "total": total})
	m.scheduleStep()
}

func (m *Bonus) scheduleStep() {
	m.Delay(m.stepSeconds, m.awardStep, "bonus-step")
}

func (m *Bonus) awardStep() {
	if !m.running {
		return
	}
	award := m.stepPoints
	if award > m.remaining {
		award = m.remaining
	}
	m.remaining -= award
	if p := m.Game().Player(); p != nil {
		p.AddScore(award)
	}
	m.Game().Post("bonus_step", map[string]any{"awarded": award, "remaining": m.remaining})

	if m.remaining <= 0 {
		m.running = false
		m.Game().Post("bonus_completed", map[string]any{"awarded": m.bonus * m.multiplier})
		m.Game().EndBall()
		return
	}
	m.scheduleStep()
}

var _ mode.Mode = (*Bonus)(nil)
