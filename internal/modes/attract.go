package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// Attract owns the Start switch while no game is in progress: the first
// press starts a game, and — while ball 1 hasn't been plunged yet — every
// later press adds a player, up to MaxPlayers (spec §4.8 "Attract /
// game-over").
type Attract struct {
	mode.Base

	startSwitch string
	shooterLane string
	dwellSeconds float64

	plunged bool
}

// NewAttract constructs an Attract mode watching startSwitch. shooterLane
// may be empty if the machine has no plunge detector, in which case the
// "add player" window never closes on its own. dwellSeconds defaults to
// 12, the game-over final-score dwell period.
func NewAttract(startSwitch, shooterLane string, dwellSeconds float64) *Attract {
	if dwellSeconds <= 0 {
		dwellSeconds = 12
	}
	return &Attract{
		Base:         mode.NewBase("attract"),
		startSwitch:  startSwitch,
		shooterLane:  shooterLane,
		dwellSeconds: dwellSeconds,
	}
}

func (m *Attract) Priority() int                   { return 5 }
func (m *Attract) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleSystem }

func (m *Attract) ModeStarted() {
	m.AddHandler(m.startSwitch, core.Active, m.onStart, 0)
	if m.shooterLane != "" {
		m.AddHandler(m.shooterLane, core.Inactive, m.onPlunge, 0)
	}
	m.Game().OnGameStarted(func() { m.plunged = false })
	m.Game().OnGameEnded(m.onGameEnded)
}

func (m *Attract) onStart() mode.HandlerResult {
	if m.Game().CurrentBall() == 0 {
		m.Game().StartGame()
		return mode.Stop
	}
	if m.Game().CurrentBall() == 1 && !m.plunged && len(m.Game().Players()) < m.Game().MaxPlayers() {
		m.Game().AddPlayer()
		return mode.Stop
	}
	return mode.Continue
}

func (m *Attract) onPlunge() mode.HandlerResult {
	m.plunged = true
	return mode.Continue
}

// onGameEnded adds a GameOver mode that displays final scores for the
// dwell period and then removes itself, returning the machine to attract.
func (m *Attract) onGameEnded() {
	over := newGameOver(m.startSwitch, m.dwellSeconds)
	m.Game().Queue().AddChild(m, over, m.Game())
}

var _ mode.Mode = (*Attract)(nil)

// GameOver is the short-lived Manual-lifecycle mode Attract spawns after
// GameEnded: it keeps final scores on display for the dwell period, then
// posts attract_idle and self-removes. Pressing
// Start early also self-removes, without consuming the event, so Attract
// (lower priority) sees it on the same dispatch pass and starts the next
// game (spec §4.8 "Attract / game-over").
type GameOver struct {
	mode.Base

	startSwitch  string
	dwellSeconds float64
}

func newGameOver(startSwitch string, dwellSeconds float64) *GameOver {
	return &GameOver{Base: mode.NewBase("game-over"), startSwitch: startSwitch, dwellSeconds: dwellSeconds}
}

func (m *GameOver) Priority() int                   { return 6 }
func (m *GameOver) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleManual }

func (m *GameOver) ModeStarted() {
	m.AddHandler(m.startSwitch, core.Active, m.onStart, 0)
	m.Delay(m.dwellSeconds, m.dwellElapsed, "game-over-dwell")
}

func (m *GameOver) onStart() mode.HandlerResult {
	m.Game().Queue().Remove(m)
	return mode.Continue
}

func (m *GameOver) dwellElapsed() {
	m.Game().Post("attract_idle", nil)
	m.Game().Queue().Remove(m)
}

var _ mode.Mode = (*GameOver)(nil)
