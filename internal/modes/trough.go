// Package modes implements the built-in modes described in spec §4.8: the
// ball-lifecycle trough/tilt/bonus/ball-search/drop-target-bank modes and
// the system-lifecycle service/high-score/attract modes. Every mode here
// embeds mode.Base and talks to the rest of the machine only through
// mode.GameAPI, the same seam a custom mode would use.
package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// BallDrainHandler lets a custom mode (e.g. a multiball bonus round) claim
// responsibility for ending the ball instead of Trough doing it directly.
type BallDrainHandler interface {
	BallDrained()
}

// Trough owns the trough opto bank, the eject coil, and the shooter-lane
// switch. It fires the ball into play on BallStarting, tracks balls in
// play for multiball, and applies the ball-save/drain policy when the
// trough fills back up (spec §4.8 "Trough / ball lifecycle").
type Trough struct {
	mode.Base

	troughSwitches []string
	ejectCoil      string
	shooterLane    string

	autoBallSaveSeconds float64

	ballsInPlay  int
	saveOpen     bool
	launchArmed  bool
	drainHandler BallDrainHandler
}

// NewTrough constructs a Trough mode. troughSwitches are listed
// closest-to-eject first; ejectCoil fires one ball per Pulse.
func NewTrough(troughSwitches []string, ejectCoil, shooterLane string, autoBallSaveSeconds float64) *Trough {
	return &Trough{
		Base:                mode.NewBase("trough"),
		troughSwitches:      troughSwitches,
		ejectCoil:           ejectCoil,
		shooterLane:         shooterLane,
		autoBallSaveSeconds: autoBallSaveSeconds,
	}
}

// SetDrainHandler registers the mode notified instead of EndBall being
// called directly when the trough fills and no save window is open.
func (t *Trough) SetDrainHandler(h BallDrainHandler) { t.drainHandler = h }

func (t *Trough) Priority() int                   { return 50 }
func (t *Trough) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleBall }

func (t *Trough) ModeStarted() {
	t.ballsInPlay = 0
	t.saveOpen = false
	t.launchArmed = true

	t.AddHandler(t.shooterLane, core.Inactive, t.onLaunch, 0)
	t.AddHandler(t.shooterLane, core.Active, func() mode.HandlerResult {
		t.launchArmed = true
		return mode.Continue
	}, 0)

	for _, sw := range t.troughSwitches {
		name := sw
		t.AddHandler(name, core.Active, func() mode.HandlerResult { return t.onTroughSwitchActive(name) }, 0)
	}

	t.eject()
	if t.autoBallSaveSeconds > 0 {
		t.saveOpen = true
		t.Delay(t.autoBallSaveSeconds, func() { t.saveOpen = false }, "ball-save-window")
	}
}

func (t *Trough) onLaunch() mode.HandlerResult {
	if !t.launchArmed {
		return mode.Continue
	}
	t.launchArmed = false
	t.ballsInPlay++
	if t.ballsInPlay == 2 {
		t.Game().Post("multiball_started", map[string]any{"balls_in_play": t.ballsInPlay})
	}
	return mode.Continue
}

func (t *Trough) onTroughSwitchActive(name string) mode.HandlerResult {
	if t.ballsInPlay == 0 {
		return mode.Continue
	}
	prev := t.ballsInPlay
	t.ballsInPlay--
	if prev >= 2 && t.ballsInPlay == 1 {
		t.Game().Post("multiball_ended", nil)
	}
	if t.ballsInPlay > 0 {
		return mode.Continue
	}

	if t.saveOpen {
		t.CancelDelay("ball-save-window")
		t.saveOpen = false
		t.eject()
		t.Game().Post("ball_saved", nil)
		t.launchArmed = true
		return mode.Continue
	}

	if t.drainHandler != nil {
		t.drainHandler.BallDrained()
		return mode.Continue
	}

	t.Game().EndBall()
	return mode.Continue
}

func (t *Trough) eject() {
	coil, err := t.Game().Coils().Get(t.ejectCoil)
	if err != nil {
		return
	}
	coil.Pulse(0)
}

var _ mode.Mode = (*Trough)(nil)
