package modes

import (
	"testing"
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
)

func newAttractFixture() (*fakeGameAPI, *Attract, *core.Switch, *core.Switch, *core.FakeClock) {
	clock := core.NewFakeClock(time.Unix(0, 0))
	api := newFakeGameAPI(clock)
	start := addSwitch(api, "Start", 1, core.NormallyOpen, core.TagNone)
	shooter := addSwitch(api, "ShooterLane", 2, core.NormallyOpen, core.TagShooterLane)

	at := NewAttract("Start", "ShooterLane", 1)
	must(api.Queue().Add(at, api))
	return api, at, start, shooter, clock
}

func TestAttractStartsGameWhenIdle(t *testing.T) {
	api, _, start, _, _ := newAttractFixture()
	api.ball = 0

	activate(api, start)

	if api.startGameCalls != 1 {
		t.Fatalf("expected StartGame to be called once, got %d", api.startGameCalls)
	}
}

func TestAttractAddsPlayerBeforePlunge(t *testing.T) {
	api, _, start, _, _ := newAttractFixture()
	api.ball = 1
	api.players = fakePlayers(0)

	activate(api, start)

	if api.addPlayerCalls != 1 {
		t.Fatalf("expected AddPlayer before the first plunge, got %d calls", api.addPlayerCalls)
	}
}

func TestAttractStopsAddingPlayersAfterPlunge(t *testing.T) {
	api, _, start, shooter, _ := newAttractFixture()
	api.ball = 1
	api.players = fakePlayers(0)

	activate(api, shooter)
	deactivate(api, shooter)

	activate(api, start)

	if api.addPlayerCalls != 0 {
		t.Fatalf("expected no AddPlayer after plunge, got %d calls", api.addPlayerCalls)
	}
}

func TestAttractStopsAddingPlayersAtMax(t *testing.T) {
	api, _, start, _, _ := newAttractFixture()
	api.ball = 1
	api.maxPlayers = 1
	api.players = fakePlayers(0)

	activate(api, start)

	if api.addPlayerCalls != 0 {
		t.Fatalf("expected no AddPlayer once max players is reached, got %d calls", api.addPlayerCalls)
	}
}

func TestGameOverDwellElapsesAndPostsAttractIdle(t *testing.T) {
	api, _, _, _, clock := newAttractFixture()
	api.ball = 0

	api.fireGameEnded()

	clock.Advance(2 * time.Second)
	api.Queue().FireDelays(clock.Now())

	if !api.hasEvent("attract_idle") {
		t.Error("expected attract_idle once the dwell period elapses")
	}
}

func TestStartDuringDwellStepsGameOverAsideAndRestartsGame(t *testing.T) {
	api, _, start, _, _ := newAttractFixture()
	api.ball = 0

	api.fireGameEnded()

	// GameOver (priority 6) sees Start first and self-removes without
	// Stop; Attract (priority 5) then sees the same event and, since
	// CurrentBall() is still 0, starts the next game.
	activate(api, start)

	if api.startGameCalls != 1 {
		t.Fatalf("expected StartGame once GameOver stepped aside, got %d", api.startGameCalls)
	}
}
