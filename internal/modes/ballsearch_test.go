package modes

import (
	"testing"
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
)

func newBallSearchFixture(idle, pulse float64) (*fakeGameAPI, *BallSearch, *core.Switch, *core.FakeClock) {
	clock := core.NewFakeClock(time.Unix(0, 0))
	api := newFakeGameAPI(clock)
	sling := addSwitch(api, "LeftSling", 1, core.NormallyOpen, core.TagPlayfield)
	addCoil(api, "LeftSearchCoil", 100)
	addCoil(api, "RightSearchCoil", 101)

	search := NewBallSearch([]string{"LeftSearchCoil", "RightSearchCoil"}, idle, pulse)
	must(api.Queue().Add(search, api))
	return api, search, sling, clock
}

func TestBallSearchStartsAfterIdleTimeout(t *testing.T) {
	api, search, _, clock := newBallSearchFixture(15, 0.25)

	clock.Advance(16 * time.Second)
	api.Queue().FireDelays(clock.Now())

	if !search.searching {
		t.Fatal("expected search to have started after the idle timeout")
	}
	if !api.hasEvent("ball_search_started") {
		t.Error("expected ball_search_started event")
	}
}

func TestPlayfieldActivityResetsIdleTimerAndStopsSearch(t *testing.T) {
	api, search, sling, clock := newBallSearchFixture(15, 0.25)

	clock.Advance(16 * time.Second)
	api.Queue().FireDelays(clock.Now())
	if !search.searching {
		t.Fatal("setup failed: expected searching")
	}

	activate(api, sling)

	if search.searching {
		t.Error("expected playfield activity to stop an active search")
	}
	if !api.hasEvent("ball_search_stopped") {
		t.Error("expected ball_search_stopped event")
	}

	deactivate(api, sling)
	clock.Advance(14 * time.Second)
	api.Queue().FireDelays(clock.Now())
	if search.searching {
		t.Error("expected the idle timer to have been reset by the activity")
	}
}

func TestShooterLaneActiveSuspendsIdleTimer(t *testing.T) {
	clock := core.NewFakeClock(time.Unix(0, 0))
	api := newFakeGameAPI(clock)
	lane := addSwitch(api, "ShooterLane", 2, core.NormallyOpen, core.TagShooterLane)
	addCoil(api, "SearchCoil", 100)
	search := NewBallSearch([]string{"SearchCoil"}, 15, 0.25)
	must(api.Queue().Add(search, api))

	activate(api, lane)
	clock.Advance(20 * time.Second)
	api.Queue().FireDelays(clock.Now())

	if search.searching {
		t.Error("expected the ball in the shooter lane to suspend the idle timer")
	}

	deactivate(api, lane)
	clock.Advance(16 * time.Second)
	api.Queue().FireDelays(clock.Now())

	if !search.searching {
		t.Error("expected the idle timer to restart once the shooter lane clears")
	}
}
