package modes

import (
	"testing"
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
)

func newBonusFixture() (*fakeGameAPI, *Bonus, *core.FakeClock) {
	clock := core.NewFakeClock(time.Unix(0, 0))
	api := newFakeGameAPI(clock)
	api.players = []*core.Player{core.NewPlayer("Player 1")}
	api.playerIndex = 0

	bonus := NewBonus(1000, 0.1)
	must(api.Queue().Add(bonus, api))
	return api, bonus, clock
}

func TestStartBonusWithZeroTotalEndsBallImmediately(t *testing.T) {
	api, bonus, _ := newBonusFixture()
	bonus.StartBonus()

	if api.endBallCalls != 1 {
		t.Errorf("expected EndBall called once for a zero bonus, got %d", api.endBallCalls)
	}
	if api.hasEvent("bonus_started") {
		t.Error("did not expect bonus_started for a zero bonus")
	}
}

func TestStartBonusAwardsStepsAndCompletesCountdown(t *testing.T) {
	api, bonus, clock := newBonusFixture()
	bonus.AddBonus(2500)
	bonus.SetMultiplier(2)

	bonus.StartBonus()
	if !api.hasEvent("bonus_started") {
		t.Fatal("expected bonus_started")
	}

	// total = 2500*2 = 5000; steps of 1000 -> 5 steps
	for i := 0; i < 5; i++ {
		clock.Advance(200 * time.Millisecond)
		api.Queue().FireDelays(clock.Now())
	}

	if !api.hasEvent("bonus_completed") {
		t.Error("expected bonus_completed after the countdown finishes")
	}
	if api.endBallCalls != 1 {
		t.Errorf("expected EndBall called once after countdown, got %d", api.endBallCalls)
	}
	if api.Player().Score != 5000 {
		t.Errorf("expected player's score to reach 5000, got %d", api.Player().Score)
	}
}

func TestSetMultiplierClampsToOne(t *testing.T) {
	_, bonus, _ := newBonusFixture()
	bonus.SetMultiplier(0)
	if bonus.multiplier != 1 {
		t.Errorf("expected multiplier clamped to 1, got %d", bonus.multiplier)
	}
	bonus.SetMultiplier(-5)
	if bonus.multiplier != 1 {
		t.Errorf("expected negative multiplier clamped to 1, got %d", bonus.multiplier)
	}
}
