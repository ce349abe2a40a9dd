package modes

import (
	"testing"
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
)

func newComboFixture(required int, window float64) (*fakeGameAPI, []*core.Switch, *core.FakeClock) {
	clock := core.NewFakeClock(time.Unix(0, 0))
	api := newFakeGameAPI(clock)
	names := []string{"RampA", "RampB", "RampC"}
	var sws []*core.Switch
	for i, n := range names {
		sws = append(sws, addSwitch(api, n, i+1, core.NormallyOpen, core.TagPlayfield))
	}
	combo := NewCombo(names, required, window)
	must(api.Queue().Add(combo, api))
	return api, sws, clock
}

func TestComboCompletesWithinWindow(t *testing.T) {
	api, sws, clock := newComboFixture(3, 2)

	activate(api, sws[0])
	clock.Advance(time.Second)
	activate(api, sws[1])
	clock.Advance(time.Second)
	activate(api, sws[2])

	if !api.hasEvent("combo_completed") {
		t.Error("expected combo_completed after three hits within the window")
	}
}

func TestComboBreaksWhenWindowLapses(t *testing.T) {
	api, sws, clock := newComboFixture(3, 1)

	activate(api, sws[0])
	clock.Advance(2 * time.Second)
	api.Queue().FireDelays(clock.Now())

	if !api.hasEvent("combo_broken") {
		t.Error("expected combo_broken once the window lapses without a second hit")
	}
}

func TestComboResetsStepAfterBreak(t *testing.T) {
	api, sws, clock := newComboFixture(2, 1)

	activate(api, sws[0])
	clock.Advance(2 * time.Second)
	api.Queue().FireDelays(clock.Now())

	activate(api, sws[1])
	if api.hasEvent("combo_completed") {
		t.Error("a broken combo should not complete on the next unrelated hit")
	}
}
