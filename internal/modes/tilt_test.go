package modes

import (
	"testing"
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
)

func newTiltFixture(allowed int, cooldown time.Duration) (*fakeGameAPI, *Tilt, *core.Switch, *core.Switch, *core.FakeClock) {
	clock := core.NewFakeClock(time.Unix(0, 0))
	api := newFakeGameAPI(clock)
	bob := addSwitch(api, "TiltBob", 1, core.NormallyOpen, core.TagNone)
	slam := addSwitch(api, "SlamTilt", 2, core.NormallyOpen, core.TagService)

	flippers := []FlipperRule{{Switch: "LeftFlipperButton", Coil: "LeftFlipperCoil", PulseMs: 20, HoldPower: 0.4}}
	tilt := NewTilt("TiltBob", "SlamTilt", allowed, cooldown, flippers)
	must(api.Queue().Add(tilt, api))
	return api, tilt, bob, slam, clock
}

func TestTiltWarningsAccumulateBelowThreshold(t *testing.T) {
	api, tilt, bob, _, clock := newTiltFixture(2, time.Millisecond)

	activate(api, bob)
	deactivate(api, bob)
	clock.Advance(time.Second)
	activate(api, bob)

	if tilt.warnings != 2 {
		t.Errorf("expected 2 warnings, got %d", tilt.warnings)
	}
	if tilt.tilted {
		t.Error("did not expect machine to be tilted yet")
	}
	if !api.hasEvent("tilt_warning") {
		t.Error("expected tilt_warning to be posted")
	}
}

func TestTiltExceedingAllowedRemovesFlipperRules(t *testing.T) {
	api, tilt, bob, _, clock := newTiltFixture(1, time.Millisecond)

	activate(api, bob)
	deactivate(api, bob)
	clock.Advance(time.Second)
	activate(api, bob)
	deactivate(api, bob)
	clock.Advance(time.Second)
	activate(api, bob)

	if !tilt.tilted {
		t.Fatal("expected machine to be tilted after exceeding allowed warnings")
	}
	if len(api.removedRules) != 1 || api.removedRules[0] != "LeftFlipperButton" {
		t.Errorf("expected flipper rule removed, got %v", api.removedRules)
	}
	if !api.hasEvent("tilt") {
		t.Error("expected tilt event to be posted")
	}
}

func TestTiltCooldownSwallowsBounces(t *testing.T) {
	api, tilt, bob, _, _ := newTiltFixture(1, time.Second)

	activate(api, bob)
	deactivate(api, bob)
	activate(api, bob) // within cooldown, should be swallowed

	if tilt.warnings != 1 {
		t.Errorf("expected bounce within cooldown to be swallowed, got %d warnings", tilt.warnings)
	}
}

func TestSlamTiltEndsGameImmediately(t *testing.T) {
	api, _, _, slam, _ := newTiltFixture(2, time.Millisecond)

	activate(api, slam)

	if !api.hasEvent("slam_tilt") {
		t.Error("expected slam_tilt event")
	}
	if api.endGameCalls != 1 {
		t.Errorf("expected EndGame called once, got %d", api.endGameCalls)
	}
}

func TestTiltModeStoppedRestoresFlipperRulesWhenTilted(t *testing.T) {
	api, tilt, bob, _, clock := newTiltFixture(1, time.Millisecond)
	activate(api, bob)
	deactivate(api, bob)
	clock.Advance(time.Second)
	activate(api, bob)
	if !tilt.tilted {
		t.Fatal("setup failed: expected tilted")
	}

	api.Queue().Remove(tilt)

	if len(api.installedRule) != 1 || api.installedRule[0] != "LeftFlipperButton" {
		t.Errorf("expected flipper rule restored on ModeStopped, got %v", api.installedRule)
	}
}
