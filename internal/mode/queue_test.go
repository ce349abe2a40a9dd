package mode

import (
	"errors"
	"testing"

	"github.com/vovakirdan/pinhall/internal/core"
)

func TestQueuePriorityOrderingAndStableTies(t *testing.T) {
	q := NewQueue(nil)
	api := newFakeGameAPI(q)

	low := newFakeMode("low", 1)
	highA := newFakeMode("highA", 10)
	highB := newFakeMode("highB", 10)

	must(t, q.Add(low, api))
	must(t, q.Add(highA, api))
	must(t, q.Add(highB, api))

	snap := q.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 modes, got %d", len(snap))
	}
	if snap[0] != Mode(highA) || snap[1] != Mode(highB) {
		t.Errorf("expected highA then highB before low (stable tie, insertion order), got %v", snap)
	}
	if snap[2] != Mode(low) {
		t.Errorf("expected low last, got %v", snap)
	}
}

func TestQueueDuplicateAddIsError(t *testing.T) {
	q := NewQueue(nil)
	api := newFakeGameAPI(q)
	m := newFakeMode("m", 5)

	must(t, q.Add(m, api))
	if err := q.Add(m, api); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("expected ErrAlreadyQueued, got %v", err)
	}
}

func TestQueueRemoveCallsModeStoppedAfterRemoval(t *testing.T) {
	q := NewQueue(nil)
	api := newFakeGameAPI(q)
	m := newFakeMode("m", 5)
	must(t, q.Add(m, api))

	q.Remove(m)
	if q.Contains(m) {
		t.Error("expected mode to be removed from queue before ModeStopped observers query it")
	}
	if m.stopped != 1 {
		t.Errorf("expected ModeStopped called once, got %d", m.stopped)
	}
}

func TestQueueRemoveNonMemberIsNoOp(t *testing.T) {
	q := NewQueue(nil)
	m := newFakeMode("ghost", 1)
	q.Remove(m) // should not panic
}

func TestQueueChildCascadeRemoval(t *testing.T) {
	q := NewQueue(nil)
	api := newFakeGameAPI(q)
	parent := newFakeMode("parent", 5)
	child := newFakeMode("child", 1)

	must(t, q.Add(parent, api))
	must(t, q.AddChild(parent, child, api))

	if !q.Contains(child) {
		t.Fatal("expected child to be added")
	}

	q.Remove(parent)
	if q.Contains(child) {
		t.Error("expected child to be cascaded-removed with parent")
	}
	if child.stopped != 1 {
		t.Errorf("expected child ModeStopped called once, got %d", child.stopped)
	}
}

func TestQueueAddChildTwiceIsIdempotent(t *testing.T) {
	q := NewQueue(nil)
	api := newFakeGameAPI(q)
	parent := newFakeMode("parent", 5)
	child := newFakeMode("child", 1)
	must(t, q.Add(parent, api))

	must(t, q.AddChild(parent, child, api))
	must(t, q.AddChild(parent, child, api))

	if child.started != 1 {
		t.Errorf("expected ModeStarted called once despite double AddChild, got %d", child.started)
	}
}

func TestDispatchStopPropagation(t *testing.T) {
	q := NewQueue(nil)
	api := newFakeGameAPI(q)

	var lowFired bool
	high := newFakeMode("high", 100)
	high.onStart = func(f *fakeMode) {
		f.AddHandler("X", core.ClosedActivation, func() HandlerResult { return Stop }, 0)
	}
	low := newFakeMode("low", 1)
	low.onStart = func(f *fakeMode) {
		f.AddHandler("X", core.ClosedActivation, func() HandlerResult {
			lowFired = true
			return Continue
		}, 0)
	}

	must(t, q.Add(high, api))
	must(t, q.Add(low, api))

	sw := core.NewSwitch("X", 1, core.NormallyOpen, core.TagNone)
	sw.State = core.Closed
	q.Dispatch(sw)

	if lowFired {
		t.Error("expected low-priority mode not to see the event after high-priority Stop")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
