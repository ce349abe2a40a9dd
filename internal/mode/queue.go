package mode

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pinhall/internal/core"
)

// ErrAlreadyQueued is returned by Add when the mode instance is already a
// member of the queue (spec §3 invariant: at most one instance per mode).
var ErrAlreadyQueued = fmt.Errorf("mode: already in queue")

// Queue is the priority-ordered collection of active modes (spec §4.5). It
// is lifecycle-agnostic: the System/Game/Ball/Manual bookkeeping lives in
// the game controller's registry, not here.
type Queue struct {
	modes    []Mode
	members  map[Mode]struct{}
	children map[Mode][]Mode
	parents  map[Mode]Mode

	logger *log.Logger
}

// NewQueue creates an empty mode queue. logger may be nil, in which case a
// default logger writing to stderr is used.
func NewQueue(logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "modequeue"})
	}
	return &Queue{
		members:  make(map[Mode]struct{}),
		children: make(map[Mode][]Mode),
		parents:  make(map[Mode]Mode),
		logger:   logger,
	}
}

// Add binds the game reference, inserts m in priority order (ties broken
// by insertion order — a stable sort over an append preserves that), and
// invokes ModeStarted. Re-adding the same instance is an error.
func (q *Queue) Add(m Mode, api GameAPI) error {
	if _, ok := q.members[m]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, m.boundName())
	}

	m.bind(api)
	q.members[m] = struct{}{}
	q.modes = append(q.modes, m)
	sort.SliceStable(q.modes, func(i, j int) bool {
		return q.modes[i].Priority() > q.modes[j].Priority()
	})

	q.logger.Info("mode added", "name", m.boundName(), "priority", m.Priority())
	m.ModeStarted()
	return nil
}

// Remove takes m out of the queue and cascades removal to any children it
// owns. ModeStopped is invoked after removal, so queries against the queue
// from within ModeStopped observe the post-removal state. Removing a
// non-member is a silent no-op.
func (q *Queue) Remove(m Mode) {
	if _, ok := q.members[m]; !ok {
		return
	}

	children := append([]Mode(nil), q.children[m]...)
	for _, child := range children {
		q.Remove(child)
	}
	delete(q.children, m)
	if parent, ok := q.parents[m]; ok {
		q.children[parent] = removeMode(q.children[parent], m)
		delete(q.parents, m)
	}

	q.modes = removeMode(q.modes, m)
	delete(q.members, m)

	q.logger.Info("mode removed", "name", m.boundName())
	m.ModeStopped()
}

// AddChild registers child as owned by parent and adds it to the queue.
// Adding the same child twice is a no-op.
func (q *Queue) AddChild(parent, child Mode, api GameAPI) error {
	if _, ok := q.members[child]; ok {
		return nil
	}
	if err := q.Add(child, api); err != nil {
		return err
	}
	q.parents[child] = parent
	q.children[parent] = append(q.children[parent], child)
	return nil
}

// Contains reports whether m is currently a member of the queue.
func (q *Queue) Contains(m Mode) bool {
	_, ok := q.members[m]
	return ok
}

// Snapshot returns the modes currently in the queue, in priority order.
// The returned slice is a copy so callers can add/remove modes while
// iterating it.
func (q *Queue) Snapshot() []Mode {
	out := make([]Mode, len(q.modes))
	copy(out, q.modes)
	return out
}

// Dispatch runs sw through every mode in priority order. If a mode's
// overall result is Stop, the loop breaks immediately and no
// lower-priority mode observes the event (spec §4.5).
func (q *Queue) Dispatch(sw *core.Switch) {
	for _, m := range q.Snapshot() {
		if !q.Contains(m) {
			continue // removed mid-dispatch by an earlier handler
		}
		if m.dispatch(sw) == Stop {
			break
		}
	}
}

// FireDelays walks every mode's pending delays and fires the ones due at
// now. Runs after event dispatch, before Tick (spec §5 ordering).
func (q *Queue) FireDelays(now time.Time) {
	for _, m := range q.Snapshot() {
		if !q.Contains(m) {
			continue
		}
		m.fireDelays(now)
	}
}

// TickAll calls Tick(delta) on every mode, in priority order.
func (q *Queue) TickAll(delta time.Duration) {
	for _, m := range q.Snapshot() {
		if !q.Contains(m) {
			continue
		}
		m.Tick(delta)
	}
}

func removeMode(modes []Mode, target Mode) []Mode {
	out := modes[:0]
	for _, m := range modes {
		if m != target {
			out = append(out, m)
		}
	}
	return out
}
