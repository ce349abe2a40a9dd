package mode

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/pinhall/internal/core"
)

var panicLogger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "mode"})

type handlerEntry struct {
	Switch     string
	Activation core.Activation
	Hold       time.Duration
	Fn         HandlerFunc
}

// Base is embedded by every built-in (and custom) mode. It implements the
// unexported plumbing of the Mode interface — binding, dispatch, and the
// delay scheduler — so concrete modes only need to supply Priority,
// DefaultLifecycle, and whichever lifecycle hooks they care about.
type Base struct {
	name string

	api GameAPI

	handlers []handlerEntry

	delays    map[string]*pendingDelay
	seq       int
	holdPend  map[string]map[core.Activation]string // switch name -> activation -> delay name
}

type pendingDelay struct {
	fireAt time.Time
	fn     func()
	seq    int
}

// NewBase constructs a Base with the given diagnostic name (used only in
// logs, never in dispatch semantics).
func NewBase(name string) Base {
	return Base{
		name:     name,
		delays:   make(map[string]*pendingDelay),
		holdPend: make(map[string]map[core.Activation]string),
	}
}

// Default lifecycle hooks: concrete modes override the ones they need.
func (b *Base) ModeStarted()          {}
func (b *Base) ModeStopped()          {}
func (b *Base) Tick(d time.Duration)  {}

// bind attaches the game reference and drops the handlers and pending hold
// delays left from a previous stay in the queue, so a re-added mode (a
// Ball-lifecycle mode on every new ball) registers each handler once in
// ModeStarted.
func (b *Base) bind(api GameAPI) {
	b.api = api
	b.handlers = nil
	for _, byAct := range b.holdPend {
		for _, key := range byAct {
			b.CancelDelay(key)
		}
	}
	b.holdPend = make(map[string]map[core.Activation]string)
}

func (b *Base) game() GameAPI      { return b.api }
func (b *Base) boundName() string  { return b.name }

// Game returns the bound game-controller reference. Valid only after
// ModeStarted has been called.
func (b *Base) Game() GameAPI { return b.api }

// AddHandler registers a switch handler. Per spec §4.4, this must only be
// called from within ModeStarted. hold, if non-zero, makes the handler a
// hold-duration handler: it fires only after the switch stays in act for
// that long, and is auto-cancelled if the switch flips to the opposite
// activation first.
func (b *Base) AddHandler(sw string, act core.Activation, fn HandlerFunc, hold time.Duration) {
	b.handlers = append(b.handlers, handlerEntry{Switch: sw, Activation: act, Hold: hold, Fn: fn})
}

// Delay schedules fn to run after seconds. If name is supplied and a
// pending delay with that name exists, it is replaced atomically
// (timer restart, spec §4.4 "delay replacement"). If name is omitted, a
// fresh unique name is generated and returned.
func (b *Base) Delay(seconds float64, fn func(), name ...string) string {
	key := ""
	if len(name) > 0 && name[0] != "" {
		key = name[0]
	} else {
		key = uuid.NewString()
	}

	now := b.now()
	b.seq++
	b.delays[key] = &pendingDelay{
		fireAt: now.Add(time.Duration(seconds * float64(time.Second))),
		fn:     fn,
		seq:    b.seq,
	}
	return key
}

// CancelDelay removes every pending delay under name. No-op if none exist.
func (b *Base) CancelDelay(name string) {
	delete(b.delays, name)
}

// IsDelayed reports whether a pending delay is registered under name.
func (b *Base) IsDelayed(name string) bool {
	_, ok := b.delays[name]
	return ok
}

func (b *Base) now() time.Time {
	if b.api != nil && b.api.Clock() != nil {
		return b.api.Clock().Now()
	}
	return time.Now()
}

// fireDelays removes and invokes every delay whose fire-at has elapsed,
// ascending by fire-at then by scheduling order, removing each entry
// before invoking its callback so the callback may safely reschedule the
// same name (spec §4.4 "Dispatch of delays").
type dueEntry struct {
	key string
	d   *pendingDelay
}

func (b *Base) fireDelays(now time.Time) {
	var ready []dueEntry
	for k, d := range b.delays {
		if !d.fireAt.After(now) {
			ready = append(ready, dueEntry{k, d})
		}
	}
	if len(ready) == 0 {
		return
	}
	sortDue(ready)

	for _, r := range ready {
		delete(b.delays, r.key)
		b.invoke(r.d.fn)
	}
}

// sortDue is a small insertion sort: ascending fire-at, ties broken by
// scheduling order (spec §5 "Ordering guarantees").
func sortDue(items []dueEntry) {
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && dueLess(items[j], items[j-1]) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}
}

func dueLess(a, b dueEntry) bool {
	if a.d.fireAt.Equal(b.d.fireAt) {
		return a.d.seq < b.d.seq
	}
	return a.d.fireAt.Before(b.d.fireAt)
}

// invoke runs a handler/delay callback, recovering from a panic per the
// "recovery-on-floor" dispatch-exception policy in spec §7: log and keep
// going, without resetting the mode's state.
func (b *Base) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			panicLogger.Warn("recovered from dispatch panic", "mode", b.name, "panic", r)
		}
	}()
	fn()
}

// dispatch runs every handler on this mode matching sw's name and current
// state. Hold-duration handlers are deferred to a private delay instead of
// firing immediately; a transition to the opposite activation cancels any
// such pending delay for that switch. The mode's overall result is Stop if
// any matched handler returned Stop (spec §4.5).
func (b *Base) dispatch(sw *core.Switch) HandlerResult {
	if pend, ok := b.holdPend[sw.Name]; ok {
		for act, key := range pend {
			if sw.Matches(act.Opposite()) {
				b.CancelDelay(key)
				delete(pend, act)
			}
		}
	}

	result := Continue
	for _, h := range b.handlers {
		if h.Switch != sw.Name || !sw.Matches(h.Activation) {
			continue
		}
		if h.Hold > 0 {
			b.scheduleHold(sw.Name, h)
			continue
		}
		r := b.invokeHandler(h.Fn)
		if r == Stop {
			result = Stop
		}
	}
	return result
}

func (b *Base) scheduleHold(swName string, h handlerEntry) {
	key := fmt.Sprintf("sw_%s_%s_%v", swName, h.Activation, h.Hold.Seconds())
	if b.IsDelayed(key) {
		return
	}
	fn := h.Fn
	b.Delay(h.Hold.Seconds(), func() { b.invokeHandler(fn) }, key)

	if b.holdPend[swName] == nil {
		b.holdPend[swName] = make(map[core.Activation]string)
	}
	b.holdPend[swName][h.Activation] = key
}

func (b *Base) invokeHandler(fn HandlerFunc) (result HandlerResult) {
	result = Continue
	defer func() {
		if r := recover(); r != nil {
			panicLogger.Warn("recovered from handler panic", "mode", b.name, "panic", r)
		}
	}()
	result = fn()
	return result
}
