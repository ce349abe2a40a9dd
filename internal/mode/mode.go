// Package mode implements the mode base, the delay scheduler, and the
// priority mode queue (spec §4.4, §4.5): the core's unit of composable
// game behavior and the dispatch machinery that drives it.
package mode

import (
	"time"

	"github.com/vovakirdan/pinhall/internal/core"
)

// Lifecycle governs when a registered mode is automatically inserted into
// and removed from the queue (spec §3, §4.7).
type Lifecycle int

const (
	// LifecycleSystem modes are added once, at startup, and never removed.
	LifecycleSystem Lifecycle = iota
	// LifecycleGame modes are added on StartGame and removed on EndGame.
	LifecycleGame
	// LifecycleBall modes are added on StartBall and removed on EndBall.
	LifecycleBall
	// LifecycleManual modes are never added by the controller; the caller
	// owns them directly via the Queue.
	LifecycleManual
)

// String implements fmt.Stringer.
func (l Lifecycle) String() string {
	switch l {
	case LifecycleSystem:
		return "System"
	case LifecycleGame:
		return "Game"
	case LifecycleBall:
		return "Ball"
	case LifecycleManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// HandlerResult is what a switch handler returns to the dispatch loop.
type HandlerResult int

const (
	// Continue lets lower-priority modes still see the event.
	Continue HandlerResult = iota
	// Stop suppresses the event for every mode below this one in priority.
	Stop
)

// HandlerFunc is a switch-handler callback. It runs synchronously on the
// game loop.
type HandlerFunc func() HandlerResult

// GameAPI is everything a mode can reach through its bound game-controller
// reference (spec §9 "Mode ↔ game-controller back-reference"). It is
// declared here, not in package game, so modes never import the
// controller concretely — package game implements this interface instead.
type GameAPI interface {
	Switches() *core.SwitchTable
	Coils() *core.CoilTable
	Leds() *core.LedTable

	Player() *core.Player
	Players() []*core.Player
	PlayerIndex() int

	CurrentBall() int
	BallsPerGame() int
	MaxPlayers() int

	StartGame()
	AddPlayer() error
	StartBall()
	EndBall()
	EndGame()

	Post(eventType string, payload map[string]any)

	// OnGameStarted and OnGameEnded let a system-lifecycle mode (attract,
	// high-score) react to the lifecycle transitions in spec §4.7 without
	// depending on the media wire format. Subscriptions are unsynchronized
	// Signal callbacks, run inline from the transition (spec §9).
	OnGameStarted(fn func())
	OnGameEnded(fn func())

	// ConfigureFlipperRule and RemoveHardwareRule let a mode toggle a
	// local switch->coil reflex at runtime (tilt disabling the flippers,
	// spec §4.8 "Tilt"), looking both ends up by symbolic name.
	ConfigureFlipperRule(switchName, coilName string, pulseMs int, holdPower float64) error
	RemoveHardwareRule(switchName string) error

	Queue() *Queue
	Clock() core.Clock
}

// Mode is a composable, priority-ranked unit of game behavior. Concrete
// modes embed Base, which implements every method below except Priority
// and DefaultLifecycle; built-ins override ModeStarted/ModeStopped/Tick as
// needed (spec §9 "small base with virtual hooks").
type Mode interface {
	// Priority ranks this mode in the queue; higher runs first.
	Priority() int
	// DefaultLifecycle is used when Register is called without an
	// explicit override.
	DefaultLifecycle() Lifecycle

	// ModeStarted is called once, after the mode is added to the queue
	// and its game reference is bound. Handlers are registered here.
	ModeStarted()
	// ModeStopped is called once, after the mode is removed from the
	// queue.
	ModeStopped()
	// Tick runs every main-loop iteration, after event and delay
	// dispatch.
	Tick(delta time.Duration)

	bind(api GameAPI)
	game() GameAPI
	dispatch(sw *core.Switch) HandlerResult
	fireDelays(now time.Time)
	boundName() string
}
