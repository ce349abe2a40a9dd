// Package game implements the controller: the main loop, the switch-event
// pipeline, and the lifecycle state machine described in spec §4.6–§4.7.
// It is the sole implementer of mode.GameAPI, keeping every built-in and
// custom mode ignorant of this package (spec §9's dependency-inversion
// seam).
package game

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/media"
	"github.com/vovakirdan/pinhall/internal/mode"
	"github.com/vovakirdan/pinhall/internal/platform"
)

// registration is one (mode, lifecycle) pair recorded by Register.
type registration struct {
	mode      mode.Mode
	lifecycle mode.Lifecycle
}

// Controller owns the players, the device registry, the mode queue, and
// the main loop that ties them together.
type Controller struct {
	platform platform.HardwarePlatform
	machine  *core.MachineConfig
	queue    *mode.Queue
	clock    core.Clock
	media    media.Sink
	logger   *log.Logger

	ballsPerGame int
	maxPlayers   int

	players       []*core.Player
	playerIndex   int
	currentBall   int
	ballStartedAt time.Time

	registry []registration

	gameStarted mode.Signal[struct{}]
	gameEnded   mode.Signal[struct{}]

	switchEvents <-chan platform.SwitchChangeEvent
	onStartup    func(*Controller)
}

// New creates a Controller bound to the given platform and machine
// configuration. mediaSink may be nil to run without event fanout; logger
// defaults to a stderr-prefixed logger, matching the rest of the core.
func New(hw platform.HardwarePlatform, machine *core.MachineConfig, clock core.Clock, mediaSink media.Sink, ballsPerGame, maxPlayers int, logger *log.Logger) *Controller {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "game"})
	}
	return &Controller{
		platform:     hw,
		machine:      machine,
		queue:        mode.NewQueue(logger.WithPrefix("modequeue")),
		clock:        clock,
		media:        mediaSink,
		logger:       logger,
		ballsPerGame: ballsPerGame,
		maxPlayers:   maxPlayers,
	}
}

// OnStartup sets the hook invoked once, after switch subscription and
// before System-lifecycle modes are added — the place modes register
// themselves (spec §4.7 "Startup sequence").
func (c *Controller) OnStartup(fn func(*Controller)) {
	c.onStartup = fn
}

// Register records m under lifecycle (or m.DefaultLifecycle() if omitted).
// System-lifecycle modes are added to the queue at startup; the others are
// added and removed by the lifecycle transitions below.
func (c *Controller) Register(m mode.Mode, lifecycle ...mode.Lifecycle) {
	lc := m.DefaultLifecycle()
	if len(lifecycle) > 0 {
		lc = lifecycle[0]
	}
	c.registry = append(c.registry, registration{mode: m, lifecycle: lc})
}

// Queue exposes the underlying mode queue, e.g. for Manual-lifecycle modes
// the caller owns directly.
func (c *Controller) Queue() *mode.Queue { return c.queue }

// Clock implements mode.GameAPI.
func (c *Controller) Clock() core.Clock { return c.clock }

// Switches implements mode.GameAPI.
func (c *Controller) Switches() *core.SwitchTable { return c.machine.Switches }

// Coils implements mode.GameAPI.
func (c *Controller) Coils() *core.CoilTable { return c.machine.Coils }

// Leds implements mode.GameAPI.
func (c *Controller) Leds() *core.LedTable { return c.machine.Leds }

// Player returns the current player, or nil before any game has started.
func (c *Controller) Player() *core.Player {
	if c.playerIndex < 0 || c.playerIndex >= len(c.players) {
		return nil
	}
	return c.players[c.playerIndex]
}

// Players returns a defensive copy of the player list.
func (c *Controller) Players() []*core.Player {
	out := make([]*core.Player, len(c.players))
	copy(out, c.players)
	return out
}

// PlayerIndex implements mode.GameAPI.
func (c *Controller) PlayerIndex() int { return c.playerIndex }

// CurrentBall implements mode.GameAPI. 0 means no game in progress.
func (c *Controller) CurrentBall() int { return c.currentBall }

// BallsPerGame implements mode.GameAPI.
func (c *Controller) BallsPerGame() int { return c.ballsPerGame }

// MaxPlayers implements mode.GameAPI.
func (c *Controller) MaxPlayers() int { return c.maxPlayers }

// ConfigureFlipperRule implements mode.GameAPI.
func (c *Controller) ConfigureFlipperRule(switchName, coilName string, pulseMs int, holdPower float64) error {
	return c.machine.AddFlipperRule(switchName, coilName, pulseMs, holdPower)
}

// RemoveHardwareRule implements mode.GameAPI.
func (c *Controller) RemoveHardwareRule(switchName string) error {
	return c.machine.RemoveHardwareRule(switchName)
}

// Post implements mode.GameAPI, fanning the event out to the media sink.
func (c *Controller) Post(eventType string, payload map[string]any) {
	if c.media == nil {
		return
	}
	c.media.Post(media.Event{Type: eventType, Payload: payload})
}

// OnGameStarted implements mode.GameAPI.
func (c *Controller) OnGameStarted(fn func()) {
	c.gameStarted.Subscribe(func(struct{}) { fn() })
}

// OnGameEnded implements mode.GameAPI.
func (c *Controller) OnGameEnded(fn func()) {
	c.gameEnded.Subscribe(func(struct{}) { fn() })
}

// StartGame transitions Idle -> BallInProgress. Idempotent when a game is
// already running.
func (c *Controller) StartGame() {
	if c.currentBall != 0 {
		return
	}
	c.players = []*core.Player{core.NewPlayer("Player 1")}
	c.playerIndex = 0
	c.currentBall = 1
	c.Post("game_started", map[string]any{"player": 1, "balls_per_game": c.ballsPerGame})
	c.gameStarted.Emit(struct{}{})
	c.addModesForLifecycle(mode.LifecycleGame)
	c.StartBall()
}

// AddPlayer appends a new player. Policy about when this is legal (e.g.
// only before the first plunge) lives in the attract mode, not here.
func (c *Controller) AddPlayer() error {
	if c.currentBall == 0 {
		return fmt.Errorf("game: cannot add player, no game in progress")
	}
	if len(c.players) >= c.maxPlayers {
		return fmt.Errorf("game: cannot add player, max players (%d) reached", c.maxPlayers)
	}
	c.players = append(c.players, core.NewPlayer(fmt.Sprintf("Player %d", len(c.players)+1)))
	c.Post("player_added", map[string]any{"player": len(c.players), "total_players": len(c.players)})
	return nil
}

// StartBall adds Ball-lifecycle modes not already queued, resets the
// current player's ball-scoped state, and emits ball_starting.
func (c *Controller) StartBall() {
	c.addModesForLifecycle(mode.LifecycleBall)
	if p := c.Player(); p != nil {
		p.ResetBallState()
	}
	c.ballStartedAt = c.clock.Now()
	c.Post("ball_starting", map[string]any{"ball": c.currentBall, "player": c.playerIndex + 1})
}

// EndBall closes out the current ball: accrues playing time, emits
// ball_ended, removes Ball-lifecycle modes, and either grants an extra
// ball, rotates to the next player, or ends the game (spec §4.7 table).
func (c *Controller) EndBall() {
	p := c.Player()
	if p != nil {
		p.GameTime += c.clock.Now().Sub(c.ballStartedAt)
	}
	score := int64(0)
	if p != nil {
		score = p.Score
	}
	c.Post("ball_ended", map[string]any{"ball": c.currentBall, "player": c.playerIndex + 1, "score": score})
	c.removeModesForLifecycle(mode.LifecycleBall)

	if p != nil && p.ExtraBalls > 0 {
		p.ExtraBalls--
		c.StartBall()
		return
	}

	if c.playerIndex+1 < len(c.players) {
		c.playerIndex++
	} else {
		c.playerIndex = 0
		c.currentBall++
	}

	if c.currentBall > c.ballsPerGame {
		c.EndGame()
		return
	}
	c.StartBall()
}

// EndGame transitions BallInProgress -> Idle: removes Game-lifecycle
// modes, emits game_ended with every player's final score, and zeroes the
// ball counter.
func (c *Controller) EndGame() {
	scores := make([]map[string]any, len(c.players))
	for i, p := range c.players {
		scores[i] = map[string]any{"name": p.Name, "score": p.Score}
	}
	c.Post("game_ended", map[string]any{"scores": scores})
	c.gameEnded.Emit(struct{}{})
	c.removeModesForLifecycle(mode.LifecycleGame)
	c.currentBall = 0
}

func (c *Controller) addModesForLifecycle(lc mode.Lifecycle) {
	for _, reg := range c.registry {
		if reg.lifecycle != lc || c.queue.Contains(reg.mode) {
			continue
		}
		if err := c.queue.Add(reg.mode, c); err != nil {
			c.logger.Warn("could not add mode", "lifecycle", lc, "error", err)
		}
	}
}

func (c *Controller) removeModesForLifecycle(lc mode.Lifecycle) {
	for _, reg := range c.registry {
		if reg.lifecycle == lc {
			c.queue.Remove(reg.mode)
		}
	}
}

// Run executes the startup sequence and then the main loop until ctx is
// cancelled (spec §4.7 "Main loop" / "Startup sequence").
func (c *Controller) Run(ctx context.Context) error {
	if err := c.platform.Connect(ctx); err != nil {
		return fmt.Errorf("game: connect: %w", err)
	}
	defer c.platform.Disconnect(ctx)

	if err := c.machine.Configure(); err != nil {
		return fmt.Errorf("game: configure: %w", err)
	}

	initial, err := c.platform.InitialSwitchStates(ctx)
	if err != nil {
		return fmt.Errorf("game: initial switch states: %w", err)
	}
	for _, sw := range c.machine.Switches.All() {
		if st, ok := initial[sw.Address]; ok {
			sw.State = st
			sw.LastChanged = c.clock.Now()
		}
	}

	c.switchEvents = c.platform.Subscribe()

	if c.onStartup != nil {
		c.onStartup(c)
	}
	c.addModesForLifecycle(mode.LifecycleSystem)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	lastTick := c.clock.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		now := c.clock.Now()
		delta := now.Sub(lastTick)
		lastTick = now

		c.drainSwitchEvents()
		c.queue.FireDelays(now)
		c.queue.TickAll(delta)
	}
}

func (c *Controller) drainSwitchEvents() {
	for {
		select {
		case ev := <-c.switchEvents:
			c.handleSwitchEvent(ev)
		default:
			return
		}
	}
}

func (c *Controller) handleSwitchEvent(ev platform.SwitchChangeEvent) {
	sw, ok := c.machine.Switches.GetByAddress(ev.Address)
	if !ok {
		c.logger.Warn("dropping switch event for unknown address", "address", ev.Address)
		return
	}
	if sw.State == ev.State {
		return
	}
	sw.State = ev.State
	sw.LastChanged = c.clock.Now()
	c.queue.Dispatch(sw)
}

var _ mode.GameAPI = (*Controller)(nil)
