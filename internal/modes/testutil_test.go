package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// fakeGameAPI is a minimal mode.GameAPI sufficient for exercising a single
// built-in mode in isolation, without spinning up a full controller.
type fakeGameAPI struct {
	switches *core.SwitchTable
	coils    *core.CoilTable
	leds     *core.LedTable

	players     []*core.Player
	playerIndex int
	ball        int
	ballsPer    int
	maxPlayers  int

	clock core.Clock
	queue *mode.Queue

	events []fakeEvent

	removedRules  []string
	installedRule []string

	startGameCalls int
	addPlayerErr   error
	addPlayerCalls int
	startBallCalls int
	endBallCalls   int
	endGameCalls   int

	gameStartedSubs []func()
	gameEndedSubs   []func()
}

type fakeEvent struct {
	Type    string
	Payload map[string]any
}

func newFakeGameAPI(clock core.Clock) *fakeGameAPI {
	if clock == nil {
		clock = core.NewFakeClock(core.SystemClock{}.Now())
	}
	api := &fakeGameAPI{
		switches:   core.NewTable[*core.Switch](),
		coils:      core.NewTable[*core.Coil](),
		leds:       core.NewTable[*core.LED](),
		ballsPer:   3,
		maxPlayers: 4,
		ball:       1,
		clock:      clock,
	}
	api.queue = mode.NewQueue(nil)
	return api
}

func (f *fakeGameAPI) Switches() *core.SwitchTable { return f.switches }
func (f *fakeGameAPI) Coils() *core.CoilTable      { return f.coils }
func (f *fakeGameAPI) Leds() *core.LedTable        { return f.leds }

func (f *fakeGameAPI) Player() *core.Player {
	if f.playerIndex < 0 || f.playerIndex >= len(f.players) {
		return nil
	}
	return f.players[f.playerIndex]
}
func (f *fakeGameAPI) Players() []*core.Player { return f.players }
func (f *fakeGameAPI) PlayerIndex() int        { return f.playerIndex }

func (f *fakeGameAPI) CurrentBall() int  { return f.ball }
func (f *fakeGameAPI) BallsPerGame() int { return f.ballsPer }
func (f *fakeGameAPI) MaxPlayers() int   { return f.maxPlayers }

func (f *fakeGameAPI) StartGame() { f.startGameCalls++ }
func (f *fakeGameAPI) AddPlayer() error {
	f.addPlayerCalls++
	return f.addPlayerErr
}
func (f *fakeGameAPI) StartBall() { f.startBallCalls++ }
func (f *fakeGameAPI) EndBall()   { f.endBallCalls++ }
func (f *fakeGameAPI) EndGame()   { f.endGameCalls++ }

func (f *fakeGameAPI) Post(eventType string, payload map[string]any) {
	f.events = append(f.events, fakeEvent{Type: eventType, Payload: payload})
}

func (f *fakeGameAPI) ConfigureFlipperRule(switchName, coilName string, pulseMs int, holdPower float64) error {
	f.installedRule = append(f.installedRule, switchName)
	return nil
}

func (f *fakeGameAPI) RemoveHardwareRule(switchName string) error {
	f.removedRules = append(f.removedRules, switchName)
	return nil
}

func (f *fakeGameAPI) Queue() *mode.Queue { return f.queue }
func (f *fakeGameAPI) Clock() core.Clock  { return f.clock }

func (f *fakeGameAPI) OnGameStarted(fn func()) { f.gameStartedSubs = append(f.gameStartedSubs, fn) }
func (f *fakeGameAPI) OnGameEnded(fn func())   { f.gameEndedSubs = append(f.gameEndedSubs, fn) }

// fireGameStarted and fireGameEnded let a test simulate the controller's
// lifecycle signals without spinning up a full Controller.
func (f *fakeGameAPI) fireGameStarted() {
	for _, fn := range f.gameStartedSubs {
		fn()
	}
}

func (f *fakeGameAPI) fireGameEnded() {
	for _, fn := range f.gameEndedSubs {
		fn()
	}
}

func (f *fakeGameAPI) lastEvent() (fakeEvent, bool) {
	if len(f.events) == 0 {
		return fakeEvent{}, false
	}
	return f.events[len(f.events)-1], true
}

func (f *fakeGameAPI) hasEvent(eventType string) bool {
	for _, e := range f.events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func addSwitch(api *fakeGameAPI, name string, addr int, typ core.LogicalType, tags core.Tag) *core.Switch {
	sw := core.NewSwitch(name, addr, typ, tags)
	if err := api.switches.Add(sw); err != nil {
		panic(err)
	}
	return sw
}

func addCoil(api *fakeGameAPI, name string, addr int) *core.Coil {
	coil := core.NewCoil(name, addr, 20, core.TagNone, noopCoilDriver{})
	if err := api.coils.Add(coil); err != nil {
		panic(err)
	}
	return coil
}

type noopCoilDriver struct{}

func (noopCoilDriver) Pulse(addr int, ms int) error { return nil }
func (noopCoilDriver) Hold(addr int) error          { return nil }
func (noopCoilDriver) Disable(addr int) error       { return nil }

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// activate flips sw to its active physical state and dispatches it through
// the mode under test via the queue, mirroring what Controller does on a
// real switch-change event.
func activate(api *fakeGameAPI, sw *core.Switch) {
	setPhysical(sw, true)
	api.queue.Dispatch(sw)
}

func deactivate(api *fakeGameAPI, sw *core.Switch) {
	setPhysical(sw, false)
	api.queue.Dispatch(sw)
}

func setPhysical(sw *core.Switch, active bool) {
	if sw.Type == core.NormallyOpen {
		if active {
			sw.State = core.Closed
		} else {
			sw.State = core.Open
		}
		return
	}
	if active {
		sw.State = core.Open
	} else {
		sw.State = core.Closed
	}
}

var _ mode.GameAPI = (*fakeGameAPI)(nil)
