package mode

import (
	"github.com/vovakirdan/pinhall/internal/core"
)

// fakeMode is a minimal Mode used across this package's tests.
type fakeMode struct {
	Base
	priority  int
	lifecycle Lifecycle
	started   int
	stopped   int
	onStart   func(*fakeMode)
}

func newFakeMode(name string, priority int) *fakeMode {
	return &fakeMode{Base: NewBase(name), priority: priority, lifecycle: LifecycleManual}
}

func (f *fakeMode) Priority() int              { return f.priority }
func (f *fakeMode) DefaultLifecycle() Lifecycle { return f.lifecycle }
func (f *fakeMode) ModeStarted() {
	f.started++
	if f.onStart != nil {
		f.onStart(f)
	}
}
func (f *fakeMode) ModeStopped() { f.stopped++ }

// fakeGameAPI is a no-op GameAPI sufficient for mode-package unit tests
// that never call into controller behavior.
type fakeGameAPI struct {
	clock core.Clock
	q     *Queue
}

func newFakeGameAPI(q *Queue) *fakeGameAPI {
	return &fakeGameAPI{clock: core.SystemClock{}, q: q}
}

func (f *fakeGameAPI) Switches() *core.SwitchTable { return nil }
func (f *fakeGameAPI) Coils() *core.CoilTable      { return nil }
func (f *fakeGameAPI) Leds() *core.LedTable        { return nil }
func (f *fakeGameAPI) Player() *core.Player        { return nil }
func (f *fakeGameAPI) Players() []*core.Player     { return nil }
func (f *fakeGameAPI) PlayerIndex() int            { return 0 }
func (f *fakeGameAPI) CurrentBall() int            { return 1 }
func (f *fakeGameAPI) BallsPerGame() int           { return 3 }
func (f *fakeGameAPI) MaxPlayers() int             { return 4 }
func (f *fakeGameAPI) StartGame()                  {}
func (f *fakeGameAPI) AddPlayer() error            { return nil }
func (f *fakeGameAPI) StartBall()                  {}
func (f *fakeGameAPI) EndBall()                    {}
func (f *fakeGameAPI) EndGame()                    {}
func (f *fakeGameAPI) Post(string, map[string]any) {}
func (f *fakeGameAPI) OnGameStarted(func())         {}
func (f *fakeGameAPI) OnGameEnded(func())           {}
func (f *fakeGameAPI) ConfigureFlipperRule(string, string, int, float64) error { return nil }
func (f *fakeGameAPI) RemoveHardwareRule(string) error                         { return nil }
func (f *fakeGameAPI) Queue() *Queue                { return f.q }
func (f *fakeGameAPI) Clock() core.Clock            { return f.clock }
