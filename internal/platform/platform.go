// Package platform defines the hardware seam (spec §4.1): the single
// contract every backend — real board, simulator, test double — satisfies
// so that game logic never depends on a concrete driver.
package platform

import (
	"context"

	"github.com/vovakirdan/pinhall/internal/core"
)

// SwitchChangeEvent is a raw (hardware address, new physical state) pair
// raised by a backend. It may be produced on any goroutine; the game
// controller is the only consumer and serializes delivery onto the main
// loop (spec §5).
type SwitchChangeEvent struct {
	Address int
	State   core.PhysicalState
}

// HardwarePlatform is the two-way seam between game logic and a concrete
// backend. It owes no game semantics: flipper/bumper rules it installs run
// without host round-trip and are authoritative until removed.
type HardwarePlatform interface {
	// Connect must complete before any other method is called.
	Connect(ctx context.Context) error
	// Disconnect is cooperative; it must return once draining is safe.
	Disconnect(ctx context.Context) error

	// InitialSwitchStates returns the ground truth at boot, keyed by
	// hardware address.
	InitialSwitchStates(ctx context.Context) (map[int]core.PhysicalState, error)

	// Subscribe returns the channel the platform publishes switch changes
	// on. It is called exactly once, after Connect.
	Subscribe() <-chan SwitchChangeEvent

	// Coil commands.
	Pulse(addr int, ms int) error
	Hold(addr int) error
	Disable(addr int) error

	// Hardware rules: local switch-to-coil reflexes.
	ConfigureFlipperRule(switchAddr, coilAddr int, pulseMs int, holdPower float64) error
	ConfigureBumperRule(switchAddr, coilAddr int, pulseMs int) error
	RemoveHardwareRule(switchAddr int) error

	// LED commands.
	SetLED(addr int, rgb core.LEDColor) error
	SetLEDRun(startAddr, count int, rgb core.LEDColor) error
}
