// Package sim implements an in-process HardwarePlatform for development and
// tests: switches are toggled programmatically, coil/LED writes and
// installed hardware rules are recorded for assertions instead of touching
// real silicon.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/platform"
)

// FlipperRule records a ConfigureFlipperRule call.
type FlipperRule struct {
	SwitchAddr int
	CoilAddr   int
	PulseMs    int
	HoldPower  float64
}

// BumperRule records a ConfigureBumperRule call.
type BumperRule struct {
	SwitchAddr int
	CoilAddr   int
	PulseMs    int
}

// CoilCommand is one recorded Pulse/Hold/Disable call.
type CoilCommand struct {
	Addr int
	Kind string // "pulse", "hold", "disable"
	Ms   int
}

// Simulator is a HardwarePlatform backed entirely by in-memory state.
type Simulator struct {
	mu sync.Mutex

	connected bool
	states    map[int]core.PhysicalState
	events    chan platform.SwitchChangeEvent

	flipperRules map[int]FlipperRule
	bumperRules  map[int]BumperRule

	Commands []CoilCommand
	LEDWrites []struct {
		Addr  int
		Color core.LEDColor
	}
}

// New creates a Simulator. initial maps hardware address to its boot-time
// physical state; addresses not listed default to Open.
func New(initial map[int]core.PhysicalState) *Simulator {
	states := make(map[int]core.PhysicalState, len(initial))
	for addr, st := range initial {
		states[addr] = st
	}
	return &Simulator{
		states:       states,
		events:       make(chan platform.SwitchChangeEvent, 256),
		flipperRules: make(map[int]FlipperRule),
		bumperRules:  make(map[int]BumperRule),
	}
}

var _ platform.HardwarePlatform = (*Simulator)(nil)

func (s *Simulator) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *Simulator) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *Simulator) InitialSwitchStates(ctx context.Context) (map[int]core.PhysicalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]core.PhysicalState, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out, nil
}

func (s *Simulator) Subscribe() <-chan platform.SwitchChangeEvent {
	return s.events
}

// SetSwitch changes the recorded physical state of addr and, if it differs
// from the previous state, publishes a SwitchChangeEvent. This is the test
// and simulator-console hook standing in for a real board's wire.
func (s *Simulator) SetSwitch(addr int, state core.PhysicalState) {
	s.mu.Lock()
	prev, ok := s.states[addr]
	s.states[addr] = state
	s.mu.Unlock()

	if ok && prev == state {
		return
	}
	s.events <- platform.SwitchChangeEvent{Address: addr, State: state}
}

func (s *Simulator) Pulse(addr int, ms int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return fmt.Errorf("sim: not connected")
	}
	s.Commands = append(s.Commands, CoilCommand{Addr: addr, Kind: "pulse", Ms: ms})
	return nil
}

func (s *Simulator) Hold(addr int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Commands = append(s.Commands, CoilCommand{Addr: addr, Kind: "hold"})
	return nil
}

func (s *Simulator) Disable(addr int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Commands = append(s.Commands, CoilCommand{Addr: addr, Kind: "disable"})
	return nil
}

func (s *Simulator) ConfigureFlipperRule(switchAddr, coilAddr int, pulseMs int, holdPower float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flipperRules[switchAddr] = FlipperRule{SwitchAddr: switchAddr, CoilAddr: coilAddr, PulseMs: pulseMs, HoldPower: holdPower}
	return nil
}

func (s *Simulator) ConfigureBumperRule(switchAddr, coilAddr int, pulseMs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumperRules[switchAddr] = BumperRule{SwitchAddr: switchAddr, CoilAddr: coilAddr, PulseMs: pulseMs}
	return nil
}

func (s *Simulator) RemoveHardwareRule(switchAddr int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flipperRules, switchAddr)
	delete(s.bumperRules, switchAddr)
	return nil
}

func (s *Simulator) SetLED(addr int, rgb core.LEDColor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LEDWrites = append(s.LEDWrites, struct {
		Addr  int
		Color core.LEDColor
	}{addr, rgb})
	return nil
}

func (s *Simulator) SetLEDRun(startAddr, count int, rgb core.LEDColor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for a := startAddr; a < startAddr+count; a++ {
		s.LEDWrites = append(s.LEDWrites, struct {
			Addr  int
			Color core.LEDColor
		}{a, rgb})
	}
	return nil
}

// FlipperRules returns a snapshot of currently-installed flipper rules,
// keyed by switch address.
func (s *Simulator) FlipperRules() map[int]FlipperRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]FlipperRule, len(s.flipperRules))
	for k, v := range s.flipperRules {
		out[k] = v
	}
	return out
}

// HasFlipperRule reports whether a rule is currently installed for addr.
func (s *Simulator) HasFlipperRule(addr int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flipperRules[addr]
	return ok
}
