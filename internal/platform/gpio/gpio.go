//go:build linux

// Package gpio is a HardwarePlatform backend for Linux single-board
// computers (Raspberry Pi class) wired directly to switches and coils via
// GPIO lines. Switch state changes arrive as character-device edge events
// on a background goroutine, matching spec §4.1's "may originate on a
// background thread" requirement. Flipper/bumper rule calls are accepted
// and ignored: this backend installs no switch->coil reflex, so a flipper
// or bumper coil fires only when game code pulses or holds it.
package gpio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/platform"
)

// LineMap describes which GPIO offset on the chip backs each hardware
// address used by the machine configuration.
type LineMap struct {
	SwitchLines map[int]int // switch hardware address -> gpio offset
	CoilLines   map[int]int // coil hardware address -> gpio offset
}

// Backend is a platform.HardwarePlatform wired to a gpiocdev chip.
type Backend struct {
	chipName string
	lines    LineMap

	mu        sync.Mutex
	chip      *gpiocdev.Chip
	inputs    map[int]*gpiocdev.Line // by switch address
	outputs   map[int]*gpiocdev.Line // by coil address
	events    chan platform.SwitchChangeEvent
	connected bool
}

// New creates a gpio Backend. chipName is typically "gpiochip0".
func New(chipName string, lines LineMap) *Backend {
	return &Backend{
		chipName: chipName,
		lines:    lines,
		inputs:   make(map[int]*gpiocdev.Line),
		outputs:  make(map[int]*gpiocdev.Line),
		events:   make(chan platform.SwitchChangeEvent, 256),
	}
}

var _ platform.HardwarePlatform = (*Backend)(nil)

func (b *Backend) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	chip, err := gpiocdev.NewChip(b.chipName)
	if err != nil {
		return fmt.Errorf("gpio: open chip %s: %w", b.chipName, err)
	}
	b.chip = chip

	for addr, offset := range b.lines.SwitchLines {
		addr := addr
		line, err := chip.RequestLine(offset,
			gpiocdev.AsInput,
			gpiocdev.WithBothEdges,
			gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
				state := core.Open
				if evt.Type == gpiocdev.LineEventRisingEdge {
					state = core.Closed
				}
				b.events <- platform.SwitchChangeEvent{Address: addr, State: state}
			}),
		)
		if err != nil {
			chip.Close()
			return fmt.Errorf("gpio: request switch line %d (addr %d): %w", offset, addr, err)
		}
		b.inputs[addr] = line
	}

	for addr, offset := range b.lines.CoilLines {
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0))
		if err != nil {
			chip.Close()
			return fmt.Errorf("gpio: request coil line %d (addr %d): %w", offset, addr, err)
		}
		b.outputs[addr] = line
	}

	b.connected = true
	return nil
}

func (b *Backend) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, l := range b.inputs {
		l.Close()
	}
	for _, l := range b.outputs {
		l.Close()
	}
	b.connected = false
	if b.chip != nil {
		return b.chip.Close()
	}
	return nil
}

func (b *Backend) InitialSwitchStates(ctx context.Context) (map[int]core.PhysicalState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[int]core.PhysicalState, len(b.inputs))
	for addr, line := range b.inputs {
		v, err := line.Value()
		if err != nil {
			return nil, fmt.Errorf("gpio: read switch addr %d: %w", addr, err)
		}
		if v != 0 {
			out[addr] = core.Closed
		} else {
			out[addr] = core.Open
		}
	}
	return out, nil
}

func (b *Backend) Subscribe() <-chan platform.SwitchChangeEvent { return b.events }

func (b *Backend) Pulse(addr int, ms int) error {
	line, ok := b.outputLine(addr)
	if !ok {
		return fmt.Errorf("gpio: no coil line for addr %d", addr)
	}
	if err := line.SetValue(1); err != nil {
		return err
	}
	go func() {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		line.SetValue(0)
	}()
	return nil
}

func (b *Backend) Hold(addr int) error {
	line, ok := b.outputLine(addr)
	if !ok {
		return fmt.Errorf("gpio: no coil line for addr %d", addr)
	}
	return line.SetValue(1)
}

func (b *Backend) Disable(addr int) error {
	line, ok := b.outputLine(addr)
	if !ok {
		return fmt.Errorf("gpio: no coil line for addr %d", addr)
	}
	return line.SetValue(0)
}

// ConfigureFlipperRule is a no-op on this backend: no reflex is installed,
// and nothing in this backend pulses or holds the coil when the switch
// changes.
func (b *Backend) ConfigureFlipperRule(switchAddr, coilAddr int, pulseMs int, holdPower float64) error {
	return nil
}

func (b *Backend) ConfigureBumperRule(switchAddr, coilAddr int, pulseMs int) error {
	return nil
}

func (b *Backend) RemoveHardwareRule(switchAddr int) error { return nil }

// SetLED and SetLEDRun are no-ops: this backend models a GPIO-only cabinet
// with no addressable RGB bus. A cabinet with one would compose this
// backend with a separate LED driver rather than extend it.
func (b *Backend) SetLED(addr int, rgb core.LEDColor) error               { return nil }
func (b *Backend) SetLEDRun(startAddr, count int, rgb core.LEDColor) error { return nil }

func (b *Backend) outputLine(addr int) (*gpiocdev.Line, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.outputs[addr]
	return l, ok
}
