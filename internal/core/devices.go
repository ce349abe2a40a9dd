package core

import (
	"fmt"
	"strings"
)

// named is satisfied by every device type a Table can hold.
type named interface {
	deviceName() string
	deviceAddress() int
}

func (s *Switch) deviceName() string  { return s.Name }
func (s *Switch) deviceAddress() int  { return s.Address }
func (c *Coil) deviceName() string    { return c.Name }
func (c *Coil) deviceAddress() int    { return c.Address }
func (l *LED) deviceName() string     { return l.Name }
func (l *LED) deviceAddress() int     { return l.Address }

// Table is a named-and-hardware-address-keyed collection of one device
// type. Name lookup is case-insensitive; iteration follows insertion order.
// Registration happens once, at startup, and the table is read-only
// thereafter (see spec §5 "Shared resources").
type Table[T named] struct {
	byName    map[string]T
	byAddress map[int]T
	order     []T
}

// NewTable creates an empty device table.
func NewTable[T named]() *Table[T] {
	return &Table[T]{
		byName:    make(map[string]T),
		byAddress: make(map[int]T),
	}
}

// Add registers a device. It fails fast on a duplicate name or a duplicate
// hardware address, per the machine configuration's uniqueness invariant.
func (t *Table[T]) Add(d T) error {
	key := strings.ToLower(d.deviceName())
	if _, exists := t.byName[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, d.deviceName())
	}
	if _, exists := t.byAddress[d.deviceAddress()]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateAddress, d.deviceAddress())
	}
	t.byName[key] = d
	t.byAddress[d.deviceAddress()] = d
	t.order = append(t.order, d)
	return nil
}

// Get looks up a device by symbolic name, case-insensitively.
func (t *Table[T]) Get(name string) (T, error) {
	d, ok := t.byName[strings.ToLower(name)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	return d, nil
}

// GetByAddress looks up a device by hardware address.
func (t *Table[T]) GetByAddress(addr int) (T, bool) {
	d, ok := t.byAddress[addr]
	return d, ok
}

// All returns every device in insertion order. The returned slice is a copy;
// callers must not rely on it reflecting later Adds.
func (t *Table[T]) All() []T {
	out := make([]T, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of registered devices.
func (t *Table[T]) Len() int { return len(t.order) }

// SwitchTable, CoilTable and LedTable are the three device collections a
// MachineConfig owns (spec §3).
type (
	SwitchTable = Table[*Switch]
	CoilTable   = Table[*Coil]
	LedTable    = Table[*LED]
)
