package core

import (
	"errors"
	"testing"
)

func TestSwitchTableCaseInsensitiveLookup(t *testing.T) {
	tab := NewTable[*Switch]()
	sw := NewSwitch("Trough1", 10, NormallyClosed, TagTrough)
	if err := tab.Add(sw); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := tab.Get("trough1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sw {
		t.Error("expected case-insensitive lookup to return the same switch")
	}

	if _, err := tab.Get("missing"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("expected ErrUnknownDevice, got %v", err)
	}
}

func TestSwitchTableDuplicateName(t *testing.T) {
	tab := NewTable[*Switch]()
	if err := tab.Add(NewSwitch("x", 1, NormallyOpen, TagNone)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := tab.Add(NewSwitch("X", 2, NormallyOpen, TagNone))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestSwitchTableDuplicateAddress(t *testing.T) {
	tab := NewTable[*Switch]()
	if err := tab.Add(NewSwitch("x", 1, NormallyOpen, TagNone)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := tab.Add(NewSwitch("y", 1, NormallyOpen, TagNone))
	if !errors.Is(err, ErrDuplicateAddress) {
		t.Errorf("expected ErrDuplicateAddress, got %v", err)
	}
}

func TestSwitchTableInsertionOrder(t *testing.T) {
	tab := NewTable[*Switch]()
	names := []string{"c", "a", "b"}
	for i, n := range names {
		if err := tab.Add(NewSwitch(n, i, NormallyOpen, TagNone)); err != nil {
			t.Fatalf("Add(%s): %v", n, err)
		}
	}
	all := tab.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 devices, got %d", len(all))
	}
	for i, n := range names {
		if all[i].Name != n {
			t.Errorf("position %d: got %s, want %s", i, all[i].Name, n)
		}
	}
}
