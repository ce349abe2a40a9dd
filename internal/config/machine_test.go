package config

import (
	"testing"

	"github.com/vovakirdan/pinhall/internal/core"
)

func TestLoadMachineFallsBackToEmbeddedDefault(t *testing.T) {
	def, err := LoadMachine("")
	if err != nil {
		t.Fatalf("LoadMachine() failed: %v", err)
	}
	if len(def.Switches) == 0 || len(def.Coils) == 0 {
		t.Fatal("expected embedded default machine to declare switches and coils")
	}
}

func TestApplyRegistersDevicesAndRules(t *testing.T) {
	def, err := LoadMachine("")
	if err != nil {
		t.Fatalf("LoadMachine() failed: %v", err)
	}

	cfg := core.NewMachineConfig(nil, nil, nil)
	if err := def.Apply(cfg); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	if cfg.Switches.Len() != len(def.Switches) {
		t.Errorf("expected %d switches registered, got %d", len(def.Switches), cfg.Switches.Len())
	}
	if cfg.Coils.Len() != len(def.Coils) {
		t.Errorf("expected %d coils registered, got %d", len(def.Coils), cfg.Coils.Len())
	}
}

func TestApplyFailsFastOnUnknownDeviceInRule(t *testing.T) {
	def := MachineDef{
		Switches:     []SwitchDef{{Name: "A", Address: 1, Type: "no"}},
		Coils:        []CoilDef{{Name: "C", Address: 100, DefaultPulseMs: 10}},
		FlipperRules: []FlipperRuleDef{{Switch: "Nope", Coil: "C", PulseMs: 10, HoldPower: 0.5}},
	}
	cfg := core.NewMachineConfig(nil, nil, nil)
	if err := def.Apply(cfg); err == nil {
		t.Fatal("expected fail-fast error for unknown switch name in flipper rule")
	}
}

func TestParseTagsCombinesBits(t *testing.T) {
	tags := parseTags([]string{"flipper", "service"})
	if !tags.Has(core.TagFlipper) || !tags.Has(core.TagService) {
		t.Errorf("expected both tags set, got %v", tags)
	}
	if tags.Has(core.TagTrough) {
		t.Errorf("did not expect TagTrough set")
	}
}
