// Package config provides YAML-based machine configuration loading: the
// declarative device/rule registration named in spec §4.2, sourced from an
// operator-editable file with the same search-order-then-embedded-default
// pattern as the rest of the ambient stack.
package config

import "github.com/vovakirdan/pinhall/internal/core"

// SwitchDef is one switch device declaration in a machine YAML file.
type SwitchDef struct {
	Name    string   `yaml:"name"`
	Address int      `yaml:"address"`
	Type    string   `yaml:"type"` // "no" or "nc"
	Tags    []string `yaml:"tags"`
}

// CoilDef is one coil device declaration.
type CoilDef struct {
	Name           string   `yaml:"name"`
	Address        int      `yaml:"address"`
	DefaultPulseMs int      `yaml:"default_pulse_ms"`
	Tags           []string `yaml:"tags"`
}

// LedDef is one LED device declaration.
type LedDef struct {
	Name    string `yaml:"name"`
	Address int    `yaml:"address"`
}

// FlipperRuleDef declares a local switch->coil flipper reflex by name.
type FlipperRuleDef struct {
	Switch    string  `yaml:"switch"`
	Coil      string  `yaml:"coil"`
	PulseMs   int     `yaml:"pulse_ms"`
	HoldPower float64 `yaml:"hold_power"`
}

// BumperRuleDef declares a local switch->coil bumper reflex by name.
type BumperRuleDef struct {
	Switch  string `yaml:"switch"`
	Coil    string `yaml:"coil"`
	PulseMs int    `yaml:"pulse_ms"`
}

// MachineDef is the top-level shape of a machine YAML file.
type MachineDef struct {
	Switches     []SwitchDef      `yaml:"switches"`
	Coils        []CoilDef        `yaml:"coils"`
	Leds         []LedDef         `yaml:"leds"`
	FlipperRules []FlipperRuleDef `yaml:"flipper_rules"`
	BumperRules  []BumperRuleDef  `yaml:"bumper_rules"`
}

var tagByName = map[string]core.Tag{
	"playfield":    core.TagPlayfield,
	"eos":          core.TagEos,
	"shooter_lane": core.TagShooterLane,
	"service":      core.TagService,
	"flipper":      core.TagFlipper,
	"bumper":       core.TagBumper,
	"trough":       core.TagTrough,
}

func parseTags(names []string) core.Tag {
	var tags core.Tag
	for _, n := range names {
		tags |= tagByName[n]
	}
	return tags
}

func switchType(s string) core.LogicalType {
	if s == "nc" {
		return core.NormallyClosed
	}
	return core.NormallyOpen
}

// Apply registers every device and rule in def into cfg, in declaration
// order, failing fast (per spec §4.2) on the first unknown-name or
// duplicate-name/address error.
func (def MachineDef) Apply(cfg *core.MachineConfig) error {
	for _, s := range def.Switches {
		if err := cfg.AddSwitch(core.NewSwitch(s.Name, s.Address, switchType(s.Type), parseTags(s.Tags))); err != nil {
			return err
		}
	}
	for _, c := range def.Coils {
		if _, err := cfg.AddCoil(c.Name, c.Address, c.DefaultPulseMs, parseTags(c.Tags)); err != nil {
			return err
		}
	}
	for _, l := range def.Leds {
		if _, err := cfg.AddLed(l.Name, l.Address); err != nil {
			return err
		}
	}
	for _, r := range def.FlipperRules {
		if err := cfg.AddFlipperRule(r.Switch, r.Coil, r.PulseMs, r.HoldPower); err != nil {
			return err
		}
	}
	for _, r := range def.BumperRules {
		if err := cfg.AddBumperRule(r.Switch, r.Coil, r.PulseMs); err != nil {
			return err
		}
	}
	return nil
}
