package core

import "fmt"

// HardwareRuleInstaller is the subset of the platform seam MachineConfig
// needs to forward flipper/bumper rules immediately as they're declared.
type HardwareRuleInstaller interface {
	ConfigureFlipperRule(switchAddr, coilAddr int, pulseMs int, holdPower float64) error
	ConfigureBumperRule(switchAddr, coilAddr int, pulseMs int) error
	RemoveHardwareRule(switchAddr int) error
}

// MachineConfig is the declarative device/rule registry built once at
// startup, before the game loop starts. It owns the
// authoritative Switch/Coil/LED tables that the rest of the core reads
// through for the lifetime of the process.
type MachineConfig struct {
	Switches *SwitchTable
	Coils    *CoilTable
	Leds     *LedTable

	platform   HardwareRuleInstaller
	coilDrv    CoilDriver
	ledDrv     LEDDriver
	configured bool
}

// NewMachineConfig creates an empty registry bound to the given hardware
// drivers. platform may be nil when hardware rules are never used (e.g. a
// pure simulator without local reflexes installed from config).
func NewMachineConfig(platform HardwareRuleInstaller, coilDrv CoilDriver, ledDrv LEDDriver) *MachineConfig {
	return &MachineConfig{
		Switches: NewTable[*Switch](),
		Coils:    NewTable[*Coil](),
		Leds:     NewTable[*LED](),
		platform: platform,
		coilDrv:  coilDrv,
		ledDrv:   ledDrv,
	}
}

// AddSwitch registers a new switch device.
func (m *MachineConfig) AddSwitch(sw *Switch) error {
	return m.Switches.Add(sw)
}

// AddCoil registers a new coil device, wiring it to the configured driver.
func (m *MachineConfig) AddCoil(name string, address int, defaultPulseMs int, tags Tag) (*Coil, error) {
	coil := NewCoil(name, address, defaultPulseMs, tags, m.coilDrv)
	if err := m.Coils.Add(coil); err != nil {
		return nil, err
	}
	return coil, nil
}

// AddLed registers a new LED device.
func (m *MachineConfig) AddLed(name string, address int) (*LED, error) {
	led := NewLED(name, address, m.ledDrv)
	if err := m.Leds.Add(led); err != nil {
		return nil, err
	}
	return led, nil
}

// AddFlipperRule installs a local switch->coil flipper reflex, looking up
// both ends by symbolic name.
func (m *MachineConfig) AddFlipperRule(switchName, coilName string, pulseMs int, holdPower float64) error {
	sw, err := m.Switches.Get(switchName)
	if err != nil {
		return fmt.Errorf("machineconfig: flipper rule: %w", err)
	}
	coil, err := m.Coils.Get(coilName)
	if err != nil {
		return fmt.Errorf("machineconfig: flipper rule: %w", err)
	}
	if m.platform == nil {
		return nil
	}
	return m.platform.ConfigureFlipperRule(sw.Address, coil.Address, pulseMs, holdPower)
}

// AddBumperRule installs a local switch->coil bumper reflex.
func (m *MachineConfig) AddBumperRule(switchName, coilName string, pulseMs int) error {
	sw, err := m.Switches.Get(switchName)
	if err != nil {
		return fmt.Errorf("machineconfig: bumper rule: %w", err)
	}
	coil, err := m.Coils.Get(coilName)
	if err != nil {
		return fmt.Errorf("machineconfig: bumper rule: %w", err)
	}
	if m.platform == nil {
		return nil
	}
	return m.platform.ConfigureBumperRule(sw.Address, coil.Address, pulseMs)
}

// RemoveHardwareRule removes a previously installed flipper or bumper rule.
func (m *MachineConfig) RemoveHardwareRule(switchName string) error {
	sw, err := m.Switches.Get(switchName)
	if err != nil {
		return fmt.Errorf("machineconfig: remove rule: %w", err)
	}
	if m.platform == nil {
		return nil
	}
	return m.platform.RemoveHardwareRule(sw.Address)
}

// Configure records that machine configuration has run. It is called once
// before the game loop starts; calling it twice is a configuration error.
// It does not close the registry: the Add* and RemoveHardwareRule methods
// keep working afterwards (tilt removes and re-installs flipper rules
// during play).
func (m *MachineConfig) Configure() error {
	if m.configured {
		return fmt.Errorf("machineconfig: %w", ErrAlreadyConfigured)
	}
	m.configured = true
	return nil
}

// Configured reports whether Configure has already run.
func (m *MachineConfig) Configured() bool {
	return m.configured
}
