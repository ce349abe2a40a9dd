package modes

import (
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/mode"
)

// Service is the operator service-mode mode. Entering it disables every
// coil and swallows every other switch activation so the operator can
// safely work on the machine; TestCoil lets them still fire a single coil
// on demand (spec §4.8 "Service").
type Service struct {
	mode.Base

	serviceSwitch string
	active        bool
}

// NewService constructs a Service mode toggled by the switch named
// serviceSwitch. Switch tags are not consulted: another switch carrying
// core.TagService does not toggle service mode.
func NewService(serviceSwitch string) *Service {
	return &Service{
		Base:          mode.NewBase("service"),
		serviceSwitch: serviceSwitch,
	}
}

func (m *Service) Priority() int                   { return 100 }
func (m *Service) DefaultLifecycle() mode.Lifecycle { return mode.LifecycleSystem }

func (m *Service) ModeStarted() {
	m.AddHandler(m.serviceSwitch, core.Active, m.onToggle, 0)

	for _, sw := range m.Game().Switches().All() {
		if sw.Name == m.serviceSwitch {
			continue
		}
		name := sw.Name
		m.AddHandler(name, core.Active, func() mode.HandlerResult { return m.onOtherSwitch(name) }, 0)
	}
}

func (m *Service) onToggle() mode.HandlerResult {
	if m.active {
		m.exit()
	} else {
		m.enter()
	}
	return mode.Stop
}

func (m *Service) enter() {
	m.active = true
	for _, c := range m.Game().Coils().All() {
		c.Disable()
	}
	m.Game().Post("service_mode_entered", nil)
}

func (m *Service) exit() {
	m.active = false
	for _, c := range m.Game().Coils().All() {
		c.Enable()
	}
	m.Game().Post("service_mode_exited", nil)
}

func (m *Service) onOtherSwitch(name string) mode.HandlerResult {
	if !m.active {
		return mode.Continue
	}
	m.Game().Post("service_switch_activated", map[string]any{"name": name})
	return mode.Stop
}

// TestCoil momentarily enables coilName, pulses it, then disables it again
// — used by the operator to spot-check a coil while in service mode.
func (m *Service) TestCoil(coilName string) error {
	coil, err := m.Game().Coils().Get(coilName)
	if err != nil {
		return err
	}
	coil.Enable()
	err = coil.Pulse(0)
	coil.Disable()
	return err
}

// Active reports whether the machine is currently in service mode.
func (m *Service) Active() bool { return m.active }

var _ mode.Mode = (*Service)(nil)
