package core

// CoilDriver is the minimal hardware surface a Coil needs to issue
// commands. It is satisfied by the platform seam; defined here so core has
// no dependency on the platform package.
type CoilDriver interface {
	Pulse(addr int, ms int) error
	Hold(addr int) error
	Disable(addr int) error
}

// Coil is a solenoid or motor driven through the platform. Identity
// (Name, Address, DefaultPulseMs) is fixed at registration; Enabled is a
// software gate mutated only from the main loop.
type Coil struct {
	Name           string
	Address        int
	DefaultPulseMs int
	Tags           Tag

	Enabled bool
	driver  CoilDriver
}

// NewCoil constructs an enabled Coil bound to driver.
func NewCoil(name string, address, defaultPulseMs int, tags Tag, driver CoilDriver) *Coil {
	return &Coil{
		Name:           name,
		Address:        address,
		DefaultPulseMs: defaultPulseMs,
		Tags:           tags,
		Enabled:        true,
		driver:         driver,
	}
}

// Pulse fires the coil for ms milliseconds, or DefaultPulseMs if ms <= 0.
// Silently dropped when the coil is software-disabled.
func (c *Coil) Pulse(ms int) error {
	if !c.Enabled {
		return nil
	}
	if ms <= 0 {
		ms = c.DefaultPulseMs
	}
	return c.driver.Pulse(c.Address, ms)
}

// Hold energizes the coil continuously. Silently dropped when disabled.
func (c *Coil) Hold() error {
	if !c.Enabled {
		return nil
	}
	return c.driver.Hold(c.Address)
}

// Disable de-energizes the coil and flips the software gate off. The
// hardware Disable call is issued idempotently regardless of the gate's
// prior value.
func (c *Coil) Disable() error {
	c.Enabled = false
	return c.driver.Disable(c.Address)
}

// Enable flips the software gate back on. It does not itself command the
// hardware; the next Pulse/Hold call does.
func (c *Coil) Enable() {
	c.Enabled = true
}
