package core

// LEDColor is a simple 8-bit-per-channel RGB triple written through to the
// platform. It carries no game semantics of its own.
type LEDColor struct {
	R, G, B uint8
}

// LEDDriver is the minimal hardware surface an LED needs.
type LEDDriver interface {
	SetLED(addr int, rgb LEDColor) error
}

// LED is a single addressable RGB element. It has no mutable state from the
// core's point of view: every color write is forwarded straight through.
type LED struct {
	Name    string
	Address int

	driver LEDDriver
}

// NewLED constructs an LED bound to driver.
func NewLED(name string, address int, driver LEDDriver) *LED {
	return &LED{Name: name, Address: address, driver: driver}
}

// SetColor writes rgb to the LED.
func (l *LED) SetColor(rgb LEDColor) error {
	return l.driver.SetLED(l.Address, rgb)
}
