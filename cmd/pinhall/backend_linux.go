//go:build linux

package main

import (
	"github.com/vovakirdan/pinhall/internal/config"
	"github.com/vovakirdan/pinhall/internal/platform"
	"github.com/vovakirdan/pinhall/internal/platform/gpio"
)

// newHardwareBackend builds the real GPIO backend, mapping every switch
// and coil address in def directly onto a gpiochip line offset of the
// same number. A cabinet whose wiring harness doesn't line up one-to-one
// would need its own LineMap here; this is the common case.
func newHardwareBackend(def config.MachineDef) (platform.HardwarePlatform, error) {
	lines := gpio.LineMap{
		SwitchLines: make(map[int]int, len(def.Switches)),
		CoilLines:   make(map[int]int, len(def.Coils)),
	}
	for _, s := range def.Switches {
		lines.SwitchLines[s.Address] = s.Address
	}
	for _, c := range def.Coils {
		lines.CoilLines[c.Address] = c.Address
	}
	return gpio.New(flagGPIOChip, lines), nil
}
