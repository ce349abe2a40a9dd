//go:build !linux

package main

import (
	"fmt"
	"runtime"

	"github.com/vovakirdan/pinhall/internal/config"
	"github.com/vovakirdan/pinhall/internal/platform"
)

// newHardwareBackend reports an error: the GPIO backend is Linux-only
// (internal/platform/gpio is itself build-tagged linux), so "pinhall run"
// has nothing to wire to on other platforms. Use "pinhall sim" instead.
func newHardwareBackend(def config.MachineDef) (platform.HardwarePlatform, error) {
	return nil, fmt.Errorf("pinhall: the gpio backend is not available on %s; use 'pinhall sim' instead", runtime.GOOS)
}
