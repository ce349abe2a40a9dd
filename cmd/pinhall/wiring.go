package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pinhall/internal/config"
	"github.com/vovakirdan/pinhall/internal/core"
	"github.com/vovakirdan/pinhall/internal/game"
	"github.com/vovakirdan/pinhall/internal/media"
	"github.com/vovakirdan/pinhall/internal/modes"
	"github.com/vovakirdan/pinhall/internal/platform"
	"github.com/vovakirdan/pinhall/internal/storage"
)

// loadMachine reads the machine definition and applies it to a fresh
// MachineConfig bound to hw. Apply must run before hw.Connect — Controller.Run
// seeds initial switch state from machine.Switches immediately after
// connecting, before any startup hook gets a chance to populate it (spec
// §4.7 "Startup sequence").
func loadMachine(hw platform.HardwarePlatform) (config.MachineDef, *core.MachineConfig, error) {
	def, err := config.LoadMachine(flagMachine)
	if err != nil {
		return def, nil, fmt.Errorf("pinhall: loading machine config: %w", err)
	}
	cfg := core.NewMachineConfig(hw, hw, hw)
	if err := def.Apply(cfg); err != nil {
		return def, nil, fmt.Errorf("pinhall: applying machine config: %w", err)
	}
	return def, cfg, nil
}

// loadMachineDef loads the machine definition alone, for callers that need
// it before a hardware backend exists (run.go builds a gpio.LineMap from
// the device addresses before it can construct the backend that
// loadMachine's Apply step requires).
func loadMachineDef() (config.MachineDef, error) {
	def, err := config.LoadMachine(flagMachine)
	if err != nil {
		return def, fmt.Errorf("pinhall: loading machine config: %w", err)
	}
	return def, nil
}

// openStore opens the operator/high-score database at flagDBPath.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("pinhall: opening database: %w", err)
	}
	return store, nil
}

// buildMediaFanout assembles every configured media sink from the global
// flags, always including a console logger, plus any caller-supplied extra
// sinks (e.g. the sim dashboard).
func buildMediaFanout(logger *log.Logger, extra ...media.Sink) (*media.Fanout, []func() error) {
	sinks := append([]media.Sink{media.NewConsoleSink("event")}, extra...)
	var closers []func() error

	if flagMediaAddr != "" {
		tcp, err := media.NewTCPSink(flagMediaAddr)
		if err != nil {
			logger.Warn("could not start tcp media bridge", "error", err)
		} else {
			sinks = append(sinks, tcp)
			closers = append(closers, tcp.Close)
		}
	}

	if flagWSAddr != "" {
		ws := media.NewWebSocketSink()
		mux := http.NewServeMux()
		mux.HandleFunc("/events", ws.Handler)
		srv := &http.Server{Addr: flagWSAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("websocket media bridge stopped", "error", err)
			}
		}()
		sinks = append(sinks, ws)
		closers = append(closers, srv.Close)
	}

	if flagMQTTAddr != "" {
		mqtt, err := media.NewMQTTSink(flagMQTTAddr, "pinhall", "pinhall/events")
		if err != nil {
			logger.Warn("could not connect mqtt media sink", "error", err)
		} else {
			sinks = append(sinks, mqtt)
			closers = append(closers, mqtt.Close)
		}
	}

	return media.NewFanout(sinks...), closers
}

// registerBuiltinModes wires every built-in mode named in spec §4.8 onto
// the controller, using the device names in the loaded machine definition.
// It is the caller's OnStartup hook.
func registerBuiltinModes(c *game.Controller, def config.MachineDef, store *storage.Store) {
	settings := storage.DefaultOperatorSettings()
	if store != nil {
		if loaded, err := store.LoadOperatorSettings(); err == nil {
			settings = loaded
		}
	}

	troughSwitches := switchNamesByTag(def, "trough")
	c.Register(modes.NewTrough(troughSwitches, "TroughEject", "ShooterLane", settings.BallSaveSeconds))

	var flippers []modes.FlipperRule
	for _, r := range def.FlipperRules {
		flippers = append(flippers, modes.FlipperRule{Switch: r.Switch, Coil: r.Coil, PulseMs: r.PulseMs, HoldPower: r.HoldPower})
	}
	c.Register(modes.NewTilt("TiltBob", "SlamTilt", settings.TiltWarnings, 0, flippers))

	c.Register(modes.NewBonus(1000, 0))

	searchCoils := []string{"SearchKickerA", "SearchKickerB"}
	c.Register(modes.NewBallSearch(searchCoils, 0, 0))

	if hasSwitch(def, "Drop1") {
		c.Register(modes.NewDropTargetBank("main", []string{"Drop1", "Drop2", "Drop3"}, "DropBankReset", 0))
	}

	c.Register(modes.NewService("ServiceButton"))

	if store != nil {
		repo := storage.NewHighScoreAdapter(store, 10)
		c.Register(modes.NewHighScore(repo, 10, nil))
	}

	c.Register(modes.NewAttract("Start", "ShooterLane", 12))

	if hasSwitch(def, "LeftSlingshot") && hasSwitch(def, "RampEnter") && hasSwitch(def, "RampExit") {
		c.Register(modes.NewCombo([]string{"LeftSlingshot", "RampEnter", "RampExit"}, 3, 2))
	}
}

func switchNamesByTag(def config.MachineDef, tag string) []string {
	var out []string
	for _, s := range def.Switches {
		for _, t := range s.Tags {
			if t == tag {
				out = append(out, s.Name)
				break
			}
		}
	}
	return out
}

func hasSwitch(def config.MachineDef, name string) bool {
	for _, s := range def.Switches {
		if s.Name == name {
			return true
		}
	}
	return false
}

func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix, ReportTimestamp: true})
}
