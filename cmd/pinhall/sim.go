package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pinhall/internal/game"
	"github.com/vovakirdan/pinhall/internal/platform/sim"
	simconsole "github.com/vovakirdan/pinhall/internal/platform/sim/console"
)

var (
	flagBallsPerGame int
	flagMaxPlayers   int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run against the in-process simulator with a live dashboard",
	Long: `Start a game controller against the in-process simulator backend
and attach an interactive terminal dashboard: press the bound keys to
activate the machine's switches the way a real board's wiring would.

Examples:
  pinhall sim
  pinhall sim --balls 5 --max-players 2`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagBallsPerGame, "balls", 3, "Balls per game")
	simCmd.Flags().IntVar(&flagMaxPlayers, "max-players", 4, "Maximum players per game")
}

// simBindings maps terminal keystrokes to the default machine's switches,
// standing in for the cabinet's buttons and playfield devices.
var simBindings = []simconsole.Binding{
	{Key: "enter", Name: "start", Switch: "Start"},
	{Key: "a", Name: "l-flip", Switch: "LeftFlipperButton"},
	{Key: "d", Name: "r-flip", Switch: "RightFlipperButton"},
	{Key: " ", Name: "plunge", Switch: "ShooterLane"},
	{Key: "1", Name: "drop1", Switch: "Drop1"},
	{Key: "2", Name: "drop2", Switch: "Drop2"},
	{Key: "3", Name: "drop3", Switch: "Drop3"},
	{Key: "t", Name: "tilt", Switch: "TiltBob"},
	{Key: "r", Name: "ramp-enter", Switch: "RampEnter"},
	{Key: "e", Name: "ramp-exit", Switch: "RampExit"},
	{Key: "b", Name: "bumper", Switch: "LeftBumperRing"},
}

func runSim(cmd *cobra.Command, args []string) {
	logger := newLogger("sim")

	store, err := openStore()
	if err != nil {
		logger.Warn("continuing without persistence", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	backend := sim.New(nil)
	def, cfg, err := loadMachine(backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dashboard := simconsole.New(backend, cfg.Switches, simBindings)

	fanout, closers := buildMediaFanout(logger, dashboard)
	defer closeAll(closers)

	controller := game.New(backend, cfg, nil, fanout, flagBallsPerGame, flagMaxPlayers, logger)
	controller.OnStartup(func(c *game.Controller) {
		registerBuiltinModes(c, def, store)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := controller.Run(ctx); err != nil {
			logger.Error("controller stopped", "error", err)
		}
	}()

	program := tea.NewProgram(dashboard, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func closeAll(closers []func() error) {
	for _, c := range closers {
		c()
	}
}
