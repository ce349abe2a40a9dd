package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pinhall/internal/game"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run against the real GPIO backend (Linux)",
	Long: `Run the game controller against the cabinet's real switches and
coils over a Linux gpiochip. Not available on non-Linux platforms — use
'pinhall sim' there instead.

Examples:
  pinhall run
  pinhall run --gpio-chip gpiochip0 --machine ./my-machine.yaml`,
	Run: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagBallsPerGame, "balls", 3, "Balls per game")
	runCmd.Flags().IntVar(&flagMaxPlayers, "max-players", 4, "Maximum players per game")
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger("run")

	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	def, err := loadMachineDef()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	backend, err := newHardwareBackend(def)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_, cfg, err := loadMachine(backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fanout, closers := buildMediaFanout(logger)
	defer closeAll(closers)

	controller := game.New(backend, cfg, nil, fanout, flagBallsPerGame, flagMaxPlayers, logger)
	controller.OnStartup(func(c *game.Controller) {
		registerBuiltinModes(c, def, store)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if err := controller.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("controller stopped", "error", err)
		os.Exit(1)
	}
}
