package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pinhall/internal/platform/sim"
	simconsole "github.com/vovakirdan/pinhall/internal/platform/sim/console"
	"github.com/vovakirdan/pinhall/internal/remote"
	"github.com/vovakirdan/pinhall/internal/storage"
)

var flagServiceRemote bool

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Operator settings console",
	Long: `Adjust the machine's persisted operator settings (balls per game,
max players, tilt warnings, ball-save window) from a raw-mode terminal
menu. With --remote, also start a read-only SSH mirror of the simulator
for watching the cabinet from another room.

Examples:
  pinhall service
  pinhall service --remote`,
	Run: runService,
}

func init() {
	serviceCmd.Flags().BoolVar(&flagServiceRemote, "remote", false, "Also start the SSH operator console mirror")
}

func runService(cmd *cobra.Command, args []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	settings, err := store.LoadOperatorSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pinhall: loading operator settings: %v\n", err)
		os.Exit(1)
	}

	if flagServiceRemote {
		logger := newLogger("service")
		backend := sim.New(nil)
		_, cfg, err := loadMachine(backend)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		dashboard := simconsole.New(backend, cfg.Switches, nil)
		srv, err := remote.NewServer(remote.DefaultServerConfig(), dashboard)
		if err != nil {
			logger.Warn("could not start remote console", "error", err)
		} else {
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					logger.Error("remote console stopped", "error", err)
				}
			}()
			fmt.Println("remote operator console listening on", remote.DefaultServerConfig().Address)
		}
	}

	settings = runServiceMenu(os.Stdin, os.Stdout, settings)

	if err := store.SaveOperatorSettings(settings); err != nil {
		fmt.Fprintf(os.Stderr, "pinhall: saving operator settings: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("settings saved")
}

func runServiceMenu(stdin *os.File, stdout *os.File, settings storage.OperatorSettings) storage.OperatorSettings {
	fd := int(stdin.Fd())
	isTerminal := term.IsTerminal(fd)

	var oldState *term.State
	if isTerminal {
		state, err := term.MakeRaw(fd)
		if err == nil {
			oldState = state
			defer term.Restore(fd, oldState)
		}
	}

	reader := bufio.NewReader(stdin)
	for {
		printServiceMenu(stdout, settings)
		b, err := reader.ReadByte()
		if err != nil {
			return settings
		}
		switch b {
		case '1':
			settings.BallsPerGame = promptInt(stdout, reader, oldState, fd, "Balls per game", settings.BallsPerGame, 1, 10)
		case '2':
			settings.MaxPlayers = promptInt(stdout, reader, oldState, fd, "Max players", settings.MaxPlayers, 1, 8)
		case '3':
			settings.TiltWarnings = promptInt(stdout, reader, oldState, fd, "Tilt warnings", settings.TiltWarnings, 0, 10)
		case '4':
			settings.BallSaveSeconds = float64(promptInt(stdout, reader, oldState, fd, "Ball-save seconds", int(settings.BallSaveSeconds), 0, 60))
		case 'q', 'Q', 3:
			return settings
		}
	}
}

func printServiceMenu(w *os.File, s storage.OperatorSettings) {
	fmt.Fprint(w, "\r\n--- pinhall service menu ---\r\n")
	fmt.Fprintf(w, "1) Balls per game:     %d\r\n", s.BallsPerGame)
	fmt.Fprintf(w, "2) Max players:        %d\r\n", s.MaxPlayers)
	fmt.Fprintf(w, "3) Tilt warnings:      %d\r\n", s.TiltWarnings)
	fmt.Fprintf(w, "4) Ball-save seconds:  %.0f\r\n", s.BallSaveSeconds)
	fmt.Fprint(w, "q) Save and quit\r\n> ")
}

// promptInt drops out of raw mode long enough to read a line of digits,
// since the menu's single-keystroke mode isn't suited to multi-digit
// entry.
func promptInt(w *os.File, r *bufio.Reader, oldState *term.State, fd int, label string, current, min, max int) int {
	if oldState != nil {
		term.Restore(fd, oldState)
		defer term.MakeRaw(fd)
	}
	fmt.Fprintf(w, "\r\n%s [%d]: ", label, current)
	line, err := r.ReadString('\n')
	if err != nil {
		return current
	}
	var n int
	if _, err := fmt.Sscanf(line, "%d", &n); err != nil {
		return current
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n
}
