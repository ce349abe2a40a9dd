// pinhall is the CLI harness around the runtime core: it wires a machine
// definition, a hardware backend, the media fanout, and the built-in modes
// into a running internal/game.Controller, the way cmd/arcade wires a game
// registry and storage around the teacher's core loop.
//
// Usage:
//
//	pinhall run              - Run against the real GPIO backend (Linux)
//	pinhall sim               - Run against the in-process simulator with a live dashboard
//	pinhall scores            - Show the persisted high-score board
//	pinhall service           - Operator settings console (raw-mode, optional --remote mirror)
//
// Global flags:
//
//	--db <path>          - Operator/high-score database (default ~/.pinhall/pinhall.db)
//	--machine <path>     - Machine definition YAML (default: search order, see internal/config)
//	--media-addr <addr>  - TCP media bridge listen address, e.g. ":9000" (disabled if empty)
//	--ws-addr <addr>     - Websocket media bridge listen address (disabled if empty)
//	--mqtt-addr <addr>   - MQTT broker URL, e.g. "tcp://localhost:1883" (disabled if empty)
//	--gpio-chip <name>   - GPIO chip device for 'run', e.g. "gpiochip0"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDBPath    string
	flagMachine   string
	flagMediaAddr string
	flagWSAddr    string
	flagMQTTAddr  string
	flagGPIOChip  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pinhall",
	Short: "pinhall - a pinball game-framework runtime core",
	Long: `pinhall runs the switch/coil/mode pipeline described by a machine
definition against either a real board (gpio) or an in-process simulator.

Examples:
  pinhall sim
  pinhall run --machine ./my-machine.yaml
  pinhall scores
  pinhall service --remote`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pinhall/pinhall.db", "Path to the operator/high-score database")
	rootCmd.PersistentFlags().StringVar(&flagMachine, "machine", "", "Path to a machine definition YAML (empty uses the search order)")
	rootCmd.PersistentFlags().StringVar(&flagMediaAddr, "media-addr", "", "TCP media bridge listen address (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&flagWSAddr, "ws-addr", "", "Websocket media bridge listen address (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&flagMQTTAddr, "mqtt-addr", "", "MQTT broker URL for the event sink (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&flagGPIOChip, "gpio-chip", "gpiochip0", "GPIO chip device used by 'run' (ignored elsewhere)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serviceCmd)
}
