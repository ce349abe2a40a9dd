package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the persisted high-score board",
	Long: `Display the machine's high-score board, highest score first.

Examples:
  pinhall scores
  pinhall scores --db ./my-machine.db`,
	Run: runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.LoadHighScores(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pinhall: loading high scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pinhall sim' or 'pinhall run' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "Rank", "Name", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "----", "----", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-10s  %-12d  %s\n", i+1, e.Name, e.Score, e.Date.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Best: %d\n", entries[0].Score)
}
