package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stats and achievements",
	Long: `Reset every stat and achievement of the user, then fetch them again
to confirm. Leaderboard entries are kept.

Examples:
  hunter reset --yes
  hunter reset --user alice --yes`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagYes, "yes", false, "Confirm the reset")
}

func runReset(_ *cobra.Command, _ []string) {
	if !flagYes {
		fmt.Fprintln(os.Stderr, "Refusing to reset without --yes.")
		os.Exit(1)
	}

	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	if !e.sess.WaitForStats(waitTicks) {
		fmt.Fprintln(os.Stderr, "Error: stats are not available, nothing was reset.")
		e.Close()
		os.Exit(1)
	}

	e.sess.Tracker.ResetAll()
	if !e.sess.WaitForStats(waitTicks) {
		fmt.Fprintln(os.Stderr, "Error: reset sent but stats could not be fetched again.")
		e.Close()
		os.Exit(1)
	}

	c := e.sess.Tracker.Snapshot().Counters
	fmt.Printf("Stats and achievements reset for %s (games: %d, wins: %d, losses: %d)\n",
		e.sess.User, c.GamesPlayed, c.Wins, c.Losses)
}
