package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-hunter/internal/present"
)

// waitTicks bounds how long the one-shot commands pump for stats.
const waitTicks = 10

var flagTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print stats and achievements",
	Long: `Fetch the user's stats from the platform client and print the
counters, the achievements and the top leaderboard entries.

Examples:
  hunter stats
  hunter stats --user alice --top 5`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagTop, "top", 10, "Leaderboard entries to show per board")
}

func runStats(_ *cobra.Command, _ []string) {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	if !e.sess.WaitForStats(waitTicks) {
		snap := e.sess.Tracker.Snapshot()
		if msg, ok := present.StatusMessage(snap); ok {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			fmt.Fprintln(os.Stderr, "Error: stats did not arrive in time.")
		}
		e.Close()
		os.Exit(1)
	}

	snap := e.sess.Tracker.Snapshot()
	fmt.Printf("Stats - %s\n", e.sess.User)
	fmt.Println(strings.TrimPrefix(present.StatsLines(snap), "\n"))
	fmt.Println()

	fmt.Println("Achievements")
	for _, block := range present.AchievementBlocks(snap) {
		fmt.Println(indent(strings.TrimPrefix(block, "\n")))
		fmt.Println()
	}

	printLeaderboards(e)
}

func printLeaderboards(e *env) {
	if e.store == nil {
		return
	}
	for _, def := range e.cfg.Leaderboards {
		entries, err := e.store.TopEntries(e.cfg.Platform.AppID, def.Name, def.Ascending, flagTop)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving %s: %v\n", def.Name, err)
			continue
		}

		fmt.Printf("Leaderboard - %s\n", def.Name)
		if len(entries) == 0 {
			fmt.Println("  No entries yet.")
			fmt.Println()
			continue
		}
		fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
		fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")
		for i, entry := range entries {
			fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, entry.User, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n  ")
}
