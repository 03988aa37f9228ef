package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-hunter/internal/platform/tui"
	"github.com/vovakirdan/tui-hunter/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a sample picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a sample.
Esc in a sample returns to the menu. Tab opens achievements and leaderboards.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select sample
  Tab          - Achievements
  Q            - Quit

Examples:
  hunter menu
  hunter menu --fps 30
  hunter menu --db ./hunter.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	cfg := runtimeConfig()
	for {
		menuResult, err := tui.RunMenu(e.sess.User, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsAchievements {
			e.sess.WaitForStats(3)
			var source tui.LeaderboardSource
			if e.store != nil {
				source = e.store
			}
			goBack, err := tui.RunAchievements(e.sess.User, e.sess.Tracker.Snapshot(), e.cfg, source, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID, e.sess)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating sample: %v\n", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		backToMenu, err := tui.Run(game, e.sess, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running sample: %v\n", err)
		}
		if !backToMenu {
			return
		}
	}
}
