package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-hunter/internal/platform/tui"
	"github.com/vovakirdan/tui-hunter/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <sample>",
	Short: "Run a sample",
	Long: `Start the specified sample.

Controls (hunter):
  Right/D        - Thrust
  Up/Down, W/S   - Steer
  1 / 2          - Record a win / a loss
  X              - Reset session distance
  R              - Reset all stats and achievements
  Shift+Tab      - Toggle the overlay
  P              - Pause
  Esc/B          - Back
  Q/Ctrl+C       - Quit

Examples:
  hunter play hunter
  hunter play integration --user alice
  hunter play hello --offline`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown sample %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'hunter list' to see available samples.")
		os.Exit(1)
	}

	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(gameID, e.sess)
	if err != nil {
		e.Close()
		fmt.Fprintf(os.Stderr, "Error creating sample: %v\n", err)
		os.Exit(1)
	}

	_, runErr := tui.Run(game, e.sess, runtimeConfig())
	e.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running sample: %v\n", runErr)
		os.Exit(1)
	}
}
