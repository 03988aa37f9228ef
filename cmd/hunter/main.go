// hunter runs the platform integration samples in the terminal against a
// local platform emulator.
//
// Usage:
//
//	hunter list              - List available samples
//	hunter play <sample>     - Run a sample
//	hunter menu              - Start menu to pick samples interactively
//	hunter stats             - Print stats and achievements for the user
//	hunter reset             - Reset stats and achievements for the user
//	hunter serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.hunter/hunter.db)
//	--config <path>    - Use a custom hunter.yaml
//	--user <name>      - Log on as this user (default: $USER)
//	--offline          - Pretend the platform client is not running
//	--log-file <path>  - Write logs here (default: ~/.hunter/hunter.log)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import samples to register them
	_ "github.com/vovakirdan/tui-hunter/internal/games/hello"
	_ "github.com/vovakirdan/tui-hunter/internal/games/hunter"
	_ "github.com/vovakirdan/tui-hunter/internal/games/integration"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagUser    string
	flagOffline bool
	flagLogFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hunter",
	Short: "Achievement Hunter - platform integration samples in your terminal",
	Long: `Achievement Hunter runs small samples that talk to a platform client:
stats, achievements, leaderboards, overlay and presence. A local emulator
backed by SQLite stands in for the real client.

Available commands:
  list     - Show all available samples
  play     - Run a specific sample directly
  menu     - Interactive sample picker
  stats    - Print the user's stats and achievements
  reset    - Reset the user's stats and achievements
  serve    - Start SSH server for remote play

Examples:
  hunter list
  hunter play hunter
  hunter play hello --user alice
  hunter menu --offline
  hunter serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hunter/hunter.db", "Path to stats database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom hunter.yaml")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "User to log on as (default: $USER)")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Run without the platform client")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.hunter/hunter.log", "Path to log file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
}
