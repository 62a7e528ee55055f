// animalmerge is a 2048-style tile merging game where tokens evolve from a
// Mouse all the way to a Unicorn.
//
// Usage:
//
//	animalmerge play [--mode <mode>]  - Play a mode directly (default: classic)
//	animalmerge daily                 - Play today's shared board
//	animalmerge menu                  - Pick a mode and difficulty interactively
//	animalmerge modes                 - List the available modes
//	animalmerge scores [mode]         - Show leaderboards and per-mode stats
//	animalmerge serve                 - Start SSH server for remote play
//	animalmerge api                   - Start the JSON HTTP API
//	animalmerge config                - Print the default configuration
//
// Global flags:
//
//	--config <path>      - Game config YAML
//	--difficulty <name>  - easy, normal or hard
//	--seed <value>       - Fixed spawn seed for reproducible games
//	--db <path>          - Database path (default: ~/.animalmerge/scores.db)
//	--log <path>         - Write logs of the terminal UI to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagSeed       uint64
	flagDBPath     string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "animalmerge",
	Short: "Animal Merge - evolve animals by merging tiles in your terminal",
	Long: `Animal Merge is a 2048-style puzzle: slide the board, merge equal
animals and evolve a Mouse all the way to a Unicorn.

Available commands:
  play     - Play a mode directly
  daily    - Play today's board (the same for everyone)
  menu     - Interactive mode picker
  modes    - Show all modes and the animal chain
  scores   - View leaderboards
  serve    - Start SSH server for remote play
  api      - Start the JSON HTTP API
  config   - Print the default configuration

Examples:
  animalmerge play
  animalmerge play --mode rush60 --difficulty hard
  animalmerge daily
  animalmerge serve --ssh :2222
  animalmerge scores daily`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: easy, normal, hard (default from config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Spawn seed (0 = random; ignored by daily)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Log file for the terminal UI (default: discard)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(configCmd)
}
