package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/platform/tui"
)

var (
	flagMode string
	flagSize int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a mode",
	Long: `Start playing the selected mode.

Controls:
  Arrows/WASD/HJKL - Slide the board
  U/Z              - Undo (limited)
  I/?              - Hint (limited)
  R                - Restart
  B/Esc            - Leave the game
  Q/Ctrl+C         - Quit

Modes:
  classic  - 4x4, reach the Unicorn
  endless  - 5x5, no win, play until stuck
  moves50  - 4x4, best score in 50 moves
  rush60   - 4x4, best score in 60 seconds
  daily    - 4x4, the same board for everyone today

Difficulty options:
  easy   - mostly Mice spawn
  normal - the classic 90/10 split of Mice and Cats
  hard   - more Cats, and Dogs appear

Examples:
  animalmerge play
  animalmerge play --mode endless --size 6
  animalmerge play --mode rush60 --difficulty hard
  animalmerge play --seed 42
  animalmerge play --config ./my-game.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Play today's board",
	Long: `Play the daily board. Every player gets the same starting board and
spawn sequence for the current UTC date, so scores are comparable.

Examples:
  animalmerge daily
  animalmerge scores daily`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flagMode = modes.Daily
		runPlay(cmd, args)
	},
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", modes.Classic, "Mode to play (see 'animalmerge modes')")
	playCmd.Flags().IntVar(&flagSize, "size", 0, "Board size override (0 = mode default)")
}

func runPlay(_ *cobra.Command, _ []string) {
	mode, err := modes.Lookup(flagMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'animalmerge modes' to see available modes.")
		os.Exit(1)
	}

	d, err := difficulty()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applySize(&cfg, mode.Key)

	env, cleanup := newEnv(cfg)
	runErr := tui.Run(env, mode, d)
	cleanup()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// applySize turns --size into a board size override for mode.
func applySize(cfg *config.GameConfig, mode string) {
	if flagSize == 0 {
		return
	}
	if cfg.Modes == nil {
		cfg.Modes = make(map[string]config.ModeConfig)
	}
	mc := cfg.Modes[mode]
	mc.BoardSize = flagSize
	cfg.Modes[mode] = mc
}
