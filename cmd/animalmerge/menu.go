package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xyh-wiki/animal-merge/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to change difficulty and
Enter to play. After a game, you return to the menu to play again.

Controls:
  Up/Down/j/k     - Pick mode
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Play
  Tab             - Leaderboards
  Q               - Quit

Examples:
  animalmerge menu
  animalmerge menu --difficulty easy
  animalmerge menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
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
	if d == "" {
		d = cfg.DefaultDifficulty()
	}

	env, cleanup := newEnv(cfg)
	defer cleanup()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(env, d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep size changes and the chosen difficulty for the next round
		env.Runtime = menuResult.Config
		d = menuResult.Difficulty

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(env)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.Mode == nil {
			break
		}

		if err := tui.Run(env, *menuResult.Mode, d); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
