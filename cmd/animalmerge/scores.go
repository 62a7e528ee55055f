package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/storage"
	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

var (
	flagDate   string
	flagLimit  int
	flagClear  bool
	flagRecent bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show leaderboards",
	Long: `Without a mode, shows a summary of every mode played.
With a mode, shows its top games. The daily leaderboard is per date.

Examples:
  animalmerge scores
  animalmerge scores --recent
  animalmerge scores classic
  animalmerge scores daily --date 2025-11-24
  animalmerge scores rush60 --limit 20
  animalmerge scores endless --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagDate, "date", "", "Daily leaderboard date YYYY-MM-DD (default: today, UTC)")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLimit, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every record of the mode")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent games of every mode")
}

func runScores(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRecent {
		if err := printRecent(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(args) == 0 {
		if err := printSummary(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			os.Exit(1)
		}
		return
	}

	mode, err := modes.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'animalmerge modes' to see available modes.")
		os.Exit(1)
	}

	if flagClear {
		if err := store.ClearRecords(mode.Key); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing records: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all %s records.\n", mode.Label)
		return
	}

	if err := printLeaderboard(store, mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	if stats, err := store.GetModeStats(mode.Key); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("%d games, best %d, average %.0f, %d wins, top animal %s\n",
			stats.GamesCount, stats.BestScore, stats.AvgScore, stats.Wins, tiers.NameFor(stats.HighestLevel))
	}
}

func printLeaderboard(store *storage.Store, mode modes.Mode) error {
	var (
		entries []storage.LeaderboardEntry
		err     error
	)
	if mode.Daily {
		date := flagDate
		if date == "" {
			date = engine.DateKey(time.Now())
		} else if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}
		fmt.Printf("Daily Leaderboard - %s\n", date)
		entries, err = store.DailyTop(date, flagLimit)
	} else {
		fmt.Printf("Leaderboard - %s\n", mode.Label)
		entries, err = store.TopRecords(mode.Key, flagLimit)
	}
	if err != nil {
		return err
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'animalmerge play --mode %s' to set the first score!\n", mode.Key)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-8s  %-10s  %s\n", "Rank", "Score", "Moves", "Animal", "Difficulty", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-8s  %-10s  %s\n", "----", "-----", "-----", "------", "----------", "----")
	for _, e := range entries {
		fmt.Printf("  %-4d  %-8d  %-6d  %-8s  %-10s  %s\n",
			e.Rank, e.Score, e.Moves, e.HighestAnimal, e.Difficulty, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllModeStats()
	if err != nil {
		return err
	}

	fmt.Println("Records by mode")
	fmt.Println()
	if len(stats) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}

	keys := lo.Keys(stats)
	slices.Sort(keys)

	fmt.Printf("  %-10s  %-6s  %-8s  %-8s  %-8s  %-5s  %s\n", "Mode", "Games", "Best", "Average", "Top", "Wins", "Last played")
	fmt.Printf("  %-10s  %-6s  %-8s  %-8s  %-8s  %-5s  %s\n", "----", "-----", "----", "-------", "---", "----", "-----------")
	for _, k := range keys {
		s := stats[k]
		fmt.Printf("  %-10s  %-6d  %-8d  %-8.0f  %-8s  %-5d  %s\n",
			s.Mode, s.GamesCount, s.BestScore, s.AvgScore, tiers.NameFor(s.HighestLevel), s.Wins, s.LastPlayed.Format("2006-01-02"))
	}
	return nil
}

func printRecent(store *storage.Store) error {
	records, err := store.RecentRecords(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recent games")
	fmt.Println()
	if len(records) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %-8s  %-6s  %-8s  %s\n", "Played", "Mode", "Score", "Moves", "Animal", "Fingerprint")
	fmt.Printf("  %-16s  %-10s  %-8s  %-6s  %-8s  %s\n", "------", "----", "-----", "-----", "------", "-----------")
	for _, r := range records {
		fmt.Printf("  %-16s  %-10s  %-8d  %-6d  %-8s  %016x\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Score, r.Moves, r.HighestAnimal, r.Fingerprint)
	}
	return nil
}
