package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List all modes and the animal chain",
	Long:  `Shows every playable mode and the animals a tile evolves through.`,
	Args:  cobra.NoArgs,
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	list := modes.List()

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxKeyLen := 3 // "Key" header
	for _, m := range list {
		maxKeyLen = max(maxKeyLen, len(m.Key))
	}

	fmt.Printf("  %-*s  %-10s  %s\n", maxKeyLen, "Key", "Name", "Rules")
	fmt.Printf("  %-*s  %-10s  %s\n", maxKeyLen, "---", "----", "-----")
	for _, m := range list {
		fmt.Printf("  %-*s  %-10s  %s\n", maxKeyLen, m.Key, m.Label, rules(m))
	}

	fmt.Println()
	fmt.Println("Evolution chain:")
	for _, row := range tiers.Rows() {
		parts := make([]string, len(row))
		for i, t := range row {
			parts[i] = fmt.Sprintf("%s %s (%d)", t.Icon, t.Name, t.Level)
		}
		fmt.Println("  " + strings.Join(parts, "  "))
	}

	fmt.Println()
	fmt.Println("Run 'animalmerge play --mode <key>' to play a mode.")
}

// rules summarizes how a mode ends.
func rules(m modes.Mode) string {
	size := fmt.Sprintf("%dx%d", m.BoardSize, m.BoardSize)
	switch {
	case m.MoveLimit > 0:
		return fmt.Sprintf("%s board, %d moves", size, m.MoveLimit)
	case m.TimeLimit > 0:
		return fmt.Sprintf("%s board, %s on the clock", size, m.TimeLimit)
	case m.Daily:
		return size + " board, same for everyone each UTC day"
	case m.Endless:
		return size + " board, no win, play until stuck"
	default:
		final := m.FinalLevel()
		return fmt.Sprintf("%s board, reach the %s %s", size, tiers.IconFor(final), tiers.NameFor(final))
	}
}
