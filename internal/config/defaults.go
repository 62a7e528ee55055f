package config

import (
	_ "embed"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// DefaultDBPath is used when neither flags nor config name a database.
const DefaultDBPath = "~/.animalmerge/scores.db"

// DefaultDailySalt keys the daily seed when the config leaves it empty.
const DefaultDailySalt = "animal-merge-daily"

// DefaultGameConfig returns the hardcoded configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Difficulty: "normal",
		Budgets: BudgetConfig{
			Undo: 3,
			Hint: 3,
		},
		Spawn: SpawnConfig{
			Easy: []SpawnWeightConfig{
				{Value: 2, Weight: 0.97},
				{Value: 4, Weight: 0.03},
			},
			Normal: []SpawnWeightConfig{
				{Value: 2, Weight: 0.90},
				{Value: 4, Weight: 0.10},
			},
			Hard: []SpawnWeightConfig{
				{Value: 2, Weight: 0.70},
				{Value: 4, Weight: 0.20},
				{Value: 8, Weight: 0.10},
			},
		},
		Daily: DailyConfig{
			Salt: DefaultDailySalt,
		},
		Storage: StorageConfig{
			Path: DefaultDBPath,
		},
	}
}

// DefaultYAML returns the embedded default document.
func DefaultYAML() []byte {
	return defaultGameYAML
}
