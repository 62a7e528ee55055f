// Package config provides YAML-based configuration for animal-merge:
// undo/hint budgets, spawn distributions, the daily salt and the score
// database location.
package config

// GameConfig is the top-level configuration document.
type GameConfig struct {
	Difficulty string                `yaml:"difficulty"`
	Budgets    BudgetConfig          `yaml:"budgets"`
	Spawn      SpawnConfig           `yaml:"spawn"`
	Daily      DailyConfig           `yaml:"daily"`
	Storage    StorageConfig         `yaml:"storage"`
	Modes      map[string]ModeConfig `yaml:"modes"`
}

// BudgetConfig limits per-session undo and hint use.
type BudgetConfig struct {
	Undo int `yaml:"undo"`
	Hint int `yaml:"hint"`
}

// SpawnWeightConfig is one row of a spawn table.
type SpawnWeightConfig struct {
	Value  int     `yaml:"value"`
	Weight float64 `yaml:"weight"`
}

// SpawnConfig holds the spawn distribution per difficulty.
// Missing difficulties fall back to the engine's built-in tables.
type SpawnConfig struct {
	Easy   []SpawnWeightConfig `yaml:"easy"`
	Normal []SpawnWeightConfig `yaml:"normal"`
	Hard   []SpawnWeightConfig `yaml:"hard"`
}

// DailyConfig controls the date-seeded mode.
type DailyConfig struct {
	// Salt keys the HMAC that turns a date into a seed. Changing it changes
	// every daily board.
	Salt string `yaml:"salt"`
}

// StorageConfig locates the score database.
type StorageConfig struct {
	Path string `yaml:"path"` // "~" is expanded by storage.Open
}

// ModeConfig overrides per-mode settings.
type ModeConfig struct {
	BoardSize int `yaml:"board_size"`
}
