package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
)

// Load reads the game configuration.
// Search order: customPath -> ~/.animalmerge/config.yaml -> ./configs/game.yaml -> embedded default
// Values missing from the file keep their hardcoded defaults.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "game.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultGameYAML)
	if err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document over the hardcoded defaults and validates it.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultGameConfig()
	// Spawn tables replace rather than merge.
	cfg.Spawn = SpawnConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// Validate checks budgets, difficulty, spawn tables and board overrides.
func (c GameConfig) Validate() error {
	if c.Budgets.Undo < 0 || c.Budgets.Hint < 0 {
		return fmt.Errorf("config: budgets cannot be negative (undo=%d, hint=%d)", c.Budgets.Undo, c.Budgets.Hint)
	}
	if _, err := ParseDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.SpawnTables(); err != nil {
		return err
	}
	for key, m := range c.Modes {
		if !modes.Exists(key) {
			return fmt.Errorf("config: modes.%s: unknown mode", key)
		}
		if m.BoardSize != 0 && (m.BoardSize < engine.MinBoardSize || m.BoardSize > engine.MaxBoardSize) {
			return fmt.Errorf("config: modes.%s.board_size must be between %d and %d",
				key, engine.MinBoardSize, engine.MaxBoardSize)
		}
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".animalmerge", filename)
}
