package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/xyh-wiki/animal-merge/internal/engine"
)

// Difficulties lists the presets in menu order.
var Difficulties = []engine.Difficulty{
	engine.DifficultyEasy,
	engine.DifficultyNormal,
	engine.DifficultyHard,
}

// ParseDifficulty resolves a user-supplied preset name.
// An empty name selects normal.
func ParseDifficulty(name string) (engine.Difficulty, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return engine.DifficultyNormal, nil
	}
	d := engine.Difficulty(name)
	if !lo.Contains(Difficulties, d) {
		return "", fmt.Errorf("%w: %q (want easy, normal or hard)", engine.ErrUnknownDifficulty, name)
	}
	return d, nil
}

// DefaultDifficulty is the configured preset, normal when it is unusable.
func (c GameConfig) DefaultDifficulty() engine.Difficulty {
	d, err := ParseDifficulty(c.Difficulty)
	if err != nil {
		return engine.DifficultyNormal
	}
	return d
}

// SpawnTables converts the configured distributions into engine tables.
// Empty entries are left out so the engine falls back to its defaults.
func (c GameConfig) SpawnTables() (map[engine.Difficulty]engine.SpawnTable, error) {
	tables := make(map[engine.Difficulty]engine.SpawnTable)
	for d, rows := range map[engine.Difficulty][]SpawnWeightConfig{
		engine.DifficultyEasy:   c.Spawn.Easy,
		engine.DifficultyNormal: c.Spawn.Normal,
		engine.DifficultyHard:   c.Spawn.Hard,
	} {
		if len(rows) == 0 {
			continue
		}
		table := engine.SpawnTable(lo.Map(rows, func(r SpawnWeightConfig, _ int) engine.SpawnWeight {
			return engine.SpawnWeight{Value: r.Value, Weight: r.Weight}
		}))
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("config: spawn.%s: %w", d, err)
		}
		tables[d] = table
	}
	return tables, nil
}
