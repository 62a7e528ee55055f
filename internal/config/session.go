package config

import (
	"time"

	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
)

// SessionOptions selects how a session is built from the configuration.
type SessionOptions struct {
	Mode       modes.Mode
	Difficulty engine.Difficulty // empty uses the configured default
	Size       int               // non-zero overrides the mode's board size
	Seed       uint64            // non-zero makes non-daily spawns reproducible
	Now        time.Time         // picks the daily board; zero means time.Now
}

// EngineConfig resolves the engine configuration for opts.
func (c GameConfig) EngineConfig(opts SessionOptions) (engine.Config, error) {
	difficulty := opts.Difficulty
	if difficulty == "" {
		d, err := ParseDifficulty(c.Difficulty)
		if err != nil {
			return engine.Config{}, err
		}
		difficulty = d
	}

	tables, err := c.SpawnTables()
	if err != nil {
		return engine.Config{}, err
	}

	size := opts.Mode.BoardSize
	if override, ok := c.Modes[opts.Mode.Key]; ok && override.BoardSize != 0 {
		size = override.BoardSize
	}
	if opts.Size != 0 {
		size = opts.Size
	}

	return engine.Config{
		Size:       size,
		Difficulty: difficulty,
		Mode:       opts.Mode.Key,
		FinalLevel: opts.Mode.FinalLevel(),
		MaxUndo:    c.Budgets.Undo,
		MaxHint:    c.Budgets.Hint,
		Spawn:      tables,
	}, nil
}

// Seeder picks the randomness for opts: the date for daily modes, a fixed
// seed when one is given, otherwise system entropy.
func (c GameConfig) Seeder(opts SessionOptions) engine.Seeder {
	if opts.Mode.Daily {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		salt := c.Daily.Salt
		if salt == "" {
			salt = DefaultDailySalt
		}
		return engine.DailySeeder(now, salt)
	}
	if opts.Seed != 0 {
		return engine.SeededSeeder(opts.Seed)
	}
	return engine.EntropySeeder()
}

// NewSession builds an engine session for opts.
func (c GameConfig) NewSession(opts SessionOptions) (*engine.Session, error) {
	ec, err := c.EngineConfig(opts)
	if err != nil {
		return nil, err
	}
	return engine.New(ec, c.Seeder(opts))
}
