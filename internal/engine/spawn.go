package engine

import (
	"errors"
	"fmt"
)

// Difficulty names a spawn distribution.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ErrUnknownDifficulty is returned for a difficulty with no spawn table.
var ErrUnknownDifficulty = errors.New("engine: unknown difficulty")

// SpawnWeight is one outcome of a spawn draw.
type SpawnWeight struct {
	Value  int     `yaml:"value" json:"value"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// SpawnTable is a discrete distribution over spawn levels.
type SpawnTable []SpawnWeight

// DefaultSpawnTables holds the built-in distributions per difficulty.
var DefaultSpawnTables = map[Difficulty]SpawnTable{
	DifficultyEasy:   {{Value: 2, Weight: 0.97}, {Value: 4, Weight: 0.03}},
	DifficultyNormal: {{Value: 2, Weight: 0.90}, {Value: 4, Weight: 0.10}},
	DifficultyHard:   {{Value: 2, Weight: 0.70}, {Value: 4, Weight: 0.20}, {Value: 8, Weight: 0.10}},
}

// Validate checks that every value is a power of two and every weight is positive.
func (t SpawnTable) Validate() error {
	if len(t) == 0 {
		return errors.New("engine: empty spawn table")
	}
	for _, w := range t {
		if !isPowerOfTwo(w.Value) {
			return fmt.Errorf("engine: spawn value %d is not a power of two", w.Value)
		}
		if w.Weight <= 0 {
			return fmt.Errorf("engine: spawn weight for %d must be positive", w.Value)
		}
	}
	return nil
}

// MaxValue returns the largest value the table can spawn.
func (t SpawnTable) MaxValue() int {
	highest := 0
	for _, w := range t {
		highest = max(highest, w.Value)
	}
	return highest
}

// Draw picks a value. Weights need not sum to one.
func (t SpawnTable) Draw(src Source) int {
	total := 0.0
	for _, w := range t {
		total += w.Weight
	}

	r := src.Float64() * total
	for _, w := range t {
		if r < w.Weight {
			return w.Value
		}
		r -= w.Weight
	}
	return t[len(t)-1].Value
}

// spawnTile places one token in a uniformly random empty cell.
// Returns false without touching the board when it is full.
func spawnTile(b Board, table SpawnTable, src Source) (Cell, int, bool) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, 0, false
	}

	cell := empty[src.IntN(len(empty))]
	value := table.Draw(src)
	b[cell.Y][cell.X] = value
	return cell, value, true
}
