// Package modes provides the registry of game modes.
// Built-in modes register themselves in init(), and the CLI, TUI and HTTP
// adapters discover them here instead of hardcoding keys.
package modes

import (
	"fmt"
	"sync"
	"time"

	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

// Built-in mode keys.
const (
	Classic = "classic"
	Endless = "endless"
	Moves50 = "moves50"
	Rush60  = "rush60"
	Daily   = "daily"
)

// Mode describes the rules layered on top of the engine for one mode.
// The engine never looks at a clock; limits are enforced by the caller via
// Expired.
type Mode struct {
	Key       string
	Label     string
	BoardSize int

	// MoveLimit ends the game after this many accepted moves. Zero disables it.
	MoveLimit int
	// TimeLimit ends the game after this much wall time. Zero disables it.
	TimeLimit time.Duration

	// Daily sessions are seeded from the calendar date.
	Daily bool
	// Endless sessions never win.
	Endless bool
}

// FinalLevel returns the winning level for the mode, or 0 when endless.
func (m Mode) FinalLevel() int {
	if m.Endless {
		return 0
	}
	return tiers.FinalLevel()
}

// Expired reports whether a move or time limit has run out.
func (m Mode) Expired(moves int, elapsed time.Duration) bool {
	if m.MoveLimit > 0 && moves >= m.MoveLimit {
		return true
	}
	if m.TimeLimit > 0 && elapsed >= m.TimeLimit {
		return true
	}
	return false
}

// Remaining returns what is left of the move and time limits. Unlimited
// dimensions report -1.
func (m Mode) Remaining(moves int, elapsed time.Duration) (int, time.Duration) {
	left, until := -1, time.Duration(-1)
	if m.MoveLimit > 0 {
		left = max(m.MoveLimit-moves, 0)
	}
	if m.TimeLimit > 0 {
		until = max(m.TimeLimit-elapsed, 0)
	}
	return left, until
}

// Timed reports whether the mode runs against a clock.
func (m Mode) Timed() bool {
	return m.TimeLimit > 0
}

var (
	registered = make(map[string]Mode)
	order      []string
	mu         sync.RWMutex
)

// Register adds a mode to the registry.
// Panics if a mode with the same key is already registered.
func Register(m Mode) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registered[m.Key]; exists {
		panic(fmt.Sprintf("modes: mode %q already registered", m.Key))
	}
	registered[m.Key] = m
	order = append(order, m.Key)
}

// List returns all registered modes in registration order.
func List() []Mode {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Mode, 0, len(order))
	for _, key := range order {
		result = append(result, registered[key])
	}
	return result
}

// Lookup returns the mode registered under key.
func Lookup(key string) (Mode, error) {
	mu.RLock()
	defer mu.RUnlock()

	m, ok := registered[key]
	if !ok {
		return Mode{}, fmt.Errorf("modes: unknown mode %q", key)
	}
	return m, nil
}

// Exists checks if a mode with the given key is registered.
func Exists(key string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := registered[key]
	return ok
}

func init() {
	Register(Mode{Key: Classic, Label: "Classic", BoardSize: 4})
	Register(Mode{Key: Endless, Label: "Endless", BoardSize: 5, Endless: true})
	Register(Mode{Key: Moves50, Label: "50 Moves", BoardSize: 4, MoveLimit: 50})
	Register(Mode{Key: Rush60, Label: "60s Rush", BoardSize: 4, TimeLimit: 60 * time.Second})
	Register(Mode{Key: Daily, Label: "Daily", BoardSize: 4, Daily: true})
}
