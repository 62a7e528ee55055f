// Package tiers maps token levels to the animals shown on the board.
package tiers

import (
	"strconv"

	"github.com/samber/lo"
)

// DefaultName is shown when a level has no animal.
const DefaultName = "Mouse"

// Tier is one step of the evolution chain.
type Tier struct {
	Level int
	Name  string
	Icon  string
}

var chain = []Tier{
	{Level: 2, Name: "Mouse", Icon: "🐭"},
	{Level: 4, Name: "Cat", Icon: "🐱"},
	{Level: 8, Name: "Dog", Icon: "🐶"},
	{Level: 16, Name: "Rabbit", Icon: "🐰"},
	{Level: 32, Name: "Fox", Icon: "🦊"},
	{Level: 64, Name: "Bear", Icon: "🐻"},
	{Level: 128, Name: "Tiger", Icon: "🐯"},
	{Level: 256, Name: "Panda", Icon: "🐼"},
	{Level: 512, Name: "Koala", Icon: "🐨"},
	{Level: 1024, Name: "Lion", Icon: "🦁"},
	{Level: 2048, Name: "Dragon", Icon: "🐲"},
	{Level: 4096, Name: "Unicorn", Icon: "🦄"},
}

var byLevel = lo.KeyBy(chain, func(t Tier) int { return t.Level })

// All returns the chain in ascending level order.
func All() []Tier {
	return append([]Tier(nil), chain...)
}

// FinalLevel is the top of the chain; reaching it wins a classic game.
func FinalLevel() int {
	return lo.Max(lo.Map(chain, func(t Tier, _ int) int { return t.Level }))
}

// Lookup returns the tier for level.
func Lookup(level int) (Tier, bool) {
	t, ok := byLevel[level]
	return t, ok
}

// NameFor returns the animal name for level, or DefaultName.
func NameFor(level int) string {
	if t, ok := Lookup(level); ok {
		return t.Name
	}
	return DefaultName
}

// IconFor returns the icon for level. Levels past the chain fall back to the
// number itself.
func IconFor(level int) string {
	if t, ok := Lookup(level); ok {
		return t.Icon
	}
	if level == 0 {
		return ""
	}
	return lo.Ternary(level > 0, strconv.Itoa(level), "?")
}

// Index returns the position of level in the chain, or -1.
func Index(level int) int {
	_, idx, ok := lo.FindIndexOf(chain, func(t Tier) bool { return t.Level == level })
	if !ok {
		return -1
	}
	return idx
}

// Rows splits the chain into the two display rows of the evolution legend.
func Rows() [][]Tier {
	return lo.Chunk(All(), 8)
}
