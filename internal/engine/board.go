package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// ErrInvalidDirection is returned when a direction token is not one of up, down, left, right.
var ErrInvalidDirection = errors.New("engine: invalid direction")

// Directions lists every direction in hint priority order.
// A later direction must gain strictly more to replace an earlier one.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection converts "up", "down", "left" or "right" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// quarterTurns is the number of counter-clockwise quarter turns that makes d
// equivalent to sliding left. Up turns into left after one turn because the
// top of each column lands at the start of a row.
func (d Direction) quarterTurns() int {
	switch d {
	case DirUp:
		return 1
	case DirRight:
		return 2
	case DirDown:
		return 3
	default:
		return 0
	}
}

// Board is an NxN grid of levels. Zero means empty.
type Board [][]int

// Cell is a board coordinate.
type Cell struct {
	X, Y int
}

// NewBoard returns an empty size x size board.
func NewBoard(size int) Board {
	b := make(Board, size)
	for y := range b {
		b[y] = make([]int, size)
	}
	return b
}

// Size returns the board dimension.
func (b Board) Size() int {
	return len(b)
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for y, row := range b {
		c[y] = append([]int(nil), row...)
	}
	return c
}

// Equal compares two boards cell by cell.
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for y := range b {
		if len(b[y]) != len(other[y]) {
			return false
		}
		for x := range b[y] {
			if b[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// rotate returns a copy of the board turned counter-clockwise the given number of times.
func (b Board) rotate(turns int) Board {
	out := b.Clone()
	n := len(b)
	for range turns % 4 {
		next := NewBoard(n)
		for y := range n {
			for x := range n {
				next[n-1-x][y] = out[y][x]
			}
		}
		out = next
	}
	return out
}

// mergeLine slides a line towards index 0 and merges equal neighbours.
// A tile produced by a merge does not merge again in the same pass.
func mergeLine(line []int) (result []int, gained int) {
	result = make([]int, len(line))
	writePos := 0
	canMerge := false

	for _, v := range line {
		if v == 0 {
			continue
		}

		if canMerge && result[writePos-1] == v {
			result[writePos-1] *= 2
			gained += result[writePos-1]
			canMerge = false
			continue
		}

		result[writePos] = v
		writePos++
		canMerge = true
	}

	return result, gained
}

// Result is the outcome of applying a direction to a board.
type Result struct {
	Board  Board
	Gained int
	Moved  bool
}

// Transform slides and merges every line of b in the given direction.
// It never mutates b and involves no randomness.
func Transform(b Board, dir Direction) Result {
	turns := dir.quarterTurns()
	work := b.rotate(turns)

	gained := 0
	for y, row := range work {
		merged, score := mergeLine(row)
		work[y] = merged
		gained += score
	}

	out := work.rotate((4 - turns) % 4)
	return Result{
		Board:  out,
		Gained: gained,
		Moved:  !out.Equal(b),
	}
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func (b Board) EmptyCells() []Cell {
	var cells []Cell
	for y, row := range b {
		for x, v := range row {
			if v == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func (b Board) HasEmptyCell() bool {
	for _, row := range b {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if two axis-adjacent tiles share a non-zero level.
func (b Board) HasPossibleMerge() bool {
	n := len(b)
	for y := range n {
		for x := range n {
			v := b[y][x]
			if v == 0 {
				continue
			}
			if x < n-1 && b[y][x+1] == v {
				return true
			}
			if y < n-1 && b[y+1][x] == v {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any direction would change the board.
func (b Board) CanMove() bool {
	return b.HasEmptyCell() || b.HasPossibleMerge()
}

// IsStuck reports the no-legal-move condition: full board, no equal neighbours.
func (b Board) IsStuck() bool {
	return !b.CanMove()
}

// MaxTile returns the highest level on the board.
func (b Board) MaxTile() int {
	maxVal := 0
	for _, row := range b {
		for _, v := range row {
			maxVal = max(maxVal, v)
		}
	}
	return maxVal
}

// TileCount returns the number of occupied cells.
func (b Board) TileCount() int {
	n := 0
	for _, row := range b {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// isPowerOfTwo reports whether v is 2, 4, 8, ...
func isPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
