// Package engine implements the animal-merge board engine: a pure board
// transform, spawn policy and a single-owner game session with bounded undo
// and hint budgets.
package engine

import (
	"errors"
	"fmt"
)

// Defaults used when a Config leaves a field at zero.
const (
	DefaultBoardSize = 4
	DefaultMaxUndo   = 3
	DefaultMaxHint   = 3

	MinBoardSize = 2
	MaxBoardSize = 16
)

var (
	// ErrInvalidSize is returned when the board dimension is outside
	// [MinBoardSize, MaxBoardSize].
	ErrInvalidSize = errors.New("engine: board size out of range")
	// ErrInvalidFinalLevel is returned when the winning level is not a power
	// of two or is below a value the spawn table can place.
	ErrInvalidFinalLevel = errors.New("engine: invalid final level")
)

// Config parameterizes a session.
type Config struct {
	Size       int
	Difficulty Difficulty
	Mode       string
	// FinalLevel is the level that wins the game. Zero or less disables winning.
	FinalLevel int
	MaxUndo    int
	MaxHint    int
	// Spawn overrides DefaultSpawnTables per difficulty.
	Spawn map[Difficulty]SpawnTable
}

// spawnTable resolves the distribution for d.
func (c Config) spawnTable(d Difficulty) (SpawnTable, error) {
	table, ok := c.Spawn[d]
	if !ok {
		table, ok = DefaultSpawnTables[d]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if c.FinalLevel > 0 && table.MaxValue() > c.FinalLevel {
		return nil, fmt.Errorf("%w: %s spawns %d above final level %d",
			ErrInvalidFinalLevel, d, table.MaxValue(), c.FinalLevel)
	}
	return table, nil
}

// State is a read-only snapshot of a session.
type State struct {
	Board         Board
	Score         int
	Moves         int
	HighestLevel  int
	RemainingUndo int
	RemainingHint int
	Over          bool
	Won           bool
	// HintDirection is valid only when HasHint is true.
	HintDirection Direction
	HasHint       bool
	// Unlocked is the new highest level when the last move raised it, else 0.
	Unlocked int
}

// Terminal reports whether moves are no longer accepted.
func (s State) Terminal() bool {
	return s.Over || s.Won
}

// Record carries what a leaderboard entry needs from a finished session.
type Record struct {
	Mode         string
	Difficulty   Difficulty
	Score        int
	Moves        int
	HighestLevel int
	Won          bool
	Fingerprint  uint64
}

// Session owns the mutable state of one playthrough.
// It is not safe for concurrent use; callers serialize access.
type Session struct {
	cfg    Config
	table  SpawnTable
	seeder Seeder
	src    Source

	board    Board
	score    int
	moves    int
	highest  int
	over     bool
	won      bool
	undoLeft int
	hintLeft int
	hint     Direction
	hasHint  bool
	unlocked int
	history  *history
}

// New validates cfg and starts a session with two spawned tokens.
// A nil seeder draws from the system entropy pool.
func New(cfg Config, seeder Seeder) (*Session, error) {
	if cfg.Size == 0 {
		cfg.Size = DefaultBoardSize
	}
	if cfg.Size < MinBoardSize || cfg.Size > MaxBoardSize {
		return nil, fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidSize, cfg.Size, MinBoardSize, MaxBoardSize)
	}
	if cfg.FinalLevel > 0 && !isPowerOfTwo(cfg.FinalLevel) {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrInvalidFinalLevel, cfg.FinalLevel)
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = DifficultyNormal
	}
	if cfg.MaxUndo < 0 || cfg.MaxHint < 0 {
		return nil, errors.New("engine: undo and hint budgets cannot be negative")
	}
	table, err := cfg.spawnTable(cfg.Difficulty)
	if err != nil {
		return nil, err
	}
	if seeder == nil {
		seeder = EntropySeeder()
	}

	s := &Session{
		cfg:     cfg,
		table:   table,
		seeder:  seeder,
		history: newHistory(cfg.MaxUndo),
	}
	s.Reset()
	return s, nil
}

// Config returns the configuration the session was built with.
func (s *Session) Config() Config {
	return s.cfg
}

// Reset discards all state and starts over with two spawned tokens.
func (s *Session) Reset() State {
	s.src = s.seeder()
	s.board = NewBoard(s.cfg.Size)
	spawnTile(s.board, s.table, s.src)
	spawnTile(s.board, s.table, s.src)

	s.score = 0
	s.moves = 0
	s.highest = s.board.MaxTile()
	s.over = false
	s.won = s.reachedFinal()
	s.undoLeft = s.cfg.MaxUndo
	s.hintLeft = s.cfg.MaxHint
	s.hasHint = false
	s.unlocked = 0
	s.history.clear()
	return s.State()
}

// SetDifficulty switches the spawn distribution and starts a fresh session.
func (s *Session) SetDifficulty(d Difficulty) (State, error) {
	table, err := s.cfg.spawnTable(d)
	if err != nil {
		return s.State(), err
	}
	s.cfg.Difficulty = d
	s.table = table
	return s.Reset(), nil
}

// Move applies dir. Terminal sessions and blocked moves are no-ops.
func (s *Session) Move(dir Direction) (State, error) {
	if !dir.Valid() {
		return s.State(), fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	if s.over || s.won {
		return s.State(), nil
	}

	res := Transform(s.board, dir)
	if !res.Moved {
		return s.State(), nil
	}

	s.history.push(snapshot{
		board:   s.board,
		score:   s.score,
		moves:   s.moves,
		highest: s.highest,
		over:    s.over,
		won:     s.won,
	})

	s.board = res.Board
	spawnTile(s.board, s.table, s.src)
	s.moves++
	s.score += res.Gained

	prev := s.highest
	s.highest = max(s.highest, s.board.MaxTile())
	s.unlocked = 0
	if s.highest > prev {
		s.unlocked = s.highest
	}

	s.won = s.won || s.reachedFinal()
	s.over = !s.won && s.board.IsStuck()
	s.hasHint = false
	return s.State(), nil
}

// Undo restores the snapshot taken before the most recent accepted move.
// It is a no-op with empty history or an exhausted budget.
func (s *Session) Undo() State {
	if s.undoLeft <= 0 {
		return s.State()
	}
	snap, ok := s.history.pop()
	if !ok {
		return s.State()
	}

	s.board = snap.board
	s.score = snap.score
	s.moves = snap.moves
	s.highest = snap.highest
	s.over = snap.over
	s.won = snap.won
	s.undoLeft--
	s.hasHint = false
	s.unlocked = 0
	return s.State()
}

// Hint suggests the direction with the greatest immediate gain without
// mutating the board. Budget is consumed only when a suggestion is returned.
func (s *Session) Hint() (Direction, bool) {
	if s.hintLeft <= 0 || s.over {
		return 0, false
	}

	best, ok := BestDirection(s.board)
	if !ok {
		return 0, false
	}

	s.hintLeft--
	s.hint = best
	s.hasHint = true
	return best, true
}

// BestDirection probes every direction on b and returns the one with the
// largest gain. Ties keep the earlier direction in Directions.
func BestDirection(b Board) (Direction, bool) {
	var best Direction
	bestGain := -1
	for _, d := range Directions {
		res := Transform(b, d)
		if !res.Moved {
			continue
		}
		if res.Gained > bestGain {
			bestGain = res.Gained
			best = d
		}
	}
	return best, bestGain >= 0
}

// End forces the session into its terminal state, e.g. when a time or move
// limit owned by the caller runs out. A won session stays won.
func (s *Session) End() State {
	if !s.won {
		s.over = true
	}
	s.hasHint = false
	return s.State()
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	return State{
		Board:         s.board.Clone(),
		Score:         s.score,
		Moves:         s.moves,
		HighestLevel:  s.highest,
		RemainingUndo: s.undoLeft,
		RemainingHint: s.hintLeft,
		Over:          s.over,
		Won:           s.won,
		HintDirection: s.hint,
		HasHint:       s.hasHint,
		Unlocked:      s.unlocked,
	}
}

// Record summarizes the session for a leaderboard entry.
func (s *Session) Record() Record {
	return Record{
		Mode:         s.cfg.Mode,
		Difficulty:   s.cfg.Difficulty,
		Score:        s.score,
		Moves:        s.moves,
		HighestLevel: s.highest,
		Won:          s.won,
		Fingerprint:  s.Fingerprint(),
	}
}

func (s *Session) reachedFinal() bool {
	return s.cfg.FinalLevel > 0 && s.highest >= s.cfg.FinalLevel
}
