// Package storage provides SQLite-based persistence for finished games and
// the leaderboards built from them.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

// DefaultLimit is the leaderboard length when callers pass zero.
const DefaultLimit = 10

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for record persistence.
type Store struct {
	db *sql.DB
}

// Record is one finished game.
type Record struct {
	ID            int64
	Mode          string
	Difficulty    string
	Score         int
	Moves         int
	HighestLevel  int
	HighestAnimal string
	Won           bool
	DateKey       string // YYYY-MM-DD (UTC) the game was played
	Fingerprint   uint64
	CreatedAt     time.Time
}

// LeaderboardEntry is a ranked record.
type LeaderboardEntry struct {
	Rank int
	Record
}

// NewRecord converts an engine summary into a storable record played at now.
func NewRecord(r engine.Record, now time.Time) Record {
	return Record{
		Mode:          r.Mode,
		Difficulty:    string(r.Difficulty),
		Score:         r.Score,
		Moves:         r.Moves,
		HighestLevel:  r.HighestLevel,
		HighestAnimal: tiers.NameFor(r.HighestLevel),
		Won:           r.Won,
		DateKey:       engine.DateKey(now),
		Fingerprint:   r.Fingerprint,
		CreatedAt:     now.UTC(),
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			highest_level INTEGER NOT NULL DEFAULT 0,
			highest_animal TEXT NOT NULL DEFAULT '',
			won INTEGER NOT NULL DEFAULT 0,
			date_key TEXT NOT NULL,
			fingerprint TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_top ON records(mode, score DESC, moves ASC);
		CREATE INDEX IF NOT EXISTS idx_records_daily ON records(mode, date_key, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRecord stores a finished game and returns its ID.
// A zero CreatedAt is stamped with the current time and an empty DateKey is
// derived from CreatedAt.
func (s *Store) SaveRecord(r Record) (int64, error) {
	if r.Mode == "" {
		return 0, errors.New("storage: record has no mode")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.DateKey == "" {
		r.DateKey = engine.DateKey(r.CreatedAt)
	}
	if r.HighestAnimal == "" {
		r.HighestAnimal = tiers.NameFor(r.HighestLevel)
	}

	result, err := s.db.Exec(
		`INSERT INTO records
		 (mode, difficulty, score, moves, highest_level, highest_animal, won, date_key, fingerprint, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Mode,
		r.Difficulty,
		r.Score,
		r.Moves,
		r.HighestLevel,
		r.HighestAnimal,
		r.Won,
		r.DateKey,
		strconv.FormatUint(r.Fingerprint, 16),
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const recordColumns = `id, mode, difficulty, score, moves, highest_level, highest_animal,
	won, date_key, fingerprint, created_at`

// TopRecords returns the best records for mode: score descending, fewer
// moves first on equal score.
func (s *Store) TopRecords(mode string, limit int) ([]LeaderboardEntry, error) {
	return s.leaderboard(
		`SELECT `+recordColumns+`
		 FROM records
		 WHERE mode = ?
		 ORDER BY score DESC, moves ASC, id ASC
		 LIMIT ?`,
		mode, normalizeLimit(limit),
	)
}

// DailyTop returns the daily-mode leaderboard for one date key.
func (s *Store) DailyTop(dateKey string, limit int) ([]LeaderboardEntry, error) {
	return s.leaderboard(
		`SELECT `+recordColumns+`
		 FROM records
		 WHERE mode = 'daily' AND date_key = ?
		 ORDER BY score DESC, moves ASC, id ASC
		 LIMIT ?`,
		dateKey, normalizeLimit(limit),
	)
}

// RecentRecords returns the latest records across all modes.
func (s *Store) RecentRecords(limit int) ([]Record, error) {
	entries, err := s.leaderboard(
		`SELECT `+recordColumns+`
		 FROM records
		 ORDER BY id DESC
		 LIMIT ?`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}
	return records, nil
}

func (s *Store) leaderboard(query string, args ...any) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{Rank: len(entries) + 1, Record: r})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var r Record
	var fingerprint string
	var createdAt any
	if err := rows.Scan(
		&r.ID,
		&r.Mode,
		&r.Difficulty,
		&r.Score,
		&r.Moves,
		&r.HighestLevel,
		&r.HighestAnimal,
		&r.Won,
		&r.DateKey,
		&fingerprint,
		&createdAt,
	); err != nil {
		return Record{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	if fingerprint != "" {
		fp, err := strconv.ParseUint(fingerprint, 16, 64)
		if err != nil {
			return Record{}, fmt.Errorf("storage: bad fingerprint %q: %w", fingerprint, err)
		}
		r.Fingerprint = fp
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse(timeLayout, string(v)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, 100)
}

// BestScore returns the highest score for the given mode.
// Returns 0 if no records exist.
func (s *Store) BestScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM records WHERE mode = ?",
		mode,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRecords deletes all records for the given mode.
func (s *Store) ClearRecords(mode string) error {
	_, err := s.db.Exec("DELETE FROM records WHERE mode = ?", mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear records: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	Mode         string
	GamesCount   int
	BestScore    int
	AvgScore     float64
	TotalScore   int64
	HighestLevel int
	Wins         int
	LastPlayed   time.Time
}

// GetModeStats retrieves aggregated statistics for a specific mode.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}

	var lastPlayed sql.NullString
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(MAX(highest_level), 0), COALESCE(SUM(won), 0), MAX(created_at)
		 FROM records WHERE mode = ?`,
		mode,
	).Scan(&stats.GamesCount, &stats.BestScore, &stats.AvgScore, &stats.TotalScore,
		&stats.HighestLevel, &stats.Wins, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}

	return stats, nil
}

// GetAllModeStats retrieves statistics for every mode that has been played.
func (s *Store) GetAllModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(highest_level), SUM(won), MAX(created_at)
		 FROM records
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var ms ModeStats
		var lastPlayed sql.NullString
		if err := rows.Scan(&ms.Mode, &ms.GamesCount, &ms.BestScore, &ms.AvgScore, &ms.TotalScore,
			&ms.HighestLevel, &ms.Wins, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		if lastPlayed.Valid {
			ms.LastPlayed = parseTime(lastPlayed.String)
		}
		stats[ms.Mode] = &ms
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
