package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xyh-wiki/animal-merge/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, store *Store, r Record) {
	t.Helper()
	if _, err := store.SaveRecord(r); err != nil {
		t.Fatalf("SaveRecord() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	played := time.Date(2025, 11, 24, 12, 30, 0, 0, time.UTC)

	id, err := store.SaveRecord(Record{
		Mode:         "classic",
		Difficulty:   "hard",
		Score:        1234,
		Moves:        210,
		HighestLevel: 256,
		Won:          false,
		Fingerprint:  0xfedcba9876543210,
		CreatedAt:    played,
	})
	if err != nil {
		t.Fatalf("SaveRecord() failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected non-zero ID")
	}

	entries, err := store.TopRecords("classic", 10)
	if err != nil {
		t.Fatalf("TopRecords() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	got := entries[0]
	if got.Rank != 1 || got.Score != 1234 || got.Moves != 210 {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.HighestAnimal != "Panda" {
		t.Errorf("HighestAnimal = %q, want Panda", got.HighestAnimal)
	}
	if got.DateKey != "2025-11-24" {
		t.Errorf("DateKey = %q, want 2025-11-24", got.DateKey)
	}
	if got.Fingerprint != 0xfedcba9876543210 {
		t.Errorf("Fingerprint = %x", got.Fingerprint)
	}
	if !got.CreatedAt.Equal(played) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, played)
	}
}

func TestStoreRejectsRecordWithoutMode(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRecord(Record{Score: 10}); err == nil {
		t.Error("SaveRecord() should fail without a mode")
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, Record{Mode: "classic", Score: 500, Moves: 90})
	mustSave(t, store, Record{Mode: "classic", Score: 800, Moves: 120})
	mustSave(t, store, Record{Mode: "classic", Score: 500, Moves: 60})
	mustSave(t, store, Record{Mode: "endless", Score: 9000, Moves: 900})

	entries, err := store.TopRecords("classic", 10)
	if err != nil {
		t.Fatalf("TopRecords() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	want := []struct{ score, moves int }{{800, 120}, {500, 60}, {500, 90}}
	for i, w := range want {
		if entries[i].Score != w.score || entries[i].Moves != w.moves {
			t.Errorf("entry %d = (%d, %d), want (%d, %d)",
				i, entries[i].Score, entries[i].Moves, w.score, w.moves)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("entry %d rank = %d", i, entries[i].Rank)
		}
	}
}

func TestStoreTopRecordsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 15 {
		mustSave(t, store, Record{Mode: "classic", Score: i * 10, Moves: i})
	}

	entries, err := store.TopRecords("classic", 5)
	if err != nil {
		t.Fatalf("TopRecords() failed: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("Expected 5 entries, got %d", len(entries))
	}
	if entries[0].Score != 140 {
		t.Errorf("Expected top score 140, got %d", entries[0].Score)
	}

	entries, err = store.TopRecords("classic", 0)
	if err != nil {
		t.Fatalf("TopRecords() failed: %v", err)
	}
	if len(entries) != DefaultLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultLimit, len(entries))
	}
}

func TestDailyTopFiltersByDate(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, Record{Mode: "daily", Score: 300, Moves: 40, DateKey: "2025-11-24"})
	mustSave(t, store, Record{Mode: "daily", Score: 700, Moves: 80, DateKey: "2025-11-24"})
	mustSave(t, store, Record{Mode: "daily", Score: 900, Moves: 70, DateKey: "2025-11-23"})
	mustSave(t, store, Record{Mode: "classic", Score: 5000, Moves: 400, DateKey: "2025-11-24"})

	entries, err := store.DailyTop("2025-11-24", 10)
	if err != nil {
		t.Fatalf("DailyTop() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 daily entries, got %d", len(entries))
	}
	if entries[0].Score != 700 || entries[1].Score != 300 {
		t.Errorf("unexpected order: %d, %d", entries[0].Score, entries[1].Score)
	}

	none, err := store.DailyTop("2024-01-01", 10)
	if err != nil {
		t.Fatalf("DailyTop() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no entries, got %d", len(none))
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore("classic")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for empty store, got %d", best)
	}

	mustSave(t, store, Record{Mode: "classic", Score: 100})
	mustSave(t, store, Record{Mode: "classic", Score: 300})
	mustSave(t, store, Record{Mode: "rush60", Score: 900})

	best, err = store.BestScore("classic")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 300 {
		t.Errorf("Expected 300, got %d", best)
	}
}

func TestStoreClearRecords(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, Record{Mode: "classic", Score: 100})
	mustSave(t, store, Record{Mode: "endless", Score: 200})

	if err := store.ClearRecords("classic"); err != nil {
		t.Fatalf("ClearRecords() failed: %v", err)
	}

	classic, _ := store.TopRecords("classic", 10)
	if len(classic) != 0 {
		t.Errorf("Expected 0 classic records after clear, got %d", len(classic))
	}
	endless, _ := store.TopRecords("endless", 10)
	if len(endless) != 1 {
		t.Errorf("Expected endless records untouched, got %d", len(endless))
	}
}

func TestModeStats(t *testing.T) {
	store := openTestStore(t)
	last := time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC)

	mustSave(t, store, Record{Mode: "classic", Score: 100, HighestLevel: 64, CreatedAt: last.Add(-time.Hour)})
	mustSave(t, store, Record{Mode: "classic", Score: 300, HighestLevel: 4096, Won: true, CreatedAt: last})
	mustSave(t, store, Record{Mode: "moves50", Score: 50, HighestLevel: 16})

	stats, err := store.GetModeStats("classic")
	if err != nil {
		t.Fatalf("GetModeStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.BestScore != 300 || stats.TotalScore != 400 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.HighestLevel != 4096 || stats.Wins != 1 {
		t.Errorf("HighestLevel = %d, Wins = %d", stats.HighestLevel, stats.Wins)
	}
	if !stats.LastPlayed.Equal(last) {
		t.Errorf("LastPlayed = %v, want %v", stats.LastPlayed, last)
	}

	empty, err := store.GetModeStats("daily")
	if err != nil {
		t.Fatalf("GetModeStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected empty stats %+v", empty)
	}

	all, err := store.GetAllModeStats()
	if err != nil {
		t.Fatalf("GetAllModeStats() failed: %v", err)
	}
	if len(all) != 2 || all["moves50"].BestScore != 50 {
		t.Errorf("unexpected all-mode stats: %d modes", len(all))
	}
}

func TestNewRecordFromSession(t *testing.T) {
	now := time.Date(2025, 11, 24, 23, 59, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	r := NewRecord(engine.Record{
		Mode:         "daily",
		Difficulty:   engine.DifficultyEasy,
		Score:        64,
		Moves:        12,
		HighestLevel: 2048,
		Won:          true,
		Fingerprint:  42,
	}, now)

	if r.DateKey != "2025-11-25" {
		t.Errorf("DateKey = %q, want UTC date 2025-11-25", r.DateKey)
	}
	if r.HighestAnimal != "Dragon" || r.Difficulty != "easy" {
		t.Errorf("unexpected record %+v", r)
	}

	store := openTestStore(t)
	mustSave(t, store, r)
	recent, err := store.RecentRecords(5)
	if err != nil {
		t.Fatalf("RecentRecords() failed: %v", err)
	}
	if len(recent) != 1 || !recent[0].Won || recent[0].Fingerprint != 42 {
		t.Errorf("unexpected recent records %+v", recent)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
