package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/core"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/storage"
)

// fakeClock is a settable clock for Env.Now.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func testEnv(t *testing.T, store *storage.Store, clock *fakeClock) Env {
	t.Helper()
	return Env{
		Config:  config.DefaultGameConfig(),
		Store:   store,
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 7},
		Now:     clock.Now,
	}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func press(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm
}

var moveKeys = []string{"w", "a", "s", "d"}

// playUntilTerminal cycles through the slide keys until the game stops.
func playUntilTerminal(t *testing.T, m GameModel) GameModel {
	t.Helper()
	for i := range 2000 {
		if m.State().Terminal() {
			return m
		}
		m = press(t, m, runeKey(moveKeys[i%len(moveKeys)]))
	}
	t.Fatal("game never reached a terminal state")
	return m
}

func TestGameModelMoveLimitSavesRecord(t *testing.T) {
	store := openStore(t)
	clock := &fakeClock{now: time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)}
	mode := modes.Mode{Key: "moves20", Label: "20 Moves", BoardSize: 4, MoveLimit: 20}

	m, err := NewGameModel(testEnv(t, store, clock), mode, engine.DifficultyNormal)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}
	if m.Init() != nil {
		t.Error("untimed modes should not tick")
	}

	m = playUntilTerminal(t, m)
	st := m.State()
	if st.Moves > mode.MoveLimit {
		t.Errorf("Moves = %d, limit %d", st.Moves, mode.MoveLimit)
	}

	entries, err := store.TopRecords("moves20", 10)
	if err != nil {
		t.Fatalf("TopRecords() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(entries))
	}
	if entries[0].Score != st.Score || entries[0].Moves != st.Moves {
		t.Errorf("saved (%d, %d), want (%d, %d)", entries[0].Score, entries[0].Moves, st.Score, st.Moves)
	}
	if entries[0].DateKey != "2025-11-24" {
		t.Errorf("DateKey = %q", entries[0].DateKey)
	}

	// Further keys on a finished game must not save it again.
	m = press(t, m, runeKey("a"))
	m = press(t, m, runeKey("i"))
	entries, _ = store.TopRecords("moves20", 10)
	if len(entries) != 1 {
		t.Errorf("finished game saved %d times", len(entries))
	}

	if st.Moves == mode.MoveLimit {
		screen := core.NewScreen(80, 30)
		m.ViewModel().Render(screen)
		if !strings.Contains(screen.String(), "OUT OF MOVES") {
			t.Error("expected move-limit overlay")
		}
	}
}

func TestGameModelRushClock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)}
	mode := modes.Mode{Key: "rush10", Label: "10s Rush", BoardSize: 4, TimeLimit: 10 * time.Second}

	m, err := NewGameModel(testEnv(t, nil, clock), mode, engine.DifficultyNormal)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}
	if m.Init() == nil {
		t.Error("timed modes should tick")
	}

	clock.now = clock.now.Add(4 * time.Second)
	next, cmd := m.Update(TickMsg(clock.now))
	m = next.(GameModel)
	if m.State().Terminal() {
		t.Fatal("game ended before the clock ran out")
	}
	if cmd == nil {
		t.Error("clock should keep ticking")
	}
	if got := m.ViewModel().TimeLeft; got != 6*time.Second {
		t.Errorf("TimeLeft = %v, want 6s", got)
	}

	clock.now = clock.now.Add(7 * time.Second)
	next, cmd = m.Update(TickMsg(clock.now))
	m = next.(GameModel)
	if !m.State().Over {
		t.Fatal("expected the game to be over when time is up")
	}
	if cmd != nil {
		t.Error("clock should stop once the game is over")
	}

	screen := core.NewScreen(80, 30)
	m.ViewModel().Render(screen)
	if !strings.Contains(screen.String(), "TIME UP") {
		t.Error("expected time-up overlay")
	}

	moves := m.State().Moves
	m = press(t, m, runeKey("a"))
	m = press(t, m, runeKey("d"))
	if m.State().Moves != moves {
		t.Error("moves accepted after time ran out")
	}

	m = press(t, m, runeKey("u"))
	if m.message != "Time is up" || !m.State().Over {
		t.Errorf("undo after time up: message %q, over %v", m.message, m.State().Over)
	}
}

func TestGameModelUndoResumesClock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)}
	mode := modes.Mode{Key: "rush1h", Label: "1h Rush", BoardSize: 4, TimeLimit: time.Hour}

	m, err := NewGameModel(testEnv(t, nil, clock), mode, engine.DifficultyNormal)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}

	m = playUntilTerminal(t, m)
	if !m.State().Over {
		t.Fatalf("expected a stuck board, got %+v", m.State())
	}

	clock.now = clock.now.Add(time.Second)
	next, cmd := m.Update(TickMsg(clock.now))
	m = next.(GameModel)
	if cmd != nil {
		t.Fatal("clock should stop on a stuck board")
	}

	next, cmd = m.Update(runeKey("u"))
	m = next.(GameModel)
	if m.State().Terminal() {
		t.Fatal("undo should bring the game back")
	}
	if cmd == nil {
		t.Fatal("undo should restart the clock")
	}

	clock.now = clock.now.Add(time.Second)
	_, cmd = m.Update(TickMsg(clock.now))
	if cmd == nil {
		t.Error("clock should keep ticking after undo")
	}
}

func TestGameModelUndoAndHintMessages(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	env := testEnv(t, nil, clock)
	env.Config.Budgets.Undo = 1

	m, err := NewGameModel(env, classicMode(t), engine.DifficultyEasy)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}

	m = press(t, m, runeKey("u"))
	if m.message != "Nothing to undo" {
		t.Errorf("message = %q", m.message)
	}

	for _, k := range moveKeys {
		m = press(t, m, runeKey(k))
		if m.State().Moves > 0 {
			break
		}
	}
	if m.State().Moves == 0 {
		t.Fatal("no move was accepted")
	}

	m = press(t, m, runeKey("u"))
	if m.State().Moves != 0 || m.State().RemainingUndo != 0 {
		t.Errorf("undo did not restore: %+v", m.State())
	}

	m = press(t, m, runeKey("d"))
	m = press(t, m, runeKey("a"))
	m = press(t, m, runeKey("u"))
	if m.message != "No undos left" && m.State().Moves > 0 {
		t.Errorf("message = %q", m.message)
	}

	m = press(t, m, runeKey("i"))
	st := m.State()
	if !st.HasHint && st.RemainingHint == env.Config.Budgets.Hint {
		t.Error("hint neither shown nor explained")
	}
}

func TestGameModelRestartAndBack(t *testing.T) {
	store := openStore(t)
	clock := &fakeClock{now: time.Now()}

	m, err := NewGameModel(testEnv(t, store, clock), classicMode(t), engine.DifficultyNormal)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}

	for i := range 40 {
		m = press(t, m, runeKey(moveKeys[i%len(moveKeys)]))
	}
	played := m.State()

	m = press(t, m, runeKey("r"))
	if m.State().Moves != 0 || m.State().Score != 0 {
		t.Errorf("restart did not reset: %+v", m.State())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || m.IsQuitting() {
		t.Error("esc should return to the menu")
	}

	entries, err := store.TopRecords(modes.Classic, 10)
	if err != nil {
		t.Fatalf("TopRecords() failed: %v", err)
	}
	if played.Score > 0 && (len(entries) != 1 || entries[0].Score != played.Score) {
		t.Errorf("abandoned game not recorded once: %+v", entries)
	}
}

func TestGameModelQuit(t *testing.T) {
	m, err := NewGameModel(testEnv(t, nil, &fakeClock{now: time.Now()}), classicMode(t), "")
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}
	if m.difficulty != engine.DifficultyNormal {
		t.Errorf("default difficulty = %q", m.difficulty)
	}

	next, cmd := m.Update(runeKey("q"))
	if !next.(GameModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if next.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestMenuNavigation(t *testing.T) {
	env := testEnv(t, nil, &fakeClock{now: time.Now()})
	m := NewMenuModel(env, engine.DifficultyNormal)

	step := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	step(tea.KeyMsg{Type: tea.KeyUp})
	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyRight})
	if m.Difficulty() != engine.DifficultyHard {
		t.Errorf("Difficulty = %q, want hard", m.Difficulty())
	}
	step(tea.KeyMsg{Type: tea.KeyRight})
	if m.Difficulty() != engine.DifficultyEasy {
		t.Errorf("difficulty should wrap to easy, got %q", m.Difficulty())
	}

	if !strings.Contains(m.View(), "Endless") {
		t.Error("menu should list the endless mode")
	}

	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() == nil || m.Selected().Key != modes.List()[1].Key {
		t.Errorf("Selected() = %+v", m.Selected())
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	env := testEnv(t, nil, &fakeClock{now: time.Now()})

	next, _ := NewMenuModel(env, engine.DifficultyEasy).Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}

	next, _ = NewMenuModel(env, engine.DifficultyEasy).Update(runeKey("q"))
	if !next.(MenuModel).IsQuitting() {
		t.Error("q should quit the menu")
	}
}

func TestScoreboardModes(t *testing.T) {
	store := openStore(t)
	clock := &fakeClock{now: time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)}

	for _, r := range []storage.Record{
		{Mode: modes.Classic, Score: 300, Moves: 40},
		{Mode: modes.Classic, Score: 900, Moves: 80},
		{Mode: modes.Daily, Score: 50, Moves: 9, DateKey: "2025-11-24"},
		{Mode: modes.Daily, Score: 70, Moves: 9, DateKey: "2025-11-23"},
	} {
		if _, err := store.SaveRecord(r); err != nil {
			t.Fatalf("SaveRecord() failed: %v", err)
		}
	}

	m := NewScoreboardModel(testEnv(t, store, clock))
	if m.Title() != "LEADERBOARD - Classic" {
		t.Errorf("Title() = %q", m.Title())
	}
	if got := m.Entries(); len(got) != 2 || got[0].Score != 900 {
		t.Errorf("classic entries = %+v", got)
	}

	for range len(modes.List()) - 1 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
		m = next.(ScoreboardModel)
		if m.currentMode().Daily {
			break
		}
	}
	if !m.currentMode().Daily {
		t.Fatal("daily tab not reached")
	}
	if !strings.Contains(m.Title(), "2025-11-24") {
		t.Errorf("Title() = %q", m.Title())
	}
	if got := m.Entries(); len(got) != 1 || got[0].Score != 50 {
		t.Errorf("daily entries = %+v", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestSessionModelFlow(t *testing.T) {
	env := testEnv(t, openStore(t), &fakeClock{now: time.Now()})
	var m tea.Model = NewSessionModel(env, engine.DifficultyNormal)

	send := func(msg tea.Msg) {
		m, _ = m.Update(msg)
	}

	send(tea.KeyMsg{Type: tea.KeyEnter})
	if sm := m.(SessionModel); sm.gameModel == nil {
		t.Fatal("enter should start a game")
	}
	if !strings.Contains(m.View(), "A N I M A L") {
		t.Error("game view missing title")
	}

	send(runeKey("b"))
	if sm := m.(SessionModel); sm.gameModel != nil {
		t.Fatal("back should return to the menu")
	}

	send(tea.KeyMsg{Type: tea.KeyTab})
	if sm := m.(SessionModel); sm.scoreboard == nil {
		t.Fatal("tab should open the scoreboard")
	}

	send(tea.KeyMsg{Type: tea.KeyEsc})
	if sm := m.(SessionModel); sm.scoreboard != nil {
		t.Fatal("esc should close the scoreboard")
	}

	send(runeKey("q"))
	if !m.(SessionModel).quitting || m.View() != "" {
		t.Error("q should end the session")
	}
}
