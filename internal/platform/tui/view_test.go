package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/xyh-wiki/animal-merge/internal/core"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
)

func testBoard() engine.Board {
	return engine.Board{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 256, 0},
		{0, 0, 0, 0},
	}
}

func renderView(v BoardView, w, h int) string {
	screen := core.NewScreen(w, h)
	v.Render(screen)
	return screen.String()
}

func classicMode(t *testing.T) modes.Mode {
	t.Helper()
	m, err := modes.Lookup(modes.Classic)
	if err != nil {
		t.Fatalf("Lookup(classic) failed: %v", err)
	}
	return m
}

func TestBoardViewRendersTiles(t *testing.T) {
	v := BoardView{
		State: engine.State{
			Board:         testBoard(),
			Score:         128,
			Moves:         7,
			HighestLevel:  256,
			RemainingUndo: 2,
			RemainingHint: 1,
		},
		Mode:       classicMode(t),
		Difficulty: engine.DifficultyNormal,
		Best:       900,
		MovesLeft:  -1,
		TimeLeft:   -1,
	}

	out := renderView(v, 80, 30)
	for _, want := range []string{
		"A N I M A L   M E R G E",
		"Classic · normal",
		"Score 128   Best 900   Moves 7",
		"Top Panda",
		"Undo 2",
		"Hint 1",
		"Mouse",
		"Cat",
		"Panda",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(out, "Left ") || strings.Contains(out, "Time ") {
		t.Error("unlimited mode should not show limits")
	}
}

func TestBoardViewTooSmall(t *testing.T) {
	v := BoardView{State: engine.State{Board: testBoard()}, MovesLeft: -1, TimeLeft: -1}

	if v.Fits(20, 10) {
		t.Error("20x10 should not fit a 4x4 board")
	}
	out := renderView(v, 30, 10)
	if !strings.Contains(out, "Window too small") {
		t.Error("expected too-small notice")
	}
}

func TestBoardViewFooter(t *testing.T) {
	base := engine.State{Board: testBoard(), HighestLevel: 256}

	tests := []struct {
		name  string
		state func(engine.State) engine.State
		msg   string
		want  string
	}{
		{"unlock", func(s engine.State) engine.State { s.Unlocked = 256; return s }, "", "New animal: Panda!"},
		{"legendary", func(s engine.State) engine.State { s.Unlocked = 2048; return s }, "", "Legendary Dragon unlocked!"},
		{"hint", func(s engine.State) engine.State { s.HasHint, s.HintDirection = true, engine.DirLeft; return s }, "", "Hint: try ← left"},
		{"message wins", func(s engine.State) engine.State { s.Unlocked = 256; return s }, "No undos left", "No undos left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := BoardView{State: tt.state(base), Message: tt.msg, MovesLeft: -1, TimeLeft: -1}
			if out := renderView(v, 80, 30); !strings.Contains(out, tt.want) {
				t.Errorf("footer missing %q", tt.want)
			}
		})
	}
}

func TestBoardViewOverlays(t *testing.T) {
	tests := []struct {
		name      string
		state     engine.State
		movesLeft int
		timeLeft  time.Duration
		want      string
	}{
		{"win", engine.State{Won: true, HighestLevel: 4096}, -1, -1, "YOU WIN!"},
		{"stuck", engine.State{Over: true}, -1, -1, "GAME OVER"},
		{"move limit", engine.State{Over: true}, 0, -1, "OUT OF MOVES"},
		{"clock", engine.State{Over: true}, -1, 0, "TIME UP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.state
			st.Board = testBoard()
			v := BoardView{State: st, MovesLeft: tt.movesLeft, TimeLeft: tt.timeLeft}
			if out := renderView(v, 80, 30); !strings.Contains(out, tt.want) {
				t.Errorf("overlay missing %q", tt.want)
			}
		})
	}
}

func TestBoardViewShowsLimitsAndDate(t *testing.T) {
	v := BoardView{
		State:     engine.State{Board: testBoard()},
		Mode:      modes.Mode{Key: "daily", Label: "Daily", Daily: true},
		DateKey:   "2025-11-24",
		MovesLeft: 12,
		TimeLeft:  61 * time.Second,
	}

	out := renderView(v, 80, 30)
	for _, want := range []string{"2025-11-24", "Left 12", "Time 1:01"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{500 * time.Millisecond, "0:01"},
		{59 * time.Second, "0:59"},
		{60 * time.Second, "1:00"},
		{90*time.Second + time.Millisecond, "1:31"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTileLabelTruncates(t *testing.T) {
	if got := tileLabel(4096, 4); got != "Unic" {
		t.Errorf("tileLabel(4096, 4) = %q", got)
	}
	if got := tileLabel(3, 7); got != "?" {
		t.Errorf("tileLabel(3, 7) = %q", got)
	}
}
