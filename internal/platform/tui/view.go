package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xyh-wiki/animal-merge/internal/core"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

const (
	cellWidth  = 8 // Width of each cell (including left border)
	cellHeight = 3 // Height of each cell (including top border)
	hudHeight  = 4
	footHeight = 2
)

// BoardView is everything the game screen shows.
type BoardView struct {
	State      engine.State
	Mode       modes.Mode
	Difficulty engine.Difficulty
	Best       int
	MovesLeft  int           // -1 when the mode has no move limit
	TimeLeft   time.Duration // -1 when the mode has no clock
	DateKey    string        // daily mode only
	Message    string
}

// gridSize returns the outer width and height of an n x n grid.
func gridSize(n int) (int, int) {
	return n*cellWidth + 1, n*cellHeight + 1
}

// Fits reports whether the view can be drawn on a w x h screen.
func (v BoardView) Fits(w, h int) bool {
	gw, gh := gridSize(v.State.Board.Size())
	return w >= max(gw, core.MinScreenW) && h >= hudHeight+gh+footHeight
}

// Render draws the view to dst.
func (v BoardView) Render(dst *core.Screen) {
	dst.Clear()

	if !v.Fits(dst.Width(), dst.Height()) {
		y := dst.Height() / 2
		dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
		dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
		return
	}

	n := v.State.Board.Size()
	gw, gh := gridSize(n)
	boardX := (dst.Width() - gw) / 2
	boardY := hudHeight

	v.renderHUD(dst)
	v.renderGrid(dst, boardX, boardY, n)
	v.renderFooter(dst, boardY+gh)
	v.renderOverlay(dst, core.NewRect(boardX, boardY, gw, gh))
}

func (v BoardView) renderHUD(dst *core.Screen) {
	title := "A N I M A L   M E R G E"
	dst.DrawTextCentered(0, title, core.ColorGold)

	mode := fmt.Sprintf("%s · %s", v.Mode.Label, v.Difficulty)
	if v.Mode.Daily && v.DateKey != "" {
		mode += " · " + v.DateKey
	}
	dst.DrawTextCentered(1, mode, core.ColorGray)

	stats := fmt.Sprintf("Score %d   Best %d   Moves %d", v.State.Score, max(v.Best, v.State.Score), v.State.Moves)
	dst.DrawTextCentered(2, stats, core.ColorDefault)

	parts := []string{
		"Top " + tiers.NameFor(v.State.HighestLevel),
		fmt.Sprintf("Undo %d", v.State.RemainingUndo),
		fmt.Sprintf("Hint %d", v.State.RemainingHint),
	}
	if v.MovesLeft >= 0 {
		parts = append(parts, fmt.Sprintf("Left %d", v.MovesLeft))
	}
	if v.TimeLeft >= 0 {
		parts = append(parts, "Time "+formatClock(v.TimeLeft))
	}
	dst.DrawTextCentered(3, strings.Join(parts, "   "), core.ColorCyan)
}

// renderGrid draws the n x n grid with animal tiles.
func (v BoardView) renderGrid(dst *core.Screen, boardX, boardY, n int) {
	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == n:
				corner = '┐'
			case y == n && x == 0:
				corner = '└'
			case y == n && x == n:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == n:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == n:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColor(px, py, corner, core.ColorGray)

			if x < n {
				dst.DrawHLine(px+1, py, cellWidth-1, '─', core.ColorGray)
			}
			if y < n {
				dst.DrawVLine(px, py+1, cellHeight-1, '│', core.ColorGray)
			}
		}
	}

	inner := cellWidth - 1
	for y, row := range v.State.Board {
		for x, val := range row {
			if val == 0 {
				continue
			}
			color := core.TierColor(tiers.Index(val))
			if color == core.ColorDefault {
				color = core.ColorBrightWhite
			}

			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1
			dst.DrawTextColor(cellX+pad(strconv.Itoa(val), inner), cellY, strconv.Itoa(val), color)

			name := tileLabel(val, inner)
			dst.DrawTextColor(cellX+pad(name, inner), cellY+1, name, color)
		}
	}
}

func (v BoardView) renderFooter(dst *core.Screen, y int) {
	switch {
	case v.Message != "":
		dst.DrawTextCentered(y, v.Message, core.ColorYellow)
	case v.State.Unlocked > 0:
		dst.DrawTextCentered(y, unlockMessage(v.State.Unlocked), core.ColorMagenta)
	case v.State.HasHint:
		dst.DrawTextCentered(y, "Hint: try "+directionArrow(v.State.HintDirection), core.ColorGreen)
	}

	controls := "←↑↓→/WASD move  U undo  I hint  R restart  B menu  Q quit"
	if utf8.RuneCountInString(controls) > dst.Width() {
		controls = "Arrows move  U undo  I hint  Q quit"
	}
	dst.DrawTextCentered(y+1, controls, core.ColorGray)
}

func (v BoardView) renderOverlay(dst *core.Screen, board core.Rect) {
	st := v.State
	top := tiers.NameFor(st.HighestLevel)
	switch {
	case st.Won:
		drawOverlay(dst, board, core.ColorGold,
			"YOU WIN!",
			top+" reached",
			fmt.Sprintf("Score %d", st.Score),
			"R restart  B menu")
	case st.Over:
		headline := "GAME OVER"
		switch {
		case v.TimeLeft == 0:
			headline = "TIME UP"
		case v.MovesLeft == 0:
			headline = "OUT OF MOVES"
		}
		drawOverlay(dst, board, core.ColorRed,
			headline,
			"Top animal: "+top,
			fmt.Sprintf("Score %d", st.Score),
			"U undo  R restart  B menu")
	}
}

// drawOverlay draws a centered boxed message over area.
func drawOverlay(dst *core.Screen, area core.Rect, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := core.CenteredIn(area, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, color)

	cx, _ := box.Center()
	for i, line := range lines {
		c := core.ColorDefault
		if i == 0 {
			c = color
		}
		dst.DrawTextColor(cx-utf8.RuneCountInString(line)/2, box.Y+1+i, line, c)
	}
}

// tileLabel returns the animal name, cut to width.
func tileLabel(level, width int) string {
	name := "?"
	if t, ok := tiers.Lookup(level); ok {
		name = t.Name
	}
	if utf8.RuneCountInString(name) > width {
		name = string([]rune(name)[:width])
	}
	return name
}

func unlockMessage(level int) string {
	name := tiers.NameFor(level)
	if level >= 2048 {
		return "★ Legendary " + name + " unlocked! ★"
	}
	return "New animal: " + name + "!"
}

func directionArrow(d engine.Direction) string {
	switch d {
	case engine.DirUp:
		return "↑ up"
	case engine.DirDown:
		return "↓ down"
	case engine.DirLeft:
		return "← left"
	case engine.DirRight:
		return "→ right"
	}
	return d.String()
}

// pad returns the left offset that centers text in width.
func pad(text string, width int) int {
	return max((width-utf8.RuneCountInString(text))/2, 0)
}

// formatClock renders d as m:ss, rounding up so 0:00 only shows at expiry.
func formatClock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
