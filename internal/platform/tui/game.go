package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/core"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/storage"
)

// Env carries the dependencies every screen shares.
type Env struct {
	Config  config.GameConfig
	Store   *storage.Store // nil disables records
	Runtime core.RuntimeConfig
	Logger  *log.Logger // nil discards
	Now     func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// GameModel is the Bubble Tea model for one game of a mode.
type GameModel struct {
	env        Env
	mode       modes.Mode
	difficulty engine.Difficulty
	session    *engine.Session
	screen     *core.Screen
	keyMapper  *KeyMapper

	started time.Time
	elapsed time.Duration
	best    int
	message string

	saved      bool // Whether the record has been saved for the current game
	ticking    bool // A clock tick is pending
	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel starts a session of mode at difficulty.
func NewGameModel(env Env, mode modes.Mode, difficulty engine.Difficulty) (GameModel, error) {
	session, err := env.Config.NewSession(config.SessionOptions{
		Mode:       mode,
		Difficulty: difficulty,
		Seed:       env.Runtime.Seed,
		Now:        env.now(),
	})
	if err != nil {
		return GameModel{}, fmt.Errorf("cannot start %s: %w", mode.Key, err)
	}

	m := GameModel{
		env:        env,
		mode:       mode,
		difficulty: session.Config().Difficulty,
		session:    session,
		screen:     core.NewScreen(env.Runtime.ScreenW, env.Runtime.ScreenH),
		keyMapper:  NewKeyMapper(),
		started:    env.now(),
		ticking:    mode.Timed(),
	}
	m.best = m.loadBest()
	return m, nil
}

func (m GameModel) loadBest() int {
	if m.env.Store == nil {
		return 0
	}
	best, err := m.env.Store.BestScore(m.mode.Key)
	if err != nil {
		m.env.logger().Warn("could not load best score", "mode", m.mode.Key, "error", err)
		return 0
	}
	return best
}

// Init starts the countdown for timed modes.
func (m GameModel) Init() tea.Cmd {
	if m.mode.Timed() {
		return tickCmd(clockInterval)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.env.Runtime.ScreenW = msg.Width
		m.env.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	m.message = ""
	if action.IsMove() {
		dir, _ := DirectionFor(action)
		//nolint:errcheck // DirectionFor only yields valid directions
		m.session.Move(dir)
		m.enforceLimits(m.env.now())
		m.saveIfFinished()
		return m, nil
	}

	switch action {
	case core.ActionUndo:
		if m.timeUp() {
			m.message = "Time is up"
			break
		}
		before := m.session.State()
		after := m.session.Undo()
		switch {
		case after.Moves != before.Moves:
			// An undone game is live again and may be saved anew.
			m.saved = false
			if before.Terminal() && !after.Terminal() {
				cmd := m.resumeClock()
				return m, cmd
			}
		case before.RemainingUndo == 0:
			m.message = "No undos left"
		default:
			m.message = "Nothing to undo"
		}

	case core.ActionHint:
		if _, ok := m.session.Hint(); !ok {
			if m.session.State().RemainingHint == 0 {
				m.message = "No hints left"
			} else {
				m.message = "No move available"
			}
		}

	case core.ActionRestart:
		return m.restart()

	case core.ActionBack:
		m.saveRecord()
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}

	m.saveIfFinished()
	return m, nil
}

// handleTick advances the clock of timed modes.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.mode.Timed() {
		return m, nil
	}
	m.enforceLimits(now)
	m.saveIfFinished()
	if m.session.State().Terminal() {
		m.ticking = false
		return m, nil
	}
	return m, tickCmd(clockInterval)
}

// resumeClock restarts the tick chain of a timed mode once it has stopped.
func (m *GameModel) resumeClock() tea.Cmd {
	if !m.mode.Timed() || m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd(clockInterval)
}

// enforceLimits ends the session when the mode's move or time limit runs out.
func (m *GameModel) enforceLimits(now time.Time) {
	st := m.session.State()
	if st.Terminal() {
		return
	}
	m.elapsed = now.Sub(m.started)
	if m.mode.Expired(st.Moves, m.elapsed) {
		m.session.End()
	}
}

// timeUp reports whether a timed mode's clock has run out.
func (m GameModel) timeUp() bool {
	return m.mode.Timed() && m.env.now().Sub(m.started) >= m.mode.TimeLimit
}

func (m GameModel) restart() (tea.Model, tea.Cmd) {
	m.saveRecord()
	m.session.Reset()
	m.started = m.env.now()
	m.elapsed = 0
	m.saved = false
	m.message = ""
	m.best = m.loadBest()
	cmd := m.resumeClock()
	return m, cmd
}

func (m *GameModel) saveIfFinished() {
	if m.session.State().Terminal() {
		m.saveRecord()
	}
}

// saveRecord stores the current game once. Empty games are not recorded.
func (m *GameModel) saveRecord() {
	st := m.session.State()
	if m.saved || st.Moves == 0 || st.Score == 0 {
		return
	}
	m.saved = true
	if m.env.Store == nil {
		return
	}

	rec := storage.NewRecord(m.session.Record(), m.env.now())
	if _, err := m.env.Store.SaveRecord(rec); err != nil {
		m.env.logger().Warn("could not save record", "mode", rec.Mode, "error", err)
		return
	}
	m.best = max(m.best, st.Score)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.ViewModel().Render(m.screen)
	return RenderScreen(m.screen)
}

// ViewModel assembles the BoardView for the current state.
func (m GameModel) ViewModel() BoardView {
	st := m.session.State()
	elapsed := m.elapsed
	if !st.Terminal() && m.mode.Timed() {
		elapsed = m.env.now().Sub(m.started)
	}
	movesLeft, timeLeft := m.mode.Remaining(st.Moves, elapsed)

	v := BoardView{
		State:      st,
		Mode:       m.mode,
		Difficulty: m.difficulty,
		Best:       m.best,
		MovesLeft:  movesLeft,
		TimeLeft:   timeLeft,
		Message:    m.message,
	}
	if m.mode.Daily {
		v.DateKey = engine.DateKey(m.started)
	}
	return v
}

// State exposes the session state for callers and tests.
func (m GameModel) State() engine.State {
	return m.session.State()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single mode until the player quits or leaves.
func Run(env Env, mode modes.Mode, difficulty engine.Difficulty) error {
	model, err := NewGameModel(env, mode, difficulty)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
