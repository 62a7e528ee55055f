package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/core"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

// MenuModel is the Bubble Tea model for the mode and difficulty picker.
type MenuModel struct {
	items          []modes.Mode
	cursor         int
	difficulty     int // index into config.Difficulties
	best           map[string]int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *modes.Mode // Set when user selects a mode
	openScoreboard bool        // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model preselecting difficulty.
func NewMenuModel(env Env, difficulty engine.Difficulty) MenuModel {
	m := MenuModel{
		items:     modes.List(),
		best:      make(map[string]int),
		width:     env.Runtime.ScreenW,
		height:    env.Runtime.ScreenH,
		config:    env.Runtime,
		keyMapper: NewKeyMapper(),
	}

	for i, d := range config.Difficulties {
		if d == difficulty {
			m.difficulty = i
		}
	}

	if env.Store != nil {
		if stats, err := env.Store.GetAllModeStats(); err == nil {
			for mode, s := range stats {
				m.best[mode] = s.BestScore
			}
		} else {
			env.logger().Warn("could not load mode stats", "error", err)
		}
	}

	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, len(m.items)-1)

	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, len(m.items)-1)

	case MenuActionLeft:
		m.difficulty = (m.difficulty + len(config.Difficulties) - 1) % len(config.Difficulties)

	case MenuActionRight:
		m.difficulty = (m.difficulty + 1) % len(config.Difficulties)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.config.TooSmall() {
		return "\n  Window too small\n  Please resize terminal\n"
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("A N I M A L   M E R G E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.legend(), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = activeStyle
		}

		line := fmt.Sprintf("%s%-10s %-18s best %d", cursor, item.Label, describe(item), m.best[item.Key])
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	diff := fmt.Sprintf("Difficulty: < %s >", m.Difficulty())
	b.WriteString(centerText(activeStyle.Render(diff), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Mode  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// legend shows the evolution chain as icons.
func (m MenuModel) legend() string {
	rows := tiers.Rows()
	lines := make([]string, len(rows))
	for i, row := range rows {
		icons := make([]string, len(row))
		for j, t := range row {
			icons[j] = t.Icon
		}
		lines[i] = strings.Join(icons, " → ")
	}
	return strings.Join(lines, " → ")
}

// describe summarizes a mode's rules.
func describe(md modes.Mode) string {
	size := fmt.Sprintf("%dx%d", md.BoardSize, md.BoardSize)
	switch {
	case md.MoveLimit > 0:
		return fmt.Sprintf("%s, %d moves", size, md.MoveLimit)
	case md.TimeLimit > 0:
		return fmt.Sprintf("%s, %ds", size, int(md.TimeLimit.Seconds()))
	case md.Daily:
		return size + ", same board"
	case md.Endless:
		return size + ", no end"
	default:
		return size
	}
}

// Selected returns the selected mode, or nil if none selected.
func (m MenuModel) Selected() *modes.Mode {
	return m.selected
}

// Difficulty returns the highlighted difficulty.
func (m MenuModel) Difficulty() engine.Difficulty {
	return config.Difficulties[m.difficulty]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Mode            *modes.Mode
	Difficulty      engine.Difficulty
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(env Env, difficulty engine.Difficulty) (MenuResult, error) {
	model := NewMenuModel(env, difficulty)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: env.Runtime}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: env.Runtime, Quit: true}, nil
	}

	result := MenuResult{
		Config:     m.Config(),
		Difficulty: m.Difficulty(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.Mode = m.Selected()
	}

	return result, nil
}
