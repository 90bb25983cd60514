package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/floorpack/pkg/solution"
)

// Board styles
var (
	boardSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	boardModuleStyle   = lipgloss.NewStyle().Foreground(colorGray)
	boardFreeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SolutionModel - Interactive solution browser
// =============================================================================

// SolutionModel is the bubbletea model for browsing a packing. The cursor
// selects a module; the board rows scroll when the strip is taller than the
// terminal.
type SolutionModel struct {
	Name     string
	Solution *solution.Solution
	Cursor   int
	Height   int
	Offset   int

	// owner[y][x] is the module covering the cell, or -1.
	owner [][]int
}

// NewSolutionModel creates a new solution browser.
func NewSolutionModel(name string, sol *solution.Solution) SolutionModel {
	h := sol.Height
	if used := sol.UsedHeight(); used > h {
		h = used
	}
	owner := make([][]int, h)
	for y := range owner {
		owner[y] = make([]int, sol.Width)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for i, p := range sol.Placements {
		for y := p.Y; y < p.Top() && y < h; y++ {
			for x := p.X; x < p.Right() && x < sol.Width; x++ {
				owner[y][x] = i
			}
		}
	}
	return SolutionModel{
		Name:     name,
		Solution: sol,
		Height:   20,
		owner:    owner,
	}
}

func (m SolutionModel) Init() tea.Cmd {
	return nil
}

func (m SolutionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Solution.Placements)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "shift+tab":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j", "tab":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = n - 1
		case "pgup":
			m.Offset -= m.Height
			m.clamp()
			return m, nil
		case "pgdown":
			m.Offset += m.Height
			m.clamp()
			return m, nil
		}
		m.follow()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.follow()
	}
	return m, nil
}

// follow scrolls so that the selected module is visible, its top edge first
// when it is taller than the view. Offset counts rows from the top of the
// strip.
func (m *SolutionModel) follow() {
	rows := len(m.owner)
	if n := len(m.Solution.Placements); n > 0 {
		p := m.Solution.Placements[m.Cursor]
		top := rows - p.Top()
		bottom := rows - 1 - p.Y
		if bottom >= m.Offset+m.Height {
			m.Offset = bottom - m.Height + 1
		}
		if top < m.Offset {
			m.Offset = top
		}
	}
	m.clamp()
}

// clamp keeps the view inside the strip.
func (m *SolutionModel) clamp() {
	rows := len(m.owner)
	if m.Offset > rows-m.Height {
		m.Offset = rows - m.Height
	}
	if m.Offset < 0 {
		m.Offset = 0
	}
}

func (m SolutionModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d×%d, %d modules", m.Solution.Width, m.Solution.Height, len(m.Solution.Placements))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ module  pgup/pgdn scroll  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.board(), "  ", m.details()))
	return b.String()
}

// board draws the visible rows of the strip, top row first.
func (m SolutionModel) board() string {
	rows := len(m.owner)
	end := m.Offset + m.Height
	if end > rows {
		end = rows
	}
	var b strings.Builder
	border := listDimStyle.Render("+" + strings.Repeat("-", m.Solution.Width) + "+")
	b.WriteString(border + "\n")
	for r := m.Offset; r < end; r++ {
		y := rows - 1 - r
		b.WriteString(listDimStyle.Render("|"))
		for _, i := range m.owner[y] {
			switch {
			case i < 0:
				b.WriteString(boardFreeStyle.Render("."))
			case i == m.Cursor:
				b.WriteString(boardSelectedStyle.Render(string(boardGlyph(i))))
			default:
				b.WriteString(boardModuleStyle.Render(string(boardGlyph(i))))
			}
		}
		b.WriteString(listDimStyle.Render("|"))
		b.WriteString(listDimStyle.Render(fmt.Sprintf(" %d", y)))
		b.WriteString("\n")
	}
	b.WriteString(border)
	return b.String()
}

// details lists the modules around the cursor.
func (m SolutionModel) details() string {
	n := len(m.Solution.Placements)
	start := m.Cursor - m.Height/2
	if start > n-m.Height {
		start = n - m.Height
	}
	if start < 0 {
		start = 0
	}
	end := start + m.Height
	if end > n {
		end = n
	}

	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		p := m.Solution.Placements[i]
		rot := ""
		if p.Rotated {
			rot = "↻"
		}
		rows = append(rows, []string{
			string(boardGlyph(i)),
			fmt.Sprint(i),
			fmt.Sprintf("%d×%d", p.Width, p.Height),
			fmt.Sprintf("(%d,%d)", p.X, p.Y),
			rot,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Size", "At", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if start+row == m.Cursor {
				return boardSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, n))
}

// boardGlyph matches the glyphs of render.ASCII.
func boardGlyph(i int) byte {
	const glyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	if i < len(glyphs) {
		return glyphs[i]
	}
	return '#'
}
