package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/floorpack/pkg/solution"
)

func testSolution() *solution.Solution {
	return solution.New(4, []solution.Placement{
		{X: 0, Y: 0, Width: 2, Height: 2},
		{X: 2, Y: 0, Width: 2, Height: 3},
		{X: 0, Y: 2, Width: 2, Height: 10, Rotated: true},
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSolutionModelOwners(t *testing.T) {
	m := NewSolutionModel("t", testSolution())
	if len(m.owner) != 12 {
		t.Fatalf("rows = %d, want 12", len(m.owner))
	}
	tests := []struct{ x, y, want int }{
		{0, 0, 0},
		{3, 2, 1},
		{3, 3, -1},
		{1, 11, 2},
	}
	for _, tt := range tests {
		if got := m.owner[tt.y][tt.x]; got != tt.want {
			t.Errorf("owner[%d][%d] = %d, want %d", tt.y, tt.x, got, tt.want)
		}
	}
}

func TestSolutionModelNavigation(t *testing.T) {
	var model tea.Model = NewSolutionModel("t", testSolution())

	for _, k := range []string{"down", "j", "j"} {
		model, _ = model.Update(key(k))
	}
	if got := model.(SolutionModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at the last module)", got)
	}
	model, _ = model.Update(key("up"))
	if got := model.(SolutionModel).Cursor; got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}
	model, _ = model.Update(key("g"))
	if got := model.(SolutionModel).Cursor; got != 0 {
		t.Errorf("cursor = %d after home, want 0", got)
	}

	if _, cmd := model.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestSolutionModelScrollsToSelection(t *testing.T) {
	var model tea.Model = NewSolutionModel("t", testSolution())
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 11})
	m := model.(SolutionModel)
	if m.Height != 5 {
		t.Fatalf("visible rows = %d, want 5", m.Height)
	}

	// Module 0 sits at the bottom of a 12 row strip.
	if m.Offset != 7 {
		t.Errorf("offset = %d, want 7 so the bottom row is visible", m.Offset)
	}
	model, _ = model.Update(key("G"))
	if got := model.(SolutionModel).Offset; got != 0 {
		t.Errorf("offset = %d, want 0 for the topmost module", got)
	}
}

func TestSolutionModelView(t *testing.T) {
	view := NewSolutionModel("ins-3", testSolution()).View()
	for _, want := range []string{"ins-3", "3 modules", "(2,0)", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}
