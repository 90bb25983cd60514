// Package solution holds placed modules and the text format they are saved in.
//
// A solution file starts with the board width and the achieved height, then
// the module count, then one "<w> <h> <x> <y>" line per module in instance
// order. Widths and heights are the dimensions after rotation, so a reader
// needs no rotation flag to redraw the board.
package solution

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
)

// Placement is the position of one module. X and Y are the lower-left corner
// with the origin at the bottom-left of the board.
type Placement struct {
	X       int  `json:"x" bson:"x"`
	Y       int  `json:"y" bson:"y"`
	Width   int  `json:"w" bson:"w"`
	Height  int  `json:"h" bson:"h"`
	Rotated bool `json:"rotated,omitempty" bson:"rotated,omitempty"`
}

// Right is the exclusive right edge.
func (p Placement) Right() int { return p.X + p.Width }

// Top is the exclusive top edge.
func (p Placement) Top() int { return p.Y + p.Height }

// Overlaps reports whether two placements share a cell.
func (p Placement) Overlaps(q Placement) bool {
	return p.X < q.Right() && q.X < p.Right() && p.Y < q.Top() && q.Y < p.Top()
}

// Solution is a complete packing.
type Solution struct {
	Width      int         `json:"width" bson:"width"`
	Height     int         `json:"height" bson:"height"`
	Placements []Placement `json:"placements" bson:"placements"`
}

// New builds a solution and derives its height from the placements.
func New(width int, placements []Placement) *Solution {
	s := &Solution{Width: width, Placements: placements}
	s.Height = s.UsedHeight()
	return s
}

// UsedHeight is the highest top edge over all placements.
func (s *Solution) UsedHeight() int {
	h := 0
	for _, p := range s.Placements {
		if p.Top() > h {
			h = p.Top()
		}
	}
	return h
}

// Rotations counts the rotated placements.
func (s *Solution) Rotations() int {
	n := 0
	for _, p := range s.Placements {
		if p.Rotated {
			n++
		}
	}
	return n
}

// Validate checks the solution against the instance it claims to solve:
// one placement per module, dimensions matching the module in an allowed
// orientation, every rectangle inside the board and pairwise disjoint.
func (s *Solution) Validate(in *instance.Instance, allowRotation bool) error {
	if s.Width != in.Width {
		return errors.New(errors.ErrCodeInvalidSolution, "board width %d does not match instance width %d", s.Width, in.Width)
	}
	if len(s.Placements) != in.N() {
		return errors.New(errors.ErrCodeInvalidSolution, "%d placements for %d modules", len(s.Placements), in.N())
	}
	for i, p := range s.Placements {
		m := in.Modules[i]
		switch {
		case p.Width == m.Width && p.Height == m.Height:
		case allowRotation && p.Width == m.Height && p.Height == m.Width:
		default:
			return errors.New(errors.ErrCodeInvalidSolution, "module %d placed as %dx%d but is %dx%d", i, p.Width, p.Height, m.Width, m.Height)
		}
		if p.X < 0 || p.Y < 0 || p.Right() > s.Width || p.Top() > s.Height {
			return errors.New(errors.ErrCodeInvalidSolution, "module %d at (%d,%d) leaves the %dx%d board", i, p.X, p.Y, s.Width, s.Height)
		}
	}
	for i := range s.Placements {
		for j := i + 1; j < len(s.Placements); j++ {
			if s.Placements[i].Overlaps(s.Placements[j]) {
				return errors.New(errors.ErrCodeInvalidSolution, "modules %d and %d overlap", i, j)
			}
		}
	}
	return nil
}

// Write renders the solution in the text format.
func Write(w io.Writer, s *Solution) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n%d\n", s.Width, s.Height, len(s.Placements))
	for _, p := range s.Placements {
		fmt.Fprintf(bw, "%d %d %d %d\n", p.Width, p.Height, p.X, p.Y)
	}
	return bw.Flush()
}

// WriteFile writes the solution to path.
func WriteFile(path string, s *Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a solution. Rotation flags are not stored in the format; use
// MarkRotations to restore them against the instance.
func Read(r io.Reader, source string) (*Solution, error) {
	if source == "" {
		source = "<input>"
	}
	sc := bufio.NewScanner(r)
	var lines [][]string
	var nos []int
	no := 0
	for sc.Scan() {
		no++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, fields)
		nos = append(nos, no)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read %s", source)
	}
	if len(lines) < 2 {
		return nil, errors.Parse(source, 0, "expected header and module count")
	}

	ints := func(idx, want int) ([]int, error) {
		if len(lines[idx]) != want {
			return nil, errors.Parse(source, nos[idx], "expected %d fields, got %d", want, len(lines[idx]))
		}
		out := make([]int, want)
		for i, f := range lines[idx] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, errors.Parse(source, nos[idx], "%q is not an integer", f)
			}
			out[i] = v
		}
		return out, nil
	}

	head, err := ints(0, 2)
	if err != nil {
		return nil, err
	}
	count, err := ints(1, 1)
	if err != nil {
		return nil, err
	}
	if count[0] != len(lines)-2 {
		return nil, errors.Parse(source, 0, "declared %d placements but found %d lines", count[0], len(lines)-2)
	}
	s := &Solution{Width: head[0], Height: head[1], Placements: make([]Placement, count[0])}
	for i := range s.Placements {
		v, err := ints(i+2, 4)
		if err != nil {
			return nil, err
		}
		s.Placements[i] = Placement{Width: v[0], Height: v[1], X: v[2], Y: v[3]}
	}
	return s, nil
}

// ReadFile parses the solution stored at path.
func ReadFile(path string) (*Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "solution %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, path)
}

// MarkRotations sets Rotated on placements whose dimensions are the swapped
// dimensions of their (non-square) module.
func (s *Solution) MarkRotations(in *instance.Instance) {
	for i := range s.Placements {
		if i >= in.N() {
			return
		}
		m := in.Modules[i]
		p := &s.Placements[i]
		p.Rotated = !m.Square() && p.Width == m.Height && p.Height == m.Width
	}
}
