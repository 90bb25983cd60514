package encoding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/floorpack/pkg/bounds"
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/solution"
)

func inst(width int, dims ...int) *instance.Instance {
	in := &instance.Instance{Width: width}
	for i := 0; i+1 < len(dims); i += 2 {
		in.Modules = append(in.Modules, instance.Module{Width: dims[i], Height: dims[i+1]})
	}
	return in
}

// configs lists every combination exercised by the consistency tests.
func configs() []Config {
	var out []Config
	for _, m := range Models() {
		for _, sym := range []bool{false, true} {
			for _, ident := range []bool{false, true} {
				out = append(out, Config{Model: m, Symmetry: sym, IdenticalSymmetry: ident})
			}
		}
	}
	return out
}

// feasible decides a packing by exhaustive placement, for tiny instances.
func feasible(in *instance.Instance, h int, rotation bool) bool {
	grid := make([][]bool, h)
	for i := range grid {
		grid[i] = make([]bool, in.Width)
	}
	free := func(x, y, w, hh int) bool {
		for i := y; i < y+hh; i++ {
			for j := x; j < x+w; j++ {
				if grid[i][j] {
					return false
				}
			}
		}
		return true
	}
	mark := func(x, y, w, hh int, v bool) {
		for i := y; i < y+hh; i++ {
			for j := x; j < x+w; j++ {
				grid[i][j] = v
			}
		}
	}
	var place func(c int) bool
	place = func(c int) bool {
		if c == in.N() {
			return true
		}
		m := in.Modules[c]
		dims := [][2]int{{m.Width, m.Height}}
		if rotation && !m.Square() {
			dims = append(dims, [2]int{m.Height, m.Width})
		}
		for _, d := range dims {
			for y := 0; y+d[1] <= h; y++ {
				for x := 0; x+d[0] <= in.Width; x++ {
					if !free(x, y, d[0], d[1]) {
						continue
					}
					mark(x, y, d[0], d[1], true)
					ok := place(c + 1)
					mark(x, y, d[0], d[1], false)
					if ok {
						return true
					}
				}
			}
		}
		return false
	}
	return place(0)
}

// sweep builds one encoding at the upper bound and checks every height from
// the top down against the exhaustive oracle.
func sweep(t *testing.T, in *instance.Instance, cfg Config, backend string) {
	t.Helper()
	b, err := bounds.Compute(in, cfg.Rotation)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	be, err := sat.NewBackend(backend)
	if err != nil {
		t.Fatal(err)
	}
	s := sat.NewSession(be)
	enc, err := Build(s, in, b.Upper, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for h := b.Upper; h >= 1; h-- {
		res := s.Check(context.Background(), 10*time.Second, enc.Premise(h)...)
		want := feasible(in, h, cfg.Rotation)
		if (res.Status == sat.Sat) != want {
			t.Fatalf("%s h=%d: status %v, oracle feasible=%v (instance %+v)", cfg, h, res.Status, want, in.Modules)
		}
		if res.Status != sat.Sat {
			continue
		}
		sol := &solution.Solution{Width: in.Width, Height: h, Placements: enc.Extract(res.Model)}
		if err := sol.Validate(in, cfg.Rotation); err != nil {
			t.Fatalf("%s h=%d: extracted solution invalid: %v (%+v)", cfg, h, err, sol.Placements)
		}
	}
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name     string
		in       *instance.Instance
		rotation bool
	}{
		{"two squares side by side", inst(8, 4, 4, 4, 4), false},
		{"two flat modules stacked", inst(4, 4, 2, 4, 2), false},
		{"rotation required", inst(3, 5, 2), true},
		{"mixed with rotation", inst(4, 3, 1, 1, 3, 2, 2), true},
		{"three identical", inst(3, 1, 2, 1, 2, 1, 2), false},
	}
	for _, tt := range tests {
		for _, cfg := range configs() {
			cfg.Rotation = tt.rotation
			t.Run(fmt.Sprintf("%s/%s", tt.name, cfg), func(t *testing.T) {
				sweep(t, tt.in, cfg, sat.BackendGini)
			})
		}
	}
}

func TestGophersatBackend(t *testing.T) {
	for _, cfg := range []Config{
		{Model: ModelCell, Symmetry: true, IdenticalSymmetry: true},
		{Model: ModelCoord, Symmetry: true, IdenticalSymmetry: true, Rotation: true},
	} {
		t.Run(cfg.String(), func(t *testing.T) {
			sweep(t, inst(4, 2, 2, 2, 2, 3, 1), cfg, sat.BackendGophersat)
		})
	}
}

func TestRandomAgainstOracle(t *testing.T) {
	seed := uint32(42)
	next := func(n int) int {
		seed = seed*1664525 + 1013904223
		return int(seed>>16)%n + 1
	}
	for trial := 0; trial < 25; trial++ {
		width := next(3) + 1
		in := &instance.Instance{Width: width}
		for k := next(3); k > 0; k-- {
			in.Modules = append(in.Modules, instance.Module{Width: next(width), Height: next(3)})
		}
		rotation := trial%2 == 1
		for _, cfg := range configs() {
			cfg.Rotation = rotation
			t.Run(fmt.Sprintf("trial%d/%s", trial, cfg), func(t *testing.T) {
				sweep(t, in, cfg, sat.BackendGini)
			})
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		in   *instance.Instance
		hUB  int
		cfg  Config
	}{
		{"too wide without rotation", inst(3, 5, 2), 10, Config{}},
		{"too tall for bound", inst(3, 2, 5), 4, Config{}},
		{"too tall either way", inst(3, 2, 5), 4, Config{Rotation: true}},
		{"zero bound", inst(3, 1, 1), 0, Config{}},
		{"bad depth", inst(3, 1, 1), 3, Config{SymmetryDepth: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sat.NewSession(sat.NewGini())
			_, err := Build(s, tt.in, tt.hUB, tt.cfg)
			if !errors.Is(err, errors.ErrCodeEncoding) {
				t.Fatalf("err = %v, want ENCODING_ERROR", err)
			}
			if tt.name != "bad depth" && s.Stats().Vars != 0 {
				t.Errorf("allocated %d variables before failing", s.Stats().Vars)
			}
		})
	}
}

func TestRotationExtracted(t *testing.T) {
	for _, m := range Models() {
		t.Run(string(m), func(t *testing.T) {
			in := inst(3, 5, 2)
			s := sat.NewSession(sat.NewGini())
			enc, err := Build(s, in, 5, Config{Model: m, Rotation: true, Symmetry: true})
			if err != nil {
				t.Fatal(err)
			}
			res := s.Check(context.Background(), time.Second, enc.Premise(5)...)
			if res.Status != sat.Sat {
				t.Fatalf("status %v", res.Status)
			}
			p := enc.Extract(res.Model)[0]
			if !p.Rotated || p.Width != 2 || p.Height != 5 {
				t.Errorf("placement = %+v, want rotated 2x5", p)
			}
		})
	}
}

func TestPremiseClampsAndGates(t *testing.T) {
	s := sat.NewSession(sat.NewGini())
	enc, err := Build(s, inst(4, 2, 2, 2, 2), 4, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if enc.MaxHeight() != 4 {
		t.Errorf("MaxHeight() = %d", enc.MaxHeight())
	}
	if got := len(enc.Premise(4)); got != 1 {
		t.Errorf("len(Premise(max)) = %d, want 1", got)
	}
	if got := len(enc.Premise(2)); got != 2 {
		t.Errorf("len(Premise(2)) = %d, want 2", got)
	}
	before := s.Stats().Clauses
	enc.Premise(2)
	if s.Stats().Clauses != before {
		t.Error("repeated Premise generated new clauses")
	}
	if got := enc.Premise(99); len(got) != 1 {
		t.Errorf("Premise above bound = %v", got)
	}
	if enc.Stats().Gated != 2 {
		t.Errorf("Gated = %d, want 2", enc.Stats().Gated)
	}
	if enc.Stats().Vars == 0 || enc.Stats().Model != ModelCell {
		t.Errorf("Stats() = %+v", enc.Stats())
	}
}

func TestSymmetryDepthKeepsFeasibility(t *testing.T) {
	cfg := Config{Model: ModelCell, Symmetry: true, IdenticalSymmetry: true, SymmetryDepth: 3}
	sweep(t, inst(4, 2, 1, 2, 1, 1, 3), cfg, sat.BackendGini)
}

func TestParseModel(t *testing.T) {
	for in, want := range map[string]Model{"": ModelCell, "cell": ModelCell, "COORD": ModelCoord, "order": ModelCoord} {
		got, err := ParseModel(in)
		if err != nil || got != want {
			t.Errorf("ParseModel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseModel("smt"); err == nil {
		t.Error("expected error")
	}
}
