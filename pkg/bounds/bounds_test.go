package bounds

import (
	"testing"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
)

func mods(dims ...int) []instance.Module {
	out := make([]instance.Module, 0, len(dims)/2)
	for i := 0; i+1 < len(dims); i += 2 {
		out = append(out, instance.Module{Width: dims[i], Height: dims[i+1]})
	}
	return out
}

func TestGreedyUpperBound(t *testing.T) {
	tests := []struct {
		name  string
		width int
		mods  []instance.Module
		want  int
	}{
		{"single", 5, mods(3, 2), 2},
		{"one shelf", 8, mods(4, 4, 4, 4), 4},
		{"two shelves", 4, mods(4, 2, 4, 2), 4},
		{"first module counted", 10, mods(2, 9, 2, 1), 9},
		{"mixed", 6, mods(3, 3, 3, 2, 4, 1, 2, 1), 4},
		{"exact width", 5, mods(2, 1, 3, 1, 5, 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GreedyUpperBound(tt.width, tt.mods); got != tt.want {
				t.Errorf("GreedyUpperBound() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		in       *instance.Instance
		rotation bool
		want     Bounds
	}{
		{
			name: "two squares side by side",
			in:   &instance.Instance{Width: 8, Modules: mods(4, 4, 4, 4)},
			want: Bounds{Lower: 4, Upper: 4, Tallest: 4},
		},
		{
			name: "two flat modules stacked",
			in:   &instance.Instance{Width: 4, Modules: mods(4, 2, 4, 2)},
			want: Bounds{Lower: 4, Upper: 4, Tallest: 2},
		},
		{
			name:     "rotation required",
			in:       &instance.Instance{Width: 3, Modules: mods(5, 2)},
			rotation: true,
			want:     Bounds{Lower: 3, Upper: 5, Tallest: 5},
		},
		{
			name:     "rotation lowers the tallest bound",
			in:       &instance.Instance{Width: 6, Modules: mods(1, 6)},
			rotation: true,
			want:     Bounds{Lower: 1, Upper: 6, Tallest: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.in, tt.rotation)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
			if got.Lower > got.Upper {
				t.Errorf("Lower %d > Upper %d", got.Lower, got.Upper)
			}
			lo, hi := got.Range()
			if lo > hi {
				t.Errorf("empty range [%d, %d]", lo, hi)
			}
		})
	}
}

func TestComputeTooWide(t *testing.T) {
	in := &instance.Instance{Width: 3, Modules: mods(5, 2)}
	_, err := Compute(in, false)
	if !errors.Is(err, errors.ErrCodeEncoding) {
		t.Fatalf("err = %v, want ENCODING_ERROR", err)
	}

	in = &instance.Instance{Width: 3, Modules: mods(5, 4)}
	_, err = Compute(in, true)
	if !errors.Is(err, errors.ErrCodeEncoding) {
		t.Fatalf("err = %v, want ENCODING_ERROR with rotation", err)
	}
}

func TestLowerNeverExceedsUpper(t *testing.T) {
	// small deterministic pseudo-random grid of instances
	seed := uint32(7)
	next := func(n int) int {
		seed = seed*1664525 + 1013904223
		return int(seed>>16)%n + 1
	}
	for trial := 0; trial < 200; trial++ {
		width := next(12)
		n := next(8)
		in := &instance.Instance{Width: width}
		for i := 0; i < n; i++ {
			in.Modules = append(in.Modules, instance.Module{Width: next(width), Height: next(10)})
		}
		b, err := Compute(in, trial%2 == 0)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if b.Lower > b.Upper || b.Tallest > b.Upper {
			t.Fatalf("trial %d: inconsistent bounds %+v for %+v", trial, b, in)
		}
	}
}
