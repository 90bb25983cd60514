package solution

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
)

func twoSquares() *instance.Instance {
	return &instance.Instance{Width: 8, Modules: []instance.Module{{Width: 4, Height: 4}, {Width: 4, Height: 4}}}
}

func TestValidate(t *testing.T) {
	in := &instance.Instance{Width: 4, Modules: []instance.Module{{Width: 4, Height: 2}, {Width: 1, Height: 3}}}

	tests := []struct {
		name     string
		sol      *Solution
		rotation bool
		wantErr  bool
	}{
		{
			name: "stacked",
			sol:  New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: 0, Y: 2, Width: 1, Height: 3}}),
		},
		{
			name:     "rotated allowed",
			sol:      New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: 0, Y: 2, Width: 3, Height: 1, Rotated: true}}),
			rotation: true,
		},
		{
			name:    "rotated not allowed",
			sol:     New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: 0, Y: 2, Width: 3, Height: 1}}),
			wantErr: true,
		},
		{
			name:    "overlap",
			sol:     New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: 3, Y: 1, Width: 1, Height: 3}}),
			wantErr: true,
		},
		{
			name:    "outside right edge",
			sol:     New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: 4, Y: 0, Width: 1, Height: 3}}),
			wantErr: true,
		},
		{
			name:    "negative coordinate",
			sol:     New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: -1, Y: 2, Width: 1, Height: 3}}),
			wantErr: true,
		},
		{
			name:    "wrong dimensions",
			sol:     New(4, []Placement{{X: 0, Y: 0, Width: 2, Height: 2}, {X: 0, Y: 2, Width: 1, Height: 3}}),
			wantErr: true,
		},
		{
			name:    "missing placement",
			sol:     New(4, []Placement{{X: 0, Y: 0, Width: 4, Height: 2}}),
			wantErr: true,
		},
		{
			name:    "height too small",
			sol:     &Solution{Width: 4, Height: 4, Placements: []Placement{{X: 0, Y: 0, Width: 4, Height: 2}, {X: 0, Y: 2, Width: 1, Height: 3}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sol.Validate(in, tt.rotation)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidSolution) {
				t.Errorf("code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestWriteRead(t *testing.T) {
	in := twoSquares()
	sol := New(8, []Placement{{X: 0, Y: 0, Width: 4, Height: 4}, {X: 4, Y: 0, Width: 4, Height: 4}})

	var buf bytes.Buffer
	if err := Write(&buf, sol); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "8 4\n2\n4 4 0 0\n4 4 4 0\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}

	got, err := Read(&buf, "sol.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Width != 8 || got.Height != 4 {
		t.Errorf("header = %d %d", got.Width, got.Height)
	}
	if err := got.Validate(in, false); err != nil {
		t.Errorf("round-tripped solution invalid: %v", err)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"bad header":     "8\n1\n1 1 0 0\n",
		"count mismatch": "8 4\n2\n4 4 0 0\n",
		"non-numeric":    "8 4\n1\n4 x 0 0\n",
		"short line":     "8 4\n1\n4 4 0\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(bytes.NewBufferString(input), "bad.txt")
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("err = %v, want PARSE_ERROR", err)
			}
		})
	}
}

func TestMarkRotations(t *testing.T) {
	in := &instance.Instance{Width: 3, Modules: []instance.Module{{Width: 5, Height: 2}, {Width: 2, Height: 2}}}
	sol := New(3, []Placement{{X: 0, Y: 0, Width: 2, Height: 5}, {X: 0, Y: 5, Width: 2, Height: 2}})
	sol.MarkRotations(in)
	if !sol.Placements[0].Rotated {
		t.Error("placement 0 not marked rotated")
	}
	if sol.Placements[1].Rotated {
		t.Error("square placement marked rotated")
	}
	if sol.Rotations() != 1 {
		t.Errorf("Rotations() = %d, want 1", sol.Rotations())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	sol := New(3, []Placement{{X: 0, Y: 0, Width: 2, Height: 5, Rotated: true}})
	if err := WriteFile(path, sol); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Height != 5 || got.Placements[0].Width != 2 {
		t.Errorf("got %+v", got)
	}
}
