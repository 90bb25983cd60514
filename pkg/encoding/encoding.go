package encoding

import (
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// Encoding is a built model for a fixed height bound.
type Encoding interface {
	// Premise returns the assumption literals that restrict the board to
	// rows [0, h). Height-dependent symmetry constraints for h are added to
	// the session on the first call, outside any scope. h is clamped to
	// [1, MaxHeight].
	Premise(h int) []sat.Lit
	// Extract decodes a model into one placement per module.
	Extract(m sat.Model) []solution.Placement
	// MaxHeight is the height bound the encoding was built for.
	MaxHeight() int
	// Stats reports the size of the generated formula.
	Stats() Stats
}

// Stats describes a built encoding.
type Stats struct {
	Model     Model `json:"model" bson:"model"`
	MaxHeight int   `json:"max_height" bson:"max_height"`
	Vars      int   `json:"vars" bson:"vars"`
	Clauses   int   `json:"clauses" bson:"clauses"`
	// Gated counts heights whose symmetry constraints have been generated.
	Gated int `json:"gated,omitempty" bson:"gated,omitempty"`
}

// Build validates the instance against the bound and emits the static
// constraints of the configured model into s. A module that fits the
// W×hUB box in no allowed orientation yields an ENCODING_ERROR before any
// variable is allocated.
func Build(s *sat.Session, in *instance.Instance, hUB int, cfg Config) (Encoding, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "invalid encoding config")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if hUB <= 0 {
		return nil, errors.New(errors.ErrCodeEncoding, "height bound must be positive, got %d", hUB)
	}
	orients, err := orientations(in, hUB, cfg.Rotation)
	if err != nil {
		return nil, err
	}

	l := newLayout(s, in, hUB, cfg, orients)
	switch cfg.Model {
	case ModelCoord:
		return buildCoord(l), nil
	default:
		return buildCell(l), nil
	}
}

// orientation is one admissible way to place a module.
type orientation struct {
	w, h    int
	rotated bool
}

func orientations(in *instance.Instance, hUB int, rotation bool) ([][]orientation, error) {
	out := make([][]orientation, in.N())
	for c, m := range in.Modules {
		if m.FitsIn(in.Width, hUB) {
			out[c] = append(out[c], orientation{w: m.Width, h: m.Height})
		}
		if rotation && !m.Square() && m.Rotated().FitsIn(in.Width, hUB) {
			out[c] = append(out[c], orientation{w: m.Height, h: m.Width, rotated: true})
		}
		if len(out[c]) == 0 {
			return nil, errors.New(errors.ErrCodeEncoding,
				"module %d (%dx%d) fits in no allowed orientation within %dx%d", c, m.Width, m.Height, in.Width, hUB)
		}
	}
	return out, nil
}

// layout holds what both models share: rows, rotation literals and the
// lazily generated per-height constraints.
type layout struct {
	s      *sat.Session
	in     *instance.Instance
	cfg    Config
	width  int
	height int

	rows   []sat.Lit
	rot    []sat.Lit // 0 when the module has a single orientation
	orient [][]orientation

	guards   map[int]sat.Lit
	onHeight func(h int, guard sat.Lit)
}

func newLayout(s *sat.Session, in *instance.Instance, hUB int, cfg Config, orients [][]orientation) *layout {
	l := &layout{
		s:      s,
		in:     in,
		cfg:    cfg,
		width:  in.Width,
		height: hUB,
		orient: orients,
		rot:    make([]sat.Lit, in.N()),
		guards: make(map[int]sat.Lit),
	}
	l.rows = s.NewLits(hUB)
	for i := 0; i+1 < hUB; i++ {
		s.Implies(l.rows[i+1], l.rows[i])
	}
	for c := range orients {
		if len(orients[c]) == 2 {
			l.rot[c] = s.NewLit()
		}
	}
	return l
}

// under adds (orientation o of c) ⇒ (lits[0] ∨ ...).
func (l *layout) under(c, o int, lits ...sat.Lit) {
	if r := l.rot[c]; r != 0 {
		lits = lits[:len(lits):len(lits)]
		if l.orient[c][o].rotated {
			lits = append(lits, r.Not())
		} else {
			lits = append(lits, r)
		}
	}
	l.s.Add(lits...)
}

// orientationOf reads the active orientation of c from a model.
func (l *layout) orientationOf(m sat.Model, c int) orientation {
	if r := l.rot[c]; r != 0 && m.Value(r) {
		return l.orient[c][1]
	}
	return l.orient[c][0]
}

func (l *layout) MaxHeight() int { return l.height }

// guard returns a literal that holds exactly when h is the current height.
func (l *layout) guard(h int) sat.Lit {
	if g, ok := l.guards[h]; ok {
		return g
	}
	var g sat.Lit
	if h >= l.height {
		g = l.rows[l.height-1]
	} else {
		g = l.s.And(l.rows[h-1], l.rows[h].Not())
	}
	l.guards[h] = g
	return g
}

func (l *layout) Premise(h int) []sat.Lit {
	if h < 1 {
		h = 1
	}
	if h > l.height {
		h = l.height
	}
	if _, done := l.guards[h]; !done {
		g := l.guard(h)
		if l.onHeight != nil {
			l.onHeight(h, g)
		}
	}
	if h == l.height {
		return []sat.Lit{l.rows[h-1]}
	}
	return []sat.Lit{l.rows[h-1], l.rows[h].Not()}
}

func (l *layout) Stats() Stats {
	st := l.s.Stats()
	return Stats{
		Model:     l.cfg.Model,
		MaxHeight: l.height,
		Vars:      st.Vars,
		Clauses:   st.Clauses,
		Gated:     len(l.guards),
	}
}

// identicalGroups returns the index lists of modules with equal dimensions,
// in ascending order, for groups of two or more.
func identicalGroups(in *instance.Instance) [][]int {
	byDims := make(map[instance.Module][]int)
	var order []instance.Module
	for c, m := range in.Modules {
		if _, seen := byDims[m]; !seen {
			order = append(order, m)
		}
		byDims[m] = append(byDims[m], c)
	}
	var out [][]int
	for _, m := range order {
		if g := byDims[m]; len(g) > 1 {
			out = append(out, g)
		}
	}
	return out
}

func placement(x, y int, o orientation) solution.Placement {
	return solution.Placement{X: x, Y: y, Width: o.w, Height: o.h, Rotated: o.rotated}
}

// firstTrue returns the index of the first literal true in m, or fallback.
func firstTrue(m sat.Model, lits []sat.Lit, fallback int) int {
	for i, l := range lits {
		if m.Value(l) {
			return i
		}
	}
	return fallback
}
