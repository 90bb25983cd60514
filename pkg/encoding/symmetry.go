package encoding

import "github.com/matzehuels/floorpack/pkg/sat"

// cellMap maps a board cell to its image under a symmetry.
type cellMap func(i, j int) (int, int)

// sequence flattens the occupancy literals of rows [0, rows) in row-major
// order with the module innermost, reading cell (i, j) of module c from
// cb[perm[c]][mi][mj]. A nil perm or cellMap is the identity.
func (e *cellEncoding) sequence(rows int, f cellMap, perm []int) []sat.Lit {
	n := len(e.cb)
	seq := make([]sat.Lit, 0, rows*e.width*n)
	for i := 0; i < rows; i++ {
		for j := 0; j < e.width; j++ {
			mi, mj := i, j
			if f != nil {
				mi, mj = f(i, j)
			}
			for c := 0; c < n; c++ {
				src := c
				if perm != nil {
					src = perm[c]
				}
				seq = append(seq, e.cb[src][mi][mj])
			}
		}
	}
	return seq
}

// breakStatic adds the height-independent lex-leader constraints: the
// horizontal mirror and swaps of consecutive identical modules.
func (e *cellEncoding) breakStatic() {
	rows := e.height
	id := e.sequence(rows, nil, nil)
	opt := e.cfg.lexOptions(0)

	if e.cfg.Symmetry {
		w := e.width
		e.s.LexLeq(id, e.sequence(rows, func(i, j int) (int, int) { return i, w - 1 - j }, nil), opt)
	}
	if e.cfg.IdenticalSymmetry {
		for _, group := range identicalGroups(e.in) {
			for k := 0; k+1 < len(group); k++ {
				e.s.LexLeq(id, e.sequence(rows, nil, swap(len(e.cb), group[k], group[k+1])), opt)
			}
		}
	}
}

// breakHeight adds the vertical and 180° mirrors for height h, gated on g.
func (e *cellEncoding) breakHeight(h int, g sat.Lit) {
	w := e.width
	id := e.sequence(h, nil, nil)
	opt := e.cfg.lexOptions(g)
	e.s.LexLeq(id, e.sequence(h, func(i, j int) (int, int) { return h - 1 - i, j }, nil), opt)
	e.s.LexLeq(id, e.sequence(h, func(i, j int) (int, int) { return h - 1 - i, w - 1 - j }, nil), opt)
}

func swap(n, a, b int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	perm[a], perm[b] = b, a
	return perm
}

// anchorModule picks the module whose domain is halved in the coordinate
// model: the largest by area, skipping modules with an identical twin when
// identical modules are ordered. It returns -1 when none qualifies.
func anchorModule(l *layout) int {
	twins := make(map[int]bool)
	if l.cfg.IdenticalSymmetry {
		for _, g := range identicalGroups(l.in) {
			for _, c := range g {
				twins[c] = true
			}
		}
	}
	best, bestArea := -1, -1
	for c, m := range l.in.Modules {
		if twins[c] {
			continue
		}
		if a := m.Area(); a > bestArea {
			best, bestArea = c, a
		}
	}
	return best
}

// breakStatic reduces the anchor's x domain and orders identical modules.
func (e *coordEncoding) breakStatic() {
	l := e.layout
	if l.cfg.Symmetry && e.anchor >= 0 {
		c := e.anchor
		for o, or := range l.orient[c] {
			l.under(c, o, e.px[c][(l.width-or.w)/2])
		}
	}
	if l.cfg.IdenticalSymmetry {
		for _, group := range identicalGroups(l.in) {
			for k := 0; k+1 < len(group); k++ {
				c, d := group[k], group[k+1]
				l.s.Add(e.lr[d][c].Not())
				l.s.Add(e.lr[c][d], e.ud[d][c].Not())
			}
		}
	}
}

// breakHeight reduces the anchor's y domain for height h, gated on g.
func (e *coordEncoding) breakHeight(h int, g sat.Lit) {
	l := e.layout
	c := e.anchor
	for o, or := range l.orient[c] {
		if or.h > h {
			continue
		}
		l.under(c, o, g.Not(), e.py[c][(h-or.h)/2])
	}
}
