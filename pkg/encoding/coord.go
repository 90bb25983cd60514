package encoding

import (
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// coordEncoding is the order-encoded coordinate model: px[c][e] ⇔ x_c ≤ e,
// py[c][f] ⇔ y_c ≤ f. lr[c][d] means c lies left of d, ud[c][d] that c lies
// below d.
type coordEncoding struct {
	*layout
	px, py [][]sat.Lit
	lr, ud [][]sat.Lit
	anchor int
}

func buildCoord(l *layout) *coordEncoding {
	s := l.s
	n, w, h := l.in.N(), l.width, l.height
	e := &coordEncoding{
		layout: l,
		px:     make([][]sat.Lit, n),
		py:     make([][]sat.Lit, n),
		lr:     make([][]sat.Lit, n),
		ud:     make([][]sat.Lit, n),
		anchor: -1,
	}

	for c := 0; c < n; c++ {
		e.px[c] = orderLits(s, w)
		e.py[c] = orderLits(s, h)
		e.lr[c] = make([]sat.Lit, n)
		e.ud[c] = make([]sat.Lit, n)

		for o, or := range l.orient[c] {
			l.under(c, o, e.px[c][w-or.w])
			l.under(c, o, e.py[c][h-or.h])
			// a disabled row f forces the top edge to f or below
			for f := 0; f < h; f++ {
				if f-or.h < 0 {
					l.under(c, o, l.rows[f])
				} else {
					l.under(c, o, l.rows[f], e.py[c][f-or.h])
				}
			}
		}
	}

	for c := 0; c < n; c++ {
		for d := c + 1; d < n; d++ {
			e.lr[c][d], e.lr[d][c] = s.NewLit(), s.NewLit()
			e.ud[c][d], e.ud[d][c] = s.NewLit(), s.NewLit()
			s.Add(e.lr[c][d], e.lr[d][c], e.ud[c][d], e.ud[d][c])

			e.separate(c, d, e.lr[c][d], e.px, w, func(or orientation) int { return or.w })
			e.separate(d, c, e.lr[d][c], e.px, w, func(or orientation) int { return or.w })
			e.separate(c, d, e.ud[c][d], e.py, h, func(or orientation) int { return or.h })
			e.separate(d, c, e.ud[d][c], e.py, h, func(or orientation) int { return or.h })
		}
	}

	if l.cfg.Symmetry {
		e.anchor = anchorModule(l)
	}
	if l.cfg.Symmetry || l.cfg.IdenticalSymmetry {
		e.breakStatic()
	}
	if e.anchor >= 0 {
		l.onHeight = e.breakHeight
	}
	return e
}

// orderLits allocates n order literals with v[e] ⇒ v[e+1] and v[n-1] true.
func orderLits(s *sat.Session, n int) []sat.Lit {
	v := s.NewLits(n)
	for k := 0; k+1 < n; k++ {
		s.Implies(v[k], v[k+1])
	}
	s.Add(v[n-1])
	return v
}

// separate encodes rel ⇒ pos_c + size_c ≤ pos_d on one axis, per
// orientation of c: rel ∧ pos_d ≤ k ⇒ pos_c ≤ k - size_c.
func (e *coordEncoding) separate(c, d int, rel sat.Lit, ord [][]sat.Lit, n int, size func(orientation) int) {
	for o, or := range e.orient[c] {
		sz := size(or)
		for k := 0; k < n; k++ {
			if k-sz < 0 {
				e.under(c, o, rel.Not(), ord[d][k].Not())
			} else {
				e.under(c, o, rel.Not(), ord[d][k].Not(), ord[c][k-sz])
			}
		}
	}
}

func (e *coordEncoding) Extract(m sat.Model) []solution.Placement {
	out := make([]solution.Placement, len(e.px))
	for c := range e.px {
		x := firstTrue(m, e.px[c], e.width-1)
		y := firstTrue(m, e.py[c], e.height-1)
		out[c] = placement(x, y, e.orientationOf(m, c))
	}
	return out
}
