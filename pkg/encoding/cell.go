package encoding

import (
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// cellEncoding is the grid model: cx[c][j] and cy[c][i] select the lower
// left corner of module c, cb[c][i][j] marks the cells it covers.
type cellEncoding struct {
	*layout
	cx [][]sat.Lit
	cy [][]sat.Lit
	cb [][][]sat.Lit
}

func buildCell(l *layout) *cellEncoding {
	s := l.s
	n, w, h := l.in.N(), l.width, l.height
	e := &cellEncoding{
		layout: l,
		cx:     make([][]sat.Lit, n),
		cy:     make([][]sat.Lit, n),
		cb:     make([][][]sat.Lit, n),
	}

	for c := 0; c < n; c++ {
		e.cx[c] = s.NewLits(w)
		e.cy[c] = s.NewLits(h)
		s.ExactlyOne(e.cx[c]...)
		s.ExactlyOne(e.cy[c]...)

		e.cb[c] = make([][]sat.Lit, h)
		for i := range e.cb[c] {
			e.cb[c][i] = s.NewLits(w)
		}
	}

	for c := 0; c < n; c++ {
		for o, or := range l.orient[c] {
			// corners that leave the board exclude this orientation
			for j := w - or.w + 1; j < w; j++ {
				l.under(c, o, e.cx[c][j].Not())
			}
			for i := h - or.h + 1; i < h; i++ {
				l.under(c, o, e.cy[c][i].Not())
			}
			// the top row of the module must be enabled
			for i := 0; i+or.h <= h; i++ {
				l.under(c, o, e.cy[c][i].Not(), l.rows[i+or.h-1])
			}

			rowSpan := span(s, e.cy[c], or.h)
			colSpan := span(s, e.cx[c], or.w)
			for i := 0; i < h; i++ {
				for j := 0; j < w; j++ {
					cell := e.cb[c][i][j]
					l.under(c, o, rowSpan[i].Not(), colSpan[j].Not(), cell)
					l.under(c, o, cell.Not(), rowSpan[i])
					l.under(c, o, cell.Not(), colSpan[j])
				}
			}
		}
	}

	column := make([]sat.Lit, n)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			for c := 0; c < n; c++ {
				column[c] = e.cb[c][i][j]
			}
			s.AtMostOne(column...)
		}
	}

	if l.cfg.Symmetry || l.cfg.IdenticalSymmetry {
		e.breakStatic()
	}
	if l.cfg.Symmetry {
		l.onHeight = e.breakHeight
	}
	return e
}

// span returns literals s[k] ⇔ sel[k'] for some anchor k' in
// [k-size+1, k] with k'+size ≤ len(sel), i.e. "the interval of the given
// size anchored by the one-hot selector covers k".
func span(s *sat.Session, sel []sat.Lit, size int) []sat.Lit {
	n := len(sel)
	out := s.NewLits(n)
	for k := 0; k < n; k++ {
		var anchors []sat.Lit
		for a := k - size + 1; a <= k; a++ {
			if a < 0 || a+size > n {
				continue
			}
			anchors = append(anchors, sel[a])
			s.Implies(sel[a], out[k])
		}
		s.Implies(out[k], anchors...)
	}
	return out
}

func (e *cellEncoding) Extract(m sat.Model) []solution.Placement {
	out := make([]solution.Placement, len(e.cx))
	for c := range e.cx {
		x := firstTrue(m, e.cx[c], 0)
		y := firstTrue(m, e.cy[c], 0)
		out[c] = placement(x, y, e.orientationOf(m, c))
	}
	return out
}
