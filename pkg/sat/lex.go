package sat

// LexOptions tunes LexLeq.
type LexOptions struct {
	// Guard, when non-zero, makes the whole constraint conditional on it.
	Guard Lit
	// Depth caps the number of compared positions; 0 compares all. A
	// truncated constraint is implied by the full one.
	Depth int
}

// LexLeq constrains a ≤ b lexicographically with false < true and index 0
// most significant. Prefix equality is tracked by half-reified literals:
// e[i-1] ∧ a[i] ⇒ b[i] and e[i-1] ∧ (a[i] ⇔ b[i]) ⇒ e[i]. Positions holding
// the same literal on both sides are skipped. It returns the number of
// compared positions.
func (s *Session) LexLeq(a, b []Lit, opt LexOptions) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	prev := opt.Guard
	compared := 0
	with := func(lits ...Lit) []Lit {
		if prev == 0 {
			return lits
		}
		return append(lits, prev.Not())
	}

	for i := 0; i < n; i++ {
		if opt.Depth > 0 && compared >= opt.Depth {
			break
		}
		x, y := a[i], b[i]
		if x == y {
			continue
		}
		compared++
		s.Add(with(x.Not(), y)...)
		if x == y.Not() {
			// the prefix can never extend past here
			break
		}
		if i == n-1 || (opt.Depth > 0 && compared >= opt.Depth) {
			break
		}
		e := s.NewLit()
		s.Add(with(x.Not(), y.Not(), e)...)
		s.Add(with(x, y, e)...)
		prev = e
	}
	return compared
}
