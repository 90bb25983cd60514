package sat

// pairwiseLimit is the largest list encoded with pairwise clauses.
const pairwiseLimit = 6

// AtMostOne constrains at most one of lits to be true. Short lists use
// pairwise clauses and long ones a sequential counter.
func (s *Session) AtMostOne(lits ...Lit) {
	if len(lits) < 2 {
		return
	}
	if len(lits) <= pairwiseLimit {
		for i := range lits {
			for j := i + 1; j < len(lits); j++ {
				s.Add(lits[i].Not(), lits[j].Not())
			}
		}
		return
	}
	s.sequentialCounter(lits)
}

// sequentialCounter is Sinz's ladder: r[i] holds when one of lits[0..i] is
// true.
func (s *Session) sequentialCounter(lits []Lit) {
	n := len(lits)
	r := s.NewLits(n - 1)
	s.Implies(lits[0], r[0])
	for i := 1; i < n-1; i++ {
		s.Implies(lits[i], r[i])
		s.Implies(r[i-1], r[i])
		s.Add(lits[i].Not(), r[i-1].Not())
	}
	s.Add(lits[n-1].Not(), r[n-2].Not())
}

// AtLeastOne adds the clause over lits.
func (s *Session) AtLeastOne(lits ...Lit) {
	s.Add(lits...)
}

// ExactlyOne constrains exactly one of lits to be true.
func (s *Session) ExactlyOne(lits ...Lit) {
	s.AtLeastOne(lits...)
	s.AtMostOne(lits...)
}

// And returns a literal equivalent to the conjunction of lits.
func (s *Session) And(lits ...Lit) Lit {
	switch len(lits) {
	case 0:
		return s.True()
	case 1:
		return lits[0]
	}
	g := s.NewLit()
	back := make([]Lit, 0, len(lits)+1)
	back = append(back, g)
	for _, l := range lits {
		s.Implies(g, l)
		back = append(back, l.Not())
	}
	s.Add(back...)
	return g
}

// Equiv constrains a ⇔ b.
func (s *Session) Equiv(a, b Lit) {
	s.Implies(a, b)
	s.Implies(b, a)
}
