package sat

import "fmt"

// Lit is a DIMACS literal. The zero value is not a literal.
type Lit int

// Not returns the negation of l.
func (l Lit) Not() Lit { return -l }

// Var returns the variable index of l.
func (l Lit) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Positive reports whether l is the unnegated variable.
func (l Lit) Positive() bool { return l > 0 }

func (l Lit) String() string {
	if l < 0 {
		return fmt.Sprintf("¬x%d", -l)
	}
	return fmt.Sprintf("x%d", l)
}

// Status is the answer of a satisfiability check.
type Status int

const (
	// Unknown means the check ran out of time or was cancelled.
	Unknown Status = iota
	Sat
	Unsat
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a status name; unknown names decode to Unknown.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "SAT":
		*s = Sat
	case "UNSAT":
		*s = Unsat
	default:
		*s = Unknown
	}
	return nil
}

// Model is a snapshot of a satisfying assignment, indexed by variable.
type Model []bool

// Value returns the truth value of l. Variables outside the model are false.
func (m Model) Value(l Lit) bool {
	v := l.Var()
	if v <= 0 || v >= len(m) {
		return l < 0
	}
	if l < 0 {
		return !m[v]
	}
	return m[v]
}

// True returns the literals of lits that hold in m.
func (m Model) True(lits []Lit) []Lit {
	var out []Lit
	for _, l := range lits {
		if m.Value(l) {
			out = append(out, l)
		}
	}
	return out
}
