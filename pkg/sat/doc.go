// Package sat is the boolean layer between the packing encodings and the
// SAT engines that decide them.
//
// # Literals
//
// A [Lit] is a DIMACS literal: variable v is Lit(v), its negation Lit(-v).
// Variables are allocated by a [Session] and never reused.
//
// # Backends
//
// A [Backend] accepts clauses and answers satisfiability queries under
// assumptions with a tri-state [Status]. Two engines are provided:
//
//   - [NewGini]: incremental CDCL from github.com/go-air/gini. Learned clauses
//     survive between checks, which is what makes the height search cheap.
//   - [NewGophersat]: github.com/crillab/gophersat. It is not incremental;
//     each check rebuilds the problem with the assumptions as unit clauses,
//     and a check that times out keeps running in the background.
//
// # Sessions
//
// [Session] wraps a backend with variable allocation, clause accounting and
// scopes. [Session.Push] opens a scope guarded by a fresh activation literal;
// clauses added inside the scope are disabled by [Session.Pop]. Static
// clauses added outside any scope are never retracted.
//
//	s := sat.NewSession(sat.NewGini())
//	x, y := s.NewLit(), s.NewLit()
//	s.Add(x, y)
//	res := s.Check(ctx, time.Second, x.Not())
//	if res.Status == sat.Sat && res.Model.Value(y) { ... }
//
// # Constraints
//
// [Session.AtMostOne], [Session.ExactlyOne] and [Session.LexLeq] generate
// the clause patterns shared by every encoding.
package sat
