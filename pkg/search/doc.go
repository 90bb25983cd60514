// Package search finds the minimum board height by repeated satisfiability
// checks over one incrementally extended encoding.
//
// The static constraints are built once for the greedy upper bound. Each
// trial restricts the board to a height h through assumption literals (or a
// scoped set of unit clauses) and asks the backend for a packing:
//
//	INIT → BUILD_STATIC → TRY(h) → SAT   → RECORD → TRY(next) | STOP
//	                             → UNSAT → STOP (descending) | TRY(h+1) (ascending)
//	                             → UNKNOWN → STOP (timed out)
//
// Descending search starts at the upper bound and continues below the best
// height found so far until a check fails; the last witness is optimal.
// Ascending search starts at the floor of the estimated range and stops at
// the first satisfiable height.
//
// A single time budget covers all checks of a run: each check receives the
// remaining budget as its timeout and the budget shrinks by the check's
// wall-clock time. Running out of time returns the best packing found so far
// with status TIMED_OUT instead of an error.
package search
