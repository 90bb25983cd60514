// Package encoding translates a packing instance into clauses over a
// [sat.Session] for a fixed height bound H_ub.
//
// Two models are available:
//
//   - [ModelCell]: one-hot column and row selectors per module plus an
//     occupancy literal per module and board cell. Non-overlap is an
//     at-most-one constraint per cell.
//   - [ModelCoord]: order-encoded coordinates (x ≤ e, y ≤ f literals) and
//     four relative-position literals per pair of modules, at least one of
//     which must hold.
//
// Both models share the row-enable literals a[0..H_ub): a[i] allows row i to
// be used, and a[i+1] implies a[i]. Restricting the search to height h is a
// matter of assuming a[h-1] and ¬a[h]; see [Encoding.Premise]. Everything
// else is static, so one encoding serves every height in the search.
//
// # Rotation
//
// With rotation enabled each non-square module that fits both ways gets a
// rotation literal. Rows and columns that only one orientation can use imply
// that orientation; square modules and modules that fit only one way never
// get a rotation literal.
//
// # Symmetry breaking
//
// The cell model adds lex-leader constraints over the occupancy literals in
// row-major order (row, column, module): the horizontal mirror is static,
// the vertical and 180° mirrors depend on the height and are generated on
// the first Premise(h) call, gated on "h is the current height". Identical
// modules are ordered with the same lex-leader scheme.
//
// The coordinate model halves the domain of the largest module instead
// (x ≤ ⌊(W-w)/2⌋, and y ≤ ⌊(h-h')/2⌋ per height) and orders identical
// modules through their relative-position literals.
package encoding
