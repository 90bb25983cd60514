// Package cp solves strip packing with a MiniZinc constraint model.
//
// It is an alternative to the SAT pipeline for comparison runs. The bundled
// model uses diffn with redundant cumulative constraints; a custom .mzn file
// with the same parameters (WIDTH, N, cwidth, cheight, HMIN, HMAX, ROTATION)
// and output variables (x, y, w, h, rot, height) can replace it.
//
// Requires the minizinc executable and a solver such as gecode:
//
//	res, err := cp.Run(ctx, in, cp.Options{Solver: "gecode", Timeout: time.Minute})
package cp

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/matzehuels/floorpack/pkg/bounds"
	"github.com/matzehuels/floorpack/pkg/instance"
)

// Model is the bundled MiniZinc model.
//
//go:embed strip.mzn
var Model string

// DZN renders the data file for in. The height domain is the floor and
// greedy bound of the instance.
func DZN(in *instance.Instance, b bounds.Bounds, rotation bool) string {
	ws := make([]string, in.N())
	hs := make([]string, in.N())
	for i, m := range in.Modules {
		ws[i] = fmt.Sprint(m.Width)
		hs[i] = fmt.Sprint(m.Height)
	}
	lo, hi := b.Range()

	var sb strings.Builder
	fmt.Fprintf(&sb, "WIDTH = %d;\n", in.Width)
	fmt.Fprintf(&sb, "N = %d;\n", in.N())
	fmt.Fprintf(&sb, "cwidth = [%s];\n", strings.Join(ws, ", "))
	fmt.Fprintf(&sb, "cheight = [%s];\n", strings.Join(hs, ", "))
	fmt.Fprintf(&sb, "HMIN = %d;\n", lo)
	fmt.Fprintf(&sb, "HMAX = %d;\n", hi)
	fmt.Fprintf(&sb, "ROTATION = %t;\n", rotation)
	return sb.String()
}
