// Package render draws packings of a strip.
//
// # Overview
//
// A [solution.Solution] is rendered in one of several formats:
//
//   - ascii: a character grid, one letter per module, for terminals
//   - dot: Graphviz source with every module pinned at its position
//   - svg, png: the DOT source laid out by Graphviz neato
//   - pdf: an A4 drawing with a legend, via fpdf
//
// All formats draw the strip with its origin at the bottom left, matching
// the coordinates of the solution file.
//
//	out, err := render.Render(ctx, sol, render.FormatSVG, render.WithScale(0.5))
//
// The DOT output is stable for a given solution so it can be diffed and
// cached.
package render
