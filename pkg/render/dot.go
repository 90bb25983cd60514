package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorpack/pkg/solution"
)

// ToDOT converts a packing to Graphviz DOT for the neato engine. Every
// module is a fixed-size box pinned at its centre, in inches of o.scale per
// grid unit, with y growing upwards.
func ToDOT(sol *solution.Solution, opts ...Option) string {
	o := newOptions(opts)
	var buf bytes.Buffer
	buf.WriteString("graph packing {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  pad=0.2;\n")
	if o.title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", o.title)
	}
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, fontname=\"Helvetica\", penwidth=1];\n")
	buf.WriteString("\n")

	h := sol.Height
	if h == 0 {
		h = sol.UsedHeight()
	}
	fmt.Fprintf(&buf, "  board [label=\"\", style=dashed, fillcolor=none, color=\"#646464\", width=%s, height=%s, pos=\"%s,%s!\"];\n",
		inch(float64(sol.Width)*o.scale), inch(float64(h)*o.scale),
		inch(float64(sol.Width)*o.scale/2), inch(float64(h)*o.scale/2))

	for i, p := range sol.Placements {
		label := ""
		if o.labels {
			label = fmt.Sprintf("%d", i)
		}
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("fillcolor=%q", colorOf(i).hex()),
			fmt.Sprintf("width=%s", inch(float64(p.Width)*o.scale)),
			fmt.Sprintf("height=%s", inch(float64(p.Height)*o.scale)),
			fmt.Sprintf("pos=\"%s,%s!\"", inch((float64(p.X)+float64(p.Width)/2)*o.scale), inch((float64(p.Y)+float64(p.Height)/2)*o.scale)),
		}
		if p.Rotated {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  m%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inch(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// RenderSVG lays out DOT source with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderPNG lays out DOT source with neato and renders it to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
