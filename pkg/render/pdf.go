package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/floorpack/pkg/solution"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendWidth  = 70.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// PDF draws the packing on an A4 landscape page with a module legend on the
// right. Long legends continue on further pages.
func PDF(sol *solution.Solution, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	title := o.title
	if title == "" {
		title = "Packing"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight,
		fmt.Sprintf("%s: width %d, height %d, %d modules", title, sol.Width, sol.Height, len(sol.Placements)),
		"", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - legendWidth
	drawHeight := pageHeight - drawAreaTop - marginBottom
	h := float64(sol.Height)
	if h == 0 {
		h = 1
	}
	scale := math.Min(drawWidth/float64(sol.Width), drawHeight/h)
	canvasW := float64(sol.Width) * scale
	canvasH := h * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	bottom := drawAreaTop + canvasH

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, drawAreaTop, canvasW, canvasH, "FD")

	for i, p := range sol.Placements {
		col := colorOf(i)
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := bottom - float64(p.Top())*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if o.labels && pw > 6 && ph > 5 {
			label := fmt.Sprintf("%d", i)
			pdf.SetFont("Helvetica", "", math.Min(10, ph*1.5))
			pdf.SetTextColor(0, 0, 0)
			pdf.SetXY(px, py+ph/2-2)
			pdf.CellFormat(pw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawLegend(pdf, sol)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLegend(pdf *fpdf.Fpdf, sol *solution.Solution) {
	const rowHeight = 5.0
	x := pageWidth - marginRight - legendWidth + 5
	y := drawAreaTop
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)

	for i, p := range sol.Placements {
		if y+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		col := colorOf(i)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+1, 3, 3, "F")
		text := fmt.Sprintf("%d: %dx%d at (%d,%d)", i, p.Width, p.Height, p.X, p.Y)
		if p.Rotated {
			text += " rotated"
		}
		pdf.SetXY(x+5, y)
		pdf.CellFormat(legendWidth-10, rowHeight, text, "", 0, "L", false, 0, "")
		y += rowHeight
	}
}
