package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	runsSheet   = "Runs"
	trialsSheet = "Trials"
)

var trialColumns = []string{"instance", "height", "outcome", "achieved", "elapsed", "remaining"}

// WriteXLSX writes a workbook with a Runs sheet (the CSV columns plus the
// error message) and a Trials sheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), runsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(trialsSheet); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	runs := make([][]any, 0, len(rows)+1)
	runs = append(runs, toAny(append(append([]string{}, Columns...), "error")))
	for _, r := range rows {
		var height any
		if r.Height > 0 {
			height = r.Height
		}
		runs = append(runs, []any{
			r.Instance, r.Status, height, r.Lower, r.Upper,
			r.TotalTime.Seconds(), r.BuildTime.Seconds(), len(r.Trials), r.Error,
		})
	}
	if err := writeSheet(f, runsSheet, runs, header); err != nil {
		return err
	}

	trials := [][]any{toAny(trialColumns)}
	for _, r := range rows {
		for _, tr := range r.Trials {
			var remaining any
			if tr.Remaining >= 0 {
				remaining = tr.Remaining.Seconds()
			}
			var achieved any
			if tr.Achieved > 0 {
				achieved = tr.Achieved
			}
			trials = append(trials, []any{r.Instance, tr.Height, tr.Outcome.String(), achieved, tr.Elapsed.Seconds(), remaining})
		}
	}
	if err := writeSheet(f, trialsSheet, trials, header); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s!%s: %w", sheet, cell, err)
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
