// Package report writes batch summaries as CSV or Excel workbooks.
//
// A report has one row per instance with the columns
//
//	instance, status, height, lower, upper, total_time, build_time, trials
//
// Times are in seconds. The XLSX variant adds a second sheet listing every
// satisfiability check of every instance.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/search"
)

// Columns is the header of the runs table.
var Columns = []string{"instance", "status", "height", "lower", "upper", "total_time", "build_time", "trials"}

// Row is one instance of a batch report.
type Row struct {
	Instance  string
	Status    string
	Height    int
	Lower     int
	Upper     int
	TotalTime time.Duration
	BuildTime time.Duration
	Trials    []search.Trial
	Error     string
}

// FromBatch builds report rows in batch order. Failed items keep their
// file name and error message.
func FromBatch(items []pipeline.BatchItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		row := Row{Instance: it.Path, Status: it.Status()}
		if it.Instance != nil && it.Instance.Name != "" {
			row.Instance = it.Instance.Name
		}
		if it.Err != nil {
			row.Error = it.Err.Error()
		}
		if it.Result != nil {
			res := it.Result.Search
			row.Height = res.Height()
			row.Lower = res.Bounds.Lower
			row.Upper = res.Bounds.Upper
			row.TotalTime = res.TotalTime()
			row.BuildTime = res.BuildTime
			row.Trials = res.Trials
		}
		rows = append(rows, row)
	}
	return rows
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func (r Row) record() []string {
	height := ""
	if r.Height > 0 {
		height = strconv.Itoa(r.Height)
	}
	return []string{
		r.Instance,
		r.Status,
		height,
		strconv.Itoa(r.Lower),
		strconv.Itoa(r.Upper),
		seconds(r.TotalTime),
		seconds(r.BuildTime),
		strconv.Itoa(len(r.Trials)),
	}
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Format is a report file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported report extension %q (use .csv or .xlsx)", path)
}

// WriteFile writes rows to path in the format implied by its extension.
func WriteFile(path string, rows []Row) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if format == FormatXLSX {
		err = WriteXLSX(f, rows)
	} else {
		err = WriteCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
