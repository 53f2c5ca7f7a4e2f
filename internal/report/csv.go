package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/stmtstats/internal/analysis"
)

// CSVHeader is the header row written by WriteCSV.
const CSVHeader = "section,series,period,value"

// WriteCSV renders rep in long form: one row per (series, period). Absent
// values are written as empty fields. Metrics follow under section "metric"
// with an empty period.
func WriteCSV(w io.Writer, rep *analysis.Report, opts Options) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, sec := range sections(rep, opts) {
		for _, c := range sec.cols {
			for _, pt := range c.values.Points() {
				val := ""
				if pt.Value.Valid {
					val = pt.Value.Decimal.String()
				}
				if err := cw.Write([]string{sec.key, c.name, pt.Period.String(), val}); err != nil {
					return fmt.Errorf("writing %s row: %w", sec.key, err)
				}
			}
		}
	}

	for _, m := range visibleMetrics(rep, opts) {
		val := ""
		if m.OK() {
			val = m.Value.String()
		}
		if err := cw.Write([]string{"metric", m.Name, "", val}); err != nil {
			return fmt.Errorf("writing metric %s: %w", m.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
