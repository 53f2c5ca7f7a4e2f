package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/stmtstats/internal/ledger"
)

// Column headers of a statement export. Matching is case-insensitive.
const (
	ColDate           = "Date"
	ColDescription    = "Description"
	ColAmount         = "Amount"
	ColRunningBalance = "Running Balance"
	ColCurrency       = "Currency"
)

var (
	requiredColumns = []string{ColDate, ColDescription, ColAmount, ColRunningBalance}
	knownColumns    = []string{ColDate, ColDescription, ColAmount, ColRunningBalance, ColCurrency}
)

// StatementParser reads statement CSV exports with a header row naming the
// Date, Description, Amount and Running Balance columns, plus an optional
// Currency column. Column order does not matter.
type StatementParser struct{}

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement CSV and returns its raw rows. Values are not
// validated here; see ledger.Normalize.
func (p *StatementParser) Parse(r io.Reader) ([]ledger.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 1 {
		return nil, nil
	}

	recs := make([]ledger.Record, 0, len(records)-1)
	for i, row := range records[1:] {
		recs = append(recs, ledger.Record{
			Line:           i + 2,
			Date:           row[cols[ColDate]],
			Description:    row[cols[ColDescription]],
			Amount:         row[cols[ColAmount]],
			RunningBalance: row[cols[ColRunningBalance]],
			Currency:       optional(row, cols, ColCurrency),
		})
	}
	return recs, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, known := range knownColumns {
			if strings.EqualFold(name, known) {
				cols[known] = i
			}
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("statement CSV missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func optional(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return row[i]
}
