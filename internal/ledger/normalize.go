package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/cleared-dev/stmtstats/internal/model"
)

// DateFormat is the statement date layout (dd-mm-yyyy).
const DateFormat = "02-01-2006"

// Record is one raw statement row as read from a tabular source.
type Record struct {
	Line           int // 1-based line in the source, 0 if unknown
	Date           string
	Description    string
	Amount         string
	RunningBalance string
	Currency       string // optional
}

// Source is a named set of raw rows, typically one uploaded file.
type Source struct {
	Name    string
	Records []Record
}

// Normalize concatenates sources into a single ledger sorted by date. The sort
// is stable, so same-day rows keep their source order. Any malformed row fails
// the whole call; no partial ledger is returned. Sources are not modified.
func Normalize(sources ...Source) (model.Ledger, error) {
	n := 0
	for _, src := range sources {
		n += len(src.Records)
	}

	l := make(model.Ledger, 0, n)
	for _, src := range sources {
		for i, rec := range src.Records {
			row := rec.Line
			if row == 0 {
				row = i + 1
			}
			txn, err := parseRecord(src.Name, row, rec)
			if err != nil {
				return nil, err
			}
			l = append(l, txn)
		}
	}

	slices.SortStableFunc(l, func(a, b model.Transaction) int {
		return CompareDates(a.Date, b.Date)
	})
	return l, nil
}

func parseRecord(source string, row int, rec Record) (model.Transaction, error) {
	raw := strings.TrimSpace(rec.Date)
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return model.Transaction{}, &MalformedDateError{Source: source, Row: row, Value: rec.Date, Err: err}
	}

	amount, err := parseDecimal(rec.Amount)
	if err != nil {
		return model.Transaction{}, &MalformedAmountError{Source: source, Row: row, Column: "Amount", Value: rec.Amount, Err: err}
	}
	balance, err := parseDecimal(rec.RunningBalance)
	if err != nil {
		return model.Transaction{}, &MalformedAmountError{Source: source, Row: row, Column: "Running Balance", Value: rec.RunningBalance, Err: err}
	}

	cur, err := NormalizeCurrency(rec.Currency)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s row %d: %w", source, row, err)
	}

	return model.Transaction{
		Date:           civil.DateOf(t),
		Description:    rec.Description,
		Amount:         amount,
		RunningBalance: balance,
		Currency:       cur,
	}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(s)
}

// NormalizeCurrency returns the canonical ISO 4217 code for s, or the default
// currency when s is blank.
func NormalizeCurrency(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DefaultCurrency, nil
	}
	unit, err := currency.ParseISO(strings.ToUpper(s))
	if err != nil {
		return "", &InvalidCurrencyError{Value: s}
	}
	return unit.String(), nil
}

// CompareDates returns -1, 0 or +1 ordering a before, equal to, or after b.
func CompareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
