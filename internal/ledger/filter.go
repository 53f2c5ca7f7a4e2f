package ledger

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/cleared-dev/stmtstats/internal/model"
)

// Range is an inclusive calendar date range.
type Range struct {
	Start civil.Date
	End   civil.Date
}

// IsOpen reports whether d is the zero date, used for an unbounded range end.
func IsOpen(d civil.Date) bool { return d == (civil.Date{}) }

// Validate returns an *InvalidRangeError if Start is after End.
func (r Range) Validate() error {
	if r.Start.After(r.End) {
		return &InvalidRangeError{Start: r.Start, End: r.End}
	}
	return nil
}

// Contains reports whether d lies within the range, bounds included.
func (r Range) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// Bounds returns the range spanned by a sorted ledger, or false if it is empty.
func Bounds(l model.Ledger) (Range, bool) {
	first, ok := l.First()
	if !ok {
		return Range{}, false
	}
	last, _ := l.Last()
	return Range{Start: first, End: last}, true
}

// Filter returns the transactions dated within r whose currency matches cur.
// An empty cur keeps every currency. The input ledger is not modified and the
// result keeps its order.
func Filter(l model.Ledger, r Range, cur string) (model.Ledger, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if cur != "" {
		norm, err := NormalizeCurrency(cur)
		if err != nil {
			return nil, err
		}
		cur = norm
	}

	out := make(model.Ledger, 0, len(l))
	for _, txn := range l {
		if !r.Contains(txn.Date) {
			continue
		}
		if cur != "" && !strings.EqualFold(txn.Currency, cur) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}
