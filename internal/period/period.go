package period

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Period identifies one bucket of a granularity by the first day it covers.
// The zero value is not a valid period; build periods with Floor.
type Period struct {
	granularity Granularity
	start       civil.Date
}

// Floor returns the period of granularity g that contains d. Weeks are ISO
// weeks starting on Monday; months, quarters and years follow the calendar.
func Floor(d civil.Date, g Granularity) Period {
	var start civil.Date
	switch g {
	case Day:
		start = d
	case Week:
		offset := (int(d.In(time.UTC).Weekday()) + 6) % 7
		start = d.AddDays(-offset)
	case Month:
		start = civil.Date{Year: d.Year, Month: d.Month, Day: 1}
	case Quarter:
		m := time.Month((int(d.Month)-1)/3*3 + 1)
		start = civil.Date{Year: d.Year, Month: m, Day: 1}
	case Year:
		start = civil.Date{Year: d.Year, Month: time.January, Day: 1}
	default:
		panic(fmt.Sprintf("period: floor with %v", g))
	}
	return Period{granularity: g, start: start}
}

// Index maps a date to its period for a granularity code.
func Index(d civil.Date, code string) (Period, error) {
	g, err := ParseGranularity(code)
	if err != nil {
		return Period{}, err
	}
	return Floor(d, g), nil
}

// Granularity returns the bucket width.
func (p Period) Granularity() Granularity { return p.granularity }

// Start returns the first day covered by the period.
func (p Period) Start() civil.Date { return p.start }

// End returns the last day covered by the period.
func (p Period) End() civil.Date { return p.Next().start.AddDays(-1) }

// Contains reports whether d falls inside the period.
func (p Period) Contains(d civil.Date) bool {
	return Floor(d, p.granularity) == p
}

// Next returns the following period of the same granularity.
func (p Period) Next() Period { return p.shift(1) }

// Prev returns the preceding period of the same granularity.
func (p Period) Prev() Period { return p.shift(-1) }

func (p Period) shift(n int) Period {
	switch p.granularity {
	case Day:
		return Period{granularity: Day, start: p.start.AddDays(n)}
	case Week:
		return Period{granularity: Week, start: p.start.AddDays(7 * n)}
	case Month:
		return Period{granularity: Month, start: addMonths(p.start, n)}
	case Quarter:
		return Period{granularity: Quarter, start: addMonths(p.start, 3*n)}
	case Year:
		return Period{granularity: Year, start: addMonths(p.start, 12*n)}
	}
	panic(fmt.Sprintf("period: shift of %v", p.granularity))
}

// addMonths expects d to be the first of a month.
func addMonths(d civil.Date, n int) civil.Date {
	return civil.DateOf(time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Compare orders periods by start date, then by granularity.
// It returns -1, 0 or +1.
func (p Period) Compare(other Period) int {
	switch {
	case p.start.Before(other.start):
		return -1
	case p.start.After(other.start):
		return 1
	case p.granularity < other.granularity:
		return -1
	case p.granularity > other.granularity:
		return 1
	}
	return 0
}

// Before reports whether p sorts strictly before other.
func (p Period) Before(other Period) bool { return p.Compare(other) < 0 }

// String renders a stable label:
// "2024-03-05" (D), "2024-W10" (W), "2024-03" (M), "2024-Q1" (Q), "2024" (Y).
func (p Period) String() string {
	switch p.granularity {
	case Day:
		return p.start.String()
	case Week:
		year, week := p.start.In(time.UTC).ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Month:
		return fmt.Sprintf("%04d-%02d", p.start.Year, int(p.start.Month))
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", p.start.Year, (int(p.start.Month)-1)/3+1)
	case Year:
		return fmt.Sprintf("%04d", p.start.Year)
	}
	return "invalid-period"
}

// MarshalText encodes the period as its label.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
