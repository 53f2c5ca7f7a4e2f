package series

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtstats/internal/period"
)

var (
	// ErrEmptySeries is returned by whole-series metrics given no values.
	ErrEmptySeries = errors.New("empty series")
	// ErrDivisionByZero is returned when a percentage has a zero base.
	ErrDivisionByZero = errors.New("division by zero")
)

var hundred = decimal.NewFromInt(100)

// DivisionByZeroError lists the periods whose percentage change could not be
// computed because the base value was zero. It matches ErrDivisionByZero.
type DivisionByZeroError struct {
	Periods []period.Period
}

func (e *DivisionByZeroError) Error() string {
	if len(e.Periods) == 0 {
		return ErrDivisionByZero.Error()
	}
	labels := make([]string, len(e.Periods))
	for i, p := range e.Periods {
		labels[i] = p.String()
	}
	return fmt.Sprintf("%s at %s", ErrDivisionByZero, strings.Join(labels, ", "))
}

func (e *DivisionByZeroError) Unwrap() error { return ErrDivisionByZero }

// Diff returns value[i] - value[i-1]. The first period has no predecessor and
// is reported as invalid.
func Diff(s Series[decimal.Decimal]) Series[decimal.NullDecimal] {
	out := make([]Point[decimal.NullDecimal], len(s.points))
	for i, p := range s.points {
		out[i].Period = p.Period
		if i == 0 {
			continue
		}
		out[i].Value = decimal.NewNullDecimal(p.Value.Sub(s.points[i-1].Value))
	}
	return Series[decimal.NullDecimal]{points: out}
}

// CumulativeSum returns the running total from the first period through each period.
func CumulativeSum(s Series[decimal.Decimal]) Series[decimal.Decimal] {
	out := make([]Point[decimal.Decimal], len(s.points))
	total := decimal.Zero
	for i, p := range s.points {
		total = total.Add(p.Value)
		out[i] = Point[decimal.Decimal]{Period: p.Period, Value: total}
	}
	return Series[decimal.Decimal]{points: out}
}

// CumulativeSumValid is CumulativeSum over a series with gaps: invalid values
// are skipped and stay invalid in the output.
func CumulativeSumValid(s Series[decimal.NullDecimal]) Series[decimal.NullDecimal] {
	out := make([]Point[decimal.NullDecimal], len(s.points))
	total := decimal.Zero
	for i, p := range s.points {
		out[i].Period = p.Period
		if !p.Value.Valid {
			continue
		}
		total = total.Add(p.Value.Decimal)
		out[i].Value = decimal.NewNullDecimal(total)
	}
	return Series[decimal.NullDecimal]{points: out}
}

// PercentageChange returns (value[i] - value[i-1]) / value[i-1] * 100.
//
// The first period is always invalid. A period whose predecessor is zero is
// also invalid, and the returned series is accompanied by a
// *DivisionByZeroError naming those periods. Every other period is computed,
// so callers may use the series even when err is non-nil.
func PercentageChange(s Series[decimal.Decimal]) (Series[decimal.NullDecimal], error) {
	out := make([]Point[decimal.NullDecimal], len(s.points))
	var zeroBase []period.Period
	for i, p := range s.points {
		out[i].Period = p.Period
		if i == 0 {
			continue
		}
		prev := s.points[i-1].Value
		if prev.IsZero() {
			zeroBase = append(zeroBase, p.Period)
			continue
		}
		out[i].Value = decimal.NewNullDecimal(p.Value.Sub(prev).Div(prev).Mul(hundred))
	}

	res := Series[decimal.NullDecimal]{points: out}
	if len(zeroBase) > 0 {
		return res, &DivisionByZeroError{Periods: zeroBase}
	}
	return res, nil
}

// CumulativePercentageChange returns (last - first) / first * 100 across the
// whole series.
func CumulativePercentageChange(s Series[decimal.Decimal]) (decimal.Decimal, error) {
	if len(s.points) == 0 {
		return decimal.Decimal{}, ErrEmptySeries
	}
	first := s.points[0]
	last := s.points[len(s.points)-1].Value
	if first.Value.IsZero() {
		return decimal.Decimal{}, &DivisionByZeroError{Periods: []period.Period{first.Period}}
	}
	return last.Sub(first.Value).Div(first.Value).Mul(hundred), nil
}

// Mean returns the arithmetic mean of the values.
func Mean(s Series[decimal.Decimal]) (decimal.Decimal, error) {
	if len(s.points) == 0 {
		return decimal.Decimal{}, ErrEmptySeries
	}
	return decimal.Avg(s.points[0].Value, valuesFrom(s.points[1:])...), nil
}

// MeanValid returns the mean of the valid values, ignoring gaps.
func MeanValid(s Series[decimal.NullDecimal]) (decimal.Decimal, error) {
	var vals []decimal.Decimal
	for _, p := range s.points {
		if p.Value.Valid {
			vals = append(vals, p.Value.Decimal)
		}
	}
	if len(vals) == 0 {
		return decimal.Decimal{}, ErrEmptySeries
	}
	return decimal.Avg(vals[0], vals[1:]...), nil
}

// Abs returns the absolute value of every element.
func Abs(s Series[decimal.Decimal]) Series[decimal.Decimal] {
	return Map(s, func(_ period.Period, v decimal.Decimal) decimal.Decimal { return v.Abs() })
}

func valuesFrom(ps []Point[decimal.Decimal]) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}
