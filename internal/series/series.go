// Package series holds period-indexed value sequences and the derived
// calculations (net change, running totals, percentage change) built on them.
package series

import (
	"encoding/json"
	"slices"

	"github.com/cleared-dev/stmtstats/internal/period"
)

// Point is one period/value pair.
type Point[V any] struct {
	Period period.Period `json:"period"`
	Value  V             `json:"value"`
}

// Series maps periods to values. Periods are unique and iterate in ascending
// order regardless of how the series was built.
type Series[V any] struct {
	points []Point[V]
}

// New builds a series from points in any order. When a period repeats, the
// last point for it wins.
func New[V any](points ...Point[V]) Series[V] {
	ps := slices.Clone(points)
	slices.SortStableFunc(ps, func(a, b Point[V]) int { return a.Period.Compare(b.Period) })

	out := ps[:0]
	for _, p := range ps {
		if n := len(out); n > 0 && out[n-1].Period == p.Period {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return Series[V]{points: out}
}

// FromMap builds a series from an unordered map.
func FromMap[V any](m map[period.Period]V) Series[V] {
	ps := make([]Point[V], 0, len(m))
	for p, v := range m {
		ps = append(ps, Point[V]{Period: p, Value: v})
	}
	return New(ps...)
}

// Map applies fn to every value, keeping the period index.
func Map[V, W any](s Series[V], fn func(period.Period, V) W) Series[W] {
	out := make([]Point[W], len(s.points))
	for i, p := range s.points {
		out[i] = Point[W]{Period: p.Period, Value: fn(p.Period, p.Value)}
	}
	return Series[W]{points: out}
}

// Len returns the number of periods.
func (s Series[V]) Len() int { return len(s.points) }

// At returns the i-th point in period order.
func (s Series[V]) At(i int) Point[V] { return s.points[i] }

// Points returns a copy of the points in period order.
func (s Series[V]) Points() []Point[V] { return slices.Clone(s.points) }

// Periods returns the period index in ascending order.
func (s Series[V]) Periods() []period.Period {
	out := make([]period.Period, len(s.points))
	for i, p := range s.points {
		out[i] = p.Period
	}
	return out
}

// Values returns the values in period order.
func (s Series[V]) Values() []V {
	out := make([]V, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Get returns the value for p.
func (s Series[V]) Get(p period.Period) (V, bool) {
	i, ok := slices.BinarySearchFunc(s.points, p, func(pt Point[V], target period.Period) int {
		return pt.Period.Compare(target)
	})
	if !ok {
		var zero V
		return zero, false
	}
	return s.points[i].Value, true
}

// Has reports whether p is in the index.
func (s Series[V]) Has(p period.Period) bool {
	_, ok := s.Get(p)
	return ok
}

// Pair is a period label with a rendered value.
type Pair struct {
	Period string `json:"period"`
	Value  string `json:"value"`
}

// Pairs renders the series as ordered label/value pairs.
func (s Series[V]) Pairs(format func(V) string) []Pair {
	out := make([]Pair, len(s.points))
	for i, p := range s.points {
		out[i] = Pair{Period: p.Period.String(), Value: format(p.Value)}
	}
	return out
}

// MarshalJSON encodes the series as an ordered array of {period, value}.
func (s Series[V]) MarshalJSON() ([]byte, error) {
	if s.points == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.points)
}
