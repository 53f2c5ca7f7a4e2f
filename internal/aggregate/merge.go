package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtstats/internal/period"
	"github.com/cleared-dev/stmtstats/internal/series"
)

// Reindex aligns adj onto index: periods missing from adj become zero and
// periods not in index are dropped.
func Reindex(adj series.Series[decimal.Decimal], index []period.Period) series.Series[decimal.Decimal] {
	ps := make([]series.Point[decimal.Decimal], len(index))
	for i, p := range index {
		v, ok := adj.Get(p)
		if !ok {
			v = decimal.Zero
		}
		ps[i] = series.Point[decimal.Decimal]{Period: p, Value: v}
	}
	return series.New(ps...)
}

// Adjust adds adj to base element-wise over base's period index. It never
// introduces a period that base does not have.
func Adjust(base, adj series.Series[decimal.Decimal]) series.Series[decimal.Decimal] {
	aligned := Reindex(adj, base.Periods())
	return series.Map(base, func(p period.Period, v decimal.Decimal) decimal.Decimal {
		a, _ := aligned.Get(p)
		return v.Add(a)
	})
}

// AdjustField adds adj to a single field of every Flow in base, over base's
// period index.
func AdjustField(base series.Series[Flow], adj series.Series[decimal.Decimal], field Field) series.Series[Flow] {
	aligned := Reindex(adj, base.Periods())
	return series.Map(base, func(p period.Period, f Flow) Flow {
		a, _ := aligned.Get(p)
		return f.Add(field, a)
	})
}

// FieldOf projects one field of a Flow series into a scalar series.
func FieldOf(s series.Series[Flow], field Field) series.Series[decimal.Decimal] {
	return series.Map(s, func(_ period.Period, f Flow) decimal.Decimal { return f.Get(field) })
}
