// Package analysis runs the statement pipeline end to end: normalize, filter,
// classify, aggregate, adjust, and derive the comparison series.
package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtstats/internal/aggregate"
	"github.com/cleared-dev/stmtstats/internal/ledger"
	"github.com/cleared-dev/stmtstats/internal/logger"
	"github.com/cleared-dev/stmtstats/internal/model"
	"github.com/cleared-dev/stmtstats/internal/period"
	"github.com/cleared-dev/stmtstats/internal/series"
)

// Metric names reported in Report.Metrics.
const (
	AverageNetChange               = "average_net_change"
	AverageAdjustedNetChange       = "average_adjusted_net_change"
	AverageIncome                  = "average_income"
	AverageAdjustedIncome          = "average_adjusted_income"
	AverageExpenses                = "average_expenses"
	AverageAdjustedExpenses        = "average_adjusted_expenses"
	IncomeCumulativeChange         = "income_cumulative_change_pct"
	AdjustedIncomeCumulativeChange = "adjusted_income_cumulative_change_pct"
)

// Request describes one analysis run.
type Request struct {
	Sources     []ledger.Source
	Range       *ledger.Range // nil analyses the whole ledger; a zero bound is open
	Granularity period.Granularity
	Currency    string      // empty keeps every currency
	Rule        ledger.Rule // nil uses ledger.DefaultRule
}

// Metric is a scalar result. Err is set when the value could not be
// computed; Value is meaningless in that case.
type Metric struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Err   error           `json:"-"`
}

// OK reports whether the metric has a value.
func (m Metric) OK() bool { return m.Err == nil }

// View is the set of periodic series for either the raw or the adjusted ledger.
type View struct {
	Balance             series.Series[decimal.Decimal]     `json:"balance"`
	NetChange           series.Series[decimal.NullDecimal] `json:"net_change"`
	CumulativeNetChange series.Series[decimal.NullDecimal] `json:"cumulative_net_change"`
	PercentChange       series.Series[decimal.NullDecimal] `json:"percent_change"`
	Flows               series.Series[aggregate.Flow]      `json:"flows"`

	// PercentChangeErr lists periods whose change had a zero base, if any.
	PercentChangeErr error `json:"-"`
}

// Report is the output of Run.
type Report struct {
	Granularity  period.Granularity             `json:"granularity"`
	Currency     string                         `json:"currency"`
	Range        ledger.Range                   `json:"-"`
	Transactions model.Ledger                   `json:"-"`
	Excluded     model.Ledger                   `json:"-"`
	Adjustments  series.Series[decimal.Decimal] `json:"adjustments"`
	Filtered     View                           `json:"filtered"`
	Adjusted     View                           `json:"adjusted"`
	Metrics      []Metric                       `json:"metrics"`
}

// Metric returns the named metric.
func (r *Report) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Run executes the pipeline. Ingestion, range, and configuration errors abort
// the run; failures of individual metrics are recorded on the report instead.
func Run(ctx context.Context, req Request) (*Report, error) {
	log := logger.FromContext(ctx)

	if !req.Granularity.IsValid() {
		return nil, &period.InvalidGranularityError{Code: req.Granularity.String()}
	}
	if req.Range != nil && !ledger.IsOpen(req.Range.Start) && !ledger.IsOpen(req.Range.End) {
		if err := req.Range.Validate(); err != nil {
			return nil, err
		}
	}
	rule := req.Rule
	if rule == nil {
		rule = ledger.DefaultRule()
	}

	full, err := ledger.Normalize(req.Sources...)
	if err != nil {
		return nil, fmt.Errorf("normalizing ledger: %w", err)
	}
	log.Debug().Int("sources", len(req.Sources)).Int("transactions", len(full)).Msg("ledger normalized")

	rng, ok := ledger.Bounds(full)
	if req.Range != nil {
		rng = openBounds(*req.Range, rng)
	}
	selected := model.Ledger{}
	if ok {
		selected, err = ledger.Filter(full, rng, req.Currency)
		if err != nil {
			return nil, fmt.Errorf("filtering ledger: %w", err)
		}
	}
	log.Debug().Stringer("range", rng).Str("currency", req.Currency).Int("transactions", len(selected)).Msg("ledger filtered")

	kept, excluded := ledger.Classify(selected, rule)
	log.Debug().Int("kept", len(kept)).Int("excluded", len(excluded)).Msg("ledger classified")

	g := req.Granularity
	balance := aggregate.EndBalances(kept, g)
	flows := aggregate.IncomeExpenses(selected, g)
	adjustments := aggregate.Adjustments(excluded, g)

	rep := &Report{
		Granularity:  g,
		Currency:     req.Currency,
		Range:        rng,
		Transactions: selected,
		Excluded:     excluded,
		Adjustments:  adjustments,
		Filtered:     derive(balance, flows),
		Adjusted: derive(
			aggregate.Adjust(balance, adjustments),
			aggregate.AdjustField(flows, series.Abs(adjustments), aggregate.Income),
		),
	}
	rep.Metrics = metrics(rep)

	for _, m := range rep.Metrics {
		if !m.OK() {
			log.Warn().Str("metric", m.Name).Err(m.Err).Msg("metric unavailable")
		}
	}
	if err := rep.Filtered.PercentChangeErr; err != nil {
		log.Warn().Err(err).Msg("percentage change undefined for some periods")
	}
	log.Debug().Int("periods", balance.Len()).Int("adjusted_periods", adjustments.Len()).Msg("analysis complete")
	return rep, nil
}

// openBounds fills open ends of r from the ledger span without inverting the range.
func openBounds(r, span ledger.Range) ledger.Range {
	if ledger.IsOpen(r.Start) {
		r.Start = span.Start
		if !ledger.IsOpen(r.End) && r.End.Before(r.Start) {
			r.Start = r.End
		}
	}
	if ledger.IsOpen(r.End) {
		r.End = span.End
		if r.End.Before(r.Start) {
			r.End = r.Start
		}
	}
	return r
}

func derive(balance series.Series[decimal.Decimal], flows series.Series[aggregate.Flow]) View {
	net := series.Diff(balance)
	pct, pctErr := series.PercentageChange(balance)
	return View{
		Balance:             balance,
		NetChange:           net,
		CumulativeNetChange: series.CumulativeSumValid(net),
		PercentChange:       pct,
		PercentChangeErr:    pctErr,
		Flows:               flows,
	}
}

func metrics(r *Report) []Metric {
	fIncome := aggregate.FieldOf(r.Filtered.Flows, aggregate.Income)
	aIncome := aggregate.FieldOf(r.Adjusted.Flows, aggregate.Income)

	return []Metric{
		metric(AverageNetChange)(series.MeanValid(r.Filtered.NetChange)),
		metric(AverageAdjustedNetChange)(series.MeanValid(r.Adjusted.NetChange)),
		metric(AverageIncome)(series.Mean(fIncome)),
		metric(AverageAdjustedIncome)(series.Mean(aIncome)),
		metric(AverageExpenses)(series.Mean(aggregate.FieldOf(r.Filtered.Flows, aggregate.Expenses))),
		metric(AverageAdjustedExpenses)(series.Mean(aggregate.FieldOf(r.Adjusted.Flows, aggregate.Expenses))),
		metric(IncomeCumulativeChange)(series.CumulativePercentageChange(fIncome)),
		metric(AdjustedIncomeCumulativeChange)(series.CumulativePercentageChange(aIncome)),
	}
}

func metric(name string) func(decimal.Decimal, error) Metric {
	return func(v decimal.Decimal, err error) Metric {
		return Metric{Name: name, Value: v, Err: err}
	}
}
