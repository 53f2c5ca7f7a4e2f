// Package report renders analysis results as text tables, CSV or JSON.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtstats/internal/aggregate"
	"github.com/cleared-dev/stmtstats/internal/analysis"
	"github.com/cleared-dev/stmtstats/internal/config"
	"github.com/cleared-dev/stmtstats/internal/period"
	"github.com/cleared-dev/stmtstats/internal/series"
)

// Absent is printed for periods without a value.
const Absent = "n/a"

// Options selects which parts of a report are rendered.
type Options struct {
	ShowAdjusted bool
	ShowIncome   bool
	ShowExpenses bool
	ShowTables   bool
}

// OptionsFrom converts display config into render options.
func OptionsFrom(d config.DisplayConfig) Options {
	return Options{
		ShowAdjusted: d.ShowAdjusted,
		ShowIncome:   d.ShowIncome,
		ShowExpenses: d.ShowExpenses,
		ShowTables:   d.ShowTables,
	}
}

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, csv or json)", s)
}

// Write renders rep in format f.
func Write(w io.Writer, f Format, rep *analysis.Report, opts Options) error {
	switch f {
	case FormatText:
		return WriteText(w, rep, opts)
	case FormatCSV:
		return WriteCSV(w, rep, opts)
	case FormatJSON:
		return WriteJSON(w, rep, opts)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// column is one named scalar series rendered side by side with others.
type column struct {
	name   string
	values series.Series[decimal.NullDecimal]
	pct    bool
}

func valid(s series.Series[decimal.Decimal]) series.Series[decimal.NullDecimal] {
	return series.Map(s, func(_ period.Period, v decimal.Decimal) decimal.NullDecimal {
		return decimal.NewNullDecimal(v)
	})
}

func flowField(s series.Series[aggregate.Flow], f aggregate.Field) series.Series[decimal.NullDecimal] {
	return valid(aggregate.FieldOf(s, f))
}

// sections returns the titled column groups selected by opts.
func sections(rep *analysis.Report, opts Options) []section {
	both := func(name string, filtered, adjusted series.Series[decimal.NullDecimal], pct bool) []column {
		cols := []column{{name: name, values: filtered, pct: pct}}
		if opts.ShowAdjusted {
			cols = append(cols, column{name: "Adjusted " + name, values: adjusted, pct: pct})
		}
		return cols
	}

	f, a := rep.Filtered, rep.Adjusted
	label := rep.Granularity.Label()
	out := []section{
		{key: "balance", title: "End-of-Period Balance (" + label + ")",
			cols: both("Balance", valid(f.Balance), valid(a.Balance), false)},
		{key: "net_change", title: "Net Change",
			cols: both("Net Change", f.NetChange, a.NetChange, false)},
		{key: "cumulative_net_change", title: "Cumulative Net Change",
			cols: both("Cumulative Net Change", f.CumulativeNetChange, a.CumulativeNetChange, false)},
		{key: "percent_change", title: "Percentage Change",
			cols: both("Percentage Change", f.PercentChange, a.PercentChange, true)},
	}

	var flows []column
	if opts.ShowAdjusted {
		flows = append(flows, column{name: "Adjusted Income", values: flowField(a.Flows, aggregate.Income)})
	}
	if opts.ShowIncome {
		flows = append(flows, column{name: "Income", values: flowField(f.Flows, aggregate.Income)})
	}
	if opts.ShowExpenses {
		flows = append(flows, column{name: "Expenses", values: flowField(f.Flows, aggregate.Expenses)})
	}
	out = append(out, section{key: "income_expenses", title: label + " Income and Expenses", cols: flows})

	if opts.ShowAdjusted && opts.ShowTables {
		out = append(out, section{key: "adjustments", title: "Adjustments",
			cols: []column{{name: "Adjustment", values: valid(rep.Adjustments)}}})
	}
	return out
}

type section struct {
	key   string
	title string
	cols  []column
}

// periodsOf merges the indexes of all columns in ascending order.
func periodsOf(cols []column) []period.Period {
	seen := make(map[period.Period]struct{})
	for _, c := range cols {
		for _, p := range c.values.Periods() {
			seen[p] = struct{}{}
		}
	}
	return series.FromMap(seen).Periods()
}

func nullString(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func formatValue(v decimal.NullDecimal, pct bool) string {
	if !v.Valid {
		return Absent
	}
	if pct {
		return v.Decimal.StringFixed(2) + "%"
	}
	return v.Decimal.StringFixed(2)
}

// visibleMetrics drops adjusted metrics unless requested.
func visibleMetrics(rep *analysis.Report, opts Options) []analysis.Metric {
	var out []analysis.Metric
	for _, m := range rep.Metrics {
		if !opts.ShowAdjusted && strings.Contains(m.Name, "adjusted") {
			continue
		}
		out = append(out, m)
	}
	return out
}
