package analysis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtstats/internal/ledger"
	"github.com/cleared-dev/stmtstats/internal/logger"
	"github.com/cleared-dev/stmtstats/internal/period"
	"github.com/cleared-dev/stmtstats/internal/series"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func statement() ledger.Source {
	return ledger.Source{Name: "statement.csv", Records: []ledger.Record{
		{Date: "10-01-2024", Description: "Salary", Amount: "100.00", RunningBalance: "100.00"},
		{Date: "20-02-2024", Description: "Refund", Amount: "70.00", RunningBalance: "150.00"},
		{Date: "05-02-2024", Description: "GBP to EUR", Amount: "-20.00", RunningBalance: "80.00"},
	}}
}

func run(t *testing.T, req Request) *Report {
	t.Helper()
	rep, err := Run(context.Background(), req)
	require.NoError(t, err)
	return rep
}

func TestRun_BalanceScenario(t *testing.T) {
	rep := run(t, Request{Sources: []ledger.Source{statement()}, Granularity: period.Month, Currency: "GBP"})

	assert.Len(t, rep.Transactions, 3)
	assert.Len(t, rep.Excluded, 1)

	bal := rep.Filtered.Balance
	require.Equal(t, 2, bal.Len())
	assert.Equal(t, "2024-01", bal.At(0).Period.String())
	assert.True(t, dec("100").Equal(bal.At(0).Value))
	assert.True(t, dec("150").Equal(bal.At(1).Value))

	require.Equal(t, 1, rep.Adjustments.Len())
	assert.True(t, dec("20").Equal(rep.Adjustments.At(0).Value))

	adj := rep.Adjusted.Balance
	assert.True(t, dec("100").Equal(adj.At(0).Value))
	assert.True(t, dec("170").Equal(adj.At(1).Value))

	net := rep.Filtered.NetChange
	assert.False(t, net.At(0).Value.Valid)
	assert.True(t, dec("50").Equal(net.At(1).Value.Decimal))
	assert.True(t, dec("70").Equal(rep.Adjusted.NetChange.At(1).Value.Decimal))

	pct := rep.Filtered.PercentChange
	assert.NoError(t, rep.Filtered.PercentChangeErr)
	assert.True(t, dec("50").Equal(pct.At(1).Value.Decimal))
}

func TestRun_IncomeExpenses(t *testing.T) {
	rep := run(t, Request{Sources: []ledger.Source{statement()}, Granularity: period.Month})

	flows := rep.Filtered.Flows
	require.Equal(t, 2, flows.Len())
	feb := flows.At(1).Value
	// The conversion still counts in the unadjusted figures.
	assert.True(t, dec("70").Equal(feb.Income))
	assert.True(t, dec("20").Equal(feb.Expenses))

	adjFeb := rep.Adjusted.Flows.At(1).Value
	assert.True(t, dec("90").Equal(adjFeb.Income))
	assert.True(t, dec("20").Equal(adjFeb.Expenses))
	assert.Equal(t, flows.Periods(), rep.Adjusted.Flows.Periods())
}

func TestRun_Metrics(t *testing.T) {
	rep := run(t, Request{Sources: []ledger.Source{statement()}, Granularity: period.Month})

	want := map[string]string{
		AverageNetChange:               "50",
		AverageAdjustedNetChange:       "70",
		AverageIncome:                  "85",
		AverageAdjustedIncome:          "95",
		AverageExpenses:                "10",
		AverageAdjustedExpenses:        "10",
		IncomeCumulativeChange:         "-30",
		AdjustedIncomeCumulativeChange: "-10",
	}
	require.Len(t, rep.Metrics, len(want))
	for name, v := range want {
		m, ok := rep.Metric(name)
		require.True(t, ok, name)
		require.True(t, m.OK(), "%s: %v", name, m.Err)
		assert.True(t, dec(v).Equal(m.Value), "%s: want %s, got %s", name, v, m.Value)
	}
	_, ok := rep.Metric("nope")
	assert.False(t, ok)
}

func TestRun_MetricFailuresArePartial(t *testing.T) {
	src := ledger.Source{Name: "s", Records: []ledger.Record{
		{Date: "02-01-2024", Description: "Card", Amount: "-10", RunningBalance: "0"},
		{Date: "02-02-2024", Description: "Pay", Amount: "40", RunningBalance: "40"},
	}}
	rep := run(t, Request{Sources: []ledger.Source{src}, Granularity: period.Month})

	// January income is 0, so the cumulative income change has no base.
	m, ok := rep.Metric(IncomeCumulativeChange)
	require.True(t, ok)
	assert.ErrorIs(t, m.Err, series.ErrDivisionByZero)

	// Balance starts at 0 as well.
	assert.ErrorIs(t, rep.Filtered.PercentChangeErr, series.ErrDivisionByZero)
	assert.False(t, rep.Filtered.PercentChange.At(1).Value.Valid)

	avg, ok := rep.Metric(AverageIncome)
	require.True(t, ok)
	require.NoError(t, avg.Err)
	assert.True(t, dec("20").Equal(avg.Value))
}

func TestRun_EmptyLedger(t *testing.T) {
	rep := run(t, Request{Granularity: period.Week})
	assert.Equal(t, 0, rep.Filtered.Balance.Len())
	for _, m := range rep.Metrics {
		assert.ErrorIs(t, m.Err, series.ErrEmptySeries, m.Name)
	}
}

func TestRun_RangeAndCurrency(t *testing.T) {
	src := statement()
	src.Records = append(src.Records, ledger.Record{
		Date: "21-02-2024", Description: "Euro card", Amount: "-5", RunningBalance: "10", Currency: "EUR",
	})
	r := &ledger.Range{
		Start: civil.Date{Year: 2024, Month: time.February, Day: 1},
		End:   civil.Date{Year: 2024, Month: time.February, Day: 29},
	}
	rep := run(t, Request{Sources: []ledger.Source{src}, Range: r, Granularity: period.Month, Currency: "GBP"})

	assert.Len(t, rep.Transactions, 2)
	require.Equal(t, 1, rep.Filtered.Balance.Len())
	assert.Equal(t, "2024-02", rep.Filtered.Balance.At(0).Period.String())
	assert.Equal(t, *r, rep.Range)
}

func TestRun_DefaultRangeIsLedgerSpan(t *testing.T) {
	rep := run(t, Request{Sources: []ledger.Source{statement()}, Granularity: period.Day})
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 10}, rep.Range.Start)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 20}, rep.Range.End)
	assert.Equal(t, 2, rep.Filtered.Balance.Len())
}

func TestRun_CustomRule(t *testing.T) {
	rep := run(t, Request{
		Sources:     []ledger.Source{statement()},
		Granularity: period.Month,
		Rule:        ledger.Contains("Refund"),
	})
	require.Len(t, rep.Excluded, 1)
	assert.Equal(t, "Refund", rep.Excluded[0].Description)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, Request{Granularity: 0})
	var gerr *period.InvalidGranularityError
	assert.ErrorAs(t, err, &gerr)

	inverted := &ledger.Range{
		Start: civil.Date{Year: 2024, Month: time.March, Day: 1},
		End:   civil.Date{Year: 2024, Month: time.January, Day: 1},
	}
	rep, err := Run(ctx, Request{Sources: []ledger.Source{statement()}, Range: inverted, Granularity: period.Month})
	assert.Nil(t, rep)
	var rerr *ledger.InvalidRangeError
	assert.ErrorAs(t, err, &rerr)

	bad := ledger.Source{Name: "bad.csv", Records: []ledger.Record{{Date: "31/01/2024", Amount: "1", RunningBalance: "1"}}}
	rep, err = Run(ctx, Request{Sources: []ledger.Source{statement(), bad}, Granularity: period.Month})
	assert.Nil(t, rep)
	var derr *ledger.MalformedDateError
	assert.ErrorAs(t, err, &derr)
}

func TestRun_LogsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf, zerolog.DebugLevel))

	_, err := Run(ctx, Request{Sources: []ledger.Source{statement()}, Granularity: period.Month})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ledger classified")
	assert.Contains(t, buf.String(), `"excluded":1`)
}

func TestRun_OpenEndedRange(t *testing.T) {
	from := &ledger.Range{Start: civil.Date{Year: 2024, Month: time.February, Day: 1}}
	rep := run(t, Request{Sources: []ledger.Source{statement()}, Range: from, Granularity: period.Month})
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 20}, rep.Range.End)
	assert.Len(t, rep.Transactions, 2)

	to := &ledger.Range{End: civil.Date{Year: 2024, Month: time.January, Day: 31}}
	rep = run(t, Request{Sources: []ledger.Source{statement()}, Range: to, Granularity: period.Month})
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 10}, rep.Range.Start)
	assert.Len(t, rep.Transactions, 1)

	// Starting after the last transaction selects nothing rather than failing.
	late := &ledger.Range{Start: civil.Date{Year: 2025, Month: time.January, Day: 1}}
	rep = run(t, Request{Sources: []ledger.Source{statement()}, Range: late, Granularity: period.Month})
	assert.Empty(t, rep.Transactions)
}
