package aggregate

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtstats/internal/model"
	"github.com/cleared-dev/stmtstats/internal/period"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func txn(m time.Month, d int, desc, amount, balance string) model.Transaction {
	return model.Transaction{
		Date:           civil.Date{Year: 2024, Month: m, Day: d},
		Description:    desc,
		Amount:         dec(amount),
		RunningBalance: dec(balance),
		Currency:       "GBP",
	}
}

func month(m time.Month) period.Period {
	return period.Floor(civil.Date{Year: 2024, Month: m, Day: 1}, period.Month)
}

func TestEndBalances_LastTransactionPerPeriod(t *testing.T) {
	l := model.Ledger{
		txn(time.January, 3, "a", "-10", "90"),
		txn(time.January, 28, "b", "10", "100"),
		txn(time.March, 1, "c", "5", "105"),
		txn(time.March, 1, "d", "-5", "100.50"),
	}
	got := EndBalances(l, period.Month)

	require.Equal(t, []period.Period{month(time.January), month(time.March)}, got.Periods())
	assert.Equal(t, "100", got.At(0).Value.String())
	// Same-day tie: later row wins.
	assert.Equal(t, "100.5", got.At(1).Value.String())
	// February has no transactions and is absent, not zero.
	assert.False(t, got.Has(month(time.February)))
}

func TestEndBalances_Granularities(t *testing.T) {
	l := model.Ledger{
		txn(time.January, 1, "", "1", "1"),
		txn(time.February, 1, "", "1", "2"),
		txn(time.April, 1, "", "1", "3"),
	}
	assert.Equal(t, 3, EndBalances(l, period.Month).Len())
	assert.Equal(t, 2, EndBalances(l, period.Quarter).Len())
	yearly := EndBalances(l, period.Year)
	require.Equal(t, 1, yearly.Len())
	assert.Equal(t, "3", yearly.At(0).Value.String())
}

func TestEndBalances_Empty(t *testing.T) {
	assert.Equal(t, 0, EndBalances(nil, period.Month).Len())
}

func TestIncomeExpenses(t *testing.T) {
	l := model.Ledger{
		txn(time.January, 2, "", "50", "0"),
		txn(time.January, 3, "", "-30", "0"),
		txn(time.January, 9, "", "10", "0"),
	}
	got := IncomeExpenses(l, period.Month)
	require.Equal(t, 1, got.Len())
	f := got.At(0).Value
	assert.True(t, dec("60").Equal(f.Income))
	assert.True(t, dec("30").Equal(f.Expenses))
	assert.True(t, dec("30").Equal(f.Net()))
}

func TestIncomeExpenses_OneSidedPeriodsAreZero(t *testing.T) {
	l := model.Ledger{
		txn(time.January, 2, "", "-12.50", "0"),
		txn(time.February, 2, "", "40", "0"),
		txn(time.February, 3, "", "0", "0"),
	}
	got := IncomeExpenses(l, period.Month)
	require.Equal(t, 2, got.Len())

	jan, ok := got.Get(month(time.January))
	require.True(t, ok)
	assert.True(t, jan.Income.IsZero())
	assert.Equal(t, "0", jan.Income.String())
	assert.True(t, dec("12.50").Equal(jan.Expenses))

	feb, ok := got.Get(month(time.February))
	require.True(t, ok)
	assert.True(t, feb.Expenses.IsZero())
	assert.True(t, dec("40").Equal(feb.Income))
}

func TestAdjustments_NegatesAndSums(t *testing.T) {
	excluded := model.Ledger{
		txn(time.February, 4, "GBP to EUR", "-20", "0"),
		txn(time.February, 9, "GBP to USD", "-5.25", "0"),
		txn(time.April, 1, "GBP to EUR", "7", "0"),
	}
	got := Adjustments(excluded, period.Month)
	require.Equal(t, 2, got.Len())
	assert.True(t, dec("25.25").Equal(got.At(0).Value))
	assert.True(t, dec("-7").Equal(got.At(1).Value))
}

func TestFlowField(t *testing.T) {
	f := Flow{Income: dec("1"), Expenses: dec("2")}
	assert.True(t, dec("3").Equal(f.Add(Income, dec("2")).Income))
	assert.True(t, dec("5").Equal(f.Add(Expenses, dec("3")).Get(Expenses)))
	// Add returns a copy.
	assert.True(t, dec("1").Equal(f.Income))
	assert.Equal(t, "Income", Income.String())
	assert.Equal(t, "Expenses", Expenses.String())
}
