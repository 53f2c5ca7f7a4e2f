// Package aggregate buckets a ledger into periods and merges adjustment
// series back onto the results.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtstats/internal/model"
	"github.com/cleared-dev/stmtstats/internal/period"
	"github.com/cleared-dev/stmtstats/internal/series"
)

// Flow is the money moving in and out of the account during one period.
// Both fields are non-negative.
type Flow struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Net returns Income - Expenses.
func (f Flow) Net() decimal.Decimal { return f.Income.Sub(f.Expenses) }

// Field names one member of a Flow.
type Field int

const (
	Income Field = iota + 1
	Expenses
)

func (f Field) String() string {
	switch f {
	case Income:
		return "Income"
	case Expenses:
		return "Expenses"
	}
	return "unknown"
}

// Get returns the named field.
func (f Flow) Get(field Field) decimal.Decimal {
	if field == Expenses {
		return f.Expenses
	}
	return f.Income
}

// Add returns a copy of f with v added to the named field.
func (f Flow) Add(field Field, v decimal.Decimal) Flow {
	switch field {
	case Income:
		f.Income = f.Income.Add(v)
	case Expenses:
		f.Expenses = f.Expenses.Add(v)
	}
	return f
}

// bucket groups transactions by period, preserving ledger order within each bucket.
func bucket(l model.Ledger, g period.Granularity) map[period.Period][]model.Transaction {
	out := make(map[period.Period][]model.Transaction)
	for _, txn := range l {
		p := period.Floor(txn.Date, g)
		out[p] = append(out[p], txn)
	}
	return out
}

// EndBalances returns, for every period with at least one transaction, the
// running balance of the chronologically last transaction in it. Same-day
// ties go to the later ledger row. Periods without transactions are absent.
func EndBalances(l model.Ledger, g period.Granularity) series.Series[decimal.Decimal] {
	m := make(map[period.Period]decimal.Decimal)
	for p, txns := range bucket(l, g) {
		last := txns[0]
		for _, txn := range txns[1:] {
			if !txn.Date.Before(last.Date) {
				last = txn
			}
		}
		m[p] = last.RunningBalance
	}
	return series.FromMap(m)
}

// IncomeExpenses sums positive amounts into Income and the magnitude of
// negative amounts into Expenses for every period with transactions. A side
// with no transactions is exactly zero.
func IncomeExpenses(l model.Ledger, g period.Granularity) series.Series[Flow] {
	m := make(map[period.Period]Flow)
	for p, txns := range bucket(l, g) {
		f := Flow{Income: decimal.Zero, Expenses: decimal.Zero}
		for _, txn := range txns {
			switch {
			case txn.IsIncome():
				f.Income = f.Income.Add(txn.Amount)
			case txn.IsExpense():
				f.Expenses = f.Expenses.Add(txn.Amount.Neg())
			}
		}
		m[p] = f
	}
	return series.FromMap(m)
}

// Adjustments sums the negated amounts of excluded transactions per period.
// Adding the result to a balance series cancels the excluded transactions'
// effect on the running balance.
func Adjustments(excluded model.Ledger, g period.Granularity) series.Series[decimal.Decimal] {
	m := make(map[period.Period]decimal.Decimal)
	for p, txns := range bucket(excluded, g) {
		sum := decimal.Zero
		for _, txn := range txns {
			sum = sum.Sub(txn.Amount)
		}
		m[p] = sum
	}
	return series.FromMap(m)
}
