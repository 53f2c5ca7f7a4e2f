package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to statement rows that carry no currency column.
const DefaultCurrency = "GBP"

// Transaction is one normalized bank statement row. Values are never mutated
// after ingestion.
type Transaction struct {
	Date           civil.Date
	Description    string
	Amount         decimal.Decimal // negative = expense, positive = income
	RunningBalance decimal.Decimal
	Currency       string
}

// IsIncome reports whether the transaction credits the account.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether the transaction debits the account.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// Ledger is an ordered sequence of transactions, non-decreasing by date once
// normalized.
type Ledger []Transaction

// Len returns the number of transactions.
func (l Ledger) Len() int { return len(l) }

// IsSorted reports whether the ledger is non-decreasing by date.
func (l Ledger) IsSorted() bool {
	for i := 1; i < len(l); i++ {
		if l[i].Date.Before(l[i-1].Date) {
			return false
		}
	}
	return true
}

// First returns the earliest transaction date and false if the ledger is empty.
// The ledger must be sorted.
func (l Ledger) First() (civil.Date, bool) {
	if len(l) == 0 {
		return civil.Date{}, false
	}
	return l[0].Date, true
}

// Last returns the latest transaction date and false if the ledger is empty.
// The ledger must be sorted.
func (l Ledger) Last() (civil.Date, bool) {
	if len(l) == 0 {
		return civil.Date{}, false
	}
	return l[len(l)-1].Date, true
}
