package ledger

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// MalformedDateError reports a Date value that does not match the dd-mm-yyyy
// statement format.
type MalformedDateError struct {
	Source string
	Row    int
	Value  string
	Err    error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("%s row %d: malformed date %q (want dd-mm-yyyy)", e.Source, e.Row, e.Value)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

// MalformedAmountError reports an Amount or Running Balance value that is not a decimal.
type MalformedAmountError struct {
	Source string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("%s row %d: malformed %s %q", e.Source, e.Row, e.Column, e.Value)
}

func (e *MalformedAmountError) Unwrap() error { return e.Err }

// InvalidCurrencyError reports a currency that is not an ISO 4217 code.
type InvalidCurrencyError struct {
	Value string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("invalid currency %q", e.Value)
}

// InvalidRangeError reports a date range whose start is after its end.
type InvalidRangeError struct {
	Start civil.Date
	End   civil.Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s", e.Start, e.End)
}
