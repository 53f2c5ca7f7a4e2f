package period

import (
	"fmt"
	"strings"
)

// Granularity is the width of a reporting bucket.
type Granularity int

const (
	Day Granularity = iota + 1
	Week
	Month
	Quarter
	Year
)

// InvalidGranularityError reports an unrecognized granularity code or label.
type InvalidGranularityError struct {
	Code string
}

func (e *InvalidGranularityError) Error() string {
	return fmt.Sprintf("invalid granularity %q (want one of D, W, M, Q, Y)", e.Code)
}

var granularityNames = map[Granularity]struct{ code, label string }{
	Day:     {"D", "Daily"},
	Week:    {"W", "Weekly"},
	Month:   {"M", "Monthly"},
	Quarter: {"Q", "Quarterly"},
	Year:    {"Y", "Yearly"},
}

// All returns every granularity from finest to coarsest.
func All() []Granularity {
	return []Granularity{Day, Week, Month, Quarter, Year}
}

// Code returns the one-letter code, e.g. "M".
func (g Granularity) Code() string {
	return granularityNames[g].code
}

// Label returns the display name, e.g. "Monthly".
func (g Granularity) Label() string {
	return granularityNames[g].label
}

// IsValid reports whether g is one of the declared granularities.
func (g Granularity) IsValid() bool {
	_, ok := granularityNames[g]
	return ok
}

func (g Granularity) String() string {
	if !g.IsValid() {
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
	return g.Code()
}

// ParseGranularity maps a code (D/W/M/Q/Y, case-insensitive) to a Granularity.
func ParseGranularity(code string) (Granularity, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, g := range All() {
		if g.Code() == c {
			return g, nil
		}
	}
	return 0, &InvalidGranularityError{Code: code}
}

// GranularityFromLabel maps a display name such as "Weekly" back to its Granularity.
func GranularityFromLabel(label string) (Granularity, error) {
	for _, g := range All() {
		if strings.EqualFold(g.Label(), strings.TrimSpace(label)) {
			return g, nil
		}
	}
	return 0, &InvalidGranularityError{Code: label}
}

// MarshalText encodes the granularity as its code.
func (g Granularity) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, &InvalidGranularityError{Code: g.String()}
	}
	return []byte(g.Code()), nil
}

// UnmarshalText decodes a granularity code.
func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
