package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cleared-dev/stmtstats/internal/model"
)

// DefaultConversionMarker identifies internal currency conversions in
// statement descriptions, e.g. "GBP to EUR".
const DefaultConversionMarker = "GBP to"

// Rule decides whether a transaction is an internal transfer that should be
// excluded from income and expense figures.
type Rule interface {
	Match(txn model.Transaction) bool
}

// RuleFunc adapts a function to a Rule.
type RuleFunc func(txn model.Transaction) bool

// Match calls f(txn).
func (f RuleFunc) Match(txn model.Transaction) bool { return f(txn) }

// Contains matches descriptions containing substr (case-sensitive).
func Contains(substr string) Rule {
	return RuleFunc(func(txn model.Transaction) bool {
		return strings.Contains(txn.Description, substr)
	})
}

// Prefix matches descriptions starting with prefix (case-sensitive).
func Prefix(prefix string) Rule {
	return RuleFunc(func(txn model.Transaction) bool {
		return strings.HasPrefix(txn.Description, prefix)
	})
}

// Pattern matches descriptions against a regular expression.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling rule pattern %q: %w", expr, err)
	}
	return RuleFunc(func(txn model.Transaction) bool {
		return re.MatchString(txn.Description)
	}), nil
}

// Any matches when at least one of rules matches. With no rules it matches nothing.
func Any(rules ...Rule) Rule {
	return RuleFunc(func(txn model.Transaction) bool {
		for _, r := range rules {
			if r.Match(txn) {
				return true
			}
		}
		return false
	})
}

// DefaultRule excludes descriptions containing DefaultConversionMarker.
func DefaultRule() Rule {
	return Contains(DefaultConversionMarker)
}

// Classify partitions l into transactions the rule keeps and those it
// excludes. Every transaction lands in exactly one side and both sides keep
// the ledger's order. A nil rule keeps everything.
func Classify(l model.Ledger, rule Rule) (kept, excluded model.Ledger) {
	kept = make(model.Ledger, 0, len(l))
	excluded = model.Ledger{}
	for _, txn := range l {
		if rule != nil && rule.Match(txn) {
			excluded = append(excluded, txn)
			continue
		}
		kept = append(kept, txn)
	}
	return kept, excluded
}
