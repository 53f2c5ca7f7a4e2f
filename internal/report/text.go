package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/cleared-dev/stmtstats/internal/analysis"
)

var (
	heading = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow)
)

var metricLabels = map[string]string{
	analysis.AverageNetChange:               "Average Net Change",
	analysis.AverageAdjustedNetChange:       "Average Adjusted Net Change",
	analysis.AverageIncome:                  "Average Income",
	analysis.AverageAdjustedIncome:          "Average Adjusted Income",
	analysis.AverageExpenses:                "Average Expenses",
	analysis.AverageAdjustedExpenses:        "Average Adjusted Expenses",
	analysis.IncomeCumulativeChange:         "Cumulative Percentage Change in Income",
	analysis.AdjustedIncomeCumulativeChange: "Adjusted Cumulative Percentage Change in Income",
}

// WriteText renders rep as aligned plain-text tables.
func WriteText(w io.Writer, rep *analysis.Report, opts Options) error {
	heading.Fprintf(w, "Bank Statement Analysis\n")
	fmt.Fprintf(w, "Range: %s  Granularity: %s  Currency: %s\n",
		rep.Range, rep.Granularity.Label(), currencyLabel(rep.Currency))
	fmt.Fprintf(w, "Transactions: %d (%d internal transfers)\n", len(rep.Transactions), len(rep.Excluded))

	for _, sec := range sections(rep, opts) {
		if len(sec.cols) == 0 {
			continue
		}
		if err := writeSection(w, sec); err != nil {
			return err
		}
	}
	if err := rep.Filtered.PercentChangeErr; err != nil {
		warning.Fprintf(w, "note: percentage change undefined (%v)\n", err)
	}

	fmt.Fprintln(w)
	heading.Fprintf(w, "Averages\n")
	for _, m := range visibleMetrics(rep, opts) {
		fmt.Fprintf(w, "%s: %s\n", metricLabels[m.Name], formatMetric(m, rep.Currency))
	}

	if opts.ShowTables {
		return writeTransactions(w, rep)
	}
	return nil
}

func writeSection(w io.Writer, sec section) error {
	fmt.Fprintln(w)
	heading.Fprintf(w, "%s\n", sec.title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"Period"}
	for _, c := range sec.cols {
		header = append(header, c.name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, p := range periodsOf(sec.cols) {
		row := []string{p.String()}
		for _, c := range sec.cols {
			v, ok := c.values.Get(p)
			if !ok {
				row = append(row, Absent)
				continue
			}
			row = append(row, formatValue(v, c.pct))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

func writeTransactions(w io.Writer, rep *analysis.Report) error {
	fmt.Fprintln(w)
	heading.Fprintf(w, "Transactions\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tDescription\tAmount\tRunning Balance\tCurrency")
	for _, txn := range rep.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			txn.Date, txn.Description, txn.Amount.StringFixed(2), txn.RunningBalance.StringFixed(2), txn.Currency)
	}
	return tw.Flush()
}

func formatMetric(m analysis.Metric, currency string) string {
	if !m.OK() {
		return Absent + " (" + m.Err.Error() + ")"
	}
	if strings.HasSuffix(m.Name, "_pct") {
		return m.Value.StringFixed(2) + "%"
	}
	return m.Value.StringFixed(2) + " " + currencyLabel(currency)
}

func currencyLabel(c string) string {
	if c == "" {
		return "all"
	}
	return strings.ToUpper(c)
}
