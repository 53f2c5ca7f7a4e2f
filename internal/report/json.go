package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/stmtstats/internal/analysis"
	"github.com/cleared-dev/stmtstats/internal/series"
)

type jsonReport struct {
	Granularity string       `json:"granularity"`
	Currency    string       `json:"currency"`
	Start       string       `json:"start"`
	End         string       `json:"end"`
	Series      []jsonSeries `json:"series"`
	Metrics     []jsonMetric `json:"metrics"`
}

type jsonSeries struct {
	Section string        `json:"section"`
	Name    string        `json:"name"`
	Points  []series.Pair `json:"points"`
}

type jsonMetric struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
	Error string  `json:"error,omitempty"`
}

// WriteJSON renders rep as a JSON document. Series are ordered arrays of
// {period, value}; absent values are empty strings.
func WriteJSON(w io.Writer, rep *analysis.Report, opts Options) error {
	out := jsonReport{
		Granularity: rep.Granularity.Code(),
		Currency:    rep.Currency,
		Start:       rep.Range.Start.String(),
		End:         rep.Range.End.String(),
		Series:      []jsonSeries{},
		Metrics:     []jsonMetric{},
	}

	for _, sec := range sections(rep, opts) {
		for _, c := range sec.cols {
			out.Series = append(out.Series, jsonSeries{
				Section: sec.key,
				Name:    c.name,
				Points:  c.values.Pairs(nullString),
			})
		}
	}
	for _, m := range visibleMetrics(rep, opts) {
		jm := jsonMetric{Name: m.Name}
		if m.OK() {
			v := m.Value.String()
			jm.Value = &v
		} else {
			jm.Error = m.Err.Error()
		}
		out.Metrics = append(out.Metrics, jm)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
