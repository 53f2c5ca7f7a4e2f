package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtstats/internal/analysis"
	"github.com/cleared-dev/stmtstats/internal/config"
	"github.com/cleared-dev/stmtstats/internal/importer"
	"github.com/cleared-dev/stmtstats/internal/ledger"
	"github.com/cleared-dev/stmtstats/internal/logger"
	"github.com/cleared-dev/stmtstats/internal/period"
	"github.com/cleared-dev/stmtstats/internal/report"
)

type analyzeOptions struct {
	configPath  string
	granularity string
	currency    string
	from        string
	to          string
	format      string
	importDir   string
	parser      string
	adjusted    bool
	noTables    bool
}

func newAnalyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [statement.csv ...]",
		Short: "Summarize statements by period",
		Long: `Summarize one or more statement CSV exports into end-of-period balances,
net change, percentage change and income/expense totals.

With no file arguments every CSV in the configured import directory is read.
Dates (--from, --to) use the statement format dd-mm-yyyy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", config.FileName, "config file")
	f.StringVarP(&opts.granularity, "granularity", "g", "", "period: D, W, M, Q or Y")
	f.StringVar(&opts.currency, "currency", "", "only include this currency")
	f.StringVar(&opts.from, "from", "", "first date to include (dd-mm-yyyy)")
	f.StringVar(&opts.to, "to", "", "last date to include (dd-mm-yyyy)")
	f.StringVarP(&opts.format, "output", "o", string(report.FormatText), "output format: text, csv or json")
	f.StringVar(&opts.importDir, "import-dir", "", "directory scanned when no files are given")
	f.StringVar(&opts.parser, "parser", "", "statement parser format")
	f.BoolVar(&opts.adjusted, "adjusted", false, "show series adjusted for internal currency conversions")
	f.BoolVar(&opts.noTables, "no-tables", false, "omit transaction and adjustment tables")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts analyzeOptions, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(opts.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := applyFlags(cfg, opts, cmd); err != nil {
		return err
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	rng, err := parseRange(opts.from, opts.to)
	if err != nil {
		return err
	}
	rule, err := cfg.Rule()
	if err != nil {
		return err
	}

	parser := importer.DefaultRegistry().Get(cfg.Import.Format)
	if parser == nil {
		return fmt.Errorf("unknown parser format %q", cfg.Import.Format)
	}

	paths := args
	if len(paths) == 0 {
		files, err := importer.Scan(cfg.Import.Dir)
		if err != nil {
			return err
		}
		for _, fi := range files {
			paths = append(paths, fi.Path)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no statement files given and none found in %s", cfg.Import.Dir)
	}
	log.Debug().Strs("files", paths).Msg("loading statements")

	sources, err := importer.Load(parser, paths...)
	if err != nil {
		return err
	}

	rep, err := analysis.Run(ctx, analysis.Request{
		Sources:     sources,
		Range:       rng,
		Granularity: cfg.Analysis.Granularity,
		Currency:    cfg.Analysis.Currency,
		Rule:        rule,
	})
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), format, rep, report.OptionsFrom(cfg.Display))
}

// loadConfig reads path, falling back to defaults when the file is absent and
// was not named explicitly.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

func applyFlags(cfg *config.Config, opts analyzeOptions, cmd *cobra.Command) error {
	if opts.granularity != "" {
		g, err := period.ParseGranularity(opts.granularity)
		if err != nil {
			return err
		}
		cfg.Analysis.Granularity = g
	}
	if cmd.Flags().Changed("currency") {
		cfg.Analysis.Currency = opts.currency
	}
	if opts.importDir != "" {
		cfg.Import.Dir = opts.importDir
	}
	if opts.parser != "" {
		cfg.Import.Format = opts.parser
	}
	if cmd.Flags().Changed("adjusted") {
		cfg.Display.ShowAdjusted = opts.adjusted
	}
	if opts.noTables {
		cfg.Display.ShowTables = false
	}
	cfg.Import.Dir = filepath.Clean(cfg.Import.Dir)
	return nil
}

// parseRange returns nil when neither bound is set. A missing bound is left
// zero, which the pipeline treats as open.
func parseRange(from, to string) (*ledger.Range, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	var r ledger.Range
	if from != "" {
		d, err := parseDate(from)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		r.Start = d
	}
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		r.End = d
	}
	if from != "" && to != "" {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

func parseDate(s string) (civil.Date, error) {
	t, err := time.Parse(ledger.DateFormat, s)
	if err != nil {
		return civil.Date{}, &ledger.MalformedDateError{Source: "flag", Value: s, Err: err}
	}
	return civil.DateOf(t), nil
}
