package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/stmtstats/internal/ledger"
	"github.com/cleared-dev/stmtstats/internal/model"
	"github.com/cleared-dev/stmtstats/internal/period"
)

// FileName is the default config file name.
const FileName = "stmtstats.yaml"

// Environment variables that override file settings.
const (
	EnvGranularity = "STMTSTATS_GRANULARITY"
	EnvCurrency    = "STMTSTATS_CURRENCY"
	EnvImportDir   = "STMTSTATS_IMPORT_DIR"
)

// Config represents the top-level stmtstats.yaml configuration.
type Config struct {
	Analysis       AnalysisConfig       `yaml:"analysis"`
	Classification ClassificationConfig `yaml:"classification"`
	Display        DisplayConfig        `yaml:"display"`
	Import         ImportConfig         `yaml:"import"`
}

// AnalysisConfig selects how the ledger is bucketed and filtered.
type AnalysisConfig struct {
	Granularity period.Granularity `yaml:"granularity"`
	Currency    string             `yaml:"currency"`
}

// ClassificationConfig lists the rules that mark internal transfers.
type ClassificationConfig struct {
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig matches a transaction description. Exactly one of Contains,
// Prefix or Pattern should be set.
type RuleConfig struct {
	Name     string `yaml:"name"`
	Contains string `yaml:"contains,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"` // regular expression
}

// DisplayConfig toggles report sections.
type DisplayConfig struct {
	ShowAdjusted bool `yaml:"show_adjusted"`
	ShowIncome   bool `yaml:"show_income"`
	ShowExpenses bool `yaml:"show_expenses"`
	ShowTables   bool `yaml:"show_tables"`
}

// ImportConfig locates statement exports.
type ImportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// Load reads a stmtstats.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Granularity: period.Month,
			Currency:    model.DefaultCurrency,
		},
		Classification: ClassificationConfig{
			Rules: []RuleConfig{
				{Name: "currency-conversion", Contains: ledger.DefaultConversionMarker},
			},
		},
		Display: DisplayConfig{
			ShowAdjusted: false,
			ShowIncome:   true,
			ShowExpenses: true,
			ShowTables:   true,
		},
		Import: ImportConfig{
			Dir:    "import",
			Format: "statement",
		},
	}
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvGranularity); v != "" {
		g, err := period.ParseGranularity(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvGranularity, err)
		}
		c.Analysis.Granularity = g
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		c.Analysis.Currency = v
	}
	if v := os.Getenv(EnvImportDir); v != "" {
		c.Import.Dir = v
	}
	return nil
}

// Rule builds the classification rule. A transaction is excluded when any
// configured rule matches; an empty rule list excludes nothing.
func (c *Config) Rule() (ledger.Rule, error) {
	rules := make([]ledger.Rule, 0, len(c.Classification.Rules))
	for i, rc := range c.Classification.Rules {
		r, err := rc.build()
		if err != nil {
			return nil, fmt.Errorf("classification rule %d (%s): %w", i, rc.Name, err)
		}
		rules = append(rules, r)
	}
	return ledger.Any(rules...), nil
}

func (rc RuleConfig) build() (ledger.Rule, error) {
	set := 0
	for _, v := range []string{rc.Contains, rc.Prefix, rc.Pattern} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("want exactly one of contains, prefix, pattern; got %d", set)
	}

	switch {
	case rc.Contains != "":
		return ledger.Contains(rc.Contains), nil
	case rc.Prefix != "":
		return ledger.Prefix(rc.Prefix), nil
	default:
		return ledger.Pattern(rc.Pattern)
	}
}
