package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
)

// EnvPrefix prefixes environment overrides, e.g. CONCILIACAO_SUMMARY_STRICT_EXTRACTION.
const EnvPrefix = "CONCILIACAO"

// Config represents the application configuration
type Config struct {
	LogLevel     string             `mapstructure:"log_level"`
	Transactions TransactionsConfig `mapstructure:"transactions"`
	Summary      SummaryConfig      `mapstructure:"summary"`
	Output       OutputConfig       `mapstructure:"output"`
}

// TransactionsConfig describes the transaction export (CSV)
type TransactionsConfig struct {
	Delimiter          string   `mapstructure:"delimiter"`
	Encoding           string   `mapstructure:"encoding"`
	ExcludedStatuses   []string `mapstructure:"excluded_statuses"`
	SkipInvalidAmounts bool     `mapstructure:"skip_invalid_amounts"`
}

// SummaryConfig describes where subtotals live in the summary spreadsheet
type SummaryConfig struct {
	Sheet            string `mapstructure:"sheet"`
	Marker           string `mapstructure:"marker"`
	ValueColumn      string `mapstructure:"value_column"` // column letter, e.g. "T"
	StrictExtraction bool   `mapstructure:"strict_extraction"`
}

// OutputConfig selects how results are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" or "json"
	Color  string `mapstructure:"color"`  // "auto", "always" or "never"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("transactions.delimiter", ";")
	v.SetDefault("transactions.encoding", "ISO-8859-1")
	v.SetDefault("transactions.excluded_statuses", []string{"Recusada", "Estornada", "Refused", "Reversed"})
	v.SetDefault("transactions.skip_invalid_amounts", false)

	v.SetDefault("summary.sheet", "")
	v.SetDefault("summary.marker", "SUB-TOTAL TIPO:")
	v.SetDefault("summary.value_column", "T")
	v.SetDefault("summary.strict_extraction", false)

	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", "auto")
}

// LoadConfig loads configuration from file and environment variables.
// An empty path uses the defaults and the environment only.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	var problems []string

	if utf8.RuneCountInString(c.Transactions.Delimiter) != 1 {
		problems = append(problems, fmt.Sprintf("transactions.delimiter %q must be a single character", c.Transactions.Delimiter))
	}
	if strings.TrimSpace(c.Transactions.Encoding) == "" {
		problems = append(problems, "transactions.encoding is required")
	}
	if strings.TrimSpace(c.Summary.Marker) == "" {
		problems = append(problems, "summary.marker is required")
	}
	if _, err := c.Summary.Column(); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("output.format %q must be text or json", c.Output.Format))
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		problems = append(problems, fmt.Sprintf("output.color %q must be auto, always or never", c.Output.Color))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DelimiterRune returns the transaction export delimiter
func (c TransactionsConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Column returns the 1-based index of ValueColumn
func (c SummaryConfig) Column() (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(c.ValueColumn))
	if err != nil {
		return 0, fmt.Errorf("summary.value_column %q is not a column letter", c.ValueColumn)
	}
	return n, nil
}
