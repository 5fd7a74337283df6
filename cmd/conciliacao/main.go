package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/conciliacao/internal/aggregate"
	"github.com/example/conciliacao/internal/config"
	"github.com/example/conciliacao/internal/logger"
	"github.com/example/conciliacao/internal/reconcile"
	"github.com/example/conciliacao/internal/report"
	"github.com/example/conciliacao/internal/summary"
)

const version = "1.0.0"

// errMismatch is returned with --fail-on-mismatch when any category differs.
var errMismatch = errors.New("categories with differences found")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		if errors.Is(err, errMismatch) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

type options struct {
	csvPath        string
	summaryPath    string
	configPath     string
	sheet          string
	format         string
	color          string
	logLevel       string
	strict         bool
	skipInvalid    bool
	failOnMismatch bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "conciliacao",
		Short: "Reconcile card settlement exports against the summary report",
		Long: `Conciliacao compares the per-category subtotals of the summary spreadsheet
("Sistema") with the totals computed from the acquirer's transaction export ("Bin")
and flags every card brand/product whose values differ.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.csvPath, "csv", "", "transaction export (CSV)")
	f.StringVar(&opts.summaryPath, "summary", "", "summary report (.xls or .xlsx)")
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (TOML)")
	f.StringVar(&opts.sheet, "sheet", "", "summary sheet name (default: first sheet)")
	f.StringVar(&opts.format, "format", "", "output format: text or json")
	f.StringVar(&opts.color, "color", "", "highlight differences: auto, always or never")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&opts.strict, "strict", false, "fail when a summary subtotal cannot be parsed")
	f.BoolVar(&opts.skipInvalid, "skip-invalid-amounts", false, "skip export rows with an unparseable gross amount")
	f.BoolVar(&opts.failOnMismatch, "fail-on-mismatch", false, "exit with status 2 when any category differs")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("summary")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "conciliacao v%s\n", version)
		},
	})

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	ctx := logger.WithContext(cmd.Context(), log)

	column, _ := cfg.Summary.Column()
	rc := &reconcile.Reconciler{
		Aggregator: &aggregate.Aggregator{
			Delimiter:          cfg.Transactions.DelimiterRune(),
			Encoding:           cfg.Transactions.Encoding,
			ExcludedStatuses:   cfg.Transactions.ExcludedStatuses,
			SkipInvalidAmounts: cfg.Transactions.SkipInvalidAmounts,
		},
		Extractor: &summary.Extractor{
			Marker: cfg.Summary.Marker,
			Column: column,
			Strict: cfg.Summary.StrictExtraction,
		},
		Sheet: cfg.Summary.Sheet,
	}

	csvFile, err := os.Open(opts.csvPath)
	if err != nil {
		return &reconcile.StageError{File: reconcile.FileTransactions, Name: opts.csvPath, Stage: reconcile.StageRead, Err: err}
	}
	defer csvFile.Close()

	summaryFile, err := os.Open(opts.summaryPath)
	if err != nil {
		return &reconcile.StageError{File: reconcile.FileSummary, Name: opts.summaryPath, Stage: reconcile.StageRead, Err: err}
	}
	defer summaryFile.Close()

	result, err := rc.Run(ctx, reconcile.Inputs{
		Transactions: reconcile.Input{Name: filepath.Base(opts.csvPath), Reader: csvFile},
		Summary:      reconcile.Input{Name: filepath.Base(opts.summaryPath), Reader: summaryFile},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	outFile, _ := out.(*os.File)
	renderer, err := report.New(cfg.Output.Format, cfg.Output.Color, outFile)
	if err != nil {
		return err
	}
	if err := renderer.Render(out, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.failOnMismatch && result.Mismatches() > 0 {
		return fmt.Errorf("%w: %d", errMismatch, result.Mismatches())
	}
	return nil
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("sheet") {
		cfg.Summary.Sheet = opts.sheet
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("strict") {
		cfg.Summary.StrictExtraction = opts.strict
	}
	if flags.Changed("skip-invalid-amounts") {
		cfg.Transactions.SkipInvalidAmounts = opts.skipInvalid
	}
}
