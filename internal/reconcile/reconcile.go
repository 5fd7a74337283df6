package reconcile

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/example/conciliacao/internal/aggregate"
	"github.com/example/conciliacao/internal/category"
	"github.com/example/conciliacao/internal/logger"
	"github.com/example/conciliacao/internal/summary"
)

// Input is one uploaded file.
type Input struct {
	Name   string
	Reader io.Reader
}

// Inputs are the two files of a run.
type Inputs struct {
	Transactions Input
	Summary      Input
}

// Reconciler runs both extraction pipelines and compares their output.
type Reconciler struct {
	Aggregator *aggregate.Aggregator
	Extractor  *summary.Extractor
	// Sheet selects the summary sheet, empty for the first one.
	Sheet string
}

// Report is the outcome of one run.
type Report struct {
	RunID     string              `json:"run_id"`
	StartedAt time.Time           `json:"started_at"`
	Records   []Record            `json:"records"`
	Warnings  []summary.Warning   `json:"warnings,omitempty"`
	Misses    []category.Category `json:"misses,omitempty"`
	System    *category.Totals    `json:"system"`
	Bin       *category.Totals    `json:"bin"`
	Loaded    int                 `json:"transactions_loaded"`
	Settled   int                 `json:"transactions_settled"`
	Skipped   int                 `json:"transactions_skipped"`
	Unmapped  int                 `json:"transactions_unmapped"`
}

// Mismatches counts the records whose sides disagree.
func (r *Report) Mismatches() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.Matched() {
			n++
		}
	}
	return n
}

// Run reads both inputs completely, then aggregates the transactions,
// extracts the summary subtotals and compares them. Any failure aborts the
// run with a *StageError.
func (rc *Reconciler) Run(ctx context.Context, in Inputs) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := logger.FromContext(ctx).With().Str("run_id", report.RunID).Logger()

	txData, err := io.ReadAll(in.Transactions.Reader)
	if err != nil {
		return nil, &StageError{File: FileTransactions, Name: in.Transactions.Name, Stage: StageRead, Err: err}
	}
	sumData, err := io.ReadAll(in.Summary.Reader)
	if err != nil {
		return nil, &StageError{File: FileSummary, Name: in.Summary.Name, Stage: StageRead, Err: err}
	}
	log.Info().
		Str("transactions", in.Transactions.Name).
		Int("transactions_bytes", len(txData)).
		Str("summary", in.Summary.Name).
		Int("summary_bytes", len(sumData)).
		Msg("Starting reconciliation")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := rc.aggregator()
	agg.Logger = logger.Component(log, "aggregate")
	bin, err := agg.Run(bytes.NewReader(txData), in.Transactions.Name)
	if err != nil {
		return nil, &StageError{File: FileTransactions, Name: in.Transactions.Name, Stage: StageAggregate, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := summary.LoadGrid(sumData, in.Summary.Name, rc.Sheet)
	if err != nil {
		return nil, &StageError{File: FileSummary, Name: in.Summary.Name, Stage: StageLoad, Err: err}
	}
	ext := rc.extractor()
	ext.Logger = logger.Component(log, "summary")
	sys, err := ext.Extract(grid)
	if err != nil {
		return nil, &StageError{File: FileSummary, Name: in.Summary.Name, Stage: StageExtract, Err: err}
	}

	report.Records = Compare(sys.Totals, bin.Totals)
	report.Warnings = sys.Warnings
	report.Misses = sys.Misses
	report.System = sys.Totals
	report.Bin = bin.Totals
	report.Loaded = bin.Loaded
	report.Settled = bin.Settled
	report.Skipped = bin.Skipped
	report.Unmapped = bin.Unmapped

	log.Info().
		Int("records", len(report.Records)).
		Int("mismatches", report.Mismatches()).
		Int("warnings", len(report.Warnings)).
		Dur("elapsed", time.Since(report.StartedAt)).
		Msg("Reconciliation finished")
	return report, nil
}

// aggregator returns a copy so a run never mutates the configured one.
func (rc *Reconciler) aggregator() *aggregate.Aggregator {
	if rc.Aggregator == nil {
		return &aggregate.Aggregator{}
	}
	a := *rc.Aggregator
	return &a
}

func (rc *Reconciler) extractor() *summary.Extractor {
	if rc.Extractor == nil {
		return &summary.Extractor{}
	}
	x := *rc.Extractor
	return &x
}
