package reconcile

import "fmt"

// Input files.
const (
	FileTransactions = "transactions"
	FileSummary      = "summary"
)

// Stages of a run.
const (
	StageRead      = "read"
	StageAggregate = "aggregate"
	StageLoad      = "load"
	StageExtract   = "extract"
)

// StageError names the file and stage a run failed in. No comparison is
// produced when a run fails.
type StageError struct {
	File  string
	Name  string
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s file %q: %s failed: %v", e.File, e.Name, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
