package migrator

import (
	"fmt"
	"unicode/utf8"
)

// MaxReasonLen bounds the error text kept on a failed outcome.
const MaxReasonLen = 100

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the result of one table in one phase.
type Outcome struct {
	Table    string
	Status   Status
	Rows     int
	Inserted int64
	NextID   int64
	Reason   string
}

func succeeded(table string) Outcome {
	return Outcome{Table: table, Status: StatusSucceeded}
}

func skipped(table, reason string) Outcome {
	return Outcome{Table: table, Status: StatusSkipped, Reason: reason}
}

func failed(table string, err error) Outcome {
	return Outcome{Table: table, Status: StatusFailed, Reason: truncate(err.Error(), MaxReasonLen)}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

type State string

const (
	StateInit   State = "INIT"
	StateSchema State = "SCHEMA_PHASE"
	StateData   State = "DATA_PHASE"
	StateDone   State = "DONE"
)

// RunReport collects every outcome of a run and where the run stopped.
type RunReport struct {
	State     State
	Schema    []Outcome
	Data      []Outcome
	Sequences []Outcome
}

type Counts struct {
	Succeeded int
	Skipped   int
	Failed    int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d ok, %d skipped, %d failed", c.Succeeded, c.Skipped, c.Failed)
}

func Count(outcomes []Outcome) Counts {
	var c Counts
	for _, o := range outcomes {
		switch o.Status {
		case StatusSucceeded:
			c.Succeeded++
		case StatusSkipped:
			c.Skipped++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}

// Summary counts outcomes across all phases.
func (r RunReport) Summary() Counts {
	all := make([]Outcome, 0, len(r.Schema)+len(r.Data)+len(r.Sequences))
	all = append(all, r.Schema...)
	all = append(all, r.Data...)
	all = append(all, r.Sequences...)
	return Count(all)
}

// Failed reports whether any table failed in any phase.
func (r RunReport) Failed() bool {
	return r.Summary().Failed > 0
}
