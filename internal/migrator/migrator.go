// Package migrator copies the agency schema and rows from SQLite into Postgres
// and repairs id sequences after a bulk load.
package migrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agencia/internal/log"

	"golang.org/x/sync/errgroup"
)

type (
	Source interface {
		// ListTables returns table names in creation order.
		ListTables(ctx context.Context) ([]string, error)
		TableDDL(ctx context.Context, table string) (string, error)
		ReadRows(ctx context.Context, table string) (columns []string, rows [][]any, err error)
	}

	Destination interface {
		ExecDDL(ctx context.Context, stmt string) error
		// InsertRows inserts or skips on conflict, all or nothing per call.
		InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (inserted int64, err error)
		RepairSequence(ctx context.Context, table string) (nextID int64, err error)
	}
)

// DefaultExclude skips SQLite's internal tables and the migration bookkeeping table.
func DefaultExclude(table string) bool {
	return strings.HasPrefix(table, "sqlite_") || table == "schema_migrations"
}

type Options struct {
	// DataTables is the row copy order; referenced tables must come first.
	DataTables     []string
	SequenceTables []string
	Exclude        func(table string) bool
	Dialect        *Dialect
	// Workers bounds concurrent sequence repairs.
	Workers int
}

type Migrator struct {
	src    Source
	dst    Destination
	opts   Options
	logger *log.Logger
}

func New(src Source, dst Destination, opts Options, logger *log.Logger) *Migrator {
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	if opts.Dialect == nil {
		opts.Dialect = SQLiteToPostgres()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Migrator{
		src:    src,
		dst:    dst,
		opts:   opts,
		logger: logger.WithComponent(log.ComponentMigrator),
	}
}

// Run executes the schema phase and then the data phase. The returned report
// carries the state the run reached; a phase error stops the run there.
func (m *Migrator) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{State: StateInit}

	report.State = StateSchema
	schema, err := m.SchemaPhase(ctx)
	report.Schema = schema
	if err != nil {
		return report, err
	}

	report.State = StateData
	data, err := m.DataPhase(ctx)
	report.Data = data
	if err != nil {
		return report, err
	}

	report.State = StateDone
	m.logger.InfoContext(ctx, "Migration finished",
		log.FieldState, report.State,
		"summary", report.Summary().String())
	return report, nil
}

// SchemaPhase creates every source table in the destination if absent.
func (m *Migrator) SchemaPhase(ctx context.Context) ([]Outcome, error) {
	start := time.Now()
	tables, err := m.src.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source tables: %w", err)
	}

	var outcomes []Outcome
	for _, table := range tables {
		if m.opts.Exclude(table) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		o := m.createTable(ctx, table)
		m.logOutcome(ctx, log.OpSchema, o)
		outcomes = append(outcomes, o)
	}

	m.logger.InfoContext(ctx, "Schema phase done",
		log.FieldPhase, log.OpSchema,
		"summary", Count(outcomes).String(),
		log.FieldDuration, time.Since(start).Milliseconds())
	return outcomes, nil
}

func (m *Migrator) createTable(ctx context.Context, table string) Outcome {
	ddl, err := m.src.TableDDL(ctx, table)
	if err != nil {
		return failed(table, err)
	}
	stmt, err := m.opts.Dialect.Translate(ddl)
	if err != nil {
		return failed(table, err)
	}
	if err := m.dst.ExecDDL(ctx, stmt); err != nil {
		return failed(table, err)
	}
	return succeeded(table)
}

// DataPhase copies rows table by table in the configured order.
func (m *Migrator) DataPhase(ctx context.Context) ([]Outcome, error) {
	start := time.Now()
	outcomes := make([]Outcome, 0, len(m.opts.DataTables))
	for _, table := range m.opts.DataTables {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		o := m.copyRows(ctx, table)
		m.logOutcome(ctx, log.OpData, o)
		outcomes = append(outcomes, o)
	}

	var inserted int64
	for _, o := range outcomes {
		inserted += o.Inserted
	}
	m.logger.InfoContext(ctx, "Data phase done",
		log.FieldPhase, log.OpData,
		"summary", Count(outcomes).String(),
		log.FieldInserted, inserted,
		log.FieldSkipped, Count(outcomes).Skipped,
		log.FieldDuration, time.Since(start).Milliseconds())
	return outcomes, nil
}

func (m *Migrator) copyRows(ctx context.Context, table string) Outcome {
	columns, rows, err := m.src.ReadRows(ctx, table)
	if err != nil {
		return failed(table, err)
	}
	if len(rows) == 0 {
		return skipped(table, "no data")
	}

	inserted, err := m.dst.InsertRows(ctx, table, columns, rows)
	if err != nil {
		o := failed(table, err)
		o.Rows = len(rows)
		return o
	}

	o := succeeded(table)
	o.Rows = len(rows)
	o.Inserted = inserted
	return o
}

// RepairSequences rebuilds the id sequence of every configured table. Tables
// are independent, so up to Workers run at once; outcomes keep table order.
func (m *Migrator) RepairSequences(ctx context.Context) ([]Outcome, error) {
	start := time.Now()
	outcomes := make([]Outcome, len(m.opts.SequenceTables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for i, table := range m.opts.SequenceTables {
		g.Go(func() error {
			next, err := m.dst.RepairSequence(gctx, table)
			if err != nil {
				outcomes[i] = failed(table, err)
			} else {
				o := succeeded(table)
				o.NextID = next
				outcomes[i] = o
			}
			m.logOutcome(gctx, log.OpSequences, outcomes[i])
			return nil
		})
	}
	_ = g.Wait()

	m.logger.InfoContext(ctx, "Sequence repair done",
		log.FieldPhase, log.OpSequences,
		"summary", Count(outcomes).String(),
		log.FieldDuration, time.Since(start).Milliseconds())
	return outcomes, ctx.Err()
}

func (m *Migrator) logOutcome(ctx context.Context, phase string, o Outcome) {
	args := []any{
		log.FieldPhase, phase,
		log.FieldTable, o.Table,
		log.FieldStatus, o.Status,
	}
	switch o.Status {
	case StatusFailed:
		m.logger.ErrorContext(ctx, "Table failed", append(args, log.FieldError, o.Reason)...)
	case StatusSkipped:
		m.logger.InfoContext(ctx, "Table skipped", append(args, "reason", o.Reason)...)
	default:
		if o.Rows > 0 {
			args = append(args, log.FieldRows, o.Rows, log.FieldInserted, o.Inserted)
		}
		if o.NextID > 0 {
			args = append(args, log.FieldNextID, o.NextID)
		}
		m.logger.InfoContext(ctx, "Table done", args...)
	}
}
