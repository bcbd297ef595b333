package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"agencia/internal/core"
	"agencia/internal/log"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var ErrUnknownTable = errors.New("unknown table")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

// NewSQLiteRepository opens (creating if needed) the agency database and
// applies the embedded migrations.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	repo, err := open(dbPath, logger)
	if err != nil {
		return nil, err
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	repo.logger.Debug("SQLite schema ready", log.FieldPath, dbPath, "version", version)

	return repo, nil
}

// OpenSQLiteRepository opens an existing database as-is, without migrating it.
// The migrator reads legacy files this way.
func OpenSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("stat sqlite database: %w", err)
	}
	return open(dbPath, logger)
}

func open(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if logger == nil {
		logger = log.Discard()
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Queries exposes the typed statements, mostly for seeding fixtures.
func (r *SQLiteRepository) Queries() *Queries {
	return r.queries
}

// Sales implements finance.Source
func (r *SQLiteRepository) Sales(ctx context.Context, year int) ([]core.Sale, error) {
	rows, err := r.queries.ListSalesByYear(ctx, strconv.Itoa(year))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	sales := make([]core.Sale, 0, len(rows))
	for _, row := range rows {
		start, ok := r.parseDate(ctx, "ventas", row.FechaInicio)
		if !ok || start.Year() != year {
			continue
		}
		sales = append(sales, core.Sale{
			Start:   start,
			Paid:    nullDecimal(row.Pagado),
			Blocked: row.EsBloqueo.Valid && row.EsBloqueo.Int64 != 0,
			Group:   row.EsGrupo.Valid && row.EsGrupo.Int64 != 0,
		})
	}
	return sales, nil
}

// DomesticTripPayments implements finance.Source
func (r *SQLiteRepository) DomesticTripPayments(ctx context.Context, year int) ([]core.TripPayment, error) {
	rows, err := r.queries.ListDomesticTripPaymentsByYear(ctx, strconv.Itoa(year))
	if err != nil {
		return nil, fmt.Errorf("list domestic trip payments: %w", err)
	}
	return r.tripPayments(ctx, "viajes_nacionales", year, rows), nil
}

// InternationalTripPayments implements finance.Source. Amounts are USD.
func (r *SQLiteRepository) InternationalTripPayments(ctx context.Context, year int) ([]core.TripPayment, error) {
	rows, err := r.queries.ListInternationalTripPaymentsByYear(ctx, strconv.Itoa(year))
	if err != nil {
		return nil, fmt.Errorf("list international trip payments: %w", err)
	}
	return r.tripPayments(ctx, "viajes_internacionales", year, rows), nil
}

func (r *SQLiteRepository) tripPayments(ctx context.Context, table string, year int, rows []TripPaymentRow) []core.TripPayment {
	payments := make([]core.TripPayment, 0, len(rows))
	for _, row := range rows {
		departure, ok := r.parseDate(ctx, table, row.FechaSalida)
		if !ok || departure.Year() != year {
			continue
		}
		payments = append(payments, core.TripPayment{
			Departure: departure,
			Amount:    nullDecimal(row.Monto),
		})
	}
	return payments
}

// OperatingExpenses implements finance.Source
func (r *SQLiteRepository) OperatingExpenses(ctx context.Context, p core.Period) ([]core.OperatingExpense, error) {
	rows, err := r.queries.ListOperatingExpenses(ctx, int64(p.Month), int64(p.Year))
	if err != nil {
		return nil, fmt.Errorf("list operating expenses: %w", err)
	}

	expenses := make([]core.OperatingExpense, len(rows))
	for i, row := range rows {
		expenses[i] = core.OperatingExpense{
			Category: row.Categoria,
			Amount:   nullDecimal(row.Monto),
			Month:    int(row.Mes),
			Year:     int(row.Anio),
		}
	}
	return expenses, nil
}

// ExpenseCategories implements finance.Source
func (r *SQLiteRepository) ExpenseCategories(ctx context.Context) ([]core.ExpenseCategory, error) {
	rows, err := r.queries.ListExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}

	categories := make([]core.ExpenseCategory, len(rows))
	for i, row := range rows {
		categories[i] = core.ExpenseCategory{
			Name:        row.Nombre,
			Description: row.Descripcion.String,
			Color:       row.Color.String,
			Icon:        row.Icono.String,
		}
	}
	return categories, nil
}

// ListTables implements migrator.Source. Tables come back in creation order.
func (r *SQLiteRepository) ListTables(ctx context.Context) ([]string, error) {
	tables, err := r.queries.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// TableDDL implements migrator.Source
func (r *SQLiteRepository) TableDDL(ctx context.Context, table string) (string, error) {
	ddl, err := r.queries.GetTableDDL(ctx, table)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if err != nil {
		return "", fmt.Errorf("get ddl for %s: %w", table, err)
	}
	return ddl, nil
}

// ReadRows implements migrator.Source. The table name is checked against
// the catalog before it is interpolated into the query.
func (r *SQLiteRepository) ReadRows(ctx context.Context, table string) ([]string, [][]any, error) {
	if _, err := r.TableDDL(ctx, table); err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+QuoteIdent(table))
	if err != nil {
		return nil, nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns of %s: %w", table, err)
	}

	var values [][]any
	for rows.Next() {
		row := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	r.logger.DebugContext(ctx, "Read source rows", log.FieldTable, table, log.FieldRows, len(values))
	return columns, values, nil
}

// QuoteIdent double-quotes an SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (r *SQLiteRepository) parseDate(ctx context.Context, table, raw string) (core.Date, bool) {
	d, err := core.ParseDate(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "Skipping row with unparseable date",
			log.FieldTable, table,
			log.FieldError, err)
		return core.Date{}, false
	}
	return d, true
}

func nullDecimal(f sql.NullFloat64) decimal.Decimal {
	if !f.Valid {
		return decimal.Zero
	}
	return core.FromFloat(f.Float64)
}
