package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type SaleRow struct {
	FechaInicio string
	Pagado      sql.NullFloat64
	EsBloqueo   sql.NullInt64
	EsGrupo     sql.NullInt64
}

// The year filter is a coarse text match; callers parse each date and
// re-check month and year on the typed value.
const listSalesByYear = `
SELECT fecha_inicio, pagado, es_bloqueo, es_grupo
FROM ventas
WHERE RTRIM(fecha_inicio) LIKE '%/' || ?
ORDER BY id
`

func (q *Queries) ListSalesByYear(ctx context.Context, year string) ([]SaleRow, error) {
	rows, err := q.db.QueryContext(ctx, listSalesByYear, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleRow
	for rows.Next() {
		var i SaleRow
		if err := rows.Scan(&i.FechaInicio, &i.Pagado, &i.EsBloqueo, &i.EsGrupo); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type TripPaymentRow struct {
	FechaSalida string
	Monto       sql.NullFloat64
}

const listDomesticTripPaymentsByYear = `
SELECT v.fecha_salida, c.total_abonado
FROM viajes_nacionales v
INNER JOIN clientes_nacionales c ON c.viaje_id = v.id
WHERE RTRIM(v.fecha_salida) LIKE '%/' || ?
ORDER BY c.id
`

func (q *Queries) ListDomesticTripPaymentsByYear(ctx context.Context, year string) ([]TripPaymentRow, error) {
	return q.listTripPayments(ctx, listDomesticTripPaymentsByYear, year)
}

const listInternationalTripPaymentsByYear = `
SELECT v.fecha_salida, c.abonado_usd
FROM viajes_internacionales v
INNER JOIN clientes_internacionales c ON c.viaje_id = v.id
WHERE RTRIM(v.fecha_salida) LIKE '%/' || ?
ORDER BY c.id
`

func (q *Queries) ListInternationalTripPaymentsByYear(ctx context.Context, year string) ([]TripPaymentRow, error) {
	return q.listTripPayments(ctx, listInternationalTripPaymentsByYear, year)
}

func (q *Queries) listTripPayments(ctx context.Context, query, year string) ([]TripPaymentRow, error) {
	rows, err := q.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TripPaymentRow
	for rows.Next() {
		var i TripPaymentRow
		if err := rows.Scan(&i.FechaSalida, &i.Monto); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type OperatingExpenseRow struct {
	Categoria string
	Monto     sql.NullFloat64
	Mes       int64
	Anio      int64
}

const listOperatingExpenses = `
SELECT categoria, monto, mes, anio
FROM gastos_operativos
WHERE mes = ? AND anio = ?
ORDER BY id
`

func (q *Queries) ListOperatingExpenses(ctx context.Context, mes, anio int64) ([]OperatingExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listOperatingExpenses, mes, anio)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OperatingExpenseRow
	for rows.Next() {
		var i OperatingExpenseRow
		if err := rows.Scan(&i.Categoria, &i.Monto, &i.Mes, &i.Anio); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type ExpenseCategoryRow struct {
	Nombre      string
	Descripcion sql.NullString
	Color       sql.NullString
	Icono       sql.NullString
}

const listExpenseCategories = `
SELECT nombre, descripcion, color, icono
FROM categorias_gastos
ORDER BY id
`

func (q *Queries) ListExpenseCategories(ctx context.Context) ([]ExpenseCategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenseCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseCategoryRow
	for rows.Next() {
		var i ExpenseCategoryRow
		if err := rows.Scan(&i.Nombre, &i.Descripcion, &i.Color, &i.Icono); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Catalog queries. rowid order on sqlite_master is creation order, so a table
// always comes after the tables it was able to reference when created.
const listTables = `
SELECT name
FROM sqlite_master
WHERE type = 'table'
ORDER BY rowid
`

func (q *Queries) ListTables(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTableDDL = `
SELECT sql
FROM sqlite_master
WHERE type = 'table' AND name = ?
`

func (q *Queries) GetTableDDL(ctx context.Context, name string) (string, error) {
	row := q.db.QueryRowContext(ctx, getTableDDL, name)
	var ddl sql.NullString
	err := row.Scan(&ddl)
	return ddl.String, err
}

const createSale = `
INSERT INTO ventas (cliente, destino, fecha_inicio, pagado, es_bloqueo, es_grupo)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateSaleParams struct {
	Cliente     string
	Destino     string
	FechaInicio string
	Pagado      float64
	EsBloqueo   bool
	EsGrupo     bool
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSale,
		arg.Cliente,
		arg.Destino,
		arg.FechaInicio,
		arg.Pagado,
		boolToInt(arg.EsBloqueo),
		boolToInt(arg.EsGrupo),
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createOperatingExpense = `
INSERT INTO gastos_operativos (categoria, descripcion, monto, mes, anio)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreateOperatingExpenseParams struct {
	Categoria   string
	Descripcion string
	Monto       float64
	Mes         int64
	Anio        int64
}

func (q *Queries) CreateOperatingExpense(ctx context.Context, arg CreateOperatingExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createOperatingExpense,
		arg.Categoria,
		arg.Descripcion,
		arg.Monto,
		arg.Mes,
		arg.Anio,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createDomesticTrip = `
INSERT INTO viajes_nacionales (destino, fecha_salida, precio)
VALUES (?, ?, ?)
RETURNING id
`

const createInternationalTrip = `
INSERT INTO viajes_internacionales (destino, fecha_salida, precio_usd)
VALUES (?, ?, ?)
RETURNING id
`

type CreateTripParams struct {
	Destino     string
	FechaSalida string
	Precio      float64
}

func (q *Queries) CreateDomesticTrip(ctx context.Context, arg CreateTripParams) (int64, error) {
	return q.createReturningID(ctx, createDomesticTrip, arg.Destino, arg.FechaSalida, arg.Precio)
}

func (q *Queries) CreateInternationalTrip(ctx context.Context, arg CreateTripParams) (int64, error) {
	return q.createReturningID(ctx, createInternationalTrip, arg.Destino, arg.FechaSalida, arg.Precio)
}

const createDomesticClient = `
INSERT INTO clientes_nacionales (viaje_id, nombre, total_abonado)
VALUES (?, ?, ?)
RETURNING id
`

const createInternationalClient = `
INSERT INTO clientes_internacionales (viaje_id, nombre, abonado_usd)
VALUES (?, ?, ?)
RETURNING id
`

type CreateTripClientParams struct {
	ViajeID int64
	Nombre  string
	Monto   float64
}

func (q *Queries) CreateDomesticClient(ctx context.Context, arg CreateTripClientParams) (int64, error) {
	return q.createReturningID(ctx, createDomesticClient, arg.ViajeID, arg.Nombre, arg.Monto)
}

func (q *Queries) CreateInternationalClient(ctx context.Context, arg CreateTripClientParams) (int64, error) {
	return q.createReturningID(ctx, createInternationalClient, arg.ViajeID, arg.Nombre, arg.Monto)
}

func (q *Queries) createReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	row := q.db.QueryRowContext(ctx, query, args...)
	var id int64
	err := row.Scan(&id)
	return id, err
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
