package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBuildInsert(t *testing.T) {
	stmt, args := BuildInsert("ventas", []string{"id", "cliente"}, [][]any{
		{int64(1), "Ana"},
		{int64(2), "Luis"},
	})

	assert.Equal(t, `INSERT INTO "ventas" ("id", "cliente") VALUES (?, ?), (?, ?) ON CONFLICT DO NOTHING`, stmt)
	assert.Equal(t, []any{int64(1), "Ana", int64(2), "Luis"}, args)
}

func TestBuildInsert_QuotesIdentifiers(t *testing.T) {
	stmt, _ := BuildInsert(`we"ird`, []string{"order"}, [][]any{{1}})
	assert.Equal(t, `INSERT INTO "we""ird" ("order") VALUES (?) ON CONFLICT DO NOTHING`, stmt)
}

func TestCoerceBooleans(t *testing.T) {
	cols := []string{"id", "es_grupo", "nota"}
	rows := [][]any{
		{int64(1), int64(1), "1"},
		{int64(2), int64(0), nil},
		{int64(3), nil, "x"},
		{int64(4), "1", "y"},
	}

	got := CoerceBooleans(cols, rows, map[string]bool{"es_grupo": true})
	assert.Equal(t, [][]any{
		{int64(1), true, "1"},
		{int64(2), false, nil},
		{int64(3), nil, "x"},
		{int64(4), true, "y"},
	}, got)
	assert.Equal(t, int64(1), rows[0][1], "input rows are not modified")

	same := CoerceBooleans(cols, rows, map[string]bool{"otra": true})
	assert.Equal(t, rows, same)
}

func TestSequenceStatements(t *testing.T) {
	got := SequenceStatements("ventas", 43)
	assert.Equal(t, []string{
		`DROP SEQUENCE IF EXISTS "ventas_id_seq" CASCADE`,
		`CREATE SEQUENCE "ventas_id_seq" START WITH 43`,
		`ALTER TABLE "ventas" ALTER COLUMN id SET DEFAULT nextval('"ventas_id_seq"')`,
		`ALTER SEQUENCE "ventas_id_seq" OWNED BY "ventas".id`,
	}, got)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "boom", Describe(errors.New("boom")))

	pgErr := &pgconn.PgError{Code: "42P01", Message: `relation "nope" does not exist`}
	wrapped := fmt.Errorf("exec: %w", pgErr)
	assert.Equal(t, `SQLSTATE 42P01: relation "nope" does not exist`, Describe(wrapped))
}
