package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// QuoteIdent double-quotes an identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// BuildInsert renders one multi-row INSERT that skips rows conflicting with
// an existing key. Placeholders are '?' and are rebound by gorm.
func BuildInsert(table string, columns []string, rows [][]any) (string, []any) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(c)
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", QuoteIdent(table), strings.Join(quoted, ", "))

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		args = append(args, row...)
	}
	b.WriteString(" ON CONFLICT DO NOTHING")
	return b.String(), args
}

const booleanColumns = `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = ? AND data_type = 'boolean'
`

// CoerceBooleans turns SQLite's 0/1 flags into bools for the columns in
// boolCols. Rows that need no change are shared with the input.
func CoerceBooleans(columns []string, rows [][]any, boolCols map[string]bool) [][]any {
	var idx []int
	for i, c := range columns {
		if boolCols[c] {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return rows
	}

	out := make([][]any, len(rows))
	for r, row := range rows {
		out[r] = row
		copied := false
		for _, i := range idx {
			if i >= len(row) {
				continue
			}
			b, ok := asBool(row[i])
			if !ok {
				continue
			}
			if !copied {
				out[r] = append([]any(nil), row...)
				copied = true
			}
			out[r][i] = b
		}
	}
	return out
}

func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case int64:
		return x != 0, true
	case float64:
		return x != 0, true
	case string:
		switch strings.TrimSpace(x) {
		case "0":
			return false, true
		case "1":
			return true, true
		}
	}
	return false, false
}

// SequenceName is the identity sequence the repair owns for table.
func SequenceName(table string) string {
	return table + "_id_seq"
}

// SequenceStatements rebuilds table's id sequence so the next value is start.
func SequenceStatements(table string, start int64) []string {
	seq := QuoteIdent(SequenceName(table))
	tbl := QuoteIdent(table)
	return []string{
		fmt.Sprintf("DROP SEQUENCE IF EXISTS %s CASCADE", seq),
		fmt.Sprintf("CREATE SEQUENCE %s START WITH %d", seq, start),
		fmt.Sprintf("ALTER TABLE %s ALTER COLUMN id SET DEFAULT nextval(%s)", tbl, quoteLiteral(seq)),
		fmt.Sprintf("ALTER SEQUENCE %s OWNED BY %s.id", seq, tbl),
	}
}

// Describe shortens server errors to "SQLSTATE <code>: <message>".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("SQLSTATE %s: %s", pgErr.Code, pgErr.Message)
	}
	return err.Error()
}
