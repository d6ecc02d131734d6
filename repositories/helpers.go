package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// patchField is one present field of a partial update.
type patchField struct {
	column string
	value  interface{}
}

// setClause renders "col = $n, ..." starting at placeholder first.
// Column names come from the patch structs only; values are always bound.
func setClause(fields []patchField, first int) (string, []interface{}) {
	parts := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for i, f := range fields {
		parts = append(parts, fmt.Sprintf("%s = $%d", f.column, first+i))
		args = append(args, f.value)
	}
	return strings.Join(parts, ", "), args
}

// valuesPlaceholders renders "($1, $2), ($3, $4)" for rows of width columns.
func valuesPlaceholders(rows, width int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < width; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
