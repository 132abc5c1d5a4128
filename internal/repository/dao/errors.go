package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a unique constraint failure on
// table.column. Postgres errors are matched on the constraint name, SQLite
// errors on the driver message.
func isUniqueViolation(err error, table, column string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.ConstraintName, table) &&
			strings.Contains(pgErr.ConstraintName, column)
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+table+"."+column)
}
