// Package postgres implements the repository interfaces with database/sql
// and parameterized queries. It contains no business logic.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"stickynote/internal/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// mapWriteErr translates driver errors that callers branch on.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return repository.ErrDuplicate
	case foreignKeyViolation:
		return repository.ErrInvalidReference
	}
	return err
}

// execAffectingOne reports sql.ErrNoRows when an Exec matched no row.
func execAffectingOne(res sql.Result, err error) error {
	if err != nil {
		return mapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
