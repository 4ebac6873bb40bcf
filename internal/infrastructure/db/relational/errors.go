package relational

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError turns driver constraint errors into domain errors and
// returns anything else unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &domain.ConflictError{Field: conflictField(pgErr.ConstraintName), Err: err}
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrRoleNotFound, pgErr.ConstraintName)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return &domain.ConflictError{Field: conflictField(liteErr.Error()), Err: err}
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s", domain.ErrRoleNotFound, liteErr.Error())
		}
	}
	return err
}

// conflictField reads the column out of a constraint name or message such
// as "idx_users_username_live" or "UNIQUE constraint failed: users.email".
func conflictField(s string) string {
	switch {
	case strings.Contains(s, "username"):
		return "username"
	case strings.Contains(s, "email"):
		return "email"
	}
	return ""
}
