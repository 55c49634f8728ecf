package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/votehub/voting-api/internal/core/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintError returns the violated constraint name and SQLSTATE when err
// comes from Postgres.
func constraintError(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.ConstraintName, true
}

// mapVoteInsertError translates constraint violations raised by a vote insert.
// typeLabel is used for the type conflict message.
func mapVoteInsertError(err error, typeLabel string) error {
	code, constraint, ok := constraintError(err)
	if !ok {
		return err
	}
	switch {
	case code == codeUniqueViolation && constraint == constraintUserCandidate:
		return domain.ErrDuplicateVote
	case code == codeUniqueViolation && constraint == constraintUserType:
		return domain.TypeConflictError(typeLabel)
	case code == codeForeignKeyViolation:
		return domain.ErrCandidateNotFound
	}
	return err
}

// mapTypeInsertError translates a duplicate candidate type label.
func mapTypeInsertError(err error) error {
	code, constraint, ok := constraintError(err)
	if ok && code == codeUniqueViolation && constraint == constraintTypeLabel {
		return domain.ErrDuplicateType
	}
	return err
}

// mapCandidateInsertError translates a dangling type reference.
func mapCandidateInsertError(err error) error {
	code, _, ok := constraintError(err)
	if ok && code == codeForeignKeyViolation {
		return domain.ErrCandidateTypeNotFound
	}
	return mapTypeInsertError(err)
}
