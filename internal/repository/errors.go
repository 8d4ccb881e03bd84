package repository

import (
	"errors"

	"go-bakery-pos/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto the domain taxonomy. Anything it
// does not recognise is returned unchanged and surfaces as an internal error.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s not found", entity)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("%s already exists", entity)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperror.Conflict("%s is referenced by other records", entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Conflict("%s already exists", entity)
		case pgForeignKeyViolation:
			return apperror.Conflict("%s is referenced by other records", entity)
		}
	}
	return err
}
