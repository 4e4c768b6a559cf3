package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	uniqueViolationCode  = "23505"
	notNullViolationCode = "23502"
)

// isUniqueConstraintViolation reports whether err was raised by a unique index.
// GORM only translates the driver error when TranslateError is enabled, so the
// raw SQLSTATE is checked as well.
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return hasSQLState(err, uniqueViolationCode)
}

func isNotNullConstraintViolation(err error) bool {
	return hasSQLState(err, notNullViolationCode)
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == code
}
