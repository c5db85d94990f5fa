package helper

import (
	"errors"
	"strings"

	"dormku_backend/internals/helpers/apperror"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// IsUniqueViolation recognises duplicate-key errors from every supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlNoReferencedRow
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

// WrapDBError classifies a gorm error: missing row → not found, duplicate → conflict, else infrastructure.
func WrapDBError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case apperror.KindOf(err) != apperror.KindInfrastructure:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(what + " not found")
	case IsUniqueViolation(err):
		return &apperror.Error{Kind: apperror.KindConflict, Message: what + " already exists", Err: err}
	case IsForeignKeyViolation(err):
		return &apperror.Error{Kind: apperror.KindConflict, Message: what + " is still referenced", Err: err}
	default:
		return apperror.Infra(what, err)
	}
}
