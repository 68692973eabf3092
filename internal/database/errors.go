package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

var ErrUniqueViolation = errors.New("unique constraint violation")

// IsUniqueViolation detects duplicate keys from either the raw driver error
// or GORM's translated error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUniqueViolation) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Translate tags unique violations with ErrUniqueViolation, keeping the
// driver error in the chain. Other errors are returned unchanged.
func Translate(err error) error {
	if err == nil || errors.Is(err, ErrUniqueViolation) || !IsUniqueViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
}

// ConstraintName returns the violated constraint when err carries one.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
