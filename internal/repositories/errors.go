package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrMultipleRows    = errors.New("multiple records found")
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// SQLSTATE for unique_violation.
const uniqueViolationCode = pq.ErrorCode("23505")

// mapError turns driver errors into the repository sentinels, keeping the original in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return errors.Join(ErrUniqueViolation, err)
	}

	return err
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}
