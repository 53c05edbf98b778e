package usecase

import (
	"errors"
	"strings"
	"time"

	"askadoc-server/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound    = apperror.NotFound("user not found")
	ErrDoctorNotFound  = apperror.NotFound("doctor not found")
	ErrPatientNotFound = apperror.NotFound("patient not found")
	ErrInvalidTime     = apperror.Validation("time must be a valid RFC 3339 timestamp")
	ErrInvalidDate     = apperror.Validation("invalid date format, use YYYY-MM-DD")
)

// PostgreSQL error codes
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// parseTimestamp accepts RFC 3339 with or without fractional seconds
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return t.UTC(), nil
}

// parseDate parses an optional YYYY-MM-DD date
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	return isConstraintError(err, pgUniqueViolation, constraintName)
}

// isExclusionViolation checks if the error is a PostgreSQL exclusion constraint violation
// containing the specified constraint name
func isExclusionViolation(err error, constraintName string) bool {
	return isConstraintError(err, pgExclusionViolation, constraintName)
}

func isConstraintError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == code && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
