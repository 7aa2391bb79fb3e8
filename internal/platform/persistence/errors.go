package persistence

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
	PgNumericOutOfRange   = "22003"
)

// ClassifyError wraps connectivity failures in shared.ErrStoreUnavailable,
// turns numeric overflow into an invalid argument and returns every other
// error unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var unavailable shared.ErrStoreUnavailable
	if errors.As(err, &unavailable) {
		return err
	}
	if IsUnavailable(err) {
		return shared.ErrStoreUnavailable{Store: "postgres", Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PgNumericOutOfRange {
		return shared.InvalidArgument("amount", "is out of range")
	}
	return err
}

// IsUnavailable reports whether err means the database could not be reached
func IsUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 connection exceptions, admin shutdown, too many connections
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01" || pgErr.Code == "53300"
	}
	return false
}

// ConstraintViolation returns the violated constraint when err carries the given SQLSTATE
func ConstraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
