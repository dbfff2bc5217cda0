package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsConnectionErr reports errors where the server could not be reached or
// dropped the connection, as opposed to a rejected statement.
func IsConnectionErr(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 = connection exception, 57P0x = operator intervention
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:4] == "57P0")
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
