package db

import (
	"database/sql"
	"errors"
)

// IsNoRows reports whether the error means the query matched no rows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
