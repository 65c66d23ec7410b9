package db

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (code 23505) on the named constraint. An empty name matches any
// constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraintName == "" || pqErr.Constraint == constraintName
}
