package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation. When
// constraintName is set only that constraint matches.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraintName == ""
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgUniqueViolation {
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, sqliteUniqueFailed) {
		return false
	}
	if constraintName == "" || strings.Contains(msg, constraintName) {
		return true
	}
	return sqliteConstraintName(msg) == constraintName
}

const sqliteUniqueFailed = "UNIQUE constraint failed: "

// sqliteConstraintName maps "UNIQUE constraint failed: orders.reference" to the
// postgres default name "orders_reference_key".
func sqliteConstraintName(msg string) string {
	_, columns, ok := strings.Cut(msg, sqliteUniqueFailed)
	if !ok {
		return ""
	}
	parts := []string{}
	for i, column := range strings.Split(columns, ",") {
		table, name, found := strings.Cut(strings.TrimSpace(column), ".")
		if !found {
			return ""
		}
		if i == 0 {
			parts = append(parts, table)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "_") + "_key"
}

// IsNotFound reports whether err is gorm's missing record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
