package bookshelf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrRequired is returned when a required value is missing or empty.
	ErrRequired = errors.New("required")
	// ErrTooLong is returned when text exceeds its column bound.
	ErrTooLong = errors.New("too long")
	// ErrInvalidAudience is returned for audiences outside the closed set.
	ErrInvalidAudience = errors.New("invalid audience")
	// ErrInvalidReference is returned when a foreign key points at a missing row.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrReferenced is returned when a delete is blocked by dependent rows.
	ErrReferenced = errors.New("still referenced")
	// ErrConstraint is returned when a row fails a check constraint.
	ErrConstraint = errors.New("constraint violated")
)

// ValidationError describes a field rejected before any write.
type ValidationError struct {
	Entity string
	Field  string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// constraint is the class of an integrity failure reported by a driver.
type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintNotNull
	constraintForeignKey
	constraintCheck
	constraintTooLong
)

// MySQL server error numbers, see the server error reference.
const (
	mysqlDupEntry          = 1062
	mysqlBadNull           = 1048
	mysqlNoDefault         = 1364
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlRowIsReferenced2  = 1217
	mysqlNoReferencedRow2  = 1216
	mysqlDataTooLong       = 1406
	mysqlTruncatedWrongVal = 1265
	mysqlCheckViolated     = 3819
)

// lengthCheckSuffix ends the name of every length CHECK in the SQLite
// tables, which SQLite quotes in its error message.
const lengthCheckSuffix = "_length"

func classify(err error) constraint {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code != sqlite3.ErrConstraint {
			return constraintNone
		}
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return constraintUnique
		case sqlite3.ErrConstraintNotNull:
			return constraintNotNull
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			// ON DELETE RESTRICT is enforced as a trigger.
			return constraintForeignKey
		case sqlite3.ErrConstraintCheck:
			if strings.Contains(liteErr.Error(), lengthCheckSuffix) {
				return constraintTooLong
			}
			return constraintCheck
		}
		return constraintNone
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return constraintUnique
		case mysqlBadNull, mysqlNoDefault:
			return constraintNotNull
		case mysqlRowIsReferenced, mysqlRowIsReferenced2, mysqlNoReferencedRow, mysqlNoReferencedRow2:
			return constraintForeignKey
		case mysqlDataTooLong:
			return constraintTooLong
		case mysqlCheckViolated, mysqlTruncatedWrongVal:
			return constraintCheck
		}
	}

	return constraintNone
}

// translate wraps a driver error with the sentinel matching its constraint
// class. The driver error stays reachable through errors.As. onForeignKey
// picks the sentinel for a foreign key failure, which depends on whether the
// write inserted a reference or deleted a referenced row.
func translate(op string, err error, onForeignKey error) error {
	if err == nil {
		return nil
	}

	var sentinel error
	switch classify(err) {
	case constraintUnique:
		sentinel = ErrAlreadyExists
	case constraintNotNull:
		sentinel = ErrRequired
	case constraintForeignKey:
		sentinel = onForeignKey
	case constraintTooLong:
		sentinel = ErrTooLong
	case constraintCheck:
		sentinel = ErrConstraint
	}

	if sentinel == nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, err)
}
