// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios with errors.Is.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state: a duplicate unique value or dependent rows that
// block a delete.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned when a write references a row that does
// not exist (unknown genre, actor, movie, hall or session id).
var ErrInvalidReference = errors.New("invalid reference")

// ErrPlaceOutOfRange is returned when a ticket's row or seat lies outside
// the hall grid.
var ErrPlaceOutOfRange = errors.New("place out of range")

// ErrPlaceTaken is returned when a ticket's place is already sold for the
// session.
var ErrPlaceTaken = errors.New("place already taken")

// ErrEmailExists is returned when registering an email that is in use.
var ErrEmailExists = errors.New("email already exists")

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool     { return mysqlErrNumber(err) == mysqlDuplicateEntry }
func isReferenced(err error) bool    { return mysqlErrNumber(err) == mysqlRowIsReferenced }
func isMissingParent(err error) bool { return mysqlErrNumber(err) == mysqlNoReferencedRow }
