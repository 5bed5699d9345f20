// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current visitor tried to
// touch a planner owned by someone else, while ErrConflict signals that
// a concurrent write already stored the same planner item.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with existing state,
// such as a planner item inserted twice by racing requests. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Not-found sentinels; repositories return these instead of sql.ErrNoRows.
var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrPlannerNotFound    = errors.New("planner not found")
	ErrAttractionNotFound = errors.New("attraction not found")
	ErrShowNotFound       = errors.New("show not found")
	ErrServiceNotFound    = errors.New("service not found")
)

// isDuplicateKey reports MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '?')
	}
	return string(b)
}
