// Package store holds what every repository backend shares: the sentinel
// errors handlers map to status codes, and the helpers the in-memory
// backend uses to page results the way the database backends do.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by every backend when a row does not exist in
	// the caller's hospital.
	ErrNotFound = errors.New("not found")

	// ErrNoHospital means the context carries no hospital scope.
	ErrNoHospital = errors.New("no hospital in context")

	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means the write would break an invariant of stored data.
	ErrConflict = errors.New("conflict")
)

// Invalid returns a validation error with a formatted message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Strings turns a nil slice into an empty one so array columns never get
// NULL.
func Strings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewID returns a fresh identifier for backends that do not assign one.
func NewID() string {
	return uuid.NewString()
}

// ValidUUID reports whether id can be used as a Postgres UUID key.
func ValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Now is the single clock used for created_at/updated_at stamps.
var Now = func() time.Time {
	return time.Now().UTC()
}

// Window returns the [offset, offset+limit) slice bounds for n items.
func Window(n, limit, offset int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end = n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
