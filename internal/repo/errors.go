package repo

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates that a record with the same primary key exists.
	ErrDuplicate = errors.New("duplicate")
)

// isUniqueViolation reports whether err is a primary-key/unique conflict.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "primary key must be unique")
}
