package ordtree

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the errors returned by the containers and the structure validator.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	// BulkLoadNotEmpty is returned when BulkLoad is called on a container holding entries.
	BulkLoadNotEmpty
	// BulkLoadNotSorted is returned when the BulkLoad input has a key lower than its predecessor.
	BulkLoadNotSorted
	// StructureViolation is returned by the B-tree validator on any broken invariant.
	StructureViolation
)

var (
	// ErrNotEmpty is wrapped by BulkLoadNotEmpty errors.
	ErrNotEmpty = errors.New("bulk load not allowed on non-empty container")
	// ErrNotSorted is wrapped by BulkLoadNotSorted errors.
	ErrNotSorted = errors.New("keys must be sorted in ascending order")
	// ErrInvalidStructure is wrapped by StructureViolation errors.
	ErrInvalidStructure = errors.New("invalid b-tree structure")
)

// Error is the ordtree custom error.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Sprintf("error code: %d, user data: %v, details: %v", e.Code, e.UserData, e.Err)
}

// Unwrap returns the wrapped error so errors.Is can match the Err* sentinels.
func (e Error) Unwrap() error {
	return e.Err
}

// IsErrorCode reports whether err is (or wraps) an Error having the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
