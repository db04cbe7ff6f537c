package types

import (
	"errors"
	"fmt"
)

// Catalog lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrUnknownEntity   = errors.New("unknown entity")
)

// Store operation errors. Every failure returned by a Store matches
// exactly one of these with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("record already exists")
	ErrIdentifierMismatch  = errors.New("record identifier cannot change")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrDependencyConflict  = errors.New("record is referenced by dependents")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrInvalidFilterField  = errors.New("invalid filter field")
	ErrInvalidFilterValue  = errors.New("invalid filter value")
	ErrParse               = errors.New("malformed record line")
	ErrCorruptStore        = errors.New("store is corrupt")

	// ErrTimeout is transient: the operation did not complete within the
	// configured OpTimeout and left the backing file untouched. Callers
	// may retry.
	ErrTimeout = errors.New("operation timed out")
)

// RecordError describes a rejected lookup or mutation. Err is one of the
// store operation sentinels; Field and Value name the offending input when
// there is one.
type RecordError struct {
	Entity Entity
	ID     int
	Field  string
	Value  string
	Err    error
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%s %d", e.Entity.Singular(), e.ID)
	if e.Field != "" {
		msg += fmt.Sprintf(": %s %q", e.Field, e.Value)
	}
	return msg + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error { return e.Err }

// ParseError reports a line that could not be decoded. Line is 1-based
// and counts the header; it is zero when the error did not come from a
// file.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := "parse"
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %s %q", e.Field, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// CorruptStoreError reports a backing file that failed to load. The whole
// load is abandoned; no partial collection is returned.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("store %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorruptStore}
	}
	return []error{ErrCorruptStore, e.Err}
}

// InvalidFilterFieldError reports a filter key the entity does not have.
type InvalidFilterFieldError struct {
	Entity Entity
	Field  string
}

func (e *InvalidFilterFieldError) Error() string {
	return fmt.Sprintf("%s cannot be filtered by %q", e.Entity, e.Field)
}

func (e *InvalidFilterFieldError) Unwrap() error { return ErrInvalidFilterField }
