package printer

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero is returned when a device reports a maximum capacity
	// of zero alongside a positive actual level.
	ErrDivisionByZero = errors.New("max capacity is zero")
	// ErrInvalidCapacity is returned when the maximum capacity is negative
	// (a Printer MIB sentinel) alongside a positive actual level.
	ErrInvalidCapacity = errors.New("max capacity is not a positive number")
	// ErrLengthMismatch is returned by AllSubUnits when the parallel walks
	// disagree on the number of consumables.
	ErrLengthMismatch = errors.New("sub-unit walks returned different lengths")
	// ErrUnknownType is returned when an operation needs the printer type and
	// classification failed.
	ErrUnknownType = errors.New("printer type unknown")
)

// DerivationError reports a level that could not be turned into a percentage.
type DerivationError struct {
	Max    int64
	Actual int64
	Err    error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derive level from actual=%d max=%d: %v", e.Actual, e.Max, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// LengthMismatchError carries the row counts of the three sub-unit walks.
// Rows are truncated to the shortest of them.
type LengthMismatchError struct {
	Names  int
	Max    int
	Actual int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%v: names=%d max=%d actual=%d", ErrLengthMismatch, e.Names, e.Max, e.Actual)
}

// Is reports whether target is ErrLengthMismatch.
func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }
