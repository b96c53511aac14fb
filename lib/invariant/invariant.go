// Package invariant holds the precondition failures raised by the pool math.
// Each failure wraps one of the Err* kinds and keeps the short tag of the check
// that failed, e.g. TICK or ZERO_NET.
package invariant

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange       = errors.New("invalid range")
	ErrInvalidOrdering    = errors.New("invalid ordering")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNotFound           = errors.New("not found")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrDuplicatePool      = errors.New("duplicate pool")
	ErrInsufficientInput  = errors.New("insufficient input amount")
	ErrNoProvider         = errors.New("no provider")
)

type Error struct {
	Kind error
	Tag  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Tag, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func New(kind error, tag string) error {
	return &Error{Kind: kind, Tag: tag}
}

// Check returns nil when cond holds.
func Check(cond bool, kind error, tag string) error {
	if cond {
		return nil
	}
	return New(kind, tag)
}

// Tag reports the tag of the first *Error in err's chain.
func Tag(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag
	}
	return ""
}
