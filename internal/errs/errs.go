// Package errs defines the error taxonomy shared by the study packages.
//
// Internal invariant violations (InvalidStateError, OutOfRangeError) point at
// a caller bug. Recoverable errors (EmptyPoolError, ProviderError) are meant
// to be shown to the learner, who can fix the input and try again.
package errs

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a malformed question or card set. The session
// that received it never starts.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports an operation invoked in the wrong state.
type InvalidStateError struct {
	Op    string
	State string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: %s not allowed in state %q", e.Op, e.State)
}

// OutOfRangeError reports an index-based operation with a bad index.
type OutOfRangeError struct {
	Op    string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

// EmptyPoolError reports that a card filter selected nothing to quiz on.
type EmptyPoolError struct {
	Filter string
}

func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf("no cards match filter %q", e.Filter)
}

// ProviderKind classifies content and extraction provider failures.
type ProviderKind string

const (
	ProviderQuota      ProviderKind = "quota"
	ProviderCredential ProviderKind = "credential"
	ProviderMalformed  ProviderKind = "malformed"
	ProviderTransient  ProviderKind = "transient"
)

// ProviderError is the normalized form of any external provider failure.
type ProviderError struct {
	Kind ProviderKind
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: provider error (%s)", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: provider error (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NeedsCredential reports whether retrying requires a new API key rather
// than another attempt with the same one.
func (e *ProviderError) NeedsCredential() bool {
	return e.Kind == ProviderQuota || e.Kind == ProviderCredential
}

// IsInternal reports whether err is an invariant violation.
func IsInternal(err error) bool {
	var st *InvalidStateError
	var rng *OutOfRangeError
	return errors.As(err, &st) || errors.As(err, &rng)
}

// IsRecoverable reports whether the learner can recover from err by
// changing input or retrying.
func IsRecoverable(err error) bool {
	var pool *EmptyPoolError
	var prov *ProviderError
	return errors.As(err, &pool) || errors.As(err, &prov)
}

// AsProvider returns the ProviderError wrapped in err, if any.
func AsProvider(err error) (*ProviderError, bool) {
	var prov *ProviderError
	if errors.As(err, &prov) {
		return prov, true
	}
	return nil, false
}
