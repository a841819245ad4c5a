package domain

import (
	"errors"
	"fmt"
)

// ErrCheckInProgress signals that a compliance check is already tracked for
// the plan; the duplicate request was rejected without a network call.
var ErrCheckInProgress = errors.New("compliance check already in progress")

// UnreachableError means the backend gave no response at all. Retrying is
// always safe.
type UnreachableError struct {
	Op  string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// ValidationError means the input was rejected, either client-side before
// any request or by the backend (wrong type, over the size ceiling). The
// input has to change before a retry can succeed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProcessingError means the backend accepted the input but analysis failed;
// Message carries the server-supplied detail verbatim.
type ProcessingError struct {
	Message string
}

func (e *ProcessingError) Error() string { return e.Message }

// NotFoundError means the referenced plan or norm no longer exists.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// IsUnreachable reports whether err classifies as a transport failure.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// IsNotFound reports whether err classifies as a missing resource.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
