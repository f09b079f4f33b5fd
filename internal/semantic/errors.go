package semantic

import (
	"errors"
	"fmt"
	"time"
)

// ErrWorkerClosed is returned for requests sent after the worker stopped.
var ErrWorkerClosed = errors.New("semantic worker closed")

// TimeoutError reports that model loading or a request exceeded its deadline.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("semantic %s timed out after %s", e.Op, e.Timeout)
}

// DisabledError is returned once semantic extraction has been switched off
// for the session.
type DisabledError struct {
	Reason error
}

func (e *DisabledError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("semantic extraction disabled: %v", e.Reason)
	}
	return "semantic extraction disabled"
}

func (e *DisabledError) Unwrap() error {
	return e.Reason
}

// ModelError reports a model load or inference failure.
type ModelError struct {
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding model error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding model error: %s", e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// RequestError reports a request that failed boundary validation.
type RequestError struct {
	Kind  Kind
	Cause error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s request: %v", e.Kind, e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
