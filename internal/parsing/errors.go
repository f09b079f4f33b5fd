package parsing

import "fmt"

// InputError rejects a job description before any model call.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ModelError wraps a failure to prepare or run the extraction prompt.
type ModelError struct {
	Stage string
	Cause error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("keyword extraction: %s: %v", e.Stage, e.Cause)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// OutputError means the model answered with something that is not the
// expected keyword JSON.
type OutputError struct {
	Message string
	Cause   error
}

func (e *OutputError) Error() string {
	if e.Cause == nil {
		return "unusable model output: " + e.Message
	}
	return fmt.Sprintf("unusable model output: %s: %v", e.Message, e.Cause)
}

func (e *OutputError) Unwrap() error {
	return e.Cause
}

// ResultError reports keywords that parsed but break the wire contract.
type ResultError struct {
	Cause error
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("extracted keywords rejected: %v", e.Cause)
}

func (e *ResultError) Unwrap() error {
	return e.Cause
}
