package matching

import (
	"errors"
	"fmt"
)

// Input errors
var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrEmptyResume         = errors.New("resume text is empty")
)

// errNoKeywords is the cause when a strategy ran but found nothing to match against.
var errNoKeywords = errors.New("no keywords extracted")

// ExtractionFailedError is returned when every strategy in the chain failed.
type ExtractionFailedError struct {
	Strategy Strategy
	Cause    error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("keyword extraction failed (last strategy %s): %v", e.Strategy, e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}
