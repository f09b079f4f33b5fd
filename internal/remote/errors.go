package remote

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the job description is blank.
var ErrEmptyInput = errors.New("job description is empty")

// AuthError is returned on 401 responses. It is never retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("keyword extraction unauthorized: %s", e.Message)
}

// QuotaError is returned on 429 responses. It is never retried.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("keyword extraction quota exceeded: %s", e.Message)
}

// HTTPError is any other non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("keyword extraction failed with status %d: %s", e.StatusCode, e.Body)
}

// ResponseError is returned when a 2xx body does not match the extraction contract.
type ResponseError struct {
	Message string
	Cause   error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid extraction response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid extraction response: %s", e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// RequestError wraps transport failures (DNS, connection reset, timeout).
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("keyword extraction request failed: %s: %v", e.Message, e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// IsTerminal reports whether err must not be retried and should be surfaced to the user.
func IsTerminal(err error) bool {
	var authErr *AuthError
	var quotaErr *QuotaError
	return errors.As(err, &authErr) || errors.As(err, &quotaErr)
}
