// Package server provides the HTTP API for keyword extraction, scoring, and suggestions.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/ats-matcher/internal/fetch"
	"github.com/jonathan/ats-matcher/internal/ingestion"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/pipeline"
	"github.com/jonathan/ats-matcher/internal/suggestions"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrQuotaExceeded indicates the caller used up its hourly request quota
type ErrQuotaExceeded struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("hourly quota of %d requests exceeded, retry in %s", e.Limit, e.RetryAfter.Round(time.Second))
}

// ErrNotConfigured indicates an endpoint whose backing dependency is absent
type ErrNotConfigured struct {
	Feature string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		quota      *ErrQuotaExceeded
		notConfig  *ErrNotConfigured
		applyErr   *suggestions.ApplyError
		safetyErr  *suggestions.SafetyError
		fetchErr   *fetch.Error
	)
	switch {
	case errors.As(err, &validation),
		errors.Is(err, matching.ErrEmptyJobDescription),
		errors.Is(err, matching.ErrEmptyResume),
		errors.Is(err, pipeline.ErrNoJobSource),
		errors.Is(err, ingestion.ErrEmptyPosting):
		return http.StatusBadRequest
	case errors.As(err, &quota):
		return http.StatusTooManyRequests
	case errors.As(err, &notConfig):
		return http.StatusServiceUnavailable
	case errors.As(err, &applyErr), errors.As(err, &safetyErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
