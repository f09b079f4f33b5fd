package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/matching"
	"github.com/jonathan/ats-matcher/internal/parsing"
	"github.com/jonathan/ats-matcher/internal/pipeline"
	"github.com/jonathan/ats-matcher/internal/server/middleware"
	"github.com/jonathan/ats-matcher/internal/suggestions"
	"github.com/jonathan/ats-matcher/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; resumes and postings are small.
const maxBodyBytes = 1 << 20

// ScoreRequest is the body of POST /score. Resume takes precedence over ResumeText.
type ScoreRequest struct {
	JobDescription string        `json:"jobDescription" validate:"required"`
	ResumeText     string        `json:"resumeText,omitempty"`
	Resume         *types.Resume `json:"resume,omitempty"`
}

// SuggestionsRequest is the body of POST /suggestions.
type SuggestionsRequest struct {
	Text    string              `json:"text" validate:"required"`
	Section types.ResumeSection `json:"section" validate:"required,oneof=summary experience skills education contact"`
}

// SuggestionsResponse lists generated suggestions.
type SuggestionsResponse struct {
	Suggestions []types.EditSuggestion `json:"suggestions"`
}

// ApplyRequest is the body of POST /suggestions/apply. Safe rejects edits
// that would drop emails, phone numbers, or figures.
type ApplyRequest struct {
	Resume      *types.Resume          `json:"resume"`
	Suggestions []types.EditSuggestion `json:"suggestions"`
	Safe        bool                   `json:"safe"`
}

// ApplyResponse carries the edited resume.
type ApplyResponse struct {
	Resume  *types.Resume `json:"resume"`
	Applied int           `json:"applied"`
}

// AnalyzeStreamRequest is the body of POST /analyze/stream. Exactly one of
// JobDescription and JobURL must be set.
type AnalyzeStreamRequest struct {
	JobDescription string        `json:"jobDescription,omitempty"`
	JobURL         string        `json:"jobUrl,omitempty"`
	Resume         *types.Resume `json:"resume"`
	Save           bool          `json:"save,omitempty"`
}

// HistoryResponse lists saved scores, newest first.
type HistoryResponse struct {
	Records []db.ScoreRecord `json:"records"`
}

func errorBody(message string, err error) types.ErrorResponse {
	body := types.ErrorResponse{Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	return body
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed on '" + fe.Tag() + "'"}
	}
	if err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// handleKeywordExtraction extracts keywords from a job description with the model.
// Authenticated callers are charged against their hourly quota.
func (s *Server) handleKeywordExtraction(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		s.errorResponse(w, "Job description is required",
			&ErrValidation{Field: "jobDescription", Message: "must not be empty"})
		return
	}
	if s.deps.LLM == nil {
		s.errorResponse(w, "Keyword extraction unavailable", &ErrNotConfigured{Feature: "keyword extraction"})
		return
	}
	if userID, err := middleware.GetUserID(r); err == nil {
		if err := s.quota.Allow(userID); err != nil {
			s.log.Info("quota exceeded", zap.String("user_id", userID.String()))
			s.errorResponse(w, "Rate limit exceeded", err)
			return
		}
	}

	result, meta, err := parsing.ExtractKeywords(r.Context(), s.deps.LLM, req.JobDescription)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, errorBody("Failed to extract keywords", err))
		s.log.Error("keyword extraction failed", zap.Error(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ExtractionResponse{Success: true, Data: result, Meta: meta})
}

// handleScore scores a resume against a job description.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, "Invalid request body", err)
		return
	}

	var (
		analysis *matching.Analysis
		err      error
	)
	if req.Resume != nil {
		analysis, err = s.deps.Analyzer.AnalyzeResume(r.Context(), req.JobDescription, req.Resume)
	} else {
		analysis, err = s.deps.Analyzer.Analyze(r.Context(), req.JobDescription, req.ResumeText)
	}
	if err != nil {
		s.errorResponse(w, "Scoring failed", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleSuggestions generates rule-based edit suggestions for one section's text.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, "Invalid request body", err)
		return
	}
	if err := s.validateStruct(&req); err != nil {
		s.errorResponse(w, "Invalid request", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SuggestionsResponse{
		Suggestions: suggestions.Generate(req.Text, req.Section),
	})
}

// handleApplySuggestions applies suggestions in order. Any failure leaves the
// submitted resume untouched and nothing is returned but the error.
func (s *Server) handleApplySuggestions(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, "Invalid request body", err)
		return
	}
	if req.Resume == nil {
		s.errorResponse(w, "Invalid request", &ErrValidation{Field: "resume", Message: "is required"})
		return
	}
	if len(req.Suggestions) == 0 {
		s.errorResponse(w, "Invalid request", &ErrValidation{Field: "suggestions", Message: "at least one is required"})
		return
	}
	for i := range req.Suggestions {
		if err := req.Suggestions[i].Validate(); err != nil {
			s.errorResponse(w, "Invalid request",
				&ErrValidation{Field: "suggestions[" + strconv.Itoa(i) + "]", Message: err.Error()})
			return
		}
	}

	apply := suggestions.ApplyMultiple
	if req.Safe {
		apply = suggestions.ApplyMultipleSafely
	}
	updated, err := apply(req.Resume, req.Suggestions)
	if err != nil {
		s.errorResponse(w, "Failed to apply suggestions", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ApplyResponse{Resume: updated, Applied: len(req.Suggestions)})
}

// handleAnalyzeStream runs the full pipeline, streaming each step as an SSE
// progress event followed by a result event and a complete event.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeStreamRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, "Invalid request body", err)
		return
	}
	if req.Resume == nil {
		s.errorResponse(w, "Invalid request", &ErrValidation{Field: "resume", Message: "is required"})
		return
	}
	if (strings.TrimSpace(req.JobDescription) == "") == (strings.TrimSpace(req.JobURL) == "") {
		s.errorResponse(w, "Invalid request", pipeline.ErrNoJobSource)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, "Streaming unavailable", err)
		return
	}

	opts := pipeline.RunOptions{
		JobText:  req.JobDescription,
		JobURL:   req.JobURL,
		Resume:   req.Resume,
		Fetch:    s.deps.Fetch,
		Analyzer: s.deps.Analyzer,
		Logger:   s.log,
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent(EventProgress, event); err != nil {
				s.log.Debug("progress event dropped", zap.Error(err))
			}
		},
	}
	if req.Save {
		opts.Store = s.deps.Store
	}

	result, err := pipeline.Run(r.Context(), opts)
	if err != nil {
		sse.WriteError("Analysis failed", err)
		sse.WriteComplete("failed")
		return
	}
	if err := sse.WriteEvent(EventResult, result); err != nil {
		s.log.Warn("writing result event failed", zap.Error(err))
		return
	}
	sse.WriteComplete("completed")
}

// handleHistory lists saved scores. ?limit=N bounds the list.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		s.errorResponse(w, "History unavailable", &ErrNotConfigured{Feature: "score history"})
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.errorResponse(w, "Invalid limit", &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}
	records, err := s.deps.Store.ListScores(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, "Failed to list history", err)
		return
	}
	if records == nil {
		records = []db.ScoreRecord{}
	}
	s.jsonResponse(w, http.StatusOK, HistoryResponse{Records: records})
}
