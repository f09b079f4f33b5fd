package semantic

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Kind discriminates worker messages.
type Kind string

// Request kinds
const (
	KindExtractKeywords     Kind = "extract_keywords"
	KindGenerateEmbedding   Kind = "generate_embedding"
	KindCalculateSimilarity Kind = "calculate_similarity"
	KindUnloadModel         Kind = "unload_model"
)

// Response and event kinds
const (
	KindReady            Kind = "ready"
	KindLoadingProgress  Kind = "loading_progress"
	KindError            Kind = "error"
	KindKeywordsResult   Kind = "keywords_result"
	KindEmbeddingResult  Kind = "embedding_result"
	KindSimilarityResult Kind = "similarity_result"
	KindUnloadComplete   Kind = "unload_complete"
)

var validate = validator.New()

// Request is a message sent to the worker. Every request type validates its
// own payload before it is queued.
type Request interface {
	Kind() Kind
	Validate() error
}

// ExtractKeywords asks for the topN candidates most similar to Text.
type ExtractKeywords struct {
	Text string `validate:"required"`
	TopN int    `validate:"min=1,max=500"`
}

// GenerateEmbedding asks for the embedding of Text.
type GenerateEmbedding struct {
	Text string `validate:"required"`
}

// CalculateSimilarity asks for the cosine similarity of two vectors.
type CalculateSimilarity struct {
	A []float32 `validate:"required,min=1"`
	B []float32 `validate:"required,min=1"`
}

// UnloadModel asks the worker to release the loaded model.
type UnloadModel struct{}

// Kind implements Request.
func (ExtractKeywords) Kind() Kind { return KindExtractKeywords }

// Kind implements Request.
func (GenerateEmbedding) Kind() Kind { return KindGenerateEmbedding }

// Kind implements Request.
func (CalculateSimilarity) Kind() Kind { return KindCalculateSimilarity }

// Kind implements Request.
func (UnloadModel) Kind() Kind { return KindUnloadModel }

// Validate implements Request.
func (r ExtractKeywords) Validate() error { return validateRequest(r.Kind(), r) }

// Validate implements Request.
func (r GenerateEmbedding) Validate() error { return validateRequest(r.Kind(), r) }

// Validate implements Request.
func (r CalculateSimilarity) Validate() error {
	if err := validateRequest(r.Kind(), r); err != nil {
		return err
	}
	if len(r.A) != len(r.B) {
		return &RequestError{Kind: r.Kind(), Cause: fmt.Errorf("vector lengths differ: %d vs %d", len(r.A), len(r.B))}
	}
	return nil
}

// Validate implements Request.
func (UnloadModel) Validate() error { return nil }

func validateRequest(kind Kind, r any) error {
	if err := validate.Struct(r); err != nil {
		return &RequestError{Kind: kind, Cause: err}
	}
	return nil
}

// Response is a correlated reply from the worker.
type Response interface {
	Kind() Kind
	CorrelationID() string
}

// ScoredKeyword is a candidate with its cosine similarity to the document.
type ScoredKeyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// KeywordsResult answers ExtractKeywords, best match first.
type KeywordsResult struct {
	ID       string
	Keywords []ScoredKeyword
}

// EmbeddingResult answers GenerateEmbedding.
type EmbeddingResult struct {
	ID     string
	Vector []float32
}

// SimilarityResult answers CalculateSimilarity.
type SimilarityResult struct {
	ID    string
	Score float64
}

// UnloadComplete answers UnloadModel.
type UnloadComplete struct {
	ID string
}

// ErrorResult answers any request that failed.
type ErrorResult struct {
	ID  string
	Err error
}

// Kind implements Response.
func (KeywordsResult) Kind() Kind { return KindKeywordsResult }

// Kind implements Response.
func (EmbeddingResult) Kind() Kind { return KindEmbeddingResult }

// Kind implements Response.
func (SimilarityResult) Kind() Kind { return KindSimilarityResult }

// Kind implements Response.
func (UnloadComplete) Kind() Kind { return KindUnloadComplete }

// Kind implements Response.
func (ErrorResult) Kind() Kind { return KindError }

// CorrelationID implements Response.
func (r KeywordsResult) CorrelationID() string { return r.ID }

// CorrelationID implements Response.
func (r EmbeddingResult) CorrelationID() string { return r.ID }

// CorrelationID implements Response.
func (r SimilarityResult) CorrelationID() string { return r.ID }

// CorrelationID implements Response.
func (r UnloadComplete) CorrelationID() string { return r.ID }

// CorrelationID implements Response.
func (r ErrorResult) CorrelationID() string { return r.ID }

// Event is an uncorrelated notification published by the worker.
type Event interface {
	Kind() Kind
}

// Ready is published once the model has loaded.
type Ready struct{}

// LoadingProgress is published while the model loads.
type LoadingProgress struct {
	File     string
	Progress float64
	Loaded   int64
	Total    int64
}

// LoadFailed is published when the model could not be loaded.
type LoadFailed struct {
	Err error
}

// Kind implements Event.
func (Ready) Kind() Kind { return KindReady }

// Kind implements Event.
func (LoadingProgress) Kind() Kind { return KindLoadingProgress }

// Kind implements Event.
func (LoadFailed) Kind() Kind { return KindError }
