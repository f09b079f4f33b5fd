// Package types provides the value objects shared by extraction, matching, and suggestions.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MaxRemoteDescriptionChars is how much of a job description the client sends to the extraction endpoint.
const MaxRemoteDescriptionChars = 5000

// ExtractionRequest is the body of POST /keyword-extraction.
type ExtractionRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

// ExtractionMeta carries usage details about the model call behind an extraction.
type ExtractionMeta struct {
	TokensUsed int    `json:"tokensUsed"`
	Model      string `json:"model"`
}

// ExtractionResponse is the success envelope of POST /keyword-extraction.
type ExtractionResponse struct {
	Success bool              `json:"success"`
	Data    *ExtractionResult `json:"data"`
	Meta    *ExtractionMeta   `json:"meta,omitempty"`
}

// ErrorResponse is the error body of the HTTP API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Validate checks the request's required fields.
func (r *ExtractionRequest) Validate() error {
	return newValidator().Struct(r)
}
