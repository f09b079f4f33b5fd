// Package types provides the value objects shared by extraction, matching, and suggestions.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SuggestionType classifies an edit suggestion.
type SuggestionType string

// Suggestion types
const (
	SuggestionActionVerb     SuggestionType = "action_verb"
	SuggestionPassiveVoice   SuggestionType = "passive_voice"
	SuggestionFormatting     SuggestionType = "formatting"
	SuggestionClarity        SuggestionType = "clarity"
	SuggestionQuantification SuggestionType = "quantification"
)

// EditSuggestion is a proposed rewrite of one sentence or bullet in a resume section.
type EditSuggestion struct {
	ID         string         `json:"id" validate:"required"`
	Type       SuggestionType `json:"type" validate:"required,oneof=action_verb passive_voice formatting clarity quantification"`
	Original   string         `json:"original" validate:"required"`
	Suggestion string         `json:"suggestion"`
	Rationale  string         `json:"rationale"`
	Section    ResumeSection  `json:"section" validate:"required,oneof=summary experience skills education contact"`
	Confidence float64        `json:"confidence" validate:"min=0,max=1"`
	Diff       []DiffOp       `json:"diff,omitempty"`
}

// DiffKind is the kind of a word-level diff operation.
type DiffKind string

// Diff operation kinds
const (
	DiffEqual  DiffKind = "equal"
	DiffInsert DiffKind = "insert"
	DiffDelete DiffKind = "delete"
)

// DiffOp is a run of words that were kept, inserted, or deleted.
type DiffOp struct {
	Kind DiffKind `json:"kind"`
	Text string   `json:"text"`
}

// Validate checks the suggestion's required fields and enums.
func (s *EditSuggestion) Validate() error {
	return newValidator().Struct(s)
}
