package suggestions

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-matcher/internal/types"
)

// ApplyError is returned when a suggestion cannot be applied to a resume.
// The resume is never partially modified.
type ApplyError struct {
	Message  string
	Section  types.ResumeSection
	Original string
	Cause    error
}

func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("apply suggestion error: %s", e.Message)
	if e.Section != "" {
		msg = fmt.Sprintf("%s (section %s)", msg, e.Section)
	}
	if e.Original != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Original)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ApplyError) Unwrap() error {
	return e.Cause
}

// SafetyError is returned when a suggestion would remove factual content
// (emails, phone numbers, numbers) present in the original text.
type SafetyError struct {
	SuggestionID string
	Dropped      []Token
}

func (e *SafetyError) Error() string {
	parts := make([]string, 0, len(e.Dropped))
	for _, tok := range e.Dropped {
		parts = append(parts, fmt.Sprintf("%s %q", tok.Kind, tok.Value))
	}
	return fmt.Sprintf("suggestion %s rejected: it would remove %s", e.SuggestionID, strings.Join(parts, ", "))
}
