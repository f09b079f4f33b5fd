package suggestions

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-matcher/internal/types"
)

// TokenKind names a class of factual content protected by the safety check.
type TokenKind string

// Protected token kinds
const (
	TokenEmail  TokenKind = "email"
	TokenPhone  TokenKind = "phone number"
	TokenNumber TokenKind = "number"
)

// Token is a piece of factual content found in a suggestion's original text.
type Token struct {
	Kind  TokenKind `json:"kind"`
	Value string    `json:"value"`
}

var (
	emailPattern  = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9-]+(?:\.[a-z0-9-]+)+`)
	phonePattern  = regexp.MustCompile(`\+?\(?\d[\d\s().-]{6,}\d`)
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
)

// ProtectedTokens lists the emails, phone numbers, and numbers in text.
// Digits inside an email or phone number are not reported again as numbers.
func ProtectedTokens(text string) []Token {
	var tokens []Token

	rest := text
	for _, m := range emailPattern.FindAllString(rest, -1) {
		tokens = append(tokens, Token{Kind: TokenEmail, Value: m})
	}
	rest = emailPattern.ReplaceAllString(rest, " ")

	for _, m := range phonePattern.FindAllString(rest, -1) {
		if len(digitsOf(m)) >= 7 {
			tokens = append(tokens, Token{Kind: TokenPhone, Value: strings.TrimSpace(m)})
		}
	}
	rest = phonePattern.ReplaceAllStringFunc(rest, func(m string) string {
		if len(digitsOf(m)) >= 7 {
			return " "
		}
		return m
	})

	for _, m := range numberPattern.FindAllString(rest, -1) {
		tokens = append(tokens, Token{Kind: TokenNumber, Value: m})
	}
	return tokens
}

// CheckSafety returns a SafetyError when the suggestion's replacement text
// drops any protected token present in its original text.
func CheckSafety(s types.EditSuggestion) error {
	var dropped []Token
	lower := strings.ToLower(s.Suggestion)
	phones := make(map[string]bool)
	for _, m := range phonePattern.FindAllString(s.Suggestion, -1) {
		phones[digitsOf(m)] = true
	}
	numbers := make(map[string]bool)
	for _, m := range numberPattern.FindAllString(s.Suggestion, -1) {
		numbers[m] = true
	}

	for _, tok := range ProtectedTokens(s.Original) {
		var kept bool
		switch tok.Kind {
		case TokenEmail:
			kept = strings.Contains(lower, strings.ToLower(tok.Value))
		case TokenPhone:
			// Reformatting a phone number is fine as long as the digits survive.
			kept = phones[digitsOf(tok.Value)]
		default:
			kept = numbers[tok.Value]
		}
		if !kept {
			dropped = append(dropped, tok)
		}
	}

	if len(dropped) > 0 {
		return &SafetyError{SuggestionID: s.ID, Dropped: dropped}
	}
	return nil
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
