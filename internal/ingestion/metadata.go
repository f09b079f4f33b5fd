package ingestion

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

var now = time.Now

// Metadata describes where an ingested posting came from.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // xxhash64 of the cleaned text, hex
	Chars     int    `json:"chars"`
}

// NewMetadata stamps cleaned content with its hash and the current time.
func NewMetadata(content, url, platform string) *Metadata {
	return &Metadata{
		URL:       url,
		Platform:  platform,
		Timestamp: now().UTC().Format(time.RFC3339),
		Hash:      Fingerprint(content),
		Chars:     len(content),
	}
}

// Fingerprint identifies posting content; identical cleaned text always
// yields the same 16-character value.
func Fingerprint(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// ToJSON marshals Metadata to indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return data, nil
}
