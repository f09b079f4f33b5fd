// Package db persists score history in SQLite (default) or PostgreSQL.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-matcher/internal/types"
)

// Drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultListLimit is used when ListScores is called with a non-positive limit.
const DefaultListLimit = 20

// ScoreRecord is one saved score calculation.
type ScoreRecord struct {
	ID              uuid.UUID `json:"id"`
	ResumeID        string    `json:"resumeId,omitempty"`
	JobTitle        string    `json:"jobTitle,omitempty"`
	Company         string    `json:"company,omitempty"`
	JobURL          string    `json:"jobUrl,omitempty"`
	Score           int       `json:"score"`
	Strategy        string    `json:"strategy"`
	MatchedKeywords []string  `json:"matchedKeywords"`
	MissingKeywords []string  `json:"missingKeywords"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewScoreRecord builds a record from a score with a fresh ID.
func NewScoreRecord(score types.ATSScore, strategy string) ScoreRecord {
	return ScoreRecord{
		ID:              uuid.New(),
		Score:           score.Score,
		Strategy:        strategy,
		MatchedKeywords: score.MatchedKeywords,
		MissingKeywords: score.MissingKeywords,
		CreatedAt:       time.Now().UTC(),
	}
}

// Store saves and lists score history.
type Store interface {
	SaveScore(ctx context.Context, rec ScoreRecord) error
	ListScores(ctx context.Context, limit int) ([]ScoreRecord, error)
	Close() error
}

// Open connects to the store named by driver. An empty SQLite DSN uses
// DefaultSQLitePath.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverSQLite:
		if dsn == "" {
			path, err := DefaultSQLitePath()
			if err != nil {
				return nil, err
			}
			dsn = path
		}
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return Connect(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

// DefaultSQLitePath returns the history database path under the user config dir.
func DefaultSQLitePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	dir = filepath.Join(dir, "ats-matcher")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

func prepare(rec ScoreRecord) (ScoreRecord, []byte, []byte, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	matched, err := json.Marshal(nonNil(rec.MatchedKeywords))
	if err != nil {
		return rec, nil, nil, fmt.Errorf("failed to marshal matched keywords: %w", err)
	}
	missing, err := json.Marshal(nonNil(rec.MissingKeywords))
	if err != nil {
		return rec, nil, nil, fmt.Errorf("failed to marshal missing keywords: %w", err)
	}
	return rec, matched, missing, nil
}

func decodeKeywords(rec *ScoreRecord, matched, missing []byte) error {
	if err := json.Unmarshal(matched, &rec.MatchedKeywords); err != nil {
		return fmt.Errorf("failed to decode matched keywords: %w", err)
	}
	if err := json.Unmarshal(missing, &rec.MissingKeywords); err != nil {
		return fmt.Errorf("failed to decode missing keywords: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
