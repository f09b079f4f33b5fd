package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS score_history (
	id               TEXT PRIMARY KEY,
	resume_id        TEXT NOT NULL DEFAULT '',
	job_title        TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	job_url          TEXT NOT NULL DEFAULT '',
	score            INTEGER NOT NULL,
	strategy         TEXT NOT NULL,
	matched_keywords TEXT NOT NULL,
	missing_keywords TEXT NOT NULL,
	created_at       TEXT NOT NULL
)`

// sqliteTime keeps a fixed width so that text ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is the local score-history store.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1) // single writer

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: conn}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveScore inserts a score record.
func (s *SQLiteStore) SaveScore(ctx context.Context, rec ScoreRecord) error {
	rec, matched, missing, err := prepare(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_history
		 (id, resume_id, job_title, company, job_url, score, strategy, matched_keywords, missing_keywords, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.ResumeID, rec.JobTitle, rec.Company, rec.JobURL,
		rec.Score, rec.Strategy, string(matched), string(missing), rec.CreatedAt.UTC().Format(sqliteTime),
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// ListScores returns the most recent records, newest first.
func (s *SQLiteStore) ListScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, resume_id, job_title, company, job_url, score, strategy,
		        matched_keywords, missing_keywords, created_at
		 FROM score_history ORDER BY created_at DESC LIMIT ?`,
		limitOrDefault(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []ScoreRecord{}
	for rows.Next() {
		var rec ScoreRecord
		var id, matched, missing, createdAt string
		if err := rows.Scan(&id, &rec.ResumeID, &rec.JobTitle, &rec.Company, &rec.JobURL,
			&rec.Score, &rec.Strategy, &matched, &missing, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid score id %q: %w", id, err)
		}
		if rec.CreatedAt, err = time.Parse(sqliteTime, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		if err := decodeKeywords(&rec, []byte(matched), []byte(missing)); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return records, nil
}
